// Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
// See LICENSE for license information.

// Package jobs schedules the recurring maintenance jobs of the benchmark
// service, currently the MFU backfill over finished runs in the experiment
// store.
package jobs

import (
	"context"

	"github.com/AMD-AGI/Primus-Bench/pkg/common"
	"github.com/AMD-AGI/Primus-Bench/pkg/jobs/mfu_backfill"
	"github.com/AMD-AGI/Primus-Bench/pkg/store"
)

type Job interface {
	Run(ctx context.Context, storeClient *store.Client) (*common.ExecutionStats, error)
	Schedule() string
}

var jobs = []Job{}

func InitJobs(cfg *mfu_backfill.MfuBackfillConfig) {
	jobs = []Job{
		mfu_backfill.NewMfuBackfillJob(mfu_backfill.WithConfig(cfg)),
	}
}
