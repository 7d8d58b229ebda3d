// Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
// See LICENSE for license information.

package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/AMD-AGI/Primus-Bench/pkg/common"
	"github.com/AMD-AGI/Primus-Bench/pkg/logger/log"
	"github.com/AMD-AGI/Primus-Bench/pkg/store"
)

func Start(ctx context.Context, storeClient *store.Client, history *common.HistoryService) error {
	c := cron.New()
	for _, job := range jobs {
		job := job
		_, err := c.AddFunc(job.Schedule(), func() {
			start := time.Now()
			stats, err := job.Run(ctx, storeClient)
			recordJobExecution(job, start, stats, err)
			if history != nil {
				history.RecordJobExecution(job, common.NewExecutionResult(start, stats, err))
			}
			if err != nil {
				log.Errorf("Job error %v", err)
			}
		})
		if err != nil {
			return err
		}
	}
	c.Start()
	return nil
}
