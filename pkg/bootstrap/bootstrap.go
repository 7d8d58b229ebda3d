// Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
// See LICENSE for license information.

// Package bootstrap wires the long-running backfill service together:
// config, logging, the experiment-store client, the cron jobs and the
// health server.
package bootstrap

import (
	"context"

	"github.com/AMD-AGI/Primus-Bench/pkg/common"
	"github.com/AMD-AGI/Primus-Bench/pkg/config"
	"github.com/AMD-AGI/Primus-Bench/pkg/errors"
	"github.com/AMD-AGI/Primus-Bench/pkg/jobs"
	"github.com/AMD-AGI/Primus-Bench/pkg/jobs/mfu_backfill"
	"github.com/AMD-AGI/Primus-Bench/pkg/logger/conf"
	"github.com/AMD-AGI/Primus-Bench/pkg/logger/log"
	"github.com/AMD-AGI/Primus-Bench/pkg/mfu"
	"github.com/AMD-AGI/Primus-Bench/pkg/server"
	"github.com/AMD-AGI/Primus-Bench/pkg/store"
)

// Options carries the parts of the service setup the caller can override.
type Options struct {
	// HistoryPath is where job execution history is appended. Empty
	// disables history recording.
	HistoryPath string

	// BackfillSchedule overrides the cron expression of the backfill job.
	BackfillSchedule string

	// Overwrite recomputes runs that already carry an MFU summary.
	Overwrite bool
}

// Init starts the backfill service and returns once the jobs are scheduled.
func Init(ctx context.Context, opts Options) error {
	if err := config.LoadConfig(); err != nil {
		return errors.WrapError(err, "load config", errors.CodeInitializeError)
	}
	logCfg := &conf.LogConfig{
		Level:     conf.Level(config.GetLogLevel()),
		Formatter: conf.Formatter(config.GetLogFormatter()),
	}
	logCfg.Normalize()
	if err := log.InitGlobalLogger(logCfg); err != nil {
		return errors.WrapError(err, "init logger", errors.CodeInitializeError)
	}

	endpoint := config.GetStoreEndpoint()
	if endpoint == "" {
		return errors.NewError().
			WithCode(errors.CodeLackOfConfig).
			WithMessage("store.endpoint is required")
	}
	storeClient := store.NewClient(endpoint, config.GetStoreApiKey())

	backfillCfg := &mfu_backfill.MfuBackfillConfig{
		Enabled:       true,
		Tag:           config.GetStoreTag(),
		Schedule:      opts.BackfillSchedule,
		HardwareFLOPs: config.GetHardwareFlopsPerSecond(),
		Architecture: mfu.ArchitectureConstants{
			Parameters:    config.GetModelParameters(),
			Layers:        config.GetModelLayers(),
			Heads:         config.GetModelHeads(),
			HeadDimension: config.GetModelHeadDimension(),
		},
		Overwrite: opts.Overwrite,
	}
	if err := backfillCfg.Architecture.Validate(); err != nil {
		return err
	}

	jobs.InitJobs(backfillCfg)
	history := common.NewHistoryService(opts.HistoryPath)
	if err := jobs.Start(ctx, storeClient, history); err != nil {
		return errors.WrapError(err, "start job runner", errors.CodeInitializeError)
	}

	if port := config.GetServerPort(); port > 0 {
		server.AddDefaultRegister("/healthz", func() (interface{}, error) {
			return map[string]string{"status": "ok"}, nil
		})
		server.InitHealthServer(int(port))
	}

	log.Infof("backfill service started, tag=%q schedule=%q", backfillCfg.Tag, backfillCfg.Schedule)
	return nil
}
