// Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
// See LICENSE for license information.

package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/AMD-AGI/Primus-Bench/pkg/bootstrap"
	"github.com/AMD-AGI/Primus-Bench/pkg/config"
	"github.com/AMD-AGI/Primus-Bench/pkg/jobs/mfu_backfill"
	"github.com/AMD-AGI/Primus-Bench/pkg/logger/log"
	"github.com/AMD-AGI/Primus-Bench/pkg/mfu"
	"github.com/AMD-AGI/Primus-Bench/pkg/store"
)

var (
	daemon        = flag.Bool("daemon", false, "Run as a service on the configured schedule instead of once")
	schedule      = flag.String("schedule", mfu_backfill.DefaultSchedule, "The cron schedule in daemon mode")
	overwrite     = flag.Bool("overwrite", false, "Recompute runs that already carry an MFU summary")
	historyPath   = flag.String("history", "", "The job history file, empty disables history recording")
	storeEndpoint = flag.String("storeEndpoint", "", "The experiment store endpoint")
	storeTag      = flag.String("storeTag", "", "The tag selecting runs to backfill")
)

func main() {
	flag.Parse()

	if *storeEndpoint != "" {
		config.SetValue("store.endpoint", *storeEndpoint)
	}
	if *storeTag != "" {
		config.SetValue("store.tag", *storeTag)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if *daemon {
		err := bootstrap.Init(ctx, bootstrap.Options{
			HistoryPath:      *historyPath,
			BackfillSchedule: *schedule,
			Overwrite:        *overwrite,
		})
		if err != nil {
			log.Fatalf("failed to start backfill service: %v", err)
		}
		<-ctx.Done()
		return
	}

	if err := runOnce(ctx); err != nil {
		log.Errorf("backfill failed: %v", err)
		os.Exit(1)
	}
}

func runOnce(ctx context.Context) error {
	if err := config.LoadConfig(); err != nil {
		return err
	}

	job := mfu_backfill.NewMfuBackfillJob(mfu_backfill.WithConfig(&mfu_backfill.MfuBackfillConfig{
		Enabled:       true,
		Tag:           config.GetStoreTag(),
		HardwareFLOPs: config.GetHardwareFlopsPerSecond(),
		Architecture: mfu.ArchitectureConstants{
			Parameters:    config.GetModelParameters(),
			Layers:        config.GetModelLayers(),
			Heads:         config.GetModelHeads(),
			HeadDimension: config.GetModelHeadDimension(),
		},
		Overwrite: *overwrite,
	}))

	storeClient := store.NewClient(config.GetStoreEndpoint(), config.GetStoreApiKey())
	stats, err := job.Run(ctx, storeClient)
	if err != nil {
		return err
	}
	log.WithFields(log.Fields{
		"runs_examined":       stats.RunsExamined,
		"runs_skipped":        stats.RunsSkipped,
		"summaries_committed": stats.SummariesCommitted,
		"errors":              stats.ErrorCount,
	}).Info("backfill finished")
	return nil
}
