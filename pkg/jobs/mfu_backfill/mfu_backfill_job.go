// Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
// See LICENSE for license information.

package mfu_backfill

import (
	"context"
	"time"

	"github.com/AMD-AGI/Primus-Bench/pkg/common"
	"github.com/AMD-AGI/Primus-Bench/pkg/errors"
	"github.com/AMD-AGI/Primus-Bench/pkg/logger/log"
	"github.com/AMD-AGI/Primus-Bench/pkg/mfu"
	"github.com/AMD-AGI/Primus-Bench/pkg/store"
)

const DefaultSchedule = "@every 1h"

// MfuBackfillConfig is the configuration for the MFU backfill job
type MfuBackfillConfig struct {
	// Enabled controls whether the job is enabled
	Enabled bool `json:"enabled"`

	// Tag selects the runs to backfill
	Tag string `json:"tag"`

	// Schedule is the cron expression the job runs on
	Schedule string `json:"schedule"`

	// HardwareFLOPs is the per-device theoretical peak in FLOP/s
	HardwareFLOPs float64 `json:"hardware_flops"`

	// Architecture holds the model constants the estimate depends on
	Architecture mfu.ArchitectureConstants `json:"architecture"`

	// Overwrite recomputes runs that already carry an MFU summary
	Overwrite bool `json:"overwrite"`
}

// ListRunsFunc is the function signature for listing runs from the store
type ListRunsFunc func(ctx context.Context, client *store.Client, tag string) ([]store.Run, error)

// MfuBackfillJob computes mean_mfu and max_tokens_theoretical for every
// finished run under the configured tag and writes the results back to the
// experiment store. A run that cannot be processed is skipped; the job keeps
// going and reports the failure in its stats.
type MfuBackfillJob struct {
	config       *MfuBackfillConfig
	listRunsFunc ListRunsFunc
}

// JobOption is a function that configures a MfuBackfillJob
type JobOption func(*MfuBackfillJob)

// WithConfig sets the job configuration
func WithConfig(cfg *MfuBackfillConfig) JobOption {
	return func(j *MfuBackfillJob) {
		if cfg != nil {
			j.config = cfg
		}
	}
}

// WithListRunsFunc sets the run listing function
func WithListRunsFunc(fn ListRunsFunc) JobOption {
	return func(j *MfuBackfillJob) {
		j.listRunsFunc = fn
	}
}

func defaultListRunsFunc(ctx context.Context, client *store.Client, tag string) ([]store.Run, error) {
	return client.ListRuns(ctx, tag)
}

// NewMfuBackfillJob creates a new MFU backfill job
func NewMfuBackfillJob(opts ...JobOption) *MfuBackfillJob {
	j := &MfuBackfillJob{
		config: &MfuBackfillConfig{
			Enabled:      true,
			Schedule:     DefaultSchedule,
			Architecture: mfu.ReferenceArchitecture,
		},
		listRunsFunc: defaultListRunsFunc,
	}
	for _, opt := range opts {
		opt(j)
	}
	if j.config.Schedule == "" {
		j.config.Schedule = DefaultSchedule
	}
	return j
}

func (j *MfuBackfillJob) Schedule() string {
	return j.config.Schedule
}

func (j *MfuBackfillJob) Run(ctx context.Context, storeClient *store.Client) (*common.ExecutionStats, error) {
	stats := common.NewExecutionStats()
	if !j.config.Enabled {
		stats.AddMessage("mfu backfill disabled")
		return stats, nil
	}

	queryStart := time.Now()
	runs, err := j.listRunsFunc(ctx, storeClient, j.config.Tag)
	stats.QueryDuration = time.Since(queryStart).Seconds()
	if err != nil {
		// A dead store aborts the whole backfill run, unlike in-training
		// logging which just skips.
		return stats, err
	}
	stats.RunsExamined = int64(len(runs))

	processStart := time.Now()
	var saveDuration time.Duration
	for _, run := range runs {
		if !j.config.Overwrite && run.Summary.MeanMFU != nil {
			stats.RunsSkipped++
			continue
		}
		result, err := j.computeForRun(run)
		if err != nil {
			log.Warnf("skipping run %s: %v", run.ID, err)
			stats.RunsSkipped++
			stats.WarningCount++
			continue
		}

		saveStart := time.Now()
		err = storeClient.Run(run.ID).
			UpdateSummary("mean_mfu", result.MFU).
			UpdateSummary("max_tokens_theoretical", result.TheoreticalPeakTokensPerSecond).
			Commit(ctx)
		saveDuration += time.Since(saveStart)
		if err != nil {
			log.Errorf("failed to commit summary for run %s: %v", run.ID, err)
			stats.ErrorCount++
			continue
		}
		stats.SummariesCommitted++
		log.WithFields(log.Fields{
			"run":      run.ID,
			"run_name": run.Name,
			"mean_mfu": result.MFU,
		}).Info("backfilled mfu for run")
	}
	stats.ProcessDuration = time.Since(processStart).Seconds()
	stats.SaveDuration = saveDuration.Seconds()
	return stats, nil
}

func (j *MfuBackfillJob) computeForRun(run store.Run) (mfu.Result, error) {
	if run.Summary.TokensPerSecond == nil {
		return mfu.Result{}, errors.NewError().
			WithCode(errors.CodeMetricsStoreError).
			WithMessage("run %s has no tokens_per_second summary", run.ID)
	}
	if run.Config.MaxSequenceLength <= 0 {
		return mfu.Result{}, errors.NewError().
			WithCode(errors.CodeMetricsStoreError).
			WithMessage("run %s has no max_sequence_length in config", run.ID)
	}
	return mfu.Compute(
		run.ID,
		run.Name,
		j.config.HardwareFLOPs,
		j.config.Architecture,
		run.Config.MaxSequenceLength,
		run.Summary.TokensPerSecond.Mean,
	)
}
