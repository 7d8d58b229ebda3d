// Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
// See LICENSE for license information.

// Package store talks to the experiment store that tracks training runs.
// Reads return run configs and recorded summaries; writes are buffered on a
// run handle and only reach the store on an explicit Commit.
package store

// RunConfig is the subset of a run's logged configuration the backfill
// needs.
type RunConfig struct {
	MaxSequenceLength int64 `json:"max_sequence_length"`
}

// MetricStat is a recorded statistic for one logged metric.
type MetricStat struct {
	Mean float64 `json:"mean"`
	Max  float64 `json:"max"`
}

// RunSummary is the run-level summary block of a run. TokensPerSecond is
// nil when the run never logged throughput.
type RunSummary struct {
	TokensPerSecond       *MetricStat `json:"tokens_per_second,omitempty"`
	MeanMFU               *float64    `json:"mean_mfu,omitempty"`
	MaxTokensTheoretical  *float64    `json:"max_tokens_theoretical,omitempty"`
	MeanSamplesPerSecond  *float64    `json:"mean_samples_per_second,omitempty"`
	MeanGpuUtilizationPct *float64    `json:"mean_gpu_utilization_percent,omitempty"`
}

// Run is one training run as the store records it.
type Run struct {
	ID      string     `json:"id"`
	Name    string     `json:"name"`
	State   string     `json:"state"`
	Tags    []string   `json:"tags"`
	Config  RunConfig  `json:"config"`
	Summary RunSummary `json:"summary"`
}
