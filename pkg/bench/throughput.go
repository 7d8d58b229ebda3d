// Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
// See LICENSE for license information.

package bench

import (
	"context"
	"sync"
	"time"

	"github.com/AMD-AGI/Primus-Bench/pkg/logger/log"
	"github.com/AMD-AGI/Primus-Bench/pkg/metrics"
	"github.com/AMD-AGI/Primus-Bench/pkg/plan"
	"github.com/AMD-AGI/Primus-Bench/pkg/trainer"
)

var (
	samplesPerSecondGauge = metrics.NewGaugeVec(
		"samples_per_second", "instantaneous training throughput in samples per second", nil)
	tokensPerSecondGauge = metrics.NewGaugeVec(
		"tokens_per_second", "instantaneous training throughput in tokens per second", nil)
)

// ThroughputSummary is the aggregate a ThroughputBenchmark reports at the
// end of a run.
type ThroughputSummary struct {
	MeanSamplesPerSecond float64 `json:"mean_samples_per_second"`
	MeanTokensPerSecond  float64 `json:"mean_tokens_per_second"`
	MaxTokensPerSecond   float64 `json:"max_tokens_per_second"`
	StepsMeasured        int64   `json:"steps_measured"`
	StepsExcluded        int64   `json:"steps_excluded"`
}

// ThroughputBenchmark measures per-step wall-clock throughput. Every step is
// timed and exported to the instantaneous gauges, but the first step after a
// validation or checkpoint pause is excluded from the running means: its
// interval contains the pause, not training.
type ThroughputBenchmark struct {
	sequenceLength int64

	mu          sync.Mutex
	lastStepEnd time.Time
	samples     RunningMean
	tokens      RunningMean
	excluded    int64
}

func NewThroughputBenchmark(sequenceLength int64) *ThroughputBenchmark {
	return &ThroughputBenchmark{sequenceLength: sequenceLength}
}

func (b *ThroughputBenchmark) OnTrainStart(_ context.Context, _ plan.Schedule) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastStepEnd = time.Now()
}

func (b *ThroughputBenchmark) OnStepEnd(_ context.Context, info trainer.StepInfo) {
	completedAt := info.CompletedAt
	if completedAt.IsZero() {
		completedAt = time.Now()
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	elapsed := completedAt.Sub(b.lastStepEnd).Seconds()
	b.lastStepEnd = completedAt
	if elapsed <= 0 {
		log.Warnf("skipping throughput sample for step %d: non-positive interval %.6fs", info.Step, elapsed)
		return
	}

	samplesPerSecond := float64(info.SamplesInStep) / elapsed
	tokensPerSecond := samplesPerSecond * float64(b.sequenceLength)
	samplesPerSecondGauge.Set(samplesPerSecond)
	tokensPerSecondGauge.Set(tokensPerSecond)

	if info.AfterPause {
		b.excluded++
		return
	}
	b.samples.Add(samplesPerSecond)
	b.tokens.Add(tokensPerSecond)
}

func (b *ThroughputBenchmark) OnValidationEnd(_ context.Context, _ int64) {}

func (b *ThroughputBenchmark) OnTrainEnd(_ context.Context) {
	summary := b.Summary()
	log.WithFields(log.Fields{
		"mean_samples_per_second": summary.MeanSamplesPerSecond,
		"mean_tokens_per_second":  summary.MeanTokensPerSecond,
		"steps_measured":          summary.StepsMeasured,
		"steps_excluded":          summary.StepsExcluded,
	}).Info("throughput benchmark finished")
}

// Summary returns the accumulated aggregates. A run with zero measured steps
// yields zero means.
func (b *ThroughputBenchmark) Summary() ThroughputSummary {
	b.mu.Lock()
	defer b.mu.Unlock()
	return ThroughputSummary{
		MeanSamplesPerSecond: b.samples.Mean(),
		MeanTokensPerSecond:  b.tokens.Mean(),
		MaxTokensPerSecond:   b.tokens.Max(),
		StepsMeasured:        b.samples.Count(),
		StepsExcluded:        b.excluded,
	}
}
