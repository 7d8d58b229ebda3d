// Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
// See LICENSE for license information.

package bench

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/AMD-AGI/Primus-Bench/pkg/errors"
	"github.com/AMD-AGI/Primus-Bench/pkg/logger/log"
	"github.com/AMD-AGI/Primus-Bench/pkg/metrics"
	"github.com/AMD-AGI/Primus-Bench/pkg/plan"
	"github.com/AMD-AGI/Primus-Bench/pkg/trainer"
)

var (
	gpuUtilizationGauge = metrics.NewGaugeVec(
		"gpu_utilization_percent", "instantaneous GPU utilization per device", []string{"device"})
	gpuMemoryGauge = metrics.NewGaugeVec(
		"gpu_memory_used_percent", "instantaneous GPU memory usage per device", []string{"device"})
)

// DeviceSample is one utilization reading for one device.
type DeviceSample struct {
	Device         string
	UtilizationPct float64
	MemoryUsedPct  float64
}

// DeviceQuerier reads the current utilization of every visible device.
type DeviceQuerier interface {
	Query(ctx context.Context) ([]DeviceSample, error)
}

// GpuMeans is the aggregate a GpuMetricsBenchmark reports at the end of a
// run: arithmetic means over every sample from every device.
type GpuMeans struct {
	MeanUtilizationPct float64 `json:"mean_gpu_utilization_percent"`
	MeanMemoryUsedPct  float64 `json:"mean_gpu_memory_used_percent"`
	SampleCount        int64   `json:"gpu_sample_count"`
}

// GpuMetricsBenchmark samples device utilization on a fixed interval for the
// duration of a run. A failed query is logged and skipped; the benchmark
// keeps sampling and training is never interrupted.
type GpuMetricsBenchmark struct {
	querier  DeviceQuerier
	interval time.Duration

	mu          sync.Mutex
	utilization RunningMean
	memory      RunningMean

	started  atomic.Bool
	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

func NewGpuMetricsBenchmark(querier DeviceQuerier, interval time.Duration) *GpuMetricsBenchmark {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &GpuMetricsBenchmark{
		querier:  querier,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

func (b *GpuMetricsBenchmark) OnTrainStart(ctx context.Context, _ plan.Schedule) {
	if b.started.CompareAndSwap(false, true) {
		go b.run(ctx)
	}
}

func (b *GpuMetricsBenchmark) OnStepEnd(_ context.Context, _ trainer.StepInfo) {}

func (b *GpuMetricsBenchmark) OnValidationEnd(_ context.Context, _ int64) {}

func (b *GpuMetricsBenchmark) OnTrainEnd(_ context.Context) {
	b.Stop()
	means := b.Means()
	log.WithFields(log.Fields{
		"mean_gpu_utilization_percent": means.MeanUtilizationPct,
		"mean_gpu_memory_used_percent": means.MeanMemoryUsedPct,
		"gpu_sample_count":             means.SampleCount,
	}).Info("gpu metrics benchmark finished")
}

// Stop ends the sampling loop and waits for it to drain. Safe to call more
// than once, and a no-op when the sampler was never started.
func (b *GpuMetricsBenchmark) Stop() {
	b.stopOnce.Do(func() { close(b.stop) })
	if !b.started.Load() {
		return
	}
	<-b.done
}

func (b *GpuMetricsBenchmark) run(ctx context.Context) {
	defer close(b.done)
	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	b.sampleOnce(ctx)
	for {
		select {
		case <-b.stop:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			b.sampleOnce(ctx)
		}
	}
}

func (b *GpuMetricsBenchmark) sampleOnce(ctx context.Context) {
	samples, err := b.querier.Query(ctx)
	if err != nil {
		log.Warnf("gpu sampling failed, skipping interval: %v",
			errors.WrapError(err, "query devices", errors.CodeSamplingError))
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, s := range samples {
		gpuUtilizationGauge.Set(s.UtilizationPct, s.Device)
		gpuMemoryGauge.Set(s.MemoryUsedPct, s.Device)
		b.utilization.Add(s.UtilizationPct)
		b.memory.Add(s.MemoryUsedPct)
	}
}

// Means returns the run-level aggregates. With zero samples all means are
// zero.
func (b *GpuMetricsBenchmark) Means() GpuMeans {
	b.mu.Lock()
	defer b.mu.Unlock()
	return GpuMeans{
		MeanUtilizationPct: b.utilization.Mean(),
		MeanMemoryUsedPct:  b.memory.Mean(),
		SampleCount:        b.utilization.Count(),
	}
}
