// Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
// See LICENSE for license information.

package bench

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AMD-AGI/Primus-Bench/pkg/errors"
	"github.com/AMD-AGI/Primus-Bench/pkg/plan"
)

type sequenceQuerier struct {
	utils []float64
	next  int
}

func (q *sequenceQuerier) Query(_ context.Context) ([]DeviceSample, error) {
	u := q.utils[q.next%len(q.utils)]
	q.next++
	return []DeviceSample{{Device: "card0", UtilizationPct: u, MemoryUsedPct: u / 2}}, nil
}

type failingQuerier struct{}

func (failingQuerier) Query(_ context.Context) ([]DeviceSample, error) {
	return nil, errors.NewError().
		WithCode(errors.CodeSamplingError).
		WithMessage("device driver unavailable")
}

func TestGpuBenchmarkMeansAcrossIntervals(t *testing.T) {
	querier := &sequenceQuerier{utils: []float64{40, 60, 80}}
	b := NewGpuMetricsBenchmark(querier, time.Hour)

	ctx := context.Background()
	for range querier.utils {
		b.sampleOnce(ctx)
	}

	means := b.Means()
	assert.InDelta(t, 60.0, means.MeanUtilizationPct, 1e-9)
	assert.InDelta(t, 30.0, means.MeanMemoryUsedPct, 1e-9)
	assert.Equal(t, int64(3), means.SampleCount)
}

func TestGpuBenchmarkSamplesAndStops(t *testing.T) {
	querier := &StaticQuerier{Samples: []DeviceSample{
		{Device: "card0", UtilizationPct: 90, MemoryUsedPct: 75},
		{Device: "card1", UtilizationPct: 70, MemoryUsedPct: 65},
	}}
	b := NewGpuMetricsBenchmark(querier, 5*time.Millisecond)

	ctx := context.Background()
	b.OnTrainStart(ctx, plan.Schedule{})
	time.Sleep(30 * time.Millisecond)
	b.OnTrainEnd(ctx)

	means := b.Means()
	assert.GreaterOrEqual(t, means.SampleCount, int64(2))
	assert.InDelta(t, 80.0, means.MeanUtilizationPct, 1e-9)
	assert.InDelta(t, 70.0, means.MeanMemoryUsedPct, 1e-9)

	// Stop is idempotent and sampling has really stopped.
	b.Stop()
	after := b.Means().SampleCount
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, after, b.Means().SampleCount)
}

func TestGpuBenchmarkStopWithoutStart(t *testing.T) {
	b := NewGpuMetricsBenchmark(&StaticQuerier{}, 5*time.Millisecond)

	// A run can end (or be torn down) before the callback ever saw a train
	// start; Stop must return instead of waiting on a loop that never ran.
	done := make(chan struct{})
	go func() {
		b.OnTrainEnd(context.Background())
		b.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop blocked without a started sampler")
	}
	assert.Equal(t, int64(0), b.Means().SampleCount)
}

func TestGpuBenchmarkToleratesQueryFailures(t *testing.T) {
	b := NewGpuMetricsBenchmark(failingQuerier{}, 5*time.Millisecond)

	ctx := context.Background()
	b.OnTrainStart(ctx, plan.Schedule{})
	time.Sleep(20 * time.Millisecond)
	b.Stop()

	means := b.Means()
	assert.Equal(t, int64(0), means.SampleCount)
	assert.Equal(t, 0.0, means.MeanUtilizationPct)
}

func TestSysfsQuerierReadsAmdgpuFiles(t *testing.T) {
	root := t.TempDir()
	writeCard := func(card string, busy, used, total string) {
		dir := filepath.Join(root, card, "device")
		require.NoError(t, os.MkdirAll(dir, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "gpu_busy_percent"), []byte(busy), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "mem_info_vram_used"), []byte(used), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "mem_info_vram_total"), []byte(total), 0o644))
	}
	writeCard("card0", "85\n", "1200\n", "2400\n")
	writeCard("card1", "45\n", "600\n", "2400\n")

	samples, err := NewSysfsQuerierAt(root).Query(context.Background())
	require.NoError(t, err)
	require.Len(t, samples, 2)
	assert.Equal(t, "card0", samples[0].Device)
	assert.Equal(t, 85.0, samples[0].UtilizationPct)
	assert.InDelta(t, 50.0, samples[0].MemoryUsedPct, 1e-9)
	assert.Equal(t, "card1", samples[1].Device)
	assert.Equal(t, 45.0, samples[1].UtilizationPct)
	assert.InDelta(t, 25.0, samples[1].MemoryUsedPct, 1e-9)
}

func TestSysfsQuerierNoDevices(t *testing.T) {
	_, err := NewSysfsQuerierAt(t.TempDir()).Query(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeSamplingError))
}
