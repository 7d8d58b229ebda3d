// Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
// See LICENSE for license information.

// Package bench contains the benchmark callbacks that measure what a run
// actually achieved: throughput in samples and tokens per second, and mean
// device utilization over the run. Benchmarks observe and record; a failure
// inside a benchmark is logged and skipped, it never stops training.
package bench

// RunningMean accumulates a streaming arithmetic mean without retaining
// individual samples.
type RunningMean struct {
	count int64
	sum   float64
	max   float64
}

func (m *RunningMean) Add(v float64) {
	m.count++
	m.sum += v
	if v > m.max {
		m.max = v
	}
}

// Mean returns the arithmetic mean of all added values, or 0 when nothing
// was added. A run that produced no samples reports zero rather than NaN.
func (m *RunningMean) Mean() float64 {
	if m.count == 0 {
		return 0
	}
	return m.sum / float64(m.count)
}

func (m *RunningMean) Max() float64 { return m.max }

func (m *RunningMean) Count() int64 { return m.count }
