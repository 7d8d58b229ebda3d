// Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
// See LICENSE for license information.

// Package trainer defines the training-loop collaborator the benchmark
// harness attaches to. The harness never drives the loop itself: it hands a
// resolved schedule and a set of callbacks to a Trainer and consumes what the
// callbacks observed afterwards.
package trainer

import (
	"context"
	"time"

	"github.com/AMD-AGI/Primus-Bench/pkg/plan"
)

// StepInfo describes one completed optimizer step.
type StepInfo struct {
	// Step is the 1-based optimizer step index.
	Step int64

	// SamplesInStep is the number of samples consumed across all devices
	// and accumulation micro-steps for this optimizer step.
	SamplesInStep int64

	// CompletedAt is the wall-clock completion time of the step.
	CompletedAt time.Time

	// AfterPause marks the first step following a validation or checkpoint
	// pause. Timing for such a step includes the pause and is not
	// representative of steady-state throughput.
	AfterPause bool
}

// Callback receives lifecycle events from the trainer. Implementations must
// never abort training: they observe, they do not steer.
type Callback interface {
	OnTrainStart(ctx context.Context, schedule plan.Schedule)
	OnStepEnd(ctx context.Context, info StepInfo)
	OnValidationEnd(ctx context.Context, step int64)
	OnTrainEnd(ctx context.Context)
}

// Trainer runs a training loop against a resolved schedule, reporting
// progress through the callbacks.
type Trainer interface {
	Fit(ctx context.Context, schedule plan.Schedule, callbacks ...Callback) error
}
