// Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
// See LICENSE for license information.

package trainer

import (
	"context"
	"time"

	"github.com/AMD-AGI/Primus-Bench/pkg/logger/log"
	"github.com/AMD-AGI/Primus-Bench/pkg/plan"
)

// SyntheticTrainer executes the schedule without a model: each optimizer
// step sleeps for a fixed latency and each validation pass sleeps for the
// validation latency. It exists so the measurement path can be exercised
// end to end on machines without accelerators.
type SyntheticTrainer struct {
	Plan plan.BatchPlan

	// StepLatency is the simulated duration of one optimizer step.
	StepLatency time.Duration

	// ValidationLatency is the simulated duration of one validation pass.
	ValidationLatency time.Duration
}

func NewSyntheticTrainer(batchPlan plan.BatchPlan, stepLatency, validationLatency time.Duration) *SyntheticTrainer {
	return &SyntheticTrainer{
		Plan:              batchPlan,
		StepLatency:       stepLatency,
		ValidationLatency: validationLatency,
	}
}

func (t *SyntheticTrainer) Fit(ctx context.Context, schedule plan.Schedule, callbacks ...Callback) error {
	for _, cb := range callbacks {
		cb.OnTrainStart(ctx, schedule)
	}

	samplesPerStep := t.Plan.EffectiveBatchSize
	afterPause := false
	forwardPasses := int64(0)

	for step := int64(1); step <= schedule.OptimizerStepsTotal; step++ {
		if err := sleepCtx(ctx, t.StepLatency); err != nil {
			return err
		}
		forwardPasses += t.Plan.GradAccumulationSteps

		info := StepInfo{
			Step:          step,
			SamplesInStep: samplesPerStep,
			CompletedAt:   time.Now(),
			AfterPause:    afterPause,
		}
		afterPause = false
		for _, cb := range callbacks {
			cb.OnStepEnd(ctx, info)
		}

		prevPasses := forwardPasses - t.Plan.GradAccumulationSteps
		if schedule.ValEveryNForwardPasses > 0 &&
			forwardPasses/schedule.ValEveryNForwardPasses > prevPasses/schedule.ValEveryNForwardPasses {
			if err := sleepCtx(ctx, t.ValidationLatency); err != nil {
				return err
			}
			for _, cb := range callbacks {
				cb.OnValidationEnd(ctx, step)
			}
			afterPause = true
		}
	}

	for _, cb := range callbacks {
		cb.OnTrainEnd(ctx)
	}
	log.Infof("synthetic run finished: %d optimizer steps, %d forward passes",
		schedule.OptimizerStepsTotal, forwardPasses)
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
