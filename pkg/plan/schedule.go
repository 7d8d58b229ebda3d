// Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
// See LICENSE for license information.

package plan

import (
	"github.com/AMD-AGI/Primus-Bench/pkg/errors"
)

// ScheduleFractions are the raw schedule knobs from configuration. Each value
// is either an absolute goal-unit count (>= 1) or a fraction of the training
// goal (< 1). A value of exactly 1 is one unit, never 100%. The fraction rule
// is applied exactly once, at resolution time.
type ScheduleFractions struct {
	ValFrequency        float64 `json:"val_frequency" yaml:"val_frequency"`
	CheckpointFrequency float64 `json:"model_log_frequency" yaml:"model_log_frequency"`
	Warmup              float64 `json:"lr_warmup" yaml:"lr_warmup"`
}

// Schedule is the fully resolved step schedule the trainer consumes. All
// fields are absolute counts; fraction inputs are gone after resolution.
//
// ValEveryNForwardPasses is deliberately expressed in forward passes rather
// than optimizer steps: the trainer schedules validation per forward pass, so
// under gradient accumulation the two differ by the accumulation factor.
// Warmup and checkpoint cadence are in optimizer steps.
type Schedule struct {
	OptimizerStepsTotal     int64 `json:"optimizer_steps_total"`
	WarmupSteps             int64 `json:"warmup_steps"`
	ValEveryNForwardPasses  int64 `json:"val_every_n_forward_passes"`
	ValEveryNOptimizerSteps int64 `json:"val_every_n_optimizer_steps"`
	CheckpointEveryNSteps   int64 `json:"checkpoint_every_n_steps"`
}

// goalUnitRates returns how much goal progress one optimizer step and one
// micro-batch forward pass make, in the goal's own unit.
func goalUnitRates(goal TrainingGoal, plan BatchPlan, sequenceLength int64) (perOptimizerStep, perForwardPass float64, err error) {
	switch goal.Unit {
	case UnitSamples:
		perOptimizerStep = float64(plan.EffectiveBatchSize)
		perForwardPass = float64(plan.SamplesPerForwardPass())
	case UnitTokens:
		perOptimizerStep = float64(plan.EffectiveBatchSize) * float64(sequenceLength)
		perForwardPass = float64(plan.SamplesPerForwardPass()) * float64(sequenceLength)
	case UnitOptimizerSteps:
		perOptimizerStep = 1
		perForwardPass = 1 / float64(plan.GradAccumulationSteps)
	default:
		return 0, 0, errors.NewError().
			WithCode(errors.CodeConfigError).
			WithMessage("training_goal_unit: unknown unit %q", goal.Unit)
	}
	return perOptimizerStep, perForwardPass, nil
}

// resolveScheduleValue applies the fraction rule to a raw schedule value and
// converts the result into steps at the given unit rate (floored).
func resolveScheduleValue(raw float64, goal TrainingGoal, rate float64) int64 {
	if raw < 1 {
		raw = raw * float64(goal.Magnitude)
	}
	return int64(raw / rate)
}

// ResolveSchedule converts the training goal and the raw schedule values into
// absolute step counts. sequenceLength is only consulted for token goals.
func ResolveSchedule(goal TrainingGoal, plan BatchPlan, sequenceLength int64, fractions ScheduleFractions) (Schedule, error) {
	if goal.Unit == UnitTokens && sequenceLength <= 0 {
		return Schedule{}, errors.NewError().
			WithCode(errors.CodeConfigError).
			WithMessage("max_sequence_length: must be positive for a token goal, got %d", sequenceLength)
	}

	perOptimizerStep, perForwardPass, err := goalUnitRates(goal, plan, sequenceLength)
	if err != nil {
		return Schedule{}, err
	}

	s := Schedule{
		OptimizerStepsTotal:     int64(float64(goal.Magnitude) / perOptimizerStep),
		WarmupSteps:             resolveScheduleValue(fractions.Warmup, goal, perOptimizerStep),
		ValEveryNForwardPasses:  resolveScheduleValue(fractions.ValFrequency, goal, perForwardPass),
		ValEveryNOptimizerSteps: resolveScheduleValue(fractions.ValFrequency, goal, perOptimizerStep),
		CheckpointEveryNSteps:   resolveScheduleValue(fractions.CheckpointFrequency, goal, perOptimizerStep),
	}

	for _, check := range []struct {
		field string
		steps int64
	}{
		{"training_goal", s.OptimizerStepsTotal},
		{"lr_warmup", s.WarmupSteps},
		{"val_frequency", s.ValEveryNForwardPasses},
		{"model_log_frequency", s.CheckpointEveryNSteps},
	} {
		if check.steps <= 0 {
			return Schedule{}, errors.NewError().
				WithCode(errors.CodeConfigError).
				WithMessage("%s: resolves to %d steps, schedule would never fire", check.field, check.steps)
		}
	}
	return s, nil
}
