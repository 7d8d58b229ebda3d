// Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
// See LICENSE for license information.

package plan

import (
	"github.com/AMD-AGI/Primus-Bench/pkg/errors"
)

// GoalUnit is the unit a training goal is expressed in. It is a closed set;
// anything outside it is rejected at parse time so a misspelled unit can never
// fall through to a silently wrong schedule.
type GoalUnit string

const (
	UnitSamples        GoalUnit = "samples"
	UnitTokens         GoalUnit = "tokens"
	UnitOptimizerSteps GoalUnit = "optimizer-steps"
)

// ParseGoalUnit validates a raw unit string from configuration.
func ParseGoalUnit(raw string) (GoalUnit, error) {
	switch GoalUnit(raw) {
	case UnitSamples, UnitTokens, UnitOptimizerSteps:
		return GoalUnit(raw), nil
	default:
		return "", errors.NewError().
			WithCode(errors.CodeConfigError).
			WithMessage("training_goal_unit: unknown unit %q (expected samples, tokens or optimizer-steps)", raw)
	}
}

// TrainingGoal is the stopping criterion for a run: train until Magnitude
// units of Unit have been consumed. Immutable once parsed.
type TrainingGoal struct {
	Magnitude int64
	Unit      GoalUnit
}

// NewTrainingGoal builds a validated TrainingGoal.
func NewTrainingGoal(magnitude int64, rawUnit string) (TrainingGoal, error) {
	unit, err := ParseGoalUnit(rawUnit)
	if err != nil {
		return TrainingGoal{}, err
	}
	if magnitude <= 0 {
		return TrainingGoal{}, errors.NewError().
			WithCode(errors.CodeConfigError).
			WithMessage("training_goal: must be positive, got %d", magnitude)
	}
	return TrainingGoal{Magnitude: magnitude, Unit: unit}, nil
}
