// Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
// See LICENSE for license information.

package plan

import (
	"testing"

	"github.com/AMD-AGI/Primus-Bench/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustPlan(t *testing.T, perDevice, requested, devices int64) BatchPlan {
	t.Helper()
	p, err := ResolveBatchPlan(perDevice, requested, devices)
	require.NoError(t, err)
	return p
}

func TestParseGoalUnit(t *testing.T) {
	for _, raw := range []string{"samples", "tokens", "optimizer-steps"} {
		unit, err := ParseGoalUnit(raw)
		require.NoError(t, err)
		assert.Equal(t, GoalUnit(raw), unit)
	}

	_, err := ParseGoalUnit("invalid")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeConfigError))
}

func TestResolveScheduleSampleGoal(t *testing.T) {
	// 256 effective batch size without accumulation.
	p := mustPlan(t, 32, 256, 8)
	goal, err := NewTrainingGoal(10_000_000, "samples")
	require.NoError(t, err)

	s, err := ResolveSchedule(goal, p, 512, ScheduleFractions{
		ValFrequency:        0.05,
		CheckpointFrequency: 0.1,
		Warmup:              0.1,
	})
	require.NoError(t, err)

	// floor(10_000_000 / 256)
	assert.Equal(t, int64(39062), s.OptimizerStepsTotal)
	// 0.05 * 10_000_000 = 500_000 samples, then through the per-step rate.
	assert.Equal(t, int64(1953), s.ValEveryNOptimizerSteps)
	assert.Equal(t, int64(3906), s.CheckpointEveryNSteps)
	assert.Equal(t, int64(3906), s.WarmupSteps)
	// No accumulation: forward-pass cadence equals optimizer-step cadence.
	assert.Equal(t, s.ValEveryNOptimizerSteps, s.ValEveryNForwardPasses)
}

func TestResolveScheduleValidationCadenceUnderAccumulation(t *testing.T) {
	// 32 per device x 2 devices x 4 accumulation steps = 256 effective.
	p := mustPlan(t, 32, 256, 2)
	require.Equal(t, int64(4), p.GradAccumulationSteps)

	goal, err := NewTrainingGoal(10_000_000, "samples")
	require.NoError(t, err)

	s, err := ResolveSchedule(goal, p, 512, ScheduleFractions{
		ValFrequency:        0.05,
		CheckpointFrequency: 0.1,
		Warmup:              0.1,
	})
	require.NoError(t, err)

	// The trainer counts forward passes, not optimizer steps, when scheduling
	// validation. One optimizer step is 4 forward passes here, so the
	// forward-pass cadence must be 4x the optimizer-step cadence.
	assert.Equal(t, int64(1953), s.ValEveryNOptimizerSteps)
	assert.Equal(t, int64(7812), s.ValEveryNForwardPasses)

	// Warmup and checkpointing stay in optimizer steps.
	assert.Equal(t, int64(3906), s.WarmupSteps)
	assert.Equal(t, int64(3906), s.CheckpointEveryNSteps)
}

func TestResolveScheduleTokenGoal(t *testing.T) {
	p := mustPlan(t, 32, 256, 8)
	goal, err := NewTrainingGoal(1_000_000_000, "tokens")
	require.NoError(t, err)

	s, err := ResolveSchedule(goal, p, 512, ScheduleFractions{
		ValFrequency:        0.05,
		CheckpointFrequency: 0.1,
		Warmup:              0.1,
	})
	require.NoError(t, err)

	// floor(1e9 / (256 * 512))
	assert.Equal(t, int64(7629), s.OptimizerStepsTotal)
}

func TestResolveScheduleOptimizerStepGoal(t *testing.T) {
	p := mustPlan(t, 32, 256, 2) // accumulation factor 4
	goal, err := NewTrainingGoal(10_000, "optimizer-steps")
	require.NoError(t, err)

	s, err := ResolveSchedule(goal, p, 512, ScheduleFractions{
		ValFrequency:        500,
		CheckpointFrequency: 1000,
		Warmup:              0.1,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(10_000), s.OptimizerStepsTotal)
	assert.Equal(t, int64(1000), s.WarmupSteps)
	// Absolute value >= 1 is taken as a unit count, not a fraction. One goal
	// unit is 1/4 of a forward pass here, so 500 optimizer steps of cadence
	// are 2000 forward passes.
	assert.Equal(t, int64(500), s.ValEveryNOptimizerSteps)
	assert.Equal(t, int64(2000), s.ValEveryNForwardPasses)
	assert.Equal(t, int64(1000), s.CheckpointEveryNSteps)
}

func TestResolveScheduleValueOfExactlyOneIsAbsolute(t *testing.T) {
	p := mustPlan(t, 1, 0, 1) // effective batch size 1
	goal, err := NewTrainingGoal(100, "samples")
	require.NoError(t, err)

	s, err := ResolveSchedule(goal, p, 16, ScheduleFractions{
		ValFrequency:        1, // one sample, NOT 100% of the goal
		CheckpointFrequency: 10,
		Warmup:              5,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), s.ValEveryNForwardPasses)
}

func TestResolveScheduleRejectsZeroStepResolutions(t *testing.T) {
	p := mustPlan(t, 32, 256, 8)

	t.Run("goal below one optimizer step", func(t *testing.T) {
		goal, err := NewTrainingGoal(100, "samples") // < 256 effective batch
		require.NoError(t, err)
		_, err = ResolveSchedule(goal, p, 512, ScheduleFractions{
			ValFrequency:        0.05,
			CheckpointFrequency: 0.1,
			Warmup:              0.1,
		})
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.CodeConfigError))
		// Everything resolves to zero here; the error must name the goal
		// itself, not whichever derived value happens to be checked first.
		assert.Contains(t, err.Error(), "training_goal")
	})

	t.Run("warmup resolves to zero", func(t *testing.T) {
		goal, err := NewTrainingGoal(10_000_000, "samples")
		require.NoError(t, err)
		_, err = ResolveSchedule(goal, p, 512, ScheduleFractions{
			ValFrequency:        0.05,
			CheckpointFrequency: 0.1,
			Warmup:              0.0000001,
		})
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.CodeConfigError))
	})

	t.Run("token goal without sequence length", func(t *testing.T) {
		goal, err := NewTrainingGoal(1_000_000, "tokens")
		require.NoError(t, err)
		_, err = ResolveSchedule(goal, p, 0, ScheduleFractions{
			ValFrequency:        0.05,
			CheckpointFrequency: 0.1,
			Warmup:              0.1,
		})
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.CodeConfigError))
	})
}

func TestNewTrainingGoalInvalid(t *testing.T) {
	_, err := NewTrainingGoal(0, "samples")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeConfigError))

	_, err = NewTrainingGoal(1000, "epochs")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeConfigError))
}
