// Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
// See LICENSE for license information.

package plan

import (
	"github.com/AMD-AGI/Primus-Bench/pkg/errors"
)

// BatchPlan is the resolved batch topology for a run. GradAccumulationSteps
// and EffectiveBatchSize are derived; all downstream goal-unit math must use
// the realized EffectiveBatchSize, never the requested one.
type BatchPlan struct {
	PerDeviceBatchSize          int64 `json:"per_device_batch_size"`
	RequestedEffectiveBatchSize int64 `json:"requested_effective_batch_size,omitempty"`
	DeviceCount                 int64 `json:"device_count"`
	GradAccumulationSteps       int64 `json:"grad_accumulation_steps"`
	EffectiveBatchSize          int64 `json:"effective_batch_size"`
}

// SamplesPerForwardPass is the number of samples one micro-batch forward pass
// consumes across all devices.
func (p BatchPlan) SamplesPerForwardPass() int64 {
	return p.PerDeviceBatchSize * p.DeviceCount
}

// ResolveBatchPlan derives gradient accumulation from the requested effective
// batch size and the device topology. When the requested size is not divisible
// by per-device size times device count, accumulation steps are rounded UP,
// so the realized effective batch size is always >= the requested one.
// requestedEffectiveBatchSize == 0 means not requested (no accumulation).
func ResolveBatchPlan(perDeviceBatchSize, requestedEffectiveBatchSize, deviceCount int64) (BatchPlan, error) {
	if perDeviceBatchSize <= 0 {
		return BatchPlan{}, errors.NewError().
			WithCode(errors.CodeConfigError).
			WithMessage("batch_size_per_device: must be positive, got %d", perDeviceBatchSize)
	}
	if deviceCount <= 0 {
		return BatchPlan{}, errors.NewError().
			WithCode(errors.CodeConfigError).
			WithMessage("num_devices: must be positive, got %d", deviceCount)
	}
	if requestedEffectiveBatchSize < 0 {
		return BatchPlan{}, errors.NewError().
			WithCode(errors.CodeConfigError).
			WithMessage("effective_batch_size: must not be negative, got %d", requestedEffectiveBatchSize)
	}

	plan := BatchPlan{
		PerDeviceBatchSize:          perDeviceBatchSize,
		RequestedEffectiveBatchSize: requestedEffectiveBatchSize,
		DeviceCount:                 deviceCount,
	}

	perStep := perDeviceBatchSize * deviceCount
	if requestedEffectiveBatchSize == 0 {
		plan.GradAccumulationSteps = 1
		plan.EffectiveBatchSize = perStep
		return plan, nil
	}

	// Ceiling division; never below one accumulation step.
	accum := (requestedEffectiveBatchSize + perStep - 1) / perStep
	if accum < 1 {
		accum = 1
	}
	plan.GradAccumulationSteps = accum
	plan.EffectiveBatchSize = perStep * accum
	return plan, nil
}
