// Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
// See LICENSE for license information.

// Package mfu computes Model FLOPs Utilization: the ratio of a run's achieved
// token throughput to the theoretical peak throughput of the hardware for the
// model architecture and sequence length in use.
//
// Unit convention: every input is in base SI units. The hardware constant is
// FLOP/s (not TFLOP/s), parameter count, layer count, head count and head
// dimension are raw counts, and the returned peak is tokens per second. All
// scaling happens at the configuration boundary; nothing in this package
// rescales. Mixing scales here does not fail loudly, it silently produces a
// wrong peak, which is why the convention is fixed in one place.
package mfu

import (
	"github.com/AMD-AGI/Primus-Bench/pkg/errors"
)

// ArchitectureConstants is the static description of a transformer
// architecture, used only for the analytic FLOPs-per-token estimate.
type ArchitectureConstants struct {
	Parameters    int64 `json:"parameters" yaml:"parameters"`
	Layers        int64 `json:"layers" yaml:"layers"`
	Heads         int64 `json:"heads" yaml:"heads"`
	HeadDimension int64 `json:"head_dimension" yaml:"head_dimension"`
}

// ReferenceArchitecture is the 125M-parameter configuration the harness was
// validated against. Treat these numbers, like the hardware constant, as
// configuration checked against a known run rather than derived physics.
var ReferenceArchitecture = ArchitectureConstants{
	Parameters:    125_000_000,
	Layers:        12,
	Heads:         12,
	HeadDimension: 64,
}

// Validate rejects architectures the FLOPs model cannot price.
func (a ArchitectureConstants) Validate() error {
	if a.Parameters <= 0 || a.Layers <= 0 || a.Heads <= 0 || a.HeadDimension <= 0 {
		return errors.NewError().
			WithCode(errors.CodeConfigError).
			WithMessage("architecture: all constants must be positive, got %+v", a)
	}
	return nil
}

// FLOPsPerToken is the analytic forward+backward cost of one token:
// 6*P for the parameter term plus 12*L*H*d*S for attention.
func (a ArchitectureConstants) FLOPsPerToken(sequenceLength int64) float64 {
	return 6*float64(a.Parameters) +
		12*float64(a.Layers)*float64(a.Heads)*float64(a.HeadDimension)*float64(sequenceLength)
}

// TheoreticalPeakTokensPerSecond returns the token throughput the hardware
// would sustain at full utilization. hardwareFLOPs is the device's (or the
// aggregate's) peak in FLOP/s.
func TheoreticalPeakTokensPerSecond(hardwareFLOPs float64, arch ArchitectureConstants, sequenceLength int64) (float64, error) {
	if err := arch.Validate(); err != nil {
		return 0, err
	}
	if hardwareFLOPs <= 0 {
		return 0, errors.NewError().
			WithCode(errors.CodeConfigError).
			WithMessage("hardware_flops: must be positive, got %g", hardwareFLOPs)
	}
	if sequenceLength <= 0 {
		return 0, errors.NewError().
			WithCode(errors.CodeConfigError).
			WithMessage("max_sequence_length: must be positive, got %d", sequenceLength)
	}
	return hardwareFLOPs / arch.FLOPsPerToken(sequenceLength), nil
}

// MFU is observed over theoretical throughput. The ratio is not clamped: a
// value above 1.0 means the hardware constant's unit scale is wrong.
func MFU(observedTokensPerSecond, theoreticalPeak float64) float64 {
	return observedTokensPerSecond / theoreticalPeak
}

// Result is the per-run MFU summary written back to the tracking store.
type Result struct {
	RunID                          string  `json:"run_id"`
	RunName                        string  `json:"run_name,omitempty"`
	TheoreticalPeakTokensPerSecond float64 `json:"max_tokens_theoretical"`
	ObservedMeanTokensPerSecond    float64 `json:"observed_mean_tokens_per_second"`
	MFU                            float64 `json:"mean_mfu"`
}

// Compute prices one run end to end.
func Compute(runID, runName string, hardwareFLOPs float64, arch ArchitectureConstants, sequenceLength int64, observedMeanTokensPerSecond float64) (Result, error) {
	peak, err := TheoreticalPeakTokensPerSecond(hardwareFLOPs, arch, sequenceLength)
	if err != nil {
		return Result{}, err
	}
	return Result{
		RunID:                          runID,
		RunName:                        runName,
		TheoreticalPeakTokensPerSecond: peak,
		ObservedMeanTokensPerSecond:    observedMeanTokensPerSecond,
		MFU:                            MFU(observedMeanTokensPerSecond, peak),
	}, nil
}
