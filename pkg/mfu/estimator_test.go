// Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
// See LICENSE for license information.

package mfu

import (
	"testing"

	"github.com/AMD-AGI/Primus-Bench/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 154.85 TFLOP/s in base units, the validated reference constant.
const referenceHardwareFLOPs = 154.85e12

func TestFLOPsPerToken(t *testing.T) {
	arch := ReferenceArchitecture

	// 6*125e6 + 12*12*12*64*512
	expected := 6*125_000_000.0 + 12*12*12*64*512.0
	assert.Equal(t, expected, arch.FLOPsPerToken(512))
}

func TestTheoreticalPeakScalesLinearlyWithHardware(t *testing.T) {
	peak1, err := TheoreticalPeakTokensPerSecond(referenceHardwareFLOPs, ReferenceArchitecture, 512)
	require.NoError(t, err)

	peak2, err := TheoreticalPeakTokensPerSecond(2*referenceHardwareFLOPs, ReferenceArchitecture, 512)
	require.NoError(t, err)

	assert.InEpsilon(t, 2*peak1, peak2, 1e-12, "doubling the hardware constant must exactly double the peak")
}

func TestTheoreticalPeakReferenceValue(t *testing.T) {
	peak, err := TheoreticalPeakTokensPerSecond(referenceHardwareFLOPs, ReferenceArchitecture, 512)
	require.NoError(t, err)

	// 154.85e12 / (6*125e6 + 12*12*12*64*512)
	assert.InDelta(t, 191_973, peak, 500)
}

func TestMFURoundTrip(t *testing.T) {
	peak, err := TheoreticalPeakTokensPerSecond(referenceHardwareFLOPs, ReferenceArchitecture, 512)
	require.NoError(t, err)

	for _, k := range []float64{0.01, 0.25, 0.5, 0.9, 1.0, 1.5, 2.0} {
		observed := peak * k
		assert.InEpsilon(t, k, MFU(observed, peak), 1e-12)
	}
}

func TestMFUIsNotClamped(t *testing.T) {
	// An MFU above 1.0 is a unit-convention bug in the hardware constant and
	// must reach the caller unmodified.
	assert.Greater(t, MFU(200, 100), 1.0)
}

func TestTheoreticalPeakInvalidInputs(t *testing.T) {
	tests := []struct {
		name  string
		flops float64
		arch  ArchitectureConstants
		seq   int64
	}{
		{"zero hardware flops", 0, ReferenceArchitecture, 512},
		{"negative hardware flops", -1, ReferenceArchitecture, 512},
		{"zero sequence length", referenceHardwareFLOPs, ReferenceArchitecture, 0},
		{"zero parameters", referenceHardwareFLOPs, ArchitectureConstants{Layers: 12, Heads: 12, HeadDimension: 64}, 512},
		{"zero layers", referenceHardwareFLOPs, ArchitectureConstants{Parameters: 125_000_000, Heads: 12, HeadDimension: 64}, 512},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := TheoreticalPeakTokensPerSecond(tt.flops, tt.arch, tt.seq)
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.CodeConfigError))
		})
	}
}

func TestCompute(t *testing.T) {
	res, err := Compute("run-1", "baseline", referenceHardwareFLOPs, ReferenceArchitecture, 512, 50_000)
	require.NoError(t, err)

	assert.Equal(t, "run-1", res.RunID)
	assert.InEpsilon(t, res.ObservedMeanTokensPerSecond/res.TheoreticalPeakTokensPerSecond, res.MFU, 1e-12)
	assert.Greater(t, res.MFU, 0.0)
	assert.Less(t, res.MFU, 1.0)
}
