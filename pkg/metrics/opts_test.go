// Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
// See LICENSE for license information.

package metrics

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stringPtr(s string) *string { return &s }

func TestMOptsSuffixAndNamespace(t *testing.T) {
	opts := &mOpts{name: "tokens_per_second", help: "Observed token throughput"}

	gauge := opts.GetGaugeOpts()
	assert.Equal(t, "tokens_per_second_g", gauge.Name)
	assert.Equal(t, "primus_bench", gauge.Namespace)
	assert.Equal(t, "Observed token throughput (gauges)", gauge.Help)

	counter := opts.GetCounterOpts()
	assert.Equal(t, "tokens_per_second_c", counter.Name)

	opts.withoutSuffix = true
	assert.Equal(t, "tokens_per_second", opts.GetGaugeOpts().Name)
}

func TestMOptsCustomNamespaceAndLabels(t *testing.T) {
	opts := &mOpts{
		name:      "step_duration",
		help:      "",
		namespace: stringPtr("custom_ns"),
		labels:    map[string]string{"run": "baseline"},
		buckets:   []float64{0.01, 0.1, 1},
	}

	hist := opts.GetHistogramOpts()
	assert.Equal(t, "custom_ns", hist.Namespace)
	assert.Equal(t, []float64{0.01, 0.1, 1}, hist.Buckets)
	assert.Equal(t, map[string]string{"run": "baseline"}, map[string]string(hist.ConstLabels))
	// Empty help falls back to the metric name.
	assert.True(t, strings.HasPrefix(hist.Help, "step_duration"))
}

func TestMetricVecConstructors(t *testing.T) {
	g := NewGaugeVec("opts_test_gauge", "test gauge", []string{"device"})
	require.NotNil(t, g)
	g.Set(42.5, "gpu0")
	g.Inc("gpu0")

	c := NewCounterVec("opts_test_counter", "test counter", []string{"kind"})
	require.NotNil(t, c)
	c.Inc("sample")
	c.Add(3, "sample")

	h := NewHistogramVec("opts_test_histogram", "test histogram", []string{"phase"}, WithBuckets([]float64{0.1, 1, 10}))
	require.NotNil(t, h)
	h.Observe(0.5, "train")

	text, err := GetPromethuesAsFmtText()
	require.NoError(t, err)
	assert.Contains(t, text, "primus_bench_opts_test_gauge_g")
	assert.Contains(t, text, "primus_bench_opts_test_counter_c")
	assert.Contains(t, text, "primus_bench_opts_test_histogram_h")
}
