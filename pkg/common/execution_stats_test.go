// Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
// See LICENSE for license information.

package common

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecutionStatsMerge(t *testing.T) {
	a := NewExecutionStats()
	a.RunsExamined = 5
	a.SummariesCommitted = 3
	a.ErrorCount = 1
	a.AddMessage("first batch done")
	a.AddCustomMetric("mean_mfu", 0.41)

	b := NewExecutionStats()
	b.RunsExamined = 2
	b.RunsSkipped = 1
	b.QueryDuration = 0.25
	b.AddMessage("second batch done")

	a.Merge(b)
	assert.Equal(t, int64(7), a.RunsExamined)
	assert.Equal(t, int64(1), a.RunsSkipped)
	assert.Equal(t, int64(3), a.SummariesCommitted)
	assert.Equal(t, int64(1), a.ErrorCount)
	assert.Equal(t, 0.25, a.QueryDuration)
	assert.Equal(t, []string{"first batch done", "second batch done"}, a.Messages)
	assert.Equal(t, 0.41, a.CustomMetrics["mean_mfu"])
}

func TestExecutionStatsMergeNil(t *testing.T) {
	a := NewExecutionStats()
	a.RunsExamined = 1
	a.Merge(nil)
	assert.Equal(t, int64(1), a.RunsExamined)
}

func TestNewExecutionResult(t *testing.T) {
	start := time.Now().Add(-time.Second)
	stats := NewExecutionStats()

	ok := NewExecutionResult(start, stats, nil)
	assert.True(t, ok.Success)
	assert.Nil(t, ok.Error)
	assert.GreaterOrEqual(t, ok.Duration, 1.0)

	failed := NewExecutionResult(start, stats, errors.New("store unreachable"))
	assert.False(t, failed.Success)
	assert.EqualError(t, failed.Error, "store unreachable")
}

type fakeJob struct{}

func (fakeJob) Schedule() string { return "0 * * * *" }

func TestHistoryServiceRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history", "jobs.jsonl")
	h := NewHistoryService(path)

	stats := NewExecutionStats()
	stats.RunsExamined = 4
	stats.SummariesCommitted = 4
	h.RecordJobExecution(fakeJob{}, NewExecutionResult(time.Now(), stats, nil))
	h.RecordJobExecution(fakeJob{}, NewExecutionResult(time.Now(), nil, errors.New("boom")))

	records, err := h.ReadHistory()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.True(t, records[0].Success)
	require.NotNil(t, records[0].Stats)
	assert.Equal(t, int64(4), records[0].Stats.RunsExamined)
	assert.False(t, records[1].Success)
}

func TestHistoryServiceDisabled(t *testing.T) {
	h := NewHistoryService("")
	h.RecordJobExecution(fakeJob{}, NewExecutionResult(time.Now(), nil, nil))

	records, err := h.ReadHistory()
	require.NoError(t, err)
	assert.Empty(t, records)
}
