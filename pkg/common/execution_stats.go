// Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
// See LICENSE for license information.

package common

import (
	"time"
)

// ExecutionStats represents job execution statistics
type ExecutionStats struct {
	// RunsExamined is the number of runs read from the experiment store
	RunsExamined int64 `json:"runs_examined,omitempty"`

	// RunsSkipped is the number of runs skipped for missing data
	RunsSkipped int64 `json:"runs_skipped,omitempty"`

	// SummariesCommitted is the number of run summaries written back
	SummariesCommitted int64 `json:"summaries_committed,omitempty"`

	// QueryDuration is the store query duration in seconds
	QueryDuration float64 `json:"query_duration,omitempty"`

	// ProcessDuration is the processing duration in seconds
	ProcessDuration float64 `json:"process_duration,omitempty"`

	// SaveDuration is the write-back duration in seconds
	SaveDuration float64 `json:"save_duration,omitempty"`

	// ErrorCount is the error count
	ErrorCount int64 `json:"error_count,omitempty"`

	// WarningCount is the warning count
	WarningCount int64 `json:"warning_count,omitempty"`

	// CustomMetrics allows jobs to add specific statistics
	CustomMetrics map[string]interface{} `json:"custom_metrics,omitempty"`

	// Messages is the list of messages during execution
	Messages []string `json:"messages,omitempty"`
}

// ExecutionResult represents the result of job execution
type ExecutionResult struct {
	// Success indicates whether the execution was successful
	Success bool `json:"success"`

	// Error contains error information if any
	Error error `json:"error,omitempty"`

	// Stats contains execution statistics
	Stats *ExecutionStats `json:"stats,omitempty"`

	// StartTime is the start time
	StartTime time.Time `json:"start_time"`

	// EndTime is the end time
	EndTime time.Time `json:"end_time"`

	// Duration is the execution duration in seconds
	Duration float64 `json:"duration"`
}

// NewExecutionStats creates a new execution statistics instance
func NewExecutionStats() *ExecutionStats {
	return &ExecutionStats{
		CustomMetrics: make(map[string]interface{}),
		Messages:      make([]string, 0),
	}
}

// AddMessage adds a message to the statistics
func (s *ExecutionStats) AddMessage(message string) {
	if s.Messages == nil {
		s.Messages = make([]string, 0)
	}
	s.Messages = append(s.Messages, message)
}

// AddCustomMetric adds a custom metric to the statistics
func (s *ExecutionStats) AddCustomMetric(key string, value interface{}) {
	if s.CustomMetrics == nil {
		s.CustomMetrics = make(map[string]interface{})
	}
	s.CustomMetrics[key] = value
}

// Merge merges data from another ExecutionStats
func (s *ExecutionStats) Merge(other *ExecutionStats) {
	if other == nil {
		return
	}

	s.RunsExamined += other.RunsExamined
	s.RunsSkipped += other.RunsSkipped
	s.SummariesCommitted += other.SummariesCommitted
	s.QueryDuration += other.QueryDuration
	s.ProcessDuration += other.ProcessDuration
	s.SaveDuration += other.SaveDuration
	s.ErrorCount += other.ErrorCount
	s.WarningCount += other.WarningCount

	if other.CustomMetrics != nil {
		if s.CustomMetrics == nil {
			s.CustomMetrics = make(map[string]interface{})
		}
		for k, v := range other.CustomMetrics {
			s.CustomMetrics[k] = v
		}
	}
	s.Messages = append(s.Messages, other.Messages...)
}

// NewExecutionResult builds a result for a finished job execution.
func NewExecutionResult(start time.Time, stats *ExecutionStats, err error) *ExecutionResult {
	end := time.Now()
	return &ExecutionResult{
		Success:   err == nil,
		Error:     err,
		Stats:     stats,
		StartTime: start,
		EndTime:   end,
		Duration:  end.Sub(start).Seconds(),
	}
}
