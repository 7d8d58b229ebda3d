// Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
// See LICENSE for license information.

package jobs

import (
	"reflect"
	"time"

	"github.com/AMD-AGI/Primus-Bench/pkg/common"
	"github.com/AMD-AGI/Primus-Bench/pkg/metrics"
)

var (
	jobRunsCounter = metrics.NewCounterVec(
		"job_runs", "job executions by job name and result", []string{"job", "result"})
	jobDurationHistogram = metrics.NewHistogramVec(
		"job_duration_seconds", "job execution duration", []string{"job"},
		metrics.WithBuckets([]float64{0.1, 0.5, 1, 5, 15, 60, 300}))
)

func recordJobExecution(job Job, start time.Time, stats *common.ExecutionStats, err error) {
	name := getJobName(job)
	result := "success"
	if err != nil {
		result = "error"
	} else if stats != nil && stats.ErrorCount > 0 {
		result = "partial"
	}
	jobRunsCounter.Inc(name, result)
	jobDurationHistogram.Observe(time.Since(start).Seconds(), name)
}

// getJobName extracts the concrete type name of a job for labeling.
func getJobName(job Job) string {
	t := reflect.TypeOf(job)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}
