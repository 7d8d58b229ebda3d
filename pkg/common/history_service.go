// Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
// See LICENSE for license information.

package common

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"time"

	"github.com/AMD-AGI/Primus-Bench/pkg/logger/log"
)

// Job interface definition (minimized to avoid circular imports)
type Job interface {
	Schedule() string
}

// historyRecord is one line of the job execution history file.
type historyRecord struct {
	JobName   string          `json:"job_name"`
	Schedule  string          `json:"schedule"`
	Hostname  string          `json:"hostname"`
	Success   bool            `json:"success"`
	Error     string          `json:"error,omitempty"`
	Stats     *ExecutionStats `json:"stats,omitempty"`
	StartTime time.Time       `json:"start_time"`
	EndTime   time.Time       `json:"end_time"`
	Duration  float64         `json:"duration"`
}

// HistoryService appends job execution records to a local JSONL file so a
// node's backfill history survives process restarts.
type HistoryService struct {
	path     string
	hostname string

	mu sync.Mutex
}

// NewHistoryService creates a history service writing to the given file.
// An empty path disables recording.
func NewHistoryService(path string) *HistoryService {
	hostname, _ := os.Hostname()
	return &HistoryService{
		path:     path,
		hostname: hostname,
	}
}

// RecordJobExecution appends one execution record. Failures are logged and
// swallowed: history is bookkeeping, not part of the job.
func (h *HistoryService) RecordJobExecution(job Job, result *ExecutionResult) {
	if h.path == "" || result == nil {
		return
	}

	record := historyRecord{
		JobName:   getJobName(job),
		Schedule:  job.Schedule(),
		Hostname:  h.hostname,
		Success:   result.Success,
		Stats:     result.Stats,
		StartTime: result.StartTime,
		EndTime:   result.EndTime,
		Duration:  result.Duration,
	}
	if result.Error != nil {
		record.Error = result.Error.Error()
	}

	line, err := json.Marshal(record)
	if err != nil {
		log.Warnf("failed to marshal history record for job %s: %v", record.JobName, err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if dir := filepath.Dir(h.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Warnf("failed to create history directory %s: %v", dir, err)
			return
		}
	}
	f, err := os.OpenFile(h.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.Warnf("failed to open history file %s: %v", h.path, err)
		return
	}
	defer f.Close()
	if _, err := f.Write(append(line, '\n')); err != nil {
		log.Warnf("failed to append history record: %v", err)
	}
}

// ReadHistory loads every record from the history file, oldest first.
func (h *HistoryService) ReadHistory() ([]ExecutionResult, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	raw, err := os.ReadFile(h.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var results []ExecutionResult
	dec := json.NewDecoder(bytes.NewReader(raw))
	for dec.More() {
		var record historyRecord
		if err := dec.Decode(&record); err != nil {
			log.Warnf("skipping malformed history line: %v", err)
			break
		}
		results = append(results, ExecutionResult{
			Success:   record.Success,
			Stats:     record.Stats,
			StartTime: record.StartTime,
			EndTime:   record.EndTime,
			Duration:  record.Duration,
		})
	}
	return results, nil
}

func getJobName(job Job) string {
	t := reflect.TypeOf(job)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}
