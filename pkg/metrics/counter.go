// Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
// See LICENSE for license information.

package metrics

import "github.com/prometheus/client_golang/prometheus"

// CounterVec wraps a registered prometheus counter vector, used for
// monotonic tallies such as job executions per result.
type CounterVec struct {
	counters *prometheus.CounterVec
}

// NewCounterVec builds and registers a counter vector in the harness
// namespace. Registration panics on a duplicate name, so construct at
// package init.
func NewCounterVec(metricsName, help string, labels []string, opts ...OptsFunc) *CounterVec {
	opt := &mOpts{
		name: metricsName,
		help: help,
	}
	for _, optsFunc := range opts {
		optsFunc(opt)
	}
	cc := prometheus.NewCounterVec(opt.GetCounterOpts(), labels)
	prometheus.MustRegister(cc)

	return &CounterVec{
		counters: cc,
	}
}

func (self *CounterVec) Inc(labels ...string) {
	self.counters.WithLabelValues(labels...).Inc()
}

func (self *CounterVec) Add(count float64, labels ...string) {
	self.counters.WithLabelValues(labels...).Add(count)
}
