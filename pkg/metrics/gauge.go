// Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
// See LICENSE for license information.

package metrics

import "github.com/prometheus/client_golang/prometheus"

// GaugeVec wraps a registered prometheus gauge vector. The benchmark
// callbacks publish point-in-time readings through it: throughput per step,
// device utilization and memory from the sampler.
type GaugeVec struct {
	gauges *prometheus.GaugeVec
}

// NewGaugeVec builds and registers a gauge vector in the harness namespace.
// Registration panics on a duplicate name, so construct at package init.
func NewGaugeVec(metricsName, help string, labels []string, opts ...OptsFunc) *GaugeVec {
	opt := &mOpts{
		name: metricsName,
		help: help,
	}
	for _, optsFunc := range opts {
		optsFunc(opt)
	}
	gg := prometheus.NewGaugeVec(opt.GetGaugeOpts(), labels)
	prometheus.MustRegister(gg)

	return &GaugeVec{
		gauges: gg,
	}
}

func (self *GaugeVec) Set(v float64, labels ...string) {
	self.gauges.WithLabelValues(labels...).Set(v)
}

func (self *GaugeVec) Inc(labels ...string) {
	self.gauges.WithLabelValues(labels...).Inc()
}

func (self *GaugeVec) Add(v float64, labels ...string) {
	self.gauges.WithLabelValues(labels...).Add(v)
}

// Delete drops one label combination, for devices that disappear between
// sampling rounds.
func (self *GaugeVec) Delete(labels ...string) {
	self.gauges.DeleteLabelValues(labels...)
}
