// Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
// See LICENSE for license information.

package metrics

import "github.com/prometheus/client_golang/prometheus"

type HistogramVec struct {
	histogram *prometheus.HistogramVec
}

func NewHistogramVec(metricsName, help string, labels []string, opts ...OptsFunc) *HistogramVec {
	opt := &mOpts{
		name: metricsName,
		help: help,
	}
	for _, optsFunc := range opts {
		optsFunc(opt)
	}
	histogramOpt := opt.GetHistogramOpts()
	hh := prometheus.NewHistogramVec(histogramOpt, labels)
	prometheus.MustRegister(hh)

	return &HistogramVec{
		histogram: hh,
	}
}

func (self *HistogramVec) Observe(v float64, labels ...string) {
	self.histogram.WithLabelValues(labels...).Observe(v)
}
