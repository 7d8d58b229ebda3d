// Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
// See LICENSE for license information.

package metrics

import "github.com/prometheus/client_golang/prometheus"

const defaultNamespace = "primus_bench"

type mOpts struct {
	name          string
	help          string
	namespace     *string
	labels        map[string]string
	buckets       []float64
	withoutSuffix bool
}

type OptsFunc func(*mOpts)

func WithNamespace(namespace string) OptsFunc {
	return func(o *mOpts) {
		o.namespace = &namespace
	}
}

func WithConstLabels(labels map[string]string) OptsFunc {
	return func(o *mOpts) {
		o.labels = labels
	}
}

func WithBuckets(buckets []float64) OptsFunc {
	return func(o *mOpts) {
		o.buckets = buckets
	}
}

func WithoutSuffix() OptsFunc {
	return func(o *mOpts) {
		o.withoutSuffix = true
	}
}

func (o *mOpts) fullName(suffix string) string {
	if o.withoutSuffix {
		return o.name
	}
	return o.name + suffix
}

func (o *mOpts) fullHelp(kind string) string {
	help := o.help
	if help == "" {
		help = o.name
	}
	return help + " (" + kind + ")"
}

func (o *mOpts) getNamespace() string {
	if o.namespace != nil {
		return *o.namespace
	}
	return defaultNamespace
}

func (o *mOpts) GetCounterOpts() prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   o.getNamespace(),
		Name:        o.fullName("_c"),
		Help:        o.fullHelp("counters"),
		ConstLabels: o.labels,
	}
}

func (o *mOpts) GetGaugeOpts() prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   o.getNamespace(),
		Name:        o.fullName("_g"),
		Help:        o.fullHelp("gauges"),
		ConstLabels: o.labels,
	}
}

func (o *mOpts) GetHistogramOpts() prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   o.getNamespace(),
		Name:        o.fullName("_h"),
		Help:        o.fullHelp("histogram"),
		ConstLabels: o.labels,
		Buckets:     o.buckets,
	}
}
