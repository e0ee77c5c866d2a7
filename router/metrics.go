// Copyright (C) 2024, Galactic Council. All rights reserved.
// See the file LICENSE for licensing terms.

package router

import (
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	routesExecuted prometheus.Counter
	routesFailed   prometheus.Counter
	legsExecuted   prometheus.Counter
	routeLength    prometheus.Histogram
}

// NewMetrics registers the router metrics on [r].
func NewMetrics(r prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		routesExecuted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "router",
			Name:      "routes_executed",
			Help:      "number of routes executed",
		}),
		routesFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "router",
			Name:      "routes_failed",
			Help:      "number of routes rejected or rolled back",
		}),
		legsExecuted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "router",
			Name:      "legs_executed",
			Help:      "number of trade legs executed",
		}),
		routeLength: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "router",
			Name:      "route_length",
			Help:      "number of legs per executed route",
			Buckets:   prometheus.LinearBuckets(1, 1, 8),
		}),
	}
	errs := wrappers.Errs{}
	errs.Add(
		r.Register(m.routesExecuted),
		r.Register(m.routesFailed),
		r.Register(m.legsExecuted),
		r.Register(m.routeLength),
	)
	return m, errs.Err
}

func (m *Metrics) executed(legs int) {
	m.routesExecuted.Inc()
	m.legsExecuted.Add(float64(legs))
	m.routeLength.Observe(float64(legs))
}

func (m *Metrics) failed() {
	m.routesFailed.Inc()
}
