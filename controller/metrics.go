// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package controller

import (
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/prometheus/client_golang/prometheus"

	ametrics "github.com/ava-labs/avalanchego/api/metrics"

	"github.com/ava-labs/lbpvm/consts"
)

type metrics struct {
	createPool        prometheus.Counter
	provideLiquidity  prometheus.Counter
	withdrawLiquidity prometheus.Counter

	swap         prometheus.Counter
	swapExactOut prometheus.Counter

	executeRoute         prometheus.Counter
	executeRouteExactOut prometheus.Counter

	failed        prometheus.Counter
	executionTime prometheus.Histogram
}

func newMetrics(gatherer ametrics.MultiGatherer) (*metrics, error) {
	m := &metrics{
		createPool: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "actions",
			Name:      "create_pool",
			Help:      "number of create pool actions",
		}),
		provideLiquidity: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "actions",
			Name:      "provide_liquidity",
			Help:      "number of provide liquidity actions",
		}),
		withdrawLiquidity: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "actions",
			Name:      "withdraw_liquidity",
			Help:      "number of withdraw liquidity actions",
		}),
		swap: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "actions",
			Name:      "swap",
			Help:      "number of swap actions",
		}),
		swapExactOut: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "actions",
			Name:      "swap_exact_out",
			Help:      "number of swap exact out actions",
		}),
		executeRoute: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "actions",
			Name:      "execute_route",
			Help:      "number of execute route actions",
		}),
		executeRouteExactOut: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "actions",
			Name:      "execute_route_exact_out",
			Help:      "number of execute route exact out actions",
		}),
		failed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "actions",
			Name:      "failed",
			Help:      "number of actions that returned an error",
		}),
		executionTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "actions",
			Name:      "execution_time",
			Help:      "time spent executing and committing an action, in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	r := prometheus.NewRegistry()
	errs := wrappers.Errs{}
	errs.Add(
		r.Register(m.createPool),
		r.Register(m.provideLiquidity),
		r.Register(m.withdrawLiquidity),

		r.Register(m.swap),
		r.Register(m.swapExactOut),

		r.Register(m.executeRoute),
		r.Register(m.executeRouteExactOut),

		r.Register(m.failed),
		r.Register(m.executionTime),
		gatherer.Register(consts.Name, r),
	)
	return m, errs.Err
}
