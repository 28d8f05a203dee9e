// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package router chains swaps across pools. A route either executes every
// hop or leaves state exactly as it found it.
package router

import (
	"context"
	"fmt"

	"github.com/ava-labs/lbpvm/codec"
	"github.com/ava-labs/lbpvm/pool"
	"github.com/ava-labs/lbpvm/pricing"
	"github.com/ava-labs/lbpvm/state"
)

// View is transactional state that can be rolled back to an earlier
// operation index. [tstate.TStateView] implements it.
type View interface {
	state.Mutable

	OpIndex() int
	Rollback(ctx context.Context, restorePoint int)
}

// Result describes an executed or simulated route.
type Result struct {
	AmountIn  uint64           `json:"amountIn"`
	AmountOut uint64           `json:"amountOut"`
	Hops      []*pricing.Quote `json:"hops"`
}

type Router struct {
	pools *pool.Manager
}

func New(pools *pool.Manager) *Router {
	return &Router{pools: pools}
}

// ExecuteExactIn sells [amountIn] along [plan]. Each hop sells the whole
// output of the previous one and only the final output is checked against
// [minOut].
func (r *Router) ExecuteExactIn(
	ctx context.Context,
	view View,
	plan Plan,
	amountIn uint64,
	minOut uint64,
	now int64,
	actor codec.Address,
) (_ *Result, err error) {
	if err := r.check(ctx, view, plan); err != nil {
		return nil, err
	}
	if amountIn == 0 {
		return nil, pricing.ErrZeroAmount
	}

	restore := view.OpIndex()
	defer func() {
		if err != nil {
			view.Rollback(ctx, restore)
		}
	}()

	res := &Result{AmountIn: amountIn, Hops: make([]*pricing.Quote, 0, len(plan))}
	amount := amountIn
	for i, hop := range plan {
		q, err := r.pools.Swap(ctx, view, hop.Pool, hop.AssetIn, amount, 0, now, actor)
		if err != nil {
			return nil, fmt.Errorf("hop %d: %w", i, err)
		}
		res.Hops = append(res.Hops, q)
		amount = q.AmountOut
	}
	if amount < minOut {
		return nil, fmt.Errorf("%w: route output %d below minimum %d", pool.ErrSlippageExceeded, amount, minOut)
	}
	res.AmountOut = amount
	return res, nil
}

// ExecuteExactOut buys exactly [amountOut] of the last asset of [plan],
// paying at most [maxIn] of the first.
func (r *Router) ExecuteExactOut(
	ctx context.Context,
	view View,
	plan Plan,
	amountOut uint64,
	maxIn uint64,
	now int64,
	actor codec.Address,
) (_ *Result, err error) {
	planned, err := r.SimulateExactOut(ctx, view, plan, amountOut, now)
	if err != nil {
		return nil, err
	}
	if planned.AmountIn > maxIn {
		return nil, fmt.Errorf("%w: route input %d above maximum %d", pool.ErrExcessiveInput, planned.AmountIn, maxIn)
	}

	restore := view.OpIndex()
	defer func() {
		if err != nil {
			view.Rollback(ctx, restore)
		}
	}()

	res := &Result{AmountIn: planned.AmountIn, AmountOut: amountOut, Hops: make([]*pricing.Quote, 0, len(plan))}
	for i, hop := range plan {
		want := planned.Hops[i]
		q, err := r.pools.SwapExactOut(ctx, view, hop.Pool, hop.AssetIn, want.AmountOut, want.AmountIn, now, actor)
		if err != nil {
			return nil, fmt.Errorf("hop %d: %w", i, err)
		}
		res.Hops = append(res.Hops, q)
	}
	return res, nil
}

// SimulateExactIn prices [ExecuteExactIn] without writing state. Pools are
// never repeated within a plan, so quoting each hop against current state
// is exact.
func (r *Router) SimulateExactIn(ctx context.Context, im state.Immutable, plan Plan, amountIn uint64, now int64) (*Result, error) {
	if err := r.check(ctx, im, plan); err != nil {
		return nil, err
	}
	res := &Result{AmountIn: amountIn, Hops: make([]*pricing.Quote, 0, len(plan))}
	amount := amountIn
	for i, hop := range plan {
		q, err := r.pools.Simulate(ctx, im, hop.Pool, hop.AssetIn, amount, now)
		if err != nil {
			return nil, fmt.Errorf("hop %d: %w", i, err)
		}
		res.Hops = append(res.Hops, q)
		amount = q.AmountOut
	}
	res.AmountOut = amount
	return res, nil
}

// SimulateExactOut walks [plan] backwards, computing the input every hop
// needs to produce the input of the next one.
func (r *Router) SimulateExactOut(ctx context.Context, im state.Immutable, plan Plan, amountOut uint64, now int64) (*Result, error) {
	if err := r.check(ctx, im, plan); err != nil {
		return nil, err
	}
	hops := make([]*pricing.Quote, len(plan))
	amount := amountOut
	for i := len(plan) - 1; i >= 0; i-- {
		hop := plan[i]
		q, err := r.pools.SimulateExactOut(ctx, im, hop.Pool, hop.AssetIn, amount, now)
		if err != nil {
			return nil, fmt.Errorf("hop %d: %w", i, err)
		}
		hops[i] = q
		amount = q.AmountIn
	}
	return &Result{AmountIn: amount, AmountOut: amountOut, Hops: hops}, nil
}

// check validates [plan] against the pools it names before anything is
// written.
func (r *Router) check(ctx context.Context, im state.Immutable, plan Plan) error {
	if err := plan.Validate(); err != nil {
		return err
	}
	for i, hop := range plan {
		p, err := r.pools.Get(ctx, im, hop.Pool)
		if err != nil {
			return fmt.Errorf("hop %d: %w", i, err)
		}
		out, err := p.Config.Other(hop.AssetIn)
		if err != nil {
			return fmt.Errorf("%w: hop %d: %w", ErrRouteDiscontinuity, i, err)
		}
		if out != hop.AssetOut {
			return fmt.Errorf("%w: hop %d: %s pays %s, not %s", ErrRouteDiscontinuity, i, hop.Pool, out, hop.AssetOut)
		}
	}
	return nil
}
