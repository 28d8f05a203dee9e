// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package controller owns the state database and runs actions against it one
// at a time.
package controller

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/avalanchego/utils/timer/mockable"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	ametrics "github.com/ava-labs/avalanchego/api/metrics"

	"github.com/ava-labs/lbpvm/actions"
	"github.com/ava-labs/lbpvm/asset"
	"github.com/ava-labs/lbpvm/chain"
	"github.com/ava-labs/lbpvm/codec"
	"github.com/ava-labs/lbpvm/genesis"
	"github.com/ava-labs/lbpvm/pool"
	"github.com/ava-labs/lbpvm/pricing"
	"github.com/ava-labs/lbpvm/router"
	"github.com/ava-labs/lbpvm/state"
	"github.com/ava-labs/lbpvm/storage"
	"github.com/ava-labs/lbpvm/tstate"
)

var ErrOutsideValidRange = errors.New("action outside of valid range")

type Controller struct {
	log    logging.Logger
	tracer trace.Tracer

	db       state.Database
	genesis  *genesis.Genesis
	rules    chain.RuleFactory
	registry chain.Registry
	metrics  *metrics

	clock mockable.Clock

	// l serializes every call that writes state. Queries only need a
	// consistent read of the database.
	l     sync.RWMutex
	index uint64
}

func New(
	log logging.Logger,
	tracer trace.Tracer,
	db state.Database,
	g *genesis.Genesis,
	rules chain.RuleFactory,
	gatherer ametrics.MultiGatherer,
) (*Controller, error) {
	registry, err := actions.NewRegistry()
	if err != nil {
		return nil, err
	}
	m, err := newMetrics(gatherer)
	if err != nil {
		return nil, err
	}
	return &Controller{
		log:      log,
		tracer:   tracer,
		db:       db,
		genesis:  g,
		rules:    rules,
		registry: registry,
		metrics:  m,
	}, nil
}

// Initialize applies the genesis allocations unless the database already
// holds them.
func (c *Controller) Initialize(ctx context.Context) error {
	c.l.Lock()
	defer c.l.Unlock()

	ts := tstate.New(state.NewReader(c.db), len(c.genesis.CustomAllocation)+1)
	view := ts.NewView(nil)
	initialized, err := storage.HasGenesis(ctx, view)
	if err != nil {
		return err
	}
	if initialized {
		c.log.Info("genesis already applied")
		return nil
	}
	if err := c.genesis.InitializeState(ctx, c.tracer, view, storage.Bank{}); err != nil {
		return fmt.Errorf("unable to apply genesis: %w", err)
	}
	if err := storage.SetGenesis(ctx, view); err != nil {
		return err
	}
	view.Commit()
	if err := c.commit(ts); err != nil {
		return err
	}
	c.log.Info("applied genesis",
		zap.Int("allocations", len(c.genesis.CustomAllocation)),
	)
	return nil
}

// Clock is exposed so that tests can pin the time actions run at.
func (c *Controller) Clock() *mockable.Clock {
	return &c.clock
}

func (c *Controller) Now() int64 {
	return c.clock.Time().UnixMilli()
}

func (c *Controller) Rules(t int64) chain.Rules {
	return c.rules.GetRules(t)
}

func (c *Controller) Registry() chain.Registry {
	return c.registry
}

func (c *Controller) pools(t int64) *pool.Manager {
	r := c.Rules(t)
	return pool.NewDefaultManager(pool.Params{
		InitialShares: r.GetInitialShares(),
		DepositPolicy: r.GetDepositPolicy(),
	})
}

// Submit executes [action] on behalf of [actor]. An action that fails is
// reported in the returned result and leaves state untouched. The error is
// only set when the action could not be run or committed.
func (c *Controller) Submit(ctx context.Context, action chain.Action, actor codec.Address) (*chain.Result, error) {
	ctx, span := c.tracer.Start(ctx, "Controller.Submit")
	defer span.End()

	c.l.Lock()
	defer c.l.Unlock()

	start := time.Now()
	now := c.Now()
	r := c.Rules(now)
	actionBytes, err := codec.MarshalTyped(action)
	if err != nil {
		return nil, err
	}
	res := &chain.Result{
		ActionID:  chain.ActionID(actionBytes, now, c.index),
		Units:     action.ComputeUnits(r),
		Timestamp: now,
	}
	c.index++

	if begin, end := action.ValidRange(r); (begin >= 0 && now < begin) || (end >= 0 && now > end) {
		return c.fail(res, action, actor, fmt.Errorf("%w: %d not in [%d, %d]", ErrOutsideValidRange, now, begin, end)), nil
	}

	ts := tstate.New(state.NewReader(c.db), 16)
	view := ts.NewView(action.StateKeys(actor))
	output, err := action.Execute(ctx, r, view, now, actor, res.ActionID)
	if err != nil {
		return c.fail(res, action, actor, err), nil
	}
	view.Commit()
	if err := c.commit(ts); err != nil {
		c.log.Error("unable to commit action",
			zap.Stringer("actionID", res.ActionID),
			zap.Error(err),
		)
		return nil, err
	}
	if res.Output, err = codec.MarshalTyped(output); err != nil {
		return nil, err
	}
	res.Success = true
	c.record(action)
	c.metrics.executionTime.Observe(time.Since(start).Seconds())
	c.log.Debug("executed action",
		zap.Stringer("actionID", res.ActionID),
		zap.Uint8("type", action.GetTypeID()),
		zap.Stringer("actor", actor),
		zap.Int("changes", ts.PendingChanges()),
	)
	return res, nil
}

// SubmitBytes decodes an action produced by [codec.MarshalTyped] and
// executes it.
func (c *Controller) SubmitBytes(ctx context.Context, b []byte, actor codec.Address) (*chain.Result, error) {
	action, err := c.registry.ActionRegistry().Unmarshal(b, actions.MaxActionSize)
	if err != nil {
		return nil, err
	}
	return c.Submit(ctx, action, actor)
}

func (c *Controller) fail(res *chain.Result, action chain.Action, actor codec.Address, err error) *chain.Result {
	c.metrics.failed.Inc()
	res.Error = err.Error()
	fields := []zap.Field{
		zap.Stringer("actionID", res.ActionID),
		zap.Uint8("type", action.GetTypeID()),
		zap.Stringer("actor", actor),
		zap.Error(err),
	}
	if pool.IsUserError(err) {
		c.log.Debug("action failed", fields...)
	} else {
		c.log.Warn("action failed", fields...)
	}
	return res
}

func (c *Controller) commit(ts *tstate.TState) error {
	batch := c.db.NewBatch()
	defer batch.Reset()

	if err := ts.WriteTo(batch); err != nil {
		return err
	}
	return batch.Write()
}

func (c *Controller) record(action chain.Action) {
	switch action.(type) {
	case *actions.CreatePool:
		c.metrics.createPool.Inc()
	case *actions.ProvideLiquidity:
		c.metrics.provideLiquidity.Inc()
	case *actions.WithdrawLiquidity:
		c.metrics.withdrawLiquidity.Inc()
	case *actions.Swap:
		c.metrics.swap.Inc()
	case *actions.SwapExactOut:
		c.metrics.swapExactOut.Inc()
	case *actions.ExecuteRoute:
		c.metrics.executeRoute.Inc()
	case *actions.ExecuteRouteExactOut:
		c.metrics.executeRouteExactOut.Inc()
	}
}

func (c *Controller) reader() state.Immutable {
	return state.NewReader(c.db)
}

// at resolves the time a query is evaluated at. Zero means now.
func (c *Controller) at(t int64) int64 {
	if t == 0 {
		return c.Now()
	}
	return t
}

func (c *Controller) Pool(ctx context.Context, addr codec.Address) (*pool.Pool, error) {
	c.l.RLock()
	defer c.l.RUnlock()

	return c.pools(c.Now()).Get(ctx, c.reader(), addr)
}

func (c *Controller) LookupPool(ctx context.Context, x, y asset.Asset) (codec.Address, error) {
	c.l.RLock()
	defer c.l.RUnlock()

	return c.pools(c.Now()).Lookup(ctx, c.reader(), x, y)
}

// ListPairs pages through registered pools, newest first.
func (c *Controller) ListPairs(ctx context.Context, startAfter []asset.Asset, limit int) ([]storage.Pair, error) {
	c.l.RLock()
	defer c.l.RUnlock()

	return storage.Registry{}.List(ctx, c.reader(), startAfter, limit)
}

// Weights returns the weights of asset A and asset B of [addr] at [t].
func (c *Controller) Weights(ctx context.Context, addr codec.Address, t int64) (uint64, uint64, error) {
	c.l.RLock()
	defer c.l.RUnlock()

	t = c.at(t)
	return c.pools(t).Weights(ctx, c.reader(), addr, t)
}

func (c *Controller) SpotPrice(ctx context.Context, addr codec.Address, t int64) (decimal.Decimal, error) {
	c.l.RLock()
	defer c.l.RUnlock()

	t = c.at(t)
	return c.pools(t).SpotPrice(ctx, c.reader(), addr, t)
}

func (c *Controller) Simulate(ctx context.Context, addr codec.Address, assetIn asset.Asset, amountIn uint64, t int64) (*pricing.Quote, error) {
	c.l.RLock()
	defer c.l.RUnlock()

	t = c.at(t)
	return c.pools(t).Simulate(ctx, c.reader(), addr, assetIn, amountIn, t)
}

func (c *Controller) SimulateExactOut(ctx context.Context, addr codec.Address, assetIn asset.Asset, amountOut uint64, t int64) (*pricing.Quote, error) {
	c.l.RLock()
	defer c.l.RUnlock()

	t = c.at(t)
	return c.pools(t).SimulateExactOut(ctx, c.reader(), addr, assetIn, amountOut, t)
}

// SimulateRoute prices a route along [path]. With [exactOut], [amount] is
// the output to buy, otherwise it is the input to sell.
func (c *Controller) SimulateRoute(ctx context.Context, path []asset.Asset, amount uint64, exactOut bool, t int64) (*router.Result, error) {
	c.l.RLock()
	defer c.l.RUnlock()

	t = c.at(t)
	m := c.pools(t)
	im := c.reader()
	plan, err := router.Resolve(ctx, im, m.Registry(), path...)
	if err != nil {
		return nil, err
	}
	r := router.New(m)
	if exactOut {
		return r.SimulateExactOut(ctx, im, plan, amount, t)
	}
	return r.SimulateExactIn(ctx, im, plan, amount, t)
}

func (c *Controller) Balance(ctx context.Context, owner codec.Address, a asset.Asset) (uint64, error) {
	c.l.RLock()
	defer c.l.RUnlock()

	return storage.Bank{}.Balance(ctx, c.reader(), owner, a)
}

func (c *Controller) ShareBalance(ctx context.Context, addr codec.Address, owner codec.Address) (uint64, error) {
	c.l.RLock()
	defer c.l.RUnlock()

	return storage.ShareLedger{}.Balance(ctx, c.reader(), addr, owner)
}

func (c *Controller) Close() error {
	c.l.Lock()
	defer c.l.Unlock()

	return c.db.Close()
}
