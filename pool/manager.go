// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pool

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ava-labs/lbpvm/asset"
	"github.com/ava-labs/lbpvm/codec"
	"github.com/ava-labs/lbpvm/liquidity"
	"github.com/ava-labs/lbpvm/pricing"
	"github.com/ava-labs/lbpvm/state"
	"github.com/ava-labs/lbpvm/storage"

	smath "github.com/ava-labs/avalanchego/utils/math"
)

// DefaultInitialShares is minted by the first deposit into a pool.
const DefaultInitialShares uint64 = 1_000_000_000_000

// Params are the protocol parameters shared by all pools.
type Params struct {
	// InitialShares is minted to the first liquidity provider and sets the
	// granularity of the share unit.
	InitialShares uint64
	// DepositPolicy decides what happens to the part of a deposit that does
	// not match the pool ratio.
	DepositPolicy liquidity.Policy
}

func DefaultParams() Params {
	return Params{
		InitialShares: DefaultInitialShares,
		DepositPolicy: liquidity.Strict,
	}
}

// Withdrawal is the outcome of burning liquidity shares.
type Withdrawal struct {
	AmountA uint64 `json:"amountA"`
	AmountB uint64 `json:"amountB"`
	Shares  uint64 `json:"shares"`
}

// Manager is the only writer of pool reserves. Every call reads pool state
// from [state.Mutable] and writes it back before returning, so a Manager
// holds no per-pool state of its own.
type Manager struct {
	params   Params
	ledger   Ledger
	bank     Bank
	registry Registry
}

func NewManager(params Params, ledger Ledger, bank Bank, registry Registry) *Manager {
	return &Manager{
		params:   params,
		ledger:   ledger,
		bank:     bank,
		registry: registry,
	}
}

// NewDefaultManager backs the collaborators with host state.
func NewDefaultManager(params Params) *Manager {
	return NewManager(params, storage.ShareLedger{}, storage.Bank{}, storage.Registry{})
}

func (m *Manager) Params() Params {
	return m.params
}

func (m *Manager) Registry() Registry {
	return m.registry
}

// Create registers a new pool for the asset pair of [cfg]. The pool starts
// with no reserves and no shares.
func (m *Manager) Create(ctx context.Context, mu state.Mutable, cfg Config, actor codec.Address) (codec.Address, error) {
	cfg.Creator = actor
	if err := cfg.Verify(); err != nil {
		return codec.EmptyAddress, err
	}
	addr := storage.PoolAddress(cfg.AssetA, cfg.AssetB)
	found, err := exists(ctx, mu, addr)
	if err != nil {
		return codec.EmptyAddress, err
	}
	if found {
		return codec.EmptyAddress, fmt.Errorf("%w: %s", ErrPoolExists, addr)
	}
	if err := m.registry.Register(ctx, mu, cfg.AssetA, cfg.AssetB, addr); err != nil {
		return codec.EmptyAddress, fmt.Errorf("%w: %w", ErrPoolExists, err)
	}
	if err := storeConfig(ctx, mu, addr, &cfg); err != nil {
		return codec.EmptyAddress, err
	}
	if err := storeState(ctx, mu, addr, &State{}); err != nil {
		return codec.EmptyAddress, err
	}
	return addr, nil
}

// Get returns the config and state of [addr].
func (*Manager) Get(ctx context.Context, im state.Immutable, addr codec.Address) (*Pool, error) {
	return Load(ctx, im, addr)
}

// Lookup finds the pool trading [x] against [y].
func (m *Manager) Lookup(ctx context.Context, im state.Immutable, x, y asset.Asset) (codec.Address, error) {
	addr, err := m.registry.Lookup(ctx, im, x, y)
	if err != nil {
		return codec.EmptyAddress, fmt.Errorf("%w: %w", ErrPoolNotFound, err)
	}
	return addr, nil
}

// Weights returns the weights of asset A and asset B of [addr] at [now].
func (*Manager) Weights(ctx context.Context, im state.Immutable, addr codec.Address, now int64) (uint64, uint64, error) {
	p, err := Load(ctx, im, addr)
	if err != nil {
		return 0, 0, err
	}
	wa, wb := p.Config.Current(now)
	return wa, wb, nil
}

// SpotPrice returns the price of asset A denominated in asset B.
func (*Manager) SpotPrice(ctx context.Context, im state.Immutable, addr codec.Address, now int64) (decimal.Decimal, error) {
	p, err := Load(ctx, im, addr)
	if err != nil {
		return decimal.Zero, err
	}
	if !p.State.Initialized() {
		return decimal.Zero, pricing.ErrPoolNotInitialized
	}
	a, b, err := p.reserves(p.Config.AssetA, now)
	if err != nil {
		return decimal.Zero, err
	}
	return pricing.SpotPrice(a, b)
}

// Simulate prices selling [amountIn] of [assetIn] without touching state.
func (*Manager) Simulate(ctx context.Context, im state.Immutable, addr codec.Address, assetIn asset.Asset, amountIn uint64, now int64) (*pricing.Quote, error) {
	p, err := Load(ctx, im, addr)
	if err != nil {
		return nil, err
	}
	return quoteExactIn(p, assetIn, amountIn, now)
}

// SimulateExactOut prices buying [amountOut] with [assetIn] without
// touching state.
func (*Manager) SimulateExactOut(ctx context.Context, im state.Immutable, addr codec.Address, assetIn asset.Asset, amountOut uint64, now int64) (*pricing.Quote, error) {
	p, err := Load(ctx, im, addr)
	if err != nil {
		return nil, err
	}
	return quoteExactOut(p, assetIn, amountOut, now)
}

// Swap sells [amountIn] of [assetIn] for at least [minOut] of the other
// asset.
func (m *Manager) Swap(
	ctx context.Context,
	mu state.Mutable,
	addr codec.Address,
	assetIn asset.Asset,
	amountIn uint64,
	minOut uint64,
	now int64,
	actor codec.Address,
) (*pricing.Quote, error) {
	p, err := Load(ctx, mu, addr)
	if err != nil {
		return nil, err
	}
	q, err := quoteExactIn(p, assetIn, amountIn, now)
	if err != nil {
		return nil, err
	}
	if q.AmountOut < minOut {
		return nil, fmt.Errorf("%w: output %d below minimum %d", ErrSlippageExceeded, q.AmountOut, minOut)
	}
	if err := m.settle(ctx, mu, p, assetIn, q, actor); err != nil {
		return nil, err
	}
	return q, nil
}

// SwapExactOut buys exactly [amountOut] of the asset opposite [assetIn],
// paying at most [maxIn].
func (m *Manager) SwapExactOut(
	ctx context.Context,
	mu state.Mutable,
	addr codec.Address,
	assetIn asset.Asset,
	amountOut uint64,
	maxIn uint64,
	now int64,
	actor codec.Address,
) (*pricing.Quote, error) {
	p, err := Load(ctx, mu, addr)
	if err != nil {
		return nil, err
	}
	q, err := quoteExactOut(p, assetIn, amountOut, now)
	if err != nil {
		return nil, err
	}
	if q.AmountIn > maxIn {
		return nil, fmt.Errorf("%w: input %d above maximum %d", ErrExcessiveInput, q.AmountIn, maxIn)
	}
	if err := m.settle(ctx, mu, p, assetIn, q, actor); err != nil {
		return nil, err
	}
	return q, nil
}

// Provide deposits up to [amountA] and [amountB]. The first deposit into an
// empty pool is taken as is: its ratio becomes the opening price of the
// pool. Later deposits must follow the reserve ratio, subject to the
// deposit policy.
func (m *Manager) Provide(
	ctx context.Context,
	mu state.Mutable,
	addr codec.Address,
	amountA uint64,
	amountB uint64,
	_ int64,
	actor codec.Address,
) (*liquidity.Deposit, error) {
	p, err := Load(ctx, mu, addr)
	if err != nil {
		return nil, err
	}

	var d *liquidity.Deposit
	if p.State.Initialized() {
		d, err = liquidity.Provide(p.State.ReserveA, p.State.ReserveB, p.State.TotalShares, amountA, amountB, m.params.DepositPolicy)
	} else {
		d, err = liquidity.Initial(amountA, amountB, m.params.InitialShares)
	}
	if err != nil {
		return nil, err
	}

	next := *p.State
	if next.ReserveA, err = smath.Add(next.ReserveA, d.AmountA); err != nil {
		return nil, fmt.Errorf("%w: reserve A: %w", pricing.ErrArithmeticOverflow, err)
	}
	if next.ReserveB, err = smath.Add(next.ReserveB, d.AmountB); err != nil {
		return nil, fmt.Errorf("%w: reserve B: %w", pricing.ErrArithmeticOverflow, err)
	}
	if next.TotalShares, err = smath.Add(next.TotalShares, d.Shares); err != nil {
		return nil, fmt.Errorf("%w: total shares: %w", pricing.ErrArithmeticOverflow, err)
	}

	if err := m.checkFunds(ctx, mu, actor, p.Config.AssetA, d.AmountA); err != nil {
		return nil, err
	}
	if err := m.checkFunds(ctx, mu, actor, p.Config.AssetB, d.AmountB); err != nil {
		return nil, err
	}
	if err := m.bank.Transfer(ctx, mu, p.Config.AssetA, actor, addr, d.AmountA); err != nil {
		return nil, err
	}
	if err := m.bank.Transfer(ctx, mu, p.Config.AssetB, actor, addr, d.AmountB); err != nil {
		return nil, err
	}
	if err := m.ledger.Mint(ctx, mu, addr, actor, d.Shares); err != nil {
		return nil, err
	}
	if err := storeState(ctx, mu, addr, &next); err != nil {
		return nil, err
	}
	return d, nil
}

// Withdraw burns [shares] held by [actor] and pays out the pro-rata
// reserves, rounded down. Burning the entire supply returns the pool to its
// uninitialized state.
func (m *Manager) Withdraw(
	ctx context.Context,
	mu state.Mutable,
	addr codec.Address,
	shares uint64,
	_ int64,
	actor codec.Address,
) (*Withdrawal, error) {
	p, err := Load(ctx, mu, addr)
	if err != nil {
		return nil, err
	}
	if !p.State.Initialized() {
		return nil, pricing.ErrPoolNotInitialized
	}
	held, err := m.ledger.Balance(ctx, mu, addr, actor)
	if err != nil {
		return nil, err
	}
	if shares > held {
		return nil, fmt.Errorf("%w: %s holds %d, withdrawing %d", liquidity.ErrInsufficientShares, actor, held, shares)
	}
	amountA, amountB, err := liquidity.Withdraw(p.State.ReserveA, p.State.ReserveB, p.State.TotalShares, shares)
	if err != nil {
		return nil, err
	}
	if amountA == 0 && amountB == 0 {
		return nil, fmt.Errorf("%w: %d shares redeem nothing", pricing.ErrOutputTooSmall, shares)
	}

	// liquidity.Withdraw bounds every amount by its reserve.
	next := State{
		ReserveA:    p.State.ReserveA - amountA,
		ReserveB:    p.State.ReserveB - amountB,
		TotalShares: p.State.TotalShares - shares,
	}
	if err := m.checkReserve(ctx, mu, addr, p.Config.AssetA, amountA); err != nil {
		return nil, err
	}
	if err := m.checkReserve(ctx, mu, addr, p.Config.AssetB, amountB); err != nil {
		return nil, err
	}
	if err := m.ledger.Burn(ctx, mu, addr, actor, shares); err != nil {
		return nil, err
	}
	if err := m.bank.Transfer(ctx, mu, p.Config.AssetA, addr, actor, amountA); err != nil {
		return nil, err
	}
	if err := m.bank.Transfer(ctx, mu, p.Config.AssetB, addr, actor, amountB); err != nil {
		return nil, err
	}
	if err := storeState(ctx, mu, addr, &next); err != nil {
		return nil, err
	}
	return &Withdrawal{AmountA: amountA, AmountB: amountB, Shares: shares}, nil
}

func quoteExactIn(p *Pool, assetIn asset.Asset, amountIn uint64, now int64) (*pricing.Quote, error) {
	if !p.State.Initialized() {
		return nil, pricing.ErrPoolNotInitialized
	}
	in, out, err := p.reserves(assetIn, now)
	if err != nil {
		return nil, err
	}
	return pricing.QuoteExactIn(in, out, amountIn, p.Config.FeeBps)
}

func quoteExactOut(p *Pool, assetIn asset.Asset, amountOut uint64, now int64) (*pricing.Quote, error) {
	if !p.State.Initialized() {
		return nil, pricing.ErrPoolNotInitialized
	}
	if amountOut == 0 {
		return nil, pricing.ErrZeroAmount
	}
	in, out, err := p.reserves(assetIn, now)
	if err != nil {
		return nil, err
	}
	return pricing.QuoteExactOut(in, out, amountOut, p.Config.FeeBps)
}

// settle moves the assets of [q] between [actor] and the pool and writes
// the new reserves. The whole gross input, fee included, stays in the pool.
func (m *Manager) settle(ctx context.Context, mu state.Mutable, p *Pool, assetIn asset.Asset, q *pricing.Quote, actor codec.Address) error {
	assetOut, err := p.Config.Other(assetIn)
	if err != nil {
		return err
	}

	next := *p.State
	reserveIn, reserveOut := &next.ReserveA, &next.ReserveB
	if assetIn == p.Config.AssetB {
		reserveIn, reserveOut = reserveOut, reserveIn
	}
	if *reserveIn, err = smath.Add(*reserveIn, q.AmountIn); err != nil {
		return fmt.Errorf("%w: reserve in: %w", pricing.ErrArithmeticOverflow, err)
	}
	if q.AmountOut >= *reserveOut {
		return fmt.Errorf("%w: paying %d from reserve %d", ErrInvariantViolation, q.AmountOut, *reserveOut)
	}
	*reserveOut -= q.AmountOut

	if err := m.checkFunds(ctx, mu, actor, assetIn, q.AmountIn); err != nil {
		return err
	}
	if err := m.checkReserve(ctx, mu, p.Address, assetOut, q.AmountOut); err != nil {
		return err
	}
	if err := m.bank.Transfer(ctx, mu, assetIn, actor, p.Address, q.AmountIn); err != nil {
		return err
	}
	if err := m.bank.Transfer(ctx, mu, assetOut, p.Address, actor, q.AmountOut); err != nil {
		return err
	}
	return storeState(ctx, mu, p.Address, &next)
}

// checkFunds fails if [owner] cannot pay [amount] of [a]. Every transfer of
// a call is checked before the first one is made.
func (m *Manager) checkFunds(ctx context.Context, im state.Immutable, owner codec.Address, a asset.Asset, amount uint64) error {
	if amount == 0 {
		return nil
	}
	bal, err := m.bank.Balance(ctx, im, owner, a)
	if err != nil {
		return err
	}
	if bal < amount {
		return fmt.Errorf("%w: %s holds %d of %s, needs %d", storage.ErrInsufficientBalance, owner, bal, a, amount)
	}
	return nil
}

// checkReserve is checkFunds for the pool side. A pool that cannot pay what
// its reserves promise is corrupt.
func (m *Manager) checkReserve(ctx context.Context, im state.Immutable, pool codec.Address, a asset.Asset, amount uint64) error {
	if err := m.checkFunds(ctx, im, pool, a, amount); err != nil {
		return fmt.Errorf("%w: %w", ErrInvariantViolation, err)
	}
	return nil
}

// IsUserError reports whether [err] was caused by the request rather than
// by corrupt or unavailable state.
func IsUserError(err error) bool {
	return err != nil && !errors.Is(err, ErrCorruptState) && !errors.Is(err, ErrInvariantViolation)
}
