// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/lbpvm/asset"
	"github.com/ava-labs/lbpvm/chain/chaintest"
	"github.com/ava-labs/lbpvm/genesis"
	"github.com/ava-labs/lbpvm/liquidity"
	"github.com/ava-labs/lbpvm/pool"
	"github.com/ava-labs/lbpvm/pricing"
	"github.com/ava-labs/lbpvm/state"
	"github.com/ava-labs/lbpvm/storage"
)

func TestProvideLiquidityAction(t *testing.T) {
	ctx := context.Background()
	rules := genesis.NewDefaultRules()
	store := state.MutableStorage{}
	require.NoError(t, storage.Bank{}.Mint(ctx, store, assetA, alice, 1_000))
	require.NoError(t, storage.Bank{}.Mint(ctx, store, assetB, alice, 1_000))
	require.NoError(t, storage.Bank{}.Mint(ctx, store, assetA, bob, 1_000))
	require.NoError(t, storage.Bank{}.Mint(ctx, store, assetB, bob, 10))
	_, err := chaintest.Execute(ctx, createPool(assetA, assetB), rules, store, start, alice, ids.Empty)
	require.NoError(t, err)
	addr := storage.PoolAddress(assetA, assetB)

	tests := []chaintest.ActionTest{
		{
			Name:        "zero amount",
			Action:      &ProvideLiquidity{AssetA: assetA, AssetB: assetB, AmountA: 0, AmountB: 500},
			Rules:       rules,
			State:       store,
			Actor:       alice,
			ExpectedErr: pricing.ErrZeroAmount,
		},
		{
			Name:   "first deposit",
			Action: &ProvideLiquidity{AssetA: assetA, AssetB: assetB, AmountA: 500, AmountB: 500},
			Rules:  rules,
			State:  store,
			Actor:  alice,
			ExpectedOutputs: &ProvideLiquidityResult{
				Pool:    addr,
				AmountA: 500,
				AmountB: 500,
				Shares:  pool.DefaultInitialShares,
			},
		},
		{
			Name:        "imbalanced deposit",
			Action:      &ProvideLiquidity{AssetA: assetA, AssetB: assetB, AmountA: 50, AmountB: 60},
			Rules:       rules,
			State:       store,
			Actor:       alice,
			ExpectedErr: liquidity.ErrImbalancedDeposit,
		},
		{
			Name:        "insufficient balance leaves state untouched",
			Action:      &ProvideLiquidity{AssetA: assetA, AssetB: assetB, AmountA: 50, AmountB: 50},
			Rules:       rules,
			State:       store,
			Actor:       bob,
			ExpectedErr: storage.ErrInsufficientBalance,
			Assertion: func(ctx context.Context, t *testing.T, mu state.Mutable) {
				require := require.New(t)
				require.Equal(uint64(1_000), balance(ctx, t, mu, bob, assetA))
				shares, err := storage.ShareLedger{}.Balance(ctx, mu, addr, bob)
				require.NoError(err)
				require.Zero(shares)
			},
		},
		{
			Name:   "second deposit mints pro rata",
			Action: &ProvideLiquidity{AssetA: assetA, AssetB: assetB, AmountA: 50, AmountB: 50},
			Rules:  rules,
			State:  store,
			Actor:  alice,
			ExpectedOutputs: &ProvideLiquidityResult{
				Pool:    addr,
				AmountA: 50,
				AmountB: 50,
				Shares:  pool.DefaultInitialShares / 10,
			},
		},
	}

	for _, tt := range tests {
		tt.Run(ctx, t)
	}
}

func TestProvideLiquidityRefundRule(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	rules := genesis.NewDefaultRules()
	rules.DepositPolicy = liquidity.Refund
	store := setup(ctx, t, rules, [2]asset.Asset{assetA, assetB})

	out, err := chaintest.Execute(ctx, &ProvideLiquidity{
		AssetA:  assetA,
		AssetB:  assetB,
		AmountA: 100,
		AmountB: 200,
	}, rules, store, start, bob, ids.Empty)
	require.NoError(err)
	res := out.(*ProvideLiquidityResult)
	require.Equal(uint64(100), res.AmountA)
	require.Equal(uint64(100), res.AmountB)
	require.Equal(uint64(100), res.RefundB)
	require.Equal(funding-100, balance(ctx, t, store, bob, assetB))
}

func TestWithdrawLiquidityAction(t *testing.T) {
	ctx := context.Background()
	rules := genesis.NewDefaultRules()
	store := setup(ctx, t, rules, [2]asset.Asset{assetA, assetB})
	addr := storage.PoolAddress(assetA, assetB)

	tests := []chaintest.ActionTest{
		{
			Name:        "no shares held",
			Action:      &WithdrawLiquidity{AssetA: assetA, AssetB: assetB, Shares: 1},
			Rules:       rules,
			State:       store,
			Actor:       bob,
			ExpectedErr: liquidity.ErrInsufficientShares,
		},
		{
			Name:   "half of the supply",
			Action: &WithdrawLiquidity{AssetA: assetA, AssetB: assetB, Shares: pool.DefaultInitialShares / 2},
			Rules:  rules,
			State:  store,
			Actor:  alice,
			ExpectedOutputs: &WithdrawLiquidityResult{
				Pool:    addr,
				AmountA: reserve / 2,
				AmountB: reserve / 2,
				Shares:  pool.DefaultInitialShares / 2,
			},
			Assertion: func(ctx context.Context, t *testing.T, mu state.Mutable) {
				require := require.New(t)
				require.Equal(funding-reserve/2, balance(ctx, t, mu, alice, assetA))
				require.Equal(reserve/2, balance(ctx, t, mu, addr, assetB))
			},
		},
		{
			Name:   "rest of the supply empties the pool",
			Action: &WithdrawLiquidity{AssetA: assetA, AssetB: assetB, Shares: pool.DefaultInitialShares / 2},
			Rules:  rules,
			State:  store,
			Actor:  alice,
			Assertion: func(ctx context.Context, t *testing.T, mu state.Mutable) {
				require := require.New(t)
				p, err := pool.Load(ctx, mu, addr)
				require.NoError(err)
				require.Equal(pool.State{}, *p.State)
				require.Zero(balance(ctx, t, mu, addr, assetA))
			},
		},
	}

	for _, tt := range tests {
		tt.Run(ctx, t)
	}
}
