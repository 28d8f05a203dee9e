// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/lbpvm/asset"
	"github.com/ava-labs/lbpvm/chain"
	"github.com/ava-labs/lbpvm/chain/chaintest"
	"github.com/ava-labs/lbpvm/codec"
	"github.com/ava-labs/lbpvm/consts"
	"github.com/ava-labs/lbpvm/state"
	"github.com/ava-labs/lbpvm/storage"
)

const (
	half    = consts.WeightOne / 2
	start   = int64(1_000_000)
	end     = int64(2_000_000)
	funding = uint64(1_000_000_000)
	reserve = uint64(1_000_000)
)

var (
	alice = codec.CreateAddress(consts.AccountAddressID, ids.GenerateTestID())
	bob   = codec.CreateAddress(consts.AccountAddressID, ids.GenerateTestID())

	assetA = asset.NewNative("ua")
	assetB = asset.NewNative("ub")
	assetC = asset.NewNative("uc")
)

func createPool(x, y asset.Asset) *CreatePool {
	return &CreatePool{
		AssetA:       x,
		AssetB:       y,
		StartWeightA: half,
		EndWeightA:   half,
		StartTime:    start,
		EndTime:      end,
		FeeBps:       30,
		Description:  "test",
	}
}

func balance(ctx context.Context, t testing.TB, im state.Immutable, owner codec.Address, a asset.Asset) uint64 {
	bal, err := storage.Bank{}.Balance(ctx, im, owner, a)
	require.NoError(t, err)
	return bal
}

// setup funds alice and bob with every asset and creates the pools of
// [pairs], each seeded by alice with [reserve] of both sides.
func setup(ctx context.Context, t testing.TB, rules chain.Rules, pairs ...[2]asset.Asset) state.MutableStorage {
	require := require.New(t)
	store := state.MutableStorage{}
	for _, actor := range []codec.Address{alice, bob} {
		for _, a := range []asset.Asset{assetA, assetB, assetC} {
			require.NoError(storage.Bank{}.Mint(ctx, store, a, actor, funding))
		}
	}
	for _, pair := range pairs {
		_, err := chaintest.Execute(ctx, createPool(pair[0], pair[1]), rules, store, start, alice, ids.Empty)
		require.NoError(err)
		_, err = chaintest.Execute(ctx, &ProvideLiquidity{
			AssetA:  pair[0],
			AssetB:  pair[1],
			AmountA: reserve,
			AmountB: reserve,
		}, rules, store, start, alice, ids.Empty)
		require.NoError(err)
	}
	return store
}
