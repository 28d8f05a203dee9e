// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package genesis

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/lbpvm/asset"
	"github.com/ava-labs/lbpvm/codec"
	"github.com/ava-labs/lbpvm/consts"
	"github.com/ava-labs/lbpvm/liquidity"
	"github.com/ava-labs/lbpvm/pool"
	"github.com/ava-labs/lbpvm/state"
	"github.com/ava-labs/lbpvm/storage"
	"github.com/ava-labs/lbpvm/trace"
)

var (
	alice = codec.CreateAddress(consts.AccountAddressID, ids.GenerateTestID())
	bob   = codec.CreateAddress(consts.AccountAddressID, ids.GenerateTestID())
	luna  = asset.NewNative("uluna")
	usd   = asset.NewNative("uusd")
)

func TestDefaultRules(t *testing.T) {
	require := require.New(t)

	r := NewDefaultRules()
	require.Equal(pool.DefaultInitialShares, r.GetInitialShares())
	require.Equal(liquidity.Strict, r.GetDepositPolicy())
	require.Equal(uint64(1), r.GetBaseComputeUnits())
	_, ok := r.FetchCustom("anything")
	require.False(ok)
}

func TestLoad(t *testing.T) {
	require := require.New(t)

	g := NewDefaultGenesis([]*CustomAllocation{
		{Address: alice, Asset: luna, Balance: 100},
	})
	g.Rules.DepositPolicy = liquidity.Refund
	b, err := json.Marshal(g)
	require.NoError(err)

	chainID := ids.GenerateTestID()
	loaded, factory, err := Load(b, 7, chainID)
	require.NoError(err)
	require.Len(loaded.CustomAllocation, 1)
	require.Equal(alice, loaded.CustomAllocation[0].Address)
	require.Equal(luna, loaded.CustomAllocation[0].Asset)

	r := factory.GetRules(0)
	require.Equal(uint32(7), r.GetNetworkID())
	require.Equal(chainID, r.GetChainID())
	require.Equal(liquidity.Refund, r.GetDepositPolicy())
	require.Equal(pool.DefaultInitialShares, r.GetInitialShares())
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		err   error
	}{
		{
			name:  "zero initial shares",
			input: `{"initialRules":{"initialShares":0,"depositPolicy":"strict"}}`,
			err:   ErrInvalidRules,
		},
		{
			name:  "unknown policy",
			input: `{"initialRules":{"initialShares":10,"depositPolicy":"maybe"}}`,
			err:   liquidity.ErrInvalidPolicy,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Load([]byte(tt.input), 1, ids.Empty)
			require.ErrorIs(t, err, tt.err)
		})
	}
}

func TestLoadMissingRulesUsesDefaults(t *testing.T) {
	require := require.New(t)

	g, _, err := Load([]byte(`{"customAllocation":[]}`), 1, ids.Empty)
	require.NoError(err)
	require.Equal(pool.DefaultInitialShares, g.Rules.InitialShares)
}

func TestInitializeState(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	mu := state.MutableStorage{}
	g := NewDefaultGenesis([]*CustomAllocation{
		{Address: alice, Asset: luna, Balance: 100},
		{Address: alice, Asset: usd, Balance: 50},
		{Address: bob, Asset: luna, Balance: 25},
		{Address: alice, Asset: luna, Balance: 1},
	})
	require.NoError(g.InitializeState(ctx, trace.Noop("test"), mu, storage.Bank{}))

	bank := storage.Bank{}
	for _, tt := range []struct {
		owner    codec.Address
		a        asset.Asset
		expected uint64
	}{
		{alice, luna, 101},
		{alice, usd, 50},
		{bob, luna, 25},
		{bob, usd, 0},
	} {
		bal, err := bank.Balance(ctx, mu, tt.owner, tt.a)
		require.NoError(err)
		require.Equal(tt.expected, bal)
	}
}

func TestInitializeStateInvalidAsset(t *testing.T) {
	g := NewDefaultGenesis([]*CustomAllocation{
		{Address: alice, Asset: asset.NewNative(""), Balance: 1},
	})
	err := g.InitializeState(context.Background(), trace.Noop("test"), state.MutableStorage{}, storage.Bank{})
	require.ErrorIs(t, err, asset.ErrInvalidDenom)
}
