// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava-labs/lbpvm/chain/chaintest"
	"github.com/ava-labs/lbpvm/genesis"
	"github.com/ava-labs/lbpvm/pool"
	"github.com/ava-labs/lbpvm/state"
	"github.com/ava-labs/lbpvm/storage"
)

func TestCreatePoolAction(t *testing.T) {
	ctx := context.Background()
	rules := genesis.NewDefaultRules()
	store := state.MutableStorage{}
	addr := storage.PoolAddress(assetA, assetB)

	highFee := createPool(assetA, assetB)
	highFee.FeeBps = 10_000

	tests := []chaintest.ActionTest{
		{
			Name:        "fee out of range",
			Action:      highFee,
			Rules:       rules,
			State:       store,
			Timestamp:   start,
			Actor:       alice,
			ExpectedErr: pool.ErrInvalidConfig,
		},
		{
			Name:            "creates pool",
			Action:          createPool(assetA, assetB),
			Rules:           rules,
			State:           store,
			Timestamp:       start,
			Actor:           alice,
			ExpectedOutputs: &CreatePoolResult{Pool: addr},
			Assertion: func(ctx context.Context, t *testing.T, mu state.Mutable) {
				require := require.New(t)
				p, err := pool.Load(ctx, mu, addr)
				require.NoError(err)
				require.Equal(alice, p.Config.Creator)
				require.False(p.State.Initialized())

				found, err := storage.Registry{}.Lookup(ctx, mu, assetB, assetA)
				require.NoError(err)
				require.Equal(addr, found)
			},
		},
		{
			Name:        "pair taken in either order",
			Action:      createPool(assetB, assetA),
			Rules:       rules,
			State:       store,
			Timestamp:   start,
			Actor:       bob,
			ExpectedErr: pool.ErrPoolExists,
		},
	}

	for _, tt := range tests {
		tt.Run(ctx, t)
	}
}
