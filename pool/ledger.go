// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pool

//go:generate go run go.uber.org/mock/mockgen -package=${GOPACKAGE} -destination=mock_ledger.go . Ledger

import (
	"context"

	"github.com/ava-labs/lbpvm/asset"
	"github.com/ava-labs/lbpvm/codec"
	"github.com/ava-labs/lbpvm/state"
	"github.com/ava-labs/lbpvm/storage"
)

var (
	_ Ledger   = storage.ShareLedger{}
	_ Bank     = storage.Bank{}
	_ Registry = storage.Registry{}
)

// Ledger keeps the liquidity shares of every pool.
type Ledger interface {
	Balance(ctx context.Context, im state.Immutable, pool codec.Address, owner codec.Address) (uint64, error)
	Mint(ctx context.Context, mu state.Mutable, pool codec.Address, to codec.Address, amount uint64) error
	Burn(ctx context.Context, mu state.Mutable, pool codec.Address, from codec.Address, amount uint64) error
}

// Bank custodies reserve assets. A pool holds its reserves under its own
// address.
type Bank interface {
	Balance(ctx context.Context, im state.Immutable, owner codec.Address, a asset.Asset) (uint64, error)
	Transfer(ctx context.Context, mu state.Mutable, a asset.Asset, from codec.Address, to codec.Address, amount uint64) error
}

// Registry maps unordered asset pairs to pools.
type Registry interface {
	Register(ctx context.Context, mu state.Mutable, x, y asset.Asset, pool codec.Address) error
	Lookup(ctx context.Context, im state.Immutable, x, y asset.Asset) (codec.Address, error)
}
