// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package api

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/ava-labs/lbpvm/asset"
	"github.com/ava-labs/lbpvm/chain"
	"github.com/ava-labs/lbpvm/codec"
	"github.com/ava-labs/lbpvm/pool"
	"github.com/ava-labs/lbpvm/pricing"
	"github.com/ava-labs/lbpvm/router"
	"github.com/ava-labs/lbpvm/storage"
)

// Controller is the part of [controller.Controller] served over JSON-RPC.
type Controller interface {
	Rules(t int64) chain.Rules
	Now() int64

	Submit(ctx context.Context, action chain.Action, actor codec.Address) (*chain.Result, error)
	SubmitBytes(ctx context.Context, b []byte, actor codec.Address) (*chain.Result, error)

	Pool(ctx context.Context, addr codec.Address) (*pool.Pool, error)
	LookupPool(ctx context.Context, x, y asset.Asset) (codec.Address, error)
	ListPairs(ctx context.Context, startAfter []asset.Asset, limit int) ([]storage.Pair, error)
	Weights(ctx context.Context, addr codec.Address, t int64) (uint64, uint64, error)
	SpotPrice(ctx context.Context, addr codec.Address, t int64) (decimal.Decimal, error)
	Simulate(ctx context.Context, addr codec.Address, assetIn asset.Asset, amountIn uint64, t int64) (*pricing.Quote, error)
	SimulateExactOut(ctx context.Context, addr codec.Address, assetIn asset.Asset, amountOut uint64, t int64) (*pricing.Quote, error)
	SimulateRoute(ctx context.Context, path []asset.Asset, amount uint64, exactOut bool, t int64) (*router.Result, error)
	Balance(ctx context.Context, owner codec.Address, a asset.Asset) (uint64, error)
	ShareBalance(ctx context.Context, addr codec.Address, owner codec.Address) (uint64, error)
}
