// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package router

import (
	"context"
	"errors"
	"fmt"

	"github.com/ava-labs/lbpvm/asset"
	"github.com/ava-labs/lbpvm/codec"
	"github.com/ava-labs/lbpvm/consts"
	"github.com/ava-labs/lbpvm/pool"
	"github.com/ava-labs/lbpvm/state"
)

var (
	ErrEmptyRoute         = errors.New("empty route")
	ErrTooManyHops        = errors.New("too many hops")
	ErrRouteDiscontinuity = errors.New("route discontinuity")
	ErrRepeatedPool       = errors.New("pool repeated in route")
)

// Hop is a single swap of AssetIn for AssetOut in Pool.
type Hop struct {
	Pool     codec.Address `json:"pool"`
	AssetIn  asset.Asset   `json:"assetIn"`
	AssetOut asset.Asset   `json:"assetOut"`
}

// Plan is an ordered sequence of hops where every hop buys the asset the
// next hop sells.
type Plan []Hop

// Validate checks the shape of the plan without reading state.
func (p Plan) Validate() error {
	if len(p) == 0 {
		return ErrEmptyRoute
	}
	if len(p) > consts.MaxHops {
		return fmt.Errorf("%w: %d > %d", ErrTooManyHops, len(p), consts.MaxHops)
	}
	seen := make(map[codec.Address]struct{}, len(p))
	for i, hop := range p {
		if hop.AssetIn == hop.AssetOut {
			return fmt.Errorf("%w: hop %d swaps %s for itself", ErrRouteDiscontinuity, i, hop.AssetIn)
		}
		if _, ok := seen[hop.Pool]; ok {
			return fmt.Errorf("%w: %s", ErrRepeatedPool, hop.Pool)
		}
		seen[hop.Pool] = struct{}{}
		if i > 0 && p[i-1].AssetOut != hop.AssetIn {
			return fmt.Errorf(
				"%w: hop %d buys %s but hop %d sells %s",
				ErrRouteDiscontinuity, i-1, p[i-1].AssetOut, i, hop.AssetIn,
			)
		}
	}
	return nil
}

func (p Plan) AssetIn() asset.Asset {
	return p[0].AssetIn
}

func (p Plan) AssetOut() asset.Asset {
	return p[len(p)-1].AssetOut
}

// Resolve builds a plan that trades along [path] using the pool registered
// for each consecutive pair of assets.
func Resolve(ctx context.Context, im state.Immutable, registry pool.Registry, path ...asset.Asset) (Plan, error) {
	if len(path) < 2 {
		return nil, fmt.Errorf("%w: path of %d assets", ErrEmptyRoute, len(path))
	}
	plan := make(Plan, 0, len(path)-1)
	for i := 1; i < len(path); i++ {
		addr, err := registry.Lookup(ctx, im, path[i-1], path[i])
		if err != nil {
			return nil, fmt.Errorf("%w: %w", pool.ErrPoolNotFound, err)
		}
		plan = append(plan, Hop{Pool: addr, AssetIn: path[i-1], AssetOut: path[i]})
	}
	return plan, plan.Validate()
}
