// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"
	"fmt"

	"github.com/ava-labs/lbpvm/asset"
	"github.com/ava-labs/lbpvm/chain"
	"github.com/ava-labs/lbpvm/codec"
	"github.com/ava-labs/lbpvm/consts"
	"github.com/ava-labs/lbpvm/pool"
	"github.com/ava-labs/lbpvm/router"
	"github.com/ava-labs/lbpvm/state"
	"github.com/ava-labs/lbpvm/storage"
	"github.com/ava-labs/lbpvm/tstate"
)

func newManager(r chain.Rules) *pool.Manager {
	return pool.NewDefaultManager(pool.Params{
		InitialShares: r.GetInitialShares(),
		DepositPolicy: r.GetDepositPolicy(),
	})
}

// swapKeys covers a trade of [x] against [y] in their pool.
func swapKeys(actor codec.Address, x, y asset.Asset) state.Keys {
	addr := storage.PoolAddress(x, y)
	return state.Keys{
		string(storage.PoolConfigKey(addr)):  state.Read,
		string(storage.PoolStateKey(addr)):   state.Write,
		string(storage.BalanceKey(actor, x)): state.All,
		string(storage.BalanceKey(actor, y)): state.All,
		string(storage.BalanceKey(addr, x)):  state.All,
		string(storage.BalanceKey(addr, y)):  state.All,
	}
}

// liquidityKeys covers moving both reserves and the share balance of
// [actor] in the pool of [x] and [y].
func liquidityKeys(actor codec.Address, x, y asset.Asset) state.Keys {
	addr := storage.PoolAddress(x, y)
	keys := swapKeys(actor, x, y)
	keys.Add(string(storage.ShareBalanceKey(addr, actor)), state.All)
	keys.Add(string(storage.ShareSupplyKey(addr)), state.All)
	return keys
}

func routeKeys(actor codec.Address, path []asset.Asset) state.Keys {
	keys := state.Keys{}
	for i := 1; i < len(path); i++ {
		keys.Union(swapKeys(actor, path[i-1], path[i]))
		keys.Add(string(storage.PairKey(path[i-1], path[i])), state.Read)
	}
	return keys
}

func verifyPath(path []asset.Asset) error {
	if len(path) < 2 {
		return fmt.Errorf("%w: %d", ErrPathTooShort, len(path))
	}
	if len(path) > consts.MaxHops+1 {
		return fmt.Errorf("%w: %d hops", ErrPathTooLong, len(path)-1)
	}
	return nil
}

func pathSize(path []asset.Asset) int {
	size := consts.ByteLen
	for _, a := range path {
		size += a.Size()
	}
	return size
}

func packPath(p *codec.Packer, path []asset.Asset) {
	p.PackByte(byte(len(path)))
	for _, a := range path {
		a.Marshal(p)
	}
}

func unpackPath(p *codec.Packer) ([]asset.Asset, error) {
	n := int(p.UnpackByte())
	if err := p.Err(); err != nil {
		return nil, err
	}
	path := make([]asset.Asset, 0, n)
	for i := 0; i < n; i++ {
		a, err := asset.Unmarshal(p)
		if err != nil {
			return nil, err
		}
		path = append(path, a)
	}
	return path, verifyPath(path)
}

// route runs [f] in a view over [mu] and applies its changes to [mu] only if
// [f] succeeds.
func route(
	ctx context.Context,
	mu state.Mutable,
	path []asset.Asset,
	m *pool.Manager,
	f func(router.View, router.Plan) (*router.Result, error),
) (*router.Result, error) {
	if err := verifyPath(path); err != nil {
		return nil, err
	}
	ts := tstate.New(mu, 4*len(path))
	view := ts.NewView(nil)
	plan, err := router.Resolve(ctx, view, m.Registry(), path...)
	if err != nil {
		return nil, err
	}
	res, err := f(view, plan)
	if err != nil {
		return nil, err
	}
	view.Commit()
	if err := ts.Apply(ctx, mu); err != nil {
		return nil, err
	}
	return res, nil
}
