// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"fmt"

	"github.com/ava-labs/lbpvm/codec"
	"github.com/ava-labs/lbpvm/liquidity"
	"github.com/ava-labs/lbpvm/state"

	smath "github.com/ava-labs/avalanchego/utils/math"
)

// ShareLedger is the fungible-token ledger of liquidity shares. Each pool
// has its own share token.
type ShareLedger struct{}

func (ShareLedger) Balance(ctx context.Context, im state.Immutable, pool codec.Address, owner codec.Address) (uint64, error) {
	return getUint64(ctx, im, ShareBalanceKey(pool, owner))
}

func (ShareLedger) TotalSupply(ctx context.Context, im state.Immutable, pool codec.Address) (uint64, error) {
	return getUint64(ctx, im, ShareSupplyKey(pool))
}

func (ShareLedger) Mint(ctx context.Context, mu state.Mutable, pool codec.Address, to codec.Address, amount uint64) error {
	supply, err := getUint64(ctx, mu, ShareSupplyKey(pool))
	if err != nil {
		return err
	}
	nsupply, err := smath.Add(supply, amount)
	if err != nil {
		return fmt.Errorf("%w: share supply of %s", err, pool)
	}
	bk := ShareBalanceKey(pool, to)
	bal, err := getUint64(ctx, mu, bk)
	if err != nil {
		return err
	}
	if err := setUint64(ctx, mu, ShareSupplyKey(pool), nsupply); err != nil {
		return err
	}
	// bal <= supply so this cannot overflow
	return setUint64(ctx, mu, bk, bal+amount)
}

func (ShareLedger) Burn(ctx context.Context, mu state.Mutable, pool codec.Address, from codec.Address, amount uint64) error {
	bk := ShareBalanceKey(pool, from)
	bal, err := getUint64(ctx, mu, bk)
	if err != nil {
		return err
	}
	if bal < amount {
		return fmt.Errorf("%w: %s holds %d of %s, burning %d", liquidity.ErrInsufficientShares, from, bal, pool, amount)
	}
	supply, err := getUint64(ctx, mu, ShareSupplyKey(pool))
	if err != nil {
		return err
	}
	if err := setUint64(ctx, mu, bk, bal-amount); err != nil {
		return err
	}
	return setUint64(ctx, mu, ShareSupplyKey(pool), supply-amount)
}
