// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/database"

	"github.com/ava-labs/lbpvm/asset"
	"github.com/ava-labs/lbpvm/codec"
	"github.com/ava-labs/lbpvm/consts"
	"github.com/ava-labs/lbpvm/state"

	smath "github.com/ava-labs/avalanchego/utils/math"
)

var (
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidBalance      = errors.New("invalid balance encoding")
)

// Bank keeps the balances of reserve assets, both for traders and for the
// pools that custody them.
type Bank struct{}

func (Bank) Balance(ctx context.Context, im state.Immutable, owner codec.Address, a asset.Asset) (uint64, error) {
	return GetBalance(ctx, im, owner, a)
}

func (Bank) Transfer(ctx context.Context, mu state.Mutable, a asset.Asset, from codec.Address, to codec.Address, amount uint64) error {
	return TransferBalance(ctx, mu, a, from, to, amount)
}

func (Bank) Mint(ctx context.Context, mu state.Mutable, a asset.Asset, to codec.Address, amount uint64) error {
	return AddBalance(ctx, mu, to, a, amount)
}

// GetBalance returns 0 if [owner] has never held [a].
func GetBalance(ctx context.Context, im state.Immutable, owner codec.Address, a asset.Asset) (uint64, error) {
	return getUint64(ctx, im, BalanceKey(owner, a))
}

func AddBalance(ctx context.Context, mu state.Mutable, owner codec.Address, a asset.Asset, amount uint64) error {
	k := BalanceKey(owner, a)
	bal, err := getUint64(ctx, mu, k)
	if err != nil {
		return err
	}
	nbal, err := smath.Add(bal, amount)
	if err != nil {
		return fmt.Errorf(
			"%w: could not add balance (asset=%s, bal=%d, addr=%s, amount=%d)",
			err, a, bal, owner, amount,
		)
	}
	return setUint64(ctx, mu, k, nbal)
}

// SubBalance removes the key when the balance reaches zero.
func SubBalance(ctx context.Context, mu state.Mutable, owner codec.Address, a asset.Asset, amount uint64) error {
	k := BalanceKey(owner, a)
	bal, err := getUint64(ctx, mu, k)
	if err != nil {
		return err
	}
	if bal < amount {
		return fmt.Errorf(
			"%w: could not subtract balance (asset=%s, bal=%d, addr=%s, amount=%d)",
			ErrInsufficientBalance, a, bal, owner, amount,
		)
	}
	return setUint64(ctx, mu, k, bal-amount)
}

func TransferBalance(ctx context.Context, mu state.Mutable, a asset.Asset, from codec.Address, to codec.Address, amount uint64) error {
	if amount == 0 || from == to {
		return nil
	}
	if err := SubBalance(ctx, mu, from, a, amount); err != nil {
		return err
	}
	return AddBalance(ctx, mu, to, a, amount)
}

func getUint64(ctx context.Context, im state.Immutable, k []byte) (uint64, error) {
	v, err := im.GetValue(ctx, k)
	if errors.Is(err, database.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	if len(v) != consts.Uint64Len {
		return 0, fmt.Errorf("%w: %d bytes", ErrInvalidBalance, len(v))
	}
	return binary.BigEndian.Uint64(v), nil
}

func setUint64(ctx context.Context, mu state.Mutable, k []byte, v uint64) error {
	if v == 0 {
		return mu.Remove(ctx, k)
	}
	return mu.Insert(ctx, k, binary.BigEndian.AppendUint64(nil, v))
}
