// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pool

import (
	"context"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/database"

	"github.com/ava-labs/lbpvm/codec"
	"github.com/ava-labs/lbpvm/state"
	"github.com/ava-labs/lbpvm/storage"
)

const (
	maxConfigSize = 64 * int(storage.PoolConfigChunks)
	maxStateSize  = 64 * int(storage.PoolStateChunks)
)

// Load reads the config and state of [addr].
func Load(ctx context.Context, im state.Immutable, addr codec.Address) (*Pool, error) {
	cv, err := im.GetValue(ctx, storage.PoolConfigKey(addr))
	if errors.Is(err, database.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrPoolNotFound, addr)
	}
	if err != nil {
		return nil, err
	}
	cfg, err := UnmarshalConfig(codec.NewReader(cv, maxConfigSize))
	if err != nil {
		return nil, fmt.Errorf("%w: config of %s: %w", ErrCorruptState, addr, err)
	}

	sv, err := im.GetValue(ctx, storage.PoolStateKey(addr))
	if err != nil {
		return nil, fmt.Errorf("%w: state of %s: %w", ErrCorruptState, addr, err)
	}
	st, err := UnmarshalState(codec.NewReader(sv, maxStateSize))
	if err != nil {
		return nil, fmt.Errorf("%w: state of %s: %w", ErrCorruptState, addr, err)
	}
	return &Pool{Address: addr, Config: cfg, State: st}, nil
}

func exists(ctx context.Context, im state.Immutable, addr codec.Address) (bool, error) {
	_, err := im.GetValue(ctx, storage.PoolConfigKey(addr))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, database.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

func storeConfig(ctx context.Context, mu state.Mutable, addr codec.Address, cfg *Config) error {
	p := codec.NewWriter(cfg.Size(), maxConfigSize)
	cfg.Marshal(p)
	if err := p.Err(); err != nil {
		return err
	}
	return mu.Insert(ctx, storage.PoolConfigKey(addr), p.Bytes())
}

func storeState(ctx context.Context, mu state.Mutable, addr codec.Address, st *State) error {
	if err := st.verify(); err != nil {
		return err
	}
	p := codec.NewWriter(st.Size(), maxStateSize)
	st.Marshal(p)
	if err := p.Err(); err != nil {
		return err
	}
	return mu.Insert(ctx, storage.PoolStateKey(addr), p.Bytes())
}
