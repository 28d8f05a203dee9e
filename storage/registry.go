// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/database"

	"github.com/ava-labs/lbpvm/asset"
	"github.com/ava-labs/lbpvm/codec"
	"github.com/ava-labs/lbpvm/consts"
	"github.com/ava-labs/lbpvm/state"
)

const (
	DefaultListLimit = 10
	MaxListLimit     = 30

	maxPairNodeSize = 512
)

var (
	ErrPairExists   = errors.New("pair already registered")
	ErrPairNotFound = errors.New("pair not registered")
	ErrInvalidPair  = errors.New("invalid pair entry")
)

// Pair is a registered pool and the assets it trades, in canonical order.
type Pair struct {
	AssetA asset.Asset   `json:"assetA"`
	AssetB asset.Asset   `json:"assetB"`
	Pool   codec.Address `json:"pool"`
}

// Registry maps each unordered asset pair to at most one pool. Pools are
// also chained newest to oldest so they can be listed without iterating
// state.
type Registry struct{}

func (Registry) Register(ctx context.Context, mu state.Mutable, x, y asset.Asset, pool codec.Address) error {
	k := PairKey(x, y)
	_, err := mu.GetValue(ctx, k)
	switch {
	case err == nil:
		return fmt.Errorf("%w: %s/%s", ErrPairExists, x, y)
	case !errors.Is(err, database.ErrNotFound):
		return err
	}
	prev, err := tail(ctx, mu)
	if err != nil {
		return err
	}
	if err := mu.Insert(ctx, k, pool[:]); err != nil {
		return err
	}
	a, b := asset.Sort(x, y)
	if err := mu.Insert(ctx, PairNodeKey(pool), marshalNode(a, b, prev)); err != nil {
		return err
	}
	return mu.Insert(ctx, PairTailKey(), pool[:])
}

func (Registry) Lookup(ctx context.Context, im state.Immutable, x, y asset.Asset) (codec.Address, error) {
	v, err := im.GetValue(ctx, PairKey(x, y))
	if errors.Is(err, database.ErrNotFound) {
		return codec.EmptyAddress, fmt.Errorf("%w: %s/%s", ErrPairNotFound, x, y)
	}
	if err != nil {
		return codec.EmptyAddress, err
	}
	if len(v) != codec.AddressLen {
		return codec.EmptyAddress, fmt.Errorf("%w: pair value of %d bytes", codec.ErrInvalidSize, len(v))
	}
	return codec.Address(v), nil
}

// List returns up to [limit] pairs, newest first. If [startAfter] is
// non-empty it must name a registered pair, and listing resumes with the
// pair registered just before it. A [limit] of 0 means [DefaultListLimit];
// larger limits are capped at [MaxListLimit].
func (r Registry) List(ctx context.Context, im state.Immutable, startAfter []asset.Asset, limit int) ([]Pair, error) {
	switch {
	case limit <= 0:
		limit = DefaultListLimit
	case limit > MaxListLimit:
		limit = MaxListLimit
	}

	next, err := r.cursor(ctx, im, startAfter)
	if err != nil {
		return nil, err
	}

	pairs := make([]Pair, 0, limit)
	for next != codec.EmptyAddress && len(pairs) < limit {
		n, err := loadNode(ctx, im, next)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, Pair{AssetA: n.assetA, AssetB: n.assetB, Pool: next})
		next = n.prev
	}
	return pairs, nil
}

// cursor returns the first pool of a page starting after [startAfter].
func (r Registry) cursor(ctx context.Context, im state.Immutable, startAfter []asset.Asset) (codec.Address, error) {
	switch len(startAfter) {
	case 0:
		return tail(ctx, im)
	case 2:
		from, err := r.Lookup(ctx, im, startAfter[0], startAfter[1])
		if err != nil {
			return codec.EmptyAddress, err
		}
		n, err := loadNode(ctx, im, from)
		if err != nil {
			return codec.EmptyAddress, err
		}
		return n.prev, nil
	default:
		return codec.EmptyAddress, fmt.Errorf("%w: start after %d assets", ErrInvalidPair, len(startAfter))
	}
}

type pairNode struct {
	assetA asset.Asset
	assetB asset.Asset
	prev   codec.Address
}

func marshalNode(a, b asset.Asset, prev codec.Address) []byte {
	size := a.Size() + b.Size() + consts.BoolLen
	first := prev == codec.EmptyAddress
	if !first {
		size += codec.AddressLen
	}
	p := codec.NewWriter(size, size)
	a.Marshal(p)
	b.Marshal(p)
	p.PackBool(first)
	if !first {
		p.PackAddress(prev)
	}
	return p.Bytes()
}

func loadNode(ctx context.Context, im state.Immutable, pool codec.Address) (*pairNode, error) {
	v, err := im.GetValue(ctx, PairNodeKey(pool))
	if errors.Is(err, database.ErrNotFound) {
		return nil, fmt.Errorf("%w: no entry for %s", ErrInvalidPair, pool)
	}
	if err != nil {
		return nil, err
	}
	p := codec.NewReader(v, maxPairNodeSize)
	var n pairNode
	if n.assetA, err = asset.Unmarshal(p); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPair, err)
	}
	if n.assetB, err = asset.Unmarshal(p); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPair, err)
	}
	if !p.UnpackBool() {
		p.UnpackAddress(&n.prev)
	}
	if err := p.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPair, err)
	}
	if !p.Empty() {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPair, codec.ErrTrailingBytes)
	}
	return &n, nil
}

func tail(ctx context.Context, im state.Immutable) (codec.Address, error) {
	v, err := im.GetValue(ctx, PairTailKey())
	if errors.Is(err, database.ErrNotFound) {
		return codec.EmptyAddress, nil
	}
	if err != nil {
		return codec.EmptyAddress, err
	}
	if len(v) != codec.AddressLen {
		return codec.EmptyAddress, fmt.Errorf("%w: tail of %d bytes", codec.ErrInvalidSize, len(v))
	}
	return codec.Address(v), nil
}
