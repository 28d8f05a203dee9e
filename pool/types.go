// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pool

import (
	"fmt"

	"github.com/ava-labs/lbpvm/asset"
	"github.com/ava-labs/lbpvm/codec"
	"github.com/ava-labs/lbpvm/consts"
	"github.com/ava-labs/lbpvm/pricing"
	"github.com/ava-labs/lbpvm/weights"
)

// Config is fixed when the pool is created. The weight of asset B is
// always [consts.WeightOne] minus the weight of asset A.
type Config struct {
	AssetA asset.Asset `json:"assetA"`
	AssetB asset.Asset `json:"assetB"`
	weights.Schedule
	FeeBps      uint64        `json:"feeBps"`
	Description string        `json:"description,omitempty"`
	Creator     codec.Address `json:"creator"`
}

func (c *Config) Verify() error {
	if err := c.AssetA.Verify(); err != nil {
		return fmt.Errorf("%w: asset A: %w", ErrInvalidConfig, err)
	}
	if err := c.AssetB.Verify(); err != nil {
		return fmt.Errorf("%w: asset B: %w", ErrInvalidConfig, err)
	}
	if c.AssetA == c.AssetB {
		return fmt.Errorf("%w: identical assets %s", ErrInvalidConfig, c.AssetA)
	}
	if err := c.Schedule.Verify(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := pricing.VerifyFee(c.FeeBps); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if len(c.Description) > consts.MaxDescriptionLen {
		return fmt.Errorf("%w: description of %d bytes", ErrInvalidConfig, len(c.Description))
	}
	return nil
}

// Contains reports whether [a] is traded by the pool.
func (c *Config) Contains(a asset.Asset) bool {
	return a == c.AssetA || a == c.AssetB
}

// Other returns the asset on the opposite side of [a].
func (c *Config) Other(a asset.Asset) (asset.Asset, error) {
	switch a {
	case c.AssetA:
		return c.AssetB, nil
	case c.AssetB:
		return c.AssetA, nil
	default:
		return asset.Asset{}, fmt.Errorf("%w: %s", ErrAssetNotInPool, a)
	}
}

func (c *Config) Size() int {
	return c.AssetA.Size() + c.AssetB.Size() +
		2*consts.Uint64Len + 2*consts.Int64Len + consts.Uint64Len +
		codec.StringLen(c.Description) + codec.AddressLen
}

func (c *Config) Marshal(p *codec.Packer) {
	c.AssetA.Marshal(p)
	c.AssetB.Marshal(p)
	p.PackUint64(c.StartWeightA)
	p.PackUint64(c.EndWeightA)
	p.PackInt64(c.StartTime)
	p.PackInt64(c.EndTime)
	p.PackUint64(c.FeeBps)
	p.PackString(c.Description)
	p.PackAddress(c.Creator)
}

func UnmarshalConfig(p *codec.Packer) (*Config, error) {
	var (
		c   Config
		err error
	)
	if c.AssetA, err = asset.Unmarshal(p); err != nil {
		return nil, err
	}
	if c.AssetB, err = asset.Unmarshal(p); err != nil {
		return nil, err
	}
	c.StartWeightA = p.UnpackUint64(true)
	c.EndWeightA = p.UnpackUint64(true)
	c.StartTime = p.UnpackInt64(false)
	c.EndTime = p.UnpackInt64(false)
	c.FeeBps = p.UnpackUint64(false)
	c.Description = p.UnpackString(false)
	p.UnpackAddress(&c.Creator)
	return &c, p.Err()
}

// State is the mutable part of a pool. Both reserves are positive whenever
// TotalShares is positive.
type State struct {
	ReserveA    uint64 `json:"reserveA"`
	ReserveB    uint64 `json:"reserveB"`
	TotalShares uint64 `json:"totalShares"`
}

func (s *State) Initialized() bool {
	return s.TotalShares > 0
}

func (s *State) verify() error {
	if s.TotalShares == 0 {
		if s.ReserveA != 0 || s.ReserveB != 0 {
			return fmt.Errorf("%w: reserves %d/%d without shares", ErrInvariantViolation, s.ReserveA, s.ReserveB)
		}
		return nil
	}
	if s.ReserveA == 0 || s.ReserveB == 0 {
		return fmt.Errorf("%w: empty reserve %d/%d with %d shares", ErrInvariantViolation, s.ReserveA, s.ReserveB, s.TotalShares)
	}
	return nil
}

func (*State) Size() int {
	return 3 * consts.Uint64Len
}

func (s *State) Marshal(p *codec.Packer) {
	p.PackUint64(s.ReserveA)
	p.PackUint64(s.ReserveB)
	p.PackUint64(s.TotalShares)
}

func UnmarshalState(p *codec.Packer) (*State, error) {
	var s State
	s.ReserveA = p.UnpackUint64(false)
	s.ReserveB = p.UnpackUint64(false)
	s.TotalShares = p.UnpackUint64(false)
	return &s, p.Err()
}

// Pool is a snapshot of one pool read from state.
type Pool struct {
	Address codec.Address `json:"address"`
	Config  *Config       `json:"config"`
	State   *State        `json:"state"`
}

// reserves orders the pool's reserves as (in, out) for a trade selling
// [assetIn] at [now].
func (p *Pool) reserves(assetIn asset.Asset, now int64) (pricing.Reserve, pricing.Reserve, error) {
	wa, wb := p.Config.Current(now)
	a := pricing.Reserve{Balance: p.State.ReserveA, Weight: wa}
	b := pricing.Reserve{Balance: p.State.ReserveB, Weight: wb}
	switch assetIn {
	case p.Config.AssetA:
		return a, b, nil
	case p.Config.AssetB:
		return b, a, nil
	default:
		return pricing.Reserve{}, pricing.Reserve{}, fmt.Errorf("%w: %s not in %s", ErrAssetNotInPool, assetIn, p.Address)
	}
}
