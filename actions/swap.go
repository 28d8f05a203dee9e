// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"

	"github.com/ava-labs/avalanchego/ids"

	"github.com/ava-labs/lbpvm/asset"
	"github.com/ava-labs/lbpvm/chain"
	"github.com/ava-labs/lbpvm/codec"
	"github.com/ava-labs/lbpvm/consts"
	"github.com/ava-labs/lbpvm/pricing"
	"github.com/ava-labs/lbpvm/state"
	"github.com/ava-labs/lbpvm/storage"
)

var (
	_ chain.Action    = (*Swap)(nil)
	_ chain.Action    = (*SwapExactOut)(nil)
	_ codec.Marshaler = (*SwapResult)(nil)
)

// Swap sells AmountIn of AssetIn for at least MinOut of AssetOut.
type Swap struct {
	AssetIn  asset.Asset `json:"assetIn"`
	AssetOut asset.Asset `json:"assetOut"`
	AmountIn uint64      `json:"amountIn"`
	MinOut   uint64      `json:"minOut"`
}

func (*Swap) GetTypeID() uint8 {
	return consts.SwapID
}

func (s *Swap) StateKeys(actor codec.Address) state.Keys {
	return swapKeys(actor, s.AssetIn, s.AssetOut)
}

func (s *Swap) Execute(
	ctx context.Context,
	r chain.Rules,
	mu state.Mutable,
	timestamp int64,
	actor codec.Address,
	_ ids.ID,
) (codec.Marshaler, error) {
	addr := storage.PoolAddress(s.AssetIn, s.AssetOut)
	q, err := newManager(r).Swap(ctx, mu, addr, s.AssetIn, s.AmountIn, s.MinOut, timestamp, actor)
	if err != nil {
		return nil, err
	}
	return newSwapResult(addr, s.AssetOut, q), nil
}

func (*Swap) ComputeUnits(r chain.Rules) uint64 {
	return r.GetBaseComputeUnits() + SwapComputeUnits
}

func (s *Swap) Size() int {
	return s.AssetIn.Size() + s.AssetOut.Size() + 2*consts.Uint64Len
}

func (s *Swap) Marshal(p *codec.Packer) {
	s.AssetIn.Marshal(p)
	s.AssetOut.Marshal(p)
	p.PackUint64(s.AmountIn)
	p.PackUint64(s.MinOut)
}

func UnmarshalSwap(p *codec.Packer) (chain.Action, error) {
	var (
		s   Swap
		err error
	)
	if s.AssetIn, err = asset.Unmarshal(p); err != nil {
		return nil, err
	}
	if s.AssetOut, err = asset.Unmarshal(p); err != nil {
		return nil, err
	}
	s.AmountIn = p.UnpackUint64(true)
	s.MinOut = p.UnpackUint64(false)
	return &s, p.Err()
}

func (*Swap) ValidRange(chain.Rules) (int64, int64) {
	return -1, -1
}

// SwapExactOut buys exactly AmountOut of AssetOut, spending at most MaxIn
// of AssetIn.
type SwapExactOut struct {
	AssetIn   asset.Asset `json:"assetIn"`
	AssetOut  asset.Asset `json:"assetOut"`
	AmountOut uint64      `json:"amountOut"`
	MaxIn     uint64      `json:"maxIn"`
}

func (*SwapExactOut) GetTypeID() uint8 {
	return consts.SwapExactOutID
}

func (s *SwapExactOut) StateKeys(actor codec.Address) state.Keys {
	return swapKeys(actor, s.AssetIn, s.AssetOut)
}

func (s *SwapExactOut) Execute(
	ctx context.Context,
	r chain.Rules,
	mu state.Mutable,
	timestamp int64,
	actor codec.Address,
	_ ids.ID,
) (codec.Marshaler, error) {
	addr := storage.PoolAddress(s.AssetIn, s.AssetOut)
	q, err := newManager(r).SwapExactOut(ctx, mu, addr, s.AssetIn, s.AmountOut, s.MaxIn, timestamp, actor)
	if err != nil {
		return nil, err
	}
	return newSwapResult(addr, s.AssetOut, q), nil
}

func (*SwapExactOut) ComputeUnits(r chain.Rules) uint64 {
	return r.GetBaseComputeUnits() + SwapComputeUnits
}

func (s *SwapExactOut) Size() int {
	return s.AssetIn.Size() + s.AssetOut.Size() + 2*consts.Uint64Len
}

func (s *SwapExactOut) Marshal(p *codec.Packer) {
	s.AssetIn.Marshal(p)
	s.AssetOut.Marshal(p)
	p.PackUint64(s.AmountOut)
	p.PackUint64(s.MaxIn)
}

func UnmarshalSwapExactOut(p *codec.Packer) (chain.Action, error) {
	var (
		s   SwapExactOut
		err error
	)
	if s.AssetIn, err = asset.Unmarshal(p); err != nil {
		return nil, err
	}
	if s.AssetOut, err = asset.Unmarshal(p); err != nil {
		return nil, err
	}
	s.AmountOut = p.UnpackUint64(true)
	s.MaxIn = p.UnpackUint64(true)
	return &s, p.Err()
}

func (*SwapExactOut) ValidRange(chain.Rules) (int64, int64) {
	return -1, -1
}

type SwapResult struct {
	Pool      codec.Address `json:"pool"`
	AssetOut  asset.Asset   `json:"assetOut"`
	AmountIn  uint64        `json:"amountIn"`
	AmountOut uint64        `json:"amountOut"`
	FeeAmount uint64        `json:"feeAmount"`
}

func newSwapResult(pool codec.Address, assetOut asset.Asset, q *pricing.Quote) *SwapResult {
	return &SwapResult{
		Pool:      pool,
		AssetOut:  assetOut,
		AmountIn:  q.AmountIn,
		AmountOut: q.AmountOut,
		FeeAmount: q.FeeAmount,
	}
}

func (*SwapResult) GetTypeID() uint8 {
	return consts.SwapResultID
}

func (r *SwapResult) Size() int {
	return codec.AddressLen + r.AssetOut.Size() + 3*consts.Uint64Len
}

func (r *SwapResult) Marshal(p *codec.Packer) {
	p.PackAddress(r.Pool)
	r.AssetOut.Marshal(p)
	p.PackUint64(r.AmountIn)
	p.PackUint64(r.AmountOut)
	p.PackUint64(r.FeeAmount)
}

func UnmarshalSwapResult(p *codec.Packer) (codec.Marshaler, error) {
	var (
		r   SwapResult
		err error
	)
	p.UnpackAddress(&r.Pool)
	if r.AssetOut, err = asset.Unmarshal(p); err != nil {
		return nil, err
	}
	r.AmountIn = p.UnpackUint64(false)
	r.AmountOut = p.UnpackUint64(false)
	r.FeeAmount = p.UnpackUint64(false)
	return &r, p.Err()
}
