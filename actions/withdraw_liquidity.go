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
	"github.com/ava-labs/lbpvm/state"
	"github.com/ava-labs/lbpvm/storage"
)

var (
	_ chain.Action    = (*WithdrawLiquidity)(nil)
	_ codec.Marshaler = (*WithdrawLiquidityResult)(nil)
)

type WithdrawLiquidity struct {
	AssetA asset.Asset `json:"assetA"`
	AssetB asset.Asset `json:"assetB"`
	Shares uint64      `json:"shares"`
}

func (*WithdrawLiquidity) GetTypeID() uint8 {
	return consts.WithdrawLiquidityID
}

func (w *WithdrawLiquidity) StateKeys(actor codec.Address) state.Keys {
	return liquidityKeys(actor, w.AssetA, w.AssetB)
}

func (w *WithdrawLiquidity) Execute(
	ctx context.Context,
	r chain.Rules,
	mu state.Mutable,
	timestamp int64,
	actor codec.Address,
	_ ids.ID,
) (codec.Marshaler, error) {
	addr := storage.PoolAddress(w.AssetA, w.AssetB)
	out, err := newManager(r).Withdraw(ctx, mu, addr, w.Shares, timestamp, actor)
	if err != nil {
		return nil, err
	}
	return &WithdrawLiquidityResult{
		Pool:    addr,
		AmountA: out.AmountA,
		AmountB: out.AmountB,
		Shares:  out.Shares,
	}, nil
}

func (*WithdrawLiquidity) ComputeUnits(r chain.Rules) uint64 {
	return r.GetBaseComputeUnits() + WithdrawLiquidityComputeUnits
}

func (w *WithdrawLiquidity) Size() int {
	return w.AssetA.Size() + w.AssetB.Size() + consts.Uint64Len
}

func (w *WithdrawLiquidity) Marshal(p *codec.Packer) {
	w.AssetA.Marshal(p)
	w.AssetB.Marshal(p)
	p.PackUint64(w.Shares)
}

func UnmarshalWithdrawLiquidity(p *codec.Packer) (chain.Action, error) {
	var (
		w   WithdrawLiquidity
		err error
	)
	if w.AssetA, err = asset.Unmarshal(p); err != nil {
		return nil, err
	}
	if w.AssetB, err = asset.Unmarshal(p); err != nil {
		return nil, err
	}
	w.Shares = p.UnpackUint64(true)
	return &w, p.Err()
}

func (*WithdrawLiquidity) ValidRange(chain.Rules) (int64, int64) {
	return -1, -1
}

type WithdrawLiquidityResult struct {
	Pool    codec.Address `json:"pool"`
	AmountA uint64        `json:"amountA"`
	AmountB uint64        `json:"amountB"`
	Shares  uint64        `json:"shares"`
}

func (*WithdrawLiquidityResult) GetTypeID() uint8 {
	return consts.WithdrawLiquidityResultID
}

func (*WithdrawLiquidityResult) Size() int {
	return codec.AddressLen + 3*consts.Uint64Len
}

func (r *WithdrawLiquidityResult) Marshal(p *codec.Packer) {
	p.PackAddress(r.Pool)
	p.PackUint64(r.AmountA)
	p.PackUint64(r.AmountB)
	p.PackUint64(r.Shares)
}

func UnmarshalWithdrawLiquidityResult(p *codec.Packer) (codec.Marshaler, error) {
	var r WithdrawLiquidityResult
	p.UnpackAddress(&r.Pool)
	r.AmountA = p.UnpackUint64(false)
	r.AmountB = p.UnpackUint64(false)
	r.Shares = p.UnpackUint64(false)
	return &r, p.Err()
}
