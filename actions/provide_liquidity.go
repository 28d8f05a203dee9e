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
	_ chain.Action    = (*ProvideLiquidity)(nil)
	_ codec.Marshaler = (*ProvideLiquidityResult)(nil)
)

// ProvideLiquidity deposits into the pool of AssetA and AssetB. The amounts
// follow the asset order of the pool, not of the action.
type ProvideLiquidity struct {
	AssetA  asset.Asset `json:"assetA"`
	AssetB  asset.Asset `json:"assetB"`
	AmountA uint64      `json:"amountA"`
	AmountB uint64      `json:"amountB"`
}

func (*ProvideLiquidity) GetTypeID() uint8 {
	return consts.ProvideLiquidityID
}

func (l *ProvideLiquidity) StateKeys(actor codec.Address) state.Keys {
	return liquidityKeys(actor, l.AssetA, l.AssetB)
}

func (l *ProvideLiquidity) Execute(
	ctx context.Context,
	r chain.Rules,
	mu state.Mutable,
	timestamp int64,
	actor codec.Address,
	_ ids.ID,
) (codec.Marshaler, error) {
	addr := storage.PoolAddress(l.AssetA, l.AssetB)
	d, err := newManager(r).Provide(ctx, mu, addr, l.AmountA, l.AmountB, timestamp, actor)
	if err != nil {
		return nil, err
	}
	return &ProvideLiquidityResult{
		Pool:    addr,
		AmountA: d.AmountA,
		AmountB: d.AmountB,
		RefundA: d.RefundA,
		RefundB: d.RefundB,
		Shares:  d.Shares,
	}, nil
}

func (*ProvideLiquidity) ComputeUnits(r chain.Rules) uint64 {
	return r.GetBaseComputeUnits() + ProvideLiquidityComputeUnits
}

func (l *ProvideLiquidity) Size() int {
	return l.AssetA.Size() + l.AssetB.Size() + 2*consts.Uint64Len
}

func (l *ProvideLiquidity) Marshal(p *codec.Packer) {
	l.AssetA.Marshal(p)
	l.AssetB.Marshal(p)
	p.PackUint64(l.AmountA)
	p.PackUint64(l.AmountB)
}

func UnmarshalProvideLiquidity(p *codec.Packer) (chain.Action, error) {
	var (
		l   ProvideLiquidity
		err error
	)
	if l.AssetA, err = asset.Unmarshal(p); err != nil {
		return nil, err
	}
	if l.AssetB, err = asset.Unmarshal(p); err != nil {
		return nil, err
	}
	l.AmountA = p.UnpackUint64(true)
	l.AmountB = p.UnpackUint64(true)
	return &l, p.Err()
}

func (*ProvideLiquidity) ValidRange(chain.Rules) (int64, int64) {
	return -1, -1
}

type ProvideLiquidityResult struct {
	Pool    codec.Address `json:"pool"`
	AmountA uint64        `json:"amountA"`
	AmountB uint64        `json:"amountB"`
	RefundA uint64        `json:"refundA"`
	RefundB uint64        `json:"refundB"`
	Shares  uint64        `json:"shares"`
}

func (*ProvideLiquidityResult) GetTypeID() uint8 {
	return consts.ProvideLiquidityResultID
}

func (*ProvideLiquidityResult) Size() int {
	return codec.AddressLen + 5*consts.Uint64Len
}

func (r *ProvideLiquidityResult) Marshal(p *codec.Packer) {
	p.PackAddress(r.Pool)
	p.PackUint64(r.AmountA)
	p.PackUint64(r.AmountB)
	p.PackUint64(r.RefundA)
	p.PackUint64(r.RefundB)
	p.PackUint64(r.Shares)
}

func UnmarshalProvideLiquidityResult(p *codec.Packer) (codec.Marshaler, error) {
	var r ProvideLiquidityResult
	p.UnpackAddress(&r.Pool)
	r.AmountA = p.UnpackUint64(false)
	r.AmountB = p.UnpackUint64(false)
	r.RefundA = p.UnpackUint64(false)
	r.RefundB = p.UnpackUint64(false)
	r.Shares = p.UnpackUint64(false)
	return &r, p.Err()
}
