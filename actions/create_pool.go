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
	"github.com/ava-labs/lbpvm/pool"
	"github.com/ava-labs/lbpvm/state"
	"github.com/ava-labs/lbpvm/storage"
	"github.com/ava-labs/lbpvm/weights"
)

var (
	_ chain.Action    = (*CreatePool)(nil)
	_ codec.Marshaler = (*CreatePoolResult)(nil)
)

type CreatePool struct {
	AssetA asset.Asset `json:"assetA"`
	AssetB asset.Asset `json:"assetB"`

	StartWeightA uint64 `json:"startWeightA"`
	EndWeightA   uint64 `json:"endWeightA"`
	StartTime    int64  `json:"startTime"`
	EndTime      int64  `json:"endTime"`

	FeeBps      uint64 `json:"feeBps"`
	Description string `json:"description"`
}

func (*CreatePool) GetTypeID() uint8 {
	return consts.CreatePoolID
}

func (c *CreatePool) config() pool.Config {
	return pool.Config{
		AssetA: c.AssetA,
		AssetB: c.AssetB,
		Schedule: weights.Schedule{
			StartWeightA: c.StartWeightA,
			EndWeightA:   c.EndWeightA,
			StartTime:    c.StartTime,
			EndTime:      c.EndTime,
		},
		FeeBps:      c.FeeBps,
		Description: c.Description,
	}
}

func (c *CreatePool) StateKeys(codec.Address) state.Keys {
	addr := storage.PoolAddress(c.AssetA, c.AssetB)
	return state.Keys{
		string(storage.PoolConfigKey(addr)):         state.All,
		string(storage.PoolStateKey(addr)):          state.All,
		string(storage.PairKey(c.AssetA, c.AssetB)): state.All,
		string(storage.PairNodeKey(addr)):           state.All,
		string(storage.PairTailKey()):               state.All,
	}
}

func (c *CreatePool) Execute(
	ctx context.Context,
	r chain.Rules,
	mu state.Mutable,
	_ int64,
	actor codec.Address,
	_ ids.ID,
) (codec.Marshaler, error) {
	addr, err := newManager(r).Create(ctx, mu, c.config(), actor)
	if err != nil {
		return nil, err
	}
	return &CreatePoolResult{Pool: addr}, nil
}

func (*CreatePool) ComputeUnits(r chain.Rules) uint64 {
	return r.GetBaseComputeUnits() + CreatePoolComputeUnits
}

func (c *CreatePool) Size() int {
	return c.AssetA.Size() + c.AssetB.Size() +
		2*consts.Uint64Len + 2*consts.Int64Len + consts.Uint64Len +
		codec.StringLen(c.Description)
}

func (c *CreatePool) Marshal(p *codec.Packer) {
	c.AssetA.Marshal(p)
	c.AssetB.Marshal(p)
	p.PackUint64(c.StartWeightA)
	p.PackUint64(c.EndWeightA)
	p.PackInt64(c.StartTime)
	p.PackInt64(c.EndTime)
	p.PackUint64(c.FeeBps)
	p.PackString(c.Description)
}

func UnmarshalCreatePool(p *codec.Packer) (chain.Action, error) {
	var (
		c   CreatePool
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
	return &c, p.Err()
}

func (*CreatePool) ValidRange(chain.Rules) (int64, int64) {
	return -1, -1
}

type CreatePoolResult struct {
	Pool codec.Address `json:"pool"`
}

func (*CreatePoolResult) GetTypeID() uint8 {
	return consts.CreatePoolResultID
}

func (*CreatePoolResult) Size() int {
	return codec.AddressLen
}

func (r *CreatePoolResult) Marshal(p *codec.Packer) {
	p.PackAddress(r.Pool)
}

func UnmarshalCreatePoolResult(p *codec.Packer) (codec.Marshaler, error) {
	var r CreatePoolResult
	p.UnpackAddress(&r.Pool)
	return &r, p.Err()
}
