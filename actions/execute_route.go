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
	"github.com/ava-labs/lbpvm/router"
	"github.com/ava-labs/lbpvm/state"
)

var (
	_ chain.Action    = (*ExecuteRoute)(nil)
	_ chain.Action    = (*ExecuteRouteExactOut)(nil)
	_ codec.Marshaler = (*RouteResult)(nil)
)

// ExecuteRoute sells AmountIn of the first asset of Path through the pool of
// every consecutive pair, and requires at least MinOut of the last asset.
type ExecuteRoute struct {
	Path     []asset.Asset `json:"path"`
	AmountIn uint64        `json:"amountIn"`
	MinOut   uint64        `json:"minOut"`
}

func (*ExecuteRoute) GetTypeID() uint8 {
	return consts.ExecuteRouteID
}

func (e *ExecuteRoute) StateKeys(actor codec.Address) state.Keys {
	return routeKeys(actor, e.Path)
}

func (e *ExecuteRoute) Execute(
	ctx context.Context,
	r chain.Rules,
	mu state.Mutable,
	timestamp int64,
	actor codec.Address,
	_ ids.ID,
) (codec.Marshaler, error) {
	m := newManager(r)
	rt := router.New(m)
	res, err := route(ctx, mu, e.Path, m, func(view router.View, plan router.Plan) (*router.Result, error) {
		return rt.ExecuteExactIn(ctx, view, plan, e.AmountIn, e.MinOut, timestamp, actor)
	})
	if err != nil {
		return nil, err
	}
	return newRouteResult(res), nil
}

func (e *ExecuteRoute) ComputeUnits(r chain.Rules) uint64 {
	return r.GetBaseComputeUnits() + uint64(len(e.Path))*RouteHopComputeUnits
}

func (e *ExecuteRoute) Size() int {
	return pathSize(e.Path) + 2*consts.Uint64Len
}

func (e *ExecuteRoute) Marshal(p *codec.Packer) {
	packPath(p, e.Path)
	p.PackUint64(e.AmountIn)
	p.PackUint64(e.MinOut)
}

func UnmarshalExecuteRoute(p *codec.Packer) (chain.Action, error) {
	var (
		e   ExecuteRoute
		err error
	)
	if e.Path, err = unpackPath(p); err != nil {
		return nil, err
	}
	e.AmountIn = p.UnpackUint64(true)
	e.MinOut = p.UnpackUint64(false)
	return &e, p.Err()
}

func (*ExecuteRoute) ValidRange(chain.Rules) (int64, int64) {
	return -1, -1
}

// ExecuteRouteExactOut buys exactly AmountOut of the last asset of Path,
// spending at most MaxIn of the first.
type ExecuteRouteExactOut struct {
	Path      []asset.Asset `json:"path"`
	AmountOut uint64        `json:"amountOut"`
	MaxIn     uint64        `json:"maxIn"`
}

func (*ExecuteRouteExactOut) GetTypeID() uint8 {
	return consts.ExecuteRouteExactOutID
}

func (e *ExecuteRouteExactOut) StateKeys(actor codec.Address) state.Keys {
	return routeKeys(actor, e.Path)
}

func (e *ExecuteRouteExactOut) Execute(
	ctx context.Context,
	r chain.Rules,
	mu state.Mutable,
	timestamp int64,
	actor codec.Address,
	_ ids.ID,
) (codec.Marshaler, error) {
	m := newManager(r)
	rt := router.New(m)
	res, err := route(ctx, mu, e.Path, m, func(view router.View, plan router.Plan) (*router.Result, error) {
		return rt.ExecuteExactOut(ctx, view, plan, e.AmountOut, e.MaxIn, timestamp, actor)
	})
	if err != nil {
		return nil, err
	}
	return newRouteResult(res), nil
}

func (e *ExecuteRouteExactOut) ComputeUnits(r chain.Rules) uint64 {
	return r.GetBaseComputeUnits() + uint64(len(e.Path))*RouteHopComputeUnits
}

func (e *ExecuteRouteExactOut) Size() int {
	return pathSize(e.Path) + 2*consts.Uint64Len
}

func (e *ExecuteRouteExactOut) Marshal(p *codec.Packer) {
	packPath(p, e.Path)
	p.PackUint64(e.AmountOut)
	p.PackUint64(e.MaxIn)
}

func UnmarshalExecuteRouteExactOut(p *codec.Packer) (chain.Action, error) {
	var (
		e   ExecuteRouteExactOut
		err error
	)
	if e.Path, err = unpackPath(p); err != nil {
		return nil, err
	}
	e.AmountOut = p.UnpackUint64(true)
	e.MaxIn = p.UnpackUint64(true)
	return &e, p.Err()
}

func (*ExecuteRouteExactOut) ValidRange(chain.Rules) (int64, int64) {
	return -1, -1
}

// RouteResult reports the totals of a route and the amounts of every hop.
type RouteResult struct {
	AmountIn  uint64       `json:"amountIn"`
	AmountOut uint64       `json:"amountOut"`
	Hops      []*HopResult `json:"hops"`
}

type HopResult struct {
	AmountIn  uint64 `json:"amountIn"`
	AmountOut uint64 `json:"amountOut"`
	FeeAmount uint64 `json:"feeAmount"`
}

func newRouteResult(res *router.Result) *RouteResult {
	hops := make([]*HopResult, 0, len(res.Hops))
	for _, q := range res.Hops {
		hops = append(hops, &HopResult{AmountIn: q.AmountIn, AmountOut: q.AmountOut, FeeAmount: q.FeeAmount})
	}
	return &RouteResult{AmountIn: res.AmountIn, AmountOut: res.AmountOut, Hops: hops}
}

func (*RouteResult) GetTypeID() uint8 {
	return consts.RouteResultID
}

func (r *RouteResult) Size() int {
	return 2*consts.Uint64Len + consts.ByteLen + len(r.Hops)*3*consts.Uint64Len
}

func (r *RouteResult) Marshal(p *codec.Packer) {
	p.PackUint64(r.AmountIn)
	p.PackUint64(r.AmountOut)
	p.PackByte(byte(len(r.Hops)))
	for _, h := range r.Hops {
		p.PackUint64(h.AmountIn)
		p.PackUint64(h.AmountOut)
		p.PackUint64(h.FeeAmount)
	}
}

func UnmarshalRouteResult(p *codec.Packer) (codec.Marshaler, error) {
	var r RouteResult
	r.AmountIn = p.UnpackUint64(false)
	r.AmountOut = p.UnpackUint64(false)
	n := int(p.UnpackByte())
	if err := p.Err(); err != nil {
		return nil, err
	}
	r.Hops = make([]*HopResult, 0, n)
	for i := 0; i < n; i++ {
		r.Hops = append(r.Hops, &HopResult{
			AmountIn:  p.UnpackUint64(false),
			AmountOut: p.UnpackUint64(false),
			FeeAmount: p.UnpackUint64(false),
		})
	}
	return &r, p.Err()
}
