// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package api

import (
	"net/http"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ava-labs/lbpvm/actions"
	"github.com/ava-labs/lbpvm/asset"
	"github.com/ava-labs/lbpvm/chain"
	"github.com/ava-labs/lbpvm/codec"
	"github.com/ava-labs/lbpvm/pool"
	"github.com/ava-labs/lbpvm/pricing"
	"github.com/ava-labs/lbpvm/router"
	"github.com/ava-labs/lbpvm/storage"
	"github.com/ava-labs/lbpvm/weights"
)

type JSONRPCServer struct {
	c      Controller
	log    logging.Logger
	tracer trace.Tracer
}

func NewJSONRPCServer(c Controller, log logging.Logger, tracer trace.Tracer) *JSONRPCServer {
	return &JSONRPCServer{c: c, log: log, tracer: tracer}
}

type PingReply struct {
	Success bool `json:"success"`
}

func (j *JSONRPCServer) Ping(_ *http.Request, _ *struct{}, reply *PingReply) (err error) {
	j.log.Debug("ping")
	reply.Success = true
	return nil
}

type NetworkReply struct {
	NetworkID uint32 `json:"networkId"`
	ChainID   ids.ID `json:"chainId"`
	Timestamp int64  `json:"timestamp"`
}

func (j *JSONRPCServer) Network(_ *http.Request, _ *struct{}, reply *NetworkReply) (err error) {
	now := j.c.Now()
	r := j.c.Rules(now)
	reply.NetworkID = r.GetNetworkID()
	reply.ChainID = r.GetChainID()
	reply.Timestamp = now
	return nil
}

type SimulateSwapArgs struct {
	AssetIn  asset.Asset `json:"assetIn"`
	AssetOut asset.Asset `json:"assetOut"`
	// Amount is the input for exact in quotes and the output for exact out
	// quotes.
	Amount uint64 `json:"amount"`
	// Zero evaluates the quote now.
	Timestamp int64 `json:"timestamp"`
}

type SimulateSwapReply struct {
	Pool  codec.Address  `json:"pool"`
	Quote *pricing.Quote `json:"quote"`
}

func (j *JSONRPCServer) SimulateSwap(req *http.Request, args *SimulateSwapArgs, reply *SimulateSwapReply) error {
	ctx, span := j.tracer.Start(req.Context(), "JSONRPCServer.SimulateSwap")
	defer span.End()

	addr, err := j.c.LookupPool(ctx, args.AssetIn, args.AssetOut)
	if err != nil {
		return err
	}
	q, err := j.c.Simulate(ctx, addr, args.AssetIn, args.Amount, args.Timestamp)
	if err != nil {
		return err
	}
	reply.Pool = addr
	reply.Quote = q
	return nil
}

func (j *JSONRPCServer) SimulateSwapExactOut(req *http.Request, args *SimulateSwapArgs, reply *SimulateSwapReply) error {
	ctx, span := j.tracer.Start(req.Context(), "JSONRPCServer.SimulateSwapExactOut")
	defer span.End()

	addr, err := j.c.LookupPool(ctx, args.AssetIn, args.AssetOut)
	if err != nil {
		return err
	}
	q, err := j.c.SimulateExactOut(ctx, addr, args.AssetIn, args.Amount, args.Timestamp)
	if err != nil {
		return err
	}
	reply.Pool = addr
	reply.Quote = q
	return nil
}

type SimulateRouteArgs struct {
	Path      []asset.Asset `json:"path"`
	Amount    uint64        `json:"amount"`
	ExactOut  bool          `json:"exactOut"`
	Timestamp int64         `json:"timestamp"`
}

type SimulateRouteReply struct {
	Route *router.Result `json:"route"`
}

func (j *JSONRPCServer) SimulateRoute(req *http.Request, args *SimulateRouteArgs, reply *SimulateRouteReply) error {
	ctx, span := j.tracer.Start(req.Context(), "JSONRPCServer.SimulateRoute")
	defer span.End()

	res, err := j.c.SimulateRoute(ctx, args.Path, args.Amount, args.ExactOut, args.Timestamp)
	if err != nil {
		return err
	}
	reply.Route = res
	return nil
}

type PoolStateArgs struct {
	Pool      codec.Address `json:"pool"`
	Timestamp int64         `json:"timestamp"`
}

type PoolStateReply struct {
	Pool    *pool.Pool    `json:"pool"`
	Phase   weights.Phase `json:"phase"`
	WeightA uint64        `json:"weightA"`
	WeightB uint64        `json:"weightB"`
	// SpotPrice is the price of asset A in asset B. It is zero while the
	// pool holds no liquidity.
	SpotPrice decimal.Decimal `json:"spotPrice"`
}

func (j *JSONRPCServer) PoolState(req *http.Request, args *PoolStateArgs, reply *PoolStateReply) error {
	ctx, span := j.tracer.Start(req.Context(), "JSONRPCServer.PoolState")
	defer span.End()

	p, err := j.c.Pool(ctx, args.Pool)
	if err != nil {
		return err
	}
	wa, wb, err := j.c.Weights(ctx, args.Pool, args.Timestamp)
	if err != nil {
		return err
	}
	t := args.Timestamp
	if t == 0 {
		t = j.c.Now()
	}
	reply.Pool = p
	reply.Phase = p.Config.Phase(t)
	reply.WeightA = wa
	reply.WeightB = wb
	if p.State.Initialized() {
		reply.SpotPrice, err = j.c.SpotPrice(ctx, args.Pool, args.Timestamp)
	}
	return err
}

type LookupPoolArgs struct {
	AssetA asset.Asset `json:"assetA"`
	AssetB asset.Asset `json:"assetB"`
}

type LookupPoolReply struct {
	Pool codec.Address `json:"pool"`
}

func (j *JSONRPCServer) LookupPool(req *http.Request, args *LookupPoolArgs, reply *LookupPoolReply) error {
	ctx, span := j.tracer.Start(req.Context(), "JSONRPCServer.LookupPool")
	defer span.End()

	addr, err := j.c.LookupPool(ctx, args.AssetA, args.AssetB)
	if err != nil {
		return err
	}
	reply.Pool = addr
	return nil
}

type ListPairsArgs struct {
	// StartAfter is empty or the two assets of the last pair of the
	// previous page.
	StartAfter []asset.Asset `json:"startAfter"`
	Limit      int           `json:"limit"`
}

type ListPairsReply struct {
	Pairs []storage.Pair `json:"pairs"`
}

func (j *JSONRPCServer) ListPairs(req *http.Request, args *ListPairsArgs, reply *ListPairsReply) error {
	ctx, span := j.tracer.Start(req.Context(), "JSONRPCServer.ListPairs")
	defer span.End()

	pairs, err := j.c.ListPairs(ctx, args.StartAfter, args.Limit)
	if err != nil {
		return err
	}
	reply.Pairs = pairs
	return nil
}

type BalanceArgs struct {
	Address codec.Address `json:"address"`
	Asset   asset.Asset   `json:"asset"`
}

type BalanceReply struct {
	Amount uint64 `json:"amount"`
}

func (j *JSONRPCServer) Balance(req *http.Request, args *BalanceArgs, reply *BalanceReply) error {
	ctx, span := j.tracer.Start(req.Context(), "JSONRPCServer.Balance")
	defer span.End()

	bal, err := j.c.Balance(ctx, args.Address, args.Asset)
	if err != nil {
		return err
	}
	reply.Amount = bal
	return nil
}

type ShareBalanceArgs struct {
	Pool    codec.Address `json:"pool"`
	Address codec.Address `json:"address"`
}

func (j *JSONRPCServer) ShareBalance(req *http.Request, args *ShareBalanceArgs, reply *BalanceReply) error {
	ctx, span := j.tracer.Start(req.Context(), "JSONRPCServer.ShareBalance")
	defer span.End()

	bal, err := j.c.ShareBalance(ctx, args.Pool, args.Address)
	if err != nil {
		return err
	}
	reply.Amount = bal
	return nil
}

// Submissions carry the actor that the action runs as. The service trusts
// it and must only be exposed to trusted callers.

type SubmitReply struct {
	Result *chain.Result `json:"result"`
}

func (j *JSONRPCServer) submit(req *http.Request, name string, actor codec.Address, action chain.Action, reply *SubmitReply) error {
	ctx, span := j.tracer.Start(req.Context(), "JSONRPCServer."+name)
	defer span.End()

	res, err := j.c.Submit(ctx, action, actor)
	if err != nil {
		j.log.Warn("unable to submit action",
			zap.String("method", name),
			zap.Stringer("actor", actor),
			zap.Error(err),
		)
		return err
	}
	reply.Result = res
	return nil
}

type CreatePoolArgs struct {
	Actor  codec.Address       `json:"actor"`
	Action *actions.CreatePool `json:"action"`
}

func (j *JSONRPCServer) CreatePool(req *http.Request, args *CreatePoolArgs, reply *SubmitReply) error {
	if args.Action == nil {
		return ErrMissingAction
	}
	return j.submit(req, "CreatePool", args.Actor, args.Action, reply)
}

type ProvideLiquidityArgs struct {
	Actor  codec.Address             `json:"actor"`
	Action *actions.ProvideLiquidity `json:"action"`
}

func (j *JSONRPCServer) ProvideLiquidity(req *http.Request, args *ProvideLiquidityArgs, reply *SubmitReply) error {
	if args.Action == nil {
		return ErrMissingAction
	}
	return j.submit(req, "ProvideLiquidity", args.Actor, args.Action, reply)
}

type WithdrawLiquidityArgs struct {
	Actor  codec.Address              `json:"actor"`
	Action *actions.WithdrawLiquidity `json:"action"`
}

func (j *JSONRPCServer) WithdrawLiquidity(req *http.Request, args *WithdrawLiquidityArgs, reply *SubmitReply) error {
	if args.Action == nil {
		return ErrMissingAction
	}
	return j.submit(req, "WithdrawLiquidity", args.Actor, args.Action, reply)
}

type SwapArgs struct {
	Actor  codec.Address `json:"actor"`
	Action *actions.Swap `json:"action"`
}

func (j *JSONRPCServer) Swap(req *http.Request, args *SwapArgs, reply *SubmitReply) error {
	if args.Action == nil {
		return ErrMissingAction
	}
	return j.submit(req, "Swap", args.Actor, args.Action, reply)
}

type ExecuteRouteArgs struct {
	Actor  codec.Address         `json:"actor"`
	Action *actions.ExecuteRoute `json:"action"`
}

func (j *JSONRPCServer) ExecuteRoute(req *http.Request, args *ExecuteRouteArgs, reply *SubmitReply) error {
	if args.Action == nil {
		return ErrMissingAction
	}
	return j.submit(req, "ExecuteRoute", args.Actor, args.Action, reply)
}

type SubmitActionArgs struct {
	Actor  codec.Address `json:"actor"`
	Action codec.Bytes   `json:"action"`
}

// SubmitAction runs any action encoded with [codec.MarshalTyped], including
// the exact out variants.
func (j *JSONRPCServer) SubmitAction(req *http.Request, args *SubmitActionArgs, reply *SubmitReply) error {
	ctx, span := j.tracer.Start(req.Context(), "JSONRPCServer.SubmitAction")
	defer span.End()

	res, err := j.c.SubmitBytes(ctx, args.Action, args.Actor)
	if err != nil {
		return err
	}
	reply.Result = res
	return nil
}
