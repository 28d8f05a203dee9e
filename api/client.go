// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package api

import (
	"context"
	"fmt"
	"strings"

	"github.com/ava-labs/lbpvm/actions"
	"github.com/ava-labs/lbpvm/asset"
	"github.com/ava-labs/lbpvm/chain"
	"github.com/ava-labs/lbpvm/codec"
	"github.com/ava-labs/lbpvm/pricing"
	"github.com/ava-labs/lbpvm/requester"
	"github.com/ava-labs/lbpvm/router"
	"github.com/ava-labs/lbpvm/storage"
)

type JSONRPCClient struct {
	requester *requester.EndpointRequester
	registry  chain.Registry
}

// NewJSONRPCClient creates a client for the service served at [uri].
func NewJSONRPCClient(uri string) (*JSONRPCClient, error) {
	registry, err := actions.NewRegistry()
	if err != nil {
		return nil, err
	}
	uri = strings.TrimSuffix(uri, "/")
	uri += JSONRPCEndpoint
	return &JSONRPCClient{
		requester: requester.New(uri, Name),
		registry:  registry,
	}, nil
}

func (cli *JSONRPCClient) Ping(ctx context.Context) (bool, error) {
	resp := new(PingReply)
	err := cli.requester.SendRequest(ctx,
		"ping",
		nil,
		resp,
	)
	return resp.Success, err
}

func (cli *JSONRPCClient) Network(ctx context.Context) (*NetworkReply, error) {
	resp := new(NetworkReply)
	err := cli.requester.SendRequest(ctx,
		"network",
		nil,
		resp,
	)
	return resp, err
}

func (cli *JSONRPCClient) SimulateSwap(ctx context.Context, assetIn, assetOut asset.Asset, amountIn uint64, timestamp int64) (*pricing.Quote, error) {
	resp := new(SimulateSwapReply)
	err := cli.requester.SendRequest(ctx,
		"simulateSwap",
		&SimulateSwapArgs{AssetIn: assetIn, AssetOut: assetOut, Amount: amountIn, Timestamp: timestamp},
		resp,
	)
	return resp.Quote, err
}

func (cli *JSONRPCClient) SimulateSwapExactOut(ctx context.Context, assetIn, assetOut asset.Asset, amountOut uint64, timestamp int64) (*pricing.Quote, error) {
	resp := new(SimulateSwapReply)
	err := cli.requester.SendRequest(ctx,
		"simulateSwapExactOut",
		&SimulateSwapArgs{AssetIn: assetIn, AssetOut: assetOut, Amount: amountOut, Timestamp: timestamp},
		resp,
	)
	return resp.Quote, err
}

func (cli *JSONRPCClient) SimulateRoute(ctx context.Context, path []asset.Asset, amount uint64, exactOut bool, timestamp int64) (*router.Result, error) {
	resp := new(SimulateRouteReply)
	err := cli.requester.SendRequest(ctx,
		"simulateRoute",
		&SimulateRouteArgs{Path: path, Amount: amount, ExactOut: exactOut, Timestamp: timestamp},
		resp,
	)
	return resp.Route, err
}

func (cli *JSONRPCClient) PoolState(ctx context.Context, pool codec.Address, timestamp int64) (*PoolStateReply, error) {
	resp := new(PoolStateReply)
	err := cli.requester.SendRequest(ctx,
		"poolState",
		&PoolStateArgs{Pool: pool, Timestamp: timestamp},
		resp,
	)
	return resp, err
}

func (cli *JSONRPCClient) LookupPool(ctx context.Context, x, y asset.Asset) (codec.Address, error) {
	resp := new(LookupPoolReply)
	err := cli.requester.SendRequest(ctx,
		"lookupPool",
		&LookupPoolArgs{AssetA: x, AssetB: y},
		resp,
	)
	return resp.Pool, err
}

// ListPairs returns up to [limit] pools, newest first, resuming after the
// pair named by [startAfter] when it is not empty.
func (cli *JSONRPCClient) ListPairs(ctx context.Context, startAfter []asset.Asset, limit int) ([]storage.Pair, error) {
	resp := new(ListPairsReply)
	err := cli.requester.SendRequest(ctx,
		"listPairs",
		&ListPairsArgs{StartAfter: startAfter, Limit: limit},
		resp,
	)
	return resp.Pairs, err
}

func (cli *JSONRPCClient) Balance(ctx context.Context, owner codec.Address, a asset.Asset) (uint64, error) {
	resp := new(BalanceReply)
	err := cli.requester.SendRequest(ctx,
		"balance",
		&BalanceArgs{Address: owner, Asset: a},
		resp,
	)
	return resp.Amount, err
}

func (cli *JSONRPCClient) ShareBalance(ctx context.Context, pool codec.Address, owner codec.Address) (uint64, error) {
	resp := new(BalanceReply)
	err := cli.requester.SendRequest(ctx,
		"shareBalance",
		&ShareBalanceArgs{Pool: pool, Address: owner},
		resp,
	)
	return resp.Amount, err
}

func (cli *JSONRPCClient) CreatePool(ctx context.Context, actor codec.Address, action *actions.CreatePool) (*actions.CreatePoolResult, error) {
	return submit[*actions.CreatePoolResult](ctx, cli, "createPool", &CreatePoolArgs{Actor: actor, Action: action})
}

func (cli *JSONRPCClient) ProvideLiquidity(ctx context.Context, actor codec.Address, action *actions.ProvideLiquidity) (*actions.ProvideLiquidityResult, error) {
	return submit[*actions.ProvideLiquidityResult](ctx, cli, "provideLiquidity", &ProvideLiquidityArgs{Actor: actor, Action: action})
}

func (cli *JSONRPCClient) WithdrawLiquidity(ctx context.Context, actor codec.Address, action *actions.WithdrawLiquidity) (*actions.WithdrawLiquidityResult, error) {
	return submit[*actions.WithdrawLiquidityResult](ctx, cli, "withdrawLiquidity", &WithdrawLiquidityArgs{Actor: actor, Action: action})
}

func (cli *JSONRPCClient) Swap(ctx context.Context, actor codec.Address, action *actions.Swap) (*actions.SwapResult, error) {
	return submit[*actions.SwapResult](ctx, cli, "swap", &SwapArgs{Actor: actor, Action: action})
}

func (cli *JSONRPCClient) ExecuteRoute(ctx context.Context, actor codec.Address, action *actions.ExecuteRoute) (*actions.RouteResult, error) {
	return submit[*actions.RouteResult](ctx, cli, "executeRoute", &ExecuteRouteArgs{Actor: actor, Action: action})
}

// SubmitAction sends any registered action in its binary form and returns
// the raw result.
func (cli *JSONRPCClient) SubmitAction(ctx context.Context, actor codec.Address, action chain.Action) (*chain.Result, error) {
	b, err := codec.MarshalTyped(action)
	if err != nil {
		return nil, err
	}
	resp := new(SubmitReply)
	if err := cli.requester.SendRequest(ctx,
		"submitAction",
		&SubmitActionArgs{Actor: actor, Action: b},
		resp,
	); err != nil {
		return nil, err
	}
	return resp.Result, nil
}

// submit sends an action and decodes its output. A failed action is
// returned as an error wrapping [ErrActionFailed].
func submit[T codec.Marshaler](ctx context.Context, cli *JSONRPCClient, method string, args interface{}) (T, error) {
	var empty T
	resp := new(SubmitReply)
	if err := cli.requester.SendRequest(ctx, method, args, resp); err != nil {
		return empty, err
	}
	res := resp.Result
	if res == nil {
		return empty, fmt.Errorf("%w: empty result", ErrActionFailed)
	}
	if !res.Success {
		return empty, fmt.Errorf("%w: %s", ErrActionFailed, res.Error)
	}
	output, err := cli.registry.OutputRegistry().Unmarshal(res.Output, actions.MaxActionSize)
	if err != nil {
		return empty, err
	}
	typed, ok := output.(T)
	if !ok {
		return empty, fmt.Errorf("%w: unexpected output type %d", ErrActionFailed, output.GetTypeID())
	}
	return typed, nil
}
