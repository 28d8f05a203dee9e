// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"github.com/ava-labs/avalanchego/utils/wrappers"

	"github.com/ava-labs/lbpvm/chain"
	"github.com/ava-labs/lbpvm/codec"
)

// NewRegistry returns the parsers of every action and result.
func NewRegistry() (chain.Registry, error) {
	actionParser := codec.NewTypeParser[chain.Action]()
	outputParser := codec.NewTypeParser[codec.Marshaler]()

	errs := &wrappers.Errs{}
	errs.Add(
		actionParser.Register(&CreatePool{}, UnmarshalCreatePool),
		actionParser.Register(&ProvideLiquidity{}, UnmarshalProvideLiquidity),
		actionParser.Register(&WithdrawLiquidity{}, UnmarshalWithdrawLiquidity),
		actionParser.Register(&Swap{}, UnmarshalSwap),
		actionParser.Register(&SwapExactOut{}, UnmarshalSwapExactOut),
		actionParser.Register(&ExecuteRoute{}, UnmarshalExecuteRoute),
		actionParser.Register(&ExecuteRouteExactOut{}, UnmarshalExecuteRouteExactOut),

		outputParser.Register(&CreatePoolResult{}, UnmarshalCreatePoolResult),
		outputParser.Register(&ProvideLiquidityResult{}, UnmarshalProvideLiquidityResult),
		outputParser.Register(&WithdrawLiquidityResult{}, UnmarshalWithdrawLiquidityResult),
		outputParser.Register(&SwapResult{}, UnmarshalSwapResult),
		outputParser.Register(&RouteResult{}, UnmarshalRouteResult),
	)
	if errs.Errored() {
		return nil, errs.Err
	}
	return chain.NewRegistry(actionParser, outputParser), nil
}
