// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package consts

// Address type IDs
const (
	AccountAddressID uint8 = iota
	PoolAddressID
)

// Action type IDs
const (
	CreatePoolID uint8 = iota
	ProvideLiquidityID
	WithdrawLiquidityID
	SwapID
	SwapExactOutID
	ExecuteRouteID
	ExecuteRouteExactOutID
)

// Result type IDs
const (
	CreatePoolResultID uint8 = iota
	ProvideLiquidityResultID
	WithdrawLiquidityResultID
	SwapResultID
	RouteResultID
)
