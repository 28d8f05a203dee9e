// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import "github.com/ava-labs/avalanchego/utils/units"

// Compute units charged on top of the base units of the rules.
const (
	CreatePoolComputeUnits        = 5
	ProvideLiquidityComputeUnits  = 3
	WithdrawLiquidityComputeUnits = 3
	SwapComputeUnits              = 2
	// Routes are charged per asset of their path.
	RouteHopComputeUnits = 2
)

// MaxActionSize bounds the encoding of any action, type ID included.
const MaxActionSize = 4 * units.KiB
