// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pricing

import "errors"

var (
	ErrZeroAmount            = errors.New("zero amount")
	ErrOutputTooSmall        = errors.New("output too small")
	ErrInsufficientLiquidity = errors.New("insufficient liquidity")
	ErrPoolNotInitialized    = errors.New("pool not initialized")
	ErrArithmeticOverflow    = errors.New("arithmetic overflow")
	ErrInvalidWeight         = errors.New("invalid weight")
	ErrInvalidFee            = errors.New("invalid fee")
	ErrNonPositiveLog        = errors.New("logarithm of non-positive value")
)
