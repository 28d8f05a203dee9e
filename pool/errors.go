// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pool

import "errors"

var (
	ErrInvalidConfig      = errors.New("invalid pool config")
	ErrSlippageExceeded   = errors.New("slippage exceeded")
	ErrExcessiveInput     = errors.New("excessive input")
	ErrPoolNotFound       = errors.New("pool not found")
	ErrPoolExists         = errors.New("pool already exists")
	ErrAssetNotInPool     = errors.New("asset not in pool")
	ErrInvariantViolation = errors.New("pool invariant violated")
	ErrCorruptState       = errors.New("corrupt pool state")
)
