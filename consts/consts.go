// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package consts

const (
	IDLen     = 32
	ByteLen   = 1
	BoolLen   = 1
	Uint16Len = 2
	Uint64Len = 8
	Int64Len  = 8
	MaxUint16 = ^uint16(0)
	MaxUint64 = ^uint64(0)
	MaxInt64  = int64(MaxUint64 >> 1)
)

const (
	Name    = "lbpvm"
	Version = "v0.1.0"

	// BasisPoints is the fee denominator.
	BasisPoints uint64 = 10_000

	// WeightOne is the fixed-point representation of a weight of 1.0.
	WeightOne uint64 = 1_000_000_000_000_000_000

	// MaxHops bounds the length of a route.
	MaxHops = 8

	// MaxDescriptionLen bounds the free-text description attached to a pool.
	MaxDescriptionLen = 256
	// MaxDenomLen bounds the denomination of a native asset.
	MaxDenomLen = 64
)
