// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

// Key prefixes
const (
	poolConfigPrefix byte = iota
	poolStatePrefix
	pairPrefix
	balancePrefix
	shareBalancePrefix
	shareSupplyPrefix
	metadataPrefix
	pairNodePrefix
	pairTailPrefix
)

// Chunks
const (
	PoolConfigChunks   uint16 = 8
	PoolStateChunks    uint16 = 1
	PairChunks         uint16 = 1
	BalanceChunks      uint16 = 1
	ShareBalanceChunks uint16 = 1
	ShareSupplyChunks  uint16 = 1
	MetadataChunks     uint16 = 1
	PairNodeChunks     uint16 = 3
	PairTailChunks     uint16 = 1
)

// Sub-directory of the data directory holding the state database.
const stateNamespace = "statedb"
