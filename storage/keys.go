// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"github.com/ava-labs/lbpvm/asset"
	"github.com/ava-labs/lbpvm/codec"
	"github.com/ava-labs/lbpvm/keys"
)

func addressKey(prefix byte, addr codec.Address, chunks uint16) []byte {
	k := make([]byte, 1+codec.AddressLen)
	k[0] = prefix
	copy(k[1:], addr[:])
	return keys.EncodeChunks(k, chunks)
}

// PoolConfigKey stores the immutable configuration of [pool].
func PoolConfigKey(pool codec.Address) []byte {
	return addressKey(poolConfigPrefix, pool, PoolConfigChunks)
}

// PoolStateKey stores the reserves and share supply of [pool].
func PoolStateKey(pool codec.Address) []byte {
	return addressKey(poolStatePrefix, pool, PoolStateChunks)
}

// PairKey maps an unordered asset pair to the pool that trades it.
func PairKey(x, y asset.Asset) []byte {
	return keys.EncodeChunks(append([]byte{pairPrefix}, pairBytes(x, y)...), PairChunks)
}

// PairNodeKey stores the pair traded by [pool] and the pool registered
// just before it.
func PairNodeKey(pool codec.Address) []byte {
	return addressKey(pairNodePrefix, pool, PairNodeChunks)
}

// PairTailKey stores the most recently registered pool.
func PairTailKey() []byte {
	return keys.EncodeChunks([]byte{pairTailPrefix}, PairTailChunks)
}

// BalanceKey stores how much of [a] is held by [owner]. Pools custody their
// reserves under their own address.
func BalanceKey(owner codec.Address, a asset.Asset) []byte {
	ab := a.Bytes()
	k := make([]byte, 1+codec.AddressLen+len(ab))
	k[0] = balancePrefix
	copy(k[1:], owner[:])
	copy(k[1+codec.AddressLen:], ab)
	return keys.EncodeChunks(k, BalanceChunks)
}

func ShareBalanceKey(pool codec.Address, owner codec.Address) []byte {
	k := make([]byte, 1+2*codec.AddressLen)
	k[0] = shareBalancePrefix
	copy(k[1:], pool[:])
	copy(k[1+codec.AddressLen:], owner[:])
	return keys.EncodeChunks(k, ShareBalanceChunks)
}

func ShareSupplyKey(pool codec.Address) []byte {
	return addressKey(shareSupplyPrefix, pool, ShareSupplyChunks)
}

func pairBytes(x, y asset.Asset) []byte {
	first, second := asset.Sort(x, y)
	return append(first.Bytes(), second.Bytes()...)
}
