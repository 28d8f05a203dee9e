// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"github.com/ava-labs/lbpvm/asset"
	"github.com/ava-labs/lbpvm/codec"
	"github.com/ava-labs/lbpvm/consts"
	"github.com/ava-labs/lbpvm/utils"
)

// PoolAddress derives the address of the pool trading [x] against [y]. The
// result does not depend on the order of the arguments.
func PoolAddress(x, y asset.Asset) codec.Address {
	return codec.CreateAddress(consts.PoolAddressID, utils.ToID(pairBytes(x, y)))
}
