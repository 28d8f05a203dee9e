// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"errors"

	"github.com/ava-labs/avalanchego/database"

	"github.com/ava-labs/lbpvm/keys"
	"github.com/ava-labs/lbpvm/state"
)

const genesisMarker byte = 0x0

// GenesisKey is written once the genesis allocations have been applied.
func GenesisKey() []byte {
	return keys.EncodeChunks([]byte{metadataPrefix, genesisMarker}, MetadataChunks)
}

func HasGenesis(ctx context.Context, im state.Immutable) (bool, error) {
	_, err := im.GetValue(ctx, GenesisKey())
	if errors.Is(err, database.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func SetGenesis(ctx context.Context, mu state.Mutable) error {
	return mu.Insert(ctx, GenesisKey(), []byte{1})
}
