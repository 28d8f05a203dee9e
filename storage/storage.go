// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"github.com/ava-labs/avalanchego/api/metrics"
	"github.com/ava-labs/avalanchego/database/memdb"

	"github.com/ava-labs/lbpvm/pebble"
	"github.com/ava-labs/lbpvm/state"
	"github.com/ava-labs/lbpvm/utils"
)

// New opens the state database under [dataDir]. An empty [dataDir] keeps
// all state in memory.
func New(cfg pebble.Config, dataDir string, gatherer metrics.MultiGatherer) (state.Database, error) {
	if len(dataDir) == 0 {
		return memdb.New(), nil
	}
	path, err := utils.InitSubDirectory(dataDir, stateNamespace)
	if err != nil {
		return nil, err
	}

	db, registry, err := pebble.New(path, cfg)
	if err != nil {
		return nil, err
	}

	if err := gatherer.Register(stateNamespace, registry); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
