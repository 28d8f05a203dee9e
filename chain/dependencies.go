// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"context"

	"github.com/ava-labs/avalanchego/ids"

	"github.com/ava-labs/lbpvm/codec"
	"github.com/ava-labs/lbpvm/liquidity"
	"github.com/ava-labs/lbpvm/state"
)

type Rules interface {
	// Should almost always be constant (unless there is a fork of
	// a live network)
	GetNetworkID() uint32
	GetChainID() ids.ID

	// Parameters shared by every pool.
	GetInitialShares() uint64
	GetDepositPolicy() liquidity.Policy

	GetBaseComputeUnits() uint64

	FetchCustom(string) (any, bool)
}

type RuleFactory interface {
	GetRules(t int64) Rules
}

type Action interface {
	codec.Marshaler

	// ComputeUnits is the amount of compute required to call [Execute]. This is used to determine
	// whether the [Action] can be included in a given block and to compute the required fee to execute.
	ComputeUnits(Rules) uint64

	// StateKeys is a full enumeration of all database keys that could be touched during execution
	// of an [Action]. This is used to scope the state view the action runs against: touching a key
	// that is not listed fails the action.
	//
	// All keys specified must be suffixed with the number of chunks that could ever be read from that
	// key (formatted as a big-endian uint16). This is used to automatically calculate storage usage.
	StateKeys(actor codec.Address) state.Keys

	// ValidRange is the timestamp range (in ms) that this [Action] is considered valid.
	//
	// -1 means no start/end
	ValidRange(Rules) (start int64, end int64)

	// Execute actually runs the [Action]. Any state changes that the [Action] performs should
	// be done here.
	//
	// If Execute returns an error, every change it made is discarded. Touching a key that is
	// not specified in [StateKeys] is an error.
	Execute(
		ctx context.Context,
		r Rules,
		mu state.Mutable,
		timestamp int64,
		actor codec.Address,
		actionID ids.ID,
	) (codec.Marshaler, error)
}
