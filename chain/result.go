// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"github.com/ava-labs/avalanchego/ids"

	"github.com/ava-labs/lbpvm/codec"
	"github.com/ava-labs/lbpvm/utils"
)

// Result is the outcome of executing one action.
type Result struct {
	ActionID  ids.ID `json:"actionID"`
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
	Output    []byte `json:"output,omitempty"`
	Units     uint64 `json:"units"`
	Timestamp int64  `json:"timestamp"`
}

// ActionID identifies the [index]th action executed at [timestamp].
func ActionID(action []byte, timestamp int64, index uint64) ids.ID {
	p := codec.NewWriter(len(action)+16, len(action)+16)
	p.PackInt64(timestamp)
	p.PackUint64(index)
	p.PackFixedBytes(action)
	return utils.ToID(p.Bytes())
}
