// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import "github.com/ava-labs/lbpvm/codec"

type (
	ActionRegistry = *codec.TypeParser[Action]
	OutputRegistry = *codec.TypeParser[codec.Marshaler]
)

type Registry interface {
	ActionRegistry() ActionRegistry
	OutputRegistry() OutputRegistry
}

type registry struct {
	actionRegistry ActionRegistry
	outputRegistry OutputRegistry
}

func NewRegistry(action ActionRegistry, output OutputRegistry) Registry {
	return &registry{
		actionRegistry: action,
		outputRegistry: output,
	}
}

func (r *registry) ActionRegistry() ActionRegistry {
	return r.actionRegistry
}

func (r *registry) OutputRegistry() OutputRegistry {
	return r.outputRegistry
}
