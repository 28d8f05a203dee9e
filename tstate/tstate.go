// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tstate

import (
	"context"
	"errors"
	"sync"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/utils/maybe"

	"github.com/ava-labs/lbpvm/state"
)

// TState defines a struct for storing temporary state on top of a parent
// [state.Immutable]. Views created from it are committed into it, and the
// accumulated changes are flushed to a database batch with [WriteTo].
type TState struct {
	parent state.Immutable

	l           sync.RWMutex
	changedKeys map[string]maybe.Maybe[[]byte]
	ops         int
}

// New returns a new instance of TState.
//
// [changedSize] is an estimate of the number of keys that will be changed.
func New(parent state.Immutable, changedSize int) *TState {
	return &TState{
		parent:      parent,
		changedKeys: make(map[string]maybe.Maybe[[]byte], changedSize),
	}
}

func (ts *TState) getChangedValue(key string) ([]byte, bool, bool) {
	ts.l.RLock()
	defer ts.l.RUnlock()

	if v, ok := ts.changedKeys[key]; ok {
		if v.IsNothing() {
			return nil, true, false
		}
		return v.Value(), true, true
	}
	return nil, false, false
}

func (ts *TState) getParentValue(ctx context.Context, key []byte) ([]byte, bool, error) {
	v, err := ts.parent.GetValue(ctx, key)
	if errors.Is(err, database.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

// PendingChanges returns the number of keys changed by committed views.
func (ts *TState) PendingChanges() int {
	ts.l.RLock()
	defer ts.l.RUnlock()

	return len(ts.changedKeys)
}

// OpIndex returns the number of operations committed by all views.
func (ts *TState) OpIndex() int {
	ts.l.RLock()
	defer ts.l.RUnlock()

	return ts.ops
}

// WriteTo adds every change to [batch] in key order.
//
// Once [WriteTo] is called, [TState] should not be used again.
func (ts *TState) WriteTo(batch database.KeyValueWriterDeleter) error {
	ts.l.RLock()
	defer ts.l.RUnlock()

	return state.WriteChanges(batch, ts.changedKeys)
}

// Apply inserts every change into [mu] in key order. It is used when the
// parent of [TState] is itself a view.
func (ts *TState) Apply(ctx context.Context, mu state.Mutable) error {
	return ts.WriteTo(&mutableWriter{ctx: ctx, mu: mu})
}

type mutableWriter struct {
	ctx context.Context
	mu  state.Mutable
}

func (w *mutableWriter) Put(key []byte, value []byte) error {
	return w.mu.Insert(w.ctx, key, value)
}

func (w *mutableWriter) Delete(key []byte) error {
	return w.mu.Remove(w.ctx, key)
}
