// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"context"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/utils/maybe"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

var _ Mutable = (*SimpleMutable)(nil)

// SimpleMutable buffers writes on top of a [Database] until [Commit].
type SimpleMutable struct {
	db Database

	changes map[string]maybe.Maybe[[]byte]
}

func NewSimpleMutable(db Database) *SimpleMutable {
	return &SimpleMutable{db, make(map[string]maybe.Maybe[[]byte])}
}

func (s *SimpleMutable) GetValue(_ context.Context, k []byte) ([]byte, error) {
	if v, ok := s.changes[string(k)]; ok {
		if v.IsNothing() {
			return nil, database.ErrNotFound
		}
		return v.Value(), nil
	}
	return s.db.Get(k)
}

func (s *SimpleMutable) Insert(_ context.Context, k []byte, v []byte) error {
	s.changes[string(k)] = maybe.Some(v)
	return nil
}

func (s *SimpleMutable) Remove(_ context.Context, k []byte) error {
	s.changes[string(k)] = maybe.Nothing[[]byte]()
	return nil
}

// Commit writes all buffered changes to the underlying database in a
// single batch.
func (s *SimpleMutable) Commit(_ context.Context) error {
	batch := s.db.NewBatch()
	if err := WriteChanges(batch, s.changes); err != nil {
		return err
	}
	if err := batch.Write(); err != nil {
		return err
	}
	s.changes = make(map[string]maybe.Maybe[[]byte])
	return nil
}

// WriteChanges applies [changes] to [batch] in key order so that every node
// produces byte-identical batches.
func WriteChanges(batch database.KeyValueWriterDeleter, changes map[string]maybe.Maybe[[]byte]) error {
	keys := maps.Keys(changes)
	slices.Sort(keys)
	for _, k := range keys {
		v := changes[k]
		var err error
		if v.IsNothing() {
			err = batch.Delete([]byte(k))
		} else {
			err = batch.Put([]byte(k), v.Value())
		}
		if err != nil {
			return err
		}
	}
	return nil
}
