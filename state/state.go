// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"context"
	"io"

	"github.com/ava-labs/avalanchego/database"
)

type Immutable interface {
	GetValue(ctx context.Context, key []byte) (value []byte, err error)
}

type Mutable interface {
	Immutable

	Insert(ctx context.Context, key []byte, value []byte) error
	Remove(ctx context.Context, key []byte) error
}

// Database is the persistent store that committed state is flushed to.
// Both avalanchego's memdb and our pebble wrapper satisfy it.
type Database interface {
	database.KeyValueReader
	database.Batcher
	io.Closer
}

var _ Immutable = (*Reader)(nil)

// Reader exposes a [Database] as [Immutable].
type Reader struct {
	db Database
}

func NewReader(db Database) *Reader {
	return &Reader{db: db}
}

func (r *Reader) GetValue(_ context.Context, key []byte) ([]byte, error) {
	return r.db.Get(key)
}
