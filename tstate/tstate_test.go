// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tstate

import (
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/lbpvm/keys"
	"github.com/ava-labs/lbpvm/state"
)

var (
	testVal = []byte("value")

	key1    = keys.EncodeChunks([]byte("key1"), 1)
	key1str = string(key1)
	key2    = keys.EncodeChunks([]byte("key2"), 2)
	key2str = string(key2)
	key3    = keys.EncodeChunks([]byte("key3"), 3)
	key3str = string(key3)
)

func newParent(t *testing.T, kv map[string][]byte) *memdb.Database {
	db := memdb.New()
	for k, v := range kv {
		require.NoError(t, db.Put([]byte(k), v))
	}
	return db
}

func TestScope(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	ts := New(state.NewReader(newParent(t, nil)), 10)

	tsv := ts.NewView(state.Keys{})
	val, err := tsv.GetValue(ctx, key1)
	require.ErrorIs(err, ErrInvalidKeyOrPermission)
	require.Nil(val)
	require.ErrorIs(tsv.Insert(ctx, key1, testVal), ErrInvalidKeyOrPermission)
	require.ErrorIs(tsv.Remove(ctx, key1), ErrInvalidKeyOrPermission)
}

func TestGetValue(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	ts := New(state.NewReader(newParent(t, map[string][]byte{key1str: testVal})), 10)

	tsv := ts.NewView(state.Keys{key1str: state.Read, key2str: state.Read})
	val, err := tsv.GetValue(ctx, key1)
	require.NoError(err)
	require.Equal(testVal, val)

	_, err = tsv.GetValue(ctx, key2)
	require.ErrorIs(err, database.ErrNotFound)
}

func TestInsertPermissions(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	ts := New(state.NewReader(newParent(t, map[string][]byte{key1str: testVal})), 10)

	tsv := ts.NewView(state.Keys{key1str: state.Read, key2str: state.Write})
	// Existing key requires write.
	require.ErrorIs(tsv.Insert(ctx, key1, []byte("new")), ErrInvalidKeyOrPermission)
	// New key requires allocate.
	require.ErrorIs(tsv.Insert(ctx, key2, []byte("new")), ErrInvalidKeyOrPermission)

	tsv = ts.NewView(state.Keys{key1str: state.Write, key2str: state.All})
	require.NoError(tsv.Insert(ctx, key1, []byte("new")))
	require.NoError(tsv.Insert(ctx, key2, []byte("new")))
	require.Equal(2, tsv.OpIndex())

	// A nil scope permits every key.
	tsv = ts.NewView(nil)
	require.NoError(tsv.Insert(ctx, key3, testVal))
}

func TestInsertInvalidValue(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	ts := New(state.NewReader(newParent(t, nil)), 10)

	tsv := ts.NewView(nil)
	require.ErrorIs(tsv.Insert(ctx, key1, make([]byte, 65)), ErrInvalidKeyValue)
	require.ErrorIs(tsv.Insert(ctx, []byte{1}, testVal), ErrInvalidKeyValue)
}

func TestRollback(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	ts := New(state.NewReader(newParent(t, map[string][]byte{key1str: testVal})), 10)
	tsv := ts.NewView(nil)

	require.NoError(tsv.Insert(ctx, key2, []byte("a")))
	restore := tsv.OpIndex()

	require.NoError(tsv.Insert(ctx, key1, []byte("b")))
	require.NoError(tsv.Insert(ctx, key2, []byte("c")))
	require.NoError(tsv.Remove(ctx, key1))
	require.NoError(tsv.Insert(ctx, key3, []byte("d")))
	require.Equal(5, tsv.OpIndex())

	tsv.Rollback(ctx, restore)
	require.Equal(restore, tsv.OpIndex())

	val, err := tsv.GetValue(ctx, key1)
	require.NoError(err)
	require.Equal(testVal, val)
	val, err = tsv.GetValue(ctx, key2)
	require.NoError(err)
	require.Equal([]byte("a"), val)
	_, err = tsv.GetValue(ctx, key3)
	require.ErrorIs(err, database.ErrNotFound)

	tsv.Rollback(ctx, 0)
	require.Zero(tsv.PendingChanges())
	_, err = tsv.GetValue(ctx, key2)
	require.ErrorIs(err, database.ErrNotFound)
}

func TestRollbackRestoresDeletion(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	ts := New(state.NewReader(newParent(t, map[string][]byte{key1str: testVal})), 10)
	tsv := ts.NewView(nil)

	require.NoError(tsv.Remove(ctx, key1))
	restore := tsv.OpIndex()
	require.NoError(tsv.Insert(ctx, key1, []byte("again")))
	tsv.Rollback(ctx, restore)

	_, err := tsv.GetValue(ctx, key1)
	require.ErrorIs(err, database.ErrNotFound)
}

func TestCommitAndWrite(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	db := newParent(t, map[string][]byte{key1str: testVal})
	ts := New(state.NewReader(db), 10)

	tsv := ts.NewView(nil)
	require.NoError(tsv.Insert(ctx, key2, []byte("a")))
	require.NoError(tsv.Remove(ctx, key1))
	tsv.Commit()
	require.Equal(2, ts.PendingChanges())
	require.Equal(2, ts.OpIndex())

	// A later view observes committed changes.
	next := ts.NewView(nil)
	val, err := next.GetValue(ctx, key2)
	require.NoError(err)
	require.Equal([]byte("a"), val)
	_, err = next.GetValue(ctx, key1)
	require.ErrorIs(err, database.ErrNotFound)

	// Views that are never committed leave no trace.
	discarded := ts.NewView(nil)
	require.NoError(discarded.Insert(ctx, key3, []byte("x")))

	batch := db.NewBatch()
	require.NoError(ts.WriteTo(batch))
	require.NoError(batch.Write())

	has, err := db.Has(key1)
	require.NoError(err)
	require.False(has)
	has, err = db.Has(key3)
	require.NoError(err)
	require.False(has)
	v, err := db.Get(key2)
	require.NoError(err)
	require.Equal([]byte("a"), v)
}

func TestApplyToParentView(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	db := newParent(t, map[string][]byte{key1str: testVal})
	outer := New(state.NewReader(db), 10)
	parent := outer.NewView(nil)

	// A nested TState on top of a view: only a committed inner view
	// reaches the parent.
	inner := New(parent, 10)
	tsv := inner.NewView(nil)
	require.NoError(tsv.Insert(ctx, key2, []byte("b")))
	require.NoError(tsv.Remove(ctx, key1))
	tsv.Commit()
	require.NoError(inner.Apply(ctx, parent))

	v, err := parent.GetValue(ctx, key2)
	require.NoError(err)
	require.Equal([]byte("b"), v)
	_, err = parent.GetValue(ctx, key1)
	require.ErrorIs(err, database.ErrNotFound)
	require.Equal(2, parent.OpIndex())
}
