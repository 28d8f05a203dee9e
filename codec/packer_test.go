// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/stretchr/testify/require"
)

func TestPackerRoundTrip(t *testing.T) {
	require := require.New(t)

	id := ids.GenerateTestID()
	addr := CreateAddress(1, ids.GenerateTestID())

	wp := NewWriter(0, 1024)
	wp.PackByte(7)
	wp.PackID(id)
	wp.PackAddress(addr)
	wp.PackUint64(42)
	wp.PackInt64(-5)
	wp.PackString("uluna")
	wp.PackBytes([]byte{1, 2, 3})
	wp.PackBool(true)
	require.NoError(wp.Err())

	rp := NewReader(wp.Bytes(), 1024)
	require.Equal(byte(7), rp.UnpackByte())
	var unpackedID ids.ID
	rp.UnpackID(true, &unpackedID)
	require.Equal(id, unpackedID)
	var unpackedAddr Address
	rp.UnpackAddress(&unpackedAddr)
	require.Equal(addr, unpackedAddr)
	require.Equal(uint64(42), rp.UnpackUint64(true))
	require.Equal(int64(-5), rp.UnpackInt64(true))
	require.Equal("uluna", rp.UnpackString(true))
	var b []byte
	rp.UnpackBytes(8, true, &b)
	require.Equal([]byte{1, 2, 3}, b)
	require.True(rp.UnpackBool())
	require.True(rp.Empty())
	require.NoError(rp.Err())
}

func TestPackerRequiredUnpack(t *testing.T) {
	require := require.New(t)

	wp := NewWriter(0, 64)
	wp.PackUint64(0)
	rp := NewReader(wp.Bytes(), 64)
	require.Zero(rp.UnpackUint64(true))
	require.ErrorIs(rp.Err(), ErrFieldNotPopulated)
}

func TestPackerLimit(t *testing.T) {
	require := require.New(t)

	wp := NewWriter(0, 4)
	wp.PackUint64(1)
	require.Error(wp.Err())
}

func TestMarshalTyped(t *testing.T) {
	require := require.New(t)

	b, err := MarshalTyped(testTyped{v: 9})
	require.NoError(err)
	require.Equal([]byte{3, 0, 0, 0, 0, 0, 0, 0, 9}, b)
}

type testTyped struct{ v uint64 }

func (testTyped) GetTypeID() uint8 { return 3 }

func (testTyped) Size() int { return 8 }

func (t testTyped) Marshal(p *Packer) { p.PackUint64(t.v) }
