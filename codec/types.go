// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

// Typed is implemented by every value that is serialized behind a type
// prefix (actions and their results).
type Typed interface {
	GetTypeID() uint8
}

// Marshaler is implemented by objects that know their own binary layout.
type Marshaler interface {
	Typed

	Size() int
	Marshal(p *Packer)
}

// MarshalTyped writes the type ID of [m] followed by its body.
func MarshalTyped(m Marshaler) ([]byte, error) {
	p := NewWriter(1+m.Size(), 1+m.Size())
	p.PackByte(m.GetTypeID())
	m.Marshal(p)
	return p.Bytes(), p.Err()
}
