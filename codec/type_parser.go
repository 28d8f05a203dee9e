// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import "fmt"

type decoder[T Typed] func(*Packer) (T, error)

// TypeParser decodes values written with [MarshalTyped] by dispatching on
// their type ID.
type TypeParser[T Typed] struct {
	indexToDecoder map[uint8]decoder[T]
}

func NewTypeParser[T Typed]() *TypeParser[T] {
	return &TypeParser[T]{
		indexToDecoder: map[uint8]decoder[T]{},
	}
}

// Register adds the decoder of [instance]'s type.
func (p *TypeParser[T]) Register(instance T, f func(*Packer) (T, error)) error {
	id := instance.GetTypeID()
	if _, ok := p.indexToDecoder[id]; ok {
		return fmt.Errorf("%w: %d", ErrDuplicateItem, id)
	}
	p.indexToDecoder[id] = f
	return nil
}

func (p *TypeParser[T]) lookupIndex(index uint8) (decoder[T], bool) {
	f, ok := p.indexToDecoder[index]
	return f, ok
}

// Unmarshal decodes one typed value that must span all of [b].
func (p *TypeParser[T]) Unmarshal(b []byte, limit int) (T, error) {
	var empty T
	r := NewReader(b, limit)
	id := r.UnpackByte()
	if err := r.Err(); err != nil {
		return empty, err
	}
	f, ok := p.lookupIndex(id)
	if !ok {
		return empty, fmt.Errorf("%w: %d", ErrUnknownType, id)
	}
	v, err := f(r)
	if err != nil {
		return empty, err
	}
	if err := r.Err(); err != nil {
		return empty, err
	}
	if !r.Empty() {
		return empty, fmt.Errorf("%w: %d remaining", ErrTrailingBytes, len(b)-r.Offset())
	}
	return v, nil
}
