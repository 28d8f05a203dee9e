// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package asset identifies the two kinds of reserve assets a pool can hold:
// the chain's native currency, addressed by denomination, and fungible
// tokens, addressed by contract.
package asset

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/ava-labs/lbpvm/codec"
	"github.com/ava-labs/lbpvm/consts"
)

type Kind uint8

const (
	Native Kind = iota
	Token
)

const (
	nativePrefix = "native:"
	tokenPrefix  = "token:"
)

var (
	ErrInvalidKind  = errors.New("invalid asset kind")
	ErrInvalidDenom = errors.New("invalid native denom")
	ErrEmptyToken   = errors.New("empty token contract")
	ErrParse        = errors.New("unable to parse asset")
)

// Asset is comparable with ==, and can be used as a map key, as long as it
// was built with [NewNative], [NewToken] or one of the unmarshal functions.
type Asset struct {
	Kind     Kind
	Denom    string
	Contract codec.Address
}

func NewNative(denom string) Asset {
	return Asset{Kind: Native, Denom: denom}
}

func NewToken(contract codec.Address) Asset {
	return Asset{Kind: Token, Contract: contract}
}

func (a Asset) Verify() error {
	switch a.Kind {
	case Native:
		if len(a.Denom) == 0 || len(a.Denom) > consts.MaxDenomLen {
			return fmt.Errorf("%w: length %d", ErrInvalidDenom, len(a.Denom))
		}
		if a.Contract != codec.EmptyAddress {
			return fmt.Errorf("%w: native asset with contract", ErrInvalidKind)
		}
	case Token:
		if a.Contract == codec.EmptyAddress {
			return ErrEmptyToken
		}
		if len(a.Denom) != 0 {
			return fmt.Errorf("%w: token asset with denom", ErrInvalidKind)
		}
	default:
		return fmt.Errorf("%w: %d", ErrInvalidKind, a.Kind)
	}
	return nil
}

// Bytes returns the canonical encoding of [a]. It is used to order assets
// and to derive pool addresses.
func (a Asset) Bytes() []byte {
	p := codec.NewWriter(a.Size(), a.Size())
	a.Marshal(p)
	return p.Bytes()
}

// Compare orders assets by their canonical encoding.
func (a Asset) Compare(b Asset) int {
	return bytes.Compare(a.Bytes(), b.Bytes())
}

func (a Asset) String() string {
	if a.Kind == Token {
		return tokenPrefix + a.Contract.String()
	}
	return nativePrefix + a.Denom
}

func (a Asset) Size() int {
	if a.Kind == Token {
		return consts.ByteLen + codec.AddressLen
	}
	return consts.ByteLen + codec.StringLen(a.Denom)
}

func (a Asset) Marshal(p *codec.Packer) {
	p.PackByte(byte(a.Kind))
	if a.Kind == Token {
		p.PackAddress(a.Contract)
		return
	}
	p.PackString(a.Denom)
}

func Unmarshal(p *codec.Packer) (Asset, error) {
	var a Asset
	a.Kind = Kind(p.UnpackByte())
	switch a.Kind {
	case Native:
		a.Denom = p.UnpackString(true)
	case Token:
		p.UnpackAddress(&a.Contract)
	default:
		return Asset{}, fmt.Errorf("%w: %d", ErrInvalidKind, a.Kind)
	}
	if err := p.Err(); err != nil {
		return Asset{}, err
	}
	return a, a.Verify()
}

// Parse reads the form produced by [Asset.String]. A bare denom is treated
// as a native asset.
func Parse(s string) (Asset, error) {
	switch {
	case strings.HasPrefix(s, tokenPrefix):
		addr, err := codec.StringToAddress(strings.TrimPrefix(s, tokenPrefix))
		if err != nil {
			return Asset{}, fmt.Errorf("%w: %w", ErrParse, err)
		}
		a := NewToken(addr)
		return a, a.Verify()
	case strings.HasPrefix(s, nativePrefix):
		s = strings.TrimPrefix(s, nativePrefix)
	case strings.Contains(s, ":"):
		return Asset{}, fmt.Errorf("%w: %q", ErrParse, s)
	}
	a := NewNative(s)
	return a, a.Verify()
}

func (a Asset) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Asset) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Sort returns [x] and [y] in canonical order.
func Sort(x, y Asset) (Asset, Asset) {
	if x.Compare(y) <= 0 {
		return x, y
	}
	return y, x
}
