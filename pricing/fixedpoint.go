// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pricing

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// Every intermediate value is rounded to [precision] fractional digits.
// The arithmetic is exact decimal on big integers, so results are identical
// on every machine.
const precision int32 = 40

// maxSeriesTerms bounds both series. Inputs are range reduced so that the
// ln series converges in about 45 terms and the exp series in about 35.
const maxSeriesTerms = 256

var (
	one  = decimal.NewFromInt(1)
	two  = decimal.NewFromInt(2)
	half = decimal.RequireFromString("0.5")

	ln2 = decimal.RequireFromString("0.69314718055994530941723212145817656807550013436")

	// epsilon is the smallest representable increment.
	epsilon = decimal.New(1, -precision)

	// e^maxExp is far above any uint64 amount; e^minExp rounds to zero at
	// [precision].
	maxExp = decimal.NewFromInt(100)
	minExp = decimal.NewFromInt(-100)
)

// ln returns the natural logarithm of x.
//
// x is written as m * 2^k with m in [1, 2) and
// ln(m) = 2 * atanh((m-1)/(m+1)) = 2 * sum z^(2n+1)/(2n+1).
func ln(x decimal.Decimal) (decimal.Decimal, error) {
	if x.Sign() <= 0 {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrNonPositiveLog, x)
	}
	var k int64
	m := x
	for m.GreaterThanOrEqual(two) {
		m = m.Mul(half)
		k++
	}
	for m.LessThan(one) {
		m = m.Mul(two)
		k--
	}
	m = m.Round(precision + 4)

	z := m.Sub(one).DivRound(m.Add(one), precision+4)
	z2 := z.Mul(z).Round(precision + 4)
	term := z
	sum := z
	for n := int64(1); n < maxSeriesTerms; n++ {
		term = term.Mul(z2).Round(precision + 4)
		next := term.DivRound(decimal.NewFromInt(2*n+1), precision+4)
		if next.IsZero() {
			break
		}
		sum = sum.Add(next)
	}
	return sum.Mul(two).Add(ln2.Mul(decimal.NewFromInt(k))).Round(precision), nil
}

// exp returns e^y.
//
// y is written as n*ln2 + r with |r| <= ln2/2, e^r comes from its Taylor
// series and the result is scaled by 2^n.
func exp(y decimal.Decimal) (decimal.Decimal, error) {
	if y.GreaterThan(maxExp) {
		return decimal.Zero, fmt.Errorf("%w: exp(%s)", ErrArithmeticOverflow, y)
	}
	if y.LessThan(minExp) {
		return decimal.Zero, nil
	}
	n := y.DivRound(ln2, 0)
	r := y.Sub(n.Mul(ln2))

	term := one
	sum := one
	for i := int64(1); i < maxSeriesTerms; i++ {
		term = term.Mul(r).DivRound(decimal.NewFromInt(i), precision+4)
		if term.IsZero() {
			break
		}
		sum = sum.Add(term)
	}

	shift := n.IntPart()
	scale := decimal.NewFromBigInt(new(big.Int).Lsh(big.NewInt(1), uint(abs(shift))), 0)
	if shift >= 0 {
		return sum.Mul(scale).Round(precision), nil
	}
	return sum.DivRound(scale, precision), nil
}

// pow returns base^exponent for base > 0.
func pow(base, exponent decimal.Decimal) (decimal.Decimal, error) {
	if exponent.IsZero() || base.Equal(one) {
		return one, nil
	}
	if exponent.Equal(one) {
		return base, nil
	}
	l, err := ln(base)
	if err != nil {
		return decimal.Zero, err
	}
	return exp(l.Mul(exponent).Round(precision))
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

func fromUint64(v uint64) decimal.Decimal {
	return decimal.NewFromUint64(v)
}

// floorUint64 truncates d and converts it, failing if it does not fit.
func floorUint64(d decimal.Decimal) (uint64, error) {
	if d.Sign() < 0 {
		return 0, nil
	}
	i := d.Floor().BigInt()
	if !i.IsUint64() {
		return 0, fmt.Errorf("%w: %s exceeds uint64", ErrArithmeticOverflow, d)
	}
	return i.Uint64(), nil
}

// ceilUint64 rounds d up and converts it, failing if it does not fit.
func ceilUint64(d decimal.Decimal) (uint64, error) {
	if d.Sign() < 0 {
		return 0, nil
	}
	i := d.Ceil().BigInt()
	if !i.IsUint64() {
		return 0, fmt.Errorf("%w: %s exceeds uint64", ErrArithmeticOverflow, d)
	}
	return i.Uint64(), nil
}
