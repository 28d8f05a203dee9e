// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// PriceDecimals is the number of fractional digits reported for prices.
const PriceDecimals int32 = 18

var (
	// bias is added to every power so that the error left by the series
	// always works against the trader.
	bias = decimal.New(1, -30)
	// relativeBias bounds the relative error of [pow] per unit of exponent.
	// The logarithm is exact to [precision] digits and pow multiplies its
	// error by the exponent.
	relativeBias = decimal.New(1, -(precision - 4))
)

// Reserve is one side of a pool at a given instant.
type Reserve struct {
	Balance uint64 `json:"balance"`
	Weight  uint64 `json:"weight"`
}

func (r Reserve) verify() error {
	if r.Balance == 0 {
		return ErrPoolNotInitialized
	}
	if r.Weight == 0 {
		return ErrInvalidWeight
	}
	return nil
}

// OutGivenIn returns the amount of [out] paid for [amountIn] of [in], after
// fees have been removed from [amountIn]:
//
//	out.Balance * (1 - (in.Balance / (in.Balance + amountIn)) ^ (in.Weight / out.Weight))
//
// The result is rounded down.
func OutGivenIn(in, out Reserve, amountIn uint64) (uint64, error) {
	if amountIn == 0 {
		return 0, ErrZeroAmount
	}
	if err := in.verify(); err != nil {
		return 0, err
	}
	if err := out.verify(); err != nil {
		return 0, err
	}

	balanceIn := fromUint64(in.Balance)
	ratio := balanceIn.DivRound(balanceIn.Add(fromUint64(amountIn)), precision)
	exponent := fromUint64(in.Weight).DivRound(fromUint64(out.Weight), precision)
	p, err := pow(ratio, exponent)
	if err != nil {
		return 0, err
	}
	p = biased(p, exponent)
	if p.GreaterThanOrEqual(one) {
		return 0, ErrOutputTooSmall
	}

	amountOut, err := floorUint64(fromUint64(out.Balance).Mul(one.Sub(p)))
	if err != nil {
		return 0, err
	}
	if amountOut == 0 {
		return 0, ErrOutputTooSmall
	}
	if amountOut >= out.Balance {
		return 0, fmt.Errorf("%w: output %d drains reserve %d", ErrInsufficientLiquidity, amountOut, out.Balance)
	}
	return amountOut, nil
}

// InGivenOut returns the amount of [in], before fees, required to receive
// [amountOut] of [out]:
//
//	in.Balance * ((out.Balance / (out.Balance - amountOut)) ^ (out.Weight / in.Weight) - 1)
//
// The result is rounded up.
func InGivenOut(in, out Reserve, amountOut uint64) (uint64, error) {
	if amountOut == 0 {
		return 0, ErrZeroAmount
	}
	if err := in.verify(); err != nil {
		return 0, err
	}
	if err := out.verify(); err != nil {
		return 0, err
	}
	if amountOut >= out.Balance {
		return 0, fmt.Errorf("%w: requested %d of reserve %d", ErrInsufficientLiquidity, amountOut, out.Balance)
	}

	balanceOut := fromUint64(out.Balance)
	ratio := balanceOut.DivRound(balanceOut.Sub(fromUint64(amountOut)), precision)
	exponent := fromUint64(out.Weight).DivRound(fromUint64(in.Weight), precision)
	p, err := pow(ratio, exponent)
	if err != nil {
		return 0, err
	}
	p = biased(p, exponent)
	return ceilUint64(fromUint64(in.Balance).Mul(p.Sub(one)))
}

// biased raises [p], computed as some base^[exponent], above any error pow
// can carry.
func biased(p, exponent decimal.Decimal) decimal.Decimal {
	rel := exponent.Add(one).Mul(relativeBias)
	return p.Add(p.Mul(rel)).Add(bias)
}

// SpotPrice returns the marginal price of [in] denominated in [out]:
//
//	(out.Balance / out.Weight) / (in.Balance / in.Weight)
func SpotPrice(in, out Reserve) (decimal.Decimal, error) {
	if err := in.verify(); err != nil {
		return decimal.Zero, err
	}
	if err := out.verify(); err != nil {
		return decimal.Zero, err
	}
	num := fromUint64(out.Balance).Mul(fromUint64(in.Weight))
	den := fromUint64(in.Balance).Mul(fromUint64(out.Weight))
	return num.DivRound(den, PriceDecimals), nil
}

// Invariant returns a^wa * b^wb with the weights normalized to sum to one.
func Invariant(a, b Reserve) (decimal.Decimal, error) {
	if err := a.verify(); err != nil {
		return decimal.Zero, err
	}
	if err := b.verify(); err != nil {
		return decimal.Zero, err
	}
	total := fromUint64(a.Weight).Add(fromUint64(b.Weight))
	wa := fromUint64(a.Weight).DivRound(total, precision)
	wb := one.Sub(wa)

	lnA, err := ln(fromUint64(a.Balance))
	if err != nil {
		return decimal.Zero, err
	}
	lnB, err := ln(fromUint64(b.Balance))
	if err != nil {
		return decimal.Zero, err
	}
	return exp(lnA.Mul(wa).Add(lnB.Mul(wb)).Round(precision))
}
