// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	smath "github.com/ava-labs/avalanchego/utils/math"
)

// Quote is the result of pricing one swap against one pool at one instant.
// Spot prices are of the input asset denominated in the output asset.
type Quote struct {
	AmountIn        uint64          `json:"amountIn"`
	AmountOut       uint64          `json:"amountOut"`
	FeeAmount       uint64          `json:"feeAmount"`
	WeightIn        uint64          `json:"weightIn"`
	WeightOut       uint64          `json:"weightOut"`
	SpotPriceBefore decimal.Decimal `json:"spotPriceBefore"`
	SpotPriceAfter  decimal.Decimal `json:"spotPriceAfter"`
}

// QuoteExactIn prices selling [amountIn] of [in] for [out].
func QuoteExactIn(in, out Reserve, amountIn, feeBps uint64) (*Quote, error) {
	if amountIn == 0 {
		return nil, ErrZeroAmount
	}
	net, fee, err := ApplyFee(amountIn, feeBps)
	if err != nil {
		return nil, err
	}
	if net == 0 {
		return nil, fmt.Errorf("%w: %d is consumed by the fee", ErrOutputTooSmall, amountIn)
	}
	amountOut, err := OutGivenIn(in, out, net)
	if err != nil {
		return nil, err
	}
	return newQuote(in, out, amountIn, amountOut, fee)
}

// QuoteExactOut prices buying exactly [amountOut] of [out] with [in].
func QuoteExactOut(in, out Reserve, amountOut, feeBps uint64) (*Quote, error) {
	if err := VerifyFee(feeBps); err != nil {
		return nil, err
	}
	net, err := InGivenOut(in, out, amountOut)
	if err != nil {
		return nil, err
	}
	gross, err := GrossUp(net, feeBps)
	if err != nil {
		return nil, err
	}
	return newQuote(in, out, gross, amountOut, gross-net)
}

func newQuote(in, out Reserve, amountIn, amountOut, fee uint64) (*Quote, error) {
	before, err := SpotPrice(in, out)
	if err != nil {
		return nil, err
	}
	newIn, err := smath.Add(in.Balance, amountIn)
	if err != nil {
		return nil, fmt.Errorf("%w: reserve in: %w", ErrArithmeticOverflow, err)
	}
	newOut, err := smath.Sub(out.Balance, amountOut)
	if err != nil || newOut == 0 {
		return nil, fmt.Errorf("%w: output %d of reserve %d", ErrInsufficientLiquidity, amountOut, out.Balance)
	}
	after, err := SpotPrice(
		Reserve{Balance: newIn, Weight: in.Weight},
		Reserve{Balance: newOut, Weight: out.Weight},
	)
	if err != nil {
		return nil, err
	}
	return &Quote{
		AmountIn:        amountIn,
		AmountOut:       amountOut,
		FeeAmount:       fee,
		WeightIn:        in.Weight,
		WeightOut:       out.Weight,
		SpotPriceBefore: before,
		SpotPriceAfter:  after,
	}, nil
}
