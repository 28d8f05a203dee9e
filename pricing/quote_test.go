// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pricing

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestApplyFee(t *testing.T) {
	tests := []struct {
		amount uint64
		fee    uint64
		net    uint64
		cut    uint64
		err    error
	}{
		{amount: 1_000, fee: 30, net: 997, cut: 3},
		{amount: 1, fee: 30, net: 0, cut: 1},
		{amount: 1_000, fee: 0, net: 1_000, cut: 0},
		{amount: ^uint64(0), fee: 9_999, net: ^uint64(0) / 10_000, cut: ^uint64(0) - ^uint64(0)/10_000},
		{amount: 1_000, fee: 10_000, err: ErrInvalidFee},
	}
	for _, tt := range tests {
		net, cut, err := ApplyFee(tt.amount, tt.fee)
		require.ErrorIs(t, err, tt.err)
		require.Equal(t, tt.net, net)
		require.Equal(t, tt.cut, cut)
	}
}

func TestGrossUp(t *testing.T) {
	require := require.New(t)

	gross, err := GrossUp(997, 30)
	require.NoError(err)
	require.Equal(uint64(1_000), gross)

	for _, fee := range []uint64{0, 1, 30, 300, 9_999} {
		for _, net := range []uint64{1, 2, 99, 997, 123_456_789} {
			gross, err := GrossUp(net, fee)
			require.NoError(err)
			applied, _, err := ApplyFee(gross, fee)
			require.NoError(err)
			require.GreaterOrEqual(applied, net)
			if gross > 0 {
				smaller, _, err := ApplyFee(gross-1, fee)
				require.NoError(err)
				require.Less(smaller, net)
			}
		}
	}

	_, err = GrossUp(^uint64(0), 30)
	require.ErrorIs(err, ErrArithmeticOverflow)
}

func TestQuoteExactInExample(t *testing.T) {
	require := require.New(t)

	in := Reserve{Balance: 1_000_000, Weight: half18}
	out := Reserve{Balance: 1_000_000, Weight: half18}
	q, err := QuoteExactIn(in, out, 1_000, 30)
	require.NoError(err)
	require.Equal(uint64(1_000), q.AmountIn)
	require.Equal(uint64(3), q.FeeAmount)
	require.Less(q.AmountOut, uint64(999))
	require.Greater(q.AmountOut, uint64(990))
	require.Equal(uint64(996), q.AmountOut)
	require.True(q.SpotPriceAfter.LessThan(q.SpotPriceBefore))

	// Quoting is a pure function of its inputs.
	again, err := QuoteExactIn(in, out, 1_000, 30)
	require.NoError(err)
	require.Equal(q.AmountOut, again.AmountOut)
	require.True(q.SpotPriceAfter.Equal(again.SpotPriceAfter))
}

func TestQuoteExactOut(t *testing.T) {
	require := require.New(t)

	in := Reserve{Balance: 1_000_000, Weight: half18}
	out := Reserve{Balance: 1_000_000, Weight: half18}
	q, err := QuoteExactOut(in, out, 996, 30)
	require.NoError(err)
	require.Equal(uint64(996), q.AmountOut)
	require.Equal(uint64(1_000), q.AmountIn)
	require.Equal(uint64(3), q.FeeAmount)

	_, err = QuoteExactOut(in, out, 1_000_000, 30)
	require.ErrorIs(err, ErrInsufficientLiquidity)
	_, err = QuoteExactOut(in, out, 10, 10_000)
	require.ErrorIs(err, ErrInvalidFee)
}

func TestQuoteErrors(t *testing.T) {
	require := require.New(t)

	in := Reserve{Balance: 1_000_000, Weight: half18}
	out := Reserve{Balance: 1_000_000, Weight: half18}

	_, err := QuoteExactIn(in, out, 0, 30)
	require.ErrorIs(err, ErrZeroAmount)
	_, err = QuoteExactIn(in, out, 1, 30)
	require.ErrorIs(err, ErrOutputTooSmall)
	_, err = QuoteExactIn(Reserve{Weight: half18}, out, 10, 30)
	require.ErrorIs(err, ErrPoolNotInitialized)
	_, err = QuoteExactIn(
		Reserve{Balance: ^uint64(0) - 10, Weight: half18},
		Reserve{Balance: ^uint64(0), Weight: half18},
		1_000_000,
		0,
	)
	require.ErrorIs(err, ErrArithmeticOverflow)
}
