// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/lbpvm/consts"
)

const (
	one18  = consts.WeightOne
	half18 = one18 / 2
)

func TestOutGivenIn(t *testing.T) {
	tests := []struct {
		name     string
		in       Reserve
		out      Reserve
		amountIn uint64
		expected uint64
		err      error
	}{
		{
			name:     "balanced pool",
			in:       Reserve{Balance: 1_000_000, Weight: half18},
			out:      Reserve{Balance: 1_000_000, Weight: half18},
			amountIn: 997,
			expected: 996,
		},
		{
			name:     "exact square rounds down",
			in:       Reserve{Balance: 1_000, Weight: 2},
			out:      Reserve{Balance: 1_000, Weight: 1},
			amountIn: 1_000,
			expected: 749,
		},
		{
			name:     "zero amount",
			in:       Reserve{Balance: 1_000, Weight: 1},
			out:      Reserve{Balance: 1_000, Weight: 1},
			amountIn: 0,
			err:      ErrZeroAmount,
		},
		{
			name:     "empty reserve",
			in:       Reserve{Balance: 0, Weight: 1},
			out:      Reserve{Balance: 1_000, Weight: 1},
			amountIn: 10,
			err:      ErrPoolNotInitialized,
		},
		{
			name:     "zero weight",
			in:       Reserve{Balance: 1_000, Weight: 0},
			out:      Reserve{Balance: 1_000, Weight: 1},
			amountIn: 10,
			err:      ErrInvalidWeight,
		},
		{
			name:     "dust output",
			in:       Reserve{Balance: 1_000_000_000, Weight: half18},
			out:      Reserve{Balance: 1_000, Weight: half18},
			amountIn: 1,
			err:      ErrOutputTooSmall,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			out, err := OutGivenIn(tt.in, tt.out, tt.amountIn)
			require.ErrorIs(err, tt.err)
			require.Equal(tt.expected, out)
		})
	}
}

func TestOutGivenInNeverDrains(t *testing.T) {
	require := require.New(t)

	// An extreme weight ratio sends the power to zero; the pool still keeps
	// at least one unit.
	in := Reserve{Balance: 1_000_000, Weight: one18 - 1}
	out := Reserve{Balance: 1_000_000, Weight: 1}
	amountOut, err := OutGivenIn(in, out, 1_000_000)
	require.NoError(err)
	require.Less(amountOut, out.Balance)

	amountOut, err = OutGivenIn(
		Reserve{Balance: 1, Weight: half18},
		Reserve{Balance: 1_000_000, Weight: half18},
		consts.MaxUint64-1,
	)
	require.NoError(err)
	require.Less(amountOut, uint64(1_000_000))
}

func TestInGivenOut(t *testing.T) {
	tests := []struct {
		name      string
		in        Reserve
		out       Reserve
		amountOut uint64
		expected  uint64
		err       error
	}{
		{
			name:      "balanced pool",
			in:        Reserve{Balance: 1_000_000, Weight: half18},
			out:       Reserve{Balance: 1_000_000, Weight: half18},
			amountOut: 996,
			expected:  997,
		},
		{
			name:      "exact square rounds up",
			in:        Reserve{Balance: 1_000, Weight: 1},
			out:       Reserve{Balance: 1_000, Weight: 2},
			amountOut: 500,
			expected:  3_001,
		},
		{
			name:      "whole reserve",
			in:        Reserve{Balance: 1_000, Weight: 1},
			out:       Reserve{Balance: 1_000, Weight: 1},
			amountOut: 1_000,
			err:       ErrInsufficientLiquidity,
		},
		{
			name:      "beyond reserve",
			in:        Reserve{Balance: 1_000, Weight: 1},
			out:       Reserve{Balance: 1_000, Weight: 1},
			amountOut: 1_001,
			err:       ErrInsufficientLiquidity,
		},
		{
			name:      "unbounded input",
			in:        Reserve{Balance: 1_000, Weight: 1},
			out:       Reserve{Balance: 1_000_000, Weight: one18 - 1},
			amountOut: 999_999,
			err:       ErrArithmeticOverflow,
		},
		{
			name:      "zero amount",
			in:        Reserve{Balance: 1_000, Weight: 1},
			out:       Reserve{Balance: 1_000, Weight: 1},
			amountOut: 0,
			err:       ErrZeroAmount,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			in, err := InGivenOut(tt.in, tt.out, tt.amountOut)
			require.ErrorIs(err, tt.err)
			require.Equal(tt.expected, in)
		})
	}
}

func TestExtremeWeightsRoundAgainstTrader(t *testing.T) {
	// Expected values are the exact results, rounded against the trader,
	// from a 120 digit evaluation. The exponents are around 1e17, where the
	// error of the power is far larger than any fixed bias.
	t.Run("in given out", func(t *testing.T) {
		tests := []struct {
			in        Reserve
			out       Reserve
			amountOut uint64
			expected  uint64
		}{
			{
				// 105170918075647624.87
				in:        Reserve{Balance: 1_000_000_000_000_000_000, Weight: 1},
				out:       Reserve{Balance: 1_000_000_000_000_000_000, Weight: 100_000_000_000_000_000},
				amountOut: 1,
				expected:  105_170_918_075_647_625,
			},
			{
				// 197806212543044763.73
				in:        Reserve{Balance: 500_000_000_000_000_000, Weight: 3},
				out:       Reserve{Balance: 1_000_000_000_000_000_000, Weight: one18 - 3},
				amountOut: 1,
				expected:  197_806_212_543_044_764,
			},
		}
		for _, tt := range tests {
			amountIn, err := InGivenOut(tt.in, tt.out, tt.amountOut)
			require.NoError(t, err)
			require.Equal(t, tt.expected, amountIn)
		}
	})

	t.Run("out given in", func(t *testing.T) {
		tests := []struct {
			in       Reserve
			out      Reserve
			amountIn uint64
			expected uint64
		}{
			{
				// 95162581964040426.79
				in:       Reserve{Balance: 1_000_000_000_000_000_000, Weight: 100_000_000_000_000_000},
				out:      Reserve{Balance: 1_000_000_000_000_000_000, Weight: 1},
				amountIn: 1,
				expected: 95_162_581_964_040_426,
			},
			{
				// 950212931632.14
				in:       Reserve{Balance: 1_000_000_000_000_000_000, Weight: one18 - 1},
				out:      Reserve{Balance: 1_000_000_000_000, Weight: 1},
				amountIn: 3,
				expected: 950_212_931_632,
			},
		}
		for _, tt := range tests {
			amountOut, err := OutGivenIn(tt.in, tt.out, tt.amountIn)
			require.NoError(t, err)
			require.Equal(t, tt.expected, amountOut)
		}
	})
}

func TestBiasGrowsWithExponent(t *testing.T) {
	require := require.New(t)

	p := decimal.NewFromInt(2)
	small := biased(p, one).Sub(p)
	large := biased(p, decimal.NewFromInt(100_000_000_000_000_000)).Sub(p)
	require.True(small.IsPositive())
	require.True(large.GreaterThan(small.Mul(decimal.NewFromInt(1_000_000))), large.String())
}

func TestRoundTripFavorsPool(t *testing.T) {
	require := require.New(t)

	in := Reserve{Balance: 5_000_000, Weight: 80 * (one18 / 100)}
	out := Reserve{Balance: 2_000_000, Weight: 20 * (one18 / 100)}
	for _, amountIn := range []uint64{1, 17, 1_000, 123_456, 4_999_999} {
		amountOut, err := OutGivenIn(in, out, amountIn)
		if err != nil {
			require.ErrorIs(err, ErrOutputTooSmall)
			continue
		}
		required, err := InGivenOut(in, out, amountOut)
		require.NoError(err)
		// Buying back what was paid out never costs less than was sold.
		require.LessOrEqual(required, amountIn)
		require.Greater(required, uint64(0))
	}
}

func TestSpotPrice(t *testing.T) {
	require := require.New(t)

	p, err := SpotPrice(
		Reserve{Balance: 1_000_000, Weight: half18},
		Reserve{Balance: 1_000_000, Weight: half18},
	)
	require.NoError(err)
	require.True(p.Equal(decimal.NewFromInt(1)))

	// 80/20 pool with equal balances: the heavy side is worth four units of
	// the light side.
	p, err = SpotPrice(
		Reserve{Balance: 1_000, Weight: 80 * (one18 / 100)},
		Reserve{Balance: 1_000, Weight: 20 * (one18 / 100)},
	)
	require.NoError(err)
	require.True(p.Equal(decimal.NewFromInt(4)), p.String())

	_, err = SpotPrice(Reserve{Balance: 0, Weight: 1}, Reserve{Balance: 1, Weight: 1})
	require.ErrorIs(err, ErrPoolNotInitialized)
}

func TestSwapNeverDecreasesInvariant(t *testing.T) {
	require := require.New(t)

	pools := [][2]Reserve{
		{{Balance: 1_000_000, Weight: half18}, {Balance: 1_000_000, Weight: half18}},
		{{Balance: 9_000_000, Weight: 96 * (one18 / 100)}, {Balance: 300_000, Weight: 4 * (one18 / 100)}},
		{{Balance: 50_000, Weight: 1 * (one18 / 100)}, {Balance: 70_000_000, Weight: 99 * (one18 / 100)}},
	}
	for _, p := range pools {
		in, out := p[0], p[1]
		before, err := Invariant(in, out)
		require.NoError(err)
		for _, amountIn := range []uint64{3, 1_000, 40_000, 2_000_000} {
			for _, fee := range []uint64{0, 30, 500} {
				q, err := QuoteExactIn(in, out, amountIn, fee)
				if err != nil {
					require.ErrorIs(err, ErrOutputTooSmall)
					continue
				}
				after, err := Invariant(
					Reserve{Balance: in.Balance + q.AmountIn, Weight: in.Weight},
					Reserve{Balance: out.Balance - q.AmountOut, Weight: out.Weight},
				)
				require.NoError(err)
				require.True(after.GreaterThanOrEqual(before), "invariant decreased: %s -> %s", before, after)
			}
		}
	}
}
