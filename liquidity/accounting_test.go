// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package liquidity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava-labs/lbpvm/consts"
	"github.com/ava-labs/lbpvm/pricing"
)

const initialShares = 1_000_000_000_000

func TestFirstAndSecondDeposit(t *testing.T) {
	require := require.New(t)

	first, err := Initial(500, 500, initialShares)
	require.NoError(err)
	require.Equal(&Deposit{AmountA: 500, AmountB: 500, Shares: initialShares}, first)

	second, err := Provide(500, 500, initialShares, 50, 50, Strict)
	require.NoError(err)
	require.Equal(uint64(initialShares/10), second.Shares)
	require.Equal(uint64(50), second.AmountA)
	require.Equal(uint64(50), second.AmountB)
	require.Zero(second.RefundA)
	require.Zero(second.RefundB)
}

func TestInitialErrors(t *testing.T) {
	require := require.New(t)

	_, err := Initial(0, 500, initialShares)
	require.ErrorIs(err, pricing.ErrZeroAmount)
	_, err = Initial(500, 500, 0)
	require.ErrorIs(err, ErrInvalidShares)
}

func TestProvidePolicies(t *testing.T) {
	tests := []struct {
		name     string
		reserveA uint64
		reserveB uint64
		amountA  uint64
		amountB  uint64
		policy   Policy
		expected *Deposit
		err      error
	}{
		{
			name:     "strict imbalanced",
			reserveA: 500, reserveB: 500,
			amountA: 50, amountB: 60,
			policy: Strict,
			err:    ErrImbalancedDeposit,
		},
		{
			name:     "refund excess b",
			reserveA: 500, reserveB: 500,
			amountA: 50, amountB: 60,
			policy:   Refund,
			expected: &Deposit{AmountA: 50, AmountB: 50, RefundB: 10, Shares: initialShares / 10},
		},
		{
			name:     "refund excess a",
			reserveA: 1_000, reserveB: 250,
			amountA: 500, amountB: 100,
			policy:   Refund,
			expected: &Deposit{AmountA: 400, AmountB: 100, RefundA: 100, Shares: initialShares * 2 / 5},
		},
		{
			name:     "strict uneven ratio rounds counterpart up",
			reserveA: 3, reserveB: 7,
			amountA: 1, amountB: 3,
			policy:   Strict,
			expected: &Deposit{AmountA: 1, AmountB: 3, Shares: initialShares / 3},
		},
		{
			name:     "strict uneven ratio accepts rounded counterpart of b",
			reserveA: 3, reserveB: 7,
			amountA: 1, amountB: 2,
			policy:   Strict,
			expected: &Deposit{AmountA: 1, AmountB: 2, Shares: initialShares * 2 / 7},
		},
		{
			name:     "strict uneven ratio rejects excess a",
			reserveA: 3, reserveB: 7,
			amountA: 2, amountB: 2,
			policy: Strict,
			err:    ErrImbalancedDeposit,
		},
		{
			name:     "zero amount",
			reserveA: 500, reserveB: 500,
			amountA: 0, amountB: 60,
			policy: Refund,
			err:    pricing.ErrZeroAmount,
		},
		{
			name:     "empty pool",
			reserveA: 0, reserveB: 0,
			amountA: 10, amountB: 10,
			policy: Strict,
			err:    pricing.ErrPoolNotInitialized,
		},
		{
			name:     "unknown policy",
			reserveA: 500, reserveB: 500,
			amountA: 50, amountB: 50,
			policy: Policy(7),
			err:    ErrInvalidPolicy,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			total := uint64(initialShares)
			if tt.reserveA == 0 {
				total = 0
			}
			d, err := Provide(tt.reserveA, tt.reserveB, total, tt.amountA, tt.amountB, tt.policy)
			require.ErrorIs(err, tt.err)
			require.Equal(tt.expected, d)
		})
	}
}

func TestProvideDustMintsNothing(t *testing.T) {
	_, err := Provide(1_000_000, 1_000_000, 10, 1, 1, Strict)
	require.ErrorIs(t, err, pricing.ErrOutputTooSmall)
}

func TestWithdraw(t *testing.T) {
	require := require.New(t)

	a, b, err := Withdraw(550, 550, 1_100, 100)
	require.NoError(err)
	require.Equal(uint64(50), a)
	require.Equal(uint64(50), b)

	a, b, err = Withdraw(10, 7, 3, 1)
	require.NoError(err)
	require.Equal(uint64(3), a)
	require.Equal(uint64(2), b)

	a, b, err = Withdraw(10, 7, 3, 3)
	require.NoError(err)
	require.Equal(uint64(10), a)
	require.Equal(uint64(7), b)

	_, _, err = Withdraw(10, 7, 3, 4)
	require.ErrorIs(err, ErrInsufficientShares)
	_, _, err = Withdraw(10, 7, 3, 0)
	require.ErrorIs(err, pricing.ErrZeroAmount)
}

func TestProvideWithdrawRoundTrip(t *testing.T) {
	require := require.New(t)

	pools := [][3]uint64{
		{500, 500, initialShares},
		{1_000_003, 7, 999_999_937},
		{13, 17_000_000_000, 19},
		{consts.MaxUint64 / 2, consts.MaxUint64 / 3, initialShares},
	}
	deposits := [][2]uint64{{1, 1}, {50, 50}, {12_345, 67_890}, {1_000_000_007, 3}}
	for _, p := range pools {
		for _, dep := range deposits {
			d, err := Provide(p[0], p[1], p[2], dep[0], dep[1], Refund)
			if err != nil {
				require.ErrorIs(err, pricing.ErrOutputTooSmall)
				continue
			}
			require.Equal(dep[0], d.AmountA+d.RefundA)
			require.Equal(dep[1], d.AmountB+d.RefundB)

			a, b, err := Withdraw(p[0]+d.AmountA, p[1]+d.AmountB, p[2]+d.Shares, d.Shares)
			require.NoError(err)
			require.LessOrEqual(a, d.AmountA)
			require.LessOrEqual(b, d.AmountB)
		}
	}
}

func TestValuePerShareUnaffectedByProvide(t *testing.T) {
	require := require.New(t)

	wa, wb := consts.WeightOne*3/10, consts.WeightOne*7/10
	reserveA, reserveB, total := uint64(3_000_000), uint64(9_000_000), uint64(initialShares)
	before, err := ValuePerShare(reserveA, reserveB, total, wa, wb)
	require.NoError(err)

	d, err := Provide(reserveA, reserveB, total, 12_345, 1_000_000, Refund)
	require.NoError(err)
	after, err := ValuePerShare(reserveA+d.AmountA, reserveB+d.AmountB, total+d.Shares, wa, wb)
	require.NoError(err)
	require.True(after.GreaterThanOrEqual(before), "%s < %s", after, before)
}

func TestValuePerShareGrowsWithFees(t *testing.T) {
	require := require.New(t)

	wa, wb := consts.WeightOne/2, consts.WeightOne/2
	reserveA, reserveB, total := uint64(1_000_000), uint64(1_000_000), uint64(initialShares)
	valueBefore, err := ValuePerShare(reserveA, reserveB, total, wa, wb)
	require.NoError(err)
	invariantBefore, err := pricing.Invariant(
		pricing.Reserve{Balance: reserveA, Weight: wa},
		pricing.Reserve{Balance: reserveB, Weight: wb},
	)
	require.NoError(err)

	// Swap back and forth; fees stay in the pool.
	for i := 0; i < 10; i++ {
		q, err := pricing.QuoteExactIn(
			pricing.Reserve{Balance: reserveA, Weight: wa},
			pricing.Reserve{Balance: reserveB, Weight: wb},
			10_000, 30,
		)
		require.NoError(err)
		reserveA += q.AmountIn
		reserveB -= q.AmountOut

		q, err = pricing.QuoteExactIn(
			pricing.Reserve{Balance: reserveB, Weight: wb},
			pricing.Reserve{Balance: reserveA, Weight: wa},
			q.AmountOut, 30,
		)
		require.NoError(err)
		reserveB += q.AmountIn
		reserveA -= q.AmountOut
	}
	require.Greater(reserveA*reserveB, uint64(1_000_000*1_000_000))

	valueAfter, err := ValuePerShare(reserveA, reserveB, total, wa, wb)
	require.NoError(err)
	require.True(valueAfter.GreaterThanOrEqual(valueBefore))
	invariantAfter, err := pricing.Invariant(
		pricing.Reserve{Balance: reserveA, Weight: wa},
		pricing.Reserve{Balance: reserveB, Weight: wb},
	)
	require.NoError(err)
	require.True(invariantAfter.GreaterThan(invariantBefore))

	a, b, err := Withdraw(reserveA, reserveB, total, total)
	require.NoError(err)
	require.Equal(reserveA, a)
	require.Equal(reserveB, b)
}

func TestParsePolicy(t *testing.T) {
	require := require.New(t)

	p, err := ParsePolicy("refund")
	require.NoError(err)
	require.Equal(Refund, p)
	p, err = ParsePolicy("")
	require.NoError(err)
	require.Equal(Strict, p)
	_, err = ParsePolicy("rebalance")
	require.ErrorIs(err, ErrInvalidPolicy)
	require.Equal("strict", Strict.String())

	b, err := json.Marshal(struct{ P Policy }{Refund})
	require.NoError(err)
	require.JSONEq(`{"P":"refund"}`, string(b))
	var out struct{ P Policy }
	require.NoError(json.Unmarshal(b, &out))
	require.Equal(Refund, out.P)
}
