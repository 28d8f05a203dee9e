// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package liquidity holds the share accounting of a two-asset pool. All
// functions are pure: they take reserves and supply and return amounts.
// Every rounding step favors the pool.
package liquidity

import (
	"errors"
	"fmt"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"

	"github.com/ava-labs/lbpvm/pricing"
)

var (
	ErrImbalancedDeposit  = errors.New("imbalanced deposit")
	ErrInsufficientShares = errors.New("insufficient shares")
	ErrInvalidPolicy      = errors.New("invalid deposit policy")
	ErrInvalidShares      = errors.New("invalid initial shares")
)

// Policy controls how a deposit that does not match the pool ratio is
// handled.
type Policy uint8

const (
	// Strict rejects any deposit whose amounts do not match the pool ratio.
	Strict Policy = iota
	// Refund deposits the largest balanced portion and returns the rest.
	Refund
)

func (p Policy) String() string {
	switch p {
	case Strict:
		return "strict"
	case Refund:
		return "refund"
	default:
		return fmt.Sprintf("policy(%d)", uint8(p))
	}
}

func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "", "strict":
		return Strict, nil
	case "refund":
		return Refund, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidPolicy, s)
	}
}

func (p Policy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Policy) UnmarshalText(b []byte) error {
	parsed, err := ParsePolicy(string(b))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Deposit is the outcome of adding liquidity. AmountA and AmountB are the
// amounts that enter the reserves.
type Deposit struct {
	AmountA uint64 `json:"amountA"`
	AmountB uint64 `json:"amountB"`
	RefundA uint64 `json:"refundA"`
	RefundB uint64 `json:"refundB"`
	Shares  uint64 `json:"shares"`
}

// Initial prices the first deposit into an empty pool. The deposit sets the
// reserves, and therefore the opening price, and mints [initialShares].
func Initial(amountA, amountB, initialShares uint64) (*Deposit, error) {
	if amountA == 0 || amountB == 0 {
		return nil, pricing.ErrZeroAmount
	}
	if initialShares == 0 {
		return nil, ErrInvalidShares
	}
	return &Deposit{
		AmountA: amountA,
		AmountB: amountB,
		Shares:  initialShares,
	}, nil
}

// Provide prices a deposit into a pool that already holds reserves. The
// counterpart of the driving side is rounded up and minted shares are
// rounded down.
func Provide(reserveA, reserveB, totalShares, amountA, amountB uint64, policy Policy) (*Deposit, error) {
	if reserveA == 0 || reserveB == 0 || totalShares == 0 {
		return nil, pricing.ErrPoolNotInitialized
	}
	if amountA == 0 || amountB == 0 {
		return nil, pricing.ErrZeroAmount
	}

	d := &Deposit{AmountA: amountA, AmountB: amountB}
	needB, err := mulDiv(amountA, reserveB, reserveA, true)
	if err != nil {
		return nil, err
	}
	if needB <= amountB {
		d.AmountB = needB
		d.RefundB = amountB - needB
	} else {
		needA, err := mulDiv(amountB, reserveA, reserveB, true)
		if err != nil {
			return nil, err
		}
		d.AmountA = needA
		d.RefundA = amountA - needA
	}

	switch policy {
	case Strict:
		if d.RefundA != 0 || d.RefundB != 0 {
			return nil, fmt.Errorf(
				"%w: pool ratio %d:%d requires %d:%d",
				ErrImbalancedDeposit, reserveA, reserveB, d.AmountA, d.AmountB,
			)
		}
	case Refund:
	default:
		return nil, fmt.Errorf("%w: %d", ErrInvalidPolicy, policy)
	}

	sharesA, err := mulDiv(totalShares, d.AmountA, reserveA, false)
	if err != nil {
		return nil, err
	}
	sharesB, err := mulDiv(totalShares, d.AmountB, reserveB, false)
	if err != nil {
		return nil, err
	}
	d.Shares = min(sharesA, sharesB)
	if d.Shares == 0 {
		return nil, fmt.Errorf("%w: deposit mints no shares", pricing.ErrOutputTooSmall)
	}
	return d, nil
}

// Withdraw returns the pro-rata reserves owed for burning [shares], rounded
// down.
func Withdraw(reserveA, reserveB, totalShares, shares uint64) (uint64, uint64, error) {
	if shares == 0 {
		return 0, 0, pricing.ErrZeroAmount
	}
	if shares > totalShares {
		return 0, 0, fmt.Errorf("%w: burning %d of %d", ErrInsufficientShares, shares, totalShares)
	}
	amountA, err := mulDiv(reserveA, shares, totalShares, false)
	if err != nil {
		return 0, 0, err
	}
	amountB, err := mulDiv(reserveB, shares, totalShares, false)
	if err != nil {
		return 0, 0, err
	}
	return amountA, amountB, nil
}

// ValuePerShare values the whole pool in asset B at the current spot price
// and divides it by the share supply.
func ValuePerShare(reserveA, reserveB, totalShares, weightA, weightB uint64) (decimal.Decimal, error) {
	if totalShares == 0 {
		return decimal.Zero, pricing.ErrPoolNotInitialized
	}
	price, err := pricing.SpotPrice(
		pricing.Reserve{Balance: reserveA, Weight: weightA},
		pricing.Reserve{Balance: reserveB, Weight: weightB},
	)
	if err != nil {
		return decimal.Zero, err
	}
	value := decimal.NewFromUint64(reserveA).Mul(price).Add(decimal.NewFromUint64(reserveB))
	return value.DivRound(decimal.NewFromUint64(totalShares), pricing.PriceDecimals), nil
}

// mulDiv returns x*y/d rounded down, or up when [roundUp] is set.
func mulDiv(x, y, d uint64, roundUp bool) (uint64, error) {
	var (
		product = new(uint256.Int).Mul(uint256.NewInt(x), uint256.NewInt(y))
		den     = uint256.NewInt(d)
		q       = new(uint256.Int).Div(product, den)
	)
	if roundUp && !new(uint256.Int).Mod(product, den).IsZero() {
		q.AddUint64(q, 1)
	}
	if !q.IsUint64() {
		return 0, fmt.Errorf("%w: %d*%d/%d", pricing.ErrArithmeticOverflow, x, y, d)
	}
	return q.Uint64(), nil
}
