// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pricing

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/ava-labs/lbpvm/consts"
)

func VerifyFee(feeBps uint64) error {
	if feeBps >= consts.BasisPoints {
		return fmt.Errorf("%w: %d bps must be below %d", ErrInvalidFee, feeBps, consts.BasisPoints)
	}
	return nil
}

// ApplyFee splits [amount] into the part that moves along the curve and the
// fee that stays in the pool. The curve part is rounded down.
func ApplyFee(amount, feeBps uint64) (uint64, uint64, error) {
	if err := VerifyFee(feeBps); err != nil {
		return 0, 0, err
	}
	net, _ := new(uint256.Int).MulDivOverflow(
		uint256.NewInt(amount),
		uint256.NewInt(consts.BasisPoints-feeBps),
		uint256.NewInt(consts.BasisPoints),
	)
	n := net.Uint64()
	return n, amount - n, nil
}

// GrossUp returns the smallest amount whose curve part, after [ApplyFee],
// is at least [net].
func GrossUp(net, feeBps uint64) (uint64, error) {
	if err := VerifyFee(feeBps); err != nil {
		return 0, err
	}
	var (
		product = new(uint256.Int).Mul(uint256.NewInt(net), uint256.NewInt(consts.BasisPoints))
		den     = uint256.NewInt(consts.BasisPoints - feeBps)
		gross   = new(uint256.Int).Div(product, den)
	)
	if !new(uint256.Int).Mod(product, den).IsZero() {
		gross.AddUint64(gross, 1)
	}
	if !gross.IsUint64() {
		return 0, fmt.Errorf("%w: gross input for %d", ErrArithmeticOverflow, net)
	}
	return gross.Uint64(), nil
}
