// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package weights computes the time-dependent weight pair of a liquidity
// bootstrapping pool. Weights are fixed-point integers where
// [consts.WeightOne] represents 1.0.
package weights

import (
	"errors"
	"fmt"

	"github.com/holiman/uint256"

	"github.com/ava-labs/lbpvm/consts"
)

const One = consts.WeightOne

var ErrInvalidSchedule = errors.New("invalid weight schedule")

type Phase uint8

const (
	Pending Phase = iota
	Active
	Ended
)

func (p Phase) String() string {
	switch p {
	case Pending:
		return "pending"
	case Active:
		return "active"
	default:
		return "ended"
	}
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Phase) UnmarshalText(b []byte) error {
	switch string(b) {
	case "pending":
		*p = Pending
	case "active":
		*p = Active
	case "ended":
		*p = Ended
	default:
		return fmt.Errorf("%w: unknown phase %q", ErrInvalidSchedule, b)
	}
	return nil
}

// Schedule moves the weight of asset A linearly from StartWeightA to
// EndWeightA between StartTime and EndTime (unix milliseconds).
type Schedule struct {
	StartWeightA uint64 `json:"startWeightA"`
	EndWeightA   uint64 `json:"endWeightA"`
	StartTime    int64  `json:"startTime"`
	EndTime      int64  `json:"endTime"`
}

func (s Schedule) Verify() error {
	if s.StartWeightA == 0 || s.StartWeightA >= One {
		return fmt.Errorf("%w: start weight %d not in (0, %d)", ErrInvalidSchedule, s.StartWeightA, One)
	}
	if s.EndWeightA == 0 || s.EndWeightA >= One {
		return fmt.Errorf("%w: end weight %d not in (0, %d)", ErrInvalidSchedule, s.EndWeightA, One)
	}
	if s.StartTime >= s.EndTime {
		return fmt.Errorf("%w: start time %d not before end time %d", ErrInvalidSchedule, s.StartTime, s.EndTime)
	}
	return nil
}

// Current returns the weights of asset A and asset B at [now]. The pair
// always sums to exactly [One].
func (s Schedule) Current(now int64) (uint64, uint64) {
	wa := s.weightA(now)
	return wa, One - wa
}

func (s Schedule) weightA(now int64) uint64 {
	if now <= s.StartTime {
		return s.StartWeightA
	}
	if now >= s.EndTime {
		return s.EndWeightA
	}
	if s.StartWeightA == s.EndWeightA {
		return s.StartWeightA
	}

	// Both differences are positive and below 2^64 even when the int64
	// subtraction wraps.
	elapsed := uint256.NewInt(uint64(now - s.StartTime))
	duration := uint256.NewInt(uint64(s.EndTime - s.StartTime))

	var diff *uint256.Int
	increasing := s.EndWeightA > s.StartWeightA
	if increasing {
		diff = uint256.NewInt(s.EndWeightA - s.StartWeightA)
	} else {
		diff = uint256.NewInt(s.StartWeightA - s.EndWeightA)
	}
	// diff < 2^60 and elapsed < 2^64, so the product cannot overflow 256 bits
	// and the quotient is below diff.
	delta, _ := new(uint256.Int).MulDivOverflow(diff, elapsed, duration)
	if increasing {
		return s.StartWeightA + delta.Uint64()
	}
	return s.StartWeightA - delta.Uint64()
}

// Phase reports whether the weights have started or finished moving at
// [now].
func (s Schedule) Phase(now int64) Phase {
	switch {
	case now < s.StartTime:
		return Pending
	case now >= s.EndTime:
		return Ended
	default:
		return Active
	}
}

// Current is shorthand for [Schedule.Current].
func Current(s Schedule, now int64) (uint64, uint64) {
	return s.Current(now)
}
