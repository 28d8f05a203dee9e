// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package weights

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	pct = One / 100
)

func TestVerify(t *testing.T) {
	tests := []struct {
		name     string
		schedule Schedule
		err      error
	}{
		{
			name:     "valid",
			schedule: Schedule{StartWeightA: 96 * pct, EndWeightA: 50 * pct, StartTime: 0, EndTime: 1000},
		},
		{
			name:     "zero start weight",
			schedule: Schedule{StartWeightA: 0, EndWeightA: 50 * pct, StartTime: 0, EndTime: 1000},
			err:      ErrInvalidSchedule,
		},
		{
			name:     "end weight one",
			schedule: Schedule{StartWeightA: 50 * pct, EndWeightA: One, StartTime: 0, EndTime: 1000},
			err:      ErrInvalidSchedule,
		},
		{
			name:     "empty window",
			schedule: Schedule{StartWeightA: 50 * pct, EndWeightA: 50 * pct, StartTime: 1000, EndTime: 1000},
			err:      ErrInvalidSchedule,
		},
		{
			name:     "inverted window",
			schedule: Schedule{StartWeightA: 50 * pct, EndWeightA: 50 * pct, StartTime: 2000, EndTime: 1000},
			err:      ErrInvalidSchedule,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.ErrorIs(t, tt.schedule.Verify(), tt.err)
		})
	}
}

func TestCurrentBoundaries(t *testing.T) {
	require := require.New(t)
	s := Schedule{StartWeightA: 96 * pct, EndWeightA: 50 * pct, StartTime: 1_000, EndTime: 11_000}

	for _, now := range []int64{math.MinInt64, 0, 1_000} {
		wa, wb := s.Current(now)
		require.Equal(96*pct, wa)
		require.Equal(4*pct, wb)
	}
	for _, now := range []int64{11_000, 20_000, math.MaxInt64} {
		wa, wb := s.Current(now)
		require.Equal(50*pct, wa)
		require.Equal(50*pct, wb)
	}
}

func TestCurrentInterpolation(t *testing.T) {
	require := require.New(t)

	decreasing := Schedule{StartWeightA: 90 * pct, EndWeightA: 10 * pct, StartTime: 0, EndTime: 100}
	wa, wb := decreasing.Current(50)
	require.Equal(50*pct, wa)
	require.Equal(50*pct, wb)
	wa, _ = decreasing.Current(25)
	require.Equal(70*pct, wa)

	increasing := Schedule{StartWeightA: 10 * pct, EndWeightA: 90 * pct, StartTime: 0, EndTime: 100}
	wa, _ = increasing.Current(75)
	require.Equal(70*pct, wa)

	// Truncation is toward the start weight.
	uneven := Schedule{StartWeightA: 1, EndWeightA: 4, StartTime: 0, EndTime: 3}
	wa, _ = uneven.Current(1)
	require.Equal(uint64(2), wa)
	down := Schedule{StartWeightA: 4, EndWeightA: 1, StartTime: 0, EndTime: 2}
	wa, _ = down.Current(1)
	require.Equal(uint64(3), wa)
}

func TestCurrentSumsToOne(t *testing.T) {
	require := require.New(t)

	schedules := []Schedule{
		{StartWeightA: 99 * pct, EndWeightA: 1 * pct, StartTime: 0, EndTime: 7},
		{StartWeightA: 1, EndWeightA: One - 1, StartTime: -50, EndTime: 997},
		{StartWeightA: 333_333_333_333_333_333, EndWeightA: 666_666_666_666_666_667, StartTime: math.MinInt64, EndTime: math.MaxInt64},
	}
	for _, s := range schedules {
		require.NoError(s.Verify())
		prev, _ := s.Current(s.StartTime)
		step := (s.EndTime/2 - s.StartTime/2) / 50
		if step == 0 {
			step = 1
		}
		for now := s.StartTime; now < s.EndTime && now >= s.StartTime; now += step {
			wa, wb := s.Current(now)
			require.Equal(One, wa+wb)
			require.Greater(wa, uint64(0))
			require.Less(wa, One)
			// Monotone toward the end weight.
			if s.EndWeightA > s.StartWeightA {
				require.GreaterOrEqual(wa, prev)
			} else {
				require.LessOrEqual(wa, prev)
			}
			prev = wa
			if now > s.EndTime-step {
				break
			}
		}
		wa, wb := s.Current(s.EndTime)
		require.Equal(One, wa+wb)
		require.Equal(s.EndWeightA, wa)
	}
}

func TestPhase(t *testing.T) {
	require := require.New(t)
	s := Schedule{StartWeightA: 60 * pct, EndWeightA: 40 * pct, StartTime: 10, EndTime: 20}

	require.Equal(Pending, s.Phase(9))
	require.Equal(Active, s.Phase(10))
	require.Equal(Active, s.Phase(19))
	require.Equal(Ended, s.Phase(20))
	require.Equal("ended", Ended.String())

	b, err := Active.MarshalText()
	require.NoError(err)
	var p Phase
	require.NoError(p.UnmarshalText(b))
	require.Equal(Active, p)
	require.ErrorIs(p.UnmarshalText([]byte("paused")), ErrInvalidSchedule)
}
