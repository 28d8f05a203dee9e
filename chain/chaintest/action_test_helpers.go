// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chaintest

import (
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/lbpvm/chain"
	"github.com/ava-labs/lbpvm/codec"
	"github.com/ava-labs/lbpvm/state"
	"github.com/ava-labs/lbpvm/tstate"
)

// ActionTest is a single parameterized test. It calls Execute on the action with the passed parameters
// and checks that all assertions pass.
//
// The action runs in a view scoped by its StateKeys on top of [State]. The view is only written back
// to [State] when Execute succeeds, so a failed action never leaves partial writes behind.
type ActionTest struct {
	Name string

	Action chain.Action

	Rules     chain.Rules
	State     state.Mutable
	Timestamp int64
	Actor     codec.Address
	ActionID  ids.ID

	ExpectedOutputs codec.Marshaler
	ExpectedErr     error

	Assertion func(context.Context, *testing.T, state.Mutable)
}

// Run executes the [ActionTest] and make sure all assertions pass.
func (test *ActionTest) Run(ctx context.Context, t *testing.T) {
	t.Run(test.Name, func(t *testing.T) {
		require := require.New(t)

		output, err := Execute(ctx, test.Action, test.Rules, test.State, test.Timestamp, test.Actor, test.ActionID)

		require.ErrorIs(err, test.ExpectedErr)
		if test.ExpectedOutputs != nil {
			require.Equal(test.ExpectedOutputs, output)
		}

		if test.Assertion != nil {
			test.Assertion(ctx, t, test.State)
		}
	})
}

// Execute runs [action] the way the controller does: against a view scoped
// by its state keys, committed to [mu] only on success.
func Execute(
	ctx context.Context,
	action chain.Action,
	rules chain.Rules,
	mu state.Mutable,
	timestamp int64,
	actor codec.Address,
	actionID ids.ID,
) (codec.Marshaler, error) {
	ts := tstate.New(mu, 0)
	view := ts.NewView(action.StateKeys(actor))
	output, err := action.Execute(ctx, rules, view, timestamp, actor, actionID)
	if err != nil {
		return nil, err
	}
	view.Commit()
	if err := ts.Apply(ctx, mu); err != nil {
		return nil, err
	}
	return output, nil
}

// ActionBenchmark runs the action through [Execute] once per iteration, each
// time on a fresh state built by CreateState.
type ActionBenchmark struct {
	Name   string
	Action chain.Action

	Rules       chain.Rules
	CreateState func() state.Mutable
	Timestamp   int64
	Actor       codec.Address
	ActionID    ids.ID

	ExpectedOutputs codec.Marshaler
	ExpectedErr     error

	Assertion func(context.Context, *testing.B, state.Mutable)
}

// Run executes the [ActionBenchmark] and make sure all the benchmark assertions pass.
func (test *ActionBenchmark) Run(ctx context.Context, b *testing.B) {
	require := require.New(b)

	// create a slice of b.N states
	states := make([]state.Mutable, b.N)
	for i := 0; i < b.N; i++ {
		states[i] = test.CreateState()
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		output, err := Execute(ctx, test.Action, test.Rules, states[i], test.Timestamp, test.Actor, test.ActionID)
		require.ErrorIs(err, test.ExpectedErr)
		if test.ExpectedOutputs != nil {
			require.Equal(test.ExpectedOutputs, output)
		}
	}

	b.StopTimer()
	// check assertions
	if test.Assertion != nil {
		for i := 0; i < b.N; i++ {
			test.Assertion(ctx, b, states[i])
		}
	}
}
