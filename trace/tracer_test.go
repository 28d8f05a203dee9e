// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package trace

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDisabledTracerIsNoop(t *testing.T) {
	require := require.New(t)

	cfg := DefaultConfig("lbpvm", "v0.0.0")
	require.False(cfg.Enabled)
	require.Equal(defaultEndpoint, cfg.Endpoint)

	tracer, err := New(cfg)
	require.NoError(err)
	require.IsType(&noOpTracer{}, tracer)
	ctx, span := tracer.Start(context.Background(), "test")
	require.NotNil(ctx)
	require.False(span.IsRecording())
	span.End()
	require.NoError(tracer.Close())
}

func TestEnabledTracer(t *testing.T) {
	require := require.New(t)

	cfg := DefaultConfig("lbpvm", "v0.0.0")
	cfg.Enabled = true
	tracer, err := New(cfg)
	require.NoError(err)

	_, span := tracer.Start(context.Background(), "test")
	require.True(span.IsRecording())
	span.End()
}

func TestNoopSpansCarryNoContext(t *testing.T) {
	require := require.New(t)

	tracer := Noop("lbpvm")
	parent, span := tracer.Start(context.Background(), "parent")
	_, child := tracer.Start(parent, "child")
	require.False(span.SpanContext().IsValid())
	require.False(child.IsRecording())
	child.End()
	span.End()
}
