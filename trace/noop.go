// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package trace

import (
	"github.com/ava-labs/avalanchego/trace"
	"go.opentelemetry.io/otel/trace/noop"

	oteltrace "go.opentelemetry.io/otel/trace"
)

var _ trace.Tracer = (*noOpTracer)(nil)

// noOpTracer records nothing. Spans are still created so callers can rely
// on a valid span in the returned context.
type noOpTracer struct {
	oteltrace.Tracer
}

// Noop returns a tracer that discards every span. It is what [New] returns
// when tracing is disabled.
func Noop(appName string) trace.Tracer {
	return &noOpTracer{
		Tracer: noop.NewTracerProvider().Tracer(appName),
	}
}

func (*noOpTracer) Close() error {
	return nil
}
