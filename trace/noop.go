// Copyright (C) 2024, Galactic Council. All rights reserved.
// See the file LICENSE for licensing terms.

package trace

import (
	"github.com/ava-labs/avalanchego/trace"

	oteltrace "go.opentelemetry.io/otel/trace"
)

var _ trace.Tracer = noOpTracer{}

type noOpTracer struct {
	oteltrace.Tracer
}

// Noop returns a tracer whose spans are never recorded.
func Noop() trace.Tracer {
	return noOpTracer{
		Tracer: oteltrace.NewNoopTracerProvider().Tracer(AppName),
	}
}

func (noOpTracer) Close() error {
	return nil
}
