package telemetry

import (
	"context"

	"go.trai.ch/ripple/internal/core/ports"
)

// NoopTracer is a ports.Tracer that records nothing. Useful for tests and
// embedders that do not want instrumentation.
type NoopTracer struct{}

var _ ports.Tracer = NoopTracer{}

// Start returns the context unchanged and a span that does nothing.
func (NoopTracer) Start(ctx context.Context, _ string) (context.Context, ports.Span) {
	return ctx, noopSpan{}
}

type noopSpan struct{}

func (noopSpan) End()                     {}
func (noopSpan) RecordError(error)        {}
func (noopSpan) SetAttribute(string, any) {}
