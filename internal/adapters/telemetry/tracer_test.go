package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/ripple/internal/adapters/telemetry"
)

func TestOTelTracer_StartAndEnd(t *testing.T) {
	tr := telemetry.NewOTelTracer("test")
	defer func() { _ = tr.Shutdown(context.Background()) }()

	ctx, span := tr.Start(context.Background(), "session.pause")
	require.NotNil(t, ctx)
	require.NotNil(t, span)

	span.SetAttribute("session_id", "s1")
	span.SetAttribute("changed_files", 3)
	span.SetAttribute("forced", false)
	span.RecordError(errors.New("boom"))
	span.RecordError(nil) // must be a no-op
	span.End()
}

func TestNoopTracer(t *testing.T) {
	tr := telemetry.NoopTracer{}

	ctx := context.Background()
	got, span := tr.Start(ctx, "anything")
	assert.Equal(t, ctx, got)

	span.SetAttribute("k", "v")
	span.RecordError(errors.New("ignored"))
	span.End()
}
