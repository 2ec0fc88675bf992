package logger_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/ripple/internal/adapters/logger"
	"go.trai.ch/zerr"
)

// newTestLogger creates a logger with an injected bytes.Buffer.
func newTestLogger(t *testing.T) (*logger.Logger, *bytes.Buffer) {
	t.Helper()
	buf := &bytes.Buffer{}
	lg := logger.New()
	lg.SetOutput(buf)
	return lg, buf
}

func TestLogger_Info(t *testing.T) {
	tests := []struct {
		name       string
		msg        string
		goldenName string
	}{
		{
			name:       "simple message",
			msg:        "session paused",
			goldenName: "info_basic",
		},
		{
			name:       "multiline message",
			msg:        "line1\nline2",
			goldenName: "info_multiline",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lg, buf := newTestLogger(t)
			lg.Info(tt.msg)

			g := goldie.New(t)
			g.Assert(t, tt.goldenName, buf.Bytes())
		})
	}
}

func TestLogger_Warn(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.Warn("file has no owning unit")

	g := goldie.New(t)
	g.Assert(t, "warn_basic", buf.Bytes())
}

func TestLogger_Error_PlainError(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.Error(errors.New("boom"))

	g := goldie.New(t)
	g.Assert(t, "error_plain", buf.Bytes())
}

func TestLogger_Error_ZerrChain(t *testing.T) {
	lg, buf := newTestLogger(t)

	inner := errors.New("permission denied")
	mid := zerr.Wrap(inner, "failed to snapshot workspace")
	outer := zerr.Wrap(mid, "failed to resume session")
	lg.Error(outer)

	g := goldie.New(t)
	g.Assert(t, "error_zerr_chain", buf.Bytes())
}

func TestLogger_Error_NilIsNoop(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.Error(nil)
	require.Zero(t, buf.Len())
}

func TestLogger_JSONMode(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.SetJSON(true)

	lg.Info("resume complete")
	assert.Contains(t, buf.String(), `"level":"INFO"`)
	assert.Contains(t, buf.String(), `"msg":"resume complete"`)

	buf.Reset()
	lg.Error(errors.New("boom"))
	assert.Contains(t, buf.String(), `"level":"ERROR"`)
	assert.Contains(t, buf.String(), "boom")
}

func TestLogger_SetOutput_NilResetsToStderr(t *testing.T) {
	lg := logger.New()
	// Must not panic when logging after a nil reset.
	lg.SetOutput(nil)
	lg.Info("still alive")
}
