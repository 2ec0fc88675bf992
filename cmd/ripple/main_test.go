package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/ripple/internal/adapters/cache"
	"go.trai.ch/ripple/internal/adapters/telemetry"
	"go.trai.ch/ripple/internal/app"
	"go.trai.ch/ripple/internal/core/ports"
	"go.trai.ch/ripple/internal/core/ports/mocks"
	"go.trai.ch/ripple/internal/engine/graph"
	"go.trai.ch/ripple/internal/engine/invalidate"
	"go.trai.ch/ripple/internal/engine/registry"
	"go.trai.ch/ripple/internal/engine/tracker"
	"go.uber.org/mock/gomock"
)

func testComponents(ctrl *gomock.Controller) *app.Components {
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any()).AnyTimes()
	log.EXPECT().Error(gomock.Any()).AnyTimes()

	model := mocks.NewMockWorkspaceModel(ctrl)

	application := app.New(
		registry.New(log),
		graph.New(model, log),
		invalidate.New(cache.NewStore(), log),
		tracker.New(func() (ports.Watcher, error) {
			return mocks.NewMockWatcher(ctrl), nil
		}, log),
		model,
		log,
		telemetry.NoopTracer{},
	)

	return &app.Components{App: application, Logger: log}
}

// TestRun_Success verifies that the run function returns 0 when the command succeeds.
func TestRun_Success(t *testing.T) {
	ctrl := gomock.NewController(t)

	provider := func(_ context.Context) (*app.Components, func(), error) {
		return testComponents(ctrl), func() {}, nil
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, stderr, provider)
	assert.Equal(t, 0, exitCode)
}

// TestRun_InitializationError verifies that run returns 1 when component initialization fails.
func TestRun_InitializationError(t *testing.T) {
	provider := func(_ context.Context) (*app.Components, func(), error) {
		return nil, nil, errors.New("init failed")
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, stderr, provider)

	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stderr.String(), "Error: init failed")
}

// TestRun_ExecutionError verifies that run returns 1 when the command execution fails.
func TestRun_ExecutionError(t *testing.T) {
	ctrl := gomock.NewController(t)

	provider := func(_ context.Context) (*app.Components, func(), error) {
		return testComponents(ctrl), func() {}, nil
	}

	stderr := new(bytes.Buffer)
	// impact requires a unit argument
	exitCode := run(context.Background(), []string{"impact"}, stderr, provider)

	assert.Equal(t, 1, exitCode)
}
