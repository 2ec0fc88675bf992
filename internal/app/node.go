package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/ripple/internal/adapters/logger"
	"go.trai.ch/ripple/internal/adapters/telemetry"
	"go.trai.ch/ripple/internal/adapters/workspace"
	"go.trai.ch/ripple/internal/core/ports"
	"go.trai.ch/ripple/internal/engine/graph"
	"go.trai.ch/ripple/internal/engine/invalidate"
	"go.trai.ch/ripple/internal/engine/registry"
	"go.trai.ch/ripple/internal/engine/tracker"
)

// NodeID is the unique identifier for the App Graft node.
const NodeID graft.ID = "app"

// ComponentsNodeID is the unique identifier for the Components Graft node.
const ComponentsNodeID graft.ID = "app.components"

// Components bundles the fully wired application for entry points.
type Components struct {
	App    *App
	Logger ports.Logger
}

func init() {
	graft.Register(graft.Node[*App]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			registry.NodeID,
			graph.NodeID,
			invalidate.NodeID,
			tracker.NodeID,
			workspace.NodeID,
			logger.NodeID,
			telemetry.NodeID,
		},
		Run: func(ctx context.Context) (*App, error) {
			reg, err := graft.Dep[*registry.Registry](ctx)
			if err != nil {
				return nil, err
			}
			graphs, err := graft.Dep[*graph.Service](ctx)
			if err != nil {
				return nil, err
			}
			invalidator, err := graft.Dep[*invalidate.Service](ctx)
			if err != nil {
				return nil, err
			}
			track, err := graft.Dep[*tracker.Tracker](ctx)
			if err != nil {
				return nil, err
			}
			model, err := graft.Dep[ports.WorkspaceModel](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			trace, err := graft.Dep[ports.Tracer](ctx)
			if err != nil {
				return nil, err
			}
			return New(reg, graphs, invalidator, track, model, log, trace), nil
		},
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{NodeID, logger.NodeID},
		Run: func(ctx context.Context) (*Components, error) {
			application, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return &Components{App: application, Logger: log}, nil
		},
	})
}
