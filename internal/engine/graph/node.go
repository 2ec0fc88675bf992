package graph

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/ripple/internal/adapters/logger"
	"go.trai.ch/ripple/internal/adapters/workspace"
	"go.trai.ch/ripple/internal/core/ports"
)

// NodeID is the unique identifier for the graph service Graft node.
const NodeID graft.ID = "engine.graph"

func init() {
	graft.Register(graft.Node[*Service]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{workspace.NodeID, logger.NodeID},
		Run: func(ctx context.Context) (*Service, error) {
			model, err := graft.Dep[ports.WorkspaceModel](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return New(model, log), nil
		},
	})
}
