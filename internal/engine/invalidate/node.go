package invalidate

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/ripple/internal/adapters/cache"
	"go.trai.ch/ripple/internal/adapters/logger"
	"go.trai.ch/ripple/internal/core/ports"
)

// NodeID is the unique identifier for the invalidation service Graft node.
const NodeID graft.ID = "engine.invalidate"

func init() {
	graft.Register(graft.Node[*Service]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{cache.NodeID, logger.NodeID},
		Run: func(ctx context.Context) (*Service, error) {
			store, err := graft.Dep[ports.ArtifactStore](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return New(store, log), nil
		},
	})
}
