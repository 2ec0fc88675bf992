package watcher

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/ripple/internal/core/ports"
)

// NodeID is the unique identifier for the watcher factory Graft node.
// The change tracker creates one watcher per paused session, so the node
// provides a factory rather than a single instance.
const NodeID graft.ID = "adapter.watcher_factory"

func init() {
	graft.Register(graft.Node[ports.WatcherFactory]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.WatcherFactory, error) {
			return func() (ports.Watcher, error) {
				return New()
			}, nil
		},
	})
}
