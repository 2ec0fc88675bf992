// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/ripple/internal/adapters/cache"
	_ "go.trai.ch/ripple/internal/adapters/logger"
	_ "go.trai.ch/ripple/internal/adapters/telemetry"
	_ "go.trai.ch/ripple/internal/adapters/watcher"
	_ "go.trai.ch/ripple/internal/adapters/workspace"
	// Register app and engine nodes.
	_ "go.trai.ch/ripple/internal/app"
	_ "go.trai.ch/ripple/internal/engine/graph"
	_ "go.trai.ch/ripple/internal/engine/invalidate"
	_ "go.trai.ch/ripple/internal/engine/registry"
	_ "go.trai.ch/ripple/internal/engine/tracker"
)
