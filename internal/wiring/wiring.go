// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/memo/internal/adapters/config"
	_ "go.trai.ch/memo/internal/adapters/fs"
	_ "go.trai.ch/memo/internal/adapters/logger"
	_ "go.trai.ch/memo/internal/adapters/shell"
	_ "go.trai.ch/memo/internal/adapters/sqlite"
	_ "go.trai.ch/memo/internal/adapters/telemetry"
	_ "go.trai.ch/memo/internal/adapters/watcher"
	// Register app nodes.
	_ "go.trai.ch/memo/internal/app"
)
