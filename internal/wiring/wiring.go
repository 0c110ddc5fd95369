// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/ngxsys/internal/adapters/archive"
	_ "go.trai.ch/ngxsys/internal/adapters/cas"
	_ "go.trai.ch/ngxsys/internal/adapters/config"
	_ "go.trai.ch/ngxsys/internal/adapters/download"
	_ "go.trai.ch/ngxsys/internal/adapters/gpg"
	_ "go.trai.ch/ngxsys/internal/adapters/logger"
	_ "go.trai.ch/ngxsys/internal/adapters/shell"
	_ "go.trai.ch/ngxsys/internal/adapters/telemetry"
	_ "go.trai.ch/ngxsys/internal/adapters/telemetry/progrock"
	// Register app nodes.
	_ "go.trai.ch/ngxsys/internal/app"
)
