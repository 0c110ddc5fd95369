package ports

import "go.trai.ch/ngxsys/internal/core/domain"

// ConfigLoader defines the interface for loading the run configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load resolves the configuration for the project rooted at projectDir.
	// An empty projectDir falls back to the manifest directory overrides, then the working directory.
	// An empty configPath selects the default file inside the project directory.
	Load(projectDir, configPath string) (*domain.Config, error)
}
