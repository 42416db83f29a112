package ports

import "go.trai.ch/memo/internal/core/domain"

// ConfigLoader defines the interface for loading the cache configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load resolves the configuration for the given working directory from
	// defaults, the optional config file and the environment.
	Load(cwd string) (domain.Config, error)
}
