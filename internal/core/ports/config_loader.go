package ports

import "github.com/b3rserker/gridmaven/internal/core/domain"

// ConfigLoader defines the interface for loading the build configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load finds gridmaven.yaml from cwd upward and returns the project it describes.
	Load(cwd string) (*domain.Project, error)

	// DiscoverRoot walks up from cwd and returns the directory containing gridmaven.yaml.
	DiscoverRoot(cwd string) (string, error)
}
