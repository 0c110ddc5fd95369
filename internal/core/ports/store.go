package ports

import "go.trai.ch/ngxsys/internal/core/domain"

//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks

// CacheStore owns the cache root directory.
type CacheStore interface {
	// Ensure creates path and its parents if absent and returns it.
	Ensure(path string) (string, error)
}

// FingerprintStore persists the fingerprint of the last successful build beside a source tree.
type FingerprintStore interface {
	// Load returns the stored fingerprint and whether one exists.
	Load(sourceDir string) (domain.Fingerprint, bool, error)
	// Save atomically replaces the stored fingerprint.
	Save(sourceDir string, fp domain.Fingerprint) error
}

// BuildInfoStore defines the interface for storing and retrieving build records.
type BuildInfoStore interface {
	// Get retrieves the build record for a target.
	// Returns nil, nil if not found.
	Get(cacheRoot, target string) (*domain.BuildInfo, error)

	// Put stores the build record.
	Put(cacheRoot string, info domain.BuildInfo) error
}
