package cas

import (
	"os"
	"path/filepath"

	"go.trai.ch/ngxsys/internal/core/domain"
	"go.trai.ch/zerr"
)

// Cache implements ports.CacheStore.
type Cache struct{}

// NewCache creates a new Cache.
func NewCache() *Cache {
	return &Cache{}
}

// Ensure creates path and any missing parents. It is a no-op when path already exists.
func (c *Cache) Ensure(path string) (string, error) {
	path = filepath.Clean(path)
	if err := os.MkdirAll(path, domain.DirPerm); err != nil {
		return "", zerr.With(zerr.Wrap(domain.ErrCacheUnavailable, err.Error()), "path", path)
	}
	return path, nil
}
