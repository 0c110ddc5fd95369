// Package cas implements the cache store: the cache root, fingerprint files and build records.
package cas

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/renameio"
	"go.trai.ch/ngxsys/internal/core/domain"
	"go.trai.ch/zerr"
)

// Store implements ports.BuildInfoStore using a flat JSON file under each cache root.
type Store struct {
	mu sync.Mutex
}

// NewStore creates a new BuildInfoStore.
func NewStore() *Store {
	return &Store{}
}

func (s *Store) path(cacheRoot string) string {
	return filepath.Join(filepath.Clean(cacheRoot), domain.BuildInfoFileName)
}

func (s *Store) load(path string) (map[string]domain.BuildInfo, error) {
	records := make(map[string]domain.BuildInfo)

	//nolint:gosec // Path is cleaned and provided by trusted caller
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return records, nil
		}
		return nil, zerr.Wrap(err, "failed to read build info store")
	}

	if len(data) == 0 {
		return records, nil
	}

	if err := json.Unmarshal(data, &records); err != nil {
		return nil, zerr.Wrap(err, "failed to unmarshal build info store")
	}

	return records, nil
}

func (s *Store) save(path string, records map[string]domain.BuildInfo) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return zerr.Wrap(err, "failed to marshal build info store")
	}

	if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
		return zerr.Wrap(err, "failed to create directory for build info store")
	}

	if err := renameio.WriteFile(path, data, domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(errors.Join(domain.ErrFileIOFailure, err), "failed to write build info store"), "path", path)
	}

	return nil
}

// Get retrieves the build record for a target.
func (s *Store) Get(cacheRoot, target string) (*domain.BuildInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load(s.path(cacheRoot))
	if err != nil {
		return nil, err
	}

	info, ok := records[target]
	if !ok {
		return nil, nil
	}
	return &info, nil
}

// Put stores the build record, replacing any previous record for the same target.
func (s *Store) Put(cacheRoot string, info domain.BuildInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.path(cacheRoot)
	records, err := s.load(path)
	if err != nil {
		return err
	}

	records[info.Target] = info
	return s.save(path, records)
}
