package cas

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/renameio"
	"go.trai.ch/ngxsys/internal/core/domain"
	"go.trai.ch/zerr"
)

// FingerprintFile implements ports.FingerprintStore with a text file beside the source tree.
type FingerprintFile struct{}

// NewFingerprintFile creates a new FingerprintFile store.
func NewFingerprintFile() *FingerprintFile {
	return &FingerprintFile{}
}

// Load returns the fingerprint stored in sourceDir, if any.
func (f *FingerprintFile) Load(sourceDir string) (domain.Fingerprint, bool, error) {
	path := filepath.Join(sourceDir, domain.FingerprintFileName)

	//nolint:gosec // Path is derived from the cache layout
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, zerr.With(zerr.Wrap(err, "failed to read fingerprint"), "path", path)
	}
	return domain.Fingerprint(data), true, nil
}

// Save atomically replaces the fingerprint stored in sourceDir.
func (f *FingerprintFile) Save(sourceDir string, fp domain.Fingerprint) error {
	path := filepath.Join(sourceDir, domain.FingerprintFileName)
	if err := renameio.WriteFile(path, []byte(fp), domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(errors.Join(domain.ErrFileIOFailure, err), "failed to write fingerprint"), "path", path)
	}
	return nil
}
