// Package archive unpacks gzip-compressed tar source archives.
package archive

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	securejoin "github.com/cyphar/filepath-securejoin"
	"github.com/klauspost/compress/gzip"
	"go.trai.ch/ngxsys/internal/core/domain"
	"go.trai.ch/ngxsys/internal/core/ports"
	"go.trai.ch/zerr"
)

// Extractor implements ports.Extractor.
type Extractor struct {
	logger ports.Logger
}

// NewExtractor creates an Extractor reporting skipped entries to logger.
func NewExtractor(logger ports.Logger) *Extractor {
	return &Extractor{logger: logger}
}

// Extract unpacks archivePath into outputRoot/<stem>. An existing source
// directory is returned untouched.
func (e *Extractor) Extract(archivePath, outputRoot string) (domain.ExtractedSource, error) {
	base := filepath.Base(archivePath)
	name, ok := domain.DependencyName(base)
	if !ok {
		return domain.ExtractedSource{}, zerr.With(
			zerr.Wrap(domain.ErrDependencyNameUnknown, "cannot derive dependency name"), "archive", base)
	}

	sourceDir := filepath.Join(outputRoot, domain.ArchiveStem(base))
	if _, err := os.Stat(sourceDir); err == nil {
		return domain.ExtractedSource{Name: name, SourceDir: sourceDir}, nil
	}

	if err := os.MkdirAll(outputRoot, domain.DirPerm); err != nil {
		return domain.ExtractedSource{}, zerr.With(
			zerr.Wrap(errors.Join(domain.ErrFileIOFailure, err), "failed to create output root"), "path", outputRoot)
	}

	f, err := os.Open(archivePath) //nolint:gosec // path is derived from the cache root
	if err != nil {
		return domain.ExtractedSource{}, openError(err, archivePath)
	}
	defer func() {
		_ = f.Close()
	}()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return domain.ExtractedSource{}, openError(err, archivePath)
	}
	defer func() {
		_ = gz.Close()
	}()

	tmp, err := os.MkdirTemp(outputRoot, "."+domain.ArchiveStem(base)+"-*")
	if err != nil {
		return domain.ExtractedSource{}, zerr.With(
			zerr.Wrap(errors.Join(domain.ErrFileIOFailure, err), "failed to create staging directory"), "path", outputRoot)
	}

	skipped, err := unpack(tar.NewReader(gz), tmp)
	if err != nil {
		_ = os.RemoveAll(tmp)
		return domain.ExtractedSource{}, zerr.With(
			zerr.Wrap(errors.Join(domain.ErrArchiveReadFailed, err), "corrupt archive stream"), "archive", archivePath)
	}

	if err := os.Rename(tmp, sourceDir); err != nil {
		_ = os.RemoveAll(tmp)
		if _, statErr := os.Stat(sourceDir); statErr == nil {
			return domain.ExtractedSource{Name: name, SourceDir: sourceDir}, nil
		}
		return domain.ExtractedSource{}, zerr.With(
			zerr.Wrap(errors.Join(domain.ErrFileIOFailure, err), "failed to publish sources"), "path", sourceDir)
	}

	if skipped > 0 {
		e.logger.Warn(fmt.Sprintf("%s: skipped %d archive entries that could not be unpacked", base, skipped))
	}

	return domain.ExtractedSource{Name: name, SourceDir: sourceDir, Skipped: skipped}, nil
}

// unpack writes every entry below root and returns how many entries were skipped.
// Only a failure to read the stream itself is returned as an error.
func unpack(tr *tar.Reader, root string) (int, error) {
	skipped := 0
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return skipped, nil
		}
		if err != nil {
			return skipped, err
		}

		rel, ok := stripWrapper(hdr.Name)
		if !ok {
			continue
		}

		target, err := securejoin.SecureJoin(root, rel)
		if err != nil {
			skipped++
			continue
		}

		if err := writeEntry(tr, hdr, root, target); err != nil {
			skipped++
		}
	}
}

// stripWrapper drops the first path component. It reports false for the
// wrapper directory itself.
func stripWrapper(name string) (string, bool) {
	name = strings.TrimPrefix(path.Clean("/"+name), "/")
	_, rest, ok := strings.Cut(name, "/")
	if !ok || rest == "" {
		return "", false
	}
	return rest, true
}

func writeEntry(tr *tar.Reader, hdr *tar.Header, root, target string) error {
	mode := hdr.FileInfo().Mode().Perm()

	switch hdr.Typeflag {
	case tar.TypeDir:
		if err := os.MkdirAll(target, domain.DirPerm); err != nil {
			return err
		}
		return os.Chmod(target, mode|0o700)

	case tar.TypeReg:
		if err := os.MkdirAll(filepath.Dir(target), domain.DirPerm); err != nil {
			return err
		}
		return writeFile(tr, target, mode)

	case tar.TypeSymlink:
		if err := os.MkdirAll(filepath.Dir(target), domain.DirPerm); err != nil {
			return err
		}
		return os.Symlink(hdr.Linkname, target)

	case tar.TypeLink:
		rel, ok := stripWrapper(hdr.Linkname)
		if !ok {
			return errors.New("hard link to wrapper directory")
		}
		source, err := securejoin.SecureJoin(root, rel)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(target), domain.DirPerm); err != nil {
			return err
		}
		return os.Link(source, target)

	default:
		return fmt.Errorf("unsupported entry type %q", hdr.Typeflag)
	}
}

func writeFile(r io.Reader, target string, mode os.FileMode) error {
	f, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode) //nolint:gosec // target is confined by SecureJoin
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil { //nolint:gosec // archives are verified before extraction
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Chmod(target, mode)
}

func openError(err error, archivePath string) error {
	return zerr.With(zerr.Wrap(errors.Join(domain.ErrArchiveOpenFailed, err), "failed to open archive"), "archive", archivePath)
}
