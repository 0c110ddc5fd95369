// Package fetch resolves remote archives to files in the cache root.
package fetch

import (
	"context"
	"errors"
	"net/url"
	"os"
	"path"
	"path/filepath"

	"go.trai.ch/ngxsys/internal/core/domain"
	"go.trai.ch/ngxsys/internal/core/ports"
	"go.trai.ch/zerr"
)

// Fetcher downloads a URL into the cache root unless it is already there.
type Fetcher struct {
	downloader ports.Downloader
	logger     ports.Logger
}

// New creates a Fetcher.
func New(downloader ports.Downloader, logger ports.Logger) *Fetcher {
	return &Fetcher{downloader: downloader, logger: logger}
}

// Fetch returns the local path of rawURL under cacheRoot, downloading it only
// when no non-empty file is present.
func (f *Fetcher) Fetch(ctx context.Context, cacheRoot, rawURL string) (string, error) {
	name, err := fileName(rawURL)
	if err != nil {
		return "", err
	}

	dest := filepath.Join(cacheRoot, name)
	if info, err := os.Stat(dest); err == nil && info.Mode().IsRegular() && info.Size() > 0 {
		return dest, nil
	}

	f.logger.Info("downloading " + rawURL)
	if err := f.downloader.Download(ctx, rawURL, dest); err != nil {
		return "", err
	}
	return dest, nil
}

// fileName returns the last path segment of rawURL.
func fileName(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", zerr.With(zerr.Wrap(errors.Join(domain.ErrNetworkFailure, err), "invalid url"), "url", rawURL)
	}
	name := path.Base(u.Path)
	if name == "." || name == "/" || name == "" {
		return "", zerr.With(zerr.Wrap(domain.ErrNetworkFailure, "url has no file name"), "url", rawURL)
	}
	return name, nil
}
