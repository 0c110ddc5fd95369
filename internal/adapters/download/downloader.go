// Package download fetches remote files over HTTP.
package download

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/renameio"
	"go.trai.ch/ngxsys/internal/core/domain"
	"go.trai.ch/zerr"
)

// DefaultTimeout bounds a single transfer, body included.
const DefaultTimeout = 5 * time.Minute

// Downloader implements ports.Downloader.
type Downloader struct {
	httpClient *http.Client
}

// NewDownloader creates a Downloader with the default timeout.
func NewDownloader() *Downloader {
	return &Downloader{
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
}

// Download retrieves url into dest. The destination only appears once the whole
// body has been written, so an interrupted transfer never leaves a partial file.
func (d *Downloader) Download(ctx context.Context, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return networkError(err, "failed to create request", url)
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return networkError(err, "failed to fetch", url)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		statusErr := zerr.With(zerr.Wrap(domain.ErrNetworkFailure, "unexpected status"), "url", url)
		return zerr.With(statusErr, "status", resp.StatusCode)
	}

	if err := os.MkdirAll(filepath.Dir(dest), domain.DirPerm); err != nil {
		return fileError(err, "failed to create destination directory", dest)
	}

	pending, err := renameio.TempFile("", dest)
	if err != nil {
		return fileError(err, "failed to create temporary file", dest)
	}
	defer func() {
		_ = pending.Cleanup()
	}()

	if _, err := io.Copy(pending, resp.Body); err != nil {
		return networkError(err, "failed to read response body", url)
	}

	if err := pending.Chmod(domain.FilePerm); err != nil {
		return fileError(err, "failed to set file mode", dest)
	}

	if err := pending.CloseAtomicallyReplace(); err != nil {
		return fileError(err, "failed to commit download", dest)
	}
	return nil
}

func networkError(err error, msg, url string) error {
	return zerr.With(zerr.Wrap(errors.Join(domain.ErrNetworkFailure, err), msg), "url", url)
}

func fileError(err error, msg, path string) error {
	return zerr.With(zerr.Wrap(errors.Join(domain.ErrFileIOFailure, err), msg), "path", path)
}
