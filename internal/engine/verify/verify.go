// Package verify checks downloaded archives against their detached signatures.
package verify

import (
	"context"
	"errors"
	"os"
	"sync"

	"go.trai.ch/ngxsys/internal/core/domain"
	"go.trai.ch/ngxsys/internal/core/ports"
	"go.trai.ch/zerr"
)

// Fetcher resolves a URL to a file under the cache root.
type Fetcher interface {
	Fetch(ctx context.Context, cacheRoot, rawURL string) (string, error)
}

// Verifier validates signatures with the trust tool. Every failure removes the
// files it judged so that the next run fetches them again.
type Verifier struct {
	fetcher Fetcher
	tool    ports.TrustTool
	logger  ports.Logger

	warnOnce sync.Once
}

// New creates a Verifier.
func New(fetcher Fetcher, tool ports.TrustTool, logger ports.Logger) *Verifier {
	return &Verifier{fetcher: fetcher, tool: tool, logger: logger}
}

// CheckSignatureWellFormed parses the signature without verifying it.
func (v *Verifier) CheckSignatureWellFormed(ctx context.Context, cacheRoot, signaturePath string) error {
	if !v.available() {
		return nil
	}

	if err := v.tool.ListPackets(ctx, domain.GnupgHome(cacheRoot), signaturePath); err != nil {
		_ = os.Remove(signaturePath)
		return checkError(domain.ErrSignatureMalformed, err, "signature is not well formed", signaturePath)
	}
	return nil
}

// CheckArchiveAgainstSignature verifies archivePath with the keys in the cache-local trust store.
func (v *Verifier) CheckArchiveAgainstSignature(ctx context.Context, cacheRoot, signaturePath, archivePath string) error {
	if !v.available() {
		return nil
	}

	if err := v.tool.Verify(ctx, domain.GnupgHome(cacheRoot), signaturePath, archivePath); err != nil {
		_ = os.Remove(archivePath)
		_ = os.Remove(signaturePath)
		return checkError(domain.ErrSignatureMismatch, err, "archive does not match its signature", archivePath)
	}
	return nil
}

// GetVerifiedArchive fetches the signature, checks it, then fetches the archive and
// verifies it. It returns the archive path only when every check passed.
func (v *Verifier) GetVerifiedArchive(ctx context.Context, cacheRoot, archiveURL, signatureURL string) (string, error) {
	signaturePath, err := v.fetcher.Fetch(ctx, cacheRoot, signatureURL)
	if err != nil {
		return "", err
	}
	if err := v.CheckSignatureWellFormed(ctx, cacheRoot, signaturePath); err != nil {
		return "", err
	}

	archivePath, err := v.fetcher.Fetch(ctx, cacheRoot, archiveURL)
	if err != nil {
		return "", err
	}
	if err := v.CheckArchiveAgainstSignature(ctx, cacheRoot, signaturePath, archivePath); err != nil {
		return "", err
	}
	return archivePath, nil
}

func (v *Verifier) available() bool {
	if v.tool.Available() {
		return true
	}
	v.warnOnce.Do(func() {
		v.logger.Warn("gpg not found, skipping signature verification")
	})
	return false
}

func checkError(kind, cause error, msg, path string) error {
	wrapped := zerr.With(zerr.Wrap(errors.Join(kind, cause), msg), "path", path)
	if output := toolOutput(cause); output != "" {
		wrapped = zerr.With(wrapped, "output", output)
	}
	return wrapped
}

// toolOutput returns the diagnostic text attached by the trust tool adapter.
func toolOutput(err error) string {
	zErr, ok := err.(*zerr.Error)
	if !ok {
		return ""
	}
	output, _ := zErr.Metadata()["output"].(string)
	return output
}
