// Package keyring imports dependency signing keys into the cache-local trust store.
package keyring

import (
	"context"
	"errors"
	"os"
	"sync"

	"github.com/google/renameio"
	"go.trai.ch/ngxsys/internal/core/domain"
	"go.trai.ch/ngxsys/internal/core/ports"
	"go.trai.ch/zerr"
)

// Ring records which signing keys have been imported for a cache root.
type Ring struct {
	tool   ports.TrustTool
	logger ports.Logger

	warnOnce sync.Once
}

// New creates a Ring driving tool.
func New(tool ports.TrustTool, logger ports.Logger) *Ring {
	return &Ring{tool: tool, logger: logger}
}

// EnsureImported imports every key id not yet marked as imported under cacheRoot.
// Without a trust tool it warns and returns nil.
func (r *Ring) EnsureImported(ctx context.Context, cacheRoot string, identities []domain.KeyIdentity) error {
	if !r.tool.Available() {
		r.warnOnce.Do(func() {
			r.logger.Warn("gpg not found, skipping key import; downloads will not be verified")
		})
		return nil
	}

	home := domain.GnupgHome(cacheRoot)
	if err := os.MkdirAll(home, domain.PrivateDirPerm); err != nil {
		return zerr.With(zerr.Wrap(errors.Join(domain.ErrFileIOFailure, err), "failed to create trust store home"), "path", home)
	}

	for _, identity := range identities {
		for _, keyID := range identity.KeyIDs {
			if err := r.importKey(ctx, cacheRoot, identity.Server, keyID); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *Ring) importKey(ctx context.Context, cacheRoot, server, keyID string) error {
	marker := domain.KeyMarkerPath(cacheRoot, keyID)
	if _, err := os.Stat(marker); err == nil {
		return nil
	}

	if err := r.tool.ImportKey(ctx, domain.GnupgHome(cacheRoot), server, keyID); err != nil {
		importErr := zerr.With(zerr.Wrap(errors.Join(domain.ErrKeyImportFailed, err), "failed to import signing key"), "key_id", keyID)
		return withToolDiagnostics(zerr.With(importErr, "server", server), err)
	}

	if err := renameio.WriteFile(marker, []byte(keyID+"\n"), domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(errors.Join(domain.ErrFileIOFailure, err), "failed to record imported key"), "path", marker)
	}
	r.logger.Info("imported signing key " + keyID + " from " + server)
	return nil
}

// withToolDiagnostics lifts the trust tool's exit code and output onto err,
// which would otherwise stay hidden behind the joined cause.
func withToolDiagnostics(err, cause error) error {
	var toolErr *zerr.Error
	if !errors.As(cause, &toolErr) {
		return err
	}
	meta := toolErr.Metadata()
	if code, ok := meta["exit_code"]; ok {
		err = zerr.With(err, "exit_code", code)
	}
	if output, ok := meta["output"].(string); ok && output != "" {
		err = zerr.With(err, "output", output)
	}
	return err
}
