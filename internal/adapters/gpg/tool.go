// Package gpg drives the gpg binary against a cache-local trust store home.
package gpg

import (
	"context"
	"errors"
	osexec "os/exec"

	"github.com/jmgilman/go/exec"
	"go.trai.ch/zerr"
)

const binary = "gpg"

// Tool implements ports.TrustTool.
type Tool struct {
	gpg      exec.Executor
	lookPath func(string) (string, error)
}

// NewTool creates a Tool running the gpg found on PATH.
func NewTool() *Tool {
	return newTool(exec.NewWrapper(exec.New(exec.WithInheritEnv()), binary), osexec.LookPath)
}

func newTool(gpg exec.Executor, lookPath func(string) (string, error)) *Tool {
	return &Tool{gpg: gpg, lookPath: lookPath}
}

// Available reports whether gpg is installed.
func (t *Tool) Available() bool {
	_, err := t.lookPath(binary)
	return err == nil
}

// ImportKey retrieves keyID from server into the trust store at home.
func (t *Tool) ImportKey(ctx context.Context, home, server, keyID string) error {
	return t.run(ctx, "--homedir", home, "--keyserver", server, "--recv-keys", keyID)
}

// ListPackets parses a signature file without verifying it.
func (t *Tool) ListPackets(ctx context.Context, home, signaturePath string) error {
	return t.run(ctx, "--homedir", home, "--list-packets", signaturePath)
}

// Verify checks archivePath against its detached signature.
func (t *Tool) Verify(ctx context.Context, home, signaturePath, archivePath string) error {
	return t.run(ctx, "--homedir", home, "--verify", signaturePath, archivePath)
}

func (t *Tool) run(ctx context.Context, args ...string) error {
	res, err := t.gpg.Clone().WithContext(ctx).Run(args...)
	if err == nil {
		return nil
	}

	var output string
	exitCode := -1
	var execErr *exec.ExecError
	if errors.As(err, &execErr) {
		exitCode = execErr.ExitCode
		output = execErr.Stderr
	}
	if res != nil && res.Combined != "" {
		output = res.Combined
	}

	wrapped := zerr.With(zerr.Wrap(err, "gpg failed"), "exit_code", exitCode)
	return zerr.With(wrapped, "output", output)
}
