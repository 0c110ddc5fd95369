// Package shell provides the child process runner adapter.
package shell

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os/exec"
	"strings"
	"sync"

	"go.trai.ch/ngxsys/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Runner implements ports.CommandRunner using os/exec.
type Runner struct {
	logger ports.Logger
}

// NewRunner creates a new Runner streaming output to logger when no vertex is recording.
func NewRunner(logger ports.Logger) *Runner {
	return &Runner{logger: logger}
}

// Run starts cmd with stdout and stderr merged into a single stream.
// Each output line is forwarded to the vertex carried by ctx, or to the logger,
// and the whole stream is returned in the result.
func (r *Runner) Run(ctx context.Context, cmd ports.Command) (ports.CommandResult, error) {
	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...) //nolint:gosec // commands are built by the pipeline
	c.Dir = cmd.Dir

	pr, pw := io.Pipe()
	c.Stdout = pw
	c.Stderr = pw

	if err := c.Start(); err != nil {
		_ = pw.Close()
		_ = pr.Close()
		err = zerr.With(zerr.Wrap(err, "failed to start command"), "command", cmd.Name)
		return ports.CommandResult{ExitCode: -1}, err
	}

	capture := &lineCapture{sink: r.sink(ctx)}
	var g errgroup.Group
	g.Go(func() error {
		return capture.consume(pr)
	})

	waitErr := c.Wait()
	_ = pw.Close()
	readErr := g.Wait()

	result := ports.CommandResult{Output: capture.String()}
	if waitErr != nil {
		result.ExitCode = -1
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		}
		err := zerr.With(zerr.Wrap(waitErr, "command failed"), "exit_code", result.ExitCode)
		return result, zerr.With(err, "command", cmd.Name)
	}
	if readErr != nil {
		return result, zerr.Wrap(readErr, "failed to read command output")
	}
	return result, nil
}

func (r *Runner) sink(ctx context.Context) func(string) {
	if v, ok := ports.VertexFromContext(ctx); ok {
		w := v.Stdout()
		return func(line string) {
			_, _ = io.WriteString(w, line+"\n")
		}
	}
	return r.logger.Info
}

type lineCapture struct {
	mu   sync.Mutex
	buf  strings.Builder
	sink func(string)
}

func (c *lineCapture) consume(r io.Reader) error {
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			c.mu.Lock()
			c.buf.WriteString(line)
			c.mu.Unlock()
			c.sink(strings.TrimRight(line, "\r\n"))
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (c *lineCapture) String() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buf.String()
}

// Locator implements ports.ToolLocator using exec.LookPath.
type Locator struct{}

// LookPath searches PATH for name.
func (Locator) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}
