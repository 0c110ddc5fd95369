// Package bindings hands the include set to an external binding generator.
package bindings

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.trai.ch/ngxsys/internal/core/domain"
	"go.trai.ch/ngxsys/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	// DefaultHeader is the umbrella header bindings are generated from.
	DefaultHeader = "wrapper.h"

	generator = "bindgen"
)

// DefaultBlocklist names items the generator must not emit.
var DefaultBlocklist = []string{"IPPORT_RESERVED"}

// Request describes one binding generation.
type Request struct {
	Header      string
	IncludeArgs []string
	Blocklist   []string
}

// NewRequest returns a Request with the default header and blocklist.
func NewRequest(includeArgs []string) Request {
	return Request{
		Header:      DefaultHeader,
		IncludeArgs: includeArgs,
		Blocklist:   append([]string(nil), DefaultBlocklist...),
	}
}

// Args returns the generator arguments. An empty out omits the output flag.
func (r Request) Args(out string) []string {
	args := make([]string, 0, 1+2*len(r.Blocklist)+4+len(r.IncludeArgs))
	args = append(args, r.Header)
	for _, item := range r.Blocklist {
		args = append(args, "--blocklist-item", item)
	}
	args = append(args, "--no-layout-tests")
	if out != "" {
		args = append(args, "-o", out)
	}
	args = append(args, "--")
	return append(args, r.IncludeArgs...)
}

// Render writes the generator arguments one per line.
func Render(w io.Writer, r Request) error {
	for _, arg := range r.Args("") {
		if _, err := fmt.Fprintln(w, arg); err != nil {
			return err
		}
	}
	return nil
}

// Generator runs bindgen.
type Generator struct {
	runner  ports.CommandRunner
	locator ports.ToolLocator
}

// NewGenerator creates a Generator.
func NewGenerator(runner ports.CommandRunner, locator ports.ToolLocator) *Generator {
	return &Generator{runner: runner, locator: locator}
}

// Generate writes bindings for r to out, running from dir.
func (g *Generator) Generate(ctx context.Context, dir string, r Request, out string) error {
	tool, err := g.locator.LookPath(generator)
	if err != nil {
		return zerr.With(zerr.Wrap(errors.Join(domain.ErrToolNotFound, err), "binding generator not found"), "tool", generator)
	}

	res, err := g.runner.Run(ctx, ports.Command{Name: tool, Args: r.Args(out), Dir: dir})
	if err != nil {
		genErr := zerr.With(zerr.Wrap(errors.Join(domain.ErrBindingGenerationFailed, err), "binding generation failed"), "header", r.Header)
		return zerr.With(genErr, "output", res.Output)
	}
	return nil
}
