// Package orchestrator runs nginx's configure script and make.
package orchestrator

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"go.trai.ch/ngxsys/internal/core/domain"
	"go.trai.ch/ngxsys/internal/core/ports"
	"go.trai.ch/zerr"
)

// outputTailLines bounds the captured output attached to a build error.
const outputTailLines = 40

// preferredMakes are tried in order; gmake is GNU make on systems where make is not.
var preferredMakes = []string{"gmake", "make"}

// Orchestrator drives the external build tools.
type Orchestrator struct {
	runner  ports.CommandRunner
	locator ports.ToolLocator
	logger  ports.Logger
	jobs    int
}

// New creates an Orchestrator running make with jobs parallel jobs.
func New(runner ports.CommandRunner, locator ports.ToolLocator, logger ports.Logger, jobs int) *Orchestrator {
	return &Orchestrator{runner: runner, locator: locator, logger: logger, jobs: max(jobs, 1)}
}

// ResolveJobs turns a raw override into a job count. A nil override uses cpus;
// a set override that is not a positive integer, including an empty one, uses 1.
func ResolveJobs(override *string, cpus int) int {
	if override == nil {
		return max(cpus, 1)
	}
	n, err := strconv.Atoi(strings.TrimSpace(*override))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// DefaultJobs resolves override against the host's processor count.
func DefaultJobs(override *string) int {
	return ResolveJobs(override, runtime.NumCPU())
}

// RunConfigure runs ./configure with flags inside sourceDir.
func (o *Orchestrator) RunConfigure(ctx context.Context, sourceDir string, flags domain.BuildConfiguration) error {
	script := filepath.Join(sourceDir, "configure")
	if _, err := os.Stat(script); err != nil {
		return zerr.With(zerr.Wrap(errors.Join(domain.ErrConfigureScriptMissing, err), "configure script not found"), "path", script)
	}

	o.logger.Info("running configure with flags: " + string(flags.Fingerprint()))
	return o.run(ctx, domain.StageConfigure, ports.Command{
		Name: script,
		Args: flags,
		Dir:  sourceDir,
	})
}

// RunBuild runs make for stage inside sourceDir.
func (o *Orchestrator) RunBuild(ctx context.Context, sourceDir, stage string) error {
	tool, err := o.findMake()
	if err != nil {
		return err
	}

	return o.run(ctx, stage, ports.Command{
		Name: tool,
		Args: []string{"-j", strconv.Itoa(o.jobs), stage},
		Dir:  sourceDir,
	})
}

// Jobs returns the parallelism passed to make.
func (o *Orchestrator) Jobs() int {
	return o.jobs
}

func (o *Orchestrator) findMake() (string, error) {
	for _, name := range preferredMakes {
		if p, err := o.locator.LookPath(name); err == nil {
			return p, nil
		}
	}
	return "", zerr.With(zerr.Wrap(domain.ErrToolNotFound, "unable to find make in path"), "tried", strings.Join(preferredMakes, ", "))
}

func (o *Orchestrator) run(ctx context.Context, stage string, cmd ports.Command) error {
	res, err := o.runner.Run(ctx, cmd)
	if err == nil {
		return nil
	}

	buildErr := zerr.With(zerr.Wrap(errors.Join(domain.ErrExternalBuildFailed, err), stage+" failed"), "stage", stage)
	buildErr = zerr.With(buildErr, "exit_code", res.ExitCode)
	if output := tail(res.Output, outputTailLines); output != "" {
		buildErr = zerr.With(buildErr, "output", output)
	}
	return buildErr
}

// tail returns the last n lines of s.
func tail(s string, n int) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
