// Package pipeline composes the preparation stages into a single run.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.trai.ch/ngxsys/internal/core/domain"
	"go.trai.ch/ngxsys/internal/core/ports"
	"go.trai.ch/ngxsys/internal/engine/includes"
	"go.trai.ch/ngxsys/internal/engine/planner"
)

// StageStatus represents the status of a stage.
type StageStatus string

const (
	// StatusPending indicates the stage has not started.
	StatusPending StageStatus = "Pending"
	// StatusRunning indicates the stage is executing.
	StatusRunning StageStatus = "Running"
	// StatusCompleted indicates the stage finished successfully.
	StatusCompleted StageStatus = "Completed"
	// StatusFailed indicates the stage failed.
	StatusFailed StageStatus = "Failed"
	// StatusCached indicates the stage was skipped because its output was current.
	StatusCached StageStatus = "Cached"
)

// KeyImporter imports signing keys into the cache-local trust store.
type KeyImporter interface {
	EnsureImported(ctx context.Context, cacheRoot string, identities []domain.KeyIdentity) error
}

// ArchiveSource yields archives that passed signature verification.
type ArchiveSource interface {
	GetVerifiedArchive(ctx context.Context, cacheRoot, archiveURL, signatureURL string) (string, error)
}

// Builder runs the external configure and make steps.
type Builder interface {
	RunConfigure(ctx context.Context, sourceDir string, flags domain.BuildConfiguration) error
	RunBuild(ctx context.Context, sourceDir, stage string) error
}

// Deps are the collaborators of a Pipeline.
type Deps struct {
	Cache     ports.CacheStore
	Keys      KeyImporter
	Archives  ArchiveSource
	Extractor ports.Extractor
	Planner   *planner.Planner
	Builder   Builder
	Records   ports.BuildInfoStore
	Tracer    ports.Tracer
	Telemetry ports.Telemetry
	Logger    ports.Logger
}

// Result describes a prepared tree.
type Result struct {
	CacheRoot      string
	SourceRoot     string
	InstallDir     string
	NginxSourceDir string
	Includes       []string
	Rebuilt        bool
	Fingerprint    domain.Fingerprint
}

// Pipeline prepares nginx and its libraries for one configuration.
// Stages run strictly in sequence.
type Pipeline struct {
	cfg  *domain.Config
	deps Deps
	now  func() time.Time

	mu     sync.RWMutex
	status map[string]StageStatus
	order  []string
}

// New creates a Pipeline for cfg.
func New(cfg *domain.Config, deps Deps) *Pipeline {
	return &Pipeline{
		cfg:    cfg,
		deps:   deps,
		now:    time.Now,
		status: make(map[string]StageStatus),
	}
}

// Run executes every stage and returns the prepared layout.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	res := &Result{}
	dependencies := domain.Dependencies(p.cfg.Versions)

	err := p.stage(ctx, domain.StageCache, domain.StageCache, func(context.Context) (bool, error) {
		root, err := p.deps.Cache.Ensure(p.cfg.CacheRoot())
		if err != nil {
			return false, err
		}
		res.CacheRoot = root
		res.SourceRoot, err = p.deps.Cache.Ensure(p.cfg.SourceRoot())
		return false, err
	})
	if err != nil {
		return nil, err
	}

	err = p.stage(ctx, domain.StageKeys, domain.StageKeys, func(ctx context.Context) (bool, error) {
		return false, p.deps.Keys.EnsureImported(ctx, res.CacheRoot, domain.KeyIdentities(dependencies))
	})
	if err != nil {
		return nil, err
	}

	sources := make([]domain.ExtractedSource, 0, len(dependencies))
	for _, dep := range dependencies {
		src, err := p.acquire(ctx, res, dep)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}

	paths, nginxDir, err := planner.ResolvePaths(sources)
	if err != nil {
		return nil, err
	}
	res.NginxSourceDir = nginxDir
	res.InstallDir = domain.InstallDir(res.CacheRoot, p.cfg.Versions.Nginx, p.cfg.HostOS, p.cfg.HostArch)

	var (
		flags    domain.BuildConfiguration
		decision domain.RebuildDecision
	)
	err = p.stage(ctx, domain.StagePlan, domain.StagePlan, func(context.Context) (bool, error) {
		flags = planner.Plan(res.InstallDir, paths, planner.Options{
			Debug:    p.cfg.Debug,
			TargetOS: p.cfg.TargetOS,
		})
		res.Fingerprint = flags.Fingerprint()

		unchanged, err := p.deps.Planner.Unchanged(nginxDir, res.Fingerprint)
		if err != nil {
			return false, err
		}
		decision = planner.Decide(
			exists(domain.BinaryPath(res.InstallDir)),
			exists(filepath.Join(nginxDir, "Makefile")),
			unchanged,
		)
		p.deps.Logger.Info(fmt.Sprintf(
			"rebuild check: binary_exists=%t makefile_exists=%t fingerprint_unchanged=%t digest=%s",
			decision.BinaryExists, decision.MakefileExists, decision.FingerprintUnchanged, res.Fingerprint.Digest(),
		))
		return false, nil
	})
	if err != nil {
		return nil, err
	}

	if err := p.build(ctx, res, flags, decision.Required()); err != nil {
		return nil, err
	}
	res.Rebuilt = decision.Required()

	err = p.stage(ctx, domain.StageIncludes, domain.StageIncludes, func(context.Context) (bool, error) {
		dirs, err := includes.Extract(filepath.Join(nginxDir, "objs", "Makefile"))
		res.Includes = dirs
		return false, err
	})
	if err != nil {
		return nil, err
	}

	return res, nil
}

// acquire fetches, verifies and unpacks a single dependency.
func (p *Pipeline) acquire(ctx context.Context, res *Result, dep domain.Dependency) (domain.ExtractedSource, error) {
	var archivePath string
	err := p.stage(ctx, domain.StageFetch, domain.StageFetch+" "+dep.Name, func(ctx context.Context) (bool, error) {
		var err error
		archivePath, err = p.deps.Archives.GetVerifiedArchive(ctx, res.CacheRoot, dep.ArchiveURL, dep.SignatureURL)
		return false, err
	})
	if err != nil {
		return domain.ExtractedSource{}, err
	}

	var src domain.ExtractedSource
	err = p.stage(ctx, domain.StageExtract, domain.StageExtract+" "+dep.Name, func(context.Context) (bool, error) {
		present := exists(filepath.Join(res.SourceRoot, domain.ArchiveStem(filepath.Base(archivePath))))
		var err error
		src, err = p.deps.Extractor.Extract(archivePath, res.SourceRoot)
		return present, err
	})
	return src, err
}

// build configures and installs nginx when required, then records the result.
// The fingerprint is committed last, after the build record was stored.
func (p *Pipeline) build(ctx context.Context, res *Result, flags domain.BuildConfiguration, required bool) error {
	err := p.stage(ctx, domain.StageConfigure, domain.StageConfigure, func(ctx context.Context) (bool, error) {
		if !required {
			return true, nil
		}
		if _, err := p.deps.Cache.Ensure(res.InstallDir); err != nil {
			return false, err
		}
		return false, p.deps.Builder.RunConfigure(ctx, res.NginxSourceDir, flags)
	})
	if err != nil {
		return err
	}

	return p.stage(ctx, domain.StageInstall, domain.StageInstall, func(ctx context.Context) (bool, error) {
		if !required {
			return true, nil
		}
		if err := p.deps.Builder.RunBuild(ctx, res.NginxSourceDir, domain.StageInstall); err != nil {
			return false, err
		}
		err := p.deps.Records.Put(res.CacheRoot, domain.BuildInfo{
			Target:      p.cfg.Target(),
			Fingerprint: string(res.Fingerprint),
			Digest:      res.Fingerprint.Digest(),
			InstallDir:  res.InstallDir,
			Timestamp:   p.now(),
		})
		if err != nil {
			return false, err
		}
		return false, p.deps.Planner.Commit(res.NginxSourceDir, res.Fingerprint)
	})
}

// stage runs fn inside a span and a telemetry vertex. fn reports whether its
// output was already current.
func (p *Pipeline) stage(
	ctx context.Context,
	kind, name string,
	fn func(context.Context) (bool, error),
) error {
	ctx, span := p.deps.Tracer.Start(ctx, name, ports.WithSpanAttribute(domain.SpanStageKey, kind))
	defer span.End()

	ctx, vertex := p.deps.Telemetry.Record(ctx, name)
	p.updateStatus(name, StatusRunning)

	cached, err := fn(ctx)
	switch {
	case err != nil:
		span.RecordError(err)
		vertex.Complete(err)
		p.updateStatus(name, StatusFailed)
	case cached:
		span.SetAttribute("cached", true)
		vertex.Cached()
		p.updateStatus(name, StatusCached)
	default:
		vertex.Complete(nil)
		p.updateStatus(name, StatusCompleted)
	}
	return err
}

func (p *Pipeline) updateStatus(name string, status StageStatus) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, seen := p.status[name]; !seen {
		p.order = append(p.order, name)
	}
	p.status[name] = status
}

// Status returns the status of the named stage.
func (p *Pipeline) Status(name string) StageStatus {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if s, ok := p.status[name]; ok {
		return s
	}
	return StatusPending
}

// Stages returns the names of the stages started so far, in order.
func (p *Pipeline) Stages() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]string(nil), p.order...)
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
