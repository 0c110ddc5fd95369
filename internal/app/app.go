// Package app implements the application layer for ngxsys.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.trai.ch/ngxsys/internal/core/domain"
	"go.trai.ch/ngxsys/internal/core/ports"
	"go.trai.ch/ngxsys/internal/engine/bindings"
	"go.trai.ch/ngxsys/internal/engine/fetch"
	"go.trai.ch/ngxsys/internal/engine/includes"
	"go.trai.ch/ngxsys/internal/engine/keyring"
	"go.trai.ch/ngxsys/internal/engine/orchestrator"
	"go.trai.ch/ngxsys/internal/engine/pipeline"
	"go.trai.ch/ngxsys/internal/engine/planner"
	"go.trai.ch/ngxsys/internal/engine/verify"
	"go.trai.ch/ngxsys/internal/ui/style"
	"go.trai.ch/zerr"
)

// Log formats accepted by SetLogFormat.
const (
	LogFormatPretty = "pretty"
	LogFormatJSON   = "json"
)

// Adapters are the infrastructure the application drives.
type Adapters struct {
	ConfigLoader ports.ConfigLoader
	Logger       ports.Logger
	Cache        ports.CacheStore
	Fingerprints ports.FingerprintStore
	Records      ports.BuildInfoStore
	Trust        ports.TrustTool
	Downloader   ports.Downloader
	Extractor    ports.Extractor
	Runner       ports.CommandRunner
	Locator      ports.ToolLocator
	Tracer       ports.Tracer
	Telemetry    ports.Telemetry
}

// Options are the command line overrides applied on top of the loaded configuration.
type Options struct {
	ProjectDir string
	ConfigPath string
	Jobs       int // zero keeps the configured value
	Debug      *bool
	CacheDir   string
}

// App represents the main application logic.
type App struct {
	adapters Adapters
	out      io.Writer
}

// New creates a new App instance.
func New(adapters Adapters) *App {
	return &App{adapters: adapters, out: os.Stdout}
}

// WithOutput redirects command results, which go to stdout by default.
func (a *App) WithOutput(w io.Writer) *App {
	a.out = w
	return a
}

// SetLogFormat switches the logger between pretty and JSON output.
func (a *App) SetLogFormat(format string) error {
	switch format {
	case "", LogFormatPretty:
		return nil
	case LogFormatJSON:
		if l, ok := a.adapters.Logger.(interface{ SetJSON(bool) }); ok {
			l.SetJSON(true)
		}
		return nil
	default:
		return zerr.With(zerr.Wrap(domain.ErrInvalidConfig, "unknown log format"), "format", format)
	}
}

// Config loads the configuration and applies opts.
func (a *App) Config(opts Options) (*domain.Config, error) {
	cfg, err := a.adapters.ConfigLoader.Load(opts.ProjectDir, opts.ConfigPath)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}

	if opts.Jobs > 0 {
		jobs := strconv.Itoa(opts.Jobs)
		cfg.Jobs = &jobs
	}
	if opts.Debug != nil {
		cfg.Debug = *opts.Debug
	}
	if opts.CacheDir != "" {
		dir, err := filepath.Abs(opts.CacheDir)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(domain.ErrInvalidConfig, err.Error()), "cache_dir", opts.CacheDir)
		}
		cfg.CacheDir = dir
	}
	return cfg, nil
}

// Prepare runs the full pipeline and prints the include directories, one per line.
func (a *App) Prepare(ctx context.Context, opts Options) error {
	res, _, err := a.prepare(ctx, opts)
	if err != nil {
		return err
	}
	for _, dir := range res.Includes {
		if _, err := fmt.Fprintln(a.out, dir); err != nil {
			return err
		}
	}
	return nil
}

// Includes prints the -I arguments recovered from makefile.
func (a *App) Includes(makefile string) error {
	dirs, err := includes.Extract(makefile)
	if err != nil {
		return err
	}
	for _, arg := range includes.CompilerArgs(dirs) {
		if _, err := fmt.Fprintln(a.out, arg); err != nil {
			return err
		}
	}
	return nil
}

// Bindings prepares the tree, then either prints the generator arguments or,
// when out is set, runs the generator writing to out.
func (a *App) Bindings(ctx context.Context, opts Options, out string) error {
	res, cfg, err := a.prepare(ctx, opts)
	if err != nil {
		return err
	}

	req := bindings.NewRequest(includes.CompilerArgs(res.Includes))
	if out == "" {
		return bindings.Render(a.out, req)
	}

	if !filepath.IsAbs(out) {
		out = filepath.Join(cfg.ProjectDir, out)
	}
	gen := bindings.NewGenerator(a.adapters.Runner, a.adapters.Locator)
	if err := gen.Generate(ctx, cfg.ProjectDir, req, out); err != nil {
		return err
	}
	a.adapters.Logger.Info("bindings written to " + out)
	return nil
}

// Status prints the resolved configuration and the last build record without touching the network.
func (a *App) Status(opts Options) error {
	cfg, err := a.Config(opts)
	if err != nil {
		return err
	}

	record, err := a.adapters.Records.Get(cfg.CacheRoot(), cfg.Target())
	if err != nil {
		return err
	}

	return renderStatus(a.out, statusView{
		cfg:       cfg,
		jobs:      orchestrator.DefaultJobs(cfg.Jobs),
		trustTool: a.adapters.Trust.Available(),
		record:    record,
		lookupEnv: os.LookupEnv,
	})
}

// Close flushes telemetry.
func (a *App) Close() error {
	if a.adapters.Telemetry == nil {
		return nil
	}
	return a.adapters.Telemetry.Close()
}

func (a *App) prepare(ctx context.Context, opts Options) (*pipeline.Result, *domain.Config, error) {
	cfg, err := a.Config(opts)
	if err != nil {
		return nil, nil, err
	}

	ctx, span := a.adapters.Tracer.Start(ctx, "prepare", ports.WithSpanAttribute("target", cfg.Target()))
	defer span.End()

	res, err := a.pipeline(cfg).Run(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, nil, err
	}

	span.SetAttribute("rebuilt", res.Rebuilt)
	if res.Rebuilt {
		a.adapters.Logger.Info("nginx " + cfg.Versions.Nginx + " installed to " + res.InstallDir)
	} else {
		a.adapters.Logger.Info("nginx " + cfg.Versions.Nginx + " is up to date")
	}
	return res, cfg, nil
}

// pipeline assembles the engine for cfg.
func (a *App) pipeline(cfg *domain.Config) *pipeline.Pipeline {
	ad := a.adapters
	return pipeline.New(cfg, pipeline.Deps{
		Cache:     ad.Cache,
		Keys:      keyring.New(ad.Trust, ad.Logger),
		Archives:  verify.New(fetch.New(ad.Downloader, ad.Logger), ad.Trust, ad.Logger),
		Extractor: ad.Extractor,
		Planner:   planner.New(ad.Fingerprints),
		Builder:   orchestrator.New(ad.Runner, ad.Locator, ad.Logger, orchestrator.DefaultJobs(cfg.Jobs)),
		Records:   ad.Records,
		Tracer:    ad.Tracer,
		Telemetry: ad.Telemetry,
		Logger:    ad.Logger,
	})
}

type statusView struct {
	cfg       *domain.Config
	jobs      int
	trustTool bool
	record    *domain.BuildInfo
	lookupEnv func(string) (string, bool)
}

func renderStatus(w io.Writer, v statusView) error {
	var b strings.Builder
	row := func(key, value string) {
		fmt.Fprintf(&b, "  %-20s %s\n", key, value)
	}

	b.WriteString(style.Line(style.Slate, "Configuration") + "\n")
	row("project", v.cfg.ProjectDir)
	row("target", v.cfg.Target())
	row("zlib", v.cfg.Versions.Zlib)
	row("pcre2", v.cfg.Versions.PCRE2)
	row("openssl", v.cfg.Versions.OpenSSL)
	row("nginx", v.cfg.Versions.Nginx)
	row("debug", strconv.FormatBool(v.cfg.Debug))
	row("jobs", strconv.Itoa(v.jobs))
	if v.trustTool {
		row("gpg", "available")
	} else {
		row("gpg", "missing, downloads are not verified")
	}

	b.WriteString("\n" + style.Line(style.Slate, "Paths") + "\n")
	row("cache root", v.cfg.CacheRoot())
	row("source root", v.cfg.SourceRoot())
	row("install dir", v.cfg.InstallDir())

	b.WriteString("\n" + style.Line(style.Slate, "Last build") + "\n")
	if v.record == nil {
		row("status", "never built")
	} else {
		row("built at", v.record.Timestamp.UTC().Format("2006-01-02 15:04:05 MST"))
		row("digest", v.record.Digest)
		row("install dir", v.record.InstallDir)
	}

	b.WriteString("\n" + style.Line(style.Slate, "Watched environment") + "\n")
	for _, name := range domain.WatchedEnvVars {
		value, ok := v.lookupEnv(name)
		if !ok {
			value = "(unset)"
		}
		row(name, value)
	}

	_, err := io.WriteString(w, b.String())
	return err
}
