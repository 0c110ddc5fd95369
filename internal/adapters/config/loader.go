// Package config resolves the run configuration from defaults, an optional file and the environment.
package config

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"go.trai.ch/ngxsys/internal/core/domain"
	"go.trai.ch/zerr"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

// Loader implements ports.ConfigLoader.
type Loader struct {
	lookupEnv func(string) (string, bool)
	getwd     func() (string, error)
	goos      string
	goarch    string
}

// NewLoader creates a Loader reading the process environment.
func NewLoader() *Loader {
	return &Loader{
		lookupEnv: os.LookupEnv,
		getwd:     os.Getwd,
		goos:      runtime.GOOS,
		goarch:    runtime.GOARCH,
	}
}

// Load resolves the configuration. Later sources override earlier ones:
// defaults, then the config file, then the environment.
func (l *Loader) Load(projectDir, configPath string) (*domain.Config, error) {
	dir, err := l.projectDir(projectDir)
	if err != nil {
		return nil, err
	}

	cfg := &domain.Config{
		Versions:   domain.DefaultVersions(),
		TargetOS:   l.goos,
		HostOS:     l.goos,
		HostArch:   l.goarch,
		ProjectDir: dir,
	}

	required := configPath != ""
	if !required {
		configPath = filepath.Join(dir, domain.ConfigFileName)
	}
	if err := applyFile(cfg, configPath, required); err != nil {
		return nil, err
	}

	l.applyEnv(cfg)

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (l *Loader) projectDir(explicit string) (string, error) {
	dir := explicit
	if dir == "" {
		dir = l.firstEnv(domain.EnvManifestDir, domain.EnvCargoManifestDir)
	}
	if dir == "" {
		wd, err := l.getwd()
		if err != nil {
			return "", zerr.Wrap(err, "failed to determine working directory")
		}
		dir = wd
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to resolve project directory"), "path", dir)
	}
	return abs, nil
}

func applyFile(cfg *domain.Config, path string, required bool) error {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		if !required && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return zerr.With(zerr.Wrap(errors.Join(domain.ErrInvalidConfig, err), "failed to read config file"), "path", path)
	}

	var file Configfile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return zerr.With(zerr.Wrap(errors.Join(domain.ErrInvalidConfig, err), "failed to parse config file"), "path", path)
	}

	overlay(&cfg.Versions.Zlib, file.Versions.Zlib)
	overlay(&cfg.Versions.PCRE2, file.Versions.PCRE2)
	overlay(&cfg.Versions.OpenSSL, file.Versions.OpenSSL)
	overlay(&cfg.Versions.Nginx, file.Versions.Nginx)
	overlay(&cfg.TargetOS, file.TargetOS)
	if file.Debug != nil {
		cfg.Debug = *file.Debug
	}
	if file.Jobs != nil {
		jobs := strconv.Itoa(*file.Jobs)
		cfg.Jobs = &jobs
	}
	if file.CacheDir != "" {
		cfg.CacheDir = resolve(cfg.ProjectDir, file.CacheDir)
	}
	if file.SourceDir != "" {
		cfg.SourceDir = resolve(cfg.ProjectDir, file.SourceDir)
	}
	return nil
}

func (l *Loader) applyEnv(cfg *domain.Config) {
	overlay(&cfg.Versions.Zlib, l.firstEnv(domain.EnvZlibVersion))
	overlay(&cfg.Versions.PCRE2, l.firstEnv(domain.EnvPCRE2Version))
	overlay(&cfg.Versions.OpenSSL, l.firstEnv(domain.EnvOpenSSLVersion))
	overlay(&cfg.Versions.Nginx, l.firstEnv(domain.EnvNginxVersion))
	overlay(&cfg.TargetOS, l.firstEnv(domain.EnvTargetOS, domain.EnvCargoTargetOS))

	if v, ok := l.lookupEnv(domain.EnvDebug); ok {
		cfg.Debug = v == "true"
	}
	if v, ok := l.lookupEnv(domain.EnvJobs); ok {
		cfg.Jobs = &v
	}
	if v := l.firstEnv(domain.EnvSourceDir, domain.EnvCargoTargetTmp); v != "" {
		cfg.SourceDir = resolve(cfg.ProjectDir, v)
	}
}

// firstEnv returns the first non-empty value among keys.
func (l *Loader) firstEnv(keys ...string) string {
	for _, k := range keys {
		if v, ok := l.lookupEnv(k); ok && v != "" {
			return v
		}
	}
	return ""
}

func overlay(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func resolve(base, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(base, p)
}

func validate(cfg *domain.Config) error {
	versions := []struct{ name, version string }{
		{domain.Zlib, cfg.Versions.Zlib},
		{domain.PCRE2, cfg.Versions.PCRE2},
		{domain.OpenSSL, cfg.Versions.OpenSSL},
		{domain.Nginx, cfg.Versions.Nginx},
	}
	for _, v := range versions {
		if !ValidVersion(v.version) {
			err := zerr.With(zerr.Wrap(domain.ErrInvalidConfig, "invalid dependency version"), "dependency", v.name)
			return zerr.With(err, "version", v.version)
		}
	}
	if cfg.TargetOS == "" {
		return zerr.Wrap(domain.ErrInvalidConfig, "target os is empty")
	}
	return nil
}

// ValidVersion reports whether v is a release number such as "1.3", "10.42" or "1.1.1w".
// A trailing letter suffix, as used by legacy OpenSSL releases, is accepted.
func ValidVersion(v string) bool {
	trimmed := strings.TrimRightFunc(v, func(r rune) bool { return r >= 'a' && r <= 'z' })
	return trimmed != "" && semver.IsValid("v"+trimmed)
}
