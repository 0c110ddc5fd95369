package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/ngxsys/internal/adapters/config"
	"go.trai.ch/ngxsys/internal/core/domain"
	"go.trai.ch/zerr"
)

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()
	loader := config.NewLoaderWithEnv(nil, dir, "linux", "amd64")

	cfg, err := loader.Load("", "")
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultVersions(), cfg.Versions)
	assert.False(t, cfg.Debug)
	assert.Nil(t, cfg.Jobs)
	assert.Equal(t, "linux", cfg.TargetOS)
	assert.Equal(t, dir, cfg.ProjectDir)
	assert.Equal(t, filepath.Join(filepath.Dir(dir), ".cache"), cfg.CacheRoot())
}

func TestLoad_Env(t *testing.T) {
	project := t.TempDir()
	env := map[string]string{
		"NGX_VERSION":         "1.25.3",
		"OPENSSL_VERSION":     "1.1.1w",
		"NGX_DEBUG":           "true",
		"NUM_JOBS":            "6",
		"CARGO_CFG_TARGET_OS": "macos",
		"CARGO_TARGET_TMPDIR": "/tmp/ephemeral",
		"CARGO_MANIFEST_DIR":  project,
	}
	loader := config.NewLoaderWithEnv(env, "/unused", "linux", "amd64")

	cfg, err := loader.Load("", "")
	require.NoError(t, err)

	assert.Equal(t, "1.25.3", cfg.Versions.Nginx)
	assert.Equal(t, "1.1.1w", cfg.Versions.OpenSSL)
	assert.Equal(t, domain.DefaultZlibVersion, cfg.Versions.Zlib)
	assert.True(t, cfg.Debug)
	require.NotNil(t, cfg.Jobs)
	assert.Equal(t, "6", *cfg.Jobs)
	assert.Equal(t, "macos", cfg.TargetOS)
	assert.Equal(t, "linux", cfg.HostOS)
	assert.Equal(t, filepath.Clean("/tmp/ephemeral"), cfg.SourceRoot())
	assert.Equal(t, project, cfg.ProjectDir)
}

func TestLoad_EmptyJobsIsSet(t *testing.T) {
	loader := config.NewLoaderWithEnv(map[string]string{"NUM_JOBS": ""}, t.TempDir(), "linux", "amd64")

	cfg, err := loader.Load("", "")
	require.NoError(t, err)

	require.NotNil(t, cfg.Jobs)
	assert.Empty(t, *cfg.Jobs)
}

func TestLoad_EnvPrecedence(t *testing.T) {
	env := map[string]string{
		"NGX_TARGET_OS":       "freebsd",
		"CARGO_CFG_TARGET_OS": "macos",
		"NGX_DEBUG":           "1",
	}
	loader := config.NewLoaderWithEnv(env, t.TempDir(), "linux", "amd64")

	cfg, err := loader.Load("", "")
	require.NoError(t, err)

	assert.Equal(t, "freebsd", cfg.TargetOS)
	assert.False(t, cfg.Debug, "only the exact value true enables debug")
}

func TestLoad_File(t *testing.T) {
	project := t.TempDir()
	content := `
versions:
  nginx: 1.26.0
  zlib: 1.3.1
debug: true
jobs: 4
cache_dir: build-cache
`
	require.NoError(t, os.WriteFile(filepath.Join(project, "ngxsys.yaml"), []byte(content), domain.FilePerm))

	env := map[string]string{"ZLIB_VERSION": "1.2.13"}
	loader := config.NewLoaderWithEnv(env, "/unused", "linux", "amd64")

	cfg, err := loader.Load(project, "")
	require.NoError(t, err)

	assert.Equal(t, "1.26.0", cfg.Versions.Nginx)
	assert.Equal(t, "1.2.13", cfg.Versions.Zlib, "environment overrides the file")
	assert.True(t, cfg.Debug)
	require.NotNil(t, cfg.Jobs)
	assert.Equal(t, "4", *cfg.Jobs)
	assert.Equal(t, filepath.Join(project, "build-cache"), cfg.CacheRoot())
}

func TestLoad_FileUnknownField(t *testing.T) {
	project := t.TempDir()
	path := filepath.Join(project, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("nginx_version: 1.0\n"), domain.FilePerm))

	loader := config.NewLoaderWithEnv(nil, project, "linux", "amd64")
	_, err := loader.Load(project, path)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestLoad_ExplicitFileMissing(t *testing.T) {
	project := t.TempDir()
	loader := config.NewLoaderWithEnv(nil, project, "linux", "amd64")

	_, err := loader.Load(project, filepath.Join(project, "missing.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestLoad_InvalidVersion(t *testing.T) {
	env := map[string]string{"PCRE2_VERSION": "latest"}
	loader := config.NewLoaderWithEnv(env, t.TempDir(), "linux", "amd64")

	_, err := loader.Load("", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)

	zErr, ok := err.(*zerr.Error)
	require.True(t, ok, "expected *zerr.Error, got %T", err)
	meta := zErr.Metadata()
	assert.Equal(t, "pcre2", meta["dependency"])
	assert.Equal(t, "latest", meta["version"])
}

func TestValidVersion(t *testing.T) {
	tests := []struct {
		version string
		valid   bool
	}{
		{"1.3", true},
		{"10.42", true},
		{"3.0.7", true},
		{"1.24.0", true},
		{"1.1.1w", true},
		{"", false},
		{"latest", false},
		{"1.x", false},
		{"../1.0", false},
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			assert.Equal(t, tt.valid, config.ValidVersion(tt.version))
		})
	}
}
