package domain

import "path/filepath"

// Default dependency versions.
const (
	DefaultZlibVersion    = "1.3"
	DefaultPCRE2Version   = "10.42"
	DefaultOpenSSLVersion = "3.0.7"
	DefaultNginxVersion   = "1.24.0"
)

// Versions pins the version of each bundled dependency.
type Versions struct {
	Zlib    string `yaml:"zlib"`
	PCRE2   string `yaml:"pcre2"`
	OpenSSL string `yaml:"openssl"`
	Nginx   string `yaml:"nginx"`
}

// DefaultVersions returns the pinned default versions.
func DefaultVersions() Versions {
	return Versions{
		Zlib:    DefaultZlibVersion,
		PCRE2:   DefaultPCRE2Version,
		OpenSSL: DefaultOpenSSLVersion,
		Nginx:   DefaultNginxVersion,
	}
}

// Config is the resolved configuration of a single run.
// It is built once at startup and never read from the environment afterwards.
type Config struct {
	Versions   Versions
	Debug      bool
	Jobs       *string // raw job-count override, nil when unset
	TargetOS   string
	HostOS     string
	HostArch   string
	ProjectDir string // the cache lives beside it
	CacheDir   string // overrides the derived cache root
	SourceDir  string // overrides the extraction root
}

// CacheRoot returns the directory owning every artifact of this run.
func (c *Config) CacheRoot() string {
	if c.CacheDir != "" {
		return filepath.Clean(c.CacheDir)
	}
	return filepath.Join(filepath.Dir(filepath.Clean(c.ProjectDir)), CacheDirName)
}

// SourceRoot returns the directory extracted sources are unpacked into.
func (c *Config) SourceRoot() string {
	if c.SourceDir != "" {
		return filepath.Clean(c.SourceDir)
	}
	return DefaultSourceRoot(c.CacheRoot(), c.HostOS, c.HostArch)
}

// InstallDir returns the nginx install prefix.
func (c *Config) InstallDir() string {
	return InstallDir(c.CacheRoot(), c.Versions.Nginx, c.HostOS, c.HostArch)
}

// Target names the platform a build record belongs to, e.g. "linux-amd64".
func (c *Config) Target() string {
	return PlatformDir(c.TargetOS, c.HostArch)
}

// Environment variables that influence the build output.
const (
	EnvZlibVersion      = "ZLIB_VERSION"
	EnvPCRE2Version     = "PCRE2_VERSION"
	EnvOpenSSLVersion   = "OPENSSL_VERSION"
	EnvNginxVersion     = "NGX_VERSION"
	EnvDebug            = "NGX_DEBUG"
	EnvJobs             = "NUM_JOBS"
	EnvTargetOS         = "NGX_TARGET_OS"
	EnvCargoTargetOS    = "CARGO_CFG_TARGET_OS"
	EnvSourceDir        = "NGX_SRC_DIR"
	EnvCargoTargetTmp   = "CARGO_TARGET_TMPDIR"
	EnvManifestDir      = "NGX_MANIFEST_DIR"
	EnvCargoManifestDir = "CARGO_MANIFEST_DIR"
)

// WatchedEnvVars lists the variables a host build system should treat as rerun triggers.
var WatchedEnvVars = []string{
	EnvZlibVersion,
	EnvPCRE2Version,
	EnvOpenSSLVersion,
	EnvNginxVersion,
	EnvDebug,
	EnvJobs,
	EnvTargetOS,
	EnvCargoTargetOS,
}
