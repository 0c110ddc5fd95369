// Package planner computes nginx's configure flags and the rebuild decision.
package planner

import (
	"go.trai.ch/ngxsys/internal/core/domain"
	"go.trai.ch/ngxsys/internal/core/ports"
	"go.trai.ch/zerr"
)

// baseModules are enabled on every platform. The slice module appears twice,
// and existing fingerprints depend on that.
var baseModules = []string{
	"--with-compat",
	"--with-http_addition_module",
	"--with-http_auth_request_module",
	"--with-http_flv_module",
	"--with-http_gunzip_module",
	"--with-http_gzip_static_module",
	"--with-http_random_index_module",
	"--with-http_realip_module",
	"--with-http_secure_link_module",
	"--with-http_slice_module",
	"--with-http_slice_module",
	"--with-http_ssl_module",
	"--with-http_stub_status_module",
	"--with-http_sub_module",
	"--with-http_v2_module",
	"--with-stream_realip_module",
	"--with-stream_ssl_module",
	"--with-stream_ssl_preread_module",
	"--with-stream",
	"--with-threads",
}

var linuxOpts = []string{
	"--with-file-aio",
	"--with-cc-opt=-g -fstack-protector-strong -Wformat -Werror=format-security -Wp,-D_FORTIFY_SOURCE=2 -fPIC",
	"--with-ld-opt=-Wl,-Bsymbolic-functions -Wl,-z,relro -Wl,-z,now -Wl,--as-needed -pie",
}

// DependencyPaths locates the extracted library sources nginx is built against.
type DependencyPaths struct {
	Zlib    string
	PCRE2   string
	OpenSSL string
}

// Options are the build switches that are not paths.
type Options struct {
	Debug    bool
	TargetOS string
}

// Plan returns the configure flags in their fixed order.
func Plan(installDir string, deps DependencyPaths, opts Options) domain.BuildConfiguration {
	flags := make(domain.BuildConfiguration, 0, 2+len(linuxOpts)+3+len(baseModules))
	flags = append(flags, "--prefix="+installDir)
	if opts.Debug {
		flags = append(flags, "--with-debug")
	}
	if opts.TargetOS == "linux" {
		flags = append(flags, linuxOpts...)
	}
	flags = append(flags,
		"--with-zlib="+deps.Zlib,
		"--with-pcre="+deps.PCRE2,
		"--with-openssl="+deps.OpenSSL,
	)
	return append(flags, baseModules...)
}

// Decide records the rebuild inputs.
func Decide(binaryExists, makefileExists, fingerprintUnchanged bool) domain.RebuildDecision {
	return domain.RebuildDecision{
		BinaryExists:         binaryExists,
		MakefileExists:       makefileExists,
		FingerprintUnchanged: fingerprintUnchanged,
	}
}

// ResolvePaths picks the source directory of each library from the extracted set.
// The nginx source directory is returned separately.
func ResolvePaths(sources []domain.ExtractedSource) (DependencyPaths, string, error) {
	byName := make(map[string]string, len(sources))
	for _, s := range sources {
		byName[s.Name] = s.SourceDir
	}

	lookup := func(name string) (string, error) {
		dir, ok := byName[name]
		if !ok {
			return "", zerr.With(zerr.Wrap(domain.ErrMissingDependency, "dependency was not extracted"), "dependency", name)
		}
		return dir, nil
	}

	var (
		paths DependencyPaths
		err   error
	)
	if paths.Zlib, err = lookup(domain.Zlib); err != nil {
		return DependencyPaths{}, "", err
	}
	if paths.PCRE2, err = lookup(domain.PCRE2); err != nil {
		return DependencyPaths{}, "", err
	}
	if paths.OpenSSL, err = lookup(domain.OpenSSL); err != nil {
		return DependencyPaths{}, "", err
	}
	nginxDir, err := lookup(domain.Nginx)
	if err != nil {
		return DependencyPaths{}, "", err
	}
	return paths, nginxDir, nil
}

// Planner pairs the pure planning functions with the fingerprint store.
type Planner struct {
	store ports.FingerprintStore
}

// New creates a Planner.
func New(store ports.FingerprintStore) *Planner {
	return &Planner{store: store}
}

// Unchanged reports whether fp equals the fingerprint recorded beside nginxSourceDir.
// A missing record counts as changed.
func (p *Planner) Unchanged(nginxSourceDir string, fp domain.Fingerprint) (bool, error) {
	last, ok, err := p.store.Load(nginxSourceDir)
	if err != nil {
		return false, err
	}
	return ok && last == fp, nil
}

// Commit records fp as the configuration of the last successful build.
func (p *Planner) Commit(nginxSourceDir string, fp domain.Fingerprint) error {
	return p.store.Save(nginxSourceDir, fp)
}
