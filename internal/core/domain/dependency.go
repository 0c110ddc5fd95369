package domain

import (
	"path"
	"strings"
)

// Dependency names as derived from archive file names.
const (
	Zlib    = "zlib"
	PCRE2   = "pcre2"
	OpenSSL = "openssl"
	Nginx   = "nginx"
)

// KeyIdentity is a set of signing key ids retrievable from one key server.
type KeyIdentity struct {
	Server string
	KeyIDs []string
}

// Dependency is a pinned source archive with its detached signature.
type Dependency struct {
	Name         string
	Version      string
	ArchiveURL   string
	SignatureURL string
	Keys         KeyIdentity
}

// ArchiveName returns the final path segment of the archive URL.
func (d Dependency) ArchiveName() string {
	return path.Base(d.ArchiveURL)
}

// ExtractedSource is an unpacked dependency source tree.
type ExtractedSource struct {
	Name      string
	SourceDir string
	Skipped   int // entries that could not be unpacked
}

type dependencySpec struct {
	name     string
	url      func(version string) string
	sigExt   string
	keys     KeyIdentity
	resolver func(v Versions) string
}

var dependencySpecs = []dependencySpec{
	{
		name: Zlib,
		url: func(v string) string {
			return "https://www.zlib.net/zlib-" + v + ".tar.gz"
		},
		sigExt: ".asc",
		keys: KeyIdentity{
			Server: "keyserver.ubuntu.com",
			KeyIDs: []string{"783FCD8E58BCAFBA"},
		},
		resolver: func(v Versions) string { return v.Zlib },
	},
	{
		name: PCRE2,
		url: func(v string) string {
			return "https://github.com/PCRE2Project/pcre2/releases/download/pcre2-" + v + "/pcre2-" + v + ".tar.gz"
		},
		sigExt: ".sig",
		keys: KeyIdentity{
			Server: "keyserver.ubuntu.com",
			KeyIDs: []string{"9766E084FB0F43D8"},
		},
		resolver: func(v Versions) string { return v.PCRE2 },
	},
	{
		name: OpenSSL,
		url: func(v string) string {
			return "https://www.openssl.org/source/openssl-" + v + ".tar.gz"
		},
		sigExt: ".asc",
		keys: KeyIdentity{
			Server: "keys.openpgp.org",
			KeyIDs: []string{
				"A21FAB74B0088AA361152586B8EF1A6BA9DA2D5C",
				"8657ABB260F056B1E5190839D9C4D26D0E604491",
				"B7C1C14360F353A36862E4D5231C84CDDCC69C45",
				"95A9908DDFA16830BE9FB9003D30A3A9FF1360DC",
				"7953AC1FBC3DC8B3B292393ED5E9E43F7DF9EE8C",
			},
		},
		resolver: func(v Versions) string { return v.OpenSSL },
	},
	{
		name: Nginx,
		url: func(v string) string {
			return "https://nginx.org/download/nginx-" + v + ".tar.gz"
		},
		sigExt: ".asc",
		keys: KeyIdentity{
			Server: "keyserver.ubuntu.com",
			KeyIDs: []string{"A0EA981B66B0D967"},
		},
		resolver: func(v Versions) string { return v.Nginx },
	},
}

// Dependencies returns the pinned dependency set in build order: zlib, pcre2, openssl, nginx.
func Dependencies(v Versions) []Dependency {
	deps := make([]Dependency, 0, len(dependencySpecs))
	for _, s := range dependencySpecs {
		version := s.resolver(v)
		archive := s.url(version)
		deps = append(deps, Dependency{
			Name:         s.name,
			Version:      version,
			ArchiveURL:   archive,
			SignatureURL: archive + s.sigExt,
			Keys:         s.keys,
		})
	}
	return deps
}

// KeyIdentities returns the signing keys of every dependency.
func KeyIdentities(deps []Dependency) []KeyIdentity {
	ids := make([]KeyIdentity, 0, len(deps))
	for _, d := range deps {
		ids = append(ids, d.Keys)
	}
	return ids
}

// ArchiveStem strips the compression and archive suffixes from a file name,
// e.g. "pcre2-10.42.tar.gz" becomes "pcre2-10.42".
func ArchiveStem(fileName string) string {
	stem := fileName
	for range 2 {
		i := strings.LastIndexByte(stem, '.')
		if i < 0 {
			break
		}
		stem = stem[:i]
	}
	return stem
}

// DependencyName derives the dependency name from an archive file name.
// It reports false when the stem carries no version separator.
func DependencyName(fileName string) (string, bool) {
	name, _, ok := strings.Cut(ArchiveStem(fileName), "-")
	if !ok || name == "" {
		return "", false
	}
	return name, true
}
