package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/ngxsys/internal/core/domain"
)

func TestDependencies_DefaultVersions(t *testing.T) {
	deps := domain.Dependencies(domain.DefaultVersions())
	require.Len(t, deps, 4)

	names := make([]string, 0, len(deps))
	for _, d := range deps {
		names = append(names, d.Name)
	}
	assert.Equal(t, []string{domain.Zlib, domain.PCRE2, domain.OpenSSL, domain.Nginx}, names)

	assert.Equal(t, "https://www.zlib.net/zlib-1.3.tar.gz", deps[0].ArchiveURL)
	assert.Equal(t, "https://www.zlib.net/zlib-1.3.tar.gz.asc", deps[0].SignatureURL)
	assert.Equal(t,
		"https://github.com/PCRE2Project/pcre2/releases/download/pcre2-10.42/pcre2-10.42.tar.gz.sig",
		deps[1].SignatureURL)
	assert.Equal(t, "https://www.openssl.org/source/openssl-3.0.7.tar.gz", deps[2].ArchiveURL)
	assert.Len(t, deps[2].Keys.KeyIDs, 5)
	assert.Equal(t, "keys.openpgp.org", deps[2].Keys.Server)
	assert.Equal(t, "https://nginx.org/download/nginx-1.24.0.tar.gz.asc", deps[3].SignatureURL)
	assert.Equal(t, "nginx-1.24.0.tar.gz", deps[3].ArchiveName())
}

func TestDependencies_VersionOverride(t *testing.T) {
	v := domain.DefaultVersions()
	v.Nginx = "1.25.3"

	deps := domain.Dependencies(v)
	assert.Equal(t, "1.25.3", deps[3].Version)
	assert.Equal(t, "https://nginx.org/download/nginx-1.25.3.tar.gz", deps[3].ArchiveURL)
}

func TestKeyIdentities(t *testing.T) {
	ids := domain.KeyIdentities(domain.Dependencies(domain.DefaultVersions()))
	require.Len(t, ids, 4)
	assert.Equal(t, []string{"A0EA981B66B0D967"}, ids[3].KeyIDs)
}

func TestArchiveStem(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"pcre2-10.42.tar.gz", "pcre2-10.42"},
		{"zlib-1.3.tar.gz", "zlib-1.3"},
		{"openssl-3.0.7.tar.gz", "openssl-3.0.7"},
		{"archive.tgz", "archive"},
		{"plain", "plain"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, domain.ArchiveStem(tt.input))
		})
	}
}

func TestDependencyName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		ok       bool
	}{
		{"pcre2-10.42.tar.gz", "pcre2", true},
		{"zlib-1.3.tar.gz", "zlib", true},
		{"nginx-1.24.0.tar.gz", "nginx", true},
		{"noversion.tar.gz", "", false},
		{"-1.0.tar.gz", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			name, ok := domain.DependencyName(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, name)
		})
	}
}
