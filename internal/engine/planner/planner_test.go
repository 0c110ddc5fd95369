package planner_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/ngxsys/internal/core/domain"
	"go.trai.ch/ngxsys/internal/core/ports/mocks"
	"go.trai.ch/ngxsys/internal/engine/planner"
	"go.uber.org/mock/gomock"
)

var deps = planner.DependencyPaths{
	Zlib:    "/c/src/linux-amd64/zlib-1.3",
	PCRE2:   "/c/src/linux-amd64/pcre2-10.42",
	OpenSSL: "/c/src/linux-amd64/openssl-3.0.7",
}

const installDir = "/c/nginx/1.24.0/linux-amd64"

func TestPlan_Order(t *testing.T) {
	flags := planner.Plan(installDir, deps, planner.Options{Debug: true, TargetOS: "linux"})

	require.Len(t, flags, 1+1+3+3+20)
	assert.Equal(t, "--prefix="+installDir, flags[0])
	assert.Equal(t, "--with-debug", flags[1])
	assert.Equal(t, "--with-file-aio", flags[2])
	assert.True(t, strings.HasPrefix(flags[3], "--with-cc-opt="))
	assert.True(t, strings.HasPrefix(flags[4], "--with-ld-opt="))
	assert.Equal(t, "--with-zlib="+deps.Zlib, flags[5])
	assert.Equal(t, "--with-pcre="+deps.PCRE2, flags[6])
	assert.Equal(t, "--with-openssl="+deps.OpenSSL, flags[7])
	assert.Equal(t, "--with-compat", flags[8])
	assert.Equal(t, "--with-threads", flags[len(flags)-1])
}

func TestPlan_KeepsDuplicateSliceModule(t *testing.T) {
	flags := planner.Plan(installDir, deps, planner.Options{TargetOS: "darwin"})

	count := 0
	for _, f := range flags {
		if f == "--with-http_slice_module" {
			count++
		}
	}
	assert.Equal(t, 2, count)
}

func TestPlan_NonLinux(t *testing.T) {
	flags := planner.Plan(installDir, deps, planner.Options{TargetOS: "darwin"})

	require.Len(t, flags, 1+3+20)
	assert.NotContains(t, flags, "--with-file-aio")
	assert.NotContains(t, flags, "--with-debug")
	assert.Equal(t, "--with-zlib="+deps.Zlib, flags[1])
}

func TestPlan_Deterministic(t *testing.T) {
	opts := planner.Options{TargetOS: "linux"}
	assert.Equal(t,
		planner.Plan(installDir, deps, opts).Fingerprint(),
		planner.Plan(installDir, deps, opts).Fingerprint())
}

func TestPlan_FingerprintSensitivity(t *testing.T) {
	base := planner.Plan(installDir, deps, planner.Options{TargetOS: "linux"}).Fingerprint()

	tests := []struct {
		name       string
		installDir string
		deps       planner.DependencyPaths
		opts       planner.Options
	}{
		{"debug", installDir, deps, planner.Options{Debug: true, TargetOS: "linux"}},
		{"target os", installDir, deps, planner.Options{TargetOS: "freebsd"}},
		{"install dir", "/c/nginx/1.25.0/linux-amd64", deps, planner.Options{TargetOS: "linux"}},
		{"zlib version", installDir, planner.DependencyPaths{
			Zlib: "/c/src/linux-amd64/zlib-1.3.1", PCRE2: deps.PCRE2, OpenSSL: deps.OpenSSL,
		}, planner.Options{TargetOS: "linux"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fp := planner.Plan(tt.installDir, tt.deps, tt.opts).Fingerprint()
			assert.NotEqual(t, base, fp)
		})
	}
}

func TestDecide(t *testing.T) {
	assert.False(t, planner.Decide(true, true, true).Required())
	assert.True(t, planner.Decide(false, true, true).Required())
	assert.True(t, planner.Decide(true, false, true).Required())
	assert.True(t, planner.Decide(true, true, false).Required())

	d := planner.Decide(true, false, true)
	assert.True(t, d.BinaryExists)
	assert.False(t, d.MakefileExists)
	assert.True(t, d.FingerprintUnchanged)
}

func TestResolvePaths(t *testing.T) {
	sources := []domain.ExtractedSource{
		{Name: domain.Nginx, SourceDir: "/s/nginx-1.24.0"},
		{Name: domain.Zlib, SourceDir: deps.Zlib},
		{Name: domain.OpenSSL, SourceDir: deps.OpenSSL},
		{Name: domain.PCRE2, SourceDir: deps.PCRE2},
	}

	paths, nginxDir, err := planner.ResolvePaths(sources)
	require.NoError(t, err)
	assert.Equal(t, deps, paths)
	assert.Equal(t, "/s/nginx-1.24.0", nginxDir)

	_, _, err = planner.ResolvePaths(sources[:3])
	assert.ErrorIs(t, err, domain.ErrMissingDependency)
}

func TestPlanner_Unchanged(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockFingerprintStore(ctrl)
	p := planner.New(store)
	fp := domain.Fingerprint("--prefix=/x")

	store.EXPECT().Load("/src").Return(fp, true, nil)
	unchanged, err := p.Unchanged("/src", fp)
	require.NoError(t, err)
	assert.True(t, unchanged)

	store.EXPECT().Load("/src").Return(domain.Fingerprint("--prefix=/y"), true, nil)
	unchanged, err = p.Unchanged("/src", fp)
	require.NoError(t, err)
	assert.False(t, unchanged)

	store.EXPECT().Load("/src").Return(domain.Fingerprint(""), false, nil)
	unchanged, err = p.Unchanged("/src", fp)
	require.NoError(t, err)
	assert.False(t, unchanged)

	store.EXPECT().Load("/src").Return(domain.Fingerprint(""), false, errors.New("denied"))
	_, err = p.Unchanged("/src", fp)
	assert.Error(t, err)
}

func TestPlanner_Commit(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockFingerprintStore(ctrl)

	store.EXPECT().Save("/src", domain.Fingerprint("flags")).Return(nil)
	require.NoError(t, planner.New(store).Commit("/src", "flags"))
}
