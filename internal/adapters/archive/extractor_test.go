package archive_test

import (
	"archive/tar"
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/ngxsys/internal/adapters/archive"
	"go.trai.ch/ngxsys/internal/core/domain"
	"go.trai.ch/ngxsys/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

type entry struct {
	hdr  tar.Header
	body string
}

func writeArchive(t *testing.T, dir, name string, entries []entry) string {
	t.Helper()

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	for _, e := range entries {
		hdr := e.hdr
		hdr.Size = int64(len(e.body))
		require.NoError(t, tw.WriteHeader(&hdr))
		if e.body != "" {
			_, err := tw.Write([]byte(e.body))
			require.NoError(t, err)
		}
	}
	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())

	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, buf.Bytes(), 0o600))
	return p
}

func nginxEntries() []entry {
	return []entry{
		{hdr: tar.Header{Name: "nginx-1.24.0/", Typeflag: tar.TypeDir, Mode: 0o755}},
		{hdr: tar.Header{Name: "nginx-1.24.0/configure", Typeflag: tar.TypeReg, Mode: 0o755}, body: "#!/bin/sh\n"},
		{hdr: tar.Header{Name: "nginx-1.24.0/src/core/nginx.h", Typeflag: tar.TypeReg, Mode: 0o644}, body: "#define NGINX_VERSION \"1.24.0\"\n"},
		{hdr: tar.Header{Name: "nginx-1.24.0/auto/cc", Typeflag: tar.TypeSymlink, Linkname: "../configure", Mode: 0o777}},
		{hdr: tar.Header{Name: "nginx-1.24.0/LICENSE.copy", Typeflag: tar.TypeLink, Linkname: "nginx-1.24.0/configure"}},
	}
}

func TestExtract_StripsWrapper(t *testing.T) {
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)

	dir := t.TempDir()
	archivePath := writeArchive(t, dir, "nginx-1.24.0.tar.gz", nginxEntries())
	outputRoot := filepath.Join(dir, "src", "linux-amd64")

	src, err := archive.NewExtractor(logger).Extract(archivePath, outputRoot)
	require.NoError(t, err)

	assert.Equal(t, domain.Nginx, src.Name)
	assert.Equal(t, filepath.Join(outputRoot, "nginx-1.24.0"), src.SourceDir)
	assert.Zero(t, src.Skipped)

	info, err := os.Stat(filepath.Join(src.SourceDir, "configure"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())

	data, err := os.ReadFile(filepath.Join(src.SourceDir, "src", "core", "nginx.h"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "1.24.0")

	link, err := os.Readlink(filepath.Join(src.SourceDir, "auto", "cc"))
	require.NoError(t, err)
	assert.Equal(t, "../configure", link)

	assert.FileExists(t, filepath.Join(src.SourceDir, "LICENSE.copy"))
	assert.NoDirExists(t, filepath.Join(src.SourceDir, "nginx-1.24.0"))
}

func TestExtract_Idempotent(t *testing.T) {
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)

	dir := t.TempDir()
	archivePath := writeArchive(t, dir, "zlib-1.3.tar.gz", []entry{
		{hdr: tar.Header{Name: "zlib-1.3/zlib.h", Typeflag: tar.TypeReg, Mode: 0o644}, body: "original"},
	})
	outputRoot := filepath.Join(dir, "src")
	extractor := archive.NewExtractor(logger)

	first, err := extractor.Extract(archivePath, outputRoot)
	require.NoError(t, err)

	// A local edit must survive a second run.
	header := filepath.Join(first.SourceDir, "zlib.h")
	require.NoError(t, os.WriteFile(header, []byte("edited"), 0o600))

	second, err := extractor.Extract(archivePath, outputRoot)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	data, err := os.ReadFile(header)
	require.NoError(t, err)
	assert.Equal(t, "edited", string(data))
}

func TestExtract_ExistingDirSkipsMissingArchive(t *testing.T) {
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)

	outputRoot := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(outputRoot, "pcre2-10.42"), 0o750))

	src, err := archive.NewExtractor(logger).Extract("/nonexistent/pcre2-10.42.tar.gz", outputRoot)
	require.NoError(t, err)
	assert.Equal(t, domain.PCRE2, src.Name)
	assert.Equal(t, filepath.Join(outputRoot, "pcre2-10.42"), src.SourceDir)
}

func TestExtract_CountsSkippedEntries(t *testing.T) {
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Warn(gomock.Any()).Do(func(msg string) {
		assert.Contains(t, msg, "skipped 1")
		assert.Contains(t, msg, "openssl-3.0.7.tar.gz")
	})

	dir := t.TempDir()
	archivePath := writeArchive(t, dir, "openssl-3.0.7.tar.gz", []entry{
		{hdr: tar.Header{Name: "openssl-3.0.7/Configure", Typeflag: tar.TypeReg, Mode: 0o755}, body: "perl"},
		{hdr: tar.Header{Name: "openssl-3.0.7/dev/null", Typeflag: tar.TypeChar, Mode: 0o666}},
	})

	src, err := archive.NewExtractor(logger).Extract(archivePath, filepath.Join(dir, "src"))
	require.NoError(t, err)
	assert.Equal(t, domain.OpenSSL, src.Name)
	assert.Equal(t, 1, src.Skipped)
	assert.FileExists(t, filepath.Join(src.SourceDir, "Configure"))
}

func TestExtract_ConfinesTraversal(t *testing.T) {
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)

	dir := t.TempDir()
	archivePath := writeArchive(t, dir, "nginx-1.24.0.tar.gz", []entry{
		{hdr: tar.Header{Name: "nginx-1.24.0/../../escape", Typeflag: tar.TypeReg, Mode: 0o644}, body: "x"},
		{hdr: tar.Header{Name: "nginx-1.24.0/ok", Typeflag: tar.TypeReg, Mode: 0o644}, body: "y"},
	})
	outputRoot := filepath.Join(dir, "out", "src")

	src, err := archive.NewExtractor(logger).Extract(archivePath, outputRoot)
	require.NoError(t, err)

	assert.NoFileExists(t, filepath.Join(dir, "escape"))
	assert.NoFileExists(t, filepath.Join(dir, "out", "escape"))
	assert.FileExists(t, filepath.Join(src.SourceDir, "ok"))
}

func TestExtract_UnknownName(t *testing.T) {
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)

	_, err := archive.NewExtractor(logger).Extract("/tmp/nodash.tar.gz", t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDependencyNameUnknown)
}

func TestExtract_OpenFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)
	dir := t.TempDir()

	t.Run("missing archive", func(t *testing.T) {
		_, err := archive.NewExtractor(logger).Extract(filepath.Join(dir, "zlib-1.3.tar.gz"), filepath.Join(dir, "a"))
		assert.ErrorIs(t, err, domain.ErrArchiveOpenFailed)
	})

	t.Run("not gzip", func(t *testing.T) {
		p := filepath.Join(dir, "zlib-1.3.1.tar.gz")
		require.NoError(t, os.WriteFile(p, []byte("plain text"), 0o600))
		_, err := archive.NewExtractor(logger).Extract(p, filepath.Join(dir, "b"))
		assert.ErrorIs(t, err, domain.ErrArchiveOpenFailed)
	})
}

func TestExtract_CorruptStreamRemovesStaging(t *testing.T) {
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)

	dir := t.TempDir()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err := gz.Write(bytes.Repeat([]byte{0xff}, 1024))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	archivePath := filepath.Join(dir, "nginx-1.24.0.tar.gz")
	require.NoError(t, os.WriteFile(archivePath, buf.Bytes(), 0o600))

	outputRoot := filepath.Join(dir, "src")
	_, err = archive.NewExtractor(logger).Extract(archivePath, outputRoot)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrArchiveReadFailed)

	entries, err := os.ReadDir(outputRoot)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
