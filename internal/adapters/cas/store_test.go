package cas_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/ngxsys/internal/adapters/cas"
	"go.trai.ch/ngxsys/internal/core/domain"
)

func TestStore_PutAndGet(t *testing.T) {
	root := t.TempDir()
	store := cas.NewStore()

	info := domain.BuildInfo{
		Target:      "nginx-1.24.0",
		Fingerprint: "--prefix=/x",
		Digest:      domain.Fingerprint("--prefix=/x").Digest(),
		InstallDir:  "/x",
		Timestamp:   time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, store.Put(root, info))

	got, err := store.Get(root, "nginx-1.24.0")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, info.Fingerprint, got.Fingerprint)
	assert.Equal(t, info.Digest, got.Digest)
	assert.True(t, info.Timestamp.Equal(got.Timestamp))
}

func TestStore_Persistence(t *testing.T) {
	root := t.TempDir()

	require.NoError(t, cas.NewStore().Put(root, domain.BuildInfo{Target: "a", Digest: "1"}))
	require.NoError(t, cas.NewStore().Put(root, domain.BuildInfo{Target: "b", Digest: "2"}))

	store := cas.NewStore()
	a, err := store.Get(root, "a")
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.Equal(t, "1", a.Digest)

	b, err := store.Get(root, "b")
	require.NoError(t, err)
	require.NotNil(t, b)
	assert.Equal(t, "2", b.Digest)
}

func TestStore_GetMissing(t *testing.T) {
	got, err := cas.NewStore().Get(t.TempDir(), "missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_Corrupt(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, domain.BuildInfoFileName), []byte("{"), domain.FilePerm))

	_, err := cas.NewStore().Get(root, "a")
	require.Error(t, err)
}
