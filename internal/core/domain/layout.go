package domain

import "path/filepath"

const (
	// CacheDirName is the name of the cache directory created beside the project root.
	CacheDirName = ".cache"

	// GnupgDirName is the name of the cache-local trust store home.
	GnupgDirName = ".gnupg"

	// SourceDirName is the name of the extracted sources directory.
	SourceDirName = "src"

	// InstallDirName is the name of the install tree directory.
	InstallDirName = "nginx"

	// FingerprintFileName is the file beside the nginx sources holding the last fingerprint.
	FingerprintFileName = "last-build-info"

	// BuildInfoFileName is the name of the build record store.
	BuildInfoFileName = "build-info.json"

	// ConfigFileName is the name of the optional project configuration file.
	ConfigFileName = "ngxsys.yaml"

	// KeyMarkerSuffix is appended to a key id to name its import marker.
	KeyMarkerSuffix = ".key"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// PrivateDirPerm is the permission for the trust store home (rwx------).
	PrivateDirPerm = 0o700

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// PlatformDir names the per-platform directory, e.g. "linux-amd64".
func PlatformDir(goos, goarch string) string {
	return goos + "-" + goarch
}

// GnupgHome returns the trust store home under the cache root.
func GnupgHome(cacheRoot string) string {
	return filepath.Join(cacheRoot, GnupgDirName)
}

// KeyMarkerPath returns the marker file recording that keyID was imported.
func KeyMarkerPath(cacheRoot, keyID string) string {
	return filepath.Join(GnupgHome(cacheRoot), keyID+KeyMarkerSuffix)
}

// DefaultSourceRoot returns the extraction root used when no ephemeral override is set.
func DefaultSourceRoot(cacheRoot, goos, goarch string) string {
	return filepath.Join(cacheRoot, SourceDirName, PlatformDir(goos, goarch))
}

// InstallDir returns the install prefix for an nginx version.
func InstallDir(cacheRoot, nginxVersion, goos, goarch string) string {
	return filepath.Join(cacheRoot, InstallDirName, nginxVersion, PlatformDir(goos, goarch))
}

// BinaryPath returns the primary executable inside an install prefix.
func BinaryPath(installDir string) string {
	return filepath.Join(installDir, "sbin", "nginx")
}
