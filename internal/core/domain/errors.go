package domain

import "go.trai.ch/zerr"

var (
	// ErrCacheUnavailable is returned when the cache root cannot be created.
	ErrCacheUnavailable = zerr.New("cache directory unavailable")

	// ErrNetworkFailure is returned when a remote resource cannot be retrieved.
	ErrNetworkFailure = zerr.New("network request failed")

	// ErrFileIOFailure is returned when a cache file cannot be written, renamed or removed.
	ErrFileIOFailure = zerr.New("file operation failed")

	// ErrKeyImportFailed is returned when the trust tool is present but a key cannot be retrieved.
	ErrKeyImportFailed = zerr.New("failed to import signing key")

	// ErrSignatureMalformed is returned when a downloaded signature cannot be parsed.
	ErrSignatureMalformed = zerr.New("signature is malformed")

	// ErrSignatureMismatch is returned when an archive does not verify against its signature.
	ErrSignatureMismatch = zerr.New("archive signature verification failed")

	// ErrArchiveOpenFailed is returned when an archive cannot be opened or decompressed.
	ErrArchiveOpenFailed = zerr.New("failed to open archive")

	// ErrArchiveReadFailed is returned when the archive stream is corrupt.
	ErrArchiveReadFailed = zerr.New("failed to read archive")

	// ErrDependencyNameUnknown is returned when no dependency name can be derived from an archive.
	ErrDependencyNameUnknown = zerr.New("cannot derive dependency name")

	// ErrMissingDependency is returned when a required dependency was not extracted.
	ErrMissingDependency = zerr.New("missing dependency")

	// ErrConfigureScriptMissing is returned when the source tree has no configure script.
	ErrConfigureScriptMissing = zerr.New("configure script not found")

	// ErrToolNotFound is returned when no build tool binary is available.
	ErrToolNotFound = zerr.New("build tool not found")

	// ErrExternalBuildFailed is returned when configure or make exits with a non-zero status.
	ErrExternalBuildFailed = zerr.New("external build failed")

	// ErrMakefileUnreadable is returned when the generated makefile cannot be read.
	ErrMakefileUnreadable = zerr.New("generated makefile unreadable")

	// ErrInvalidConfig is returned when a configuration value cannot be used.
	ErrInvalidConfig = zerr.New("invalid configuration")

	// ErrBindingGenerationFailed is returned when the external binding generator fails.
	ErrBindingGenerationFailed = zerr.New("binding generation failed")
)
