package ports

import (
	"context"

	"go.trai.ch/ngxsys/internal/core/domain"
)

//go:generate mockgen -source=fetch.go -destination=mocks/mock_fetch.go -package=mocks

// Downloader retrieves a remote resource to a local path.
type Downloader interface {
	// Download streams url into dest. dest is either complete or absent afterwards.
	Download(ctx context.Context, url, dest string) error
}

// Extractor unpacks a source archive.
type Extractor interface {
	// Extract unpacks archivePath beneath outputRoot, stripping the archive's wrapper directory.
	Extract(archivePath, outputRoot string) (domain.ExtractedSource, error)
}
