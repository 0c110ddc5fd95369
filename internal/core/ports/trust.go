package ports

import "context"

//go:generate mockgen -source=trust.go -destination=mocks/mock_trust.go -package=mocks

// TrustTool drives the external signature tool against a cache-local trust store home.
// Failing calls return an error carrying the tool's diagnostic text as "output".
type TrustTool interface {
	// Available reports whether the tool is installed.
	Available() bool
	// ImportKey retrieves keyID from server into home.
	ImportKey(ctx context.Context, home, server, keyID string) error
	// ListPackets parses a signature file without verifying it.
	ListPackets(ctx context.Context, home, signaturePath string) error
	// Verify checks archivePath against signaturePath.
	Verify(ctx context.Context, home, signaturePath, archivePath string) error
}
