package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
)

// BuildConfiguration is the ordered flag list passed to nginx's configure script.
type BuildConfiguration []string

// Fingerprint is the textual join of a BuildConfiguration used for change detection.
type Fingerprint string

// Fingerprint joins the flags with single spaces.
func (c BuildConfiguration) Fingerprint() Fingerprint {
	return Fingerprint(strings.Join(c, " "))
}

// Digest returns a short xxhash of the fingerprint for logs and build records.
func (f Fingerprint) Digest() string {
	h := xxhash.New()
	_, _ = h.WriteString(string(f))
	return fmt.Sprintf("%016x", h.Sum64())
}

// RebuildDecision records the inputs of the rebuild check.
type RebuildDecision struct {
	BinaryExists         bool
	MakefileExists       bool
	FingerprintUnchanged bool
}

// Required reports whether nginx must be reconfigured and rebuilt.
func (d RebuildDecision) Required() bool {
	return !d.BinaryExists || !d.MakefileExists || !d.FingerprintUnchanged
}

// BuildInfo represents the record of a successful build.
type BuildInfo struct {
	Target      string    `json:"target,omitzero"`
	Fingerprint string    `json:"fingerprint,omitzero"`
	Digest      string    `json:"digest,omitzero"`
	InstallDir  string    `json:"install_dir,omitzero"`
	Timestamp   time.Time `json:"timestamp,omitzero"`
}
