package cas

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/ngxsys/internal/core/ports"
)

const (
	// NodeID is the unique identifier for the build record store node.
	NodeID graft.ID = "adapter.build_info_store"
	// CacheNodeID is the unique identifier for the cache root node.
	CacheNodeID graft.ID = "adapter.cache_store"
	// FingerprintNodeID is the unique identifier for the fingerprint store node.
	FingerprintNodeID graft.ID = "adapter.fingerprint_store"
)

func init() {
	graft.Register(graft.Node[ports.BuildInfoStore]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.BuildInfoStore, error) {
			return NewStore(), nil
		},
	})

	graft.Register(graft.Node[ports.CacheStore]{
		ID:        CacheNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.CacheStore, error) {
			return NewCache(), nil
		},
	})

	graft.Register(graft.Node[ports.FingerprintStore]{
		ID:        FingerprintNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.FingerprintStore, error) {
			return NewFingerprintFile(), nil
		},
	})
}
