package gpg

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/ngxsys/internal/core/ports"
)

// NodeID is the unique identifier for the trust tool node.
const NodeID graft.ID = "adapter.trust_tool"

func init() {
	graft.Register(graft.Node[ports.TrustTool]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.TrustTool, error) {
			return NewTool(), nil
		},
	})
}
