package shell

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/ngxsys/internal/adapters/logger"
	"go.trai.ch/ngxsys/internal/core/ports"
)

const (
	// NodeID is the unique identifier for the command runner node.
	NodeID graft.ID = "adapter.runner"
	// LocatorNodeID is the unique identifier for the tool locator node.
	LocatorNodeID graft.ID = "adapter.tool_locator"
)

func init() {
	graft.Register(graft.Node[ports.CommandRunner]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.CommandRunner, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewRunner(log), nil
		},
	})

	graft.Register(graft.Node[ports.ToolLocator]{
		ID:        LocatorNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.ToolLocator, error) {
			return Locator{}, nil
		},
	})
}
