package telemetry

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/ngxsys/internal/adapters/logger"
	"go.trai.ch/ngxsys/internal/core/ports"
)

// TracerNodeID is the unique identifier for the tracer node.
const TracerNodeID graft.ID = "adapter.tracer"

// InstrumentationName names the tracer.
const InstrumentationName = "go.trai.ch/ngxsys"

func init() {
	graft.Register(graft.Node[ports.Tracer]{
		ID:        TracerNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.Tracer, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewOTelTracer(InstrumentationName, NewLogBridge(log)), nil
		},
	})
}
