package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/ngxsys/internal/adapters/archive"            //nolint:depguard // Wired in app layer
	"go.trai.ch/ngxsys/internal/adapters/cas"                //nolint:depguard // Wired in app layer
	"go.trai.ch/ngxsys/internal/adapters/config"             //nolint:depguard // Wired in app layer
	"go.trai.ch/ngxsys/internal/adapters/download"           //nolint:depguard // Wired in app layer
	"go.trai.ch/ngxsys/internal/adapters/gpg"                //nolint:depguard // Wired in app layer
	"go.trai.ch/ngxsys/internal/adapters/logger"             //nolint:depguard // Wired in app layer
	"go.trai.ch/ngxsys/internal/adapters/shell"              //nolint:depguard // Wired in app layer
	"go.trai.ch/ngxsys/internal/adapters/telemetry"          //nolint:depguard // Wired in app layer
	"go.trai.ch/ngxsys/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in app layer
	"go.trai.ch/ngxsys/internal/core/ports"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			logger.NodeID,
			cas.CacheNodeID,
			cas.FingerprintNodeID,
			cas.NodeID,
			gpg.NodeID,
			download.NodeID,
			archive.NodeID,
			shell.NodeID,
			shell.LocatorNodeID,
			telemetry.TracerNodeID,
			progrock.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			a, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewComponents(a, log), nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	var (
		ad  Adapters
		err error
	)
	if ad.ConfigLoader, err = graft.Dep[ports.ConfigLoader](ctx); err != nil {
		return nil, err
	}
	if ad.Logger, err = graft.Dep[ports.Logger](ctx); err != nil {
		return nil, err
	}
	if ad.Cache, err = graft.Dep[ports.CacheStore](ctx); err != nil {
		return nil, err
	}
	if ad.Fingerprints, err = graft.Dep[ports.FingerprintStore](ctx); err != nil {
		return nil, err
	}
	if ad.Records, err = graft.Dep[ports.BuildInfoStore](ctx); err != nil {
		return nil, err
	}
	if ad.Trust, err = graft.Dep[ports.TrustTool](ctx); err != nil {
		return nil, err
	}
	if ad.Downloader, err = graft.Dep[ports.Downloader](ctx); err != nil {
		return nil, err
	}
	if ad.Extractor, err = graft.Dep[ports.Extractor](ctx); err != nil {
		return nil, err
	}
	if ad.Runner, err = graft.Dep[ports.CommandRunner](ctx); err != nil {
		return nil, err
	}
	if ad.Locator, err = graft.Dep[ports.ToolLocator](ctx); err != nil {
		return nil, err
	}
	if ad.Tracer, err = graft.Dep[ports.Tracer](ctx); err != nil {
		return nil, err
	}
	if ad.Telemetry, err = graft.Dep[ports.Telemetry](ctx); err != nil {
		return nil, err
	}
	return New(ad), nil
}
