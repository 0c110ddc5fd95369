package app

import (
	"io"

	"go.trai.ch/ngxsys/internal/core/domain"
)

// RenderStatus exposes the status renderer with a fixed environment.
func RenderStatus(
	w io.Writer,
	cfg *domain.Config,
	jobs int,
	trustTool bool,
	record *domain.BuildInfo,
	env map[string]string,
) error {
	return renderStatus(w, statusView{
		cfg:       cfg,
		jobs:      jobs,
		trustTool: trustTool,
		record:    record,
		lookupEnv: func(name string) (string, bool) {
			v, ok := env[name]
			return v, ok
		},
	})
}
