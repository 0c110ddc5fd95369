package orchestrator_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/ngxsys/internal/core/domain"
	"go.trai.ch/ngxsys/internal/core/ports"
	"go.trai.ch/ngxsys/internal/core/ports/mocks"
	"go.trai.ch/ngxsys/internal/engine/orchestrator"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

func jobs(s string) *string { return &s }

func TestResolveJobs(t *testing.T) {
	tests := []struct {
		name     string
		override *string
		cpus     int
		want     int
	}{
		{"unset uses cpus", nil, 8, 8},
		{"unset without cpus", nil, 0, 1},
		{"explicit", jobs("4"), 8, 4},
		{"padded", jobs(" 3 "), 8, 3},
		{"set but empty", jobs(""), 8, 1},
		{"zero", jobs("0"), 8, 1},
		{"negative", jobs("-2"), 8, 1},
		{"garbage", jobs("lots"), 8, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, orchestrator.ResolveJobs(tt.override, tt.cpus))
		})
	}
}

func TestNew_ClampsJobs(t *testing.T) {
	ctrl := gomock.NewController(t)
	o := orchestrator.New(mocks.NewMockCommandRunner(ctrl), mocks.NewMockToolLocator(ctrl), mocks.NewMockLogger(ctrl), 0)
	assert.Equal(t, 1, o.Jobs())
}

func TestRunConfigure(t *testing.T) {
	ctrl := gomock.NewController(t)
	runner := mocks.NewMockCommandRunner(ctrl)
	logger := mocks.NewMockLogger(ctrl)
	src := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, "configure"), []byte("#!/bin/sh\n"), 0o700))
	flags := domain.BuildConfiguration{"--prefix=/x", "--with-compat"}

	logger.EXPECT().Info(gomock.Any()).Do(func(msg string) {
		assert.Contains(t, msg, "--prefix=/x --with-compat")
	})
	runner.EXPECT().Run(gomock.Any(), ports.Command{
		Name: filepath.Join(src, "configure"),
		Args: []string{"--prefix=/x", "--with-compat"},
		Dir:  src,
	}).Return(ports.CommandResult{}, nil)

	o := orchestrator.New(runner, mocks.NewMockToolLocator(ctrl), logger, 2)
	require.NoError(t, o.RunConfigure(context.Background(), src, flags))
}

func TestRunConfigure_MissingScript(t *testing.T) {
	ctrl := gomock.NewController(t)
	o := orchestrator.New(mocks.NewMockCommandRunner(ctrl), mocks.NewMockToolLocator(ctrl), mocks.NewMockLogger(ctrl), 1)

	err := o.RunConfigure(context.Background(), t.TempDir(), nil)
	assert.ErrorIs(t, err, domain.ErrConfigureScriptMissing)
}

func TestRunConfigure_Failure(t *testing.T) {
	ctrl := gomock.NewController(t)
	runner := mocks.NewMockCommandRunner(ctrl)
	logger := mocks.NewMockLogger(ctrl)
	src := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, "configure"), []byte("#!/bin/sh\n"), 0o700))

	logger.EXPECT().Info(gomock.Any())
	runner.EXPECT().Run(gomock.Any(), gomock.Any()).
		Return(ports.CommandResult{ExitCode: 1, Output: "checking for C compiler ... not found\n"}, errors.New("exit status 1"))

	err := orchestrator.New(runner, mocks.NewMockToolLocator(ctrl), logger, 1).
		RunConfigure(context.Background(), src, domain.BuildConfiguration{"--prefix=/x"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrExternalBuildFailed)

	zErr, ok := err.(*zerr.Error)
	require.True(t, ok)
	meta := zErr.Metadata()
	assert.Equal(t, domain.StageConfigure, meta["stage"])
	assert.Equal(t, 1, meta["exit_code"])
	assert.Equal(t, "checking for C compiler ... not found", meta["output"])
}

func TestRunBuild_PrefersGmake(t *testing.T) {
	ctrl := gomock.NewController(t)
	runner := mocks.NewMockCommandRunner(ctrl)
	locator := mocks.NewMockToolLocator(ctrl)

	locator.EXPECT().LookPath("gmake").Return("/opt/homebrew/bin/gmake", nil)
	runner.EXPECT().Run(gomock.Any(), ports.Command{
		Name: "/opt/homebrew/bin/gmake",
		Args: []string{"-j", "6", "install"},
		Dir:  "/src/nginx",
	}).Return(ports.CommandResult{}, nil)

	o := orchestrator.New(runner, locator, mocks.NewMockLogger(ctrl), 6)
	require.NoError(t, o.RunBuild(context.Background(), "/src/nginx", domain.StageInstall))
}

func TestRunBuild_FallsBackToMake(t *testing.T) {
	ctrl := gomock.NewController(t)
	runner := mocks.NewMockCommandRunner(ctrl)
	locator := mocks.NewMockToolLocator(ctrl)

	locator.EXPECT().LookPath("gmake").Return("", errors.New("not found"))
	locator.EXPECT().LookPath("make").Return("/usr/bin/make", nil)
	runner.EXPECT().Run(gomock.Any(), ports.Command{
		Name: "/usr/bin/make",
		Args: []string{"-j", "1", "install"},
		Dir:  "/src/nginx",
	}).Return(ports.CommandResult{}, nil)

	o := orchestrator.New(runner, locator, mocks.NewMockLogger(ctrl), 1)
	require.NoError(t, o.RunBuild(context.Background(), "/src/nginx", "install"))
}

func TestRunBuild_NoMake(t *testing.T) {
	ctrl := gomock.NewController(t)
	locator := mocks.NewMockToolLocator(ctrl)
	locator.EXPECT().LookPath(gomock.Any()).Return("", errors.New("not found")).Times(2)

	o := orchestrator.New(mocks.NewMockCommandRunner(ctrl), locator, mocks.NewMockLogger(ctrl), 1)
	err := o.RunBuild(context.Background(), "/src/nginx", "install")
	assert.ErrorIs(t, err, domain.ErrToolNotFound)
}

func TestRunBuild_FailureKeepsOutputTail(t *testing.T) {
	ctrl := gomock.NewController(t)
	runner := mocks.NewMockCommandRunner(ctrl)
	locator := mocks.NewMockToolLocator(ctrl)

	lines := make([]string, 100)
	for i := range lines {
		lines[i] = "line"
	}
	lines[99] = "make: *** [install] Error 2"

	locator.EXPECT().LookPath("gmake").Return("/usr/bin/gmake", nil)
	runner.EXPECT().Run(gomock.Any(), gomock.Any()).
		Return(ports.CommandResult{ExitCode: 2, Output: strings.Join(lines, "\n") + "\n"}, errors.New("exit status 2"))

	err := orchestrator.New(runner, locator, mocks.NewMockLogger(ctrl), 1).
		RunBuild(context.Background(), "/src/nginx", "install")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrExternalBuildFailed)

	zErr, ok := err.(*zerr.Error)
	require.True(t, ok)
	output, _ := zErr.Metadata()["output"].(string)
	assert.Len(t, strings.Split(output, "\n"), 40)
	assert.True(t, strings.HasSuffix(output, "Error 2"))
	assert.Equal(t, "install", zErr.Metadata()["stage"])
}
