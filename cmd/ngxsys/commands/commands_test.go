package commands_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/ngxsys/cmd/ngxsys/commands"
	"go.trai.ch/ngxsys/internal/app"
	"go.trai.ch/ngxsys/internal/build"
	"go.trai.ch/ngxsys/internal/core/domain"
	"go.trai.ch/ngxsys/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func testConfig() *domain.Config {
	return &domain.Config{
		Versions:   domain.DefaultVersions(),
		TargetOS:   "linux",
		HostOS:     "linux",
		HostArch:   "amd64",
		ProjectDir: "/work/ngx",
	}
}

func TestStatus_PassesFlags(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := mocks.NewMockConfigLoader(ctrl)
	records := mocks.NewMockBuildInfoStore(ctrl)
	trust := mocks.NewMockTrustTool(ctrl)

	loader.EXPECT().Load("/work/ngx", "alt.yaml").Return(testConfig(), nil)
	records.EXPECT().Get("/srv/cache", "linux-amd64").Return(nil, nil)
	trust.EXPECT().Available().Return(true)

	var out bytes.Buffer
	a := app.New(app.Adapters{ConfigLoader: loader, Records: records, Trust: trust}).WithOutput(&out)
	cli := commands.New(a)
	cli.SetArgs([]string{
		"status",
		"-C", "/work/ngx",
		"-c", "alt.yaml",
		"--jobs", "3",
		"--debug",
		"--cache-dir", "/srv/cache",
	})

	require.NoError(t, cli.Execute(context.Background()))
	assert.Contains(t, out.String(), "jobs                 3")
	assert.Contains(t, out.String(), "debug                true")
	assert.Contains(t, out.String(), "/srv/cache")
}

func TestRoot_DefaultsToPrepare(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := mocks.NewMockConfigLoader(ctrl)
	loader.EXPECT().Load("", "").Return(nil, domain.ErrInvalidConfig)

	cli := commands.New(app.New(app.Adapters{ConfigLoader: loader}))
	cli.SetArgs([]string{})

	err := cli.Execute(context.Background())
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestBindings_ConfigError(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := mocks.NewMockConfigLoader(ctrl)
	loader.EXPECT().Load("", "").Return(nil, domain.ErrInvalidConfig)

	cli := commands.New(app.New(app.Adapters{ConfigLoader: loader}))
	cli.SetArgs([]string{"bindings", "--out", "bindings.rs"})

	err := cli.Execute(context.Background())
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestIncludes_RequiresArgument(t *testing.T) {
	cli := commands.New(app.New(app.Adapters{}))
	cli.SetOutput(&bytes.Buffer{})
	cli.SetArgs([]string{"includes"})

	require.Error(t, cli.Execute(context.Background()))
}

func TestLogFormat_Invalid(t *testing.T) {
	cli := commands.New(app.New(app.Adapters{}))
	cli.SetArgs([]string{"--log-format", "xml", "version"})

	err := cli.Execute(context.Background())
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestVersion(t *testing.T) {
	var out bytes.Buffer
	cli := commands.New(app.New(app.Adapters{}))
	cli.SetOutput(&out)
	cli.SetArgs([]string{"version"})

	require.NoError(t, cli.Execute(context.Background()))
	assert.Equal(t, "ngxsys version "+build.Version+"\n", out.String())
}

func TestRoot_Help(t *testing.T) {
	var out bytes.Buffer
	cli := commands.New(app.New(app.Adapters{}))
	cli.SetOutput(&out)
	cli.SetArgs([]string{"--help"})

	require.NoError(t, cli.Execute(context.Background()))
	assert.Contains(t, out.String(), "prepare")
	assert.Contains(t, out.String(), "bindings")
}
