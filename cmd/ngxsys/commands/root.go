// Package commands implements the CLI commands for ngxsys.
package commands

import (
	"context"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/ngxsys/internal/app"
	"go.trai.ch/ngxsys/internal/build"
)

// CLI represents the command line interface for ngxsys.
type CLI struct {
	app     *app.App
	rootCmd *cobra.Command
}

// New creates a new CLI instance with the given app.
func New(a *app.App) *CLI {
	rootCmd := &cobra.Command{
		Use:           "ngxsys",
		Short:         "Fetch, verify and build nginx with its bundled libraries",
		Long:          "Downloads zlib, pcre2, openssl and nginx, checks their signatures, builds nginx into a\nper-project cache and prints the include directories needed to compile against it.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	flags := rootCmd.PersistentFlags()
	flags.StringP("config", "c", "", "Path to configuration file (default <project-dir>/ngxsys.yaml)")
	flags.StringP("project-dir", "C", "", "Project directory the cache is created beside")
	flags.IntP("jobs", "j", 0, "Number of parallel make jobs (default: number of CPUs)")
	flags.Bool("debug", false, "Build nginx with debug logging")
	flags.String("cache-dir", "", "Override the cache directory")
	flags.String("log-format", app.LogFormatPretty, "Log format: pretty or json")

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		format, err := cmd.Flags().GetString("log-format")
		if err != nil {
			return err
		}
		return c.app.SetLogFormat(format)
	}
	rootCmd.RunE = c.runPrepare

	rootCmd.AddCommand(c.newPrepareCmd())
	rootCmd.AddCommand(c.newIncludesCmd())
	rootCmd.AddCommand(c.newBindingsCmd())
	rootCmd.AddCommand(c.newStatusCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput redirects command output. Used for testing.
func (c *CLI) SetOutput(w io.Writer) {
	c.rootCmd.SetOut(w)
	c.rootCmd.SetErr(w)
}

// options reads the persistent flags into app options.
func options(cmd *cobra.Command) (app.Options, error) {
	flags := cmd.Flags()

	var (
		opts app.Options
		err  error
	)
	if opts.ConfigPath, err = flags.GetString("config"); err != nil {
		return opts, err
	}
	if opts.ProjectDir, err = flags.GetString("project-dir"); err != nil {
		return opts, err
	}
	if opts.Jobs, err = flags.GetInt("jobs"); err != nil {
		return opts, err
	}
	if opts.CacheDir, err = flags.GetString("cache-dir"); err != nil {
		return opts, err
	}
	if flags.Changed("debug") {
		debug, err := flags.GetBool("debug")
		if err != nil {
			return opts, err
		}
		opts.Debug = &debug
	}
	return opts, nil
}
