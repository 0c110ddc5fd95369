// Package ports defines the core interfaces for the application.
package ports

import "context"

//go:generate mockgen -source=runner.go -destination=mocks/mock_runner.go -package=mocks

// Command is a child process invocation.
type Command struct {
	Name string
	Args []string
	Dir  string
}

// CommandResult is the outcome of a finished child process.
type CommandResult struct {
	ExitCode int
	// Output holds the merged stdout and stderr streams.
	Output string
}

// CommandRunner runs child processes with merged output streams.
type CommandRunner interface {
	// Run executes cmd and waits for it to exit.
	// A non-zero exit returns the populated result together with an error carrying exit_code.
	Run(ctx context.Context, cmd Command) (CommandResult, error)
}

// ToolLocator finds executables on the search path.
type ToolLocator interface {
	LookPath(name string) (string, error)
}
