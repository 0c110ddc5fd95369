package gpg

import "github.com/jmgilman/go/exec"

// NewToolWithExecutor creates a Tool over a scripted executor.
func NewToolWithExecutor(gpg exec.Executor, lookPath func(string) (string, error)) *Tool {
	return newTool(gpg, lookPath)
}
