package executor

import (
	"context"
	"fmt"
	"strings"

	execute "github.com/alexellis/go-execute/v2"
)

// ExitError is returned when a command ran but exited with a non-zero code.
type ExitError struct {
	Command  string
	ExitCode int
	Stderr   string
}

func (e *ExitError) Error() string {
	stderr := strings.TrimSpace(e.Stderr)
	if stderr != "" {
		return fmt.Sprintf("command '%s' exited with code %d\nstderr: %s", e.Command, e.ExitCode, stderr)
	}
	return fmt.Sprintf("command '%s' exited with code %d", e.Command, e.ExitCode)
}

type implExecutor struct{}

// New creates a new Executor instance
func New() Executor {
	return &implExecutor{}
}

// Execute runs an external command with the given arguments
func (e *implExecutor) Execute(ctx context.Context, name string, args ...string) (string, error) {
	return e.ExecuteInDir(ctx, "", name, args...)
}

// ExecuteInDir runs an external command in a specific working directory
func (e *implExecutor) ExecuteInDir(ctx context.Context, dir string, name string, args ...string) (string, error) {
	task := execute.ExecTask{
		Command: name,
		Args:    args,
		Cwd:     dir,
	}

	res, err := task.Execute(ctx)
	if err != nil {
		return "", fmt.Errorf("command '%s' failed: %w", name, err)
	}
	if ctxErr := ctx.Err(); ctxErr != nil && res.Cancelled {
		return "", fmt.Errorf("command '%s' cancelled: %w", name, ctxErr)
	}
	if res.ExitCode != 0 {
		return res.Stdout, &ExitError{Command: name, ExitCode: res.ExitCode, Stderr: res.Stderr}
	}

	return res.Stdout, nil
}
