package executor

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// runDirect spawns argv as a child process with no shell interposed; the
// tokens are passed through as literal arguments.
func (d *Dispatcher) runDirect(ctx context.Context, argv []string, dir string) (*Result, error) {
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	return d.supervise(ctx, cmd, dir, argv[0])
}

// runShell hands the full original command to the host shell.
func (d *Dispatcher) runShell(ctx context.Context, command, dir string) (*Result, error) {
	var cmd *exec.Cmd
	if runtime.GOOS == "windows" {
		cmd = exec.CommandContext(ctx, "cmd", "/C", command)
	} else {
		cmd = exec.CommandContext(ctx, "sh", "-c", command)
	}
	return d.supervise(ctx, cmd, dir, cmd.Path)
}

func (d *Dispatcher) supervise(ctx context.Context, cmd *exec.Cmd, dir, name string) (*Result, error) {
	cmd.Dir = dir
	cmd.Stdin = nil

	stdout := newCollector(d.maxOutputBytes)
	stderr := newCollector(d.maxOutputBytes)
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Start(); err != nil {
		return nil, &SpawnError{Name: name, Err: err}
	}

	waitErr := cmd.Wait()
	outText := strings.TrimRight(stdout.String(), " \t\r\n")
	errText := strings.TrimRight(stderr.String(), " \t\r\n")

	if waitErr != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("command terminated: %w", ctxErr)
		}
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			return nil, &ExitError{Code: exitErr.ExitCode(), Stderr: errText}
		}
		return nil, &SpawnError{Name: name, Err: waitErr}
	}

	return &Result{
		Stdout:    outText,
		Stderr:    errText,
		Truncated: stdout.Truncated() || stderr.Truncated(),
	}, nil
}
