package executor

import (
	"errors"
	"fmt"
)

// ErrEmptyCommand rejects input that yields no executable token.
var ErrEmptyCommand = errors.New("empty command")

// SpawnError reports that the child process could not be started at all
// (missing binary, permission denied).
type SpawnError struct {
	Name string
	Err  error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("failed to start %q: %v", e.Name, e.Err)
}

func (e *SpawnError) Unwrap() error { return e.Err }

// ExitError reports a process that started but exited non-zero. Its message
// is the captured stderr, or a generic fallback when the process wrote none.
type ExitError struct {
	Code   int
	Stderr string
}

func (e *ExitError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("command exited with code %d", e.Code)
	}
	return e.Stderr
}
