// Package executor gates and runs shell commands. A dispatcher call walks a
// fixed sequence of checks (operator presence, binary policy, approval) and
// only a fully passed command reaches a child process. By default the
// command is tokenized and spawned directly with no shell; execution is
// delegated to the host shell only when operators are present and the policy
// explicitly permits them.
package executor

import (
	"context"
	"strings"
	"time"

	"github.com/viseworks/vise/internal/policy"
	"github.com/viseworks/vise/internal/shellparse"
)

// DefaultMaxOutputBytes caps combined stdout/stderr buffering per stream
// when the caller does not configure a ceiling.
const DefaultMaxOutputBytes = 1 << 20

// Request is a single command execution ask. The zero-value Policy gives the
// default posture (default deny list, operators refused).
type Request struct {
	Command string
	Policy  policy.Policy

	// Dir is the working directory for the child; empty means the current
	// directory of the calling process.
	Dir string

	// Timeout, when positive, bounds the child's lifetime. Zero means no
	// deadline beyond whatever the caller's context carries.
	Timeout time.Duration
}

// Result is the outcome of a successfully executed command. Trailing
// whitespace is trimmed from both streams.
type Result struct {
	Stdout    string
	Stderr    string
	Truncated bool
}

// Dispatcher routes commands through the policy checks and into a child
// process. One call maps to at most one spawned process; no state is shared
// across calls, so a Dispatcher may be used concurrently.
type Dispatcher struct {
	maxOutputBytes int
}

// NewDispatcher returns a dispatcher whose per-stream output buffering is
// capped at maxOutputBytes (DefaultMaxOutputBytes when non-positive).
func NewDispatcher(maxOutputBytes int) *Dispatcher {
	if maxOutputBytes <= 0 {
		maxOutputBytes = DefaultMaxOutputBytes
	}
	return &Dispatcher{maxOutputBytes: maxOutputBytes}
}

// Execute runs req.Command after every check passes. The checks always
// complete, and always precede any spawn: a rejected command never starts a
// process. Failures are surfaced verbatim and never retried here.
func (d *Dispatcher) Execute(ctx context.Context, req Request) (*Result, error) {
	command := strings.TrimSpace(req.Command)
	if command == "" {
		return nil, ErrEmptyCommand
	}

	// Operator presence is decided before any binary is known, so nothing
	// is ever authorized implicitly by hiding inside a refused construct.
	hasOperators := shellparse.ContainsOperators(command)
	if hasOperators && !req.Policy.Strict.AllowOperators {
		return nil, policy.ErrOperatorsBlocked
	}

	binaries, err := shellparse.Binaries(command)
	if err != nil {
		return nil, err
	}
	if len(binaries) == 0 {
		return nil, ErrEmptyCommand
	}
	if err := req.Policy.Check(binaries); err != nil {
		return nil, err
	}

	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	if hasOperators {
		// Legitimate chaining semantics were requested and permitted;
		// only here does a shell see the original string.
		return d.runShell(ctx, command, req.Dir)
	}

	argv, err := shellparse.Tokenize(command)
	if err != nil {
		return nil, err
	}
	return d.runDirect(ctx, argv, req.Dir)
}
