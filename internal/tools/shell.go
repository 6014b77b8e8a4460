package tools

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"

	"github.com/viseworks/vise/internal/approval"
	"github.com/viseworks/vise/internal/audit"
	"github.com/viseworks/vise/internal/config"
	"github.com/viseworks/vise/internal/executor"
	"github.com/viseworks/vise/internal/policy"
	"github.com/viseworks/vise/internal/shellparse"
)

// RunCommandInput parameters for run_command tool
type RunCommandInput struct {
	Command    string `json:"command" jsonschema:"required,description=Shell command to execute"`
	WorkingDir string `json:"working_dir" jsonschema:"description=Working directory for the command"`
}

// RunCommandOutput result of run_command tool
type RunCommandOutput struct {
	Stdout   string `json:"stdout"`
	Stderr   string `json:"stderr"`
	ExitCode int    `json:"exit_code"`
	Note     string `json:"note,omitempty"`
}

type runCommandToolImpl struct {
	exec                config.ExecConfig
	restrictToWorkspace bool
	workspace           string
	dispatcher          *executor.Dispatcher
	approvals           *approval.Service
	auditlog            *audit.Writer
}

func (t *runCommandToolImpl) execute(ctx context.Context, input *RunCommandInput) (*RunCommandOutput, error) {
	workDir := input.WorkingDir
	if t.restrictToWorkspace && t.workspace != "" {
		if workDir != "" {
			if err := validatePath(workDir, t.workspace); err != nil {
				return &RunCommandOutput{
					Stderr:   fmt.Sprintf("Working directory rejected: %s", err.Error()),
					ExitCode: 1,
				}, nil
			}
		} else {
			workDir = t.workspace
		}
	} else if workDir == "" && t.workspace != "" {
		workDir = t.workspace
	}

	pol := policy.Policy{
		AllowList:       t.exec.AllowList,
		DenyList:        t.exec.DenyList,
		RequireApproval: t.exec.RequireApproval,
		Strict:          policy.Strict{AllowOperators: t.exec.AllowShellOperators},
	}

	if pol.RequireApproval {
		redeemed, err := t.approvals.Redeem(input.Command)
		if err != nil {
			return nil, err
		}
		pol.Approved = redeemed
	}

	result, err := t.dispatcher.Execute(ctx, executor.Request{
		Command: input.Command,
		Policy:  pol,
		Dir:     workDir,
		Timeout: time.Duration(t.exec.Timeout) * time.Second,
	})
	if err != nil {
		return t.handleGateError(input.Command, err)
	}

	t.audit(input.Command, audit.DecisionAllowed, "", "")
	out := &RunCommandOutput{
		Stdout: result.Stdout,
		Stderr: result.Stderr,
	}
	if result.Truncated {
		out.Note = "output truncated"
	}
	return out, nil
}

// handleGateError folds gate refusals and child failures into tool output
// the model can act on. Only store errors propagate as Go errors.
func (t *runCommandToolImpl) handleGateError(command string, err error) (*RunCommandOutput, error) {
	var denied *policy.DeniedError
	var syntaxErr *shellparse.SyntaxError
	var exitErr *executor.ExitError
	var spawnErr *executor.SpawnError

	switch {
	case errors.Is(err, policy.ErrOperatorsBlocked):
		t.audit(command, audit.DecisionOperatorsBlocked, "", err.Error())
		return &RunCommandOutput{
			Stderr:   "Blocked: " + err.Error(),
			ExitCode: 1,
		}, nil

	case errors.As(err, &denied):
		t.audit(command, audit.DecisionDenied, denied.Binary, err.Error())
		return &RunCommandOutput{
			Stderr:   "Blocked: " + err.Error(),
			ExitCode: 1,
		}, nil

	case errors.Is(err, policy.ErrApprovalRequired):
		binaries, _ := shellparse.Binaries(command)
		req, createErr := t.approvals.Create(approval.CreateInput{
			Command:  command,
			Binaries: binaries,
			Reason:   "requested by assistant",
		})
		if createErr != nil {
			return nil, createErr
		}
		t.audit(command, audit.DecisionApprovalPending, "", "request "+req.ID)
		return &RunCommandOutput{
			Stderr: fmt.Sprintf(
				"Command requires operator approval. Filed request %s; ask the operator to run 'vise approvals approve %s', then retry the exact same command.",
				req.ID, req.ID,
			),
			ExitCode: 1,
		}, nil

	case errors.As(err, &syntaxErr), errors.Is(err, executor.ErrEmptyCommand):
		t.audit(command, audit.DecisionInvalid, "", err.Error())
		return &RunCommandOutput{
			Stderr:   "Invalid command: " + err.Error(),
			ExitCode: 1,
		}, nil

	case errors.As(err, &exitErr):
		// The gate passed and the command ran; a non-zero exit is a
		// result, not a refusal.
		t.audit(command, audit.DecisionAllowed, "", fmt.Sprintf("exit %d", exitErr.Code))
		return &RunCommandOutput{
			Stderr:   exitErr.Stderr,
			ExitCode: exitErr.Code,
		}, nil

	case errors.As(err, &spawnErr):
		t.audit(command, audit.DecisionFailed, "", err.Error())
		return &RunCommandOutput{
			Stderr:   "Failed to start: " + err.Error(),
			ExitCode: 1,
		}, nil

	default:
		t.audit(command, audit.DecisionFailed, "", err.Error())
		return &RunCommandOutput{
			Stderr:   err.Error(),
			ExitCode: 1,
		}, nil
	}
}

func (t *runCommandToolImpl) audit(command, decision, binary, detail string) {
	if t.auditlog == nil {
		return
	}
	_ = t.auditlog.Append(audit.Event{
		Source:   "agent",
		Command:  command,
		Decision: decision,
		Binary:   binary,
		Detail:   detail,
	})
}

// NewRunCommandTool creates the run_command tool. Every invocation goes
// through the execution gate: operator and substitution scanning, the binary
// deny/allow lists, and the approval ledger, with an audit event per call.
func NewRunCommandTool(cfg config.ExecConfig, workspace string) (tool.InvokableTool, error) {
	impl := &runCommandToolImpl{
		exec:                cfg,
		restrictToWorkspace: cfg.RestrictToWorkspace,
		workspace:           workspace,
		dispatcher:          executor.NewDispatcher(cfg.MaxOutputBytes),
		approvals:           approval.NewService(workspace),
		auditlog:            audit.NewWriter(workspace),
	}
	return utils.InferTool("run_command", "Execute a shell command through the command policy gate", impl.execute)
}
