package commands

import (
	"bufio"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/viseworks/vise/internal/audit"
	"github.com/viseworks/vise/internal/config"
	"github.com/viseworks/vise/internal/executor"
	"github.com/viseworks/vise/internal/policy"
	"github.com/viseworks/vise/internal/shellparse"
)

func NewExecCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exec [flags] -- <command>",
		Short: "Run one shell command through the policy gate",
		Long: `Run a single command through the same gate the assistant uses.
Blocked operators and approval requirements are resolved interactively:
you are the operator, so a y answer both approves and runs the command.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runExec,
	}

	cmd.Flags().String("dir", "", "Working directory for the command")
	cmd.Flags().Int("timeout", 0, "Timeout in seconds (0 uses the configured default)")
	cmd.Flags().Bool("allow-operators", false, "Permit shell operators without prompting")
	cmd.Flags().BoolP("yes", "y", false, "Answer yes to all prompts")

	return cmd
}

func runExec(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	workspacePath, err := cfg.WorkspacePathChecked()
	if err != nil {
		return fmt.Errorf("invalid workspace: %w", err)
	}

	command := strings.Join(args, " ")
	dir, _ := cmd.Flags().GetString("dir")
	timeoutSec, _ := cmd.Flags().GetInt("timeout")
	allowOperators, _ := cmd.Flags().GetBool("allow-operators")
	assumeYes, _ := cmd.Flags().GetBool("yes")

	if timeoutSec <= 0 {
		timeoutSec = cfg.Tools.Exec.Timeout
	}

	pol := policy.Policy{
		AllowList:       cfg.Tools.Exec.AllowList,
		DenyList:        cfg.Tools.Exec.DenyList,
		RequireApproval: cfg.Tools.Exec.RequireApproval,
		Strict:          policy.Strict{AllowOperators: allowOperators || cfg.Tools.Exec.AllowShellOperators},
	}

	dispatcher := executor.NewDispatcher(cfg.Tools.Exec.MaxOutputBytes)
	auditlog := audit.NewWriter(workspacePath)
	confirm := newConfirmer(cmd, assumeYes)

	// Each prompt loosens exactly one gate, then the command is re-checked
	// from the top.
	for {
		result, err := dispatcher.Execute(cmd.Context(), executor.Request{
			Command: command,
			Policy:  pol,
			Dir:     dir,
			Timeout: time.Duration(timeoutSec) * time.Second,
		})
		if err == nil {
			writeCLIAudit(auditlog, command, audit.DecisionAllowed, "", "")
			printStreams(cmd, result)
			return nil
		}

		var denied *policy.DeniedError
		var syntaxErr *shellparse.SyntaxError
		var exitErr *executor.ExitError

		switch {
		case errors.Is(err, policy.ErrOperatorsBlocked) && !pol.Strict.AllowOperators:
			if !confirm("Command contains shell operators or substitution. Run it via the shell?") {
				writeCLIAudit(auditlog, command, audit.DecisionOperatorsBlocked, "", err.Error())
				return err
			}
			pol.Strict.AllowOperators = true

		case errors.Is(err, policy.ErrApprovalRequired) && !pol.Approved:
			if !confirm("Command requires approval. Approve and run?") {
				writeCLIAudit(auditlog, command, audit.DecisionApprovalPending, "", "declined at prompt")
				return err
			}
			pol.Approved = true

		case errors.As(err, &denied):
			writeCLIAudit(auditlog, command, audit.DecisionDenied, denied.Binary, err.Error())
			return err

		case errors.As(err, &syntaxErr), errors.Is(err, executor.ErrEmptyCommand):
			writeCLIAudit(auditlog, command, audit.DecisionInvalid, "", err.Error())
			return err

		case errors.As(err, &exitErr):
			writeCLIAudit(auditlog, command, audit.DecisionAllowed, "", fmt.Sprintf("exit %d", exitErr.Code))
			if exitErr.Stderr != "" {
				fmt.Fprintln(cmd.ErrOrStderr(), exitErr.Stderr)
			}
			return fmt.Errorf("command exited with code %d", exitErr.Code)

		default:
			writeCLIAudit(auditlog, command, audit.DecisionFailed, "", err.Error())
			return err
		}
	}
}

func printStreams(cmd *cobra.Command, result *executor.Result) {
	if result.Stdout != "" {
		fmt.Fprintln(cmd.OutOrStdout(), result.Stdout)
	}
	if result.Stderr != "" {
		fmt.Fprintln(cmd.ErrOrStderr(), result.Stderr)
	}
	if result.Truncated {
		fmt.Fprintln(cmd.ErrOrStderr(), "(output truncated)")
	}
}

func newConfirmer(cmd *cobra.Command, assumeYes bool) func(string) bool {
	if assumeYes {
		return func(string) bool { return true }
	}
	reader := bufio.NewReader(cmd.InOrStdin())
	return func(prompt string) bool {
		fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N] ", prompt)
		line, err := reader.ReadString('\n')
		if err != nil {
			return false
		}
		answer := strings.ToLower(strings.TrimSpace(line))
		return answer == "y" || answer == "yes"
	}
}

func writeCLIAudit(w *audit.Writer, command, decision, binary, detail string) {
	_ = w.Append(audit.Event{
		Source:   "cli",
		Command:  command,
		Decision: decision,
		Binary:   binary,
		Detail:   detail,
	})
}
