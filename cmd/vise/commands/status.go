package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/viseworks/vise/internal/approval"
	"github.com/viseworks/vise/internal/config"
	"github.com/viseworks/vise/internal/policy"
)

func NewStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show Vise configuration status",
		RunE:  runStatus,
	}
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	workspacePath, err := cfg.WorkspacePathChecked()
	if err != nil {
		return fmt.Errorf("invalid workspace: %w", err)
	}

	fmt.Println("=== Vise Status ===")
	fmt.Println()

	fmt.Printf("Config: %s\n", config.ConfigPath())
	if _, err := os.Stat(config.ConfigPath()); err == nil {
		fmt.Println("  Status: OK")
	} else {
		fmt.Println("  Status: Not found (run 'vise init')")
	}

	fmt.Printf("\nWorkspace: %s\n", workspacePath)
	if _, err := os.Stat(workspacePath); err == nil {
		fmt.Println("  Status: OK")
	} else {
		fmt.Println("  Status: Not found")
	}
	workspaceMode := strings.TrimSpace(cfg.Agent.WorkspaceMode)
	if workspaceMode == "" {
		workspaceMode = "default"
	}
	fmt.Printf("  Mode: %s\n", workspaceMode)

	fmt.Printf("\nModel: %s\n", cfg.Agent.Model)

	fmt.Println("\nProviders:")
	providers := []struct {
		name string
		key  string
	}{
		{"Claude", cfg.Providers.Claude.APIKey},
		{"OpenAI", cfg.Providers.OpenAI.APIKey},
		{"OpenRouter", cfg.Providers.OpenRouter.APIKey},
		{"DeepSeek", cfg.Providers.DeepSeek.APIKey},
		{"Ollama", cfg.Providers.Ollama.BaseURL},
	}
	for _, p := range providers {
		status := "Not configured"
		if p.key != "" {
			status = "Configured"
		}
		fmt.Printf("  %s: %s\n", p.name, status)
	}

	e := cfg.Tools.Exec
	fmt.Println("\nExecution gate:")
	denyList := e.DenyList
	denyLabel := "custom"
	if denyList == nil {
		denyList = policy.DefaultDenyList
		denyLabel = "default"
	}
	fmt.Printf("  Deny list (%s): %s\n", denyLabel, strings.Join(denyList, ", "))
	if len(e.AllowList) > 0 {
		fmt.Printf("  Allow list: %s (everything else refused)\n", strings.Join(e.AllowList, ", "))
	} else {
		fmt.Println("  Allow list: none (all non-denied binaries allowed)")
	}
	fmt.Printf("  Shell operators: %v\n", e.AllowShellOperators)
	fmt.Printf("  Approval required: %v\n", e.RequireApproval)
	fmt.Printf("  Timeout: %ds, output cap: %d bytes\n", e.Timeout, e.MaxOutputBytes)
	fmt.Printf("  Restrict to workspace: %v\n", e.RestrictToWorkspace)

	svc := approval.NewService(workspacePath)
	if _, err := svc.ExpirePending(); err == nil {
		if pending, err := svc.List(approval.Query{Status: approval.StatusPending}); err == nil {
			fmt.Printf("\nPending approvals: %d\n", len(pending))
			for _, req := range pending {
				fmt.Printf("  %s: %s\n", req.ID, truncate(req.Command, 60))
			}
		}
	}

	fmt.Println("\nTools:")
	for _, name := range []string{"read_file", "write_file", "edit_file", "append_file", "list_dir", "read_memory", "write_memory", "append_log"} {
		fmt.Printf("  %s: ready\n", name)
	}
	fmt.Printf("  run_command: ready (gated, timeout=%ds)\n", e.Timeout)

	return nil
}
