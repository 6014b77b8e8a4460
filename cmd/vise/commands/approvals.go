package commands

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/viseworks/vise/internal/approval"
	"github.com/viseworks/vise/internal/config"
)

func NewApprovalsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "approvals",
		Short: "Manage command approval requests",
	}

	cmd.AddCommand(
		newApprovalsListCmd(),
		newApprovalsApproveCmd(),
		newApprovalsRejectCmd(),
	)

	return cmd
}

func newApprovalsListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List approval requests",
		RunE:  runApprovalsList,
	}
	cmd.Flags().Bool("all", false, "Include decided and expired requests")
	return cmd
}

func newApprovalsApproveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "approve <id>",
		Short: "Approve a pending request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApprovalsDecision(cmd, args[0], true)
		},
	}
	cmd.Flags().String("by", "operator", "Decision maker")
	cmd.Flags().String("note", "", "Decision note")
	return cmd
}

func newApprovalsRejectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reject <id>",
		Short: "Reject a pending request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApprovalsDecision(cmd, args[0], false)
		},
	}
	cmd.Flags().String("by", "operator", "Decision maker")
	cmd.Flags().String("note", "", "Decision note")
	return cmd
}

func runApprovalsList(cmd *cobra.Command, args []string) error {
	svc, err := loadApprovalService()
	if err != nil {
		return err
	}
	if _, err := svc.ExpirePending(); err != nil {
		return err
	}

	all, _ := cmd.Flags().GetBool("all")
	query := approval.Query{Status: approval.StatusPending}
	if all {
		query = approval.Query{}
	}

	requests, err := svc.List(query)
	if err != nil {
		return err
	}
	if len(requests) == 0 {
		if all {
			fmt.Println("No approval requests.")
		} else {
			fmt.Println("No pending approvals.")
		}
		return nil
	}

	var (
		headerStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#FAFAFA")).
				Background(lipgloss.Color("#8E4EC6")).
				Padding(0, 1).
				MarginBottom(1)

		wID      = 6
		wCommand = 40
		wStatus  = 10
		wExpires = 20

		colHeaderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#8E4EC6")).
				Bold(true).
				MarginRight(1)

		idStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Width(wID).
			MarginRight(1)

		commandStyle = lipgloss.NewStyle().
				Width(wCommand).
				MarginRight(1)

		statusStyleBase = lipgloss.NewStyle().
				Width(wStatus).
				MarginRight(1)

		expiresStyle = lipgloss.NewStyle().
				Width(wExpires).
				MarginRight(1)

		pendingColor = lipgloss.Color("#D7AF00")
		settledColor = lipgloss.Color("241")
	)

	fmt.Println(headerStyle.Render("Approval Requests"))

	headers := lipgloss.JoinHorizontal(lipgloss.Top,
		colHeaderStyle.Width(wID).Render("ID"),
		colHeaderStyle.Width(wCommand).Render("COMMAND"),
		colHeaderStyle.Width(wStatus).Render("STATUS"),
		colHeaderStyle.Width(wExpires).Render("EXPIRES"),
	)
	fmt.Printf("  %s\n", headers)

	sepStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginRight(1)
	separator := lipgloss.JoinHorizontal(lipgloss.Top,
		sepStyle.Render(strings.Repeat("─", wID)),
		sepStyle.Render(strings.Repeat("─", wCommand)),
		sepStyle.Render(strings.Repeat("─", wStatus)),
		sepStyle.Render(strings.Repeat("─", wExpires)),
	)
	fmt.Printf("  %s\n", separator)

	for _, req := range requests {
		expires := "-"
		if !req.ExpiresAt.IsZero() {
			expires = req.ExpiresAt.Local().Format("2006-01-02 15:04:05")
		}

		sColor := settledColor
		if req.Status == approval.StatusPending {
			sColor = pendingColor
		}

		row := lipgloss.JoinHorizontal(lipgloss.Top,
			idStyle.Render(req.ID),
			commandStyle.Render(truncate(req.Command, wCommand)),
			statusStyleBase.Foreground(sColor).Render(string(req.Status)),
			expiresStyle.Render(expires),
		)
		fmt.Printf("  %s\n", row)
	}

	return nil
}

func runApprovalsDecision(cmd *cobra.Command, id string, approve bool) error {
	svc, err := loadApprovalService()
	if err != nil {
		return err
	}

	by, _ := cmd.Flags().GetString("by")
	note, _ := cmd.Flags().GetString("note")
	decision := approval.DecisionInput{
		DecidedBy: strings.TrimSpace(by),
		Note:      strings.TrimSpace(note),
	}

	if approve {
		req, err := svc.Approve(id, decision)
		if err != nil {
			return err
		}
		fmt.Printf("Approved request %s: %s\n", req.ID, req.Command)
		fmt.Println("The approval covers one execution and expires with the request.")
		return nil
	}

	req, err := svc.Reject(id, decision)
	if err != nil {
		return err
	}
	fmt.Printf("Rejected request %s: %s\n", req.ID, req.Command)
	return nil
}

func loadApprovalService() (*approval.Service, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	workspacePath, err := cfg.WorkspacePathChecked()
	if err != nil {
		return nil, fmt.Errorf("invalid workspace: %w", err)
	}
	return approval.NewService(workspacePath), nil
}

func truncate(s string, width int) string {
	if len(s) <= width {
		return s
	}
	if width <= 3 {
		return s[:width]
	}
	return s[:width-3] + "..."
}
