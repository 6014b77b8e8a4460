// Package commands wires the vise CLI.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/viseworks/vise/internal/config"
)

var logLevelOverride string

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vise",
		Short: "Vise - AI engineering assistant with a command policy gate",
		Long: `Vise is a terminal AI assistant for engineering work.
Every shell command it runs, whether typed by you or requested by the model,
passes through a policy gate: operator chains and substitutions are scanned,
binaries are checked against deny and allow lists, and gated commands wait
for your approval.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "init" {
				return configureLogger(config.DefaultConfig(), logLevelOverride, false)
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return configureLogger(cfg, logLevelOverride, cmd.Name() == "chat")
		},
	}

	cmd.PersistentFlags().StringVar(&logLevelOverride, "log-level", "", "Override log level (debug|info|warn|error)")

	cmd.AddCommand(
		NewInitCmd(),
		NewChatCmd(),
		NewExecCmd(),
		NewApprovalsCmd(),
		NewStatusCmd(),
		NewVersionCmd(),
	)

	return cmd
}
