package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/dyike/docqa/internal/api"
	"github.com/dyike/docqa/internal/format"
	"github.com/dyike/docqa/internal/workspace"
	"github.com/spf13/cobra"
)

func newResetCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Clear all documents from the knowledge base",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runReset(cmd, yes)
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func (a *app) runReset(cmd *cobra.Command, yes bool) error {
	panel := workspace.NewDocuments(a.logger)
	panel.RequestReset()

	if !yes {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s [y/N] ", workspace.ResetPrompt)
		reader := bufio.NewReader(cmd.InOrStdin())
		answer, _ := reader.ReadString('\n')
		answer = strings.ToLower(strings.TrimSpace(answer))
		if answer != "y" && answer != "yes" {
			panel.DeclineReset()
			fmt.Fprintln(cmd.ErrOrStderr(), "Aborted.")
			return nil
		}
	}

	ticket, _ := panel.ConfirmReset()
	res, err := a.client().Reset(cmd.Context())
	if !panel.FinishReset(ticket, err) {
		return fmt.Errorf("%s: %w", strings.TrimSuffix(panel.Alert(), "."), err)
	}
	if res == nil {
		res = &api.ResetResult{}
	}
	return format.OutputReset(cmd.OutOrStdout(), res, a.format)
}
