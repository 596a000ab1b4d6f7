package cmd

import (
	"strings"

	"github.com/dyike/docqa/internal/format"
	"github.com/dyike/docqa/internal/workspace"
	"github.com/spf13/cobra"
)

func newAskCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ask <question...>",
		Short: "Ask a question about the uploaded documents",
		Long: `Ask a question and print the grounded answer with its sources.

Examples:
  docqa ask What is the refund policy?
  docqa ask "Who signs off on travel?" --format json`,
		Args: cobra.MinimumNArgs(1),
		RunE: a.runAsk,
	}
}

func (a *app) runAsk(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	if strings.TrimSpace(query) == "" {
		return workspace.ErrEmptyQuery
	}

	ans, err := a.client().Ask(cmd.Context(), query)
	if err != nil {
		return err
	}
	return format.OutputAnswer(cmd.OutOrStdout(), ans, a.format)
}
