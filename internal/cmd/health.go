package cmd

import (
	"errors"

	"github.com/dyike/docqa/internal/format"
	"github.com/dyike/docqa/internal/workspace"
	"github.com/spf13/cobra"
)

// ErrUnhealthy is returned when any health component classifies as an error
var ErrUnhealthy = errors.New("backend is unhealthy")

func newHealthCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Show backend, vector store and LLM status",
		Args:  cobra.NoArgs,
		RunE:  a.runHealth,
	}
}

func (a *app) runHealth(cmd *cobra.Command, args []string) error {
	status := workspace.NewStatus(a.logger)
	ticket := status.Refresh()

	h, err := a.client().Health(cmd.Context())
	status.Apply(ticket, h, err)

	if err := format.OutputHealth(cmd.OutOrStdout(), format.HealthRows(status), a.format); err != nil {
		return err
	}
	if !status.Healthy() {
		return ErrUnhealthy
	}
	return nil
}
