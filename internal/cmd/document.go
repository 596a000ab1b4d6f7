package cmd

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/dyike/docqa/internal/format"
	"github.com/dyike/docqa/internal/workspace"
	"github.com/spf13/cobra"
)

func newLsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ls",
		Short: "List indexed documents",
		Args:  cobra.NoArgs,
		RunE:  a.runLs,
	}
}

func (a *app) runLs(cmd *cobra.Command, args []string) error {
	docs, err := a.client().ListDocuments(cmd.Context())
	if err != nil {
		return err
	}
	return format.OutputDocumentList(cmd.OutOrStdout(), docs, a.format)
}

func newUploadCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a document, replacing the knowledge base",
		Long: `Upload one document (.txt, .pdf or .docx) to the backend.

The backend replaces the whole knowledge base with the new file. The document
list is fetched again once the upload succeeds.`,
		Args: cobra.ExactArgs(1),
		RunE: a.runUpload,
	}
}

func (a *app) runUpload(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	client := a.client()
	path := args[0]
	out := cmd.OutOrStdout()

	panel := workspace.NewDocuments(a.logger)
	ticket, err := panel.BeginUpload(filepath.Base(path))
	if err != nil {
		return err
	}
	if a.format != format.FormatJSON {
		fmt.Fprintln(cmd.ErrOrStderr(), panel.StatusText())
	}

	res, err := client.UploadFile(ctx, path)
	if !panel.FinishUpload(ticket, res, err) {
		if err == nil {
			err = errors.New(panel.StatusText())
		}
		return fmt.Errorf("upload %s: %w", path, err)
	}
	if err := format.OutputUpload(out, res, a.format); err != nil {
		return err
	}

	// The list is always re-read, never patched locally
	load := panel.BeginLoad()
	docs, err := client.ListDocuments(ctx)
	panel.FinishLoad(load, docs, err)
	if err != nil {
		return fmt.Errorf("reload documents: %w", err)
	}
	if a.format == format.FormatJSON {
		return nil
	}
	return format.OutputDocumentList(out, panel.Items(), a.format)
}
