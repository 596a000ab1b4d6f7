package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dyike/docqa/internal/api"
	"github.com/dyike/docqa/internal/workspace"
)

// Format is an output format for CLI results
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatMD   Format = "md"
)

// Parse validates a --format value
func Parse(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatText, FormatJSON, FormatMD:
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q (want text|json|md)", s)
}

var (
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("76")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	neutralStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// HealthRow is one component of a rendered health snapshot
type HealthRow struct {
	Component string `json:"component"`
	Key       string `json:"key"`
	Value     string `json:"value"`
	Level     string `json:"level"`
}

// HealthRows flattens a status panel into rows in display order
func HealthRows(s *workspace.Status) []HealthRow {
	rows := make([]HealthRow, 0, len(workspace.Fields))
	for _, f := range workspace.Fields {
		rows = append(rows, HealthRow{
			Component: f.Title(),
			Key:       f.Key(),
			Value:     s.Value(f),
			Level:     s.Classify(f).String(),
		})
	}
	return rows
}

// OutputDocumentList prints the indexed documents
func OutputDocumentList(w io.Writer, docs []string, format Format) error {
	switch format {
	case FormatJSON:
		return outputJSON(w, map[string][]string{"documents": docs})
	case FormatMD:
		if len(docs) == 0 {
			_, err := fmt.Fprintln(w, "_No documents uploaded yet._")
			return err
		}
		for _, d := range docs {
			fmt.Fprintf(w, "- %s\n", d)
		}
		return nil
	default:
		if len(docs) == 0 {
			_, err := fmt.Fprintln(w, mutedStyle.Render("No documents uploaded yet."))
			return err
		}
		for _, d := range docs {
			fmt.Fprintln(w, d)
		}
		return nil
	}
}

// OutputUpload prints an upload acknowledgment
func OutputUpload(w io.Writer, res *api.UploadResult, format Format) error {
	if format == FormatJSON {
		return outputJSON(w, res)
	}
	_, err := fmt.Fprintf(w, "Success: %s %s.\n", res.Filename, orDefault(res.Status, "indexed"))
	return err
}

// OutputAnswer prints an answer and its sources
func OutputAnswer(w io.Writer, ans *api.Answer, format Format) error {
	switch format {
	case FormatJSON:
		return outputJSON(w, ans)
	case FormatMD:
		fmt.Fprintln(w, ans.Answer)
		if len(ans.Sources) > 0 {
			fmt.Fprintln(w)
			fmt.Fprintln(w, "**Sources:**")
			for _, s := range ans.Sources {
				fmt.Fprintf(w, "- %s\n", s)
			}
		}
		return nil
	default:
		fmt.Fprintln(w, ans.Answer)
		if len(ans.Sources) > 0 {
			fmt.Fprintln(w, mutedStyle.Render("Sources: "+strings.Join(ans.Sources, ", ")))
		}
		return nil
	}
}

// OutputReset prints a reset acknowledgment
func OutputReset(w io.Writer, res *api.ResetResult, format Format) error {
	if format == FormatJSON {
		return outputJSON(w, res)
	}
	_, err := fmt.Fprintln(w, orDefault(res.Message, "Knowledge base cleared."))
	return err
}

// OutputHealth prints the three health components with their classification
func OutputHealth(w io.Writer, rows []HealthRow, format Format) error {
	switch format {
	case FormatJSON:
		return outputJSON(w, rows)
	case FormatMD:
		fmt.Fprintln(w, "| Component | Status | Level |")
		fmt.Fprintln(w, "|-----------|--------|-------|")
		for _, r := range rows {
			fmt.Fprintf(w, "| %s | %s | %s |\n", r.Component, r.Value, r.Level)
		}
		return nil
	default:
		width := 0
		for _, r := range rows {
			if len(r.Component) > width {
				width = len(r.Component)
			}
		}
		for _, r := range rows {
			fmt.Fprintf(w, "%s  %-*s  %s\n", marker(r.Level), width, r.Component, r.Value)
		}
		return nil
	}
}

func marker(level string) string {
	switch level {
	case workspace.LevelOK.String():
		return okStyle.Render("✓")
	case workspace.LevelError.String():
		return errorStyle.Render("✗")
	default:
		return neutralStyle.Render("•")
	}
}

func outputJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
