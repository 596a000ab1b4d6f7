package format

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/dyike/docqa/internal/api"
	"github.com/dyike/docqa/internal/workspace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	f, err := Parse("JSON")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	_, err = Parse("xml")
	assert.Error(t, err)
}

func TestOutputDocumentList(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, OutputDocumentList(&buf, []string{"a.pdf", "b.txt"}, FormatText))
	assert.Equal(t, "a.pdf\nb.txt\n", buf.String())

	buf.Reset()
	require.NoError(t, OutputDocumentList(&buf, []string{}, FormatText))
	assert.Contains(t, buf.String(), "No documents uploaded yet.")

	buf.Reset()
	require.NoError(t, OutputDocumentList(&buf, []string{"a.pdf"}, FormatJSON))
	var decoded map[string][]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, []string{"a.pdf"}, decoded["documents"])
}

func TestOutputAnswer(t *testing.T) {
	var buf bytes.Buffer
	ans := &api.Answer{Answer: "Within 30 days.", Sources: []string{"policy.pdf", "faq.txt"}}
	require.NoError(t, OutputAnswer(&buf, ans, FormatText))
	assert.Contains(t, buf.String(), "Within 30 days.\n")
	assert.Contains(t, buf.String(), "Sources: policy.pdf, faq.txt")

	buf.Reset()
	require.NoError(t, OutputAnswer(&buf, &api.Answer{Answer: "No idea."}, FormatMD))
	assert.Equal(t, "No idea.\n", buf.String())
}

func TestOutputHealth(t *testing.T) {
	s := workspace.NewStatus(nil)
	s.Apply(s.Refresh(), nil, errors.New("refused"))
	rows := HealthRows(s)
	require.Len(t, rows, 3)
	assert.Equal(t, HealthRow{Component: "Backend API", Key: "backend", Value: "Unreachable", Level: "error"}, rows[0])

	var buf bytes.Buffer
	require.NoError(t, OutputHealth(&buf, rows, FormatText))
	assert.Contains(t, buf.String(), "Backend API")
	assert.Contains(t, buf.String(), "Unreachable")

	buf.Reset()
	require.NoError(t, OutputHealth(&buf, rows, FormatMD))
	assert.Contains(t, buf.String(), "| Vector Database | Unknown | neutral |")
}

func TestOutputUploadAndReset(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, OutputUpload(&buf, &api.UploadResult{Filename: "a.pdf"}, FormatText))
	assert.Equal(t, "Success: a.pdf indexed.\n", buf.String())

	buf.Reset()
	require.NoError(t, OutputReset(&buf, &api.ResetResult{}, FormatText))
	assert.Equal(t, "Knowledge base cleared.\n", buf.String())
}
