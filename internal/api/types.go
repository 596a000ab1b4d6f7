package api

import (
	"path/filepath"
	"strings"
)

// SupportedExtensions lists the file types the backend can ingest.
var SupportedExtensions = []string{".txt", ".pdf", ".docx"}

// IsSupported reports whether name has an extension the backend accepts.
func IsSupported(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range SupportedExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Answer is the backend reply to a question
type Answer struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources,omitempty"`
}

// Health is the three-field status payload of /health. Values are free-form.
type Health struct {
	Backend     string `json:"backend"`
	VectorStore string `json:"vector_store"`
	LLMKey      string `json:"llm_key"`
}

// UploadResult acknowledges an indexed upload
type UploadResult struct {
	Filename string `json:"filename"`
	Status   string `json:"status"`
}

// ResetResult acknowledges a knowledge base reset. The body is optional.
type ResetResult struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type documentsResponse struct {
	Documents []string `json:"documents"`
}

type askRequest struct {
	Query string `json:"query"`
}
