// Package apitest provides an in-process fake of the question-answering
// backend for tests.
package apitest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/go-chi/chi/v5"
)

// Calls counts requests per endpoint.
type Calls struct {
	Documents int
	Upload    int
	Ask       int
	Reset     int
	Health    int
}

// Server is a fake backend. AnswerFunc and HealthBody must be set before the
// first request that reads them; the Fail* setters are safe at any time.
type Server struct {
	*httptest.Server

	mu        sync.Mutex
	documents []string
	calls     Calls
	queries   []string
	uploads   map[string][]byte
	requestID []string

	// AnswerFunc produces the /ask reply. Default echoes the query.
	AnswerFunc func(query string) (answer string, sources []string)
	// HealthBody is returned verbatim by /health.
	HealthBody map[string]string

	uploadStatus int
	uploadDetail string
	askStatus    int
	resetStatus  int
	healthStatus int
	omitDocs     bool
}

// NewServer starts a fake backend holding docs.
func NewServer(docs ...string) *Server {
	s := &Server{
		documents: append([]string(nil), docs...),
		uploads:   make(map[string][]byte),
		AnswerFunc: func(q string) (string, []string) {
			return "You asked: " + q, nil
		},
		HealthBody: map[string]string{
			"backend":      "running",
			"vector_store": "available",
			"llm_key":      "present",
		},
	}

	r := chi.NewRouter()
	r.Use(s.recordRequestID)
	r.Get("/documents", s.handleDocuments)
	r.Post("/upload", s.handleUpload)
	r.Post("/ask", s.handleAsk)
	r.Delete("/reset", s.handleReset)
	r.Get("/health", s.handleHealth)

	s.Server = httptest.NewServer(r)
	return s
}

// FailUpload makes /upload answer status with a FastAPI-style detail.
func (s *Server) FailUpload(status int, detail string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploadStatus, s.uploadDetail = status, detail
}

// FailAsk makes /ask answer status.
func (s *Server) FailAsk(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.askStatus = status
}

// FailReset makes /reset answer status.
func (s *Server) FailReset(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetStatus = status
}

// FailHealth makes /health answer status.
func (s *Server) FailHealth(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.healthStatus = status
}

// OmitDocuments makes /documents reply with an empty object.
func (s *Server) OmitDocuments() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.omitDocs = true
}

// SetDocuments replaces the stored document list.
func (s *Server) SetDocuments(docs ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents = append([]string(nil), docs...)
}

// Calls returns a snapshot of the per-endpoint counters.
func (s *Server) Calls() Calls {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// Queries returns every query received by /ask.
func (s *Server) Queries() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.queries...)
}

// Uploaded returns the bytes received for name.
func (s *Server) Uploaded(name string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.uploads[name]
	return b, ok
}

// RequestIDs returns the X-Request-ID header of every request.
func (s *Server) RequestIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requestID...)
}

func (s *Server) recordRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requestID = append(s.requestID, r.Header.Get("X-Request-ID"))
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleDocuments(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.calls.Documents++
	docs := append([]string{}, s.documents...)
	omit := s.omitDocs
	s.mu.Unlock()

	if omit {
		writeJSON(w, http.StatusOK, map[string]any{})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"documents": docs})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.calls.Upload++
	status, detail := s.uploadStatus, s.uploadDetail
	s.mu.Unlock()

	if status != 0 {
		writeJSON(w, status, map[string]string{"detail": detail})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": "file field required"})
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": err.Error()})
		return
	}

	// One document at a time: an upload replaces the knowledge base.
	s.mu.Lock()
	s.documents = []string{header.Filename}
	s.uploads[header.Filename] = data
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]string{"filename": header.Filename, "status": "indexed"})
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Query string `json:"query"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)

	s.mu.Lock()
	s.calls.Ask++
	s.queries = append(s.queries, req.Query)
	status := s.askStatus
	answer := s.AnswerFunc
	s.mu.Unlock()

	if status != 0 {
		writeJSON(w, status, map[string]string{"detail": "Error processing question: boom"})
		return
	}
	text, sources := answer(req.Query)
	writeJSON(w, http.StatusOK, map[string]any{"answer": text, "sources": sources})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.calls.Reset++
	status := s.resetStatus
	if status == 0 {
		s.documents = nil
		s.uploads = make(map[string][]byte)
	}
	s.mu.Unlock()

	if status != 0 {
		writeJSON(w, status, map[string]string{"detail": "Failed to reset"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "success", "message": "Knowledge base cleared."})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.calls.Health++
	status := s.healthStatus
	body := s.HealthBody
	s.mu.Unlock()

	if status != 0 {
		writeJSON(w, status, map[string]string{"detail": "unhealthy"})
		return
	}
	writeJSON(w, http.StatusOK, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
