package workspace

import (
	"strings"
	"time"

	"github.com/dyike/docqa/internal/api"
	"go.uber.org/zap"
)

// Tokens synthesized by the client; the backend never sends them.
const (
	StatusChecking    = "Checking..."
	StatusUnreachable = "Unreachable"
	StatusUnknown     = "Unknown"
)

// Field names one component of the health snapshot
type Field int

const (
	FieldBackend Field = iota
	FieldVectorStore
	FieldLLMKey
)

// Fields lists the snapshot components in display order
var Fields = []Field{FieldBackend, FieldVectorStore, FieldLLMKey}

// Title is the card heading for f
func (f Field) Title() string {
	switch f {
	case FieldBackend:
		return "Backend API"
	case FieldVectorStore:
		return "Vector Database"
	case FieldLLMKey:
		return "LLM Connection"
	}
	return "Unknown"
}

// Key is the JSON field name of f
func (f Field) Key() string {
	switch f {
	case FieldBackend:
		return "backend"
	case FieldVectorStore:
		return "vector_store"
	case FieldLLMKey:
		return "llm_key"
	}
	return ""
}

// Level is the display classification of a status value
type Level int

const (
	LevelNeutral Level = iota
	LevelOK
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelOK:
		return "ok"
	case LevelError:
		return "error"
	default:
		return "neutral"
	}
}

// Classifier maps a status value to a Level
type Classifier func(value string) Level

var (
	okValues    = map[string]bool{"running": true, "available": true, "present": true}
	errorValues = map[string]bool{"down": true, "error": true, "missing": true, StatusUnreachable: true}
)

// DefaultClassifier is the shared membership test. Qualified values such as
// "missing (NVIDIA_API_KEY)" or "unavailable: ..." count as errors.
func DefaultClassifier(value string) Level {
	switch {
	case okValues[value]:
		return LevelOK
	case errorValues[value]:
		return LevelError
	case strings.HasPrefix(value, "missing"), strings.HasPrefix(value, "unavailable"):
		return LevelError
	}
	return LevelNeutral
}

// StatusOption configures a Status panel
type StatusOption func(*Status)

// WithClassifier overrides the classification of one field
func WithClassifier(f Field, c Classifier) StatusOption {
	return func(s *Status) {
		s.classifiers[f] = c
	}
}

// WithClock replaces time.Now for LastChecked
func WithClock(now func() time.Time) StatusOption {
	return func(s *Status) {
		s.now = now
	}
}

// Status is the status panel: one health snapshot plus a checking flag
type Status struct {
	snapshot    api.Health
	checking    bool
	lastChecked time.Time
	checks      generation
	classifiers map[Field]Classifier
	now         func() time.Time
	logger      *zap.Logger
}

// NewStatus creates a status panel showing the checking state
func NewStatus(logger *zap.Logger, opts ...StatusOption) *Status {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Status{
		snapshot:    checkingSnapshot(),
		classifiers: make(map[Field]Classifier),
		now:         time.Now,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func checkingSnapshot() api.Health {
	return api.Health{Backend: StatusChecking, VectorStore: StatusChecking, LLMKey: StatusChecking}
}

// Refresh resets every field to the checking token and starts a check
func (s *Status) Refresh() Ticket {
	s.snapshot = checkingSnapshot()
	s.checking = true
	return s.checks.next()
}

// Apply overwrites all three fields with the server reply, or with the
// synthesized failure tokens when the call failed. Fields the server left
// empty show StatusUnknown.
func (s *Status) Apply(t Ticket, h *api.Health, err error) bool {
	if !s.checks.current(t) {
		return false
	}
	s.checking = false
	s.lastChecked = s.now()

	if err != nil || h == nil {
		s.logger.Warn("status: health check failed", zap.Error(err))
		s.snapshot = api.Health{Backend: StatusUnreachable, VectorStore: StatusUnknown, LLMKey: StatusUnknown}
		return true
	}
	s.snapshot = api.Health{
		Backend:     orUnknown(h.Backend),
		VectorStore: orUnknown(h.VectorStore),
		LLMKey:      orUnknown(h.LLMKey),
	}
	return true
}

func orUnknown(v string) string {
	if v == "" {
		return StatusUnknown
	}
	return v
}

// Snapshot returns the displayed values
func (s *Status) Snapshot() api.Health { return s.snapshot }

// Checking reports whether a check is outstanding
func (s *Status) Checking() bool { return s.checking }

// LastChecked is when the last check settled; zero before the first one
func (s *Status) LastChecked() time.Time { return s.lastChecked }

// Value returns the displayed value of f
func (s *Status) Value(f Field) string {
	switch f {
	case FieldBackend:
		return s.snapshot.Backend
	case FieldVectorStore:
		return s.snapshot.VectorStore
	case FieldLLMKey:
		return s.snapshot.LLMKey
	}
	return ""
}

// Classify returns the level of f's current value
func (s *Status) Classify(f Field) Level {
	if c, ok := s.classifiers[f]; ok {
		return c(s.Value(f))
	}
	return DefaultClassifier(s.Value(f))
}

// Healthy reports whether no field classifies as an error
func (s *Status) Healthy() bool {
	for _, f := range Fields {
		if s.Classify(f) == LevelError {
			return false
		}
	}
	return true
}
