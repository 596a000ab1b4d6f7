package tui

import (
	"github.com/dyike/docqa/internal/api"
	"github.com/dyike/docqa/internal/workspace"
)

// DocumentsLoadedMsg carries a /documents reply
type DocumentsLoadedMsg struct {
	Ticket    workspace.Ticket
	Documents []string
	Err       error
}

// UploadFinishedMsg carries an /upload reply
type UploadFinishedMsg struct {
	Ticket workspace.Ticket
	Result *api.UploadResult
	Err    error
}

// UploadStatusExpiredMsg fires when the upload status display delay ends
type UploadStatusExpiredMsg struct {
	Ticket workspace.Ticket
}

// AnswerMsg carries an /ask reply
type AnswerMsg struct {
	Ticket workspace.Ticket
	Answer *api.Answer
	Err    error
}

// ResetFinishedMsg carries a /reset reply
type ResetFinishedMsg struct {
	Ticket workspace.Ticket
	Err    error
}

// HealthCheckedMsg carries a /health reply
type HealthCheckedMsg struct {
	Ticket workspace.Ticket
	Health *api.Health
	Err    error
}

// ScreenChangeMsg asks the app to show another screen
type ScreenChangeMsg struct {
	Screen Screen
}
