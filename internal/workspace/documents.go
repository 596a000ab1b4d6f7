package workspace

import (
	"fmt"

	"github.com/dyike/docqa/internal/api"
	"go.uber.org/zap"
)

// UploadState is the lifecycle of one upload action
type UploadState int

const (
	UploadIdle UploadState = iota
	UploadUploading
	UploadSuccess
	UploadError
)

func (s UploadState) String() string {
	switch s {
	case UploadUploading:
		return "uploading"
	case UploadSuccess:
		return "success"
	case UploadError:
		return "error"
	default:
		return "idle"
	}
}

// ResetAlert is shown when the backend refuses or cannot be reached for a reset.
const ResetAlert = "Failed to reset knowledge base."

// ResetPrompt is the confirmation question asked before a reset.
const ResetPrompt = "Are you sure you want to clear all documents and history?"

// Documents is the document panel: the indexed file list, the upload widget
// and the reset gate. The list is only ever replaced by a server response.
type Documents struct {
	items   []string
	loadErr error
	loaded  bool

	upload     UploadState
	uploadName string
	statusText string

	confirming bool
	resetting  bool
	alert      string

	loads   generation
	uploads generation
	resets  generation

	logger *zap.Logger
}

// NewDocuments creates an empty document panel
func NewDocuments(logger *zap.Logger) *Documents {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Documents{items: []string{}, logger: logger}
}

// Items returns a copy of the displayed documents
func (d *Documents) Items() []string {
	return append([]string{}, d.items...)
}

// Loaded reports whether a list response has been applied at least once
func (d *Documents) Loaded() bool { return d.loaded }

// LoadErr returns the error of the last applied list request
func (d *Documents) LoadErr() error { return d.loadErr }

// UploadState returns the upload widget state
func (d *Documents) UploadState() UploadState { return d.upload }

// StatusText returns the upload widget message
func (d *Documents) StatusText() string { return d.statusText }

// Uploading reports whether uploads are disabled
func (d *Documents) Uploading() bool { return d.upload == UploadUploading }

// BeginLoad starts a list reload
func (d *Documents) BeginLoad() Ticket {
	return d.loads.next()
}

// FinishLoad applies a list response. A failed load shows an empty list.
// It returns false when the ticket is stale.
func (d *Documents) FinishLoad(t Ticket, docs []string, err error) bool {
	if !d.loads.current(t) {
		d.logger.Debug("documents: dropping stale list response", zap.Uint64("ticket", uint64(t)))
		return false
	}
	if err != nil {
		d.loadErr = err
		d.items = []string{}
		d.logger.Error("documents: failed to load", zap.Error(err))
		return true
	}
	d.loadErr = nil
	d.loaded = true
	if docs == nil {
		docs = []string{}
	}
	d.items = append([]string{}, docs...)
	return true
}

// BeginUpload starts uploading name. Only one upload runs at a time.
func (d *Documents) BeginUpload(name string) (Ticket, error) {
	if d.upload == UploadUploading {
		return 0, ErrUploadInProgress
	}
	d.upload = UploadUploading
	d.uploadName = name
	d.statusText = "Uploading & Indexing..."
	return d.uploads.next(), nil
}

// FinishUpload applies an upload response. reload is true when the caller
// must fetch the document list again; the list is never patched locally.
func (d *Documents) FinishUpload(t Ticket, res *api.UploadResult, err error) (reload bool) {
	if !d.uploads.current(t) {
		return false
	}
	if err != nil {
		d.upload = UploadError
		d.statusText = "Error: " + api.DetailOf(err)
		d.logger.Warn("documents: upload failed", zap.String("file", d.uploadName), zap.Error(err))
		return false
	}

	name := d.uploadName
	if res != nil && res.Filename != "" {
		name = res.Filename
	}
	d.upload = UploadSuccess
	d.statusText = fmt.Sprintf("Success: %s indexed.", name)
	d.logger.Info("documents: uploaded", zap.String("file", name))
	return true
}

// ClearUploadStatus returns the widget to idle after the display delay. It
// is ignored when another upload started since t was issued.
func (d *Documents) ClearUploadStatus(t Ticket) bool {
	if !d.uploads.current(t) || d.upload == UploadUploading {
		return false
	}
	d.upload = UploadIdle
	d.statusText = ""
	return true
}

// RequestReset opens the confirmation gate
func (d *Documents) RequestReset() bool {
	if d.confirming || d.resetting {
		return false
	}
	d.confirming = true
	return true
}

// Confirming reports whether the reset confirmation is open
func (d *Documents) Confirming() bool { return d.confirming }

// Resetting reports whether a reset call is outstanding
func (d *Documents) Resetting() bool { return d.resetting }

// DeclineReset closes the gate without any change
func (d *Documents) DeclineReset() {
	d.confirming = false
}

// ConfirmReset closes the gate and authorises exactly one reset call
func (d *Documents) ConfirmReset() (Ticket, bool) {
	if !d.confirming {
		return 0, false
	}
	d.confirming = false
	d.resetting = true
	return d.resets.next(), true
}

// FinishReset applies a reset response. On success the list is emptied and
// true is returned so the caller can clear the chat transcript. On failure an
// alert is raised and nothing else changes.
func (d *Documents) FinishReset(t Ticket, err error) bool {
	if !d.resets.current(t) {
		return false
	}
	d.resetting = false
	if err != nil {
		d.alert = ResetAlert
		d.logger.Error("documents: failed to reset", zap.Error(err))
		return false
	}

	d.items = []string{}
	d.loadErr = nil
	// A list reply issued before the reset must not bring the old files back.
	d.loads.invalidate()
	d.logger.Info("documents: knowledge base cleared")
	return true
}

// Alert returns the blocking message to show, if any
func (d *Documents) Alert() string { return d.alert }

// DismissAlert acknowledges the alert
func (d *Documents) DismissAlert() { d.alert = "" }
