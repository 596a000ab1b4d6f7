package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrListFailed   = errors.New("list documents failed")
	ErrUploadFailed = errors.New("upload failed")
	ErrAskFailed    = errors.New("ask failed")
	ErrResetFailed  = errors.New("reset failed")
	ErrHealthFailed = errors.New("health check failed")
)

// StatusError is returned when the backend answers with a non-2xx status.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Detail string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Code, e.Detail)
}

// DetailOf returns the backend's detail message when err carries one, and
// err's text otherwise.
func DetailOf(err error) string {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Detail
	}
	return err.Error()
}

// parseDetail extracts the "detail" field of an error body. Validation errors
// carry a list of objects there, which is reported as raw JSON.
func parseDetail(code int, body []byte) string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && len(payload.Detail) > 0 {
		var s string
		if err := json.Unmarshal(payload.Detail, &s); err == nil {
			return s
		}
		return string(payload.Detail)
	}
	if text := strings.TrimSpace(string(body)); text != "" && len(text) <= 200 {
		return text
	}
	return http.StatusText(code)
}
