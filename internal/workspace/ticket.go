// Package workspace holds the state of the document, chat and status panels.
//
// Panels never perform I/O. A panel hands out a Ticket when a request starts
// and accepts the response only while that ticket is still the latest one, so
// a slow reply can never overwrite the result of a newer request.
package workspace

import "errors"

var (
	ErrEmptyQuery       = errors.New("query is empty")
	ErrBusy             = errors.New("waiting for the previous answer")
	ErrUploadInProgress = errors.New("an upload is already in progress")
)

// Ticket identifies one request issued by a panel.
type Ticket uint64

type generation struct {
	n Ticket
}

func (g *generation) next() Ticket {
	g.n++
	return g.n
}

func (g *generation) current(t Ticket) bool {
	return t != 0 && t == g.n
}

// invalidate makes every outstanding ticket stale.
func (g *generation) invalidate() {
	g.n++
}
