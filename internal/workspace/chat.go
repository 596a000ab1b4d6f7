package workspace

import (
	"strings"

	"github.com/dyike/docqa/internal/api"
	"go.uber.org/zap"
)

// Role is the author of a chat message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

const (
	// WelcomeMessage seeds a fresh transcript.
	WelcomeMessage = "Hello! I am your private knowledge assistant. Upload a document to get started or ask me anything about your existing files."
	// ClearedMessage seeds the transcript after a reset.
	ClearedMessage = "Knowledge base cleared. You can upload new documents now."
	// ErrorReply replaces any failed answer.
	ErrorReply = "Sorry, I encountered an error."
)

// Message is one transcript entry
type Message struct {
	Role    Role
	Content string
	Sources []string
}

// Chat is the chat panel. The transcript is append-only until Reset.
type Chat struct {
	messages []Message
	busy     bool
	asks     generation
	logger   *zap.Logger
}

// NewChat creates a chat panel seeded with the welcome message
func NewChat(logger *zap.Logger) *Chat {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Chat{
		messages: []Message{{Role: RoleAssistant, Content: WelcomeMessage}},
		logger:   logger,
	}
}

// Messages returns a copy of the transcript
func (c *Chat) Messages() []Message {
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Busy reports whether an answer is pending
func (c *Chat) Busy() bool { return c.busy }

// CanSend reports whether input would be accepted by Send
func (c *Chat) CanSend(input string) bool {
	return !c.busy && strings.TrimSpace(input) != ""
}

// Send appends the user message and enters the thinking state. The returned
// query is the literal input to pass to the backend. Blank input and input
// received while busy change nothing.
func (c *Chat) Send(input string) (Ticket, string, error) {
	if strings.TrimSpace(input) == "" {
		return 0, "", ErrEmptyQuery
	}
	if c.busy {
		return 0, "", ErrBusy
	}
	c.messages = append(c.messages, Message{Role: RoleUser, Content: input})
	c.busy = true
	return c.asks.next(), input, nil
}

// Receive applies the answer for ticket t. A failure is shown as ErrorReply,
// never as the raw error. It returns false when t is stale.
func (c *Chat) Receive(t Ticket, ans *api.Answer, err error) bool {
	if !c.asks.current(t) {
		c.logger.Debug("chat: dropping stale answer", zap.Uint64("ticket", uint64(t)))
		return false
	}
	c.busy = false

	if err != nil || ans == nil {
		c.logger.Error("chat: ask failed", zap.Error(err))
		c.messages = append(c.messages, Message{Role: RoleAssistant, Content: ErrorReply})
		return true
	}

	var sources []string
	if len(ans.Sources) > 0 {
		sources = append([]string{}, ans.Sources...)
	}
	c.messages = append(c.messages, Message{
		Role:    RoleAssistant,
		Content: ans.Answer,
		Sources: sources,
	})
	return true
}

// Reset restores the one-message seed transcript and drops any pending answer
func (c *Chat) Reset() {
	c.messages = []Message{{Role: RoleAssistant, Content: ClearedMessage}}
	c.busy = false
	c.asks.invalidate()
}
