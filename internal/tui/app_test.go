package tui

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dyike/docqa/internal/api"
	"github.com/dyike/docqa/internal/api/apitest"
	"github.com/dyike/docqa/internal/workspace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cmdTimeout = time.Second

// runCmd executes c, giving up on commands that wait longer than cmdTimeout
// (timers, cursor blinks).
func runCmd(c tea.Cmd) (tea.Msg, bool) {
	ch := make(chan tea.Msg, 1)
	go func() { ch <- c() }()
	select {
	case msg := <-ch:
		return msg, true
	case <-time.After(cmdTimeout):
		return nil, false
	}
}

// drain executes cmd and every command it produces, feeding the app's own
// messages back into Update.
func drain(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	pending := []tea.Cmd{cmd}
	for len(pending) > 0 {
		c := pending[0]
		pending = pending[1:]
		if c == nil {
			continue
		}
		msg, ok := runCmd(c)
		if !ok {
			continue
		}
		switch msg := msg.(type) {
		case tea.BatchMsg:
			pending = append(pending, msg...)
		case DocumentsLoadedMsg, UploadFinishedMsg, UploadStatusExpiredMsg,
			AnswerMsg, ResetFinishedMsg, HealthCheckedMsg, ScreenChangeMsg:
			next, nc := m.Update(msg)
			m = next.(Model)
			pending = append(pending, nc)
		}
	}
	return m
}

func press(t *testing.T, m Model, k tea.KeyMsg) Model {
	t.Helper()
	next, cmd := m.Update(k)
	return drain(t, next.(Model), cmd)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	tab   = tea.KeyMsg{Type: tea.KeyTab}
	ctrlR = tea.KeyMsg{Type: tea.KeyCtrlR}
	ctrlB = tea.KeyMsg{Type: tea.KeyCtrlB}
	ctrlU = tea.KeyMsg{Type: tea.KeyCtrlU}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
)

func newTestModel(t *testing.T, screen Screen, clearDelay time.Duration, docs ...string) (Model, *apitest.Server) {
	t.Helper()
	srv := apitest.NewServer(docs...)
	t.Cleanup(srv.Close)

	client := api.NewClient(srv.URL, api.WithTimeout(5*time.Second))
	m := NewModel(context.Background(), client, Options{
		BaseURL:          srv.URL,
		Version:          "test",
		StatusClearDelay: clearDelay,
		Screen:           screen,
		StartDir:         t.TempDir(),
	})
	m.textarea.Cursor.SetMode(cursor.CursorStatic)

	next, _ := m.Update(tea.WindowSizeMsg{Width: 160, Height: 40})
	m = next.(Model)
	return drain(t, m, m.Init()), srv
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLanding_NoFetchUntilWorkspace(t *testing.T) {
	m, srv := newTestModel(t, ScreenLanding, time.Hour, "a.pdf")
	assert.Equal(t, apitest.Calls{}, srv.Calls())
	assert.Equal(t, FocusInput, m.Focused())

	m = press(t, m, enter)
	assert.Equal(t, ScreenWorkspace, m.Screen())
	assert.Equal(t, FocusInput, m.Focused())
	assert.Equal(t, 1, srv.Calls().Documents)
	assert.Equal(t, []string{"a.pdf"}, m.Documents().Items())
}

func TestWorkspaceMount_RefetchesOnEveryEntry(t *testing.T) {
	m, srv := newTestModel(t, ScreenWorkspace, time.Hour, "a.pdf")
	assert.Equal(t, 1, srv.Calls().Documents)

	m = press(t, m, tab) // sidebar
	m = press(t, m, runes("3"))
	assert.Equal(t, ScreenStatus, m.Screen())

	srv.SetDocuments("a.pdf", "b.txt")
	m = press(t, m, runes("2"))
	assert.Equal(t, 2, srv.Calls().Documents)
	assert.Equal(t, []string{"a.pdf", "b.txt"}, m.Documents().Items())
}

func TestSend_AppendsQuestionAndAnswer(t *testing.T) {
	m, srv := newTestModel(t, ScreenWorkspace, time.Hour)
	srv.AnswerFunc = func(q string) (string, []string) {
		return "Within 30 days.", []string{"policy.pdf"}
	}

	m.textarea.SetValue("What is the refund window?")
	m = press(t, m, enter)

	msgs := m.Chat().Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, workspace.WelcomeMessage, msgs[0].Content)
	assert.Equal(t, workspace.Message{Role: workspace.RoleUser, Content: "What is the refund window?"}, msgs[1])
	assert.Equal(t, "Within 30 days.", msgs[2].Content)
	assert.Equal(t, []string{"policy.pdf"}, msgs[2].Sources)
	assert.Empty(t, m.Input())
	assert.False(t, m.Chat().Busy())
	assert.Equal(t, []string{"What is the refund window?"}, srv.Queries())
}

func TestSend_BlankInputIgnored(t *testing.T) {
	m, srv := newTestModel(t, ScreenWorkspace, time.Hour)

	m.textarea.SetValue("   ")
	m = press(t, m, enter)

	assert.Len(t, m.Chat().Messages(), 1)
	assert.Equal(t, 0, srv.Calls().Ask)
}

func TestSend_IgnoredWhileThinking(t *testing.T) {
	m, srv := newTestModel(t, ScreenWorkspace, time.Hour)

	m.textarea.SetValue("first")
	next, pending := m.Update(enter)
	m = next.(Model)
	require.True(t, m.Chat().Busy())

	m.textarea.SetValue("second")
	next, cmd := m.Update(enter)
	m = next.(Model)
	assert.Nil(t, cmd)
	assert.Equal(t, "second", m.Input())

	m = drain(t, m, pending)
	assert.Equal(t, []string{"first"}, srv.Queries())
	assert.Len(t, m.Chat().Messages(), 3)
}

func TestSend_FailureShowsGenericReply(t *testing.T) {
	m, srv := newTestModel(t, ScreenWorkspace, time.Hour)
	srv.FailAsk(http.StatusInternalServerError)

	m.textarea.SetValue("hello")
	m = press(t, m, enter)

	msgs := m.Chat().Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, workspace.ErrorReply, msgs[2].Content)
	assert.Nil(t, msgs[2].Sources)
	assert.False(t, m.Chat().Busy())
}

func TestDigitsTypeIntoInput(t *testing.T) {
	m, _ := newTestModel(t, ScreenWorkspace, time.Hour)

	m = press(t, m, runes("3"))
	assert.Equal(t, ScreenWorkspace, m.Screen())
	assert.Equal(t, "3", m.Input())
}

func TestUpload_ReloadsListOnce(t *testing.T) {
	m, srv := newTestModel(t, ScreenWorkspace, time.Hour, "old.pdf")
	path := writeFile(t, "policy.txt", "refunds within 30 days")

	m = drain(t, m, m.startUpload(path))

	calls := srv.Calls()
	assert.Equal(t, 1, calls.Upload)
	assert.Equal(t, 2, calls.Documents) // mount + post-upload reload
	assert.Equal(t, []string{"policy.txt"}, m.Documents().Items())
	assert.Equal(t, workspace.UploadSuccess, m.Documents().UploadState())
	assert.Equal(t, "Success: policy.txt indexed.", m.Documents().StatusText())
}

func TestUpload_FailureShowsDetail(t *testing.T) {
	m, srv := newTestModel(t, ScreenWorkspace, time.Hour, "old.pdf")
	srv.FailUpload(http.StatusBadRequest, "Unsupported file type")
	path := writeFile(t, "notes.txt", "x")

	m = drain(t, m, m.startUpload(path))

	assert.Equal(t, workspace.UploadError, m.Documents().UploadState())
	assert.Equal(t, "Error: Unsupported file type", m.Documents().StatusText())
	assert.Equal(t, 1, srv.Calls().Documents)
	assert.Equal(t, []string{"old.pdf"}, m.Documents().Items())
}

func TestUpload_SecondIgnoredWhileUploading(t *testing.T) {
	m, srv := newTestModel(t, ScreenWorkspace, time.Hour)
	path := writeFile(t, "a.txt", "a")

	first := m.startUpload(path)
	require.True(t, m.Documents().Uploading())
	assert.Nil(t, m.startUpload(path))

	next, cmd := m.Update(ctrlU)
	m = next.(Model)
	assert.Nil(t, cmd)
	assert.False(t, m.Picking())

	m = drain(t, m, first)
	assert.Equal(t, 1, srv.Calls().Upload)
}

func TestUpload_StatusClearsAfterDelay(t *testing.T) {
	m, _ := newTestModel(t, ScreenWorkspace, time.Millisecond)
	path := writeFile(t, "a.txt", "a")

	m = drain(t, m, m.startUpload(path))

	assert.Equal(t, workspace.UploadIdle, m.Documents().UploadState())
	assert.Empty(t, m.Documents().StatusText())
	assert.Equal(t, []string{"a.txt"}, m.Documents().Items())
}

func TestUploadPicker_OpensAndCancels(t *testing.T) {
	m, _ := newTestModel(t, ScreenWorkspace, time.Hour)

	m = press(t, m, ctrlU)
	assert.True(t, m.Picking())
	assert.Contains(t, m.View(), "Upload Document")

	m = press(t, m, esc)
	assert.False(t, m.Picking())
}

func TestReset_Confirmed(t *testing.T) {
	m, srv := newTestModel(t, ScreenWorkspace, time.Hour, "a.pdf", "b.txt")
	m.textarea.SetValue("q")
	m = press(t, m, enter)
	require.Len(t, m.Chat().Messages(), 3)

	m = press(t, m, ctrlR)
	require.True(t, m.Documents().Confirming())
	assert.Contains(t, m.View(), workspace.ResetPrompt)

	m = press(t, m, runes("y"))
	assert.Equal(t, 1, srv.Calls().Reset)
	assert.Empty(t, m.Documents().Items())
	assert.Equal(t, []workspace.Message{{Role: workspace.RoleAssistant, Content: workspace.ClearedMessage}}, m.Chat().Messages())
}

func TestReset_Declined(t *testing.T) {
	m, srv := newTestModel(t, ScreenWorkspace, time.Hour, "a.pdf")

	m = press(t, m, ctrlR)
	m = press(t, m, runes("n"))

	assert.False(t, m.Documents().Confirming())
	assert.Equal(t, 0, srv.Calls().Reset)
	assert.Equal(t, []string{"a.pdf"}, m.Documents().Items())
	assert.Len(t, m.Chat().Messages(), 1)
}

func TestReset_FailureRaisesAlert(t *testing.T) {
	m, srv := newTestModel(t, ScreenWorkspace, time.Hour, "a.pdf")
	srv.FailReset(http.StatusInternalServerError)

	m = press(t, m, ctrlR)
	m = press(t, m, runes("y"))

	assert.Equal(t, workspace.ResetAlert, m.Documents().Alert())
	assert.Contains(t, m.View(), workspace.ResetAlert)
	assert.Equal(t, []string{"a.pdf"}, m.Documents().Items())
	assert.Equal(t, workspace.WelcomeMessage, m.Chat().Messages()[0].Content)

	// Alert blocks other input until dismissed
	m = press(t, m, ctrlR)
	assert.False(t, m.Documents().Confirming())
	m = press(t, m, enter)
	assert.Empty(t, m.Documents().Alert())
}

func TestReset_DropsPendingAnswer(t *testing.T) {
	m, _ := newTestModel(t, ScreenWorkspace, time.Hour)

	m.textarea.SetValue("slow question")
	next, pending := m.Update(enter)
	m = next.(Model)

	m = press(t, m, ctrlR)
	m = press(t, m, runes("y"))
	m = drain(t, m, pending)

	assert.Equal(t, []workspace.Message{{Role: workspace.RoleAssistant, Content: workspace.ClearedMessage}}, m.Chat().Messages())
}

func TestStatus_ChecksOnEntryAndRefresh(t *testing.T) {
	m, srv := newTestModel(t, ScreenStatus, time.Hour)
	assert.Equal(t, 1, srv.Calls().Health)
	assert.True(t, m.Status().Healthy())
	assert.Equal(t, "running", m.Status().Value(workspace.FieldBackend))

	srv.FailHealth(http.StatusServiceUnavailable)
	m = press(t, m, runes("r"))
	assert.Equal(t, 2, srv.Calls().Health)
	assert.Equal(t, workspace.StatusUnreachable, m.Status().Value(workspace.FieldBackend))
	assert.Equal(t, workspace.StatusUnknown, m.Status().Value(workspace.FieldVectorStore))
	assert.Equal(t, workspace.LevelError, m.Status().Classify(workspace.FieldBackend))
	assert.Contains(t, m.View(), workspace.StatusUnreachable)
}

func TestStatus_MissingKeyRendered(t *testing.T) {
	srvHealth := map[string]string{"backend": "running", "vector_store": "available", "llm_key": "missing"}
	m, srv := newTestModel(t, ScreenLanding, time.Hour)
	srv.HealthBody = srvHealth

	m = press(t, m, runes("3"))
	assert.Equal(t, workspace.LevelError, m.Status().Classify(workspace.FieldLLMKey))

	view := m.View()
	assert.Contains(t, view, "LLM Connection")
	assert.Contains(t, view, "missing")
	assert.Contains(t, view, "System Information")
}

func TestFocusAndSidebar(t *testing.T) {
	m, _ := newTestModel(t, ScreenWorkspace, time.Hour)
	require.Equal(t, FocusInput, m.Focused())

	for _, want := range []FocusedPane{FocusSidebar, FocusDocuments, FocusChat, FocusInput} {
		m = press(t, m, tab)
		assert.Equal(t, want, m.Focused())
	}

	assert.True(t, m.SidebarOpen())
	assert.Contains(t, m.View(), "Chat & Upload")
	m = press(t, m, ctrlB)
	assert.False(t, m.SidebarOpen())
	assert.NotContains(t, m.View(), "System Status")
}

func TestSidebarNavigation(t *testing.T) {
	m, srv := newTestModel(t, ScreenLanding, time.Hour)

	m = press(t, m, tab)
	require.Equal(t, FocusSidebar, m.Focused())
	m = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = press(t, m, enter)
	assert.Equal(t, ScreenStatus, m.Screen())
	assert.Equal(t, 1, srv.Calls().Health)
}

func TestView_Workspace(t *testing.T) {
	m, _ := newTestModel(t, ScreenWorkspace, time.Hour, "handbook.pdf", "faq.txt")

	view := m.View()
	assert.Contains(t, view, "Knowledge Base (2)")
	assert.Contains(t, view, "handbook.pdf")
	assert.Contains(t, view, "Upload Document")
}

func TestView_EmptyKnowledgeBase(t *testing.T) {
	m, _ := newTestModel(t, ScreenWorkspace, time.Hour)
	assert.Contains(t, m.View(), "No documents uploaded yet.")
}
