package tui

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dyike/docqa/internal/api"
	"github.com/dyike/docqa/internal/workspace"
	"go.uber.org/zap"
)

// Backend is the part of the document-QA API the UI talks to
type Backend interface {
	ListDocuments(ctx context.Context) ([]string, error)
	UploadFile(ctx context.Context, path string) (*api.UploadResult, error)
	Ask(ctx context.Context, query string) (*api.Answer, error)
	Reset(ctx context.Context) (*api.ResetResult, error)
	Health(ctx context.Context) (*api.Health, error)
}

// Screen is a top-level route
type Screen int

const (
	ScreenLanding Screen = iota
	ScreenWorkspace
	ScreenStatus
)

// Screens lists the routes in sidebar order
var Screens = []Screen{ScreenLanding, ScreenWorkspace, ScreenStatus}

// Title returns the navigation label
func (s Screen) Title() string {
	switch s {
	case ScreenWorkspace:
		return "Chat & Upload"
	case ScreenStatus:
		return "System Status"
	default:
		return "Home"
	}
}

// Icon returns the collapsed navigation label
func (s Screen) Icon() string {
	switch s {
	case ScreenWorkspace:
		return "✉"
	case ScreenStatus:
		return "♥"
	default:
		return "⌂"
	}
}

// FocusedPane represents which pane has focus
type FocusedPane int

const (
	FocusSidebar FocusedPane = iota
	FocusDocuments
	FocusChat
	FocusInput
)

// Options configures the UI
type Options struct {
	BaseURL          string
	Version          string
	SidebarWidth     int
	StatusClearDelay time.Duration
	Screen           Screen
	StartDir         string
	Logger           *zap.Logger
}

const (
	defaultSidebarWidth   = 26
	collapsedSidebarWidth = 7
	topBarHeight          = 1
	statusBarHeight       = 1
	inputHeight           = 3
)

// Model represents the main TUI application state
type Model struct {
	// Components
	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model
	picker   filepicker.Model
	help     help.Model
	keys     keyMap

	// State
	width       int
	height      int
	ready       bool
	screen      Screen
	focused     FocusedPane
	sidebarOpen bool
	navIndex    int
	docIndex    int
	picking     bool
	pickerNote  string

	// Panels
	docs   *workspace.Documents
	chat   *workspace.Chat
	status *workspace.Status

	// Dependencies
	backend Backend
	ctx     context.Context
	opts    Options
	logger  *zap.Logger
}

// NewModel creates a new TUI model
func NewModel(ctx context.Context, backend Backend, opts Options) Model {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.SidebarWidth <= 0 {
		opts.SidebarWidth = defaultSidebarWidth
	}
	if opts.StatusClearDelay <= 0 {
		opts.StatusClearDelay = 3 * time.Second
	}
	if opts.StartDir == "" {
		if wd, err := os.Getwd(); err == nil {
			opts.StartDir = wd
		}
	}

	ta := textarea.New()
	ta.Placeholder = "Ask a question about your documents... (Enter to send)"
	ta.Focus()
	ta.SetHeight(inputHeight)
	ta.ShowLineNumbers = false
	ta.CharLimit = 0

	sp := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(ThinkingStyle))

	fp := filepicker.New()
	fp.AllowedTypes = api.SupportedExtensions
	fp.CurrentDirectory = opts.StartDir
	fp.ShowPermissions = false
	fp.AutoHeight = false

	if opts.Screen != ScreenWorkspace {
		ta.Blur()
	}

	return Model{
		textarea:    ta,
		spinner:     sp,
		picker:      fp,
		help:        help.New(),
		keys:        defaultKeyMap(),
		screen:      opts.Screen,
		navIndex:    int(opts.Screen),
		focused:     FocusInput,
		sidebarOpen: true,
		docs:        workspace.NewDocuments(opts.Logger),
		chat:        workspace.NewChat(opts.Logger),
		status:      workspace.NewStatus(opts.Logger),
		backend:     backend,
		ctx:         ctx,
		opts:        opts,
		logger:      opts.Logger,
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.enterScreen(m.screen),
	)
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.ready = true

	case ScreenChangeMsg:
		return m.switchScreen(msg.Screen)

	case DocumentsLoadedMsg:
		if m.docs.FinishLoad(msg.Ticket, msg.Documents, msg.Err) {
			m.docIndex = min(m.docIndex, max(0, len(m.docs.Items())-1))
		}

	case UploadFinishedMsg:
		if m.docs.FinishUpload(msg.Ticket, msg.Result, msg.Err) {
			cmds = append(cmds, m.loadDocuments(m.docs.BeginLoad()))
		}
		cmds = append(cmds, m.expireUploadStatus(msg.Ticket))

	case UploadStatusExpiredMsg:
		m.docs.ClearUploadStatus(msg.Ticket)

	case AnswerMsg:
		if m.chat.Receive(msg.Ticket, msg.Answer, msg.Err) {
			m.refreshTranscript()
		}

	case ResetFinishedMsg:
		if m.docs.FinishReset(msg.Ticket, msg.Err) {
			m.chat.Reset()
			m.docIndex = 0
			m.refreshTranscript()
		}

	case HealthCheckedMsg:
		m.status.Apply(msg.Ticket, msg.Health, msg.Err)

	case spinner.TickMsg:
		if m.busy() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			if m.chat.Busy() {
				m.refreshTranscript()
			}
			return m, cmd
		}

	default:
		var cmd tea.Cmd
		if m.picking {
			m.picker, cmd = m.picker.Update(msg)
			cmds = append(cmds, cmd)
		}
		m.textarea, cmd = m.textarea.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// handleKeyMsg handles keyboard input
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	// Modal layers swallow everything else
	if m.docs.Alert() != "" {
		if key.Matches(msg, m.keys.Dismiss) {
			m.docs.DismissAlert()
		}
		return m, nil
	}
	if m.docs.Confirming() {
		switch {
		case key.Matches(msg, m.keys.Yes):
			if t, ok := m.docs.ConfirmReset(); ok {
				return m, tea.Batch(m.resetKnowledgeBase(t), m.spinner.Tick)
			}
		case key.Matches(msg, m.keys.No):
			m.docs.DeclineReset()
		}
		return m, nil
	}
	if m.picking {
		return m.handlePickerKey(msg)
	}

	typing := m.screen == ScreenWorkspace && m.focused == FocusInput && !msg.Alt
	switch {
	case key.Matches(msg, m.keys.ToggleSidebar):
		m.sidebarOpen = !m.sidebarOpen
		m.resize()
		return m, nil
	case key.Matches(msg, m.keys.NextFocus):
		return m, m.cycleFocus()
	case !typing && key.Matches(msg, m.keys.Landing):
		return m.switchScreen(ScreenLanding)
	case !typing && key.Matches(msg, m.keys.Workspace):
		return m.switchScreen(ScreenWorkspace)
	case !typing && key.Matches(msg, m.keys.Status):
		return m.switchScreen(ScreenStatus)
	}

	if m.focused == FocusSidebar {
		switch {
		case key.Matches(msg, m.keys.Up):
			m.navIndex = max(0, m.navIndex-1)
			return m, nil
		case key.Matches(msg, m.keys.Down):
			m.navIndex = min(len(Screens)-1, m.navIndex+1)
			return m, nil
		case key.Matches(msg, m.keys.Enter):
			return m.switchScreen(Screens[m.navIndex])
		}
	}

	switch m.screen {
	case ScreenLanding:
		if key.Matches(msg, m.keys.Enter) {
			return m.switchScreen(ScreenWorkspace)
		}
	case ScreenStatus:
		if key.Matches(msg, m.keys.Refresh) {
			return m, tea.Batch(m.checkHealth(m.status.Refresh()), m.spinner.Tick)
		}
	case ScreenWorkspace:
		return m.handleWorkspaceKey(msg)
	}

	return m, nil
}

// handleWorkspaceKey handles keys on the Chat & Upload screen
func (m Model) handleWorkspaceKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Upload):
		if m.docs.Uploading() {
			return m, nil
		}
		m.picking = true
		m.pickerNote = ""
		m.textarea.Blur()
		return m, m.picker.Init()
	case key.Matches(msg, m.keys.Reset):
		m.docs.RequestReset()
		return m, nil
	}

	switch m.focused {
	case FocusDocuments:
		switch {
		case key.Matches(msg, m.keys.Up):
			m.docIndex = max(0, m.docIndex-1)
		case key.Matches(msg, m.keys.Down):
			m.docIndex = min(max(0, len(m.docs.Items())-1), m.docIndex+1)
		}
		return m, nil

	case FocusChat:
		// Let viewport handle scrolling
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case FocusInput:
		if key.Matches(msg, m.keys.Send) {
			return m, m.send()
		}
		// Pass all other keys to textarea
		var cmd tea.Cmd
		m.textarea, cmd = m.textarea.Update(msg)
		return m, cmd
	}

	return m, nil
}

// handlePickerKey forwards keys to the file picker until a file is chosen
func (m Model) handlePickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Cancel) {
		m.closePicker()
		return m, nil
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	if ok, path := m.picker.DidSelectFile(msg); ok {
		m.closePicker()
		return m, tea.Batch(cmd, m.startUpload(path))
	}
	if ok, path := m.picker.DidSelectDisabledFile(msg); ok {
		m.pickerNote = filepath.Base(path) + " is not a supported file type (.txt, .pdf, .docx)"
	}
	return m, cmd
}

func (m *Model) closePicker() {
	m.picking = false
	m.pickerNote = ""
	if m.focused == FocusInput {
		m.textarea.Focus()
	}
}

// startUpload begins uploading path; it is ignored while another upload runs
func (m *Model) startUpload(path string) tea.Cmd {
	t, err := m.docs.BeginUpload(filepath.Base(path))
	if err != nil {
		m.logger.Debug("tui: upload ignored", zap.String("file", path), zap.Error(err))
		return nil
	}
	return tea.Batch(m.uploadFile(t, path), m.spinner.Tick)
}

// send submits the input box as a question
func (m *Model) send() tea.Cmd {
	t, query, err := m.chat.Send(m.textarea.Value())
	if err != nil {
		return nil
	}
	m.textarea.Reset()
	m.refreshTranscript()
	return tea.Batch(m.ask(t, query), m.spinner.Tick)
}

// cycleFocus moves focus to the next pane of the current screen
func (m *Model) cycleFocus() tea.Cmd {
	if m.screen != ScreenWorkspace {
		// Input doubles as the main content of single-pane screens
		if m.focused == FocusSidebar {
			m.focused = FocusInput
		} else {
			m.focused = FocusSidebar
		}
		return nil
	}

	// Input -> Sidebar -> Documents -> Chat -> Input
	switch m.focused {
	case FocusInput:
		m.focused = FocusSidebar
		m.textarea.Blur()
	case FocusSidebar:
		m.focused = FocusDocuments
	case FocusDocuments:
		m.focused = FocusChat
	case FocusChat:
		m.focused = FocusInput
		return m.textarea.Focus()
	}
	return nil
}

// switchScreen shows s and issues its mount-time fetch
func (m Model) switchScreen(s Screen) (tea.Model, tea.Cmd) {
	m.screen = s
	m.navIndex = int(s)
	m.closePicker()

	var cmds []tea.Cmd
	if s == ScreenWorkspace {
		m.focused = FocusInput
		cmds = append(cmds, m.textarea.Focus())
	} else {
		m.textarea.Blur()
	}
	m.refreshTranscript()
	cmds = append(cmds, m.enterScreen(s))
	return m, tea.Batch(cmds...)
}

// enterScreen returns the fetch a screen performs when it is shown
func (m Model) enterScreen(s Screen) tea.Cmd {
	switch s {
	case ScreenWorkspace:
		return m.loadDocuments(m.docs.BeginLoad())
	case ScreenStatus:
		return tea.Batch(m.checkHealth(m.status.Refresh()), m.spinner.Tick)
	}
	return nil
}

// busy reports whether any request the user is waiting on is in flight
func (m Model) busy() bool {
	return m.chat.Busy() || m.docs.Uploading() || m.docs.Resetting() || m.status.Checking()
}

// Commands

func (m Model) loadDocuments(t workspace.Ticket) tea.Cmd {
	return func() tea.Msg {
		docs, err := m.backend.ListDocuments(m.ctx)
		return DocumentsLoadedMsg{Ticket: t, Documents: docs, Err: err}
	}
}

func (m Model) uploadFile(t workspace.Ticket, path string) tea.Cmd {
	return func() tea.Msg {
		res, err := m.backend.UploadFile(m.ctx, path)
		return UploadFinishedMsg{Ticket: t, Result: res, Err: err}
	}
}

func (m Model) expireUploadStatus(t workspace.Ticket) tea.Cmd {
	return tea.Tick(m.opts.StatusClearDelay, func(time.Time) tea.Msg {
		return UploadStatusExpiredMsg{Ticket: t}
	})
}

func (m Model) ask(t workspace.Ticket, query string) tea.Cmd {
	return func() tea.Msg {
		ans, err := m.backend.Ask(m.ctx, query)
		return AnswerMsg{Ticket: t, Answer: ans, Err: err}
	}
}

func (m Model) resetKnowledgeBase(t workspace.Ticket) tea.Cmd {
	return func() tea.Msg {
		_, err := m.backend.Reset(m.ctx)
		return ResetFinishedMsg{Ticket: t, Err: err}
	}
}

func (m Model) checkHealth(t workspace.Ticket) tea.Cmd {
	return func() tea.Msg {
		h, err := m.backend.Health(m.ctx)
		return HealthCheckedMsg{Ticket: t, Health: h, Err: err}
	}
}

// Layout

func (m Model) sidebarWidth() int {
	if m.sidebarOpen {
		return m.opts.SidebarWidth
	}
	return collapsedSidebarWidth
}

func (m Model) mainWidth() int {
	return max(20, m.width-m.sidebarWidth())
}

func (m Model) bodyHeight() int {
	return max(8, m.height-topBarHeight-statusBarHeight)
}

func (m Model) documentsWidth() int {
	return max(24, m.mainWidth()/3)
}

func (m Model) chatWidth() int {
	return max(20, m.mainWidth()-m.documentsWidth())
}

// resize recomputes component sizes from the window size
func (m *Model) resize() {
	// border + padding on each side
	innerWidth := max(10, m.chatWidth()-4)
	// chat panel border and title, input border
	viewportHeight := max(3, m.bodyHeight()-inputHeight-2-3)

	m.viewport = viewport.New(innerWidth, viewportHeight)
	m.textarea.SetWidth(innerWidth)
	m.picker.Height = max(3, m.bodyHeight()-8)
	m.help.Width = m.width
	m.refreshTranscript()
}

// refreshTranscript re-renders the chat and keeps the newest message visible
func (m *Model) refreshTranscript() {
	m.viewport.SetContent(m.renderMessages())
	m.viewport.GotoBottom()
}

// Screen returns the visible screen
func (m Model) Screen() Screen { return m.screen }

// Focused returns the focused pane
func (m Model) Focused() FocusedPane { return m.focused }

// SidebarOpen reports whether the sidebar is expanded
func (m Model) SidebarOpen() bool { return m.sidebarOpen }

// Picking reports whether the file picker is open
func (m Model) Picking() bool { return m.picking }

// Input returns the current input box contents
func (m Model) Input() string { return m.textarea.Value() }

// Documents returns the document panel
func (m Model) Documents() *workspace.Documents { return m.docs }

// Chat returns the chat panel
func (m Model) Chat() *workspace.Chat { return m.chat }

// Status returns the status panel
func (m Model) Status() *workspace.Status { return m.status }

func trimTo(s string, width int) string {
	if width <= 1 || len([]rune(s)) <= width {
		return s
	}
	r := []rune(s)
	return string(r[:width-1]) + "…"
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
