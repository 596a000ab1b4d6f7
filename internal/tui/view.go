package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dyike/docqa/internal/workspace"
)

// View implements tea.Model
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	var main string
	switch {
	case m.docs.Alert() != "":
		main = m.renderOverlay(m.renderAlert())
	case m.docs.Confirming():
		main = m.renderOverlay(m.renderConfirm())
	case m.picking:
		main = m.renderPicker()
	case m.screen == ScreenWorkspace:
		main = m.renderWorkspace()
	case m.screen == ScreenStatus:
		main = m.renderStatus()
	default:
		main = m.renderLanding()
	}

	content := lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderSidebar(),
		main,
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderTopBar(),
		content,
		m.renderStatusBar(),
	)
}

// renderTopBar renders the product name and the backend address
func (m Model) renderTopBar() string {
	brand := BrandStyle.Render("Secure") + BrandAccentStyle.Render("Q&A")
	right := HelpStyle.Render(m.opts.BaseURL)
	gap := strings.Repeat(" ", max(0, m.width-lipgloss.Width(brand)-lipgloss.Width(right)-2))
	return TopBarStyle.Width(m.width).Render(brand + gap + right)
}

// renderSidebar renders the route navigation
func (m Model) renderSidebar() string {
	var b strings.Builder

	if m.sidebarOpen {
		b.WriteString(SidebarTitleStyle.Render("Menu"))
	} else {
		b.WriteString(SidebarTitleStyle.Render("≡"))
	}
	b.WriteString("\n")

	for i, s := range Screens {
		label := s.Icon()
		if m.sidebarOpen {
			label = s.Icon() + " " + s.Title()
		}

		style := NavItemStyle
		if i == m.navIndex && m.focused == FocusSidebar {
			style = NavItemCursorStyle
		} else if s == m.screen {
			style = NavItemActiveStyle
		}

		b.WriteString(style.Render(label))
		b.WriteString("\n")
	}

	style := SidebarStyle
	if m.focused == FocusSidebar {
		style = style.BorderForeground(AccentColor)
	}
	return style.Width(m.sidebarWidth() - 2).Height(m.bodyHeight() - 2).Render(b.String())
}

// renderLanding renders the static introduction screen
func (m Model) renderLanding() string {
	width := m.mainWidth() - 4
	text := lipgloss.NewStyle().Width(width)

	var b strings.Builder
	b.WriteString(HeroStyle.Render("Your Private Knowledge Assistant"))
	b.WriteString("\n")
	b.WriteString(text.Render("Upload documents. Ask questions. Get instant, accurate answers grounded strictly in your content, with full source citations."))
	b.WriteString("\n")

	b.WriteString(SectionTitleStyle.Render("Features"))
	b.WriteString("\n")
	for _, f := range landingFeatures {
		b.WriteString(text.Render(SuccessStyle.Render("• "+f.title) + "  " + f.desc))
		b.WriteString("\n")
	}

	b.WriteString(SectionTitleStyle.Render("How it works"))
	b.WriteString("\n")
	for i, step := range landingSteps {
		b.WriteString(text.Render(fmt.Sprintf("%02d  %s", i+1, step)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(InfoBoxStyle.Render("Press Enter to open Chat & Upload"))

	return PanelStyle.Width(m.mainWidth() - 2).Height(m.bodyHeight() - 2).Render(b.String())
}

var landingFeatures = []struct{ title, desc string }{
	{"Private & Secure", "Your documents never leave your infrastructure."},
	{"Grounded answers", "Responses come only from the content you uploaded."},
	{"Multi-format", "Upload PDF, TXT or DOCX files; they are chunked and indexed on upload."},
	{"Source citations", "Every answer lists the documents it was drawn from."},
}

var landingSteps = []string{
	"Upload a document with ctrl+u.",
	"The backend embeds and indexes it.",
	"Ask anything and get an answer with sources.",
}

// renderWorkspace renders the documents and chat panes side by side
func (m Model) renderWorkspace() string {
	chat := lipgloss.JoinVertical(lipgloss.Left,
		m.renderChat(),
		m.renderInput(),
	)
	return lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderDocuments(),
		chat,
	)
}

// renderDocuments renders the knowledge base list and the upload widget
func (m Model) renderDocuments() string {
	width := m.documentsWidth() - 4
	items := m.docs.Items()

	var b strings.Builder
	b.WriteString(PanelTitleStyle.Render(fmt.Sprintf("Knowledge Base (%d)", len(items))))
	b.WriteString("\n")

	switch {
	case len(items) > 0:
		for i, name := range items {
			style := DocumentItemStyle
			if i == m.docIndex && m.focused == FocusDocuments {
				style = DocumentItemSelectedStyle
			}
			b.WriteString(style.Render(trimTo("▪ "+name, width)))
			b.WriteString("\n")
		}
	case m.docs.LoadErr() != nil:
		b.WriteString(ErrorStyle.Render("Could not load documents."))
		b.WriteString("\n")
	case m.docs.Loaded():
		b.WriteString(HelpStyle.Render("No documents uploaded yet."))
		b.WriteString("\n")
	default:
		b.WriteString(HelpStyle.Render("Loading..."))
		b.WriteString("\n")
	}

	b.WriteString(UploadBoxStyle.Width(width).Render(m.renderUploadWidget(width - 2)))
	b.WriteString("\n\n")

	if m.docs.Resetting() {
		b.WriteString(HelpStyle.Render(m.spinner.View() + " Clearing..."))
	} else {
		b.WriteString(ButtonStyle.Render("ctrl+r  Clear Knowledge Base"))
	}

	style := PanelStyle
	if m.focused == FocusDocuments {
		style = style.BorderForeground(AccentColor)
	}
	return style.Width(m.documentsWidth() - 2).Height(m.bodyHeight() - 2).Render(b.String())
}

func (m Model) renderUploadWidget(width int) string {
	text := lipgloss.NewStyle().Width(width)
	switch m.docs.UploadState() {
	case workspace.UploadUploading:
		return text.Render(m.spinner.View() + " " + m.docs.StatusText())
	case workspace.UploadSuccess:
		return text.Inherit(SuccessStyle).Render(m.docs.StatusText())
	case workspace.UploadError:
		return text.Inherit(ErrorStyle).Render(m.docs.StatusText())
	default:
		return text.Render("ctrl+u  Upload Document\n" + HelpStyle.Render(".txt, .pdf, .docx"))
	}
}

// renderChat renders the chat viewport
func (m Model) renderChat() string {
	style := PanelStyle
	if m.focused == FocusChat {
		style = style.BorderForeground(AccentColor)
	}

	title := PanelTitleStyle.Render("Chat")
	return style.Width(m.chatWidth() - 2).Render(title + "\n" + m.viewport.View())
}

// renderMessages renders the chat transcript
func (m Model) renderMessages() string {
	width := max(10, m.viewport.Width)
	text := lipgloss.NewStyle().Width(width)

	var b strings.Builder
	for _, msg := range m.chat.Messages() {
		switch msg.Role {
		case workspace.RoleUser:
			b.WriteString(UserMessageStyle.Render("You"))
		default:
			b.WriteString(AssistantMessageStyle.Render("Assistant"))
		}
		b.WriteString("\n")
		b.WriteString(text.Render(msg.Content))
		b.WriteString("\n")

		if len(msg.Sources) > 0 {
			tags := make([]string, 0, len(msg.Sources))
			for _, s := range msg.Sources {
				tags = append(tags, SourceTagStyle.Render(s))
			}
			b.WriteString(HelpStyle.Render("Sources: "))
			b.WriteString(text.Render(strings.Join(tags, "")))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if m.chat.Busy() {
		b.WriteString(ThinkingStyle.Render(m.spinner.View() + " Thinking..."))
	}

	return b.String()
}

// renderInput renders the input textarea
func (m Model) renderInput() string {
	style := InputStyle
	if m.focused == FocusInput {
		style = InputFocusedStyle
	}
	return style.Width(m.chatWidth() - 2).Render(m.textarea.View())
}

// renderPicker renders the upload file picker
func (m Model) renderPicker() string {
	var b strings.Builder
	b.WriteString(PanelTitleStyle.Render("Upload Document"))
	b.WriteString("\n")
	b.WriteString(HelpStyle.Render(m.picker.CurrentDirectory))
	b.WriteString("\n\n")
	b.WriteString(m.picker.View())
	if m.pickerNote != "" {
		b.WriteString("\n")
		b.WriteString(ErrorStyle.Render(m.pickerNote))
	}

	return PanelStyle.BorderForeground(AccentColor).
		Width(m.mainWidth() - 2).
		Height(m.bodyHeight() - 2).
		Render(b.String())
}

// renderStatus renders the three health cards and the system information block
func (m Model) renderStatus() string {
	var b strings.Builder
	b.WriteString(PanelTitleStyle.Render("System Status"))
	b.WriteString("\n")

	cardWidth := max(18, (m.mainWidth()-10)/len(workspace.Fields)-2)
	cards := make([]string, 0, len(workspace.Fields))
	for _, f := range workspace.Fields {
		cards = append(cards, m.renderStatusCard(f, cardWidth))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	b.WriteString("\n")

	lastChecked := "never"
	if t := m.status.LastChecked(); !t.IsZero() {
		lastChecked = t.Format("15:04:05")
	}
	if m.status.Checking() {
		lastChecked = m.spinner.View() + " checking"
	}
	version := m.opts.Version
	if version == "" {
		version = "dev"
	}
	info := strings.Join([]string{
		SectionTitleStyle.UnsetMarginTop().Render("System Information"),
		"Version:      " + version,
		"API endpoint: " + m.opts.BaseURL,
		"Last checked: " + lastChecked,
	}, "\n")
	b.WriteString(InfoBoxStyle.Render(info))
	b.WriteString("\n\n")
	b.WriteString(HelpStyle.Render("Press r to refresh"))

	return PanelStyle.Width(m.mainWidth() - 2).Height(m.bodyHeight() - 2).Render(b.String())
}

func (m Model) renderStatusCard(f workspace.Field, width int) string {
	valueStyle := StatusNeutralStyle
	border := PrimaryColor
	switch m.status.Classify(f) {
	case workspace.LevelOK:
		valueStyle, border = StatusOKStyle, AccentColor
	case workspace.LevelError:
		valueStyle, border = StatusErrorStyle, ErrorColor
	}

	body := CardTitleStyle.Render(f.Title()) + "\n" + valueStyle.Render(m.status.Value(f))
	return CardStyle.BorderForeground(border).Width(width).Render(body)
}

// renderConfirm renders the reset confirmation dialog
func (m Model) renderConfirm() string {
	body := lipgloss.JoinVertical(lipgloss.Center,
		DialogTitleStyle.Render("Clear Knowledge Base"),
		workspace.ResetPrompt,
		"",
		lipgloss.JoinHorizontal(lipgloss.Top,
			ButtonDangerStyle.Render("y  Yes, clear"),
			ButtonStyle.Render("n  Cancel"),
		),
	)
	return DialogStyle.Render(body)
}

// renderAlert renders a blocking error message
func (m Model) renderAlert() string {
	body := lipgloss.JoinVertical(lipgloss.Center,
		ErrorStyle.Render(m.docs.Alert()),
		"",
		HelpStyle.Render("enter  OK"),
	)
	return DialogStyle.BorderForeground(ErrorColor).Render(body)
}

func (m Model) renderOverlay(dialog string) string {
	return lipgloss.Place(m.mainWidth(), m.bodyHeight(), lipgloss.Center, lipgloss.Center, dialog)
}

// renderStatusBar renders the status bar
func (m Model) renderStatusBar() string {
	var status string
	switch {
	case m.docs.Uploading():
		status = StatusBusyStyle.Render("Uploading")
	case m.docs.Resetting():
		status = StatusBusyStyle.Render("Clearing")
	case m.chat.Busy():
		status = StatusBusyStyle.Render("Thinking")
	case m.status.Checking():
		status = StatusBusyStyle.Render("Checking")
	}

	screen := HelpStyle.Render(m.screen.Title())
	help := m.help.View(m.helpKeys())

	left := joinNonEmpty(" ", screen, status)
	gap := strings.Repeat(" ", max(0, m.width-lipgloss.Width(left)-lipgloss.Width(help)-2))

	return StatusBarStyle.Width(m.width).Render(left + gap + help)
}
