package tui

import "github.com/charmbracelet/lipgloss"

// Colors
var (
	PrimaryColor   = lipgloss.Color("39")  // Blue
	SecondaryColor = lipgloss.Color("212") // Pink
	AccentColor    = lipgloss.Color("76")  // Green
	ErrorColor     = lipgloss.Color("196") // Red
	WarningColor   = lipgloss.Color("214") // Orange
	MutedColor     = lipgloss.Color("240") // Gray
	TextColor      = lipgloss.Color("252") // Light gray
	BgColor        = lipgloss.Color("235") // Dark gray
)

// Styles
var (
	// Top bar
	TopBarStyle = lipgloss.NewStyle().
			Background(BgColor).
			Foreground(TextColor).
			Padding(0, 1)

	BrandStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(TextColor)

	BrandAccentStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(PrimaryColor)

	// Sidebar styles
	SidebarStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(MutedColor).
			Padding(0, 1)

	SidebarTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(PrimaryColor).
				Padding(0, 1).
				MarginBottom(1)

	NavItemStyle = lipgloss.NewStyle().
			Foreground(TextColor).
			Padding(0, 1)

	NavItemActiveStyle = lipgloss.NewStyle().
				Foreground(PrimaryColor).
				Bold(true).
				Padding(0, 1)

	NavItemCursorStyle = lipgloss.NewStyle().
				Background(PrimaryColor).
				Foreground(lipgloss.Color("0")).
				Padding(0, 1)

	// Panels
	PanelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(MutedColor).
			Padding(0, 1)

	PanelTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(TextColor).
			MarginBottom(1)

	DocumentItemStyle = lipgloss.NewStyle().
				Foreground(TextColor)

	DocumentItemSelectedStyle = lipgloss.NewStyle().
					Foreground(AccentColor).
					Bold(true)

	UploadBoxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(MutedColor).
			Padding(0, 1).
			MarginTop(1)

	// Chat view styles
	UserMessageStyle = lipgloss.NewStyle().
				Foreground(PrimaryColor).
				Bold(true)

	AssistantMessageStyle = lipgloss.NewStyle().
				Foreground(AccentColor).
				Bold(true)

	SourceTagStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor).
			Background(BgColor).
			Padding(0, 1).
			MarginRight(1)

	ThinkingStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			Italic(true)

	// Input styles
	InputStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(MutedColor).
			Padding(0, 1)

	InputFocusedStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(AccentColor).
				Padding(0, 1)

	// Status cards
	CardStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			Padding(1, 2).
			MarginRight(1)

	CardTitleStyle = lipgloss.NewStyle().
			Foreground(MutedColor)

	StatusOKStyle = lipgloss.NewStyle().
			Foreground(AccentColor).
			Bold(true)

	StatusErrorStyle = lipgloss.NewStyle().
				Foreground(ErrorColor).
				Bold(true)

	StatusNeutralStyle = lipgloss.NewStyle().
				Foreground(PrimaryColor).
				Bold(true)

	InfoBoxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(PrimaryColor).
			Padding(0, 2).
			MarginTop(1)

	// Landing
	HeroStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor).
			MarginBottom(1)

	SectionTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(TextColor).
				MarginTop(1)

	// Status bar styles
	StatusBarStyle = lipgloss.NewStyle().
			Background(BgColor).
			Foreground(TextColor).
			Padding(0, 1)

	StatusBusyStyle = lipgloss.NewStyle().
			Background(AccentColor).
			Foreground(lipgloss.Color("0")).
			Padding(0, 1)

	// Help styles
	HelpStyle = lipgloss.NewStyle().
			Foreground(MutedColor)

	// Error styles
	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(AccentColor).
			Bold(true)

	// Dialog styles
	DialogStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.DoubleBorder()).
			BorderForeground(WarningColor).
			Padding(1, 2).
			Align(lipgloss.Center)

	DialogTitleStyle = lipgloss.NewStyle().
				Foreground(WarningColor).
				Bold(true).
				MarginBottom(1)

	ButtonStyle = lipgloss.NewStyle().
			Padding(0, 2).
			MarginRight(1)

	ButtonDangerStyle = lipgloss.NewStyle().
				Background(ErrorColor).
				Foreground(lipgloss.Color("0")).
				Padding(0, 2).
				MarginRight(1)
)
