package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit          key.Binding
	NextFocus     key.Binding
	ToggleSidebar key.Binding
	Landing       key.Binding
	Workspace     key.Binding
	Status        key.Binding
	Up            key.Binding
	Down          key.Binding
	Enter         key.Binding
	Send          key.Binding
	Upload        key.Binding
	Reset         key.Binding
	Refresh       key.Binding
	Yes           key.Binding
	No            key.Binding
	Dismiss       key.Binding
	Cancel        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:          key.NewBinding(key.WithKeys("ctrl+c", "ctrl+q"), key.WithHelp("ctrl+c", "quit")),
		NextFocus:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "focus")),
		ToggleSidebar: key.NewBinding(key.WithKeys("ctrl+b"), key.WithHelp("ctrl+b", "sidebar")),
		Landing:       key.NewBinding(key.WithKeys("1", "alt+1"), key.WithHelp("1", "home")),
		Workspace:     key.NewBinding(key.WithKeys("2", "alt+2"), key.WithHelp("2", "chat")),
		Status:        key.NewBinding(key.WithKeys("3", "alt+3"), key.WithHelp("3", "status")),
		Up:            key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:          key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Enter:         key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		Send:          key.NewBinding(key.WithKeys("enter", "ctrl+s"), key.WithHelp("enter", "send")),
		Upload:        key.NewBinding(key.WithKeys("ctrl+u"), key.WithHelp("ctrl+u", "upload")),
		Reset:         key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "clear kb")),
		Refresh:       key.NewBinding(key.WithKeys("r", "f5"), key.WithHelp("r", "refresh")),
		Yes:           key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "yes")),
		No:            key.NewBinding(key.WithKeys("n", "N", "esc"), key.WithHelp("n", "no")),
		Dismiss:       key.NewBinding(key.WithKeys("enter", "esc"), key.WithHelp("enter", "ok")),
		Cancel:        key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}

// helpKeys adapts a binding list to help.KeyMap
type helpKeys []key.Binding

func (h helpKeys) ShortHelp() []key.Binding  { return h }
func (h helpKeys) FullHelp() [][]key.Binding { return [][]key.Binding{h} }

func (m Model) helpKeys() helpKeys {
	k := m.keys
	switch {
	case m.docs.Alert() != "":
		return helpKeys{k.Dismiss}
	case m.docs.Confirming():
		return helpKeys{k.Yes, k.No}
	case m.picking:
		return helpKeys{k.Up, k.Down, k.Enter, k.Cancel}
	}

	switch m.screen {
	case ScreenLanding:
		return helpKeys{k.Enter, k.NextFocus, k.ToggleSidebar, k.Quit}
	case ScreenStatus:
		return helpKeys{k.Refresh, k.NextFocus, k.ToggleSidebar, k.Quit}
	default:
		return helpKeys{k.Send, k.Upload, k.Reset, k.NextFocus, k.ToggleSidebar, k.Quit}
	}
}
