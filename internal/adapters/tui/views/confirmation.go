package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"controlledlists/internal/adapters/tui/styles"
)

// ConfirmKeyMap defines key bindings for confirmation views
type ConfirmKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

var DefaultConfirmKeys = ConfirmKeyMap{
	Confirm: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "confirm"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("n", "esc"),
		key.WithHelp("n/esc", "cancel"),
	),
}

// ConfirmModel asks before a destructive action. Confirming returns to the
// panel and runs the pending command.
type ConfirmModel struct {
	ViewState
	Prompt    string
	onConfirm tea.Cmd
	Keys      ConfirmKeyMap
}

// NewConfirmModel creates a confirmation view with default keys
func NewConfirmModel() *ConfirmModel {
	return &ConfirmModel{Keys: DefaultConfirmKeys}
}

// Ask arms the view with a question and the command to run on "y"
func (m *ConfirmModel) Ask(prompt string, onConfirm tea.Cmd) {
	m.Prompt = prompt
	m.onConfirm = onConfirm
}

func (m *ConfirmModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the confirmation view
func (m *ConfirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, m.Keys.Cancel):
		m.onConfirm = nil
		return m, switchTo(SwitchToPanelMsg{})
	case key.Matches(keyMsg, m.Keys.Confirm):
		cmd := m.onConfirm
		m.onConfirm = nil
		return m, tea.Sequence(switchTo(SwitchToPanelMsg{}), cmd)
	}
	return m, nil
}

// View renders the confirmation view
func (m *ConfirmModel) View() string {
	return NewViewBuilder().
		Title("Delete Confirmation").
		Line(styles.ErrorMsg.Render("This action cannot be undone!")).
		BlankLine().
		Line(m.Prompt).
		BlankLine().
		Raw(RenderConfirmPrompt("Are you sure?")).
		String()
}

// RenderConfirmPrompt renders the standard confirmation prompt
func RenderConfirmPrompt(question string) string {
	var b strings.Builder
	b.WriteString(question)
	b.WriteString(" ")
	b.WriteString(styles.HelpKey.Render("y"))
	b.WriteString(styles.HelpDesc.Render(" to confirm, "))
	b.WriteString(styles.HelpKey.Render("n"))
	b.WriteString(styles.HelpDesc.Render(" to cancel"))
	return b.String()
}

// DeleteListPrompt is the question asked before deleting a list
func DeleteListPrompt(title string) string {
	return "Delete the list \"" + title + "\" and all of its terms?"
}

// DeleteTermPrompt is the question asked before deleting a term
func DeleteTermPrompt(label string) string {
	return "Delete the term \"" + label + "\"?"
}
