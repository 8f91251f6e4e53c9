package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"controlledlists/internal/adapters/tui/styles"
)

var helpClose = key.NewBinding(
	key.WithKeys("esc", "q", "?"),
	key.WithHelp("esc/q/?", "close"),
)

// HelpModel is the model for the help view
type HelpModel struct {
	ViewState
}

// NewHelpModel creates a new help view model
func NewHelpModel() *HelpModel {
	return &HelpModel{}
}

func (m *HelpModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the help view
func (m *HelpModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, helpClose) {
		return m, switchTo(SwitchToPanelMsg{})
	}
	return m, nil
}

// View renders the help view
func (m *HelpModel) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("Controlled Lists Help"))
	b.WriteString("\n\n")

	b.WriteString(styles.InputLabel.Render("Lists"))
	b.WriteString("\n")
	b.WriteString(helpLine("j / k", "Select the previous/next list"))
	b.WriteString(helpLine("n", "Create a list"))
	b.WriteString(helpLine("e / Enter", "Edit the selected list"))
	b.WriteString(helpLine("d", "Delete the selected list and its terms"))
	b.WriteString(helpLine("L", "Switch the display language"))
	b.WriteString("\n")

	b.WriteString(styles.InputLabel.Render("Terms"))
	b.WriteString("\n")
	b.WriteString(helpLine("tab", "Move between lists and terms"))
	b.WriteString(helpLine("a", "Add a term"))
	b.WriteString(helpLine("Enter", "Edit the term under the cursor"))
	b.WriteString(helpLine("d", "Delete the term under the cursor"))
	b.WriteString(helpLine("i", "Import terms from CSV or JSON"))
	b.WriteString("\n")

	b.WriteString(styles.InputLabel.Render("Reordering"))
	b.WriteString("\n")
	b.WriteString(helpLine("space", "Pick up the term under the cursor"))
	b.WriteString(helpLine("j / k", "Choose the row to drop onto"))
	b.WriteString(helpLine("Enter / space", "Drop"))
	b.WriteString(helpLine("esc", "Put it back"))
	b.WriteString("\n")

	b.WriteString(styles.InputLabel.Render("General"))
	b.WriteString("\n")
	b.WriteString(helpLine("s", "Open the list selector"))
	b.WriteString(helpLine("r", "Reload from the server"))
	b.WriteString(helpLine("esc", "Dismiss the message"))
	b.WriteString(helpLine("?", "Toggle help"))
	b.WriteString(helpLine("q / Ctrl+C", "Quit"))
	b.WriteString("\n")

	b.WriteString(styles.MutedText.Render("Import files need a value column; label and description are optional."))
	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render("Rows without a label use their value. Existing values are skipped unless override is on."))
	b.WriteString("\n\n")

	b.WriteString(RenderHelpLine(helpClose))

	return styles.App.Render(b.String())
}

func helpLine(key, desc string) string {
	return "  " + styles.HelpKey.Render(padRight(key, 20)) + styles.HelpDesc.Render(desc) + "\n"
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}
