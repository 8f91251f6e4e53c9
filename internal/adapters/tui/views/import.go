package views

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"controlledlists/internal/adapters/importfile"
	"controlledlists/internal/adapters/tui/styles"
	"controlledlists/internal/application/panel"
	"controlledlists/internal/domain"
)

// ImportKeyMap defines key bindings for the import dialog
type ImportKeyMap struct {
	Submit   key.Binding
	Language key.Binding
	Override key.Binding
	Cancel   key.Binding
}

var ImportKeys = ImportKeyMap{
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "preview/import"),
	),
	Language: key.NewBinding(
		key.WithKeys("ctrl+l"),
		key.WithHelp("ctrl+l", "language"),
	),
	Override: key.NewBinding(
		key.WithKeys("ctrl+o"),
		key.WithHelp("ctrl+o", "override existing"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
}

type parsedMsg struct {
	path    string
	entries []domain.ImportEntry
	err     error
}

// ImportModel reads a CSV or JSON file, previews it and imports it into the
// selected list
type ImportModel struct {
	ViewState
	ctx      context.Context
	ctrl     *panel.Controller
	form     *InputForm
	language string
	override bool
	parsed   string
	entries  []domain.ImportEntry
}

// NewImportModel creates the import dialog
func NewImportModel(ctx context.Context, ctrl *panel.Controller) *ImportModel {
	return &ImportModel{
		ctx:  ctx,
		ctrl: ctrl,
		form: NewInputForm(NewInputField("File", "terms.csv or terms.json", true)),
	}
}

// Open resets the dialog, defaulting to the current language
func (m *ImportModel) Open() tea.Cmd {
	m.ClearMessage()
	m.form.Reset()
	m.language = m.ctrl.DefaultImportLanguage()
	m.override = false
	m.parsed = ""
	m.entries = nil
	return m.form.Init()
}

func (m *ImportModel) Init() tea.Cmd {
	return nil
}

func parseFile(path string) tea.Cmd {
	return func() tea.Msg {
		entries, err := importfile.ParseFile(path)
		return parsedMsg{path: path, entries: entries, err: err}
	}
}

// Update handles messages for the import dialog
func (m *ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case parsedMsg:
		if msg.err != nil {
			m.SetMessage(msg.err.Error(), true)
			m.parsed, m.entries = "", nil
			return m, nil
		}
		m.ClearMessage()
		m.parsed, m.entries = msg.path, msg.entries
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, ImportKeys.Cancel):
			return m, switchTo(SwitchToPanelMsg{})
		case key.Matches(msg, ImportKeys.Language):
			m.language = nextCode(m.ctrl.Languages(), m.language)
			return m, nil
		case key.Matches(msg, ImportKeys.Override):
			m.override = !m.override
			return m, nil
		case key.Matches(msg, ImportKeys.Submit):
			path := m.form.Value(0)
			if path == "" {
				m.SetMessage("Choose a file to import", true)
				return m, nil
			}
			if path != m.parsed || m.entries == nil {
				return m, parseFile(path)
			}
			entries, lang, override := m.entries, m.language, m.override
			return m, Run(m.ctx, panel.ActionImport, func(ctx context.Context) error {
				_, err := m.ctrl.ImportTerms(ctx, entries, lang, override)
				return err
			})
		}
	}

	_, cmd := m.form.Update(msg)
	return m, cmd
}

func nextCode(langs []domain.Language, current string) string {
	if len(langs) == 0 {
		return current
	}
	for i, l := range langs {
		if l.Code == current {
			return langs[(i+1)%len(langs)].Code
		}
	}
	return langs[0].Code
}

// View renders the import dialog
func (m *ImportModel) View() string {
	v := NewViewBuilder().Title("Import Terms")
	if list := m.ctrl.Selected(); list != nil {
		v.Subtitle("into " + list.Title)
	}
	v.Line(m.form.RenderFields()).BlankLine()

	lang := styles.MutedText.Render("none")
	for _, l := range m.ctrl.Languages() {
		if l.Code == m.language {
			lang = RenderLanguageBadge(l, true)
		}
	}
	v.Line(styles.InputLabel.Render("Language: ") + lang)
	v.Line(styles.Checkbox(m.override) + " Override existing terms with the same value")
	v.BlankLine()

	if m.entries != nil {
		shown, rest := importfile.Preview(m.entries)
		v.Line(styles.PaneTitle.Render(fmt.Sprintf("Preview (%d rows)", len(m.entries))))
		for _, e := range shown {
			v.Line(fmt.Sprintf("  %-24s %s", e.Label, styles.Value.Render(e.Value)))
		}
		if rest > 0 {
			v.Muted(fmt.Sprintf("  ... and %d more", rest))
		}
		v.BlankLine()
	}

	return v.Message(m.Message, m.MessageErr).
		Feedback(m.ctrl.Feedback()).
		Help(ImportKeys.Submit, ImportKeys.Language, ImportKeys.Override, ImportKeys.Cancel).
		String()
}
