package views

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"controlledlists/internal/adapters/tui/styles"
	"controlledlists/internal/application/panel"
	"controlledlists/internal/domain"
)

// SelectorKeyMap defines key bindings for the selector widget
type SelectorKeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Pick      key.Binding
	Toggle    key.Binding
	Clear     key.Binding
	ClearList key.Binding
	Copy      key.Binding
	Back      key.Binding
}

var SelectorKeys = SelectorKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("j/k", "navigate"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
	),
	Pick: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "choose list"),
	),
	Toggle: key.NewBinding(
		key.WithKeys(" ", "enter"),
		key.WithHelp("space", "toggle term"),
	),
	Clear: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "clear selection"),
	),
	ClearList: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "clear list"),
	),
	Copy: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "copy value"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc", "q"),
		key.WithHelp("esc", "back"),
	),
}

// SelectorModel is the list selector widget as an editor would use it: pick
// one list, then toggle any of its terms. The selection is kept as the
// encoded value a content field would store.
type SelectorModel struct {
	ViewState
	ctrl       *panel.Controller
	sel        domain.Selection
	choosing   bool
	cursor     int
	copyToClip func(string) error
}

// NewSelectorModel creates the selector, starting from a stored value
func NewSelectorModel(ctrl *panel.Controller, value string) *SelectorModel {
	sel := domain.ParseSelection(value)
	return &SelectorModel{
		ctrl:       ctrl,
		sel:        sel,
		choosing:   sel.ListID == "",
		copyToClip: clipboard.WriteAll,
	}
}

// Value returns the encoded selection
func (m *SelectorModel) Value() string {
	return m.sel.Encode()
}

// Selection returns the current selection
func (m *SelectorModel) Selection() domain.Selection {
	return m.sel
}

func (m *SelectorModel) Init() tea.Cmd {
	return nil
}

// selectorRow is a term row; stale rows are selected terms missing from the list
type selectorRow struct {
	term  domain.Term
	stale bool
}

func (m *SelectorModel) rows() []selectorRow {
	list := m.selectedList()
	var rows []selectorRow
	if list != nil {
		for _, t := range list.Terms {
			rows = append(rows, selectorRow{term: t})
		}
	}
	for _, st := range m.sel.Terms {
		if list == nil || list.FindTerm(st.ID) == nil {
			rows = append(rows, selectorRow{term: domain.Term{ID: st.ID, Value: st.Value, Label: st.Label}, stale: true})
		}
	}
	return rows
}

func (m *SelectorModel) selectedList() *domain.List {
	for _, l := range m.ctrl.Lists() {
		if l.ID == m.sel.ListID {
			return &l
		}
	}
	return nil
}

func (m *SelectorModel) rowCount() int {
	if m.choosing {
		return len(m.ctrl.Lists())
	}
	return len(m.rows())
}

// Update handles messages for the selector
func (m *SelectorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	m.ClearMessage()

	switch {
	case key.Matches(keyMsg, SelectorKeys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(keyMsg, SelectorKeys.Down):
		if m.cursor < m.rowCount()-1 {
			m.cursor++
		}

	case m.choosing && key.Matches(keyMsg, SelectorKeys.Pick):
		lists := m.ctrl.Lists()
		if m.cursor < len(lists) {
			if lists[m.cursor].ID != m.sel.ListID {
				m.sel = m.sel.WithList(lists[m.cursor].ID)
			}
			m.choosing = false
			m.cursor = 0
		}

	case !m.choosing && key.Matches(keyMsg, SelectorKeys.Toggle):
		rows := m.rows()
		if m.cursor < len(rows) {
			m.sel = m.sel.Toggle(rows[m.cursor].term)
			m.cursor = min(m.cursor, max(0, m.rowCount()-1))
		}

	case key.Matches(keyMsg, SelectorKeys.Clear):
		m.sel = m.sel.Clear()
		m.cursor = min(m.cursor, max(0, m.rowCount()-1))

	case key.Matches(keyMsg, SelectorKeys.ClearList):
		m.sel = domain.Selection{Terms: []domain.SelectedTerm{}}
		m.choosing = true
		m.cursor = 0

	case key.Matches(keyMsg, SelectorKeys.Copy):
		if err := m.copyToClip(m.Value()); err != nil {
			m.SetMessage("Copy failed: "+err.Error(), true)
		} else {
			m.SetMessage("Value copied to clipboard", false)
		}

	case key.Matches(keyMsg, SelectorKeys.Back):
		if !m.choosing {
			m.choosing = true
			m.cursor = 0
			return m, nil
		}
		return m, switchTo(SwitchToPanelMsg{})
	}
	return m, nil
}

// View renders the selector
func (m *SelectorModel) View() string {
	v := NewViewBuilder().Title("List Selector")

	if m.choosing {
		v.Subtitle("Choose a list")
		for i, l := range m.ctrl.Lists() {
			text := l.Title
			if l.ID == m.sel.ListID {
				text = "● " + text
			}
			v.Line(m.renderRow(i, text))
		}
	} else {
		title := "(removed list)"
		if list := m.selectedList(); list != nil {
			title = list.Title
		}
		v.Subtitle(title)
		for i, r := range m.rows() {
			text := styles.Checkbox(m.sel.Has(r.term.ID)) + " " + r.term.DisplayLabel()
			if r.stale {
				text += styles.MutedText.Render(" (no longer in list)")
			}
			v.Line(m.renderRow(i, text))
		}
	}

	v.BlankLine()
	value := m.Value()
	if value == "" {
		value = styles.MutedText.Render("(empty)")
	}
	v.Line(styles.InputLabel.Render("Value: ") + value)
	v.Line(styles.MutedText.Render(fmt.Sprintf("%d term(s) selected", len(m.sel.Terms))))
	v.BlankLine()

	v.Message(m.Message, m.MessageErr)
	if m.choosing {
		return v.Help(SelectorKeys.Up, SelectorKeys.Pick, SelectorKeys.ClearList, SelectorKeys.Copy, SelectorKeys.Back).String()
	}
	return v.Help(SelectorKeys.Up, SelectorKeys.Toggle, SelectorKeys.Clear, SelectorKeys.ClearList, SelectorKeys.Copy, SelectorKeys.Back).String()
}

func (m *SelectorModel) renderRow(i int, text string) string {
	if i == m.cursor {
		return styles.RowSelected.Render("> " + text)
	}
	return "  " + text
}
