package views

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"controlledlists/internal/adapters/tui/styles"
	"controlledlists/internal/application"
	"controlledlists/internal/application/panel"
	"controlledlists/internal/domain"
)

// PanelKeyMap defines key bindings for the panel view
type PanelKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Focus    key.Binding
	Enter    key.Binding
	NewList  key.Binding
	EditList key.Binding
	AddTerm  key.Binding
	Delete   key.Binding
	Import   key.Binding
	Language key.Binding
	Drag     key.Binding
	Cancel   key.Binding
	Selector key.Binding
	Refresh  key.Binding
	Help     key.Binding
	Quit     key.Binding
}

var PanelKeys = PanelKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("j/k", "navigate"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("pgup", "ctrl+u"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("pgdown", "ctrl+d"),
	),
	Focus: key.NewBinding(
		key.WithKeys("tab", "h", "l", "left", "right"),
		key.WithHelp("tab", "lists/terms"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "edit"),
	),
	NewList: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "new list"),
	),
	EditList: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "edit list"),
	),
	AddTerm: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "add term"),
	),
	Delete: key.NewBinding(
		key.WithKeys("d", "delete"),
		key.WithHelp("d", "delete"),
	),
	Import: key.NewBinding(
		key.WithKeys("i"),
		key.WithHelp("i", "import"),
	),
	Language: key.NewBinding(
		key.WithKeys("L"),
		key.WithHelp("L", "language"),
	),
	Drag: key.NewBinding(
		key.WithKeys(" "),
		key.WithHelp("space", "move term"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
	Selector: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "selector"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

type pane int

const (
	paneLists pane = iota
	paneTerms
)

// PanelModel is the two-pane admin view: lists on the left, the selected
// list's terms on the right
type PanelModel struct {
	ViewState
	ctx   context.Context
	ctrl  *panel.Controller
	focus pane
	lists *Paginator
	terms *Paginator
}

// NewPanelModel creates the panel view over a controller
func NewPanelModel(ctx context.Context, ctrl *panel.Controller) *PanelModel {
	return &PanelModel{
		ctx:   ctx,
		ctrl:  ctrl,
		lists: NewPaginator(15),
		terms: NewPaginator(15),
	}
}

// Init bootstraps the controller
func (m *PanelModel) Init() tea.Cmd {
	return Run(m.ctx, panel.ActionLoad, m.ctrl.Bootstrap)
}

// SetSize updates the view dimensions and the visible row count
func (m *PanelModel) SetSize(width, height int) {
	m.ViewState.SetSize(width, height)
	rows := height - 12
	m.lists.SetPageSize(rows)
	m.terms.SetPageSize(rows)
}

// Sync realigns the cursors with the controller snapshot
func (m *PanelModel) Sync() {
	lists := m.ctrl.Lists()
	m.lists.SetTotal(len(lists))
	selected := m.ctrl.Selected()
	if selected != nil {
		for i, l := range lists {
			if l.ID == selected.ID {
				m.lists.SetCursor(i)
				break
			}
		}
		m.terms.SetTotal(len(selected.Terms))
	} else {
		m.terms.SetTotal(0)
	}
	if drag := m.ctrl.Drag(); drag == nil && m.focus == paneTerms && m.terms.Total() == 0 {
		m.focus = paneLists
	}
}

// Update handles messages for the panel
func (m *PanelModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case DoneMsg:
		if errors.Is(msg.Err, application.ErrBusy) {
			m.SetMessage("Still working on the previous "+string(msg.Action), true)
		}
		m.Sync()
		return m, nil

	case tea.KeyMsg:
		m.ClearMessage()
		if m.ctrl.BootError() != nil {
			if key.Matches(msg, PanelKeys.Quit) {
				return m, tea.Quit
			}
			if key.Matches(msg, PanelKeys.Refresh) {
				return m, Run(m.ctx, panel.ActionLoad, m.ctrl.Bootstrap)
			}
			return m, nil
		}
		if m.ctrl.Drag() != nil {
			return m, m.updateDrag(msg)
		}
		return m, m.updateKeys(msg)
	}
	return m, nil
}

func (m *PanelModel) updateKeys(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, PanelKeys.Quit):
		return tea.Quit

	case key.Matches(msg, PanelKeys.Up):
		m.move(-1)
	case key.Matches(msg, PanelKeys.Down):
		m.move(1)
	case key.Matches(msg, PanelKeys.PageUp):
		m.page(-1)
	case key.Matches(msg, PanelKeys.PageDown):
		m.page(1)

	case key.Matches(msg, PanelKeys.Focus):
		if m.focus == paneLists && m.terms.Total() > 0 {
			m.focus = paneTerms
		} else {
			m.focus = paneLists
		}

	case key.Matches(msg, PanelKeys.Enter):
		if m.focus == paneTerms {
			if t := m.cursorTerm(); t != nil {
				return switchTo(SwitchToTermFormMsg{TermID: t.ID})
			}
			return nil
		}
		if m.ctrl.Selected() != nil {
			return switchTo(SwitchToListFormMsg{})
		}

	case key.Matches(msg, PanelKeys.NewList):
		m.ctrl.BeginCreateList()
		return switchTo(SwitchToListFormMsg{Create: true})

	case key.Matches(msg, PanelKeys.EditList):
		if m.ctrl.Selected() != nil {
			return switchTo(SwitchToListFormMsg{})
		}

	case key.Matches(msg, PanelKeys.AddTerm):
		if m.ctrl.Selected() != nil {
			return switchTo(SwitchToTermFormMsg{})
		}

	case key.Matches(msg, PanelKeys.Delete):
		return m.confirmDelete()

	case key.Matches(msg, PanelKeys.Import):
		if m.ctrl.Selected() != nil {
			return switchTo(SwitchToImportMsg{})
		}

	case key.Matches(msg, PanelKeys.Language):
		return m.nextLanguage()

	case key.Matches(msg, PanelKeys.Drag):
		if m.focus == paneTerms && m.ctrl.BeginDrag(m.terms.Cursor()) {
			m.SetMessage("Moving term: j/k to choose a row, enter to drop, esc to cancel", false)
		}

	case key.Matches(msg, PanelKeys.Cancel):
		m.ctrl.DismissFeedback()

	case key.Matches(msg, PanelKeys.Selector):
		return switchTo(SwitchToSelectorMsg{})

	case key.Matches(msg, PanelKeys.Refresh):
		return Run(m.ctx, panel.ActionLoad, func(ctx context.Context) error {
			return m.ctrl.Refresh(ctx, "")
		})

	case key.Matches(msg, PanelKeys.Help):
		return switchTo(SwitchToHelpMsg{})
	}
	return nil
}

// updateDrag drives a keyboard drag: the cursor is the row being dropped onto
func (m *PanelModel) updateDrag(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, PanelKeys.Up):
		m.terms.Move(-1)
		m.ctrl.DragOverRow(m.terms.Cursor())
	case key.Matches(msg, PanelKeys.Down):
		m.terms.Move(1)
		m.ctrl.DragOverRow(m.terms.Cursor())
	case key.Matches(msg, PanelKeys.Enter), key.Matches(msg, PanelKeys.Drag):
		return Run(m.ctx, panel.ActionReorder, func(ctx context.Context) error {
			_, err := m.ctrl.Drop(ctx)
			return err
		})
	case key.Matches(msg, PanelKeys.Cancel):
		// a refresh may already have dropped the drag
		if d := m.ctrl.Drag(); d != nil {
			m.terms.SetCursor(d.Source)
		}
		m.ctrl.CancelDrag()
	case key.Matches(msg, PanelKeys.Quit):
		m.ctrl.CancelDrag()
		return tea.Quit
	}
	return nil
}

func (m *PanelModel) move(delta int) {
	if m.focus == paneTerms {
		m.terms.Move(delta)
		return
	}
	if m.lists.Move(delta) {
		m.selectCursorList()
	}
}

func (m *PanelModel) page(dir int) {
	p := m.lists
	if m.focus == paneTerms {
		p = m.terms
	}
	moved := p.NextPage()
	if dir < 0 {
		moved = p.PrevPage()
	}
	if moved && m.focus == paneLists {
		m.selectCursorList()
	}
}

func (m *PanelModel) selectCursorList() {
	lists := m.ctrl.Lists()
	if i := m.lists.Cursor(); i < len(lists) {
		m.ctrl.Select(lists[i].ID)
		m.terms.SetTotal(len(lists[i].Terms))
		m.terms.SetCursor(0)
	}
}

func (m *PanelModel) cursorTerm() *domain.Term {
	list := m.ctrl.Selected()
	if list == nil {
		return nil
	}
	i := m.terms.Cursor()
	if i < 0 || i >= len(list.Terms) {
		return nil
	}
	return &list.Terms[i]
}

func (m *PanelModel) confirmDelete() tea.Cmd {
	if m.focus == paneTerms {
		t := m.cursorTerm()
		if t == nil {
			return nil
		}
		id := t.ID
		return switchTo(SwitchToConfirmMsg{
			Prompt: DeleteTermPrompt(t.DisplayLabel()),
			OnConfirm: Run(m.ctx, panel.ActionDeleteTerm, func(ctx context.Context) error {
				return m.ctrl.DeleteTerm(ctx, id)
			}),
		})
	}

	list := m.ctrl.Selected()
	if list == nil {
		return nil
	}
	id := list.ID
	return switchTo(SwitchToConfirmMsg{
		Prompt: DeleteListPrompt(list.Title),
		OnConfirm: Run(m.ctx, panel.ActionDeleteList, func(ctx context.Context) error {
			return m.ctrl.DeleteList(ctx, id)
		}),
	})
}

func (m *PanelModel) nextLanguage() tea.Cmd {
	langs := m.ctrl.Languages()
	if len(langs) < 2 {
		return nil
	}
	current := m.ctrl.Language()
	next := langs[0].Code
	for i, l := range langs {
		if l.Code == current {
			next = langs[(i+1)%len(langs)].Code
			break
		}
	}
	return Run(m.ctx, panel.ActionLoad, func(ctx context.Context) error {
		return m.ctrl.SetLanguage(ctx, next)
	})
}

// View renders the panel
func (m *PanelModel) View() string {
	v := NewViewBuilder()
	v.Raw(styles.Title.Render("Controlled Lists"))
	v.Raw("  ")
	v.Line(m.renderLanguages())

	if err := m.ctrl.BootError(); err != nil {
		v.BlankLine().
			Message(err.Error(), true).
			Muted("The panel needs a site to work on. Set one with --site or CONTROLLED_LISTS_SITE.").
			BlankLine().
			Help(PanelKeys.Refresh, PanelKeys.Quit)
		return v.String()
	}
	if !m.ctrl.Ready() {
		return v.BlankLine().Muted("Loading...").String()
	}

	v.BlankLine()
	v.Line(lipgloss.JoinHorizontal(lipgloss.Top, m.renderLists(), " ", m.renderTerms()))
	v.BlankLine()
	v.Message(m.Message, m.MessageErr)
	v.Feedback(m.ctrl.Feedback())
	v.Raw(m.renderHelpLine())
	return v.String()
}

func (m *PanelModel) renderLanguages() string {
	active := m.ctrl.Language()
	var parts []string
	for _, l := range m.ctrl.Languages() {
		parts = append(parts, RenderLanguageBadge(l, l.Code == active))
	}
	return strings.Join(parts, " ")
}

func (m *PanelModel) paneStyle(p pane) lipgloss.Style {
	if m.focus == p {
		return styles.PaneFocused
	}
	return styles.Pane
}

func (m *PanelModel) renderLists() string {
	var b strings.Builder
	b.WriteString(styles.PaneTitle.Render("Lists"))
	b.WriteString("\n")

	lists := m.ctrl.Lists()
	selected := m.ctrl.Selected()
	if m.ctrl.CreateMode() {
		b.WriteString(styles.Placeholder.Render("+ new list"))
		b.WriteString("\n")
	}
	if len(lists) == 0 {
		b.WriteString(styles.MutedText.Render("No lists yet. Press n to create one."))
	}

	start, end := m.lists.VisibleRange()
	for i := start; i < end && i < len(lists); i++ {
		l := lists[i]
		text := fmt.Sprintf("%s (%d)", l.Title, len(l.Terms))
		switch {
		case selected != nil && l.ID == selected.ID && m.focus == paneLists:
			b.WriteString(styles.RowSelected.Render(text))
		case selected != nil && l.ID == selected.ID:
			b.WriteString(styles.RowActive.Render(text))
		default:
			b.WriteString(styles.Row.Render(text))
		}
		b.WriteString("\n")
	}

	width := max(24, m.Width/3)
	return m.paneStyle(paneLists).Width(width).Render(strings.TrimRight(b.String(), "\n"))
}

func (m *PanelModel) renderTerms() string {
	var b strings.Builder
	list := m.ctrl.Selected()
	if list == nil {
		b.WriteString(styles.MutedText.Render("Select a list"))
		return m.paneStyle(paneTerms).Render(b.String())
	}

	b.WriteString(styles.PaneTitle.Render(list.Title))
	b.WriteString(" ")
	b.WriteString(styles.Value.Render(list.SystemName))
	b.WriteString("\n")
	if list.Description != "" {
		b.WriteString(styles.Subtitle.Render(list.Description))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	terms := list.Terms
	dragged := ""
	if drag := m.ctrl.Drag(); drag != nil && drag.Source < len(terms) {
		dragged = terms[drag.Source].ID
		terms = m.ctrl.PreviewTerms()
	}
	if len(terms) == 0 {
		b.WriteString(styles.MutedText.Render("No terms. Press a to add one or i to import."))
	}

	start, end := m.terms.VisibleRange()
	for i := start; i < end && i < len(terms); i++ {
		t := terms[i]
		text := fmt.Sprintf("%-24s %s", t.DisplayLabel(), styles.Value.Render(t.Value))
		switch {
		case t.ID == dragged:
			b.WriteString(styles.RowDragged.Render("≡ " + t.DisplayLabel()))
		case i == m.terms.Cursor() && m.focus == paneTerms && dragged == "":
			b.WriteString(styles.RowSelected.Render(text))
		default:
			b.WriteString(styles.Row.Render(text))
		}
		b.WriteString("\n")
	}

	width := max(40, m.Width-m.Width/3-8)
	return m.paneStyle(paneTerms).Width(width).Render(strings.TrimRight(b.String(), "\n"))
}

func (m *PanelModel) renderHelpLine() string {
	if m.ctrl.Drag() != nil {
		return RenderHelpLine(PanelKeys.Up,
			key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "drop")),
			PanelKeys.Cancel)
	}
	if m.focus == paneTerms {
		return RenderHelpLine(PanelKeys.Up, PanelKeys.Focus, PanelKeys.Enter, PanelKeys.AddTerm,
			PanelKeys.Delete, PanelKeys.Drag, PanelKeys.Import, PanelKeys.Help, PanelKeys.Quit)
	}
	return RenderHelpLine(PanelKeys.Up, PanelKeys.Focus, PanelKeys.NewList, PanelKeys.EditList,
		PanelKeys.Delete, PanelKeys.Language, PanelKeys.Selector, PanelKeys.Help, PanelKeys.Quit)
}
