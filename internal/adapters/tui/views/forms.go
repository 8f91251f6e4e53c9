package views

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"controlledlists/internal/application/commands"
	"controlledlists/internal/application/panel"
)

const (
	listSystemName = iota
	listTitle
	listDescription
)

// ListFormModel creates or edits a list
type ListFormModel struct {
	ViewState
	ctx    context.Context
	ctrl   *panel.Controller
	form   *InputForm
	create bool
}

// NewListFormModel creates the list form view
func NewListFormModel(ctx context.Context, ctrl *panel.Controller) *ListFormModel {
	return &ListFormModel{
		ctx:  ctx,
		ctrl: ctrl,
		form: NewInputForm(
			NewInputField("System name", "e.g. Countries", true),
			NewInputField("Title", "Shown to editors", true),
			NewInputField("Description", "Optional", false),
		),
	}
}

// Open loads the selected list into the form, or clears it for a new list
func (m *ListFormModel) Open(create bool) tea.Cmd {
	m.create = create
	m.ClearMessage()
	m.form.Reset()
	if !create {
		if list := m.ctrl.Selected(); list != nil {
			f := commands.FormFromList(list)
			m.form.SetValue(listSystemName, f.SystemName)
			m.form.SetValue(listTitle, f.Title)
			m.form.SetValue(listDescription, f.Description)
		}
	}
	return m.form.Init()
}

// Form returns the form as typed so far
func (m *ListFormModel) Form() commands.ListForm {
	return commands.ListForm{
		SystemName:  m.form.Value(listSystemName),
		Title:       m.form.Value(listTitle),
		Description: m.form.Value(listDescription),
	}
}

func (m *ListFormModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the list form
func (m *ListFormModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, m.form.Keys.Cancel):
			if m.create {
				m.ctrl.CancelCreateList()
			}
			return m, switchTo(SwitchToPanelMsg{})
		case key.Matches(keyMsg, m.form.Keys.Submit):
			form := m.Form()
			return m, Run(m.ctx, panel.ActionSaveList, func(ctx context.Context) error {
				_, err := m.ctrl.SaveList(ctx, form)
				return err
			})
		}
	}

	_, cmd := m.form.Update(msg)
	return m, cmd
}

// View renders the list form
func (m *ListFormModel) View() string {
	title := "Edit List"
	if m.create {
		title = "New List"
	}
	return NewViewBuilder().
		Title(title).
		Line(m.form.RenderFields()).
		BlankLine().
		Message(m.Message, m.MessageErr).
		Feedback(m.ctrl.Feedback()).
		Raw(m.form.RenderHelp()).
		String()
}

const (
	termValue = iota
	termLabel
	termDescription
)

// TermFormModel adds a term to the selected list or edits one of its terms
type TermFormModel struct {
	ViewState
	ctx  context.Context
	ctrl *panel.Controller
	form *InputForm
}

// NewTermFormModel creates the term form view
func NewTermFormModel(ctx context.Context, ctrl *panel.Controller) *TermFormModel {
	return &TermFormModel{
		ctx:  ctx,
		ctrl: ctrl,
		form: NewInputForm(
			NewInputField("Value", "Stored value", true),
			NewInputField("Label", "Shown to editors", true),
			NewInputField("Description", "Optional", false),
		),
	}
}

// Open loads the term with id into the form; an empty id adds a new term
func (m *TermFormModel) Open(id string) tea.Cmd {
	m.ClearMessage()
	m.form.Reset()
	m.ctrl.CancelTermEdit()
	if id != "" {
		if f, ok := m.ctrl.EditTerm(id); ok {
			m.form.SetValue(termValue, f.Value)
			m.form.SetValue(termLabel, f.Label)
			m.form.SetValue(termDescription, f.Description)
		}
	}
	return m.form.Init()
}

// Form returns the form as typed so far
func (m *TermFormModel) Form() commands.TermForm {
	return commands.TermForm{
		Value:       m.form.Value(termValue),
		Label:       m.form.Value(termLabel),
		Description: m.form.Value(termDescription),
	}
}

func (m *TermFormModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the term form
func (m *TermFormModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, m.form.Keys.Cancel):
			m.ctrl.CancelTermEdit()
			return m, switchTo(SwitchToPanelMsg{})
		case key.Matches(keyMsg, m.form.Keys.Submit):
			form := m.Form()
			return m, Run(m.ctx, panel.ActionSaveTerm, func(ctx context.Context) error {
				_, err := m.ctrl.SaveTerm(ctx, form)
				return err
			})
		}
	}

	_, cmd := m.form.Update(msg)
	return m, cmd
}

// View renders the term form
func (m *TermFormModel) View() string {
	title := "Add Term"
	if m.ctrl.EditingTerm() != "" {
		title = "Edit Term"
	}
	v := NewViewBuilder().Title(title)
	if list := m.ctrl.Selected(); list != nil {
		v.Subtitle("in " + list.Title)
	}
	return v.Line(m.form.RenderFields()).
		BlankLine().
		Message(m.Message, m.MessageErr).
		Feedback(m.ctrl.Feedback()).
		Raw(m.form.RenderHelp()).
		String()
}
