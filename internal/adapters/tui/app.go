package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"controlledlists/internal/adapters/tui/views"
	"controlledlists/internal/application/panel"
)

// ViewState represents the current view
type ViewState int

const (
	ViewPanel ViewState = iota
	ViewListForm
	ViewTermForm
	ViewImport
	ViewConfirm
	ViewSelector
	ViewHelp
)

type tickMsg time.Time

// tick re-renders once a second so expired feedback disappears
func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// App is the main TUI application model
type App struct {
	ctx    context.Context
	cancel context.CancelFunc
	ctrl   *panel.Controller

	state    ViewState
	panel    *views.PanelModel
	listForm *views.ListFormModel
	termForm *views.TermFormModel
	imports  *views.ImportModel
	confirm  *views.ConfirmModel
	selector *views.SelectorModel
	help     *views.HelpModel
}

// NewApp creates a new TUI application. value seeds the list selector.
func NewApp(ctrl *panel.Controller, value string) *App {
	ctx, cancel := context.WithCancel(context.Background())
	return &App{
		ctx:      ctx,
		cancel:   cancel,
		ctrl:     ctrl,
		state:    ViewPanel,
		panel:    views.NewPanelModel(ctx, ctrl),
		listForm: views.NewListFormModel(ctx, ctrl),
		termForm: views.NewTermFormModel(ctx, ctrl),
		imports:  views.NewImportModel(ctx, ctrl),
		confirm:  views.NewConfirmModel(),
		selector: views.NewSelectorModel(ctrl, value),
		help:     views.NewHelpModel(),
	}
}

// Close cancels calls still in flight and detaches the controller
func (a *App) Close() {
	a.cancel()
	a.ctrl.Close()
}

// Selection returns the selector's encoded value
func (a *App) Selection() string {
	return a.selector.Value()
}

// State returns the active view
func (a *App) State() ViewState {
	return a.state
}

// Init bootstraps the panel
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.panel.Init(), tick())
}

// Update handles messages for the application
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.panel.SetSize(msg.Width, msg.Height)
		a.listForm.SetSize(msg.Width, msg.Height)
		a.termForm.SetSize(msg.Width, msg.Height)
		a.imports.SetSize(msg.Width, msg.Height)
		a.confirm.SetSize(msg.Width, msg.Height)
		a.selector.SetSize(msg.Width, msg.Height)
		a.help.SetSize(msg.Width, msg.Height)
		return a, nil

	case tickMsg:
		return a, tick()

	case views.DoneMsg:
		a.panel.Update(msg)
		if msg.Err == nil && a.finishes(msg.Action) {
			a.state = ViewPanel
		}
		return a, nil

	case views.SwitchToPanelMsg:
		a.state = ViewPanel
		a.panel.Sync()
		return a, nil

	case views.SwitchToHelpMsg:
		a.state = ViewHelp
		return a, nil

	case views.SwitchToListFormMsg:
		a.state = ViewListForm
		return a, a.listForm.Open(msg.Create)

	case views.SwitchToTermFormMsg:
		a.state = ViewTermForm
		return a, a.termForm.Open(msg.TermID)

	case views.SwitchToImportMsg:
		a.state = ViewImport
		return a, a.imports.Open()

	case views.SwitchToConfirmMsg:
		a.state = ViewConfirm
		a.confirm.Ask(msg.Prompt, msg.OnConfirm)
		return a, nil

	case views.SwitchToSelectorMsg:
		a.state = ViewSelector
		return a, nil
	}

	var cmd tea.Cmd
	switch a.state {
	case ViewPanel:
		_, cmd = a.panel.Update(msg)
	case ViewListForm:
		_, cmd = a.listForm.Update(msg)
	case ViewTermForm:
		_, cmd = a.termForm.Update(msg)
	case ViewImport:
		_, cmd = a.imports.Update(msg)
	case ViewConfirm:
		_, cmd = a.confirm.Update(msg)
	case ViewSelector:
		_, cmd = a.selector.Update(msg)
	case ViewHelp:
		_, cmd = a.help.Update(msg)
	}
	return a, cmd
}

// finishes reports whether a successful action closes the active dialog
func (a *App) finishes(action panel.Action) bool {
	switch a.state {
	case ViewListForm:
		return action == panel.ActionSaveList
	case ViewTermForm:
		return action == panel.ActionSaveTerm
	case ViewImport:
		return action == panel.ActionImport
	}
	return false
}

// View renders the current view
func (a *App) View() string {
	switch a.state {
	case ViewListForm:
		return a.listForm.View()
	case ViewTermForm:
		return a.termForm.View()
	case ViewImport:
		return a.imports.View()
	case ViewConfirm:
		return a.confirm.View()
	case ViewSelector:
		return a.selector.View()
	case ViewHelp:
		return a.help.View()
	default:
		return a.panel.View()
	}
}
