package views

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"controlledlists/internal/application/panel"
)

// ViewState contains common state shared by all view models.
// Embed this struct in view models to get width/height and message handling.
type ViewState struct {
	Width      int
	Height     int
	Message    string
	MessageErr bool
}

// SetSize updates the view dimensions
func (s *ViewState) SetSize(width, height int) {
	s.Width = width
	s.Height = height
}

// SetMessage sets a local message, shown until the next key press
func (s *ViewState) SetMessage(msg string, isErr bool) {
	s.Message = msg
	s.MessageErr = isErr
}

// ClearMessage clears the current message
func (s *ViewState) ClearMessage() {
	s.Message = ""
	s.MessageErr = false
}

// DoneMsg reports that a controller call finished. The controller has
// already turned the outcome into feedback; Err lets the view keep a form
// open on failure.
type DoneMsg struct {
	Action panel.Action
	Err    error
}

// Run executes fn off the update loop and reports back with a DoneMsg
func Run(ctx context.Context, action panel.Action, fn func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return DoneMsg{Action: action, Err: fn(ctx)}
	}
}

// View switching messages
type (
	SwitchToPanelMsg    struct{}
	SwitchToHelpMsg     struct{}
	SwitchToListFormMsg struct{ Create bool }
	SwitchToTermFormMsg struct{ TermID string }
	SwitchToImportMsg   struct{}
	SwitchToSelectorMsg struct{}
	SwitchToConfirmMsg  struct {
		Prompt    string
		OnConfirm tea.Cmd
	}
)

func switchTo(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}
