package mcp

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"controlledlists/internal/application/panel"
	"controlledlists/internal/domain"
)

// Tools exposes a Controller to MCP clients. Calls are serialized because
// most tools select a list before acting on it.
type Tools struct {
	mu   sync.Mutex
	ctrl *panel.Controller
}

// NewTools wraps a bootstrapped controller
func NewTools(ctrl *panel.Controller) *Tools {
	return &Tools{ctrl: ctrl}
}

// Register adds the read and write tools to the MCP server
func (t *Tools) Register(s *server.MCPServer) {
	t.registerRead(s)
	t.registerWrite(s)
}

// locked runs h with the controller to itself and a fresh snapshot
func (t *Tools) locked(h server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		t.mu.Lock()
		defer t.mu.Unlock()
		if err := t.ctrl.Refresh(ctx, ""); err != nil {
			return toolError(err)
		}
		return h(ctx, req)
	}
}

// --- helpers ---

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}

// findList resolves a list by id, node name, system name or title
func (t *Tools) findList(ref string) (*domain.List, error) {
	if ref == "" {
		return nil, fmt.Errorf("list is required")
	}
	for _, l := range t.ctrl.Lists() {
		if l.ID == ref || l.Name == ref || strings.EqualFold(l.SystemName, ref) || strings.EqualFold(l.Title, ref) {
			return &l, nil
		}
	}
	return nil, fmt.Errorf("list %q not found", ref)
}

func (t *Tools) selectList(ref string) (*domain.List, error) {
	l, err := t.findList(ref)
	if err != nil {
		return nil, err
	}
	t.ctrl.Select(l.ID)
	return l, nil
}

// findTerm resolves a term by id, node name or value
func findTerm(l *domain.List, ref string) (*domain.Term, error) {
	for i, term := range l.Terms {
		if term.ID == ref || term.Name == ref || strings.EqualFold(term.Value, ref) {
			return &l.Terms[i], nil
		}
	}
	return nil, fmt.Errorf("term %q not found in %s", ref, l.Title)
}

func formatList(l domain.List) string {
	return fmt.Sprintf("%s  %s  %s  (%d terms)", l.ID, l.Name, l.Title, len(l.Terms))
}

func formatTerm(i int, term domain.Term) string {
	return fmt.Sprintf("%d  %s  %s  %s", i, term.ID, term.Value, term.DisplayLabel())
}
