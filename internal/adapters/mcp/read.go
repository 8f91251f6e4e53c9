package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"controlledlists/internal/domain"
)

func (t *Tools) registerRead(s *server.MCPServer) {
	s.AddTool(listsTool(), t.locked(t.listsHandler))
	s.AddTool(getListTool(), t.locked(t.getListHandler))
	s.AddTool(languagesTool(), t.locked(t.languagesHandler))
	s.AddTool(decodeSelectionTool(), t.locked(t.decodeSelectionHandler))
}

// --- lists ---

func listsTool() mcp.Tool {
	return mcp.NewTool("lists",
		mcp.WithDescription("List the site's controlled lists, sorted by title. One line per list: id, name, title, term count."),
	)
}

func (t *Tools) listsHandler(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	lists := t.ctrl.Lists()
	if len(lists) == 0 {
		return mcp.NewToolResultText("No lists."), nil
	}
	var sb strings.Builder
	for _, l := range lists {
		sb.WriteString(formatList(l))
		sb.WriteByte('\n')
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// --- get_list ---

func getListTool() mcp.Tool {
	return mcp.NewTool("get_list",
		mcp.WithDescription("Show a list and its terms in order. Each term line: index, id, value, label."),
		mcp.WithString("list",
			mcp.Description("List id, name, system name or title"),
			mcp.Required(),
		),
		mcp.WithString("language",
			mcp.Description("Language code to show titles and labels in. Omit to keep the current language."),
		),
	)
}

func (t *Tools) getListHandler(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if lang := req.GetString("language", ""); lang != "" && lang != t.ctrl.Language() {
		if err := t.ctrl.SetLanguage(ctx, lang); err != nil {
			return toolError(err)
		}
	}

	l, err := t.findList(req.GetString("list", ""))
	if err != nil {
		return toolError(err)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s (%s) [%s]\n", l.Title, l.SystemName, t.ctrl.Language())
	if l.Description != "" {
		fmt.Fprintf(&sb, "%s\n", l.Description)
	}
	for i, term := range l.Terms {
		sb.WriteString(formatTerm(i, term))
		sb.WriteByte('\n')
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// --- languages ---

func languagesTool() mcp.Tool {
	return mcp.NewTool("languages",
		mcp.WithDescription("List the languages editors can work in. The current one is marked with *."),
	)
}

func (t *Tools) languagesHandler(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	current := t.ctrl.Language()
	var sb strings.Builder
	for _, l := range t.ctrl.Languages() {
		marker := " "
		if l.Code == current {
			marker = "*"
		}
		fmt.Fprintf(&sb, "%s %s  %s\n", marker, l.Code, l.DisplayName)
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// --- decode_selection ---

func decodeSelectionTool() mcp.Tool {
	return mcp.NewTool("decode_selection",
		mcp.WithDescription("Explain a value stored by the list selector: the list it points to and its selected terms, flagging terms that no longer exist."),
		mcp.WithString("value",
			mcp.Description("The stored selector value (JSON)"),
			mcp.Required(),
		),
	)
}

func (t *Tools) decodeSelectionHandler(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sel := domain.ParseSelection(req.GetString("value", ""))
	if sel.ListID == "" {
		return mcp.NewToolResultText("No list selected."), nil
	}

	var sb strings.Builder
	l, err := t.findList(sel.ListID)
	if err != nil {
		fmt.Fprintf(&sb, "List %s no longer exists\n", sel.ListID)
	} else {
		fmt.Fprintf(&sb, "List %s\n", l.Title)
	}
	for _, st := range sel.Terms {
		status := ""
		if l == nil || l.FindTerm(st.ID) == nil {
			status = "  (no longer in list)"
		}
		fmt.Fprintf(&sb, "%s  %s  %s%s\n", st.ID, st.Value, st.Label, status)
	}
	return mcp.NewToolResultText(sb.String()), nil
}
