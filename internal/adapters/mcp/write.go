package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mitchellh/mapstructure"

	"controlledlists/internal/application/commands"
	"controlledlists/internal/domain"
)

func (t *Tools) registerWrite(s *server.MCPServer) {
	s.AddTool(saveListTool(), t.locked(t.saveListHandler))
	s.AddTool(deleteListTool(), t.locked(t.deleteListHandler))
	s.AddTool(saveTermTool(), t.locked(t.saveTermHandler))
	s.AddTool(deleteTermTool(), t.locked(t.deleteTermHandler))
	s.AddTool(importTermsTool(), t.locked(t.importTermsHandler))
	s.AddTool(reorderTermsTool(), t.locked(t.reorderTermsHandler))
}

// --- save_list ---

func saveListTool() mcp.Tool {
	return mcp.NewTool("save_list",
		mcp.WithDescription("Create a list, or update an existing one when 'list' is given. Title and description are written in the current language. Changing the system name of an existing list renames it."),
		mcp.WithString("list",
			mcp.Description("Existing list to update (id, name, system name or title). Omit to create."),
		),
		mcp.WithString("system_name",
			mcp.Description("System name; the list's node name is derived from it"),
		),
		mcp.WithString("title",
			mcp.Description("Title in the current language"),
		),
		mcp.WithString("description",
			mcp.Description("Description in the current language"),
		),
	)
}

func (t *Tools) saveListHandler(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	var form commands.ListForm

	if ref := req.GetString("list", ""); ref != "" {
		l, err := t.selectList(ref)
		if err != nil {
			return toolError(err)
		}
		form = commands.FormFromList(l)
	} else {
		t.ctrl.BeginCreateList()
	}

	if _, ok := args["system_name"]; ok {
		form.SystemName = req.GetString("system_name", "")
	}
	if _, ok := args["title"]; ok {
		form.Title = req.GetString("title", "")
	}
	if _, ok := args["description"]; ok {
		form.Description = req.GetString("description", "")
	}

	result, err := t.ctrl.SaveList(ctx, form)
	t.ctrl.CancelCreateList()
	if err != nil {
		return toolError(err)
	}
	return mcp.NewToolResultText(fmt.Sprintf("%s (id %s, name %s)", result.Message, result.ListID, result.Name)), nil
}

// --- delete_list ---

func deleteListTool() mcp.Tool {
	return mcp.NewTool("delete_list",
		mcp.WithDescription("Delete a list and all of its terms. This cannot be undone."),
		mcp.WithString("list",
			mcp.Description("List id, name, system name or title"),
			mcp.Required(),
		),
	)
}

func (t *Tools) deleteListHandler(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	l, err := t.findList(req.GetString("list", ""))
	if err != nil {
		return toolError(err)
	}
	if err := t.ctrl.DeleteList(ctx, l.ID); err != nil {
		return toolError(err)
	}
	return mcp.NewToolResultText("Deleted list " + l.Title), nil
}

// --- save_term ---

func saveTermTool() mcp.Tool {
	return mcp.NewTool("save_term",
		mcp.WithDescription("Add a term to a list, or update an existing term when 'term' is given. Values are unique within a list, ignoring case. Label and description are written in the current language."),
		mcp.WithString("list",
			mcp.Description("List id, name, system name or title"),
			mcp.Required(),
		),
		mcp.WithString("term",
			mcp.Description("Existing term to update (id, name or value). Omit to add."),
		),
		mcp.WithString("value",
			mcp.Description("Stored value"),
		),
		mcp.WithString("label",
			mcp.Description("Label in the current language"),
		),
		mcp.WithString("description",
			mcp.Description("Description in the current language"),
		),
	)
}

func (t *Tools) saveTermHandler(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	l, err := t.selectList(req.GetString("list", ""))
	if err != nil {
		return toolError(err)
	}

	args := req.GetArguments()
	var form commands.TermForm
	t.ctrl.CancelTermEdit()
	if ref := req.GetString("term", ""); ref != "" {
		term, err := findTerm(l, ref)
		if err != nil {
			return toolError(err)
		}
		form, _ = t.ctrl.EditTerm(term.ID)
	}

	if _, ok := args["value"]; ok {
		form.Value = req.GetString("value", "")
	}
	if _, ok := args["label"]; ok {
		form.Label = req.GetString("label", "")
	}
	if _, ok := args["description"]; ok {
		form.Description = req.GetString("description", "")
	}

	result, err := t.ctrl.SaveTerm(ctx, form)
	t.ctrl.CancelTermEdit()
	if err != nil {
		return toolError(err)
	}
	return mcp.NewToolResultText(result.Message), nil
}

// --- delete_term ---

func deleteTermTool() mcp.Tool {
	return mcp.NewTool("delete_term",
		mcp.WithDescription("Delete a term from a list."),
		mcp.WithString("list",
			mcp.Description("List id, name, system name or title"),
			mcp.Required(),
		),
		mcp.WithString("term",
			mcp.Description("Term id, name or value"),
			mcp.Required(),
		),
	)
}

func (t *Tools) deleteTermHandler(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	l, err := t.selectList(req.GetString("list", ""))
	if err != nil {
		return toolError(err)
	}
	term, err := findTerm(l, req.GetString("term", ""))
	if err != nil {
		return toolError(err)
	}
	if err := t.ctrl.DeleteTerm(ctx, term.ID); err != nil {
		return toolError(err)
	}
	return mcp.NewToolResultText("Deleted term " + term.DisplayLabel()), nil
}

// --- import_terms ---

func importTermsTool() mcp.Tool {
	return mcp.NewTool("import_terms",
		mcp.WithDescription("Import many terms at once. Entries without a label use their value; entries without a value are ignored. Existing values are skipped unless override is true."),
		mcp.WithString("list",
			mcp.Description("List id, name, system name or title"),
			mcp.Required(),
		),
		mcp.WithArray("entries",
			mcp.Description("Terms to import"),
			mcp.Required(),
			mcp.Items(map[string]any{
				"type": "object",
				"properties": map[string]any{
					"value":       map[string]any{"type": "string"},
					"label":       map[string]any{"type": "string"},
					"description": map[string]any{"type": "string"},
				},
			}),
		),
		mcp.WithString("language",
			mcp.Description("Language of labels and descriptions. Defaults to the current language."),
		),
		mcp.WithBoolean("override",
			mcp.Description("Update terms whose value already exists"),
		),
	)
}

func (t *Tools) importTermsHandler(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if _, err := t.selectList(req.GetString("list", "")); err != nil {
		return toolError(err)
	}

	var entries []domain.ImportEntry
	if err := mapstructure.WeakDecode(req.GetArguments()["entries"], &entries); err != nil {
		return toolError(fmt.Errorf("invalid entries: %w", err))
	}

	lang := req.GetString("language", "")
	if lang == "" {
		lang = t.ctrl.DefaultImportLanguage()
	}

	result, err := t.ctrl.ImportTerms(ctx, entries, lang, req.GetBool("override", false))
	if err != nil {
		if result != nil {
			return toolError(fmt.Errorf("%s: %w", result.Message, err))
		}
		return toolError(err)
	}
	return mcp.NewToolResultText(result.Message), nil
}

// --- reorder_terms ---

func reorderTermsTool() mcp.Tool {
	return mcp.NewTool("reorder_terms",
		mcp.WithDescription("Move the term at index 'from' so it lands before the term currently at index 'to'. Use the number of terms as 'to' to move it last. Indexes are the ones shown by get_list."),
		mcp.WithString("list",
			mcp.Description("List id, name, system name or title"),
			mcp.Required(),
		),
		mcp.WithNumber("from",
			mcp.Description("Index of the term to move"),
			mcp.Required(),
		),
		mcp.WithNumber("to",
			mcp.Description("Insertion point, 0 to the number of terms"),
			mcp.Required(),
		),
	)
}

func (t *Tools) reorderTermsHandler(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if _, err := t.selectList(req.GetString("list", "")); err != nil {
		return toolError(err)
	}
	from := req.GetInt("from", -1)
	to := req.GetInt("to", -1)

	result, err := t.ctrl.Reorder(ctx, from, &to)
	if err != nil {
		return toolError(err)
	}
	if result.Order == nil {
		return mcp.NewToolResultText("Order unchanged."), nil
	}
	return mcp.NewToolResultText(result.Message), nil
}
