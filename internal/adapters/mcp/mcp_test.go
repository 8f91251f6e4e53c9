package mcp

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"controlledlists/internal/adapters/sqlite"
	"controlledlists/internal/application/commands"
	"controlledlists/internal/application/panel"
	"controlledlists/internal/domain"
)

// testSetup returns tools over a local site holding one list "Colors" with
// red, green and blue
func testSetup(t *testing.T) (*Tools, *panel.Controller) {
	t.Helper()
	ctx := context.Background()

	s, err := sqlite.Open(filepath.Join(t.TempDir(), "lists.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.SeedSite(ctx, "acme", []domain.Language{
		{Code: "en", DisplayName: "English", ActiveInEdit: true},
		{Code: "fr", DisplayName: "Français", ActiveInEdit: true},
	}))

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	c := panel.New(s, panel.Options{SiteKey: "acme", Language: "en", Logger: logger})
	require.NoError(t, c.Bootstrap(ctx))

	c.BeginCreateList()
	_, err = c.SaveList(ctx, commands.ListForm{SystemName: "colors", Title: "Colors"})
	require.NoError(t, err)
	for _, v := range []string{"red", "green", "blue"} {
		_, err := c.SaveTerm(ctx, commands.TermForm{Value: v, Label: v})
		require.NoError(t, err)
	}
	return NewTools(c), c
}

// makeRequest creates a CallToolRequest with the given arguments.
func makeRequest(args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
}

func call(t *testing.T, h func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), tools *Tools, args map[string]any) (string, bool) {
	t.Helper()
	result, err := tools.locked(h)(context.Background(), makeRequest(args))
	require.NoError(t, err)
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")
	return text.Text, result.IsError
}

func termValues(c *panel.Controller, listRef string) []string {
	for _, l := range c.Lists() {
		if l.SystemName == listRef {
			out := make([]string, len(l.Terms))
			for i, term := range l.Terms {
				out[i] = term.Value
			}
			return out
		}
	}
	return nil
}

func TestLists(t *testing.T) {
	tools, _ := testSetup(t)

	text, isErr := call(t, tools.listsHandler, tools, nil)
	require.False(t, isErr)
	require.Contains(t, text, "Colors")
	require.Contains(t, text, "(3 terms)")
}

func TestGetList(t *testing.T) {
	tools, _ := testSetup(t)

	tests := []struct {
		name    string
		args    map[string]any
		want    string
		wantErr bool
	}{
		{name: "by system name", args: map[string]any{"list": "colors"}, want: "Colors (colors) [en]"},
		{name: "in french", args: map[string]any{"list": "colors", "language": "fr"}, want: "[fr]"},
		{name: "missing list", args: map[string]any{"list": "shapes"}, want: "not found", wantErr: true},
		{name: "no list", args: map[string]any{}, want: "list is required", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, isErr := call(t, tools.getListHandler, tools, tt.args)
			require.Equal(t, tt.wantErr, isErr)
			require.Contains(t, text, tt.want)
		})
	}
}

func TestLanguages(t *testing.T) {
	tools, _ := testSetup(t)

	text, isErr := call(t, tools.languagesHandler, tools, nil)
	require.False(t, isErr)
	require.Contains(t, text, "* en")
	require.Contains(t, text, "  fr")
}

func TestSaveList(t *testing.T) {
	tools, c := testSetup(t)

	_, isErr := call(t, tools.saveListHandler, tools, map[string]any{"system_name": "Sizes", "title": "Sizes"})
	require.False(t, isErr)
	require.Len(t, c.Lists(), 2)
	require.False(t, c.CreateMode())

	_, isErr = call(t, tools.saveListHandler, tools, map[string]any{"list": "colors", "title": "Colours"})
	require.False(t, isErr)
	text, _ := call(t, tools.getListHandler, tools, map[string]any{"list": "colors"})
	require.Contains(t, text, "Colours")
	require.Equal(t, []string{"red", "green", "blue"}, termValues(c, "colors"), "terms survive a title change")
}

func TestDeleteList(t *testing.T) {
	tools, c := testSetup(t)

	_, isErr := call(t, tools.deleteListHandler, tools, map[string]any{"list": "Colors"})
	require.False(t, isErr)
	require.Empty(t, c.Lists())

	_, isErr = call(t, tools.deleteListHandler, tools, map[string]any{"list": "Colors"})
	require.True(t, isErr)
}

func TestSaveTerm(t *testing.T) {
	tools, c := testSetup(t)

	_, isErr := call(t, tools.saveTermHandler, tools, map[string]any{"list": "colors", "value": "purple", "label": "Purple"})
	require.False(t, isErr)
	require.Equal(t, []string{"red", "green", "blue", "purple"}, termValues(c, "colors"))

	_, isErr = call(t, tools.saveTermHandler, tools, map[string]any{"list": "colors", "value": "RED", "label": "Again"})
	require.True(t, isErr, "values are unique ignoring case")

	_, isErr = call(t, tools.saveTermHandler, tools, map[string]any{"list": "colors", "term": "green", "label": "Vert"})
	require.False(t, isErr)
	text, _ := call(t, tools.getListHandler, tools, map[string]any{"list": "colors"})
	require.Contains(t, text, "green  Vert")
	require.Empty(t, c.EditingTerm())
}

func TestDeleteTerm(t *testing.T) {
	tools, c := testSetup(t)

	_, isErr := call(t, tools.deleteTermHandler, tools, map[string]any{"list": "colors", "term": "green"})
	require.False(t, isErr)
	require.Equal(t, []string{"red", "blue"}, termValues(c, "colors"))

	text, isErr := call(t, tools.deleteTermHandler, tools, map[string]any{"list": "colors", "term": "green"})
	require.True(t, isErr)
	require.Contains(t, text, "not found")
}

func TestImportTerms(t *testing.T) {
	tools, c := testSetup(t)

	args := map[string]any{
		"list": "colors",
		"entries": []any{
			map[string]any{"value": "red", "label": "Rouge"},
			map[string]any{"value": "purple"},
			map[string]any{"value": 42, "label": "Answer"},
			map[string]any{"label": "no value"},
		},
	}
	_, isErr := call(t, tools.importTermsHandler, tools, args)
	require.False(t, isErr)
	require.Equal(t, []string{"red", "green", "blue", "purple", "42"}, termValues(c, "colors"))

	text, _ := call(t, tools.getListHandler, tools, map[string]any{"list": "colors"})
	require.Contains(t, text, "red  red", "existing terms are skipped without override")

	args["override"] = true
	_, isErr = call(t, tools.importTermsHandler, tools, args)
	require.False(t, isErr)
	text, _ = call(t, tools.getListHandler, tools, map[string]any{"list": "colors"})
	require.Contains(t, text, "red  Rouge")

	_, isErr = call(t, tools.importTermsHandler, tools, map[string]any{"list": "colors", "entries": "nope"})
	require.True(t, isErr)
}

func TestReorderTerms(t *testing.T) {
	tools, c := testSetup(t)

	tests := []struct {
		name string
		from int
		to   int
		want []string
	}{
		{name: "first to last", from: 0, to: 3, want: []string{"green", "blue", "red"}},
		{name: "last to first", from: 2, to: 0, want: []string{"red", "green", "blue"}},
		{name: "no-op", from: 1, to: 1, want: []string{"red", "green", "blue"}},
		{name: "out of range", from: 7, to: 0, want: []string{"red", "green", "blue"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, isErr := call(t, tools.reorderTermsHandler, tools, map[string]any{"list": "colors", "from": tt.from, "to": tt.to})
			require.False(t, isErr)
			require.Equal(t, tt.want, termValues(c, "colors"))
		})
	}
}

func TestDecodeSelection(t *testing.T) {
	tools, c := testSetup(t)
	list := c.Lists()[0]
	red := list.Terms[0]

	value := domain.Selection{ListID: list.ID, Terms: []domain.SelectedTerm{
		{ID: red.ID, Value: red.Value, Label: red.Label},
		{ID: "gone", Value: "old", Label: "Old"},
	}}.Encode()

	text, isErr := call(t, tools.decodeSelectionHandler, tools, map[string]any{"value": value})
	require.False(t, isErr)
	require.Contains(t, text, "List Colors")
	require.Contains(t, text, "gone  old  Old  (no longer in list)")
	require.Contains(t, text, red.ID+"  red  red\n")

	text, _ = call(t, tools.decodeSelectionHandler, tools, map[string]any{"value": ""})
	require.Equal(t, "No list selected.", text)
}
