package commands

import (
	"context"
	"strings"
	"testing"

	"controlledlists/internal/domain"
)

func sampleList() *domain.List {
	p := root + "/cities"
	return &domain.List{
		ID:   "l2",
		Path: p,
		Name: "cities",
		Terms: []domain.Term{
			{ID: "t1", Path: p + "/paris", Name: "paris", Value: "Paris", Label: "Paris"},
			{ID: "t2", Path: p + "/rome", Name: "rome", Value: "Rome", Label: "Rome"},
		},
	}
}

func TestSaveTermCommand_Validate(t *testing.T) {
	list := sampleList()

	tests := []struct {
		name    string
		list    *domain.List
		current *domain.Term
		form    TermForm
		wantErr bool
		errMsg  string
	}{
		{name: "valid add", list: list, form: TermForm{Value: "Oslo", Label: "Oslo"}},
		{name: "no list", list: nil, form: TermForm{Value: "Oslo", Label: "Oslo"}, wantErr: true, errMsg: "no list selected"},
		{name: "blank value", list: list, form: TermForm{Value: " ", Label: "Oslo"}, wantErr: true, errMsg: "value is required"},
		{name: "blank label", list: list, form: TermForm{Value: "Oslo"}, wantErr: true, errMsg: "label is required"},
		{name: "duplicate value ignoring case", list: list, form: TermForm{Value: "paris", Label: "P"}, wantErr: true, errMsg: "already used"},
		{name: "edit keeps own value", list: list, current: &list.Terms[0], form: TermForm{Value: "Paris", Label: "Paris, France"}},
		{name: "edit onto sibling value", list: list, current: &list.Terms[0], form: TermForm{Value: "ROME", Label: "x"}, wantErr: true, errMsg: "already used"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewSaveTermCommand(newMockNodeStore(), tt.list, tt.current, "en", tt.form).Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error containing %q, got nil", tt.errMsg)
				}
				if !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("expected error containing %q, got %q", tt.errMsg, err.Error())
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestSaveTermCommand_Add(t *testing.T) {
	store := newMockNodeStore()
	result, err := NewSaveTermCommand(store, sampleList(), nil, "fr", TermForm{Value: " Évry ", Label: "Évry"}).Execute(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Name != "evry" || !result.Created {
		t.Errorf("unexpected result: %+v", result)
	}

	creates := store.ops("create")
	if len(creates) != 1 {
		t.Fatalf("expected one create, got %d", len(creates))
	}
	if p, _ := prop(creates[0].Props, domain.PropValue); p.Value != "Évry" || p.Language != "" {
		t.Errorf("value property = %+v", p)
	}
	if p, _ := prop(creates[0].Props, domain.PropLabel); p.Language != "fr" {
		t.Errorf("label property = %+v", p)
	}
}

func TestSaveTermCommand_EditRename(t *testing.T) {
	tests := []struct {
		name       string
		value      string
		wantRename string
	}{
		{name: "label only", value: "Paris", wantRename: ""},
		{name: "value changes identifier", value: "Paris Centre", wantRename: "paris-centre"},
		{name: "value changes case only", value: "PARIS", wantRename: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMockNodeStore()
			list := sampleList()
			result, err := NewSaveTermCommand(store, list, &list.Terms[0], "en", TermForm{Value: tt.value, Label: "Label"}).Execute(context.Background())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			renames := store.ops("rename")
			if tt.wantRename == "" {
				if len(renames) != 0 || result.Renamed {
					t.Errorf("unexpected rename: %+v", renames)
				}
				return
			}
			if len(renames) != 1 || renames[0].Name != tt.wantRename {
				t.Fatalf("expected rename to %q, got %+v", tt.wantRename, renames)
			}
			if store.calls[0].Op != "update" {
				t.Errorf("update must come first, got %+v", store.calls)
			}
		})
	}
}
