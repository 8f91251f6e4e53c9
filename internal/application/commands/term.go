package commands

import (
	"context"
	"fmt"
	"strings"

	"controlledlists/internal/application"
	"controlledlists/internal/domain"
	"controlledlists/internal/ports"
)

// TermForm holds the editable fields of a term
type TermForm struct {
	Value       string
	Label       string
	Description string
}

// FormFromTerm loads a term into a form
func FormFromTerm(t *domain.Term) TermForm {
	return TermForm{Value: t.Value, Label: t.Label, Description: t.Description}
}

// SaveTermResult contains the result of saving a term
type SaveTermResult struct {
	TermID  string
	Name    string
	Created bool
	Renamed bool
	Applied int
	Message string
}

// SaveTermCommand adds a term to a list, or updates (and possibly renames) one
type SaveTermCommand struct {
	store    ports.NodeStore
	List     *domain.List
	Current  *domain.Term // nil when adding
	Language string
	Form     TermForm
}

// NewSaveTermCommand creates a new SaveTermCommand. current is nil for a new term.
func NewSaveTermCommand(store ports.NodeStore, list *domain.List, current *domain.Term, language string, form TermForm) *SaveTermCommand {
	return &SaveTermCommand{
		store:    store,
		List:     list,
		Current:  current,
		Language: language,
		Form:     form,
	}
}

// others returns the sibling terms, excluding the one being edited
func (c *SaveTermCommand) others() []domain.Term {
	if c.Current == nil {
		return c.List.Terms
	}
	out := make([]domain.Term, 0, len(c.List.Terms))
	for _, t := range c.List.Terms {
		if t.ID != c.Current.ID {
			out = append(out, t)
		}
	}
	return out
}

// Validate checks required fields and value/identifier collisions
func (c *SaveTermCommand) Validate() error {
	if c.List == nil {
		return &application.ValidationError{Field: "listID", Message: "no list selected"}
	}
	if err := application.ValidateRequired("value", c.Form.Value); err != nil {
		return err
	}
	if err := application.ValidateRequired("label", c.Form.Label); err != nil {
		return err
	}

	others := c.others()
	values := make([]string, len(others))
	names := make([]string, len(others))
	for i, t := range others {
		values[i] = t.Value
		names[i] = t.Name
	}
	if err := application.ValidateUnique("value", strings.TrimSpace(c.Form.Value), values); err != nil {
		return err
	}
	if newName, rename := c.rename(); rename {
		if err := application.ValidateUnique("value", newName, names); err != nil {
			return err
		}
	}
	return nil
}

func (c *SaveTermCommand) rename() (string, bool) {
	if c.Current == nil {
		return "", false
	}
	value := strings.TrimSpace(c.Form.Value)
	if value == c.Current.Value {
		return "", false
	}
	newName := domain.Normalize(value)
	if newName == "" {
		newName = domain.TermNamePrefix
	}
	return newName, newName != c.Current.Name
}

func (c *SaveTermCommand) properties() []domain.Property {
	return TermProperties(domain.ImportEntry{
		Value:       strings.TrimSpace(c.Form.Value),
		Label:       strings.TrimSpace(c.Form.Label),
		Description: strings.TrimSpace(c.Form.Description),
	}, c.Language)
}

// TermProperties maps a term's fields to store properties written in language
func TermProperties(e domain.ImportEntry, language string) []domain.Property {
	return []domain.Property{
		{Name: domain.PropValue, Value: e.Value},
		{Name: domain.PropLabel, Value: e.Label, Language: language},
		{Name: domain.PropDescription, Value: e.Description, Language: language},
	}
}

// Execute runs the save
func (c *SaveTermCommand) Execute(ctx context.Context) (*SaveTermResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	label := strings.TrimSpace(c.Form.Label)

	if c.Current == nil {
		name := domain.EnsureUnique(c.Form.Value, c.List.TermNames(), domain.TermNamePrefix)
		id, err := c.store.CreateNode(ctx, c.List.Path, name, domain.NodeTypeTerm, c.properties())
		if err != nil {
			return nil, application.Remote("create term", c.List.Path, err)
		}
		return &SaveTermResult{
			TermID:  id,
			Name:    name,
			Created: true,
			Applied: 1,
			Message: fmt.Sprintf("Added term %s", label),
		}, nil
	}

	result := &SaveTermResult{TermID: c.Current.ID, Name: c.Current.Name}
	if err := c.store.UpdateProperties(ctx, c.Current.Path, c.properties()); err != nil {
		return nil, application.Remote("update term", c.Current.Path, err)
	}
	result.Applied++
	result.Message = fmt.Sprintf("Updated term %s", label)

	if newName, rename := c.rename(); rename {
		if err := c.store.RenameNode(ctx, c.Current.Path, newName); err != nil {
			return result, application.Remote("rename term", c.Current.Path, err)
		}
		result.Applied++
		result.Renamed = true
		result.Name = newName
	}

	return result, nil
}
