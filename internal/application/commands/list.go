package commands

import (
	"context"
	"fmt"
	"strings"

	"controlledlists/internal/application"
	"controlledlists/internal/domain"
	"controlledlists/internal/ports"
)

// ListForm holds the editable fields of a list
type ListForm struct {
	SystemName  string
	Title       string
	Description string
}

// FormFromList loads a list into a form
func FormFromList(l *domain.List) ListForm {
	return ListForm{SystemName: l.SystemName, Title: l.Title, Description: l.Description}
}

// SaveListResult contains the result of saving a list
type SaveListResult struct {
	ListID  string
	Name    string
	Created bool
	Renamed bool
	Applied int // remote calls that succeeded
	Message string
}

// SaveListCommand creates a list, or updates (and possibly renames) an existing one
type SaveListCommand struct {
	store    ports.NodeStore
	RootPath string
	Language string
	Siblings []domain.List
	Current  *domain.List // nil when creating
	Form     ListForm
}

// NewSaveListCommand creates a new SaveListCommand. current is nil for a new list.
func NewSaveListCommand(store ports.NodeStore, col *domain.Collection, current *domain.List, form ListForm) *SaveListCommand {
	return &SaveListCommand{
		store:    store,
		RootPath: col.RootPath,
		Language: col.Language,
		Siblings: col.Lists,
		Current:  current,
		Form:     form,
	}
}

// Validate checks required fields and identifier collisions without touching the store
func (c *SaveListCommand) Validate() error {
	if err := application.ValidateRequired("systemName", c.Form.SystemName); err != nil {
		return err
	}
	if err := application.ValidateRequired("title", c.Form.Title); err != nil {
		return err
	}
	if c.Current == nil && c.RootPath == "" {
		return &application.ValidationError{Field: "root", Message: "lists root is not ready"}
	}

	if newName, rename := c.rename(); rename {
		var others []string
		for _, l := range c.Siblings {
			if l.ID != c.Current.ID {
				others = append(others, l.Name)
			}
		}
		if err := application.ValidateUnique("systemName", newName, others); err != nil {
			return err
		}
	}
	return nil
}

// rename returns the new node name when editing changed the system name
func (c *SaveListCommand) rename() (string, bool) {
	if c.Current == nil {
		return "", false
	}
	systemName := strings.TrimSpace(c.Form.SystemName)
	if systemName == c.Current.SystemName {
		return "", false
	}
	newName := domain.Normalize(systemName)
	if newName == "" {
		newName = domain.ListNamePrefix
	}
	return newName, newName != c.Current.Name
}

func (c *SaveListCommand) properties() []domain.Property {
	return []domain.Property{
		{Name: domain.PropSystemName, Value: strings.TrimSpace(c.Form.SystemName)},
		{Name: domain.PropTitle, Value: strings.TrimSpace(c.Form.Title), Language: c.Language},
		{Name: domain.PropDescription, Value: strings.TrimSpace(c.Form.Description), Language: c.Language},
	}
}

// Execute runs the save. On edit the property update goes first and the rename
// is only attempted once it succeeded.
func (c *SaveListCommand) Execute(ctx context.Context) (*SaveListResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	if c.Current == nil {
		existing := make([]string, len(c.Siblings))
		for i, l := range c.Siblings {
			existing[i] = l.Name
		}
		name := domain.EnsureUnique(c.Form.SystemName, existing, domain.ListNamePrefix)

		id, err := c.store.CreateNode(ctx, c.RootPath, name, domain.NodeTypeList, c.properties())
		if err != nil {
			return nil, application.Remote("create list", c.RootPath, err)
		}
		return &SaveListResult{
			ListID:  id,
			Name:    name,
			Created: true,
			Applied: 1,
			Message: fmt.Sprintf("Created list %s", name),
		}, nil
	}

	result := &SaveListResult{ListID: c.Current.ID, Name: c.Current.Name}
	if err := c.store.UpdateProperties(ctx, c.Current.Path, c.properties()); err != nil {
		return nil, application.Remote("update list", c.Current.Path, err)
	}
	result.Applied++
	result.Message = fmt.Sprintf("Updated list %s", c.Current.Name)

	if newName, rename := c.rename(); rename {
		if err := c.store.RenameNode(ctx, c.Current.Path, newName); err != nil {
			return result, application.Remote("rename list", c.Current.Path, err)
		}
		result.Applied++
		result.Renamed = true
		result.Name = newName
		result.Message = fmt.Sprintf("Updated list %s (renamed to %s)", c.Current.Name, newName)
	}

	return result, nil
}
