package commands

import (
	"context"
	"fmt"

	"controlledlists/internal/application"
	"controlledlists/internal/ports"
)

// DeleteResult contains the result of a delete operation
type DeleteResult struct {
	DeletedPath string
	Message     string
}

// DeleteNodeCommand deletes a list (with its terms) or a single term
type DeleteNodeCommand struct {
	store ports.NodeStore
	Path  string
	Label string // shown in the result message
}

// NewDeleteNodeCommand creates a new DeleteNodeCommand
func NewDeleteNodeCommand(store ports.NodeStore, path, label string) *DeleteNodeCommand {
	return &DeleteNodeCommand{
		store: store,
		Path:  path,
		Label: label,
	}
}

// Validate checks if the delete operation is valid
func (c *DeleteNodeCommand) Validate() error {
	if c.Path == "" {
		return &application.ValidationError{
			Field:   "path",
			Message: "path is required",
		}
	}
	return nil
}

// Execute runs the delete command
func (c *DeleteNodeCommand) Execute(ctx context.Context) (*DeleteResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	if err := c.store.DeleteNode(ctx, c.Path); err != nil {
		return nil, application.Remote("delete", c.Path, err)
	}

	label := c.Label
	if label == "" {
		label = c.Path
	}
	return &DeleteResult{
		DeletedPath: c.Path,
		Message:     fmt.Sprintf("Deleted %s", label),
	}, nil
}
