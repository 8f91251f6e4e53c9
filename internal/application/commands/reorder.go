package commands

import (
	"context"

	"controlledlists/internal/application"
	"controlledlists/internal/domain"
	"controlledlists/internal/ports"
)

// ReorderResult contains the result of a reorder
type ReorderResult struct {
	Order   []string // term names in their new order; nil when nothing moved
	Message string
}

// ReorderTermsCommand moves one term of a list to an insertion point
type ReorderTermsCommand struct {
	store  ports.NodeStore
	List   *domain.List
	Source int
	Target *int
}

// NewReorderTermsCommand creates a new ReorderTermsCommand
func NewReorderTermsCommand(store ports.NodeStore, list *domain.List, source int, target *int) *ReorderTermsCommand {
	return &ReorderTermsCommand{
		store:  store,
		List:   list,
		Source: source,
		Target: target,
	}
}

// Validate checks that there is a list to reorder
func (c *ReorderTermsCommand) Validate() error {
	if c.List == nil {
		return &application.ValidationError{Field: "listID", Message: "no list selected"}
	}
	return nil
}

// Execute issues a single reorder call with the full new order, or nothing
// when the move is a no-op.
func (c *ReorderTermsCommand) Execute(ctx context.Context) (*ReorderResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	plan := domain.PlanReorder(c.List.Terms, c.Source, c.Target)
	if plan == nil {
		return &ReorderResult{}, nil
	}

	order := make([]string, len(plan))
	for i, t := range plan {
		order[i] = t.Name
	}
	if err := c.store.ReorderChildren(ctx, c.List.Path, order); err != nil {
		return nil, application.Remote("reorder", c.List.Path, err)
	}

	return &ReorderResult{Order: order, Message: "Terms reordered"}, nil
}
