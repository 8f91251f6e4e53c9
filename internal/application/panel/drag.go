package panel

import (
	"context"

	"controlledlists/internal/application/commands"
	"controlledlists/internal/domain"
)

// BeginDrag starts dragging the term at index of the selected list
func (c *Controller) BeginDrag(index int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	list := c.collection.Find(c.selectedID)
	if list == nil || c.createMode || index < 0 || index >= len(list.Terms) {
		return false
	}
	c.drag = &domain.DragState{Source: index}
	return true
}

// DragOver moves the drop insertion point (0..len)
func (c *Controller) DragOver(target int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.drag == nil {
		return
	}
	c.drag.Target = &target
}

// DragOverRow moves the drop point onto a row: below the source lands after
// the row, above lands before it
func (c *Controller) DragOverRow(row int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.drag == nil {
		return
	}
	target := domain.RowInsertionPoint(c.drag.Source, row)
	c.drag.Target = &target
}

// CancelDrag abandons the drag
func (c *Controller) CancelDrag() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.drag = nil
}

// Drag returns a copy of the drag state, or nil
func (c *Controller) Drag() *domain.DragState {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.drag == nil {
		return nil
	}
	d := &domain.DragState{Source: c.drag.Source}
	if c.drag.Target != nil {
		t := *c.drag.Target
		d.Target = &t
	}
	return d
}

// PreviewTerms returns the selected list's terms as they would be ordered if
// dropped now. The preview goes through the same planner as Drop.
func (c *Controller) PreviewTerms() []domain.Term {
	c.mu.Lock()
	defer c.mu.Unlock()
	list := c.collection.Find(c.selectedID)
	if list == nil {
		return nil
	}
	if c.drag != nil {
		if plan := domain.PlanReorder(list.Terms, c.drag.Source, c.drag.Target); plan != nil {
			return plan
		}
	}
	return append([]domain.Term(nil), list.Terms...)
}

// Drop commits the drag. A no-op move issues nothing.
func (c *Controller) Drop(ctx context.Context) (*commands.ReorderResult, error) {
	c.mu.Lock()
	drag := c.drag
	c.drag = nil
	c.mu.Unlock()
	if drag == nil {
		return &commands.ReorderResult{}, nil
	}
	return c.Reorder(ctx, drag.Source, drag.Target)
}

// Reorder moves the term at source of the selected list to the insertion point target
func (c *Controller) Reorder(ctx context.Context, source int, target *int) (*commands.ReorderResult, error) {
	if err := c.begin(ActionReorder); err != nil {
		return nil, err
	}
	defer c.end(ActionReorder)

	result, err := commands.NewReorderTermsCommand(c.store, c.Selected(), source, target).Execute(ctx)
	if err != nil {
		c.fail(err)
		return nil, err
	}
	if result.Order == nil {
		return result, nil
	}
	c.report(ctx, 1, "", result.Message, nil)
	return result, nil
}
