package panel

import (
	"context"

	"github.com/sirupsen/logrus"

	"controlledlists/internal/application"
	"controlledlists/internal/application/commands"
)

// SaveList creates a list in create mode, otherwise updates the selected one
func (c *Controller) SaveList(ctx context.Context, form commands.ListForm) (*commands.SaveListResult, error) {
	if err := c.begin(ActionSaveList); err != nil {
		return nil, err
	}
	defer c.end(ActionSaveList)

	c.mu.Lock()
	col := c.collectionLocked()
	current := c.selectedLocked()
	createMode := c.createMode
	if createMode {
		current = nil
	}
	c.mu.Unlock()

	// outside create mode only the selected list is updated
	if !createMode && current == nil {
		err := &application.ValidationError{Field: "listID", Message: "no list selected"}
		c.fail(err)
		return nil, err
	}

	result, err := commands.NewSaveListCommand(c.store, col, current, form).Execute(ctx)
	if result == nil {
		c.fail(err)
		return nil, err
	}

	c.log.WithFields(logrus.Fields{"op": "save-list", "name": result.Name, "applied": result.Applied}).Debug("list saved")
	if result.Created {
		c.mu.Lock()
		c.createMode = false
		c.mu.Unlock()
	}
	c.report(ctx, result.Applied, result.ListID, result.Message, err)
	return result, err
}

// DeleteList deletes a list and its terms. If it was selected, selection
// falls back to the first remaining list.
func (c *Controller) DeleteList(ctx context.Context, id string) error {
	if err := c.begin(ActionDeleteList); err != nil {
		return err
	}
	defer c.end(ActionDeleteList)

	c.mu.Lock()
	list := c.collection.Find(id)
	var path, title string
	if list != nil {
		path, title = list.Path, list.Title
	}
	c.mu.Unlock()

	if list == nil {
		err := &application.ValidationError{Field: "listID", Message: "list not found"}
		c.fail(err)
		return err
	}

	result, err := commands.NewDeleteNodeCommand(c.store, path, "list "+title).Execute(ctx)
	if err != nil {
		c.fail(err)
		return err
	}
	c.report(ctx, 1, "", result.Message, nil)
	return nil
}
