package panel

import (
	"context"

	"github.com/sirupsen/logrus"

	"controlledlists/internal/application"
	"controlledlists/internal/application/commands"
	"controlledlists/internal/domain"
)

// EditTerm loads a term of the selected list into the term form
func (c *Controller) EditTerm(id string) (commands.TermForm, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	list := c.collection.Find(c.selectedID)
	if list == nil {
		return commands.TermForm{}, false
	}
	t := list.FindTerm(id)
	if t == nil {
		return commands.TermForm{}, false
	}
	c.editingTerm = id
	return commands.FormFromTerm(t), true
}

// CancelTermEdit resets the term form to "add"
func (c *Controller) CancelTermEdit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.editingTerm = ""
}

// EditingTerm returns the id of the term in the form, or ""
func (c *Controller) EditingTerm() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.editingTerm
}

// SaveTerm adds a term to the selected list, or updates the term being edited
func (c *Controller) SaveTerm(ctx context.Context, form commands.TermForm) (*commands.SaveTermResult, error) {
	if err := c.begin(ActionSaveTerm); err != nil {
		return nil, err
	}
	defer c.end(ActionSaveTerm)

	c.mu.Lock()
	list := c.selectedLocked()
	var current *domain.Term
	if list != nil && c.editingTerm != "" {
		current = list.FindTerm(c.editingTerm)
	}
	lang := c.language
	c.mu.Unlock()

	result, err := commands.NewSaveTermCommand(c.store, list, current, lang, form).Execute(ctx)
	if result == nil {
		c.fail(err)
		return nil, err
	}

	c.log.WithFields(logrus.Fields{"op": "save-term", "name": result.Name, "applied": result.Applied}).Debug("term saved")
	if err == nil {
		c.CancelTermEdit()
	}
	c.report(ctx, result.Applied, "", result.Message, err)
	return result, err
}

// DeleteTerm deletes a term of the selected list
func (c *Controller) DeleteTerm(ctx context.Context, id string) error {
	if err := c.begin(ActionDeleteTerm); err != nil {
		return err
	}
	defer c.end(ActionDeleteTerm)

	c.mu.Lock()
	var term *domain.Term
	if list := c.collection.Find(c.selectedID); list != nil {
		if t := list.FindTerm(id); t != nil {
			cp := *t
			term = &cp
		}
	}
	c.mu.Unlock()

	if term == nil {
		err := &application.ValidationError{Field: "termID", Message: "term not found"}
		c.fail(err)
		return err
	}

	result, err := commands.NewDeleteNodeCommand(c.store, term.Path, "term "+term.DisplayLabel()).Execute(ctx)
	if err != nil {
		c.fail(err)
		return err
	}
	c.report(ctx, 1, "", result.Message, nil)
	return nil
}

// DefaultImportLanguage is the current language when the site has it, else
// the site's first language
func (c *Controller) DefaultImportLanguage() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return domain.PickDefaultLanguage(c.languages, c.language)
}

// ImportTerms imports entries into the selected list. The collection is
// refreshed when at least one entry was written; a partial failure is
// reported afterwards.
func (c *Controller) ImportTerms(ctx context.Context, entries []domain.ImportEntry, language string, override bool) (*commands.ImportResult, error) {
	if err := c.begin(ActionImport); err != nil {
		return nil, err
	}
	defer c.end(ActionImport)

	list := c.Selected()
	result, err := commands.NewImportTermsCommand(c.store, list, commands.NormalizeEntries(entries), language, override).Execute(ctx)
	if result == nil {
		c.fail(err)
		return nil, err
	}

	c.log.WithFields(logrus.Fields{
		"op":      "import",
		"created": result.Created,
		"updated": result.Updated,
		"skipped": result.Skipped,
		"failed":  result.Failed,
	}).Info("import finished")
	c.report(ctx, result.Applied(), "", result.Message, err)
	return result, err
}
