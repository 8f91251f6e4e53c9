package commands

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"controlledlists/internal/application"
	"controlledlists/internal/domain"
	"controlledlists/internal/ports"
)

// NormalizeEntries trims raw rows and defaults a blank label to the value
func NormalizeEntries(raw []domain.ImportEntry) []domain.ImportEntry {
	out := make([]domain.ImportEntry, 0, len(raw))
	for _, e := range raw {
		value := strings.TrimSpace(e.Value)
		label := strings.TrimSpace(e.Label)
		if label == "" {
			label = value
		}
		out = append(out, domain.ImportEntry{
			Value:       value,
			Label:       label,
			Description: strings.TrimSpace(e.Description),
		})
	}
	return out
}

// StagedCreate is a term to be created by an import
type StagedCreate struct {
	Name  string
	Entry domain.ImportEntry
}

// StagedUpdate is an existing term to be overwritten by an import
type StagedUpdate struct {
	Path  string
	Name  string
	Entry domain.ImportEntry
}

// ImportPlan is the outcome of reconciling import entries against a list
type ImportPlan struct {
	Creates []StagedCreate
	Updates []StagedUpdate
	Skipped int
}

// Len returns the number of staged remote operations
func (p *ImportPlan) Len() int {
	return len(p.Creates) + len(p.Updates)
}

// PlanImport decides, in input order, which entries become creates, updates or
// skips. Entries matching an existing term are updated only with override; an
// entry whose identifier was already staged in this batch is skipped.
func PlanImport(existing []domain.Term, entries []domain.ImportEntry, override bool) *ImportPlan {
	byName := make(map[string]domain.Term, len(existing))
	for _, t := range existing {
		byName[strings.ToLower(t.Name)] = t
	}

	plan := &ImportPlan{}
	staged := make(map[string]bool)

	for _, raw := range entries {
		entry := domain.ImportEntry{
			Value:       strings.TrimSpace(raw.Value),
			Label:       strings.TrimSpace(raw.Label),
			Description: strings.TrimSpace(raw.Description),
		}
		if entry.Label == "" {
			plan.Skipped++
			continue
		}
		name := domain.Normalize(entry.Value)
		if name == "" {
			plan.Skipped++
			continue
		}

		key := strings.ToLower(name)
		if staged[key] {
			plan.Skipped++
			continue
		}

		if term, ok := byName[key]; ok {
			if !override {
				plan.Skipped++
				continue
			}
			staged[key] = true
			plan.Updates = append(plan.Updates, StagedUpdate{Path: term.Path, Name: term.Name, Entry: entry})
			continue
		}

		staged[key] = true
		plan.Creates = append(plan.Creates, StagedCreate{Name: name, Entry: entry})
	}

	return plan
}

// ImportResult contains the result of an import
type ImportResult struct {
	Created int
	Updated int
	Skipped int
	Failed  int
	Message string
}

// Applied returns the number of remote operations that succeeded
func (r *ImportResult) Applied() int {
	return r.Created + r.Updated
}

// ImportTermsCommand imports entries into a list in one language
type ImportTermsCommand struct {
	store    ports.NodeStore
	List     *domain.List
	Entries  []domain.ImportEntry
	Language string
	Override bool
}

// NewImportTermsCommand creates a new ImportTermsCommand
func NewImportTermsCommand(store ports.NodeStore, list *domain.List, entries []domain.ImportEntry, language string, override bool) *ImportTermsCommand {
	return &ImportTermsCommand{
		store:    store,
		List:     list,
		Entries:  entries,
		Language: language,
		Override: override,
	}
}

// Validate checks the target list and language
func (c *ImportTermsCommand) Validate() error {
	if c.List == nil {
		return &application.ValidationError{Field: "listID", Message: "no list selected"}
	}
	if strings.TrimSpace(c.Language) == "" {
		return &application.ValidationError{Field: "language", Message: "select a language to import into"}
	}
	return nil
}

// Execute dispatches every staged operation concurrently and waits for all of
// them. Failures do not stop the others and nothing is rolled back; a
// *BatchError lists what failed alongside a result counting what succeeded.
func (c *ImportTermsCommand) Execute(ctx context.Context) (*ImportResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	plan := PlanImport(c.List.Terms, c.Entries, c.Override)
	if plan.Len() == 0 {
		return nil, application.ErrNoValidRows
	}

	errs := make([]error, plan.Len())
	var g errgroup.Group

	for i, op := range plan.Creates {
		g.Go(func() error {
			_, err := c.store.CreateNode(ctx, c.List.Path, op.Name, domain.NodeTypeTerm, TermProperties(op.Entry, c.Language))
			errs[i] = application.Remote("create term", c.List.Path+"/"+op.Name, err)
			return nil
		})
	}
	offset := len(plan.Creates)
	for i, op := range plan.Updates {
		g.Go(func() error {
			err := c.store.UpdateProperties(ctx, op.Path, TermProperties(op.Entry, c.Language))
			errs[offset+i] = application.Remote("update term", op.Path, err)
			return nil
		})
	}
	_ = g.Wait()

	result := &ImportResult{Skipped: plan.Skipped}
	var failed []error
	for i, err := range errs {
		switch {
		case err != nil:
			failed = append(failed, err)
		case i < offset:
			result.Created++
		default:
			result.Updated++
		}
	}
	result.Failed = len(failed)
	result.Message = fmt.Sprintf("Imported %d terms (%d created, %d updated, %d skipped)",
		result.Applied(), result.Created, result.Updated, result.Skipped)

	if len(failed) > 0 {
		return result, &application.BatchError{Succeeded: result.Applied(), Failed: failed}
	}
	return result, nil
}
