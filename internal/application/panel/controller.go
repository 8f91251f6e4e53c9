// Package panel holds the Controller, the only component that talks to the
// node store. It owns the collection snapshot and the transient panel state.
package panel

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"controlledlists/internal/application"
	"controlledlists/internal/domain"
	"controlledlists/internal/ports"
)

// ErrClosed is returned by operations started after Close
var ErrClosed = errors.New("panel closed")

// Action names a user action guarded by its own in-flight flag
type Action string

const (
	ActionLoad       Action = "load"
	ActionSaveList   Action = "save-list"
	ActionDeleteList Action = "delete-list"
	ActionSaveTerm   Action = "save-term"
	ActionDeleteTerm Action = "delete-term"
	ActionImport     Action = "import"
	ActionReorder    Action = "reorder"
)

// Options configures a Controller
type Options struct {
	SiteKey  string
	Language string // preferred display language
	Logger   *logrus.Logger
	Now      func() time.Time
}

// Controller orchestrates remote calls and rebuilds the collection snapshot
// from a fresh fetch after every mutation. Remote calls run without holding
// the lock; per-action in-flight flags reject re-entrant use of an action.
type Controller struct {
	store ports.NodeStore
	log   *logrus.Entry
	now   func() time.Time

	mu          sync.Mutex
	siteKey     string
	preferred   string
	language    string // language of the applied snapshot
	fetchLang   string // language the next refresh fetches
	languages   []domain.Language
	collection  *domain.Collection
	selectedID  string
	createMode  bool
	drag        *domain.DragState
	editingTerm string
	busy        map[Action]bool
	feedback    *Feedback
	bootErr     error
	closed      bool
	generation  uint64
	applied     uint64 // generation of the applied snapshot
}

// New creates a Controller. Nothing is fetched until Bootstrap.
func New(store ports.NodeStore, opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.New()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Controller{
		store:     store,
		log:       logger.WithField("component", "panel"),
		now:       now,
		siteKey:   opts.SiteKey,
		preferred: opts.Language,
		busy:      make(map[Action]bool),
	}
}

// Close marks the controller as gone. Results of calls still in flight are
// discarded instead of applied.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

func (c *Controller) begin(a Action) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if c.siteKey == "" {
		return application.ErrMissingSite
	}
	if a != ActionLoad && c.bootErr != nil {
		return c.bootErr
	}
	if c.busy[a] {
		return application.ErrBusy
	}
	c.busy[a] = true
	return nil
}

func (c *Controller) end(a Action) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.busy, a)
}

// Busy reports whether the action is in flight
func (c *Controller) Busy(a Action) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy[a]
}

// SetSite switches the site context and bootstraps it
func (c *Controller) SetSite(ctx context.Context, siteKey string) error {
	c.mu.Lock()
	c.siteKey = siteKey
	c.collection = nil
	// refreshes still in flight belong to the old site
	c.generation++
	c.applied = c.generation
	c.selectedID = ""
	c.bootErr = nil
	c.resetTransient()
	c.mu.Unlock()
	return c.Bootstrap(ctx)
}

// Bootstrap loads the site languages, makes sure the lists root exists and
// fetches the collection. Without a site it fails and blocks every other
// operation.
func (c *Controller) Bootstrap(ctx context.Context) error {
	if err := c.begin(ActionLoad); err != nil {
		if errors.Is(err, application.ErrMissingSite) {
			c.mu.Lock()
			c.bootErr = err
			c.mu.Unlock()
			c.fail(err)
		}
		return err
	}
	defer c.end(ActionLoad)

	err := c.bootstrap(ctx)
	c.mu.Lock()
	c.bootErr = err
	c.mu.Unlock()
	if err != nil {
		c.fail(err)
	}
	return err
}

func (c *Controller) bootstrap(ctx context.Context) error {
	site := c.Site()

	langs, err := c.store.FetchLanguages(ctx, domain.SitePath(site))
	if err != nil {
		return application.Remote("fetch languages", domain.SitePath(site), err)
	}

	c.mu.Lock()
	c.languages = domain.EditableLanguages(langs)
	if len(c.languages) == 0 {
		c.languages = langs
	}
	c.language = domain.PickDefaultLanguage(c.languages, c.preferred)
	c.fetchLang = c.language
	c.mu.Unlock()

	if err := c.EnsureRoot(ctx); err != nil {
		return err
	}
	return c.refresh(ctx, "")
}

// EnsureRoot creates the lists root of the site unless it already exists
func (c *Controller) EnsureRoot(ctx context.Context) error {
	site := c.Site()
	if site == "" {
		return application.ErrMissingSite
	}
	rootPath := domain.RootPath(site)

	node, err := c.store.FindNode(ctx, rootPath)
	if err != nil {
		return application.Remote("find root", rootPath, err)
	}
	if node != nil {
		return nil
	}

	c.log.WithFields(logrus.Fields{"op": "create", "path": rootPath}).Debug("creating lists root")
	_, err = c.store.CreateNode(ctx, domain.SiteContentsPath(site), domain.RootName, domain.NodeTypeListsFolder, nil)
	return application.Remote("create root", rootPath, err)
}

// Refresh refetches the collection. A non-empty hint selects that list.
func (c *Controller) Refresh(ctx context.Context, hint string) error {
	if err := c.begin(ActionLoad); err != nil {
		return err
	}
	defer c.end(ActionLoad)

	if err := c.refresh(ctx, hint); err != nil {
		c.fail(err)
		return err
	}
	return nil
}

func (c *Controller) refresh(ctx context.Context, hint string) error {
	c.mu.Lock()
	lang := c.fetchLang
	c.mu.Unlock()
	return c.refreshIn(ctx, hint, lang)
}

// refreshIn fetches the collection in lang. The active language follows the
// snapshot, so it only changes when a snapshot in lang is applied. A result
// is dropped when a newer refresh has already landed.
func (c *Controller) refreshIn(ctx context.Context, hint, lang string) error {
	c.mu.Lock()
	c.generation++
	gen := c.generation
	rootPath := domain.RootPath(c.siteKey)
	c.mu.Unlock()

	c.log.WithFields(logrus.Fields{"op": "fetch", "path": rootPath, "language": lang}).Debug("refreshing collection")
	lists, err := c.store.FetchCollection(ctx, rootPath, lang)
	if err != nil {
		return application.Remote("fetch collection", rootPath, err)
	}
	domain.SortLists(lists, lang)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || gen < c.applied {
		c.log.Debug("discarding stale refresh")
		return nil
	}

	c.applied = gen
	c.language = lang
	c.collection = &domain.Collection{RootPath: rootPath, Language: lang, Lists: lists}
	c.reconcileSelection(hint)
	return nil
}

// reconcileSelection picks the hinted list, keeps the current one if it
// survived, or falls back to the first list (not in create mode).
func (c *Controller) reconcileSelection(hint string) {
	previous := c.selectedID
	switch {
	case hint != "" && c.collection.Find(hint) != nil:
		c.selectedID = hint
		c.createMode = false
	case c.createMode:
		c.selectedID = ""
	case c.collection.Find(c.selectedID) != nil:
	case len(c.collection.Lists) > 0:
		c.selectedID = c.collection.Lists[0].ID
	default:
		c.selectedID = ""
	}

	if previous != c.selectedID {
		c.resetTransient()
		return
	}
	if list := c.collection.Find(c.selectedID); list == nil || list.FindTerm(c.editingTerm) == nil {
		c.editingTerm = ""
	}
	// the term order may have changed under the drag
	c.drag = nil
}

// resetTransient drops state scoped to the selected list
func (c *Controller) resetTransient() {
	c.drag = nil
	c.editingTerm = ""
}

// SetLanguage refetches everything in code. The language only switches once
// that snapshot is applied; while another load is in flight it fails with
// ErrBusy and nothing changes.
func (c *Controller) SetLanguage(ctx context.Context, code string) error {
	if err := c.begin(ActionLoad); err != nil {
		return err
	}
	defer c.end(ActionLoad)

	c.mu.Lock()
	previous := c.fetchLang
	c.fetchLang = code
	c.mu.Unlock()

	if err := c.refreshIn(ctx, "", code); err != nil {
		c.mu.Lock()
		if c.fetchLang == code {
			c.fetchLang = previous
		}
		c.mu.Unlock()
		c.fail(err)
		return err
	}

	c.mu.Lock()
	c.preferred = code
	c.mu.Unlock()
	return nil
}

// Select makes the list with id the selected one and leaves create mode
func (c *Controller) Select(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.collection.Find(id) == nil {
		return false
	}
	if c.selectedID != id || c.createMode {
		c.resetTransient()
	}
	c.selectedID = id
	c.createMode = false
	return true
}

// BeginCreateList clears the selection and enters create mode
func (c *Controller) BeginCreateList() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.createMode = true
	c.selectedID = ""
	c.resetTransient()
}

// CancelCreateList leaves create mode, selecting the first list
func (c *Controller) CancelCreateList() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.createMode {
		return
	}
	c.createMode = false
	c.resetTransient()
	if c.collection != nil && len(c.collection.Lists) > 0 {
		c.selectedID = c.collection.Lists[0].ID
	}
}

// Site returns the active site key
func (c *Controller) Site() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.siteKey
}

// Language returns the active display language
func (c *Controller) Language() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.language
}

// Languages returns the languages offered for editing
func (c *Controller) Languages() []domain.Language {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.Language(nil), c.languages...)
}

// Lists returns the current snapshot's lists, sorted by title
func (c *Controller) Lists() []domain.List {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.collection == nil {
		return nil
	}
	return append([]domain.List(nil), c.collection.Lists...)
}

// Selected returns a copy of the selected list, or nil
func (c *Controller) Selected() *domain.List {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selectedLocked()
}

func (c *Controller) selectedLocked() *domain.List {
	l := c.collection.Find(c.selectedID)
	if l == nil {
		return nil
	}
	cp := *l
	cp.Terms = append([]domain.Term(nil), l.Terms...)
	return &cp
}

// CreateMode reports whether a new list is being created
func (c *Controller) CreateMode() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.createMode
}

// Ready reports whether bootstrap succeeded
func (c *Controller) Ready() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.collection != nil && c.bootErr == nil
}

// BootError returns the error that blocks the panel, if any
func (c *Controller) BootError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bootErr
}

func (c *Controller) collectionLocked() *domain.Collection {
	if c.collection == nil {
		return &domain.Collection{RootPath: domain.RootPath(c.siteKey), Language: c.language}
	}
	return c.collection
}

// report refreshes when at least one remote call succeeded, then shows the
// success message, then err (a failed part of the operation, or the refresh).
func (c *Controller) report(ctx context.Context, applied int, hint, msg string, err error) {
	var refreshErr error
	if applied > 0 {
		refreshErr = c.refresh(ctx, hint)
		if msg != "" {
			c.succeed(msg)
		}
	}
	if err != nil {
		c.fail(err)
	}
	if refreshErr != nil {
		c.fail(refreshErr)
	}
}
