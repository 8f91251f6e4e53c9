package panel

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"controlledlists/internal/application"
	"controlledlists/internal/application/commands"
	"controlledlists/internal/domain"
)

const site = "acme"

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newTestController(t *testing.T, store *fakeStore) *Controller {
	t.Helper()
	c := New(store, Options{SiteKey: site, Language: "en", Logger: quietLogger()})
	require.NoError(t, c.Bootstrap(context.Background()))
	return c
}

func englishFrench() []domain.Language {
	return []domain.Language{
		{Code: "en", DisplayName: "English", ActiveInEdit: true},
		{Code: "fr", DisplayName: "Français", ActiveInEdit: true},
		{Code: "de", DisplayName: "Deutsch", ActiveInEdit: false},
	}
}

func createList(t *testing.T, c *Controller, systemName, title string) *commands.SaveListResult {
	t.Helper()
	c.BeginCreateList()
	res, err := c.SaveList(context.Background(), commands.ListForm{SystemName: systemName, Title: title})
	require.NoError(t, err)
	return res
}

func listNames(c *Controller) []string {
	var out []string
	for _, l := range c.Lists() {
		out = append(out, l.Name)
	}
	return out
}

func TestBootstrap_CreatesRootOnce(t *testing.T) {
	store := newFakeStore(site, englishFrench()...)
	c := newTestController(t, store)

	require.True(t, c.Ready())
	require.Equal(t, 1, store.count("create"))
	require.Equal(t, "en", c.Language())
	require.Len(t, c.Languages(), 2, "languages not active in edit are hidden")

	require.NoError(t, c.EnsureRoot(context.Background()))
	require.NoError(t, c.Bootstrap(context.Background()))
	require.Equal(t, 1, store.count("create"))
}

func TestBootstrap_PreferredLanguageMissing(t *testing.T) {
	store := newFakeStore(site, domain.Language{Code: "fr", ActiveInEdit: true})
	c := New(store, Options{SiteKey: site, Language: "en", Logger: quietLogger()})
	require.NoError(t, c.Bootstrap(context.Background()))
	require.Equal(t, "fr", c.Language())
}

func TestBootstrap_MissingSiteBlocksPanel(t *testing.T) {
	store := newFakeStore(site)
	c := New(store, Options{Logger: quietLogger()})

	err := c.Bootstrap(context.Background())
	require.ErrorIs(t, err, application.ErrMissingSite)
	require.False(t, c.Ready())
	require.True(t, c.Feedback().IsError())

	_, err = c.SaveList(context.Background(), commands.ListForm{SystemName: "x", Title: "x"})
	require.ErrorIs(t, err, application.ErrMissingSite)
	require.Equal(t, 0, store.count("create"))

	// context becomes available
	require.NoError(t, c.SetSite(context.Background(), site))
	require.True(t, c.Ready())
	require.Nil(t, c.BootError())
}

func TestCreateList_UniqueNames(t *testing.T) {
	store := newFakeStore(site, englishFrench()...)
	c := newTestController(t, store)

	first := createList(t, c, "Café Drinks", "Café Drinks")
	require.Equal(t, "cafe-drinks", first.Name)
	require.Equal(t, first.ListID, c.Selected().ID)
	require.False(t, c.CreateMode())

	second := createList(t, c, "Café Drinks", "Café Drinks")
	require.Equal(t, "cafe-drinks-1", second.Name)
	require.Equal(t, second.ListID, c.Selected().ID)

	require.ElementsMatch(t, []string{"cafe-drinks", "cafe-drinks-1"}, listNames(c))
	require.Equal(t, "Created list cafe-drinks-1", c.Feedback().Message)
}

func TestCreateMode_NoAutoSelect(t *testing.T) {
	store := newFakeStore(site, englishFrench()...)
	c := newTestController(t, store)
	createList(t, c, "Colors", "Colors")

	c.BeginCreateList()
	require.Nil(t, c.Selected())
	require.NoError(t, c.Refresh(context.Background(), ""))
	require.Nil(t, c.Selected(), "refresh must not select while creating")

	c.CancelCreateList()
	require.NotNil(t, c.Selected())
}

func TestDeleteSelectedList_FallsBackToFirstSorted(t *testing.T) {
	store := newFakeStore(site, englishFrench()...)
	c := newTestController(t, store)

	createList(t, c, "zebra", "Zèbre")
	createList(t, c, "apple", "apple")
	mango := createList(t, c, "mango", "Mango")
	require.Equal(t, mango.ListID, c.Selected().ID)

	require.NoError(t, c.DeleteList(context.Background(), mango.ListID))
	require.Equal(t, "apple", c.Selected().Name)
	require.Equal(t, []string{"apple", "zebra"}, listNames(c))

	for _, l := range c.Lists() {
		require.NoError(t, c.DeleteList(context.Background(), l.ID))
	}
	require.Nil(t, c.Selected())
	require.Empty(t, c.Lists())
}

func TestDeleteOtherList_KeepsSelection(t *testing.T) {
	store := newFakeStore(site, englishFrench()...)
	c := newTestController(t, store)

	a := createList(t, c, "a", "A")
	b := createList(t, c, "b", "B")
	require.True(t, c.Select(b.ListID))

	require.NoError(t, c.DeleteList(context.Background(), a.ListID))
	require.Equal(t, b.ListID, c.Selected().ID)
}

func TestEditList_RenameAndFailure(t *testing.T) {
	store := newFakeStore(site, englishFrench()...)
	c := newTestController(t, store)
	res := createList(t, c, "cities", "Cities")

	_, err := c.SaveList(context.Background(), commands.ListForm{SystemName: "Big Cities", Title: "Big cities"})
	require.NoError(t, err)
	sel := c.Selected()
	require.Equal(t, res.ListID, sel.ID)
	require.Equal(t, "big-cities", sel.Name)
	require.Equal(t, "Big cities", sel.Title)

	store.fail["update"] = errors.New("permission denied")
	before := c.Lists()
	fetches := store.count("fetch")

	_, err = c.SaveList(context.Background(), commands.ListForm{SystemName: "Towns", Title: "Towns"})
	require.EqualError(t, err, "permission denied")
	require.Equal(t, before, c.Lists(), "failed mutation must leave the snapshot untouched")
	require.Equal(t, fetches, store.count("fetch"))
	require.Equal(t, "permission denied", c.Feedback().Message)
	require.Equal(t, 1, store.count("rename"), "no rename after failed update")
}

func TestSaveList_ValidationIssuesNoCalls(t *testing.T) {
	store := newFakeStore(site, englishFrench()...)
	c := newTestController(t, store)
	creates := store.count("create")

	c.BeginCreateList()
	_, err := c.SaveList(context.Background(), commands.ListForm{SystemName: "  ", Title: "x"})
	require.True(t, application.IsValidation(err))
	require.Equal(t, creates, store.count("create"))
	require.True(t, c.CreateMode())
	require.Equal(t, "systemName: system name is required", c.Feedback().Message)
}

func TestSaveList_NothingSelectedCreatesNothing(t *testing.T) {
	store := newFakeStore(site, englishFrench()...)
	c := newTestController(t, store)
	creates := store.count("create")
	require.Nil(t, c.Selected())
	require.False(t, c.CreateMode())

	_, err := c.SaveList(context.Background(), commands.ListForm{SystemName: "colors", Title: "Colors"})
	require.True(t, application.IsValidation(err))
	require.Equal(t, creates, store.count("create"))
	require.Empty(t, c.Lists())
}

func TestTerms_AddEditDelete(t *testing.T) {
	store := newFakeStore(site, englishFrench()...)
	c := newTestController(t, store)
	createList(t, c, "cities", "Cities")
	ctx := context.Background()

	_, err := c.SaveTerm(ctx, commands.TermForm{Value: "Paris", Label: "Paris"})
	require.NoError(t, err)
	_, err = c.SaveTerm(ctx, commands.TermForm{Value: "paris", Label: "Again"})
	require.True(t, application.IsValidation(err))

	term := c.Selected().Terms[0]
	form, ok := c.EditTerm(term.ID)
	require.True(t, ok)
	require.Equal(t, "Paris", form.Value)

	form.Label = "Paris, France"
	_, err = c.SaveTerm(ctx, form)
	require.NoError(t, err)
	require.Equal(t, "", c.EditingTerm(), "saving resets the form")
	require.Len(t, c.Selected().Terms, 1)
	require.Equal(t, "Paris, France", c.Selected().Terms[0].Label)

	require.NoError(t, c.DeleteTerm(ctx, term.ID))
	require.Empty(t, c.Selected().Terms)
	require.Equal(t, "Deleted term Paris, France", c.Feedback().Message)
}

func TestSetLanguage_RefetchesLocalizedValues(t *testing.T) {
	store := newFakeStore(site, englishFrench()...)
	c := newTestController(t, store)
	createList(t, c, "colors", "Colors")
	ctx := context.Background()

	_, err := c.SaveTerm(ctx, commands.TermForm{Value: "red", Label: "Red"})
	require.NoError(t, err)

	require.NoError(t, c.SetLanguage(ctx, "fr"))
	sel := c.Selected()
	require.Equal(t, "colors", sel.Title, "untranslated title falls back to the name")
	require.Equal(t, "red", sel.Terms[0].DisplayLabel(), "untranslated label falls back to the value")

	_, err = c.SaveList(ctx, commands.ListForm{SystemName: "colors", Title: "Couleurs"})
	require.NoError(t, err)
	require.Equal(t, "Couleurs", c.Selected().Title)

	require.NoError(t, c.SetLanguage(ctx, "en"))
	require.Equal(t, "Colors", c.Selected().Title)
}

func TestSetLanguage_WhileLoadInFlight(t *testing.T) {
	store := newFakeStore(site, englishFrench()...)
	c := newTestController(t, store)
	createList(t, c, "colors", "Colors")
	ctx := context.Background()

	entered, release := store.gateNextFetch()
	done := make(chan error)
	go func() { done <- c.Refresh(ctx, "") }()

	<-entered
	require.ErrorIs(t, c.SetLanguage(ctx, "fr"), application.ErrBusy)
	close(release)
	require.NoError(t, <-done)

	require.Equal(t, "en", c.Language(), "a rejected switch leaves the language alone")
	require.Equal(t, c.Language(), c.collectionLocked().Language)

	require.NoError(t, c.SetLanguage(ctx, "fr"))
	require.Equal(t, "fr", c.Language())
	require.Equal(t, "fr", c.collectionLocked().Language)
}

func TestSetLanguage_FailedFetchKeepsLanguage(t *testing.T) {
	store := newFakeStore(site, englishFrench()...)
	c := newTestController(t, store)
	createList(t, c, "colors", "Colors")
	ctx := context.Background()

	store.setFail("fetch", errors.New("offline"))
	require.Error(t, c.SetLanguage(ctx, "fr"))
	store.setFail("fetch", nil)

	require.Equal(t, "en", c.Language())
	require.NoError(t, c.Refresh(ctx, ""))
	require.Equal(t, "en", c.collectionLocked().Language, "later refreshes stay in the applied language")
	require.Equal(t, "Colors", c.Selected().Title)
}

func TestRefresh_OlderResultKeptWhenNewerFails(t *testing.T) {
	store := newFakeStore(site, englishFrench()...)
	c := newTestController(t, store)
	ctx := context.Background()

	entered, release := store.gateNextFetch()
	done := make(chan error)
	go func() {
		c.BeginCreateList()
		_, err := c.SaveList(ctx, commands.ListForm{SystemName: "colors", Title: "Colors"})
		done <- err
	}()

	<-entered
	store.setFail("fetch", errors.New("offline"))
	require.Error(t, c.Refresh(ctx, ""))
	store.setFail("fetch", nil)
	close(release)
	require.NoError(t, <-done)

	require.Equal(t, []string{"colors"}, listNames(c), "the mutation's refresh still lands")
}

func seedTerms(t *testing.T, c *Controller, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		_, err := c.SaveTerm(context.Background(), commands.TermForm{Value: fmt.Sprintf("term%d", i), Label: fmt.Sprintf("Term %d", i)})
		require.NoError(t, err)
	}
}

func termNames(terms []domain.Term) []string {
	out := make([]string, len(terms))
	for i, t := range terms {
		out[i] = t.Name
	}
	return out
}

func TestDrag_DropOnLastRow(t *testing.T) {
	store := newFakeStore(site, englishFrench()...)
	c := newTestController(t, store)
	createList(t, c, "l", "L")
	seedTerms(t, c, 4)

	require.True(t, c.BeginDrag(0))
	c.DragOverRow(3)
	preview := termNames(c.PreviewTerms())

	res, err := c.Drop(context.Background())
	require.NoError(t, err)

	want := []string{"term1", "term2", "term3", "term0"}
	require.Equal(t, want, res.Order)
	require.Equal(t, want, preview, "preview matches the committed order")
	require.Equal(t, [][]string{want}, store.reorder, "a single reorder call")
	require.Equal(t, want, termNames(c.Selected().Terms))
	require.Nil(t, c.Drag())
}

func TestDrag_NoOpIssuesNothing(t *testing.T) {
	store := newFakeStore(site, englishFrench()...)
	c := newTestController(t, store)
	createList(t, c, "l", "L")
	seedTerms(t, c, 3)

	require.True(t, c.BeginDrag(1))
	c.DragOverRow(1)
	res, err := c.Drop(context.Background())
	require.NoError(t, err)
	require.Nil(t, res.Order)
	require.Empty(t, store.reorder)

	require.True(t, c.BeginDrag(1))
	_, err = c.Drop(context.Background())
	require.NoError(t, err)
	require.Empty(t, store.reorder, "no target means no reorder")
}

func TestDrag_ResetOnSelectionChange(t *testing.T) {
	store := newFakeStore(site, englishFrench()...)
	c := newTestController(t, store)
	a := createList(t, c, "a", "A")
	seedTerms(t, c, 2)
	b := createList(t, c, "b", "B")

	require.True(t, c.Select(a.ListID))
	require.True(t, c.BeginDrag(0))
	c.DragOver(2)
	require.NotNil(t, c.Drag())

	require.True(t, c.Select(b.ListID))
	require.Nil(t, c.Drag())

	require.True(t, c.Select(a.ListID))
	require.True(t, c.BeginDrag(0))
	c.BeginCreateList()
	require.Nil(t, c.Drag())
}

func TestImport_PartialFailureStillRefreshes(t *testing.T) {
	store := newFakeStore(site, englishFrench()...)
	c := newTestController(t, store)
	createList(t, c, "cities", "Cities")
	listPath := c.Selected().Path
	store.fail["create "+listPath+"/berlin"] = errors.New("quota exceeded")

	res, err := c.ImportTerms(context.Background(), []domain.ImportEntry{
		{Value: "Oslo", Label: "Oslo"},
		{Value: "Berlin", Label: "Berlin"},
		{Value: "Rome"},
	}, "en", false)

	require.ErrorIs(t, err, application.ErrPartialFailure)
	require.Equal(t, 2, res.Created)
	sel := c.Selected()
	require.ElementsMatch(t, []string{"oslo", "rome"}, termNames(sel.Terms))
	for _, term := range sel.Terms {
		if term.Name == "rome" {
			require.Equal(t, "Rome", term.Label, "label defaults to the value")
		}
	}

	fb := c.Feedback()
	require.True(t, fb.IsError(), "failure is reported after the success")
	require.Contains(t, fb.Message, "quota exceeded")
}

func TestImport_AllFailedLeavesSnapshot(t *testing.T) {
	store := newFakeStore(site, englishFrench()...)
	c := newTestController(t, store)
	createList(t, c, "cities", "Cities")
	store.fail["create"] = errors.New("offline")
	fetches := store.count("fetch")

	res, err := c.ImportTerms(context.Background(), []domain.ImportEntry{{Value: "Oslo", Label: "Oslo"}}, "en", false)
	require.Error(t, err)
	require.Equal(t, 0, res.Applied())
	require.Equal(t, fetches, store.count("fetch"))
	require.Empty(t, c.Selected().Terms)
}

func TestImport_OverrideExisting(t *testing.T) {
	store := newFakeStore(site, englishFrench()...)
	c := newTestController(t, store)
	createList(t, c, "cities", "Cities")
	ctx := context.Background()
	_, err := c.SaveTerm(ctx, commands.TermForm{Value: "paris", Label: "Paris"})
	require.NoError(t, err)

	_, err = c.ImportTerms(ctx, []domain.ImportEntry{{Value: "Paris", Label: "Paname"}}, "en", false)
	require.ErrorIs(t, err, application.ErrNoValidRows)
	require.Equal(t, "Paris", c.Selected().Terms[0].Label)

	res, err := c.ImportTerms(ctx, []domain.ImportEntry{{Value: "Paris", Label: "Paname"}}, "fr", true)
	require.NoError(t, err)
	require.Equal(t, 1, res.Updated)
	require.Equal(t, "Paris", c.Selected().Terms[0].Label, "english label untouched")

	require.NoError(t, c.SetLanguage(ctx, "fr"))
	require.Equal(t, "Paname", c.Selected().Terms[0].Label)
}

func TestDefaultImportLanguage(t *testing.T) {
	store := newFakeStore(site, englishFrench()...)
	c := newTestController(t, store)
	require.Equal(t, "en", c.DefaultImportLanguage())

	require.NoError(t, c.SetLanguage(context.Background(), "de"))
	require.Equal(t, "en", c.DefaultImportLanguage(), "falls back to the first site language")
}

func TestFeedback_SuccessExpires(t *testing.T) {
	store := newFakeStore(site, englishFrench()...)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c := New(store, Options{SiteKey: site, Logger: quietLogger(), Now: func() time.Time { return now }})
	require.NoError(t, c.Bootstrap(context.Background()))

	createList(t, c, "a", "A")
	require.NotNil(t, c.Feedback())

	now = now.Add(FeedbackTTL)
	require.Nil(t, c.Feedback())

	store.fail["delete"] = errors.New("nope")
	require.Error(t, c.DeleteList(context.Background(), c.Selected().ID))
	now = now.Add(time.Hour)
	require.NotNil(t, c.Feedback(), "errors do not expire")
	c.DismissFeedback()
	require.Nil(t, c.Feedback())
}

func TestInFlightFlagRejectsReentry(t *testing.T) {
	store := newFakeStore(site, englishFrench()...)
	c := newTestController(t, store)
	store.entered = make(chan struct{})
	store.release = make(chan struct{})

	done := make(chan error)
	go func() {
		c.BeginCreateList()
		_, err := c.SaveList(context.Background(), commands.ListForm{SystemName: "a", Title: "A"})
		done <- err
	}()

	<-store.entered
	require.True(t, c.Busy(ActionSaveList))
	_, err := c.SaveList(context.Background(), commands.ListForm{SystemName: "b", Title: "B"})
	require.ErrorIs(t, err, application.ErrBusy)

	close(store.release)
	require.NoError(t, <-done)
	require.False(t, c.Busy(ActionSaveList))
	require.Len(t, c.Lists(), 1)
}

func TestClose_DiscardsInFlightResults(t *testing.T) {
	store := newFakeStore(site, englishFrench()...)
	c := newTestController(t, store)
	store.entered = make(chan struct{})
	store.release = make(chan struct{})

	done := make(chan struct{})
	go func() {
		c.BeginCreateList()
		_, _ = c.SaveList(context.Background(), commands.ListForm{SystemName: "a", Title: "A"})
		close(done)
	}()

	<-store.entered
	c.Close()
	close(store.release)
	<-done

	require.Empty(t, c.Lists(), "refresh after close is not applied")
	require.Nil(t, c.Feedback())

	_, err := c.SaveList(context.Background(), commands.ListForm{SystemName: "b", Title: "B"})
	require.ErrorIs(t, err, ErrClosed)
}
