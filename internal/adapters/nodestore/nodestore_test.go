package nodestore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"controlledlists/internal/adapters/graphql"
	"controlledlists/internal/config"
	"controlledlists/internal/domain"
)

func TestOpen_SQLiteSeedsSite(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{Store: config.StoreSQLite, DB: filepath.Join(t.TempDir(), "lists.db"), Site: "acme", Language: "fr"}

	store, closeFn, err := Open(ctx, cfg)
	require.NoError(t, err)

	langs, err := store.FetchLanguages(ctx, domain.SitePath("acme"))
	require.NoError(t, err)
	require.Len(t, langs, 1)
	require.Equal(t, "fr", langs[0].Code)

	node, err := store.FindNode(ctx, domain.SiteContentsPath("acme"))
	require.NoError(t, err)
	require.NotNil(t, node)
	require.NoError(t, closeFn())

	// reopening keeps the languages already there
	cfg.Language = "en"
	store, closeFn, err = Open(ctx, cfg)
	require.NoError(t, err)
	defer closeFn()
	langs, err = store.FetchLanguages(ctx, domain.SitePath("acme"))
	require.NoError(t, err)
	require.Equal(t, "fr", langs[0].Code)
}

func TestOpen_GraphQL(t *testing.T) {
	store, closeFn, err := Open(context.Background(), &config.Config{Store: config.StoreGraphQL, Endpoint: "http://localhost:8080/graphql"})
	require.NoError(t, err)
	require.IsType(t, &graphql.Store{}, store)
	require.NoError(t, closeFn())
}

func TestOpen_UnknownStore(t *testing.T) {
	_, _, err := Open(context.Background(), &config.Config{Store: "ldap"})
	require.Error(t, err)
}
