// Package nodestore builds the configured NodeStore implementation.
package nodestore

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"controlledlists/internal/adapters/graphql"
	"controlledlists/internal/adapters/sqlite"
	"controlledlists/internal/config"
	"controlledlists/internal/domain"
	"controlledlists/internal/logging"
	"controlledlists/internal/ports"
)

// Open returns the store selected by cfg and a func releasing it.
// A local store gets the configured site created, with the configured
// language when the site has none yet.
func Open(ctx context.Context, cfg *config.Config) (ports.NodeStore, func() error, error) {
	switch cfg.Store {
	case config.StoreGraphQL:
		client := graphql.NewClient(graphql.Options{
			Endpoint: cfg.Endpoint,
			Username: cfg.Username,
			Password: cfg.Password,
			Retries:  cfg.Retries,
		})
		logging.Log.WithField("endpoint", cfg.Endpoint).Debug("using graphql store")
		return graphql.NewStore(client), func() error { return nil }, nil

	case config.StoreSQLite:
		s, err := sqlite.Open(cfg.DB)
		if err != nil {
			return nil, nil, err
		}
		if cfg.Site != "" {
			if err := prepareSite(ctx, s, cfg.Site, cfg.Language); err != nil {
				s.Close()
				return nil, nil, err
			}
		}
		logging.Log.WithField("db", cfg.DB).Debug("using sqlite store")
		return s, s.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown store %q", cfg.Store)
}

func prepareSite(ctx context.Context, s *sqlite.Store, site, language string) error {
	langs, err := s.FetchLanguages(ctx, domain.SitePath(site))
	if err != nil {
		return fmt.Errorf("failed to read site languages: %w", err)
	}
	if len(langs) > 0 {
		return s.EnsurePath(ctx, domain.SiteContentsPath(site))
	}
	if language == "" {
		language = config.DefaultLanguage
	}
	logging.Log.WithFields(logrus.Fields{"site": site, "language": language}).Info("seeding local site")
	return s.SeedSite(ctx, site, []domain.Language{{Code: language, ActiveInEdit: true}})
}
