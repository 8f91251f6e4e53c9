package sqlite

import (
	"context"
	"errors"
	"strings"

	"controlledlists/internal/domain"
)

// Node types of the folders above the lists root
const (
	NodeTypeFolder = "jnt:contentFolder"
	NodeTypeSite   = "jnt:virtualsite"
)

// EnsurePath creates every missing node along path as a folder
func (s *Store) EnsurePath(ctx context.Context, path string) error {
	return s.withTx(ctx, func(tx *nodeTx) error {
		var parent *nodeRow
		current := ""
		for _, part := range strings.Split(strings.Trim(path, "/"), "/") {
			current += "/" + part
			n, err := tx.node(current)
			if err == nil {
				parent = n
				continue
			}
			if !errors.Is(err, ErrNodeNotFound) {
				return err
			}
			typ := NodeTypeFolder
			if parent != nil && parent.path == "/sites" {
				typ = NodeTypeSite
			}
			if err := tx.insert(s.newID(), parent, current, part, typ, nil); err != nil {
				return err
			}
			if parent, err = tx.node(current); err != nil {
				return err
			}
		}
		return nil
	})
}

// SeedSite creates the site contents folder and replaces its languages, so
// the panel can bootstrap against this store
func (s *Store) SeedSite(ctx context.Context, siteKey string, langs []domain.Language) error {
	if err := s.EnsurePath(ctx, domain.SiteContentsPath(siteKey)); err != nil {
		return err
	}
	if len(langs) == 0 {
		return nil
	}

	sitePath := domain.SitePath(siteKey)
	return s.withTx(ctx, func(tx *nodeTx) error {
		if _, err := tx.tx.ExecContext(ctx, `DELETE FROM site_languages WHERE site_path = ?`, sitePath); err != nil {
			return err
		}
		for i, l := range langs {
			name := l.DisplayName
			if name == "" {
				name = l.Code
			}
			_, err := tx.tx.ExecContext(ctx, `
				INSERT INTO site_languages (site_path, code, display_name, active_in_edit, position)
				VALUES (?, ?, ?, ?, ?)
			`, sitePath, l.Code, name, l.ActiveInEdit, i)
			if err != nil {
				return err
			}
		}
		return nil
	})
}
