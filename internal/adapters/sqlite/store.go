package sqlite

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"controlledlists/internal/domain"
	"controlledlists/internal/ports"

	_ "modernc.org/sqlite"
)

const schemaVersion = "1"

// ErrNodeNotFound is returned for operations on a path that does not exist
var ErrNodeNotFound = errors.New("node not found")

// Store implements ports.NodeStore over a local SQLite file, for running the
// panel without a CMS
type Store struct {
	db *sql.DB

	mu      sync.Mutex
	entropy io.Reader
}

// Ensure Store implements NodeStore
var _ ports.NodeStore = (*Store)(nil)

// Open opens (and if needed creates) the store at dbPath
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	dsn := dbPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// writers are serialized; concurrent imports queue here instead of failing busy
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`
		PRAGMA synchronous = NORMAL;

		CREATE TABLE IF NOT EXISTS nodes (
			id TEXT PRIMARY KEY,
			parent_id TEXT REFERENCES nodes(id) ON DELETE CASCADE,
			path TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			type TEXT NOT NULL,
			position INTEGER NOT NULL DEFAULT 0
		);
		CREATE TABLE IF NOT EXISTS properties (
			node_id TEXT NOT NULL REFERENCES nodes(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			language TEXT NOT NULL DEFAULT '',
			value TEXT NOT NULL,
			PRIMARY KEY (node_id, name, language)
		);
		CREATE TABLE IF NOT EXISTS site_languages (
			site_path TEXT NOT NULL,
			code TEXT NOT NULL,
			display_name TEXT NOT NULL,
			active_in_edit INTEGER NOT NULL DEFAULT 1,
			position INTEGER NOT NULL,
			PRIMARY KEY (site_path, code)
		);
		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_nodes_parent ON nodes(parent_id, position);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to setup database: %w", err)
	}

	if _, err := db.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES ('schema_version', ?)`, schemaVersion); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to update metadata: %w", err)
	}

	return &Store{db: db, entropy: ulid.Monotonic(rand.Reader, 0)}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) newID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}

// withTx runs fn in a transaction, committing on success
func (s *Store) withTx(ctx context.Context, fn func(*nodeTx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(&nodeTx{tx: tx, ctx: ctx}); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func joinPath(parent, name string) string {
	return strings.TrimSuffix(parent, "/") + "/" + name
}

// FindNode returns the node at path, or nil when absent
func (s *Store) FindNode(ctx context.Context, path string) (*domain.NodeRef, error) {
	var ref domain.NodeRef
	err := s.db.QueryRowContext(ctx, `SELECT id, path FROM nodes WHERE path = ?`, path).Scan(&ref.ID, &ref.Path)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ref, nil
}

// CreateNode adds a child as the last sibling under parentPath
func (s *Store) CreateNode(ctx context.Context, parentPath, name, nodeType string, props []domain.Property) (string, error) {
	id := s.newID()
	err := s.withTx(ctx, func(tx *nodeTx) error {
		parent, err := tx.node(parentPath)
		if err != nil {
			return err
		}
		return tx.insert(id, parent, joinPath(parentPath, name), name, nodeType, props)
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// UpdateProperties upserts the given properties
func (s *Store) UpdateProperties(ctx context.Context, path string, props []domain.Property) error {
	return s.withTx(ctx, func(tx *nodeTx) error {
		n, err := tx.node(path)
		if err != nil {
			return err
		}
		return tx.setProperties(n.id, props)
	})
}

// DeleteNode removes the node; descendants and properties cascade
func (s *Store) DeleteNode(ctx context.Context, path string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM nodes WHERE path = ?`, path)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, path)
	}
	return nil
}

// RenameNode renames the node and rewrites the paths below it
func (s *Store) RenameNode(ctx context.Context, path, name string) error {
	return s.withTx(ctx, func(tx *nodeTx) error {
		n, err := tx.node(path)
		if err != nil {
			return err
		}
		if n.name == name {
			return nil
		}
		parentPath := path[:strings.LastIndex(path, "/")]
		if err := tx.ensureFree(n.parentID, name); err != nil {
			return err
		}
		return tx.movePaths(path, joinPath(parentPath, name), name)
	})
}

// ReorderChildren orders the named children first, in the given order; any
// child not named keeps its relative order after them
func (s *Store) ReorderChildren(ctx context.Context, parentPath string, names []string) error {
	return s.withTx(ctx, func(tx *nodeTx) error {
		parent, err := tx.node(parentPath)
		if err != nil {
			return err
		}
		return tx.reorder(parent.id, names)
	})
}

// FetchCollection reads every list under rootPath with its ordered terms
func (s *Store) FetchCollection(ctx context.Context, rootPath, language string) ([]domain.List, error) {
	var lists []domain.List
	err := s.withTx(ctx, func(tx *nodeTx) error {
		root, err := tx.node(rootPath)
		if err != nil {
			return err
		}
		listNodes, err := tx.children(root.id, domain.NodeTypeList)
		if err != nil {
			return err
		}

		for _, ln := range listNodes {
			props, err := tx.properties(ln.id, language)
			if err != nil {
				return err
			}
			l := domain.List{
				ID:          ln.id,
				Path:        ln.path,
				Name:        ln.name,
				SystemName:  props[domain.PropSystemName],
				Title:       props[domain.PropTitle],
				Description: props[domain.PropDescription],
			}
			if l.Title == "" {
				l.Title = l.Name
			}

			termNodes, err := tx.children(ln.id, domain.NodeTypeTerm)
			if err != nil {
				return err
			}
			for _, tn := range termNodes {
				tp, err := tx.properties(tn.id, language)
				if err != nil {
					return err
				}
				l.Terms = append(l.Terms, domain.Term{
					ID:          tn.id,
					Path:        tn.path,
					Name:        tn.name,
					Value:       tp[domain.PropValue],
					Label:       tp[domain.PropLabel],
					Description: tp[domain.PropDescription],
				})
			}
			lists = append(lists, l)
		}
		return nil
	})
	return lists, err
}

// FetchLanguages returns the languages seeded for the site
func (s *Store) FetchLanguages(ctx context.Context, sitePath string) ([]domain.Language, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT code, display_name, active_in_edit
		FROM site_languages WHERE site_path = ?
		ORDER BY position
	`, sitePath)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var langs []domain.Language
	for rows.Next() {
		var l domain.Language
		if err := rows.Scan(&l.Code, &l.DisplayName, &l.ActiveInEdit); err != nil {
			return nil, err
		}
		langs = append(langs, l)
	}
	return langs, rows.Err()
}
