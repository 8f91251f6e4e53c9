package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"unicode/utf8"

	"controlledlists/internal/domain"
)

// nodeTx groups the statements shared by the store operations
type nodeTx struct {
	tx  *sql.Tx
	ctx context.Context
}

type nodeRow struct {
	id       string
	parentID sql.NullString
	path     string
	name     string
	typ      string
}

// node loads the node at path
func (t *nodeTx) node(path string) (*nodeRow, error) {
	var n nodeRow
	err := t.tx.QueryRowContext(t.ctx, `
		SELECT id, parent_id, path, name, type FROM nodes WHERE path = ?
	`, path).Scan(&n.id, &n.parentID, &n.path, &n.name, &n.typ)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, path)
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// children returns the children of a node of the given type, in order
func (t *nodeTx) children(parentID, nodeType string) ([]nodeRow, error) {
	rows, err := t.tx.QueryContext(t.ctx, `
		SELECT id, parent_id, path, name, type FROM nodes
		WHERE parent_id = ? AND type = ?
		ORDER BY position, name
	`, parentID, nodeType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []nodeRow
	for rows.Next() {
		var n nodeRow
		if err := rows.Scan(&n.id, &n.parentID, &n.path, &n.name, &n.typ); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// ensureFree fails when a sibling already uses name
func (t *nodeTx) ensureFree(parentID sql.NullString, name string) error {
	var count int
	err := t.tx.QueryRowContext(t.ctx, `
		SELECT COUNT(*) FROM nodes WHERE parent_id IS ? AND name = ?
	`, parentID, name).Scan(&count)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("a node named %q already exists", name)
	}
	return nil
}

// insert adds a node as the last child of parent
func (t *nodeTx) insert(id string, parent *nodeRow, path, name, nodeType string, props []domain.Property) error {
	var parentID sql.NullString
	if parent != nil {
		parentID = sql.NullString{String: parent.id, Valid: true}
	}
	if err := t.ensureFree(parentID, name); err != nil {
		return err
	}

	_, err := t.tx.ExecContext(t.ctx, `
		INSERT INTO nodes (id, parent_id, path, name, type, position)
		VALUES (?, ?, ?, ?, ?, (SELECT COALESCE(MAX(position), -1) + 1 FROM nodes WHERE parent_id IS ?))
	`, id, parentID, path, name, nodeType, parentID)
	if err != nil {
		return err
	}
	return t.setProperties(id, props)
}

// setProperties upserts properties; an empty language means not localized
func (t *nodeTx) setProperties(nodeID string, props []domain.Property) error {
	for _, p := range props {
		_, err := t.tx.ExecContext(t.ctx, `
			INSERT OR REPLACE INTO properties (node_id, name, language, value)
			VALUES (?, ?, ?, ?)
		`, nodeID, p.Name, p.Language, p.Value)
		if err != nil {
			return err
		}
	}
	return nil
}

// properties returns the values of a node read in language. A value in the
// language wins over a non-localized one.
func (t *nodeTx) properties(nodeID, language string) (map[string]string, error) {
	rows, err := t.tx.QueryContext(t.ctx, `
		SELECT name, language, value FROM properties
		WHERE node_id = ? AND (language = '' OR language = ?)
		ORDER BY language
	`, nodeID, language)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	props := make(map[string]string)
	for rows.Next() {
		var name, lang, value string
		if err := rows.Scan(&name, &lang, &value); err != nil {
			return nil, err
		}
		props[name] = value
	}
	return props, rows.Err()
}

// movePaths renames the node at oldPath and rewrites its descendants' paths
func (t *nodeTx) movePaths(oldPath, newPath, newName string) error {
	if _, err := t.tx.ExecContext(t.ctx, `UPDATE nodes SET name = ? WHERE path = ?`, newName, oldPath); err != nil {
		return err
	}
	// substr counts characters, not bytes
	prefix := oldPath + "/"
	_, err := t.tx.ExecContext(t.ctx, `
		UPDATE nodes SET path = ? || substr(path, ?)
		WHERE path = ? OR substr(path, 1, ?) = ?
	`, newPath, utf8.RuneCountInString(oldPath)+1, oldPath, utf8.RuneCountInString(prefix), prefix)
	return err
}

// reorder moves the named children to the front in the given order
func (t *nodeTx) reorder(parentID string, names []string) error {
	_, err := t.tx.ExecContext(t.ctx, `
		UPDATE nodes SET position = position + ? WHERE parent_id = ?
	`, len(names), parentID)
	if err != nil {
		return err
	}
	for i, name := range names {
		_, err := t.tx.ExecContext(t.ctx, `
			UPDATE nodes SET position = ? WHERE parent_id = ? AND name = ?
		`, i, parentID, name)
		if err != nil {
			return err
		}
	}
	return nil
}
