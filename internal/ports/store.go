package ports

import (
	"context"

	"controlledlists/internal/domain"
)

// NodeStore is the remote hierarchical store holding the lists of a site.
// Every call is independent: there is no transaction spanning calls.
type NodeStore interface {
	// FindNode returns the node at path, or nil when absent
	FindNode(ctx context.Context, path string) (*domain.NodeRef, error)

	// CreateNode adds a child under parentPath and returns its identity
	CreateNode(ctx context.Context, parentPath, name, nodeType string, props []domain.Property) (string, error)

	// UpdateProperties sets the given properties on the node at path
	UpdateProperties(ctx context.Context, path string, props []domain.Property) error

	// DeleteNode removes the node at path and everything below it
	DeleteNode(ctx context.Context, path string) error

	// RenameNode changes the node name (and therefore its path)
	RenameNode(ctx context.Context, path, name string) error

	// ReorderChildren sets the full order of the children of parentPath
	ReorderChildren(ctx context.Context, parentPath string, names []string) error

	// FetchCollection returns the lists under rootPath with their ordered
	// terms, localized properties read in language
	FetchCollection(ctx context.Context, rootPath, language string) ([]domain.List, error)

	// FetchLanguages returns the languages configured on the site
	FetchLanguages(ctx context.Context, sitePath string) ([]domain.Language, error)
}
