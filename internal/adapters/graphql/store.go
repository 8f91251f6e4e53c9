package graphql

import (
	"context"
	"errors"

	"github.com/tidwall/gjson"

	"controlledlists/internal/domain"
	"controlledlists/internal/ports"
)

// Compile-time interface check
var _ ports.NodeStore = (*Store)(nil)

// Store is a NodeStore backed by the CMS GraphQL API
type Store struct {
	client *Client
}

// NewStore creates a new Store
func NewStore(client *Client) *Store {
	return &Store{client: client}
}

type inputProperty struct {
	Name     string `json:"name"`
	Value    string `json:"value"`
	Language string `json:"language,omitempty"`
}

func inputProperties(props []domain.Property) []inputProperty {
	out := make([]inputProperty, len(props))
	for i, p := range props {
		out[i] = inputProperty{Name: p.Name, Value: p.Value, Language: p.Language}
	}
	return out
}

// FindNode returns the node at path, or nil when absent
func (s *Store) FindNode(ctx context.Context, path string) (*domain.NodeRef, error) {
	data, err := s.client.Do(ctx, findNodeQuery, map[string]any{"path": path})
	if err != nil {
		var gqlErr *Error
		if errors.As(err, &gqlErr) && gqlErr.NotFound() {
			return nil, nil
		}
		return nil, err
	}

	node := data.Get("jcr.nodeByPath")
	if !node.Exists() || node.Type == gjson.Null {
		return nil, nil
	}
	return &domain.NodeRef{ID: node.Get("uuid").String(), Path: node.Get("path").String()}, nil
}

// CreateNode adds a node and returns its uuid
func (s *Store) CreateNode(ctx context.Context, parentPath, name, nodeType string, props []domain.Property) (string, error) {
	data, err := s.client.Do(ctx, addNodeMutation, map[string]any{
		"parentPath": parentPath,
		"name":       name,
		"type":       nodeType,
		"properties": inputProperties(props),
	})
	if err != nil {
		return "", err
	}
	return data.Get("jcr.addNode.uuid").String(), nil
}

// UpdateProperties sets properties in one batch
func (s *Store) UpdateProperties(ctx context.Context, path string, props []domain.Property) error {
	_, err := s.client.Do(ctx, setPropertiesMutation, map[string]any{
		"path":       path,
		"properties": inputProperties(props),
	})
	return err
}

// DeleteNode removes the node and its subtree
func (s *Store) DeleteNode(ctx context.Context, path string) error {
	_, err := s.client.Do(ctx, deleteNodeMutation, map[string]any{"path": path})
	return err
}

// RenameNode renames the node in place
func (s *Store) RenameNode(ctx context.Context, path, name string) error {
	_, err := s.client.Do(ctx, renameNodeMutation, map[string]any{"path": path, "name": name})
	return err
}

// ReorderChildren sets the full child order
func (s *Store) ReorderChildren(ctx context.Context, parentPath string, names []string) error {
	_, err := s.client.Do(ctx, reorderChildrenMutation, map[string]any{"path": parentPath, "names": names})
	return err
}

// FetchCollection reads every list with its ordered terms in one query
func (s *Store) FetchCollection(ctx context.Context, rootPath, language string) ([]domain.List, error) {
	data, err := s.client.Do(ctx, collectionQuery, map[string]any{"rootPath": rootPath, "language": language})
	if err != nil {
		return nil, err
	}

	var lists []domain.List
	for _, n := range data.Get("jcr.nodeByPath.children.nodes").Array() {
		l := domain.List{
			ID:          n.Get("uuid").String(),
			Path:        n.Get("path").String(),
			Name:        n.Get("name").String(),
			SystemName:  n.Get("systemName.value").String(),
			Title:       n.Get("title.value").String(),
			Description: n.Get("description.value").String(),
		}
		if l.Title == "" {
			l.Title = l.Name
		}
		for _, tn := range n.Get("children.nodes").Array() {
			l.Terms = append(l.Terms, domain.Term{
				ID:          tn.Get("uuid").String(),
				Path:        tn.Get("path").String(),
				Name:        tn.Get("name").String(),
				Value:       tn.Get("termValue.value").String(),
				Label:       tn.Get("termLabel.value").String(),
				Description: tn.Get("termDescription.value").String(),
			})
		}
		lists = append(lists, l)
	}
	return lists, nil
}

// FetchLanguages reads the site languages
func (s *Store) FetchLanguages(ctx context.Context, sitePath string) ([]domain.Language, error) {
	data, err := s.client.Do(ctx, languagesQuery, map[string]any{"sitePath": sitePath})
	if err != nil {
		return nil, err
	}

	var langs []domain.Language
	for _, l := range data.Get("jcr.nodeByPath.site.languages").Array() {
		langs = append(langs, domain.Language{
			Code:         l.Get("language").String(),
			DisplayName:  l.Get("displayName").String(),
			ActiveInEdit: l.Get("activeInEdit").Bool(),
		})
	}
	return langs, nil
}
