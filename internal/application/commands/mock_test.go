package commands

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"controlledlists/internal/domain"
)

// Mock implementations for testing

type call struct {
	Op    string
	Path  string
	Name  string
	Names []string
	Props []domain.Property
}

// mockNodeStore records calls; fail maps "op path" or "op" to an error
type mockNodeStore struct {
	mu     sync.Mutex
	calls  []call
	fail   map[string]error
	nextID int
}

func newMockNodeStore() *mockNodeStore {
	return &mockNodeStore{fail: make(map[string]error)}
}

func (m *mockNodeStore) record(c call) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, c)
	if err, ok := m.fail[c.Op+" "+c.Path]; ok {
		return err
	}
	return m.fail[c.Op]
}

func (m *mockNodeStore) ops(op string) []call {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []call
	for _, c := range m.calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

func (m *mockNodeStore) FindNode(ctx context.Context, path string) (*domain.NodeRef, error) {
	return nil, m.record(call{Op: "find", Path: path})
}

func (m *mockNodeStore) CreateNode(ctx context.Context, parentPath, name, nodeType string, props []domain.Property) (string, error) {
	if err := m.record(call{Op: "create", Path: parentPath + "/" + name, Name: name, Props: props}); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	return fmt.Sprintf("new-%d", m.nextID), nil
}

func (m *mockNodeStore) UpdateProperties(ctx context.Context, path string, props []domain.Property) error {
	return m.record(call{Op: "update", Path: path, Props: props})
}

func (m *mockNodeStore) DeleteNode(ctx context.Context, path string) error {
	return m.record(call{Op: "delete", Path: path})
}

func (m *mockNodeStore) RenameNode(ctx context.Context, path, name string) error {
	return m.record(call{Op: "rename", Path: path, Name: name})
}

func (m *mockNodeStore) ReorderChildren(ctx context.Context, parentPath string, names []string) error {
	return m.record(call{Op: "reorder", Path: parentPath, Names: names})
}

func (m *mockNodeStore) FetchCollection(ctx context.Context, rootPath, language string) ([]domain.List, error) {
	return nil, errors.New("not used")
}

func (m *mockNodeStore) FetchLanguages(ctx context.Context, sitePath string) ([]domain.Language, error) {
	return nil, errors.New("not used")
}

func prop(props []domain.Property, name string) (domain.Property, bool) {
	for _, p := range props {
		if p.Name == name {
			return p, true
		}
	}
	return domain.Property{}, false
}
