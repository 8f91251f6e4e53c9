package panel

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"controlledlists/internal/domain"
)

type fakeNode struct {
	id       string
	name     string
	typ      string
	parent   *fakeNode
	children []*fakeNode
	props    map[string]string
}

func (n *fakeNode) path() string {
	if n.parent == nil {
		return ""
	}
	return n.parent.path() + "/" + n.name
}

func (n *fakeNode) child(name string) *fakeNode {
	for _, c := range n.children {
		if c.name == name {
			return c
		}
	}
	return nil
}

func propKey(p domain.Property) string {
	if p.Language == "" {
		return p.Name
	}
	return p.Name + "@" + p.Language
}

// fakeStore is an in-memory node tree with failure injection.
// fail maps "op" or "op path" to an error.
type fakeStore struct {
	mu      sync.Mutex
	top     *fakeNode
	langs   []domain.Language
	fail    map[string]error
	counts  map[string]int
	reorder [][]string
	nextID  int

	// when set, CreateNode signals entered and waits on release
	entered chan struct{}
	release chan struct{}

	// one-shot gate on the next FetchCollection, see gateNextFetch
	fetchEntered chan struct{}
	fetchRelease chan struct{}
}

func newFakeStore(site string, langs ...domain.Language) *fakeStore {
	s := &fakeStore{
		top:    &fakeNode{props: map[string]string{}},
		langs:  langs,
		fail:   make(map[string]error),
		counts: make(map[string]int),
	}
	s.mkdirs(domain.SiteContentsPath(site))
	return s
}

func (s *fakeStore) mkdirs(path string) *fakeNode {
	n := s.top
	for _, part := range strings.Split(strings.Trim(path, "/"), "/") {
		c := n.child(part)
		if c == nil {
			c = s.add(n, part, "folder")
		}
		n = c
	}
	return n
}

func (s *fakeStore) add(parent *fakeNode, name, typ string) *fakeNode {
	s.nextID++
	n := &fakeNode{id: fmt.Sprintf("n%d", s.nextID), name: name, typ: typ, parent: parent, props: map[string]string{}}
	parent.children = append(parent.children, n)
	return n
}

func (s *fakeStore) lookup(path string) *fakeNode {
	n := s.top
	for _, part := range strings.Split(strings.Trim(path, "/"), "/") {
		if n = n.child(part); n == nil {
			return nil
		}
	}
	return n
}

func (s *fakeStore) hit(op, path string) error {
	s.counts[op]++
	if err, ok := s.fail[op+" "+path]; ok {
		return err
	}
	return s.fail[op]
}

func (s *fakeStore) count(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[op]
}

func (s *fakeStore) FindNode(ctx context.Context, path string) (*domain.NodeRef, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.hit("find", path); err != nil {
		return nil, err
	}
	n := s.lookup(path)
	if n == nil {
		return nil, nil
	}
	return &domain.NodeRef{ID: n.id, Path: n.path()}, nil
}

func (s *fakeStore) CreateNode(ctx context.Context, parentPath, name, nodeType string, props []domain.Property) (string, error) {
	if s.entered != nil {
		s.entered <- struct{}{}
		<-s.release
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.hit("create", parentPath+"/"+name); err != nil {
		return "", err
	}
	parent := s.lookup(parentPath)
	if parent == nil {
		return "", errors.New("parent not found: " + parentPath)
	}
	if parent.child(name) != nil {
		return "", errors.New("node already exists: " + name)
	}
	n := s.add(parent, name, nodeType)
	for _, p := range props {
		n.props[propKey(p)] = p.Value
	}
	return n.id, nil
}

func (s *fakeStore) UpdateProperties(ctx context.Context, path string, props []domain.Property) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.hit("update", path); err != nil {
		return err
	}
	n := s.lookup(path)
	if n == nil {
		return errors.New("not found: " + path)
	}
	for _, p := range props {
		n.props[propKey(p)] = p.Value
	}
	return nil
}

func (s *fakeStore) DeleteNode(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.hit("delete", path); err != nil {
		return err
	}
	n := s.lookup(path)
	if n == nil {
		return errors.New("not found: " + path)
	}
	siblings := n.parent.children
	for i, c := range siblings {
		if c == n {
			n.parent.children = append(siblings[:i:i], siblings[i+1:]...)
			break
		}
	}
	return nil
}

func (s *fakeStore) RenameNode(ctx context.Context, path, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.hit("rename", path); err != nil {
		return err
	}
	n := s.lookup(path)
	if n == nil {
		return errors.New("not found: " + path)
	}
	n.name = name
	return nil
}

func (s *fakeStore) ReorderChildren(ctx context.Context, parentPath string, names []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.hit("reorder", parentPath); err != nil {
		return err
	}
	parent := s.lookup(parentPath)
	if parent == nil {
		return errors.New("not found: " + parentPath)
	}
	ordered := make([]*fakeNode, 0, len(names))
	for _, name := range names {
		if c := parent.child(name); c != nil {
			ordered = append(ordered, c)
		}
	}
	parent.children = ordered
	s.reorder = append(s.reorder, names)
	return nil
}

// gateNextFetch makes the next FetchCollection signal entered and wait on release
func (s *fakeStore) gateNextFetch() (entered, release chan struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetchEntered = make(chan struct{})
	s.fetchRelease = make(chan struct{})
	return s.fetchEntered, s.fetchRelease
}

func (s *fakeStore) setFail(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.fail, op)
		return
	}
	s.fail[op] = err
}

func (s *fakeStore) FetchCollection(ctx context.Context, rootPath, language string) ([]domain.List, error) {
	s.mu.Lock()
	entered, release := s.fetchEntered, s.fetchRelease
	s.fetchEntered, s.fetchRelease = nil, nil
	s.mu.Unlock()
	if entered != nil {
		entered <- struct{}{}
		<-release
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.hit("fetch", rootPath); err != nil {
		return nil, err
	}
	root := s.lookup(rootPath)
	if root == nil {
		return nil, errors.New("not found: " + rootPath)
	}

	var lists []domain.List
	for _, ln := range root.children {
		if ln.typ != domain.NodeTypeList {
			continue
		}
		l := domain.List{
			ID:          ln.id,
			Path:        ln.path(),
			Name:        ln.name,
			SystemName:  ln.props[domain.PropSystemName],
			Title:       ln.props[domain.PropTitle+"@"+language],
			Description: ln.props[domain.PropDescription+"@"+language],
		}
		if l.Title == "" {
			l.Title = l.Name
		}
		for _, tn := range ln.children {
			l.Terms = append(l.Terms, domain.Term{
				ID:          tn.id,
				Path:        tn.path(),
				Name:        tn.name,
				Value:       tn.props[domain.PropValue],
				Label:       tn.props[domain.PropLabel+"@"+language],
				Description: tn.props[domain.PropDescription+"@"+language],
			})
		}
		lists = append(lists, l)
	}
	return lists, nil
}

func (s *fakeStore) FetchLanguages(ctx context.Context, sitePath string) ([]domain.Language, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.hit("languages", sitePath); err != nil {
		return nil, err
	}
	return s.langs, nil
}
