package domain

import (
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Node types used by the remote store
const (
	NodeTypeListsFolder = "cl:listsFolder"
	NodeTypeList        = "cl:controlledList"
	NodeTypeTerm        = "cl:controlledTerm"
)

// Property names
const (
	PropTitle       = "jcr:title"      // per language
	PropDescription = "cl:description" // per language
	PropSystemName  = "cl:systemName"
	PropValue       = "cl:value"
	PropLabel       = "cl:label" // per language
)

const (
	// RootName is the node name of the lists folder under a site's contents
	RootName = "controlled-lists"
	// ListNamePrefix is used when a list system name normalizes to nothing
	ListNamePrefix = "controlled-list"
	// TermNamePrefix is used when a term value normalizes to nothing
	TermNamePrefix = "controlled-term"
)

// SiteContentsPath returns the contents folder of a site (e.g., /sites/acme/contents)
func SiteContentsPath(siteKey string) string {
	return "/sites/" + siteKey + "/contents"
}

// SitePath returns the site node path (e.g., /sites/acme)
func SitePath(siteKey string) string {
	return "/sites/" + siteKey
}

// RootPath returns the well-known lists root for a site
func RootPath(siteKey string) string {
	return SiteContentsPath(siteKey) + "/" + RootName
}

// NodeRef identifies a node in the remote store
type NodeRef struct {
	ID   string
	Path string
}

// Property is a single property write. Language is empty for non-localized values.
type Property struct {
	Name     string
	Value    string
	Language string
}

// List is a controlled list as projected in one display language
type List struct {
	ID          string
	Path        string
	Name        string // machine identifier, unique under the root
	SystemName  string
	Title       string // falls back to Name when untranslated
	Description string
	Terms       []Term
}

// Term is a single entry of a List as projected in one display language
type Term struct {
	ID          string
	Path        string
	Name        string // machine identifier, unique within its list
	Value       string
	Label       string
	Description string
}

// DisplayLabel returns the label, falling back to the value when untranslated
func (t Term) DisplayLabel() string {
	if t.Label != "" {
		return t.Label
	}
	return t.Value
}

// TermNames returns the node names of the list's terms in order
func (l *List) TermNames() []string {
	names := make([]string, len(l.Terms))
	for i, t := range l.Terms {
		names[i] = t.Name
	}
	return names
}

// FindTerm returns the term with the given id, or nil
func (l *List) FindTerm(id string) *Term {
	for i := range l.Terms {
		if l.Terms[i].ID == id {
			return &l.Terms[i]
		}
	}
	return nil
}

// Language is a site language
type Language struct {
	Code         string
	DisplayName  string
	ActiveInEdit bool
}

// ImportEntry is a raw row parsed from an import file
type ImportEntry struct {
	Value       string `mapstructure:"value"`
	Label       string `mapstructure:"label"`
	Description string `mapstructure:"description"`
}

// Collection is the snapshot of all lists of a site in one language.
// It is rebuilt from a fresh fetch after every mutation, never patched.
type Collection struct {
	RootPath string
	Language string
	Lists    []List
}

// Find returns the list with the given id, or nil
func (c *Collection) Find(id string) *List {
	if c == nil || id == "" {
		return nil
	}
	for i := range c.Lists {
		if c.Lists[i].ID == id {
			return &c.Lists[i]
		}
	}
	return nil
}

// FindByName returns the list with the given node name, or nil
func (c *Collection) FindByName(name string) *List {
	if c == nil {
		return nil
	}
	for i := range c.Lists {
		if c.Lists[i].Name == name {
			return &c.Lists[i]
		}
	}
	return nil
}

// Names returns the node names of all lists
func (c *Collection) Names() []string {
	if c == nil {
		return nil
	}
	names := make([]string, len(c.Lists))
	for i, l := range c.Lists {
		names[i] = l.Name
	}
	return names
}

// SortLists orders lists by title using the collation of the given language,
// ignoring case and diacritics.
func SortLists(lists []List, lang string) {
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.Und
	}
	c := collate.New(tag, collate.Loose)
	slices.SortStableFunc(lists, func(a, b List) int {
		return c.CompareString(a.Title, b.Title)
	})
}
