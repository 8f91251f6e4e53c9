package domain

import (
	"encoding/json"

	"github.com/tidwall/gjson"
)

// SelectedTerm is a term captured in a selector value
type SelectedTerm struct {
	ID    string `json:"id"`
	Value string `json:"value"`
	Label string `json:"label"`
}

// Selection is the value persisted by the list selector widget
type Selection struct {
	ListID string         `json:"listId,omitempty"`
	Terms  []SelectedTerm `json:"terms"`
}

// ParseSelection decodes a selector value. Empty, malformed or unparsable input
// yields an empty selection; it never fails.
func ParseSelection(value string) Selection {
	sel := Selection{Terms: []SelectedTerm{}}
	if value == "" || !gjson.Valid(value) {
		return sel
	}

	root := gjson.Parse(value)
	if !root.IsObject() {
		return sel
	}

	sel.ListID = root.Get("listId").String()

	terms := root.Get("terms")
	if !terms.IsArray() {
		return sel
	}
	for _, t := range terms.Array() {
		id := t.Get("id").String()
		if id == "" {
			// older values stored the node uuid
			id = t.Get("uuid").String()
		}
		sel.Terms = append(sel.Terms, SelectedTerm{
			ID:    id,
			Value: t.Get("value").String(),
			Label: t.Get("label").String(),
		})
	}
	return sel
}

// Encode serializes the selection. A selection without a list encodes as "".
func (s Selection) Encode() string {
	if s.ListID == "" {
		return ""
	}
	if s.Terms == nil {
		s.Terms = []SelectedTerm{}
	}
	data, err := json.Marshal(s)
	if err != nil {
		return ""
	}
	return string(data)
}

// Has reports whether the term id is selected
func (s Selection) Has(termID string) bool {
	for _, t := range s.Terms {
		if t.ID == termID {
			return true
		}
	}
	return false
}

// WithList switches to another list, dropping any selected terms
func (s Selection) WithList(listID string) Selection {
	return Selection{ListID: listID, Terms: []SelectedTerm{}}
}

// Toggle adds the term if absent, removes it otherwise. Order of the remaining
// terms is preserved and new terms are appended.
func (s Selection) Toggle(t Term) Selection {
	next := Selection{ListID: s.ListID, Terms: make([]SelectedTerm, 0, len(s.Terms)+1)}
	found := false
	for _, st := range s.Terms {
		if st.ID == t.ID {
			found = true
			continue
		}
		next.Terms = append(next.Terms, st)
	}
	if !found {
		next.Terms = append(next.Terms, SelectedTerm{ID: t.ID, Value: t.Value, Label: t.DisplayLabel()})
	}
	return next
}

// Clear keeps the list and drops all terms
func (s Selection) Clear() Selection {
	return Selection{ListID: s.ListID, Terms: []SelectedTerm{}}
}
