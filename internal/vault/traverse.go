package vault

import (
	"slices"
	"strings"
)

// Predicate selects entries during a walk. A nil Predicate selects all.
type Predicate func(e *Entry) bool

// HasTag selects entries carrying tag.
func HasTag(tag string) Predicate {
	return func(e *Entry) bool { return e.HasTag(tag) }
}

// Walk visits every entry under g in pre-order, depth-first, following each
// group's stored child order. It stops as soon as fn returns false and
// reports whether the walk ran to completion.
func Walk(g *Group, fn func(e *Entry) bool) bool {
	if g == nil {
		return true
	}
	for _, child := range g.Children {
		switch n := child.(type) {
		case *Entry:
			if !fn(n) {
				return false
			}
		case *Group:
			if !Walk(n, fn) {
				return false
			}
		}
	}
	return true
}

// FindByID returns the first entry in walk order whose id is id, or nil.
// The result points into the tree so callers can edit it in place; it must
// not be retained beyond the command that looked it up.
func FindByID(root *Group, id string) *Entry {
	var found *Entry
	Walk(root, func(e *Entry) bool {
		if e.ID == id {
			found = e
			return false
		}
		return true
	})
	return found
}

// CollectMatching returns copies of the entries selected by pred, in walk
// order. Entries without a title are never returned.
func CollectMatching(root *Group, pred Predicate) []Entry {
	var out []Entry
	Walk(root, func(e *Entry) bool {
		if !e.HasTitle() {
			return true
		}
		if pred == nil || pred(e) {
			out = append(out, e.Clone())
		}
		return true
	})
	return out
}

// SortByTitle orders entries by title using byte ordering. Entries sharing a
// title keep their relative order.
func SortByTitle(entries []Entry) {
	slices.SortStableFunc(entries, func(a, b Entry) int {
		return strings.Compare(a.Title(), b.Title())
	})
}

// Match is one field of one entry matching a search term.
type Match struct {
	EntryID string
	Field   string
	Value   string
}

// Search looks for term in Title and Nickname (case-insensitive) and in
// PhoneNumber (plain substring). Each matching field yields one Match, so an
// entry can be reported more than once. Protected values are skipped and an
// empty term matches nothing.
func Search(root *Group, term string) []Match {
	if term == "" {
		return nil
	}
	folded := strings.ToLower(term)

	var out []Match
	Walk(root, func(e *Entry) bool {
		for _, name := range []string{FieldTitle, FieldNickname, FieldPhoneNumber} {
			v, ok := e.Get(name)
			if !ok || v.Protected {
				continue
			}
			var hit bool
			if name == FieldPhoneNumber {
				hit = strings.Contains(v.Text, term)
			} else {
				hit = strings.Contains(strings.ToLower(v.Text), folded)
			}
			if hit {
				out = append(out, Match{EntryID: e.ID, Field: name, Value: v.Text})
			}
		}
		return true
	})
	return out
}

// Count returns the number of entries under g.
func Count(g *Group) int {
	n := 0
	Walk(g, func(*Entry) bool {
		n++
		return true
	})
	return n
}
