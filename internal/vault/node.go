package vault

import (
	"maps"
	"slices"

	"github.com/google/uuid"
)

// Node is an element of the tree: either a *Group or an *Entry.
type Node interface {
	node()
}

// Value is a field value. Protected values are sensitive and never leave the
// store in an export.
type Value struct {
	Text      string `json:"text"`
	Protected bool   `json:"protected,omitempty"`
}

// Group is a named, ordered container of entries and sub-groups.
type Group struct {
	Name     string
	Children []Node
}

func (*Group) node() {}

// NewGroup returns an empty group.
func NewGroup(name string) *Group {
	return &Group{Name: name}
}

// AddEntry appends e as the last child of g.
func (g *Group) AddEntry(e *Entry) {
	g.Children = append(g.Children, e)
}

// AddGroup creates a sub-group named name as the last child of g and returns it.
// Groups are only ever created here, which keeps the structure a tree.
func (g *Group) AddGroup(name string) *Group {
	sub := NewGroup(name)
	g.Children = append(g.Children, sub)
	return sub
}

// Groups returns the direct sub-groups of g in stored order.
func (g *Group) Groups() []*Group {
	var out []*Group
	for _, c := range g.Children {
		if sub, ok := c.(*Group); ok {
			out = append(out, sub)
		}
	}
	return out
}

// Entry is a single contact record.
type Entry struct {
	// ID is assigned once at creation and never changes.
	ID string

	Fields map[string]Value

	// Tags keep their display order; membership is what matters for filters.
	Tags []string

	// History holds committed snapshots, oldest first. See CommitIfChanged.
	History []Snapshot
}

func (*Entry) node() {}

// NewEntry returns an uncommitted entry with a fresh id and the given title.
func NewEntry(title string) *Entry {
	return &Entry{
		ID:     uuid.NewString(),
		Fields: map[string]Value{FieldTitle: {Text: title}},
	}
}

// Get returns the value stored under name.
func (e *Entry) Get(name string) (Value, bool) {
	v, ok := e.Fields[name]
	return v, ok
}

// Text returns the text of field name, or "" when the field is absent.
func (e *Entry) Text(name string) string {
	return e.Fields[name].Text
}

// Title returns the Title field text.
func (e *Entry) Title() string {
	return e.Text(FieldTitle)
}

// HasTitle reports whether the entry has a usable (non-empty) title.
func (e *Entry) HasTitle() bool {
	return e.Title() != ""
}

// Set stores an unprotected value under name, replacing any previous value
// and its protection flag.
func (e *Entry) Set(name, text string) {
	e.put(name, Value{Text: text})
}

// SetProtected stores a protected value under name.
func (e *Entry) SetProtected(name, text string) {
	e.put(name, Value{Text: text, Protected: true})
}

func (e *Entry) put(name string, v Value) {
	if e.Fields == nil {
		e.Fields = make(map[string]Value)
	}
	e.Fields[name] = v
}

// SetTags replaces the whole tag set. Order is kept, duplicates are dropped.
func (e *Entry) SetTags(tags []string) {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if !slices.Contains(out, t) {
			out = append(out, t)
		}
	}
	e.Tags = out
}

// HasTag reports whether tag is in the entry's tag set.
func (e *Entry) HasTag(tag string) bool {
	return slices.Contains(e.Tags, tag)
}

// Clone returns a deep copy of e, history included.
func (e *Entry) Clone() Entry {
	c := Entry{
		ID:     e.ID,
		Fields: maps.Clone(e.Fields),
		Tags:   slices.Clone(e.Tags),
	}
	if len(e.History) > 0 {
		c.History = make([]Snapshot, len(e.History))
		for i, s := range e.History {
			c.History[i] = s.clone()
		}
	}
	return c
}

// Database is the whole tree loaded from a store.
type Database struct {
	Root *Group
}

// NewDatabase returns a database with an empty root group.
func NewDatabase(rootName string) *Database {
	return &Database{Root: NewGroup(rootName)}
}
