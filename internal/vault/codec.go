package vault

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrDuplicateID   = errors.New("duplicate entry id")
	ErrMissingID     = errors.New("entry without id")
	ErrMalformedNode = errors.New("node is neither a group nor an entry")
	ErrNoRoot        = errors.New("database has no root group")
)

// Wire shapes. Children are an ordered array of tagged nodes so that group
// order survives a round trip through the store.
type nodeJSON struct {
	Group *groupJSON `json:"group,omitempty"`
	Entry *entryJSON `json:"entry,omitempty"`
}

type groupJSON struct {
	Name     string     `json:"name"`
	Children []nodeJSON `json:"children"`
}

type entryJSON struct {
	ID      string           `json:"id"`
	Fields  map[string]Value `json:"fields"`
	Tags    []string         `json:"tags,omitempty"`
	History []Snapshot       `json:"history,omitempty"`
}

type databaseJSON struct {
	Root *groupJSON `json:"root"`
}

func (d *Database) MarshalJSON() ([]byte, error) {
	if d.Root == nil {
		return nil, ErrNoRoot
	}
	return json.Marshal(databaseJSON{Root: encodeGroup(d.Root)})
}

func encodeGroup(g *Group) *groupJSON {
	out := &groupJSON{Name: g.Name, Children: make([]nodeJSON, 0, len(g.Children))}
	for _, child := range g.Children {
		switch n := child.(type) {
		case *Group:
			out.Children = append(out.Children, nodeJSON{Group: encodeGroup(n)})
		case *Entry:
			out.Children = append(out.Children, nodeJSON{Entry: &entryJSON{
				ID:      n.ID,
				Fields:  n.Fields,
				Tags:    n.Tags,
				History: n.History,
			}})
		}
	}
	return out
}

// UnmarshalJSON rebuilds the tree and rejects entries without an id or with
// an id already seen elsewhere in the tree.
func (d *Database) UnmarshalJSON(b []byte) error {
	var raw databaseJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if raw.Root == nil {
		return ErrNoRoot
	}

	seen := make(map[string]struct{})
	root, err := decodeGroup(raw.Root, seen)
	if err != nil {
		return err
	}
	d.Root = root
	return nil
}

func decodeGroup(in *groupJSON, seen map[string]struct{}) (*Group, error) {
	g := NewGroup(in.Name)
	for i, child := range in.Children {
		switch {
		case child.Group != nil && child.Entry == nil:
			sub, err := decodeGroup(child.Group, seen)
			if err != nil {
				return nil, err
			}
			g.Children = append(g.Children, sub)
		case child.Entry != nil && child.Group == nil:
			e, err := decodeEntry(child.Entry, seen)
			if err != nil {
				return nil, err
			}
			g.AddEntry(e)
		default:
			return nil, fmt.Errorf("group %q child %d: %w", in.Name, i, ErrMalformedNode)
		}
	}
	return g, nil
}

func decodeEntry(in *entryJSON, seen map[string]struct{}) (*Entry, error) {
	if in.ID == "" {
		return nil, ErrMissingID
	}
	if _, dup := seen[in.ID]; dup {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateID, in.ID)
	}
	seen[in.ID] = struct{}{}

	fields := in.Fields
	if fields == nil {
		fields = make(map[string]Value)
	}
	return &Entry{ID: in.ID, Fields: fields, Tags: in.Tags, History: in.History}, nil
}
