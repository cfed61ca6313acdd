package vault

import (
	"maps"
	"slices"
)

// MaxHistory bounds the number of snapshots kept per entry.
const MaxHistory = 10

// Snapshot is a committed state of an entry.
type Snapshot struct {
	Fields map[string]Value `json:"fields"`
	Tags   []string         `json:"tags,omitempty"`
}

func (s Snapshot) clone() Snapshot {
	return Snapshot{Fields: maps.Clone(s.Fields), Tags: slices.Clone(s.Tags)}
}

// Equal reports whether both snapshots hold the same values, protection
// flags and tags in the same order.
func (s Snapshot) Equal(o Snapshot) bool {
	return maps.Equal(s.Fields, o.Fields) && slices.Equal(s.Tags, o.Tags)
}

func (e *Entry) snapshot() Snapshot {
	return Snapshot{Fields: maps.Clone(e.Fields), Tags: slices.Clone(e.Tags)}
}

// LastCommitted returns the most recent committed snapshot, if any.
func (e *Entry) LastCommitted() (Snapshot, bool) {
	if len(e.History) == 0 {
		return Snapshot{}, false
	}
	return e.History[len(e.History)-1], true
}

// Dirty reports whether the entry differs from its last committed snapshot.
// An entry that was never committed is always dirty.
func (e *Entry) Dirty() bool {
	last, ok := e.LastCommitted()
	return !ok || !last.Equal(e.snapshot())
}

// CommitIfChanged records the current state as committed when it differs
// from the last committed snapshot and reports whether it did. A second call
// without an intervening mutation always returns false.
func (e *Entry) CommitIfChanged() bool {
	if !e.Dirty() {
		return false
	}
	e.History = append(e.History, e.snapshot())
	if over := len(e.History) - MaxHistory; over > 0 {
		e.History = slices.Delete(e.History, 0, over)
	}
	return true
}
