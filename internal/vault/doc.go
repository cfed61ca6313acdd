// Package vault is the in-memory contact tree: groups that own entries and
// sub-groups, entries that carry named fields and tags, and the traversal and
// change-tracking primitives every shell command is built on.
//
// # Tree shape
//
// A Database owns a single root Group. Every Group keeps its children in
// insertion order and that order is what all walks follow: pre-order,
// depth-first, a group's children before its following siblings.
//
// # Change tracking
//
// Entries record committed snapshots of themselves. Mutating code edits
// Fields or Tags and then calls (*Entry).CommitIfChanged; only a true result
// should lead to a store write.
//
// # Persistence
//
// Database implements json.Marshaler and json.Unmarshaler. The store seals
// that JSON; this package has no notion of keys or files.
package vault
