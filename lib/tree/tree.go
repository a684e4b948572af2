package tree

import "fmt"

// --------------------------------------------------------------------------
// Helper Types
// --------------------------------------------------------------------------

// Implementation identifies a backing tree engine
type Implementation string

const (
	ImplRBTree Implementation = "rbtree" // red-black tree (default)
	ImplBTree  Implementation = "btree"  // tidwall B-tree
	ImplGBTree Implementation = "gbtree" // google B-tree
)

// DefaultImplementation is used whenever no implementation is requested explicitly
const DefaultImplementation = ImplRBTree

// Implementations lists all engines in a stable order
func Implementations() []Implementation {
	return []Implementation{ImplRBTree, ImplBTree, ImplGBTree}
}

// ParseImplementation converts a configuration string to an Implementation
func ParseImplementation(s string) (Implementation, error) {
	switch impl := Implementation(s); impl {
	case ImplRBTree, ImplBTree, ImplGBTree:
		return impl, nil
	case "":
		return DefaultImplementation, nil
	default:
		return "", fmt.Errorf("invalid tree implementation %q. must be one of rbtree, btree, gbtree", s)
	}
}

// --------------------------------------------------------------------------
// Tree Interface
// --------------------------------------------------------------------------

// Tree defines the ordered structure backing a sorted map.
// Keys are ordered by ordinal (byte-wise) string comparison, which is Go's
// native string ordering. Implementations are not required to be safe for
// concurrent use; synchronization is the caller's responsibility.
type Tree[V any] interface {

	// --------------------------------------------------------------------------
	// Write Operations
	// --------------------------------------------------------------------------

	// Put inserts or replaces the value for key.
	// The return value reports whether a previous value was replaced.
	// Replacing a value must not change the shape of the tree, so it is
	// allowed from within an Ascend or AscendAfter callback.
	Put(key string, value V) (replaced bool)

	// PutIfAbsent inserts the value only if the key is not present yet.
	// The return value reports whether the entry was inserted.
	PutIfAbsent(key string, value V) (inserted bool)

	// Delete removes the entry for key and returns the removed value.
	Delete(key string) (value V, deleted bool)

	// Clear removes all entries.
	Clear()

	// --------------------------------------------------------------------------
	// Query Operations
	// --------------------------------------------------------------------------

	// Get retrieves the value for an exact key.
	Get(key string) (value V, found bool)

	// Len returns the number of entries.
	Len() int

	// Ascend calls fn for every entry in ascending key order until fn returns false.
	Ascend(fn func(key string, value V) bool)

	// AscendAfter calls fn for every entry whose key is strictly greater than
	// pivot, in ascending key order, until fn returns false.
	// The first key is located by a tree search (upper bound), not a scan.
	AscendAfter(pivot string, fn func(key string, value V) bool)

	// --------------------------------------------------------------------------
	// Metadata
	// --------------------------------------------------------------------------

	// Implementation returns the identifier of the engine.
	Implementation() Implementation
}
