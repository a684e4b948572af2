package sortedmap

import (
	"fmt"
	"iter"
	"strings"

	"github.com/ValentinKolb/sortedkv/lib/tree"
)

// Entry is a key-value pair as yielded by ordered iteration
type Entry[V any] struct {
	Key   string
	Value V
}

// Map is a sorted map from string keys to values of type V.
// Keys are ordered by ordinal (byte-wise) comparison. Iteration, the views
// and the range queries all produce keys in strictly increasing order.
//
// A Map is not safe for concurrent use. Iterators fail fast: a structural
// change (new key, removal, non-empty clear) made while a sequence is being
// ranged over panics with ErrConcurrentModification at the next step.
// Replacing the value of an existing key is not a structural change.
type Map[V any] struct {
	tree  tree.Tree[V]
	equal func(a, b V) bool
	mods  uint64 // structural modification counter
}

// --------------------------------------------------------------------------
// Constructors
// --------------------------------------------------------------------------

// New creates an empty map.
// It panics if the options are inconsistent (for example an injected tree
// of a different value type). Use NewFromEntries to get an error instead.
func New[V any](opts ...Option) *Map[V] {
	m, err := newMap[V](opts)
	if err != nil {
		panic(err)
	}
	return m
}

// NewFromEntries creates a map holding the given entries.
// The first duplicate key fails the construction with ErrDuplicateKey.
func NewFromEntries[V any](entries []Entry[V], opts ...Option) (*Map[V], error) {
	return NewFromSeq(func(yield func(string, V) bool) {
		for _, e := range entries {
			if !yield(e.Key, e.Value) {
				return
			}
		}
	}, opts...)
}

// NewFromSeq creates a map from a sequence of key-value pairs.
// The first duplicate key fails the construction with ErrDuplicateKey.
func NewFromSeq[V any](seq iter.Seq2[string, V], opts ...Option) (*Map[V], error) {
	m, err := newMap[V](opts)
	if err != nil {
		return nil, err
	}
	for key, value := range seq {
		if err := m.Add(key, value); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func newMap[V any](opts []Option) (*Map[V], error) {
	t, equal, err := resolve[V](opts)
	if err != nil {
		return nil, err
	}
	return &Map[V]{tree: t, equal: equal}, nil
}

// --------------------------------------------------------------------------
// Point Operations
// --------------------------------------------------------------------------

// Get returns the value for key or ErrKeyNotFound
func (m *Map[V]) Get(key string) (V, error) {
	value, ok := m.tree.Get(key)
	if !ok {
		return value, newErrorf(ErrCodeKeyNotFound, "key %q not found", key)
	}
	return value, nil
}

// TryGet returns the value for key and whether it was present
func (m *Map[V]) TryGet(key string) (V, bool) {
	return m.tree.Get(key)
}

// Set inserts or replaces the value for key
func (m *Map[V]) Set(key string, value V) {
	if !m.tree.Put(key, value) {
		m.mods++
	}
}

// Add inserts a new entry. If the key is already present the map is left
// unchanged and ErrDuplicateKey is returned.
func (m *Map[V]) Add(key string, value V) error {
	if !m.tree.PutIfAbsent(key, value) {
		return newErrorf(ErrCodeDuplicateKey, "an entry with key %q already exists", key)
	}
	m.mods++
	return nil
}

// ContainsKey reports whether key is present
func (m *Map[V]) ContainsKey(key string) bool {
	_, ok := m.tree.Get(key)
	return ok
}

// Contains reports whether key is present with a value equal to value
func (m *Map[V]) Contains(key string, value V) bool {
	stored, ok := m.tree.Get(key)
	return ok && m.equal(stored, value)
}

// Remove deletes the entry for key and reports whether it was present
func (m *Map[V]) Remove(key string) bool {
	if _, ok := m.tree.Delete(key); !ok {
		return false
	}
	m.mods++
	return true
}

// RemoveEntry deletes the entry only if key is present with a value equal to value
func (m *Map[V]) RemoveEntry(key string, value V) bool {
	if !m.Contains(key, value) {
		return false
	}
	return m.Remove(key)
}

// Clear removes all entries
func (m *Map[V]) Clear() {
	if m.tree.Len() == 0 {
		return
	}
	m.tree.Clear()
	m.mods++
}

// Count returns the number of entries
func (m *Map[V]) Count() int {
	return m.tree.Len()
}

// IsReadOnly is always false, a Map is mutable
func (m *Map[V]) IsReadOnly() bool {
	return false
}

// Implementation returns the identifier of the backing engine
func (m *Map[V]) Implementation() tree.Implementation {
	return m.tree.Implementation()
}

// --------------------------------------------------------------------------
// Ordered Iteration
// --------------------------------------------------------------------------

// All returns the entries in ascending key order.
// Every range over the sequence starts a new traversal of the current state.
func (m *Map[V]) All() iter.Seq2[string, V] {
	return func(yield func(string, V) bool) {
		m.ascend("", yield)
	}
}

// Keys returns a read-only live view of the keys
func (m *Map[V]) Keys() *KeyView[V] {
	return &KeyView[V]{m: m}
}

// Values returns a live view of the values in key order
func (m *Map[V]) Values() *ValueView[V] {
	return &ValueView[V]{m: m}
}

// KeysGreaterThan returns the keys strictly greater than key, ascending.
// An empty key selects all keys, including a stored empty key.
// The start is found by an upper-bound search, so ranging over the first
// k keys costs O(log n + k). The search is repeated on every range.
func (m *Map[V]) KeysGreaterThan(key string) iter.Seq[string] {
	return func(yield func(string) bool) {
		m.ascend(key, func(k string, _ V) bool {
			return yield(k)
		})
	}
}

// EntriesGreaterThan is KeysGreaterThan with the values
func (m *Map[V]) EntriesGreaterThan(key string) iter.Seq2[string, V] {
	return func(yield func(string, V) bool) {
		m.ascend(key, yield)
	}
}

// ascend walks the entries after pivot (all entries for an empty pivot) and
// panics if the map is structurally modified before the walk ends.
func (m *Map[V]) ascend(pivot string, yield func(string, V) bool) {
	start := m.mods
	step := func(k string, v V) bool {
		if !yield(k, v) {
			return false
		}
		m.checkUnmodified(start)
		return true
	}

	if pivot == "" {
		m.tree.Ascend(step)
	} else {
		m.tree.AscendAfter(pivot, step)
	}
}

func (m *Map[V]) checkUnmodified(start uint64) {
	if m.mods != start {
		panic(newErrorf(ErrCodeConcurrentModification, "map was structurally modified during iteration (%d changes)", m.mods-start))
	}
}

// --------------------------------------------------------------------------
// Bulk Copy
// --------------------------------------------------------------------------

// CopyTo writes all entries in key order into dst starting at offset.
// All arguments are validated before the first write, so a failed call
// leaves dst untouched.
func (m *Map[V]) CopyTo(dst []Entry[V], offset int) error {
	if err := checkCopyTarget(dst == nil, len(dst), offset, m.Count()); err != nil {
		return err
	}
	i := offset
	m.ascend("", func(k string, v V) bool {
		dst[i] = Entry[V]{Key: k, Value: v}
		i++
		return true
	})
	return nil
}

// checkCopyTarget validates a CopyTo destination of length n for count elements
func checkCopyTarget(isNil bool, n, offset, count int) error {
	switch {
	case isNil:
		return newErrorf(ErrCodeInvalidArgument, "destination is nil")
	case offset < 0 || offset >= n:
		return newErrorf(ErrCodeOutOfRange, "offset %d is out of range for length %d", offset, n)
	case count > n-offset:
		return newErrorf(ErrCodeCapacity, "destination has room for %d elements after offset %d, need %d", n-offset, offset, count)
	}
	return nil
}

// --------------------------------------------------------------------------
// Formatting
// --------------------------------------------------------------------------

// String formats the map as map[k1:v1 k2:v2] in key order
func (m *Map[V]) String() string {
	var sb strings.Builder
	sb.WriteString("map[")
	first := true
	for k, v := range m.All() {
		if !first {
			sb.WriteByte(' ')
		}
		first = false
		fmt.Fprintf(&sb, "%s:%v", k, v)
	}
	sb.WriteByte(']')
	return sb.String()
}
