// Package sortedmap implements a sorted map from string keys to arbitrary
// values. Keys are kept in ordinal (byte-wise) order, which is Go's native
// string ordering, so "B" sorts before "a" and a key sorts before all of its
// extensions.
//
// Besides the usual mapping operations the map answers upper-bound range
// queries: KeysGreaterThan returns the keys strictly greater than a given key
// in O(log n + k), which is what a directory style "list the children after
// X" operation needs.
//
// Key Components:
//
//   - Map: the container. Point operations (Get, TryGet, Set, Add, Remove,
//     RemoveEntry, ContainsKey, Contains), ordered iteration (All), range
//     queries (KeysGreaterThan, EntriesGreaterThan), bulk copy (CopyTo) and
//     introspection (Count, Info, String).
//
//   - KeyView and ValueView: live views returned by Map.Keys and Map.Values.
//     The key view is read-only. The value view supports Remove (first
//     matching entry in key order) and Clear, but not Add.
//
//   - Error: every failure is an *Error carrying an ErrCode. Compare with
//     errors.Is against the sentinels, e.g. errors.Is(err, ErrDuplicateKey).
//
// Engines:
//
// The ordered structure behind a Map is a tree.Tree. The default is the
// red-black tree engine; WithImplementation selects another built-in engine
// and WithTree injects any tree.Tree implementation.
//
// Iteration:
//
// Sequences are range-over-func iterators (iter.Seq, iter.Seq2). They borrow
// the map instead of copying it, and every range starts from the current
// state. Changing the set of keys while a range is in progress panics with an
// *Error of code ErrCodeConcurrentModification at the next step. Breaking out
// of the loop right after a change is fine.
//
// Thread-safety: a Map is not safe for concurrent use. See package syncmap
// for a locked variant.
//
// Example:
//
//	m := sortedmap.New[int]()
//	m.Set("b", 1)
//	m.Set("a", 2)
//	m.Set("d", 3)
//
//	for k := range m.KeysGreaterThan("a") {
//		fmt.Println(k) // b, d
//	}
package sortedmap
