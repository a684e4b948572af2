// Package tree defines the contract for the ordered structures that back a
// sortedmap.Map. A Tree stores string keys in ordinal (byte-wise) order and
// supports point operations, full in-order traversal and an upper-bound
// traversal that starts at the first key strictly greater than a pivot.
//
// The package contains:
//   - Tree: the engine interface
//   - Implementation: identifiers for the available engines
//
// Engines live in the engines subpackages:
//   - engines/rbtree: a red-black tree (default)
//   - engines/btree: a B-tree without internal locking
//   - engines/gbtree: a B-tree with a configurable degree
//
// Each engine is validated by the shared conformance suite in the testing
// subpackage, which checks ordering, upper-bound correctness and the
// replace/insert-if-absent distinction.
//
// Engines are not safe for concurrent use. Use the syncmap package when a
// map has to be shared between goroutines.
package tree
