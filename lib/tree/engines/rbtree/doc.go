// Package rbtree implements tree.Tree on a red-black tree from
// github.com/emirpasic/gods. It is the default engine of sortedmap.Map.
//
// Key Components:
//
//   - rbTreeImpl: wraps a redblacktree.Tree keyed by string. The tree uses the
//     library's ordered comparator, which for strings is Go's native byte-wise
//     comparison, so the engine needs no comparator of its own.
//
// Internal Mechanisms:
//
//   - Overwrites: Put looks up the node first and assigns the value in place.
//     This keeps the tree shape unchanged and lets Put report whether a value
//     was replaced without a second lookup.
//
//   - Upper bound: AscendAfter finds the ceiling node of the pivot (smallest
//     key >= pivot) in O(log n), skips it when it equals the pivot and then
//     walks the in-order successors with an iterator positioned on that node.
//
// Thread-safety: the engine is not safe for concurrent use.
package rbtree
