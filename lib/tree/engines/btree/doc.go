// Package btree implements tree.Tree on github.com/tidwall/btree.
//
// The B-tree is created with NoLocks since callers synchronise access
// themselves. Point operations share one PathHint, which makes sequential
// access (sorted loads, paging) cheaper.
package btree
