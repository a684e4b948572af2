package btree

import (
	"github.com/ValentinKolb/sortedkv/lib/tree"
	tidwall "github.com/tidwall/btree"
)

// item is the element stored in the B-tree. Only the key takes part in ordering.
type item[V any] struct {
	key   string
	value V
}

func byKey[V any](a, b item[V]) bool {
	return a.key < b.key
}

// bTreeImpl implements tree.Tree on a B-tree.
// The B-tree is created without internal locks; a path hint speeds up
// access patterns that touch neighbouring keys (e.g. sorted bulk loads).
type bTreeImpl[V any] struct {
	tree *tidwall.BTreeG[item[V]]
	hint tidwall.PathHint
}

// NewBTree creates an empty B-tree engine
func NewBTree[V any]() tree.Tree[V] {
	return &bTreeImpl[V]{
		tree: newBTreeG[V](),
	}
}

func newBTreeG[V any]() *tidwall.BTreeG[item[V]] {
	return tidwall.NewBTreeGOptions(byKey[V], tidwall.Options{NoLocks: true})
}

// --------------------------------------------------------------------------
// Interface Methods (docu see tree.Tree)
// --------------------------------------------------------------------------

func (t *bTreeImpl[V]) Put(key string, value V) bool {
	_, replaced := t.tree.SetHint(item[V]{key: key, value: value}, &t.hint)
	return replaced
}

func (t *bTreeImpl[V]) PutIfAbsent(key string, value V) bool {
	if _, ok := t.tree.GetHint(item[V]{key: key}, &t.hint); ok {
		return false
	}
	t.tree.SetHint(item[V]{key: key, value: value}, &t.hint)
	return true
}

func (t *bTreeImpl[V]) Delete(key string) (V, bool) {
	prev, deleted := t.tree.DeleteHint(item[V]{key: key}, &t.hint)
	return prev.value, deleted
}

func (t *bTreeImpl[V]) Clear() {
	t.tree = newBTreeG[V]()
	t.hint = tidwall.PathHint{}
}

func (t *bTreeImpl[V]) Get(key string) (V, bool) {
	found, ok := t.tree.GetHint(item[V]{key: key}, &t.hint)
	return found.value, ok
}

func (t *bTreeImpl[V]) Len() int {
	return t.tree.Len()
}

func (t *bTreeImpl[V]) Ascend(fn func(key string, value V) bool) {
	t.tree.Scan(func(it item[V]) bool {
		return fn(it.key, it.value)
	})
}

func (t *bTreeImpl[V]) AscendAfter(pivot string, fn func(key string, value V) bool) {
	// Ascend starts at the first item >= pivot
	t.tree.Ascend(item[V]{key: pivot}, func(it item[V]) bool {
		if it.key == pivot {
			return true
		}
		return fn(it.key, it.value)
	})
}

func (t *bTreeImpl[V]) Implementation() tree.Implementation {
	return tree.ImplBTree
}
