package gbtree

import (
	"github.com/ValentinKolb/sortedkv/lib/tree"
	google "github.com/google/btree"
)

// DefaultDegree is the B-tree degree used by NewGBTree
const DefaultDegree = 32

// item carries a pointer to the value so that overwrites never go through
// ReplaceOrInsert, which may split nodes on its way down.
type item[V any] struct {
	key   string
	value *V
}

func byKey[V any](a, b item[V]) bool {
	return a.key < b.key
}

// gbTreeImpl implements tree.Tree on a B-tree with a free list.
// Cleared nodes are returned to the free list so that a map that is filled
// and cleared repeatedly does not allocate on every refill.
type gbTreeImpl[V any] struct {
	tree *google.BTreeG[item[V]]
}

// NewGBTree creates an empty B-tree engine with DefaultDegree
func NewGBTree[V any]() tree.Tree[V] {
	return NewGBTreeWithDegree[V](DefaultDegree)
}

// NewGBTreeWithDegree creates an empty B-tree engine with the given degree.
// A degree below 2 falls back to DefaultDegree.
func NewGBTreeWithDegree[V any](degree int) tree.Tree[V] {
	if degree < 2 {
		degree = DefaultDegree
	}
	return &gbTreeImpl[V]{
		tree: google.NewG[item[V]](degree, byKey[V]),
	}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see tree.Tree)
// --------------------------------------------------------------------------

func (t *gbTreeImpl[V]) Put(key string, value V) bool {
	if found, ok := t.tree.Get(item[V]{key: key}); ok {
		*found.value = value
		return true
	}
	t.tree.ReplaceOrInsert(item[V]{key: key, value: &value})
	return false
}

func (t *gbTreeImpl[V]) PutIfAbsent(key string, value V) bool {
	if t.tree.Has(item[V]{key: key}) {
		return false
	}
	t.tree.ReplaceOrInsert(item[V]{key: key, value: &value})
	return true
}

func (t *gbTreeImpl[V]) Delete(key string) (V, bool) {
	prev, deleted := t.tree.Delete(item[V]{key: key})
	if !deleted {
		var zero V
		return zero, false
	}
	return *prev.value, true
}

func (t *gbTreeImpl[V]) Clear() {
	t.tree.Clear(true)
}

func (t *gbTreeImpl[V]) Get(key string) (V, bool) {
	found, ok := t.tree.Get(item[V]{key: key})
	if !ok {
		var zero V
		return zero, false
	}
	return *found.value, true
}

func (t *gbTreeImpl[V]) Len() int {
	return t.tree.Len()
}

func (t *gbTreeImpl[V]) Ascend(fn func(key string, value V) bool) {
	t.tree.Ascend(func(it item[V]) bool {
		return fn(it.key, *it.value)
	})
}

func (t *gbTreeImpl[V]) AscendAfter(pivot string, fn func(key string, value V) bool) {
	t.tree.AscendGreaterOrEqual(item[V]{key: pivot}, func(it item[V]) bool {
		if it.key == pivot {
			return true
		}
		return fn(it.key, *it.value)
	})
}

func (t *gbTreeImpl[V]) Implementation() tree.Implementation {
	return tree.ImplGBTree
}
