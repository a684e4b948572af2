package rbtree

import (
	"github.com/ValentinKolb/sortedkv/lib/tree"
	"github.com/emirpasic/gods/v2/trees/redblacktree"
)

// rbTreeImpl implements tree.Tree on a red-black tree.
// The tree is created with the default comparator for string keys, which
// compares byte-wise.
type rbTreeImpl[V any] struct {
	tree *redblacktree.Tree[string, V]
}

// NewRBTree creates an empty red-black tree engine
func NewRBTree[V any]() tree.Tree[V] {
	return &rbTreeImpl[V]{
		tree: redblacktree.New[string, V](),
	}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see tree.Tree)
// --------------------------------------------------------------------------

func (t *rbTreeImpl[V]) Put(key string, value V) bool {
	// overwrite in place to avoid a second search
	if node := t.tree.GetNode(key); node != nil {
		node.Value = value
		return true
	}
	t.tree.Put(key, value)
	return false
}

func (t *rbTreeImpl[V]) PutIfAbsent(key string, value V) bool {
	if node := t.tree.GetNode(key); node != nil {
		return false
	}
	t.tree.Put(key, value)
	return true
}

func (t *rbTreeImpl[V]) Delete(key string) (V, bool) {
	node := t.tree.GetNode(key)
	if node == nil {
		var zero V
		return zero, false
	}
	value := node.Value
	t.tree.Remove(key)
	return value, true
}

func (t *rbTreeImpl[V]) Clear() {
	t.tree.Clear()
}

func (t *rbTreeImpl[V]) Get(key string) (V, bool) {
	return t.tree.Get(key)
}

func (t *rbTreeImpl[V]) Len() int {
	return t.tree.Size()
}

func (t *rbTreeImpl[V]) Ascend(fn func(key string, value V) bool) {
	it := t.tree.Iterator()
	for it.Next() {
		if !fn(it.Key(), it.Value()) {
			return
		}
	}
}

func (t *rbTreeImpl[V]) AscendAfter(pivot string, fn func(key string, value V) bool) {
	// Ceiling is the smallest key >= pivot, skip it if it is the pivot itself
	node, found := t.tree.Ceiling(pivot)
	if !found {
		return
	}

	it := t.tree.IteratorAt(node)
	if node.Key != pivot && !fn(node.Key, node.Value) {
		return
	}
	for it.Next() {
		if !fn(it.Key(), it.Value()) {
			return
		}
	}
}

func (t *rbTreeImpl[V]) Implementation() tree.Implementation {
	return tree.ImplRBTree
}
