package sortedmap

import "iter"

// --------------------------------------------------------------------------
// KeyView
// --------------------------------------------------------------------------

// KeyView is a read-only live view of the keys of a Map.
// Add, Remove and Clear fail with ErrNotSupported and leave the map unchanged.
type KeyView[V any] struct {
	m *Map[V]
}

// Count returns the number of keys
func (kv *KeyView[V]) Count() int {
	return kv.m.Count()
}

// IsReadOnly is always true
func (kv *KeyView[V]) IsReadOnly() bool {
	return true
}

// Contains reports whether key is present in the map
func (kv *KeyView[V]) Contains(key string) bool {
	return kv.m.ContainsKey(key)
}

// All returns the keys in ascending order
func (kv *KeyView[V]) All() iter.Seq[string] {
	return kv.m.KeysGreaterThan("")
}

// CopyTo writes the keys in ascending order into dst starting at offset.
// It validates like Map.CopyTo.
func (kv *KeyView[V]) CopyTo(dst []string, offset int) error {
	if err := checkCopyTarget(dst == nil, len(dst), offset, kv.m.Count()); err != nil {
		return err
	}
	i := offset
	for k := range kv.All() {
		dst[i] = k
		i++
	}
	return nil
}

// Add always fails with ErrNotSupported
func (kv *KeyView[V]) Add(string) error {
	return newErrorf(ErrCodeNotSupported, "mutating a key view is not supported")
}

// Remove always fails with ErrNotSupported
func (kv *KeyView[V]) Remove(string) error {
	return newErrorf(ErrCodeNotSupported, "mutating a key view is not supported")
}

// Clear always fails with ErrNotSupported
func (kv *KeyView[V]) Clear() error {
	return newErrorf(ErrCodeNotSupported, "mutating a key view is not supported")
}

// --------------------------------------------------------------------------
// ValueView
// --------------------------------------------------------------------------

// ValueView is a live view of the values of a Map in key order.
// Remove and Clear write through to the map. Add is not supported since a
// value alone has no key to be stored under.
type ValueView[V any] struct {
	m *Map[V]
}

// Count returns the number of values
func (vv *ValueView[V]) Count() int {
	return vv.m.Count()
}

// IsReadOnly is always false
func (vv *ValueView[V]) IsReadOnly() bool {
	return false
}

// Contains reports whether any entry holds a value equal to value. O(n).
func (vv *ValueView[V]) Contains(value V) bool {
	_, found := vv.firstKeyOf(value)
	return found
}

// All returns the values in ascending key order
func (vv *ValueView[V]) All() iter.Seq[V] {
	return func(yield func(V) bool) {
		vv.m.ascend("", func(_ string, v V) bool {
			return yield(v)
		})
	}
}

// CopyTo writes the values in key order into dst starting at offset.
// It validates like Map.CopyTo.
func (vv *ValueView[V]) CopyTo(dst []V, offset int) error {
	if err := checkCopyTarget(dst == nil, len(dst), offset, vv.m.Count()); err != nil {
		return err
	}
	i := offset
	for v := range vv.All() {
		dst[i] = v
		i++
	}
	return nil
}

// Add always fails with ErrNotSupported
func (vv *ValueView[V]) Add(V) error {
	return newErrorf(ErrCodeNotSupported, "values cannot be added without a key")
}

// Remove deletes the first entry, in key order, whose value equals value
func (vv *ValueView[V]) Remove(value V) bool {
	key, found := vv.firstKeyOf(value)
	if !found {
		return false
	}
	return vv.m.Remove(key)
}

// Clear removes all entries of the map
func (vv *ValueView[V]) Clear() {
	vv.m.Clear()
}

func (vv *ValueView[V]) firstKeyOf(value V) (key string, found bool) {
	vv.m.tree.Ascend(func(k string, v V) bool {
		if vv.m.equal(v, value) {
			key, found = k, true
			return false
		}
		return true
	})
	return key, found
}
