package children

import (
	"fmt"
	"slices"
	"strings"

	"github.com/ValentinKolb/sortedkv/lib/logging"
	"github.com/ValentinKolb/sortedkv/lib/sortedmap"
	"github.com/ValentinKolb/sortedkv/lib/syncmap"
	"github.com/lni/dragonboat/v4/logger"
)

// Kind identifies the representation an Index currently uses
type Kind int

const (
	KindSmall  Kind = iota // sorted slice, binary search
	KindHash               // Go map, unordered
	KindSorted             // syncmap.Map, ordered
)

func (k Kind) String() string {
	switch k {
	case KindSmall:
		return "small"
	case KindHash:
		return "hash"
	case KindSorted:
		return "sorted"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Index stores the children of one node keyed by child name and picks its
// representation by size. Exactly one of small, hash and sorted is in use.
//
// Thread-safety: an Index is not safe for concurrent use. The sorted tier is
// a syncmap.Map, so a caller may hand it out to concurrent readers via
// Sorted while it keeps writes to the Index serialised.
type Index[V any] struct {
	name string
	opts Options
	kind Kind

	small  []sortedmap.Entry[V]
	hash   map[string]V
	sorted *syncmap.Map[V]
}

// New creates an empty index. The name labels log lines and the metrics of
// the sorted tier.
func New[V any](name string, opts Options) (*Index[V], error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid children index options: %w", err)
	}
	return &Index[V]{
		name: name,
		opts: opts,
		kind: KindSmall,
	}, nil
}

// Kind returns the current representation
func (ix *Index[V]) Kind() Kind {
	return ix.kind
}

// Count returns the number of children
func (ix *Index[V]) Count() int {
	switch ix.kind {
	case KindHash:
		return len(ix.hash)
	case KindSorted:
		return ix.sorted.Count()
	default:
		return len(ix.small)
	}
}

// Sorted returns the sorted tier, or nil if the index uses another representation
func (ix *Index[V]) Sorted() *syncmap.Map[V] {
	return ix.sorted
}

// --------------------------------------------------------------------------
// Point Operations
// --------------------------------------------------------------------------

// Get returns the child stored under name
func (ix *Index[V]) Get(name string) (V, bool) {
	switch ix.kind {
	case KindHash:
		v, ok := ix.hash[name]
		return v, ok
	case KindSorted:
		return ix.sorted.TryGet(name)
	default:
		if i, found := ix.searchSmall(name); found {
			return ix.small[i].Value, true
		}
		var zero V
		return zero, false
	}
}

// Add inserts a new child. An existing name fails with sortedmap.ErrDuplicateKey.
func (ix *Index[V]) Add(name string, value V) error {
	switch ix.kind {
	case KindHash:
		if _, ok := ix.hash[name]; ok {
			return duplicate(name)
		}
		ix.hash[name] = value
	case KindSorted:
		if err := ix.sorted.Add(name, value); err != nil {
			return err
		}
	default:
		i, found := ix.searchSmall(name)
		if found {
			return duplicate(name)
		}
		ix.small = slices.Insert(ix.small, i, sortedmap.Entry[V]{Key: name, Value: value})
	}
	ix.maybeUpscale()
	return nil
}

// Set inserts or replaces a child
func (ix *Index[V]) Set(name string, value V) {
	switch ix.kind {
	case KindHash:
		ix.hash[name] = value
	case KindSorted:
		ix.sorted.Set(name, value)
	default:
		if i, found := ix.searchSmall(name); found {
			ix.small[i].Value = value
		} else {
			ix.small = slices.Insert(ix.small, i, sortedmap.Entry[V]{Key: name, Value: value})
		}
	}
	ix.maybeUpscale()
}

// Remove deletes a child and reports whether it was present
func (ix *Index[V]) Remove(name string) bool {
	switch ix.kind {
	case KindHash:
		if _, ok := ix.hash[name]; !ok {
			return false
		}
		delete(ix.hash, name)
	case KindSorted:
		if !ix.sorted.Remove(name) {
			return false
		}
	default:
		i, found := ix.searchSmall(name)
		if !found {
			return false
		}
		ix.small = slices.Delete(ix.small, i, i+1)
	}
	ix.maybeDownscale()
	return true
}

func duplicate(name string) error {
	return sortedmap.NewError(sortedmap.ErrCodeDuplicateKey, fmt.Sprintf("child %q already exists", name))
}

func (ix *Index[V]) searchSmall(name string) (int, bool) {
	return slices.BinarySearchFunc(ix.small, name, func(e sortedmap.Entry[V], target string) int {
		return strings.Compare(e.Key, target)
	})
}

// --------------------------------------------------------------------------
// Listing
// --------------------------------------------------------------------------

// SortedChildren returns at most limit child names strictly greater than
// startAfter, in ordinal order. An empty startAfter lists from the first
// child, a limit <= 0 means no limit.
func (ix *Index[V]) SortedChildren(startAfter string, limit int) []string {
	switch ix.kind {
	case KindSorted:
		return ix.sorted.KeysGreaterThan(startAfter, limit)
	case KindHash:
		names := make([]string, 0, len(ix.hash))
		for name := range ix.hash {
			if startAfter == "" || name > startAfter {
				names = append(names, name)
			}
		}
		slices.Sort(names)
		return truncate(names, limit)
	default:
		start := 0
		if startAfter != "" {
			i, found := ix.searchSmall(startAfter)
			if found {
				i++
			}
			start = i
		}
		names := make([]string, 0, len(ix.small)-start)
		for _, e := range ix.small[start:] {
			names = append(names, e.Key)
		}
		return truncate(names, limit)
	}
}

func truncate(names []string, limit int) []string {
	if limit > 0 && len(names) > limit {
		return names[:limit]
	}
	return names
}

// --------------------------------------------------------------------------
// Representation changes
// --------------------------------------------------------------------------

// maybeUpscale moves to a larger representation after growth. It never moves
// down, so a sorted tier that shrank into the hysteresis band stays sorted.
func (ix *Index[V]) maybeUpscale() {
	n := ix.Count()
	switch {
	case n > ix.opts.MaxHash && ix.kind != KindSorted:
		ix.convert(KindSorted)
	case n > ix.opts.MaxSmall && ix.kind == KindSmall:
		ix.convert(KindHash)
	}
}

// maybeDownscale moves to a smaller representation after shrinking
func (ix *Index[V]) maybeDownscale() {
	n := ix.Count()
	switch {
	case n < ix.opts.MinSmall && ix.kind != KindSmall:
		ix.convert(KindSmall)
	case n < ix.opts.MinHash && ix.kind == KindSorted:
		ix.convert(KindHash)
	}
}

// convert rebuilds the children in the target representation
func (ix *Index[V]) convert(target Kind) {
	from := ix.kind
	entries := ix.entries()

	ix.small, ix.hash, ix.sorted = nil, nil, nil
	switch target {
	case KindSmall:
		slices.SortFunc(entries, func(a, b sortedmap.Entry[V]) int {
			return strings.Compare(a.Key, b.Key)
		})
		ix.small = entries
	case KindHash:
		ix.hash = make(map[string]V, len(entries))
		for _, e := range entries {
			ix.hash[e.Key] = e.Value
		}
	case KindSorted:
		m := syncmap.New[V](ix.name, sortedmap.WithImplementation(ix.opts.Implementation))
		// keys are unique in every tier, so the batch cannot fail
		_ = m.Update(func(inner *sortedmap.Map[V]) error {
			for _, e := range entries {
				inner.Set(e.Key, e.Value)
			}
			return nil
		})
		ix.sorted = m
	}
	ix.kind = target

	logger.GetLogger(logging.PkgChildren).Debugf("index %q switched from %s to %s at %d children", ix.name, from, target, len(entries))
}

// entries returns all children, unordered for the hash tier
func (ix *Index[V]) entries() []sortedmap.Entry[V] {
	switch ix.kind {
	case KindHash:
		out := make([]sortedmap.Entry[V], 0, len(ix.hash))
		for k, v := range ix.hash {
			out = append(out, sortedmap.Entry[V]{Key: k, Value: v})
		}
		return out
	case KindSorted:
		return ix.sorted.Snapshot()
	default:
		return slices.Clone(ix.small)
	}
}
