package syncmap

import (
	"iter"

	"github.com/ValentinKolb/sortedkv/lib/logging"
	"github.com/ValentinKolb/sortedkv/lib/sortedmap"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/puzpuzpuz/xsync/v3"
)

// Map is a sortedmap.Map guarded by a reader-biased RW lock.
// Read operations take the reader side, write operations the writer side.
//
// Thread-safety: all methods are safe for concurrent use. The sequence
// returned by All holds the reader lock until the range ends, so the loop
// body must not call write methods of the same Map (it would deadlock).
type Map[V any] struct {
	name    string
	mu      *xsync.RBMutex
	m       *sortedmap.Map[V]
	metrics *mapMetrics
}

// New creates an empty concurrent map. The name labels the map's metrics.
// Options are passed on to sortedmap.New and panic the same way.
func New[V any](name string, opts ...sortedmap.Option) *Map[V] {
	return wrap(name, sortedmap.New[V](opts...))
}

// NewFromEntries creates a concurrent map holding the given entries
func NewFromEntries[V any](name string, entries []sortedmap.Entry[V], opts ...sortedmap.Option) (*Map[V], error) {
	m, err := sortedmap.NewFromEntries(entries, opts...)
	if err != nil {
		return nil, err
	}
	return wrap(name, m), nil
}

func wrap[V any](name string, m *sortedmap.Map[V]) *Map[V] {
	logger.GetLogger(logging.PkgSyncMap).Debugf("created map %q (%s, %d entries)", name, m.Implementation(), m.Count())
	return &Map[V]{
		name:    name,
		mu:      xsync.NewRBMutex(),
		m:       m,
		metrics: newMapMetrics(name),
	}
}

// Name returns the metrics label of the map
func (s *Map[V]) Name() string {
	return s.name
}

// --------------------------------------------------------------------------
// Locking helpers
// --------------------------------------------------------------------------

func (s *Map[V]) read(op string, fn func(m *sortedmap.Map[V])) {
	s.metrics.inc(op)
	t := s.mu.RLock()
	defer s.mu.RUnlock(t)
	fn(s.m)
}

func (s *Map[V]) write(op string, fn func(m *sortedmap.Map[V])) {
	s.metrics.inc(op)
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.m)
}

// --------------------------------------------------------------------------
// Read Operations
// --------------------------------------------------------------------------

func (s *Map[V]) Get(key string) (value V, err error) {
	s.read(opGet, func(m *sortedmap.Map[V]) {
		value, err = m.Get(key)
	})
	return value, err
}

func (s *Map[V]) TryGet(key string) (value V, ok bool) {
	s.read(opGet, func(m *sortedmap.Map[V]) {
		value, ok = m.TryGet(key)
	})
	return value, ok
}

func (s *Map[V]) ContainsKey(key string) (ok bool) {
	s.read(opContains, func(m *sortedmap.Map[V]) {
		ok = m.ContainsKey(key)
	})
	return ok
}

func (s *Map[V]) Contains(key string, value V) (ok bool) {
	s.read(opContains, func(m *sortedmap.Map[V]) {
		ok = m.Contains(key, value)
	})
	return ok
}

func (s *Map[V]) Count() (n int) {
	s.read(opCount, func(m *sortedmap.Map[V]) {
		n = m.Count()
	})
	return n
}

// IsReadOnly is always false
func (s *Map[V]) IsReadOnly() bool {
	return false
}

// Info returns the statistics of the underlying map
func (s *Map[V]) Info() (info sortedmap.Info) {
	s.read(opInfo, func(m *sortedmap.Map[V]) {
		info = m.Info()
	})
	return info
}

// String formats the map like sortedmap.Map.String
func (s *Map[V]) String() (str string) {
	s.read(opSnapshot, func(m *sortedmap.Map[V]) {
		str = m.String()
	})
	return str
}

// --------------------------------------------------------------------------
// Ordered Reads
// --------------------------------------------------------------------------

// All returns the entries in key order. The reader lock is held while the
// sequence is ranged over.
func (s *Map[V]) All() iter.Seq2[string, V] {
	return func(yield func(string, V) bool) {
		s.read(opIterate, func(m *sortedmap.Map[V]) {
			for k, v := range m.All() {
				if !yield(k, v) {
					return
				}
			}
		})
	}
}

// Snapshot copies all entries in key order
func (s *Map[V]) Snapshot() (entries []sortedmap.Entry[V]) {
	s.read(opSnapshot, func(m *sortedmap.Map[V]) {
		entries = make([]sortedmap.Entry[V], 0, m.Count())
		for k, v := range m.All() {
			entries = append(entries, sortedmap.Entry[V]{Key: k, Value: v})
		}
	})
	return entries
}

// KeysGreaterThan returns at most limit keys strictly greater than key, in
// ascending order. An empty key selects all keys, a limit <= 0 means no limit.
func (s *Map[V]) KeysGreaterThan(key string, limit int) []string {
	var keys []string
	s.read(opRange, func(m *sortedmap.Map[V]) {
		for k := range m.KeysGreaterThan(key) {
			if limit > 0 && len(keys) >= limit {
				break
			}
			keys = append(keys, k)
		}
	})
	s.metrics.observeRange(len(keys))
	return keys
}

// EntriesGreaterThan is KeysGreaterThan with the values
func (s *Map[V]) EntriesGreaterThan(key string, limit int) []sortedmap.Entry[V] {
	var entries []sortedmap.Entry[V]
	s.read(opRange, func(m *sortedmap.Map[V]) {
		for k, v := range m.EntriesGreaterThan(key) {
			if limit > 0 && len(entries) >= limit {
				break
			}
			entries = append(entries, sortedmap.Entry[V]{Key: k, Value: v})
		}
	})
	s.metrics.observeRange(len(entries))
	return entries
}

// View runs fn under the reader lock. fn must not modify the map.
func (s *Map[V]) View(fn func(m *sortedmap.Map[V])) {
	s.read(opView, fn)
}

// --------------------------------------------------------------------------
// Write Operations
// --------------------------------------------------------------------------

func (s *Map[V]) Set(key string, value V) {
	s.write(opSet, func(m *sortedmap.Map[V]) {
		m.Set(key, value)
	})
}

func (s *Map[V]) Add(key string, value V) (err error) {
	s.write(opAdd, func(m *sortedmap.Map[V]) {
		err = m.Add(key, value)
	})
	return err
}

func (s *Map[V]) Remove(key string) (removed bool) {
	s.write(opRemove, func(m *sortedmap.Map[V]) {
		removed = m.Remove(key)
	})
	return removed
}

func (s *Map[V]) RemoveEntry(key string, value V) (removed bool) {
	s.write(opRemove, func(m *sortedmap.Map[V]) {
		removed = m.RemoveEntry(key, value)
	})
	return removed
}

func (s *Map[V]) Clear() {
	s.write(opClear, func(m *sortedmap.Map[V]) {
		m.Clear()
	})
}

// Update runs fn under the writer lock, so a batch of changes becomes
// visible to readers at once. The error of fn is returned as is; changes
// made before the error are not rolled back.
func (s *Map[V]) Update(fn func(m *sortedmap.Map[V]) error) (err error) {
	s.write(opUpdate, func(m *sortedmap.Map[V]) {
		err = fn(m)
	})
	return err
}
