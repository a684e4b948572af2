package sortedmap

import (
	"errors"
	"fmt"
	"iter"
	"math/rand"
	"slices"
	"testing"

	"github.com/ValentinKolb/sortedkv/lib/tree"
	"github.com/ValentinKolb/sortedkv/lib/tree/engines/btree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// forEachImpl runs fn once per built-in engine
func forEachImpl(t *testing.T, fn func(t *testing.T, impl tree.Implementation)) {
	for _, impl := range tree.Implementations() {
		t.Run(string(impl), func(t *testing.T) {
			fn(t, impl)
		})
	}
}

func sampleMap(t *testing.T, impl tree.Implementation) *Map[int] {
	m, err := NewFromEntries([]Entry[int]{
		{Key: "b", Value: 1},
		{Key: "a", Value: 2},
		{Key: "d", Value: 3},
	}, WithImplementation(impl))
	require.NoError(t, err)
	return m
}

func collect[T any](seq iter.Seq[T]) []T {
	var out []T
	for v := range seq {
		out = append(out, v)
	}
	return out
}

func TestConcreteScenario(t *testing.T) {
	forEachImpl(t, func(t *testing.T, impl tree.Implementation) {
		m := sampleMap(t, impl)

		assert.Equal(t, []string{"a", "b", "d"}, collect(m.Keys().All()))
		assert.Equal(t, []int{2, 1, 3}, collect(m.Values().All()))
		assert.Equal(t, []string{"b", "d"}, collect(m.KeysGreaterThan("a")))
		assert.Equal(t, []string{"d"}, collect(m.KeysGreaterThan("c")))
		assert.Empty(t, collect(m.KeysGreaterThan("d")))

		err := m.Add("a", 9)
		assert.ErrorIs(t, err, ErrDuplicateKey)
		v, err := m.Get("a")
		require.NoError(t, err)
		assert.Equal(t, 2, v)

		m.Set("a", 9)
		v, _ = m.Get("a")
		assert.Equal(t, 9, v)
		assert.Equal(t, 3, m.Count())

		assert.True(t, m.Remove("b"))
		assert.Equal(t, []string{"a", "d"}, collect(m.Keys().All()))
		assert.Equal(t, []string{"d"}, collect(m.KeysGreaterThan("a")))
		assert.False(t, m.Remove("b"))
	})
}

func TestViews(t *testing.T) {
	forEachImpl(t, func(t *testing.T, impl tree.Implementation) {
		t.Run("KeyViewIsReadOnly", func(t *testing.T) {
			m := sampleMap(t, impl)
			keys := m.Keys()

			assert.True(t, keys.IsReadOnly())
			assert.Equal(t, 3, keys.Count())
			assert.True(t, keys.Contains("b"))
			assert.False(t, keys.Contains("c"))

			assert.ErrorIs(t, keys.Add("c"), ErrNotSupported)
			assert.ErrorIs(t, keys.Remove("a"), ErrNotSupported)
			assert.ErrorIs(t, keys.Clear(), ErrNotSupported)
			assert.Equal(t, []string{"a", "b", "d"}, collect(keys.All()))
			assert.Equal(t, 3, m.Count())
		})

		t.Run("KeyViewCopyTo", func(t *testing.T) {
			keys := sampleMap(t, impl).Keys()

			dst := make([]string, 4)
			require.NoError(t, keys.CopyTo(dst, 1))
			assert.Equal(t, []string{"", "a", "b", "d"}, dst)

			assert.ErrorIs(t, keys.CopyTo(nil, 0), ErrInvalidArgument)
			assert.ErrorIs(t, keys.CopyTo(dst, -1), ErrOutOfRange)
			assert.ErrorIs(t, keys.CopyTo(dst, 4), ErrOutOfRange)

			small := []string{"x", "x", "x"}
			assert.ErrorIs(t, keys.CopyTo(small, 1), ErrCapacity)
			assert.Equal(t, []string{"x", "x", "x"}, small)
		})

		t.Run("ValueViewMutation", func(t *testing.T) {
			m := sampleMap(t, impl)
			values := m.Values()

			assert.False(t, values.IsReadOnly())
			assert.Equal(t, 3, values.Count())
			assert.True(t, values.Contains(3))
			assert.False(t, values.Contains(7))

			assert.ErrorIs(t, values.Add(7), ErrNotSupported)
			assert.Equal(t, 3, m.Count())

			assert.False(t, values.Remove(7))
			assert.True(t, values.Remove(1))
			assert.Equal(t, []string{"a", "d"}, collect(m.Keys().All()))

			values.Clear()
			assert.Equal(t, 0, m.Count())
			assert.Equal(t, 0, values.Count())
		})

		t.Run("ValueViewRemovesFirstInKeyOrder", func(t *testing.T) {
			m := New[int](WithImplementation(impl))
			m.Set("c", 5)
			m.Set("a", 5)
			m.Set("b", 6)

			assert.True(t, m.Values().Remove(5))
			assert.Equal(t, []string{"b", "c"}, collect(m.Keys().All()))
		})

		t.Run("ValueViewCopyTo", func(t *testing.T) {
			values := sampleMap(t, impl).Values()

			dst := make([]int, 3)
			require.NoError(t, values.CopyTo(dst, 0))
			assert.Equal(t, []int{2, 1, 3}, dst)

			assert.ErrorIs(t, values.CopyTo(nil, 0), ErrInvalidArgument)
			assert.ErrorIs(t, values.CopyTo(dst, 3), ErrOutOfRange)

			small := []int{-1, -1, -1, -1}
			assert.ErrorIs(t, values.CopyTo(small, 2), ErrCapacity)
			assert.Equal(t, []int{-1, -1, -1, -1}, small)
		})

		t.Run("ViewsAreLive", func(t *testing.T) {
			m := sampleMap(t, impl)
			keys, values := m.Keys(), m.Values()
			after := m.KeysGreaterThan("a")

			m.Set("c", 4)
			assert.Equal(t, 4, keys.Count())
			assert.True(t, keys.Contains("c"))
			assert.True(t, values.Contains(4))
			assert.Equal(t, []string{"b", "c", "d"}, collect(after))

			m.Remove("d")
			assert.Equal(t, []string{"b", "c"}, collect(after))
			assert.Equal(t, []int{2, 1, 4}, collect(values.All()))
		})
	})
}

func TestConstruction(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		m := New[string]()
		assert.Equal(t, 0, m.Count())
		assert.False(t, m.IsReadOnly())
		assert.Equal(t, tree.DefaultImplementation, m.Implementation())
		assert.Empty(t, collect(m.KeysGreaterThan("")))
	})

	t.Run("DuplicateInInput", func(t *testing.T) {
		_, err := NewFromEntries([]Entry[int]{{Key: "x", Value: 1}, {Key: "x", Value: 2}})
		assert.ErrorIs(t, err, ErrDuplicateKey)
	})

	t.Run("FromSeq", func(t *testing.T) {
		src := New[int]()
		src.Set("k1", 1)
		src.Set("k2", 2)

		m, err := NewFromSeq(src.All(), WithImplementation(tree.ImplGBTree))
		require.NoError(t, err)
		assert.Equal(t, tree.ImplGBTree, m.Implementation())
		assert.Equal(t, "map[k1:1 k2:2]", m.String())
	})

	t.Run("UnknownImplementation", func(t *testing.T) {
		_, err := NewFromEntries[int](nil, WithImplementation("skiplist"))
		assert.ErrorIs(t, err, ErrInvalidArgument)
		assert.Panics(t, func() { New[int](WithImplementation("skiplist")) })
	})

	t.Run("InjectedTree", func(t *testing.T) {
		m := New[int](WithTree(btree.NewBTree[int]()))
		assert.Equal(t, tree.ImplBTree, m.Implementation())
	})

	t.Run("InjectedTreeOfWrongType", func(t *testing.T) {
		_, err := NewFromEntries[int](nil, WithTree(btree.NewBTree[string]()))
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})

	t.Run("InjectedTreeNotEmpty", func(t *testing.T) {
		tr := btree.NewBTree[int]()
		tr.Put("x", 1)
		_, err := NewFromEntries[int](nil, WithTree(tr))
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})
}

func TestGetAndTryGet(t *testing.T) {
	forEachImpl(t, func(t *testing.T, impl tree.Implementation) {
		m := sampleMap(t, impl)

		_, err := m.Get("zz")
		assert.ErrorIs(t, err, ErrKeyNotFound)

		var mapErr *Error
		require.True(t, errors.As(err, &mapErr))
		assert.Equal(t, ErrCodeKeyNotFound, mapErr.Code)

		v, ok := m.TryGet("d")
		assert.True(t, ok)
		assert.Equal(t, 3, v)

		_, ok = m.TryGet("zz")
		assert.False(t, ok)
		assert.True(t, m.ContainsKey("a"))
		assert.False(t, m.ContainsKey("A"))
	})
}

func TestAddRejectsDuplicateWithoutChange(t *testing.T) {
	m := New[string]()
	require.NoError(t, m.Add("k", "first"))
	assert.ErrorIs(t, m.Add("k", "second"), ErrDuplicateKey)

	v, _ := m.Get("k")
	assert.Equal(t, "first", v)
	assert.Equal(t, 1, m.Count())
}

func TestEntryOperations(t *testing.T) {
	m := New[[]byte]()
	m.Set("a", []byte("x"))

	assert.True(t, m.Contains("a", []byte("x")))
	assert.False(t, m.Contains("a", []byte("y")))
	assert.False(t, m.Contains("b", []byte("x")))

	assert.False(t, m.RemoveEntry("a", []byte("y")))
	assert.Equal(t, 1, m.Count())
	assert.True(t, m.RemoveEntry("a", []byte("x")))
	assert.Equal(t, 0, m.Count())
}

func TestCustomEqual(t *testing.T) {
	type point struct{ X, Y int }
	byX := func(a, b point) bool { return a.X == b.X }

	m := New[point](WithEqual(byX))
	m.Set("p", point{1, 2})

	assert.True(t, m.Contains("p", point{1, 99}))
	assert.True(t, m.Values().Contains(point{1, 0}))

	_, err := NewFromEntries[point](nil, WithEqual(func(a, b int) bool { return a == b }))
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestDefaultEqual(t *testing.T) {
	assert.True(t, DefaultEqual(1, 1))
	assert.False(t, DefaultEqual(1, 2))
	assert.True(t, DefaultEqual([]int{1, 2}, []int{1, 2}))
	assert.True(t, DefaultEqual[any](nil, nil))
	assert.False(t, DefaultEqual[any](nil, 0))
	assert.False(t, DefaultEqual[any](int32(1), int64(1)))
	assert.True(t, DefaultEqual[any](map[string]int{"a": 1}, map[string]int{"a": 1}))

	// comparable struct type whose interface field holds an uncomparable value
	type payload struct{ Data any }
	assert.True(t, DefaultEqual(payload{Data: []byte("x")}, payload{Data: []byte("x")}))
	assert.False(t, DefaultEqual(payload{Data: []byte("x")}, payload{Data: []byte("y")}))
	assert.False(t, DefaultEqual(payload{Data: 1}, payload{Data: []byte("x")}))
	assert.True(t, DefaultEqual(payload{Data: 1}, payload{Data: 1}))
	assert.True(t, DefaultEqual[any](payload{Data: map[string]int{}}, payload{Data: map[string]int{}}))
}

func TestEqualityOnInterfaceFields(t *testing.T) {
	type payload struct{ Data any }

	forEachImpl(t, func(t *testing.T, impl tree.Implementation) {
		m := New[payload](WithImplementation(impl))
		m.Set("a", payload{Data: []byte("x")})
		m.Set("b", payload{Data: []string{"y"}})

		assert.NotPanics(t, func() {
			assert.True(t, m.Contains("a", payload{Data: []byte("x")}))
			assert.False(t, m.Contains("a", payload{Data: []byte("z")}))
			assert.True(t, m.Values().Contains(payload{Data: []string{"y"}}))

			assert.False(t, m.RemoveEntry("a", payload{Data: "x"}))
			assert.True(t, m.RemoveEntry("a", payload{Data: []byte("x")}))
			assert.True(t, m.Values().Remove(payload{Data: []string{"y"}}))
		})
		assert.Equal(t, 0, m.Count())
	})
}

func TestClear(t *testing.T) {
	forEachImpl(t, func(t *testing.T, impl tree.Implementation) {
		m := sampleMap(t, impl)
		m.Clear()
		assert.Equal(t, 0, m.Count())
		assert.Empty(t, collect(m.Keys().All()))

		m.Set("again", 1)
		assert.Equal(t, 1, m.Count())
	})
}

func TestOrdinalOrdering(t *testing.T) {
	m := New[bool]()
	for _, k := range []string{"b", "a", "B", "ä", "ab", "A", "a b", ""} {
		m.Set(k, true)
	}
	assert.Equal(t, []string{"", "A", "B", "a", "a b", "ab", "b", "ä"}, collect(m.Keys().All()))
}

func TestKeysGreaterThan(t *testing.T) {
	forEachImpl(t, func(t *testing.T, impl tree.Implementation) {
		m := New[int](WithImplementation(impl))
		rng := rand.New(rand.NewSource(7))
		for i := 0; i < 2000; i++ {
			m.Set(fmt.Sprintf("%04d", rng.Intn(5000)), i)
		}
		all := collect(m.Keys().All())
		require.True(t, slices.IsSorted(all))

		for i := 0; i < 100; i++ {
			pivot := fmt.Sprintf("%04d", rng.Intn(5100))
			var want []string
			for _, k := range all {
				if k > pivot {
					want = append(want, k)
				}
			}
			assert.Equal(t, want, collect(m.KeysGreaterThan(pivot)), "pivot %s", pivot)
		}
	})
}

func TestKeysGreaterThanEmptyKey(t *testing.T) {
	m := New[int]()
	m.Set("", 0)
	m.Set("x", 1)

	// the empty key selects everything, including a stored empty key
	assert.Equal(t, []string{"", "x"}, collect(m.KeysGreaterThan("")))
	assert.Equal(t, collect(m.Keys().All()), collect(m.KeysGreaterThan("")))
}

func TestKeysGreaterThanRestartable(t *testing.T) {
	m := sampleMap(t, tree.DefaultImplementation)
	seq := m.KeysGreaterThan("a")

	assert.Equal(t, []string{"b", "d"}, collect(seq))
	assert.Equal(t, []string{"b", "d"}, collect(seq))

	// a new range sees the current state
	m.Set("c", 4)
	assert.Equal(t, []string{"b", "c", "d"}, collect(seq))
}

func TestEntriesGreaterThan(t *testing.T) {
	m := sampleMap(t, tree.DefaultImplementation)

	var got []Entry[int]
	for k, v := range m.EntriesGreaterThan("a") {
		got = append(got, Entry[int]{Key: k, Value: v})
	}
	assert.Equal(t, []Entry[int]{{Key: "b", Value: 1}, {Key: "d", Value: 3}}, got)
}

func TestRoundTrip(t *testing.T) {
	forEachImpl(t, func(t *testing.T, impl tree.Implementation) {
		src := sampleMap(t, impl)
		src.Set("", -1)

		dst, err := NewFromSeq(src.All(), WithImplementation(impl))
		require.NoError(t, err)
		assert.Equal(t, src.String(), dst.String())
		assert.Equal(t, src.Count(), dst.Count())
	})
}

func TestCopyTo(t *testing.T) {
	m := sampleMap(t, tree.DefaultImplementation)

	t.Run("Success", func(t *testing.T) {
		dst := make([]Entry[int], 5)
		require.NoError(t, m.CopyTo(dst, 1))
		assert.Equal(t, []Entry[int]{
			{},
			{Key: "a", Value: 2},
			{Key: "b", Value: 1},
			{Key: "d", Value: 3},
			{},
		}, dst)
	})

	t.Run("Nil", func(t *testing.T) {
		assert.ErrorIs(t, m.CopyTo(nil, 0), ErrInvalidArgument)
	})

	t.Run("OutOfRange", func(t *testing.T) {
		dst := make([]Entry[int], 3)
		assert.ErrorIs(t, m.CopyTo(dst, -1), ErrOutOfRange)
		assert.ErrorIs(t, m.CopyTo(dst, 3), ErrOutOfRange)
	})

	t.Run("TooSmallWritesNothing", func(t *testing.T) {
		dst := make([]Entry[int], 4)
		sentinel := Entry[int]{Key: "untouched", Value: 42}
		for i := range dst {
			dst[i] = sentinel
		}
		assert.ErrorIs(t, m.CopyTo(dst, 2), ErrCapacity)
		for _, e := range dst {
			assert.Equal(t, sentinel, e)
		}
	})

	t.Run("EmptyMapOffsetAtEnd", func(t *testing.T) {
		empty := New[int]()
		assert.ErrorIs(t, empty.CopyTo(make([]Entry[int], 2), 2), ErrOutOfRange)
		assert.NoError(t, empty.CopyTo(make([]Entry[int], 2), 1))
	})
}

func TestFailFastIteration(t *testing.T) {
	forEachImpl(t, func(t *testing.T, impl tree.Implementation) {
		t.Run("InsertPanics", func(t *testing.T) {
			m := sampleMap(t, impl)
			assertConcurrentModification(t, func() {
				for k := range m.All() {
					m.Set(k+"x", 0)
				}
			})
		})

		t.Run("RemovePanics", func(t *testing.T) {
			m := sampleMap(t, impl)
			assertConcurrentModification(t, func() {
				for k := range m.KeysGreaterThan("") {
					m.Remove(k)
				}
			})
		})

		t.Run("ClearPanics", func(t *testing.T) {
			m := sampleMap(t, impl)
			assertConcurrentModification(t, func() {
				for range m.Values().All() {
					m.Clear()
				}
			})
		})

		t.Run("OverwriteIsAllowed", func(t *testing.T) {
			m := sampleMap(t, impl)
			assert.NotPanics(t, func() {
				for k, v := range m.All() {
					m.Set(k, v*10)
				}
			})
			assert.Equal(t, []int{20, 10, 30}, collect(m.Values().All()))
		})

		t.Run("RemoveThenBreak", func(t *testing.T) {
			m := sampleMap(t, impl)
			assert.NotPanics(t, func() {
				for k := range m.KeysGreaterThan("a") {
					m.Remove(k)
					break
				}
			})
			assert.Equal(t, []string{"a", "d"}, collect(m.Keys().All()))
		})
	})
}

func assertConcurrentModification(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected a panic")
		err, ok := r.(error)
		require.True(t, ok, "panic value is not an error: %v", r)
		assert.ErrorIs(t, err, ErrConcurrentModification)
	}()
	fn()
}

func TestInfo(t *testing.T) {
	m := New[int](WithImplementation(tree.ImplBTree))
	for _, k := range []string{"ab", "abcd", "abcdef"} {
		m.Set(k, 0)
	}

	info := m.Info()
	assert.Equal(t, tree.ImplBTree, info.Implementation)
	assert.Equal(t, 3, info.Count)
	assert.Equal(t, 12, info.Keys.TotalBytes)
	assert.Equal(t, 4.0, info.Keys.Stats.Mean)
	assert.Equal(t, 2.0, info.Keys.Stats.Min)
	assert.Equal(t, 6.0, info.Keys.Stats.Max)
	assert.Len(t, info.Keys.Percent, len(info.Keys.Buckets)+1)

	empty := New[int]().Info()
	assert.Equal(t, 0, empty.Count)
	assert.Equal(t, 0, empty.Keys.Median)
}

func TestErrorMessage(t *testing.T) {
	err := New[int]().Add("k", 1)
	assert.NoError(t, err)

	_, err = New[int]().Get("missing")
	assert.EqualError(t, err, `sortedmap (code KeyNotFound): key "missing" not found`)
	assert.NotErrorIs(t, err, ErrDuplicateKey)
}
