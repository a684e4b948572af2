package testing

import (
	"fmt"
	"math/rand"
	"slices"
	"testing"

	"github.com/ValentinKolb/sortedkv/lib/tree"
)

// TreeFactory is a function that creates a new, empty instance of a tree engine
type TreeFactory func() tree.Tree[string]

// RunTreeTests runs the conformance suite for a tree engine.
func RunTreeTests(t *testing.T, name string, factory TreeFactory) {
	t.Run(name, func(t *testing.T) {
		t.Run("Put&Get", func(t *testing.T) {
			testPutGet(t, factory())
		})

		t.Run("PutIfAbsent", func(t *testing.T) {
			testPutIfAbsent(t, factory())
		})

		t.Run("Delete", func(t *testing.T) {
			testDelete(t, factory())
		})

		t.Run("Clear", func(t *testing.T) {
			testClear(t, factory())
		})

		t.Run("OrdinalOrder", func(t *testing.T) {
			testOrdinalOrder(t, factory())
		})

		t.Run("AscendAfter", func(t *testing.T) {
			testAscendAfter(t, factory())
		})

		t.Run("OverwriteDuringAscend", func(t *testing.T) {
			testOverwriteDuringAscend(t, factory())
		})

		t.Run("EarlyStop", func(t *testing.T) {
			testEarlyStop(t, factory())
		})

		t.Run("EdgeCases", func(t *testing.T) {
			testEdgeCases(t, factory())
		})

		t.Run("RandomizedAgainstModel", func(t *testing.T) {
			testRandomizedAgainstModel(t, factory())
		})

		t.Run("RealisticUsage", func(t *testing.T) {
			testRealisticUsage(t, factory())
		})
	})
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func collectKeys(tr tree.Tree[string]) []string {
	keys := make([]string, 0, tr.Len())
	tr.Ascend(func(key string, _ string) bool {
		keys = append(keys, key)
		return true
	})
	return keys
}

func collectAfter(tr tree.Tree[string], pivot string) []string {
	var keys []string
	tr.AscendAfter(pivot, func(key string, _ string) bool {
		keys = append(keys, key)
		return true
	})
	return keys
}

// greaterThan filters a sorted key slice with the ordinal > relation
func greaterThan(sorted []string, pivot string) []string {
	var out []string
	for _, k := range sorted {
		if k > pivot {
			out = append(out, k)
		}
	}
	return out
}

// --------------------------------------------------------------------------
// Test functions
// --------------------------------------------------------------------------

func testPutGet(t *testing.T, tr tree.Tree[string]) {
	if replaced := tr.Put("key", "value1"); replaced {
		t.Errorf("Put of a new key reported a replacement")
	}

	value, found := tr.Get("key")
	if !found {
		t.Fatalf("Expected key to exist after Put")
	}
	if value != "value1" {
		t.Errorf("Expected value %q, got %q", "value1", value)
	}

	if replaced := tr.Put("key", "value2"); !replaced {
		t.Errorf("Put of an existing key did not report a replacement")
	}

	value, _ = tr.Get("key")
	if value != "value2" {
		t.Errorf("Expected overwritten value %q, got %q", "value2", value)
	}
	if tr.Len() != 1 {
		t.Errorf("Expected length 1 after overwrite, got %d", tr.Len())
	}

	if _, found := tr.Get("missing"); found {
		t.Errorf("Expected missing key to be absent")
	}
}

func testPutIfAbsent(t *testing.T, tr tree.Tree[string]) {
	if inserted := tr.PutIfAbsent("key", "first"); !inserted {
		t.Errorf("PutIfAbsent of a new key was not inserted")
	}
	if inserted := tr.PutIfAbsent("key", "second"); inserted {
		t.Errorf("PutIfAbsent of an existing key reported an insert")
	}

	value, _ := tr.Get("key")
	if value != "first" {
		t.Errorf("PutIfAbsent overwrote the value: got %q", value)
	}
	if tr.Len() != 1 {
		t.Errorf("Expected length 1, got %d", tr.Len())
	}
}

func testDelete(t *testing.T, tr tree.Tree[string]) {
	tr.Put("a", "1")
	tr.Put("b", "2")

	value, deleted := tr.Delete("a")
	if !deleted {
		t.Fatalf("Expected Delete to report success")
	}
	if value != "1" {
		t.Errorf("Expected deleted value %q, got %q", "1", value)
	}
	if _, found := tr.Get("a"); found {
		t.Errorf("Expected key to be absent after Delete")
	}
	if tr.Len() != 1 {
		t.Errorf("Expected length 1 after Delete, got %d", tr.Len())
	}

	if _, deleted := tr.Delete("a"); deleted {
		t.Errorf("Deleting an absent key reported success")
	}
	if _, deleted := tr.Delete("nonexistent"); deleted {
		t.Errorf("Deleting a never inserted key reported success")
	}
}

func testClear(t *testing.T, tr tree.Tree[string]) {
	for i := 0; i < 100; i++ {
		tr.Put(fmt.Sprintf("key-%03d", i), "v")
	}
	tr.Clear()

	if tr.Len() != 0 {
		t.Errorf("Expected length 0 after Clear, got %d", tr.Len())
	}
	if keys := collectKeys(tr); len(keys) != 0 {
		t.Errorf("Expected no keys after Clear, got %v", keys)
	}

	// the tree must be usable after a clear
	tr.Put("again", "v")
	if tr.Len() != 1 {
		t.Errorf("Expected length 1 after reuse, got %d", tr.Len())
	}

	tr.Clear()
	tr.Clear()
	if tr.Len() != 0 {
		t.Errorf("Expected length 0 after double Clear, got %d", tr.Len())
	}
}

func testOrdinalOrder(t *testing.T, tr tree.Tree[string]) {
	// byte-wise order: uppercase before lowercase, multi-byte UTF-8 last,
	// a prefix before its extensions
	input := []string{"b", "a", "B", "é", "ab", "", "Z", "a\x00", "z", "~"}
	for _, k := range input {
		tr.Put(k, k)
	}

	expected := []string{"", "B", "Z", "a", "a\x00", "ab", "b", "z", "~", "é"}
	keys := collectKeys(tr)
	if !slices.Equal(keys, expected) {
		t.Errorf("Expected order %q, got %q", expected, keys)
	}
}

func testAscendAfter(t *testing.T, tr tree.Tree[string]) {
	for _, k := range []string{"a", "c", "e", "g"} {
		tr.Put(k, k)
	}

	cases := []struct {
		pivot    string
		expected []string
	}{
		{"", []string{"a", "c", "e", "g"}},
		{"a", []string{"c", "e", "g"}},
		{"b", []string{"c", "e", "g"}},
		{"c", []string{"e", "g"}},
		{"f", []string{"g"}},
		{"g", nil},
		{"h", nil},
		{"0", []string{"a", "c", "e", "g"}},
	}

	for _, c := range cases {
		keys := collectAfter(tr, c.pivot)
		if !slices.Equal(keys, c.expected) {
			t.Errorf("AscendAfter(%q): expected %q, got %q", c.pivot, c.expected, keys)
		}
	}

	// a stored empty key is not strictly greater than the empty pivot
	tr.Put("", "empty")
	keys := collectAfter(tr, "")
	if slices.Contains(keys, "") {
		t.Errorf("AscendAfter(\"\") must not yield the empty key, got %q", keys)
	}
}

func testOverwriteDuringAscend(t *testing.T, tr tree.Tree[string]) {
	// enough keys for several levels in every engine
	const n = 5000
	for i := 0; i < n; i++ {
		tr.Put(fmt.Sprintf("key-%05d", i), "old")
	}

	visited := 0
	tr.Ascend(func(key string, _ string) bool {
		tr.Put(key, "new")
		visited++
		return true
	})
	if visited != n {
		t.Fatalf("Expected %d visits while overwriting, got %d", n, visited)
	}

	stale := 0
	tr.Ascend(func(_ string, value string) bool {
		if value != "new" {
			stale++
		}
		return true
	})
	if stale != 0 {
		t.Errorf("Expected all values overwritten, %d are stale", stale)
	}

	visited = 0
	tr.AscendAfter("key-02499", func(key string, _ string) bool {
		tr.Put(key, "newer")
		visited++
		return true
	})
	if visited != n/2 {
		t.Errorf("Expected %d visits after pivot, got %d", n/2, visited)
	}
}

func testEarlyStop(t *testing.T, tr tree.Tree[string]) {
	for i := 0; i < 50; i++ {
		tr.Put(fmt.Sprintf("k%02d", i), "v")
	}

	calls := 0
	tr.Ascend(func(string, string) bool {
		calls++
		return calls < 5
	})
	if calls != 5 {
		t.Errorf("Ascend: expected 5 calls before stop, got %d", calls)
	}

	calls = 0
	var first string
	tr.AscendAfter("k10", func(key string, _ string) bool {
		if calls == 0 {
			first = key
		}
		calls++
		return false
	})
	if calls != 1 {
		t.Errorf("AscendAfter: expected 1 call before stop, got %d", calls)
	}
	if first != "k11" {
		t.Errorf("AscendAfter: expected first key k11, got %q", first)
	}
}

func testEdgeCases(t *testing.T, tr tree.Tree[string]) {
	// empty tree
	if tr.Len() != 0 {
		t.Errorf("New tree should be empty, has length %d", tr.Len())
	}
	if keys := collectKeys(tr); len(keys) != 0 {
		t.Errorf("Ascend on empty tree yielded %q", keys)
	}
	if keys := collectAfter(tr, ""); len(keys) != 0 {
		t.Errorf("AscendAfter on empty tree yielded %q", keys)
	}
	if _, deleted := tr.Delete(""); deleted {
		t.Errorf("Delete on empty tree reported success")
	}

	// empty key and empty value
	tr.Put("", "")
	value, found := tr.Get("")
	if !found || value != "" {
		t.Errorf("Expected empty key with empty value, got %q, %v", value, found)
	}

	// large key
	largeKey := string(make([]byte, 64*1024))
	tr.Put(largeKey, "large")
	if value, _ := tr.Get(largeKey); value != "large" {
		t.Errorf("Expected value for large key, got %q", value)
	}

	// single element ranges
	tr.Clear()
	tr.Put("only", "v")
	if keys := collectAfter(tr, "only"); len(keys) != 0 {
		t.Errorf("AscendAfter(max) yielded %q", keys)
	}
	if keys := collectAfter(tr, "onl"); !slices.Equal(keys, []string{"only"}) {
		t.Errorf("AscendAfter(prefix) expected [only], got %q", keys)
	}
}

func testRandomizedAgainstModel(t *testing.T, tr tree.Tree[string]) {
	rng := rand.New(rand.NewSource(42))
	model := make(map[string]string)

	for i := 0; i < 5000; i++ {
		key := fmt.Sprintf("%x", rng.Intn(800))
		switch rng.Intn(4) {
		case 0, 1:
			value := fmt.Sprintf("v%d", i)
			_, existed := model[key]
			if replaced := tr.Put(key, value); replaced != existed {
				t.Fatalf("Put(%q): replaced=%v, model existed=%v", key, replaced, existed)
			}
			model[key] = value
		case 2:
			_, existed := model[key]
			if inserted := tr.PutIfAbsent(key, "pia"); inserted == existed {
				t.Fatalf("PutIfAbsent(%q): inserted=%v, model existed=%v", key, inserted, existed)
			}
			if !existed {
				model[key] = "pia"
			}
		case 3:
			expected, existed := model[key]
			value, deleted := tr.Delete(key)
			if deleted != existed || (deleted && value != expected) {
				t.Fatalf("Delete(%q): got (%q, %v), expected (%q, %v)", key, value, deleted, expected, existed)
			}
			delete(model, key)
		}
	}

	if tr.Len() != len(model) {
		t.Fatalf("Expected length %d, got %d", len(model), tr.Len())
	}

	expectedKeys := make([]string, 0, len(model))
	for k := range model {
		expectedKeys = append(expectedKeys, k)
	}
	slices.Sort(expectedKeys)

	keys := collectKeys(tr)
	if !slices.Equal(keys, expectedKeys) {
		t.Fatalf("Ascend does not match the sorted model")
	}
	for _, k := range keys {
		if value, _ := tr.Get(k); value != model[k] {
			t.Errorf("Get(%q): expected %q, got %q", k, model[k], value)
		}
	}

	// upper bound for present and absent pivots
	for i := 0; i < 200; i++ {
		pivot := fmt.Sprintf("%x", rng.Intn(900))
		if got, want := collectAfter(tr, pivot), greaterThan(expectedKeys, pivot); !slices.Equal(got, want) {
			t.Fatalf("AscendAfter(%q): expected %d keys, got %d", pivot, len(want), len(got))
		}
	}
}

// testRealisticUsage pages through the tree the way a directory listing does:
// every page starts after the last key of the previous page.
func testRealisticUsage(t *testing.T, tr tree.Tree[string]) {
	const numChildren = 1000
	const pageSize = 37

	for i := numChildren - 1; i >= 0; i-- {
		tr.Put(fmt.Sprintf("/services/node-%04d", i), fmt.Sprintf("data-%d", i))
	}

	var listed []string
	last := ""
	for {
		page := make([]string, 0, pageSize)
		tr.AscendAfter(last, func(key string, _ string) bool {
			page = append(page, key)
			return len(page) < pageSize
		})
		if len(page) == 0 {
			break
		}
		listed = append(listed, page...)
		last = page[len(page)-1]
	}

	if !slices.Equal(listed, collectKeys(tr)) {
		t.Errorf("Paged listing does not match full traversal (%d vs %d keys)", len(listed), tr.Len())
	}
	if len(listed) != numChildren {
		t.Errorf("Expected %d keys, got %d", numChildren, len(listed))
	}
}
