package testing

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/ValentinKolb/sortedkv/lib/tree"
)

// benchmarkKeys is the number of keys preloaded for read and range benchmarks
const benchmarkKeys = 100_000

// RunTreeBenchmarks runs all benchmarks for a tree engine.
// Engines are not safe for concurrent use, so all benchmarks run sequentially.
func RunTreeBenchmarks(b *testing.B, name string, factory TreeFactory) {
	b.Run("Put", func(b *testing.B) {
		benchmarkPut(b, factory())
	})

	b.Run("PutExisting", func(b *testing.B) {
		benchmarkPutExisting(b, factory())
	})

	b.Run("PutIfAbsent", func(b *testing.B) {
		benchmarkPutIfAbsent(b, factory())
	})

	b.Run("Get", func(b *testing.B) {
		benchmarkGet(b, factory())
	})

	b.Run("Get(not)", func(b *testing.B) {
		benchmarkGetNot(b, factory())
	})

	b.Run("Delete", func(b *testing.B) {
		benchmarkDelete(b, factory())
	})

	b.Run("AscendAfter(100)", func(b *testing.B) {
		benchmarkAscendAfter(b, factory(), 100)
	})

	b.Run("Ascend", func(b *testing.B) {
		benchmarkAscend(b, factory())
	})

	b.Run("MixedUsage", func(b *testing.B) {
		benchmarkMixedUsage(b, factory())
	})
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func benchKey(i int) string {
	return fmt.Sprintf("bench-key-%08d", i)
}

func preload(tr tree.Tree[string], n int) {
	for i := 0; i < n; i++ {
		tr.Put(benchKey(i), "value")
	}
}

// --------------------------------------------------------------------------
// Benchmark functions
// --------------------------------------------------------------------------

func benchmarkPut(b *testing.B, tr tree.Tree[string]) {
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tr.Put(benchKey(i), "value")
	}
}

func benchmarkPutExisting(b *testing.B, tr tree.Tree[string]) {
	preload(tr, benchmarkKeys)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tr.Put(benchKey(i%benchmarkKeys), "updated")
	}
}

func benchmarkPutIfAbsent(b *testing.B, tr tree.Tree[string]) {
	preload(tr, benchmarkKeys)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		// half of the keys exist already
		tr.PutIfAbsent(benchKey(i%(2*benchmarkKeys)), "value")
	}
}

func benchmarkGet(b *testing.B, tr tree.Tree[string]) {
	preload(tr, benchmarkKeys)
	rng := rand.New(rand.NewSource(1))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tr.Get(benchKey(rng.Intn(benchmarkKeys)))
	}
}

func benchmarkGetNot(b *testing.B, tr tree.Tree[string]) {
	preload(tr, benchmarkKeys)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tr.Get(benchKey(benchmarkKeys + i))
	}
}

func benchmarkDelete(b *testing.B, tr tree.Tree[string]) {
	preload(tr, b.N)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tr.Delete(benchKey(i))
	}
}

func benchmarkAscendAfter(b *testing.B, tr tree.Tree[string], page int) {
	preload(tr, benchmarkKeys)
	rng := rand.New(rand.NewSource(1))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		n := 0
		tr.AscendAfter(benchKey(rng.Intn(benchmarkKeys)), func(string, string) bool {
			n++
			return n < page
		})
	}
}

func benchmarkAscend(b *testing.B, tr tree.Tree[string]) {
	preload(tr, benchmarkKeys)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tr.Ascend(func(string, string) bool {
			return true
		})
	}
}

func benchmarkMixedUsage(b *testing.B, tr tree.Tree[string]) {
	preload(tr, benchmarkKeys)
	rng := rand.New(rand.NewSource(1))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		key := benchKey(rng.Intn(2 * benchmarkKeys))
		switch op := rng.Intn(10); {
		case op < 6:
			tr.Get(key)
		case op < 8:
			tr.Put(key, "value")
		case op < 9:
			tr.Delete(key)
		default:
			n := 0
			tr.AscendAfter(key, func(string, string) bool {
				n++
				return n < 10
			})
		}
	}
}
