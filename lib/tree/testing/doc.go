// Package testing provides standardised tests and benchmarks for
// tree engines that satisfy the tree.Tree interface.
//
// The package contains:
//   - testing: a conformance suite checking ordering, upper-bound traversal and write semantics
//   - benchmark: performance tests for point operations and range traversals
//
// Example usage:
//
//	factory := func() tree.Tree[string] {
//		return NewMyTree[string]()
//	}
//
//	treetesting.RunTreeTests(t, "MyTree", factory)
//	treetesting.RunTreeBenchmarks(b, "MyTree", factory)
package testing
