// Package cmd implements the skv command-line interface. It loads sorted maps
// from tab separated input, queries them and benchmarks the tree engines.
//
// The package is organized into several subpackages:
//
//   - smap: Commands that load a map and query it (list, get, after, stats)
//   - perf: Benchmarks of all engines behind the concurrent map
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// Every flag can also be set through an SKV_ prefixed environment variable or
// a .env file. See skv -help for a list of all commands.
package cmd
