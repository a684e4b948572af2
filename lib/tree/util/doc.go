// Package util provides measurement helpers for tree engines and the maps
// built on them.
//
// The package contains:
//   - Stats: summary statistics (mean, min, max, standard deviation) over samples
//   - SizeHistogram: a bucketed histogram of key sizes with median and percentile estimates
//
// sortedmap.Map.Info uses both to describe the keys a map holds without
// keeping every key length around.
package util
