// Package syncmap provides a concurrent variant of sortedmap.Map.
//
// Every operation runs under an xsync.RBMutex, a reader-biased RW lock that
// scales well for read-heavy workloads such as listing the children of a hot
// node. Range queries return materialized slices (KeysGreaterThan,
// EntriesGreaterThan, Snapshot) so that no lock outlives the call; All is the
// exception and holds the reader lock for the duration of the range.
//
// Each map counts its operations in the VictoriaMetrics default set:
//
//	skv_syncmap_ops_total{map="<name>",op="<op>"}
//	skv_syncmap_range_keys{map="<name>"}  (histogram of keys per range query)
//
// Use metrics.WritePrometheus to expose them.
package syncmap
