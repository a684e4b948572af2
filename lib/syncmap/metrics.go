package syncmap

import (
	"fmt"

	"github.com/VictoriaMetrics/metrics"
)

// operation labels of skv_syncmap_ops_total
const (
	opGet      = "get"
	opContains = "contains"
	opCount    = "count"
	opInfo     = "info"
	opIterate  = "iterate"
	opSnapshot = "snapshot"
	opRange    = "range"
	opView     = "view"
	opSet      = "set"
	opAdd      = "add"
	opRemove   = "remove"
	opClear    = "clear"
	opUpdate   = "update"
)

var allOps = []string{
	opGet, opContains, opCount, opInfo, opIterate, opSnapshot, opRange, opView,
	opSet, opAdd, opRemove, opClear, opUpdate,
}

// mapMetrics holds the counters of one named map. Maps with the same name
// share their metrics since they are registered in the default set.
type mapMetrics struct {
	ops       map[string]*metrics.Counter
	rangeKeys *metrics.Histogram
}

func newMapMetrics(name string) *mapMetrics {
	mm := &mapMetrics{
		ops:       make(map[string]*metrics.Counter, len(allOps)),
		rangeKeys: metrics.GetOrCreateHistogram(RangeKeysMetric(name)),
	}
	for _, op := range allOps {
		mm.ops[op] = metrics.GetOrCreateCounter(OpsMetric(name, op))
	}
	return mm
}

func (mm *mapMetrics) inc(op string) {
	mm.ops[op].Inc()
}

func (mm *mapMetrics) observeRange(n int) {
	mm.rangeKeys.Update(float64(n))
}

// OpsMetric returns the name of the operation counter of a map
func OpsMetric(mapName, op string) string {
	return fmt.Sprintf(`skv_syncmap_ops_total{map=%q,op=%q}`, mapName, op)
}

// RangeKeysMetric returns the name of the histogram of keys returned by range queries
func RangeKeysMetric(mapName string) string {
	return fmt.Sprintf(`skv_syncmap_range_keys{map=%q}`, mapName)
}
