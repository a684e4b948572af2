package sortedmap

import (
	"github.com/ValentinKolb/sortedkv/lib/tree"
	"github.com/ValentinKolb/sortedkv/lib/tree/util"
)

// Info describes the contents of a Map
type Info struct {
	Implementation tree.Implementation `json:"implementation"`
	Count          int                 `json:"count"`
	Keys           KeyInfo             `json:"keys"`
}

// KeyInfo describes the key sizes (in bytes) of a Map.
// Stats is exact, the median and percentiles are histogram estimates.
type KeyInfo struct {
	TotalBytes int        `json:"total_bytes"`
	Stats      util.Stats `json:"stats"`
	Median     int        `json:"median_estimate"`
	P90        int        `json:"p90_estimate"`
	P99        int        `json:"p99_estimate"`
	Buckets    []int      `json:"bucket_boundaries"`
	Percent    []float64  `json:"bucket_percentages"`
}

// Info scans all keys and returns statistics about them. O(n).
func (m *Map[V]) Info() Info {
	histogram := util.NewSizeHistogram()
	sizes := make([]float64, 0, m.Count())
	total := 0

	for k := range m.KeysGreaterThan("") {
		histogram.AddSample(len(k))
		sizes = append(sizes, float64(len(k)))
		total += len(k)
	}

	boundaries, percentages := histogram.SizeDistribution()
	return Info{
		Implementation: m.Implementation(),
		Count:          m.Count(),
		Keys: KeyInfo{
			TotalBytes: total,
			Stats:      util.NewStats(sizes),
			Median:     histogram.MedianEstimate(),
			P90:        histogram.GetPercentileEstimate(90),
			P99:        histogram.GetPercentileEstimate(99),
			Buckets:    boundaries,
			Percent:    percentages,
		},
	}
}
