package util

import (
	"math"
	"sync"
)

// ----------------------------------------------------------------------------
// Summary statistics
// ----------------------------------------------------------------------------

// Stats summarises a set of samples
type Stats struct {
	StdDeviation float64 `json:"std_deviation"`
	Min          float64 `json:"min"`
	Max          float64 `json:"max"`
	Mean         float64 `json:"mean"`
	MinMaxRatio  float64 `json:"min_max_ratio"`
}

// NewStats computes the population standard deviation, minimum, maximum and
// mean of values. An empty input yields the zero Stats.
func NewStats(values []float64) Stats {
	if len(values) == 0 {
		return Stats{}
	}

	lo, hi := values[0], values[0]
	var sum float64
	for _, v := range values {
		sum += v
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	mean := sum / float64(len(values))

	var sumSquaredDiffs float64
	for _, v := range values {
		diff := v - mean
		sumSquaredDiffs += diff * diff
	}

	ratio := 1.0
	if hi > 0 {
		ratio = lo / hi
	}

	return Stats{
		StdDeviation: math.Sqrt(sumSquaredDiffs / float64(len(values))),
		Min:          lo,
		Max:          hi,
		Mean:         mean,
		MinMaxRatio:  ratio,
	}
}

// ----------------------------------------------------------------------------
// SizeHistogram
// ----------------------------------------------------------------------------

// DefaultKeyBoundaries are the bucket limits (in bytes) used by NewSizeHistogram.
// They are dense for short keys, which is the common case for path segments
// and identifiers, and coarse above one kilobyte.
var DefaultKeyBoundaries = []int{
	4, 8, 16, 32, 64, 128, 256, 512, // short keys
	1024, 4096, 16384, 65536, // long keys
}

// SizeHistogram tracks the distribution of key sizes in buckets.
// Estimates returned by the histogram are bucket midpoints, not exact values.
type SizeHistogram struct {
	mutex      sync.RWMutex
	boundaries []int
	buckets    []int64 // len(boundaries)+1, last bucket holds everything larger
	count      int64
	sum        int64
}

// NewSizeHistogram creates a histogram with DefaultKeyBoundaries
func NewSizeHistogram() *SizeHistogram {
	return NewSizeHistogramWithBoundaries(DefaultKeyBoundaries)
}

// NewSizeHistogramWithBoundaries creates a histogram with custom bucket limits.
// The boundaries must be strictly increasing and non-empty, otherwise the
// default boundaries are used.
func NewSizeHistogramWithBoundaries(boundaries []int) *SizeHistogram {
	if !validBoundaries(boundaries) {
		boundaries = DefaultKeyBoundaries
	}
	b := make([]int, len(boundaries))
	copy(b, boundaries)
	return &SizeHistogram{
		boundaries: b,
		buckets:    make([]int64, len(b)+1),
	}
}

func validBoundaries(boundaries []int) bool {
	if len(boundaries) == 0 {
		return false
	}
	for i := 1; i < len(boundaries); i++ {
		if boundaries[i] <= boundaries[i-1] {
			return false
		}
	}
	return true
}

// AddSample adds a size sample to the histogram
//
// Thread-safe: This method is safe for concurrent use
func (h *SizeHistogram) AddSample(size int) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	h.buckets[h.bucketOf(size)]++
	h.count++
	h.sum += int64(size)
}

func (h *SizeHistogram) bucketOf(size int) int {
	for i, boundary := range h.boundaries {
		if size <= boundary {
			return i
		}
	}
	return len(h.boundaries)
}

// GetCount returns the total number of samples
//
// Thread-safe: This method is safe for concurrent use
func (h *SizeHistogram) GetCount() int64 {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return h.count
}

// AverageSize returns the exact average over all samples
//
// Thread-safe: This method is safe for concurrent use
func (h *SizeHistogram) AverageSize() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	if h.count == 0 {
		return 0
	}
	return int(h.sum / h.count)
}

// MedianEstimate is GetPercentileEstimate(50)
func (h *SizeHistogram) MedianEstimate() int {
	return h.GetPercentileEstimate(50)
}

// GetPercentileEstimate returns an estimate for the given percentile (0-100).
// Out of range percentiles and an empty histogram yield 0.
//
// Thread-safe: This method is safe for concurrent use
func (h *SizeHistogram) GetPercentileEstimate(percentile int) int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	if h.count == 0 || percentile < 0 || percentile > 100 {
		return 0
	}

	target := int64(math.Ceil(float64(h.count) * float64(percentile) / 100.0))
	var cumulative int64
	for i, count := range h.buckets {
		cumulative += count
		if count > 0 && cumulative >= target {
			return h.midpoint(i)
		}
	}
	return int(h.sum / h.count)
}

// midpoint returns the representative size of bucket i
func (h *SizeHistogram) midpoint(i int) int {
	switch {
	case i == 0:
		return h.boundaries[0] / 2
	case i < len(h.boundaries):
		return (h.boundaries[i-1] + h.boundaries[i]) / 2
	default:
		return h.boundaries[len(h.boundaries)-1] * 2
	}
}

// SizeDistribution returns the bucket boundaries and the percentage of
// samples in each bucket. The percentages slice has one more element than
// the boundaries slice.
//
// Thread-safe: This method is safe for concurrent use
func (h *SizeHistogram) SizeDistribution() ([]int, []float64) {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	percentages := make([]float64, len(h.buckets))
	if h.count == 0 {
		return h.boundaries, percentages
	}
	for i, count := range h.buckets {
		percentages[i] = float64(count) * 100.0 / float64(h.count)
	}
	return h.boundaries, percentages
}

// Reset clears all histogram data
//
// Thread-safe: This method is safe for concurrent use
func (h *SizeHistogram) Reset() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	h.count = 0
	h.sum = 0
	clear(h.buckets)
}
