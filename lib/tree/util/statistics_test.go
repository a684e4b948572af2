package util

import (
	"math"
	"sync"
	"testing"
)

// TestNewStats tests summary statistics on a known sample
func TestNewStats(t *testing.T) {
	stats := NewStats([]float64{2, 4, 4, 4, 5, 5, 7, 9})

	if stats.Mean != 5 {
		t.Errorf("Expected mean 5, got %f", stats.Mean)
	}
	if stats.StdDeviation != 2 {
		t.Errorf("Expected std deviation 2, got %f", stats.StdDeviation)
	}
	if stats.Min != 2 || stats.Max != 9 {
		t.Errorf("Expected min/max 2/9, got %f/%f", stats.Min, stats.Max)
	}
	if math.Abs(stats.MinMaxRatio-2.0/9.0) > 1e-9 {
		t.Errorf("Expected min/max ratio %f, got %f", 2.0/9.0, stats.MinMaxRatio)
	}
}

// TestNewStatsEmpty tests that no samples yield zero statistics
func TestNewStatsEmpty(t *testing.T) {
	if stats := NewStats(nil); stats != (Stats{}) {
		t.Errorf("Expected zero stats, got %+v", stats)
	}
}

// TestHistogramEmpty tests estimates on an empty histogram
func TestHistogramEmpty(t *testing.T) {
	h := NewSizeHistogram()

	if h.GetCount() != 0 {
		t.Errorf("Expected count 0, got %d", h.GetCount())
	}
	if h.AverageSize() != 0 {
		t.Errorf("Expected average 0, got %d", h.AverageSize())
	}
	if h.MedianEstimate() != 0 {
		t.Errorf("Expected median 0, got %d", h.MedianEstimate())
	}

	boundaries, percentages := h.SizeDistribution()
	if len(percentages) != len(boundaries)+1 {
		t.Errorf("Expected %d buckets, got %d", len(boundaries)+1, len(percentages))
	}
}

// TestHistogramEstimates tests bucket placement and percentile estimates
func TestHistogramEstimates(t *testing.T) {
	h := NewSizeHistogramWithBoundaries([]int{10, 20, 40})

	// 6 samples in (10,20], 3 in (20,40], 1 above 40
	for _, size := range []int{11, 12, 15, 18, 20, 20, 25, 30, 40, 100} {
		h.AddSample(size)
	}

	if h.GetCount() != 10 {
		t.Fatalf("Expected count 10, got %d", h.GetCount())
	}
	if avg := h.AverageSize(); avg != 29 {
		t.Errorf("Expected average 29, got %d", avg)
	}
	if median := h.MedianEstimate(); median != 15 {
		t.Errorf("Expected median estimate 15, got %d", median)
	}
	if p90 := h.GetPercentileEstimate(90); p90 != 30 {
		t.Errorf("Expected p90 estimate 30, got %d", p90)
	}
	if p100 := h.GetPercentileEstimate(100); p100 != 80 {
		t.Errorf("Expected p100 estimate 80, got %d", p100)
	}
	if invalid := h.GetPercentileEstimate(101); invalid != 0 {
		t.Errorf("Expected 0 for invalid percentile, got %d", invalid)
	}

	_, percentages := h.SizeDistribution()
	expected := []float64{0, 60, 30, 10}
	for i, p := range percentages {
		if math.Abs(p-expected[i]) > 1e-9 {
			t.Errorf("Bucket %d: expected %f%%, got %f%%", i, expected[i], p)
		}
	}
}

// TestHistogramInvalidBoundaries tests the fallback to default boundaries
func TestHistogramInvalidBoundaries(t *testing.T) {
	h := NewSizeHistogramWithBoundaries([]int{10, 5})
	boundaries, _ := h.SizeDistribution()
	if len(boundaries) != len(DefaultKeyBoundaries) {
		t.Errorf("Expected default boundaries, got %v", boundaries)
	}
}

// TestHistogramReset tests that Reset clears all samples
func TestHistogramReset(t *testing.T) {
	h := NewSizeHistogram()
	h.AddSample(3)
	h.AddSample(300)
	h.Reset()

	if h.GetCount() != 0 {
		t.Errorf("Expected count 0 after reset, got %d", h.GetCount())
	}
	_, percentages := h.SizeDistribution()
	for i, p := range percentages {
		if p != 0 {
			t.Errorf("Bucket %d not cleared: %f", i, p)
		}
	}
}

// TestHistogramConcurrent tests concurrent sample addition
func TestHistogramConcurrent(t *testing.T) {
	h := NewSizeHistogram()

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				h.AddSample(i % 64)
			}
		}()
	}
	wg.Wait()

	if h.GetCount() != 8000 {
		t.Errorf("Expected 8000 samples, got %d", h.GetCount())
	}
}
