package children

import (
	"fmt"

	"github.com/ValentinKolb/sortedkv/lib/tree"
)

// Options holds the representation thresholds of an Index.
// Growing past MaxSmall switches to the hash tier, growing past MaxHash to
// the sorted tier. Shrinking below MinHash leaves the sorted tier and
// shrinking below MinSmall returns to the small tier.
type Options struct {
	MinSmall int
	MaxSmall int
	MinHash  int
	MaxHash  int

	// Implementation is the tree engine of the sorted tier
	Implementation tree.Implementation
}

// DefaultOptions returns the default thresholds (16, 128, 40000, 50000)
func DefaultOptions() Options {
	return Options{
		MinSmall:       16,
		MaxSmall:       128,
		MinHash:        40000,
		MaxHash:        50000,
		Implementation: tree.DefaultImplementation,
	}
}

// Validate checks 0 <= MinSmall <= MaxSmall < MinHash <= MaxHash
func (o Options) Validate() error {
	if o.MinSmall < 0 {
		return fmt.Errorf("MinSmall must not be negative, got %d", o.MinSmall)
	}
	if o.MinSmall > o.MaxSmall {
		return fmt.Errorf("MinSmall (%d) must not exceed MaxSmall (%d)", o.MinSmall, o.MaxSmall)
	}
	if o.MaxSmall >= o.MinHash {
		return fmt.Errorf("MaxSmall (%d) must be below MinHash (%d)", o.MaxSmall, o.MinHash)
	}
	if o.MinHash > o.MaxHash {
		return fmt.Errorf("MinHash (%d) must not exceed MaxHash (%d)", o.MinHash, o.MaxHash)
	}
	if _, err := tree.ParseImplementation(string(o.Implementation)); err != nil {
		return err
	}
	return nil
}
