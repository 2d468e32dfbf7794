package extent

import (
	"fmt"
	"math"

	"scrollwin/internal/domain"
	"scrollwin/internal/window"
)

// Build computes a prefix-sum table of length count+1 where offsets[i] is the
// start of item i and offsets[count] is the total extent. A panicking extentAt
// is not recovered.
func Build(count int, extentAt func(i int) float64) ([]float64, error) {
	if count < 0 {
		count = 0
	}
	offsets := make([]float64, count+1)
	for i := 0; i < count; i++ {
		size := extentAt(i)
		if !(size >= 0) || math.IsInf(size, 0) {
			return nil, fmt.Errorf("%w: item %d estimated at %v", domain.ErrInvalidExtent, i, size)
		}
		offsets[i+1] = offsets[i] + size
	}
	return offsets, nil
}

// BuildItems builds the table for a caller-owned collection
func BuildItems[T any](items []T, estimate Estimator[T]) ([]float64, error) {
	return Build(len(items), func(i int) float64 {
		return estimate(items[i], i)
	})
}

// Cumulative indexes items of varying extent. It is owned by one coordinator
// and never shared.
type Cumulative struct {
	offsets []float64
	stale   bool
}

// NewCumulative returns an empty index that needs a first build
func NewCumulative() *Cumulative {
	return &Cumulative{
		offsets: []float64{0},
		stale:   true,
	}
}

// NeedsRebuild reports whether the table no longer describes count items
func (c *Cumulative) NeedsRebuild(count int) bool {
	return c.stale || len(c.offsets)-1 != count
}

// Invalidate forces the next NeedsRebuild to report true; called when the
// estimator changes.
func (c *Cumulative) Invalidate() {
	c.stale = true
}

// Rebuild recomputes the whole table. On error the previous table is kept.
func (c *Cumulative) Rebuild(count int, extentAt func(i int) float64) error {
	offsets, err := Build(count, extentAt)
	if err != nil {
		return err
	}
	c.offsets = offsets
	c.stale = false
	return nil
}

// Offsets exposes the table; callers must not modify it
func (c *Cumulative) Offsets() []float64 { return c.offsets }

// Count returns the number of indexed items
func (c *Cumulative) Count() int { return len(c.offsets) - 1 }

// Offset returns the start position of item i, clamped into range
func (c *Cumulative) Offset(i int) float64 {
	i = clampIndex(i, c.Count())
	if i < 0 {
		return 0
	}
	return c.offsets[i]
}

// Extent returns offsets[i+1] - offsets[i]
func (c *Cumulative) Extent(i int) float64 {
	i = clampIndex(i, c.Count())
	if i < 0 {
		return 0
	}
	return c.offsets[i+1] - c.offsets[i]
}

// Column is always 0: variable extents are laid out as a list
func (c *Cumulative) Column(int) int { return 0 }

// Total returns offsets[count]
func (c *Cumulative) Total() float64 {
	return c.offsets[len(c.offsets)-1]
}

// IndexAt performs a lower-bound search for the item under offset
func (c *Cumulative) IndexAt(offset float64) int {
	return window.Locate(c.offsets, offset)
}

// Range returns the visible range; overscan counts items
func (c *Cumulative) Range(scrollOffset, viewportExtent float64, overscan int) window.Range {
	return window.Cumulative(c.offsets, scrollOffset, viewportExtent, overscan)
}
