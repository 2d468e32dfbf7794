// Package extent maps item indices to positions along the scroll axis.
//
// Two variants are provided. Uniform answers every query in closed form for
// items of identical extent, optionally laid out in a grid. Cumulative keeps a
// prefix-sum table for items of varying extent and is rebuilt in full whenever
// the rendered item count or the estimator changes.
package extent

import (
	"scrollwin/internal/window"
)

// Index is the position model consumed by the scroll coordinator
type Index interface {
	// Count returns the number of indexed items
	Count() int
	// Offset returns the start position of item i
	Offset(i int) float64
	// Extent returns the size of item i along the scroll axis
	Extent(i int) float64
	// Column returns the grid column of item i (always 0 for a list)
	Column(i int) int
	// Total returns the virtual content extent
	Total() float64
	// IndexAt returns the item under the given position, or -1 when empty
	IndexAt(offset float64) int
	// Range returns the visible range for a viewport, overscan included
	Range(scrollOffset, viewportExtent float64, overscan int) window.Range
}

// Estimator returns the extent of an item; it must be deterministic in the
// item's content.
type Estimator[T any] func(item T, index int) float64

var (
	_ Index = (*Uniform)(nil)
	_ Index = (*Cumulative)(nil)
)
