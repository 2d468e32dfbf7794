// Package window computes the contiguous index range that intersects a viewport,
// plus an overscan margin, for uniform and cumulative extent models.
package window

import (
	"math"
	"sort"
)

// Range is an inclusive index range. A range with End < Start is empty.
type Range struct {
	Start int
	End   int
}

// EmptyRange returns the canonical empty range
func EmptyRange() Range {
	return Range{Start: 0, End: -1}
}

// Empty reports whether the range holds no index
func (r Range) Empty() bool {
	return r.End < r.Start
}

// Len returns the number of indices in the range
func (r Range) Len() int {
	if r.Empty() {
		return 0
	}
	return r.End - r.Start + 1
}

// Contains reports whether i lies inside the range
func (r Range) Contains(i int) bool {
	return !r.Empty() && i >= r.Start && i <= r.End
}

// UniformParams holds the inputs of the closed-form uniform calculation
type UniformParams struct {
	ScrollOffset   float64
	ViewportExtent float64
	ItemExtent     float64
	Gap            float64
	ItemCount      int
	Overscan       int // in rows
	Columns        int
}

// Uniform computes the visible range for items of identical extent laid out in
// rows of Columns items. Overscan is applied in rows before clamping.
func Uniform(p UniformParams) Range {
	columns := p.Columns
	if columns < 1 {
		columns = 1
	}
	rowExtent := p.ItemExtent + p.Gap
	if p.ItemCount <= 0 || p.ViewportExtent <= 0 || rowExtent <= 0 {
		return EmptyRange()
	}

	offset := math.Max(0, p.ScrollOffset)
	startRow := int(math.Floor(offset/rowExtent)) - p.Overscan
	endRow := int(math.Ceil((offset+p.ViewportExtent)/rowExtent)) + p.Overscan

	return clamp(startRow*columns, (endRow+1)*columns-1, p.ItemCount)
}

// Locate returns the first item that starts exactly at offset, so zero-extent
// items are found too; otherwise the item whose span [offsets[i], offsets[i+1])
// contains offset. Offsets before the first item map to 0 and offsets past the
// end map to the last item. Returns -1 for an empty table.
func Locate(offsets []float64, offset float64) int {
	n := len(offsets) - 1
	if n <= 0 {
		return -1
	}
	if j := sort.Search(n, func(i int) bool { return offsets[i] >= offset }); j < n && offsets[j] == offset {
		return j
	}
	i := sort.Search(n, func(i int) bool {
		return offsets[i+1] > offset
	})
	if i >= n {
		i = n - 1
	}
	return i
}

// Cumulative computes the visible range over a prefix-sum table of length
// itemCount+1. Overscan is applied in items.
func Cumulative(offsets []float64, scrollOffset, viewportExtent float64, overscan int) Range {
	n := len(offsets) - 1
	if n <= 0 || viewportExtent <= 0 {
		return EmptyRange()
	}

	start := Locate(offsets, scrollOffset)
	bottom := scrollOffset + viewportExtent
	// last item that starts before the bottom edge, or sits on it with zero extent
	end := sort.Search(n, func(i int) bool {
		return offsets[i] > bottom || (offsets[i] == bottom && offsets[i+1] > bottom)
	}) - 1
	if end < start {
		end = start
	}

	return clamp(start-overscan, end+overscan, n)
}

func clamp(start, end, count int) Range {
	if count <= 0 {
		return EmptyRange()
	}
	if start < 0 {
		start = 0
	}
	if start > count-1 {
		start = count - 1
	}
	if end > count-1 {
		end = count - 1
	}
	if end < start {
		end = start
	}
	return Range{Start: start, End: end}
}
