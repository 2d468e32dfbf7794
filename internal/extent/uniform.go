package extent

import (
	"fmt"
	"math"

	"scrollwin/internal/domain"
	"scrollwin/internal/window"
)

// Uniform indexes items of identical extent arranged in rows of columns items
type Uniform struct {
	itemExtent float64
	gap        float64
	columns    int
	count      int
}

// NewUniform creates a uniform index
func NewUniform(itemExtent, gap float64, columns, count int) (*Uniform, error) {
	if err := validateUniform(itemExtent, gap, columns); err != nil {
		return nil, err
	}
	if count < 0 {
		count = 0
	}
	return &Uniform{
		itemExtent: itemExtent,
		gap:        gap,
		columns:    columns,
		count:      count,
	}, nil
}

func validateUniform(itemExtent, gap float64, columns int) error {
	if !(itemExtent > 0) || math.IsInf(itemExtent, 0) {
		return fmt.Errorf("%w: item extent must be positive, got %v", domain.ErrInvalidConfig, itemExtent)
	}
	if !(gap >= 0) || math.IsInf(gap, 0) {
		return fmt.Errorf("%w: gap must not be negative, got %v", domain.ErrInvalidConfig, gap)
	}
	if columns < 1 {
		return fmt.Errorf("%w: column count must be at least 1, got %d", domain.ErrInvalidConfig, columns)
	}
	return nil
}

// SetCount updates the number of indexed items
func (u *Uniform) SetCount(count int) {
	if count < 0 {
		count = 0
	}
	u.count = count
}

// SetItemExtent changes the extent shared by all items
func (u *Uniform) SetItemExtent(itemExtent float64) error {
	if err := validateUniform(itemExtent, u.gap, u.columns); err != nil {
		return err
	}
	u.itemExtent = itemExtent
	return nil
}

// ItemExtent returns the extent shared by all items
func (u *Uniform) ItemExtent() float64 { return u.itemExtent }

// Columns returns the number of items per row
func (u *Uniform) Columns() int { return u.columns }

// Count returns the number of indexed items
func (u *Uniform) Count() int { return u.count }

func (u *Uniform) rowExtent() float64 {
	return u.itemExtent + u.gap
}

// Rows returns the number of rows the items occupy
func (u *Uniform) Rows() int {
	return (u.count + u.columns - 1) / u.columns
}

// Offset returns the start position of the row holding item i
func (u *Uniform) Offset(i int) float64 {
	i = clampIndex(i, u.count)
	if i < 0 {
		return 0
	}
	return float64(i/u.columns) * u.rowExtent()
}

// Extent returns the item extent; the gap is not part of an item
func (u *Uniform) Extent(i int) float64 {
	if u.count == 0 {
		return 0
	}
	return u.itemExtent
}

// Column returns the column of item i
func (u *Uniform) Column(i int) int {
	i = clampIndex(i, u.count)
	if i < 0 {
		return 0
	}
	return i % u.columns
}

// Total returns ceil(count/columns) * (itemExtent + gap)
func (u *Uniform) Total() float64 {
	return float64(u.Rows()) * u.rowExtent()
}

// IndexAt returns the first item of the row under offset
func (u *Uniform) IndexAt(offset float64) int {
	if u.count == 0 {
		return -1
	}
	row := int(math.Floor(math.Max(0, offset) / u.rowExtent()))
	return clampIndex(row*u.columns, u.count)
}

// Range returns the visible range; overscan counts rows
func (u *Uniform) Range(scrollOffset, viewportExtent float64, overscan int) window.Range {
	return window.Uniform(window.UniformParams{
		ScrollOffset:   scrollOffset,
		ViewportExtent: viewportExtent,
		ItemExtent:     u.itemExtent,
		Gap:            u.gap,
		ItemCount:      u.count,
		Overscan:       overscan,
		Columns:        u.columns,
	})
}

func clampIndex(i, count int) int {
	if count <= 0 {
		return -1
	}
	if i < 0 {
		return 0
	}
	if i >= count {
		return count - 1
	}
	return i
}
