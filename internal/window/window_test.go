package window

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRange(t *testing.T) {
	t.Parallel()

	empty := EmptyRange()
	assert.True(t, empty.Empty())
	assert.Equal(t, 0, empty.Len())
	assert.False(t, empty.Contains(0))

	r := Range{Start: 3, End: 7}
	assert.False(t, r.Empty())
	assert.Equal(t, 5, r.Len())
	assert.True(t, r.Contains(3))
	assert.True(t, r.Contains(7))
	assert.False(t, r.Contains(8))
}

func TestUniform(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		params UniformParams
		want   Range
	}{
		{
			name: "middle of a long list",
			params: UniformParams{
				ScrollOffset: 1000, ViewportExtent: 500, ItemExtent: 50,
				ItemCount: 1000, Overscan: 2, Columns: 1,
			},
			want: Range{Start: 18, End: 32},
		},
		{
			name: "top clamps overscan",
			params: UniformParams{
				ScrollOffset: 0, ViewportExtent: 500, ItemExtent: 50,
				ItemCount: 1000, Overscan: 3, Columns: 1,
			},
			want: Range{Start: 0, End: 13},
		},
		{
			name: "bottom clamps to last item",
			params: UniformParams{
				ScrollOffset: 49500, ViewportExtent: 500, ItemExtent: 50,
				ItemCount: 1000, Overscan: 3, Columns: 1,
			},
			want: Range{Start: 987, End: 999},
		},
		{
			name: "grid applies overscan in rows",
			params: UniformParams{
				ScrollOffset: 200, ViewportExtent: 200, ItemExtent: 90, Gap: 10,
				ItemCount: 100, Overscan: 1, Columns: 4,
			},
			// rows 1..5 once overscan is applied
			want: Range{Start: 4, End: 23},
		},
		{
			name: "zero columns treated as one",
			params: UniformParams{
				ScrollOffset: 0, ViewportExtent: 100, ItemExtent: 50,
				ItemCount: 10, Columns: 0,
			},
			want: Range{Start: 0, End: 2},
		},
		{
			name:   "no items",
			params: UniformParams{ViewportExtent: 500, ItemExtent: 50, Columns: 1},
			want:   EmptyRange(),
		},
		{
			name:   "no viewport",
			params: UniformParams{ItemExtent: 50, ItemCount: 10, Columns: 1},
			want:   EmptyRange(),
		},
		{
			name: "offset past the end still yields a valid range",
			params: UniformParams{
				ScrollOffset: 1e9, ViewportExtent: 100, ItemExtent: 10,
				ItemCount: 5, Columns: 1,
			},
			want: Range{Start: 4, End: 4},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Uniform(tt.params)
			if tt.want.Empty() {
				assert.True(t, got.Empty())
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUniformCoversViewport(t *testing.T) {
	t.Parallel()

	const (
		count    = 500
		extent   = 37.0
		viewport = 333.0
	)
	minItems := int(math.Ceil(viewport / extent))
	maxOffset := count*extent - viewport

	for offset := 0.0; offset <= maxOffset; offset += 13 {
		r := Uniform(UniformParams{
			ScrollOffset: offset, ViewportExtent: viewport, ItemExtent: extent,
			ItemCount: count, Overscan: 2, Columns: 1,
		})
		require.False(t, r.Empty())
		require.GreaterOrEqual(t, r.Start, 0)
		require.Less(t, r.End, count)
		require.GreaterOrEqual(t, r.Len(), minItems, "offset %v", offset)
	}
}

func TestLocate(t *testing.T) {
	t.Parallel()

	offsets := []float64{0, 10, 30, 30, 60}

	assert.Equal(t, 0, Locate(offsets, -5))
	assert.Equal(t, 0, Locate(offsets, 0))
	assert.Equal(t, 0, Locate(offsets, 9.9))
	assert.Equal(t, 1, Locate(offsets, 10))
	assert.Equal(t, 1, Locate(offsets, 29))
	// item 2 has zero extent and starts where item 3 starts
	assert.Equal(t, 2, Locate(offsets, 30))
	assert.Equal(t, 3, Locate(offsets, 30.5))
	assert.Equal(t, 3, Locate(offsets, 59))
	assert.Equal(t, 3, Locate(offsets, 600))

	assert.Equal(t, -1, Locate([]float64{0}, 10))
	assert.Equal(t, -1, Locate(nil, 10))
}

func TestCumulative(t *testing.T) {
	t.Parallel()

	// ten items of 20 followed by ten items of 40
	offsets := make([]float64, 21)
	for i := 1; i <= 20; i++ {
		size := 20.0
		if i > 10 {
			size = 40
		}
		offsets[i] = offsets[i-1] + size
	}

	t.Run("top of table", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, Range{Start: 0, End: 4}, Cumulative(offsets, 0, 100, 0))
	})

	t.Run("overscan in items", func(t *testing.T) {
		t.Parallel()
		// 100..200 covers items 5..9
		assert.Equal(t, Range{Start: 3, End: 11}, Cumulative(offsets, 100, 100, 2))
	})

	t.Run("tall items", func(t *testing.T) {
		t.Parallel()
		// 250..330 covers items 11..13
		assert.Equal(t, Range{Start: 11, End: 13}, Cumulative(offsets, 250, 80, 0))
	})

	t.Run("bottom clamps", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, Range{Start: 14, End: 19}, Cumulative(offsets, 500, 100, 3))
	})

	t.Run("zero extents", func(t *testing.T) {
		t.Parallel()
		// items 0, 2 and 4 have no extent
		flat := []float64{0, 0, 10, 10, 20, 20}
		assert.Equal(t, Range{Start: 0, End: 2}, Cumulative(flat, 0, 10, 0))
		assert.Equal(t, Range{Start: 2, End: 4}, Cumulative(flat, 10, 10, 0))
		assert.Equal(t, Range{Start: 3, End: 4}, Cumulative(flat, 15, 5, 0), "trailing empty item on the bottom edge")
	})

	t.Run("empty table", func(t *testing.T) {
		t.Parallel()
		assert.True(t, Cumulative([]float64{0}, 0, 100, 3).Empty())
		assert.True(t, Cumulative(nil, 0, 100, 3).Empty())
	})

	t.Run("no viewport", func(t *testing.T) {
		t.Parallel()
		assert.True(t, Cumulative(offsets, 0, 0, 3).Empty())
	})
}
