package coordinator

import (
	"context"
	"fmt"
	"math"
	"time"

	"scrollwin/internal/debounce"
	"scrollwin/internal/domain"
	"scrollwin/internal/extent"
	"scrollwin/internal/loader"
)

// DefaultQuietPeriod is how long after the last scroll sample isScrolling stays true
const DefaultQuietPeriod = 150 * time.Millisecond

// Options configures a coordinator. Exactly one of ItemExtent and Estimate
// must be set.
type Options[T any] struct {
	Items []T

	// ItemExtent selects the uniform index
	ItemExtent float64
	// Estimate selects the cumulative index
	Estimate extent.Estimator[T]

	ViewportExtent float64
	Overscan       int // rows for the uniform index, items for the cumulative one
	Columns        int // uniform only; zero means 1
	Gap            float64

	// LoadMore enables the infinite-load policy and the loader sentinel
	LoadMore      loader.LoadFunc
	HasMore       bool
	LoadThreshold float64 // zero means one viewport extent
	// SentinelExtent sizes the sentinel in the cumulative index; zero means 1.
	// The uniform index gives it a regular cell.
	SentinelExtent float64

	// PinToBottom enables bottom-pinning; Key must identify items stably
	PinToBottom bool
	Key         func(item T) string
	PinEpsilon  float64

	QuietPeriod time.Duration
	Scheduler   debounce.Scheduler

	// Context is handed to LoadMore. Detach does not cancel it.
	Context context.Context

	OnScroll          func(offset float64, atBottom bool)
	OnLoadMoreError   func(err error)
	OnScrollingChange func(scrolling bool)
	OnLoadStateChange func(state loader.State)
}

func (o *Options[T]) validate() error {
	switch {
	case o.ItemExtent != 0 && o.Estimate != nil:
		return fmt.Errorf("%w: item extent and estimator are mutually exclusive", domain.ErrInvalidConfig)
	case o.ItemExtent == 0 && o.Estimate == nil:
		return fmt.Errorf("%w: either an item extent or an estimator is required", domain.ErrInvalidConfig)
	}
	if o.Overscan < 0 {
		return fmt.Errorf("%w: overscan must not be negative, got %d", domain.ErrInvalidConfig, o.Overscan)
	}
	if o.Columns < 0 {
		return fmt.Errorf("%w: column count must be at least 1, got %d", domain.ErrInvalidConfig, o.Columns)
	}
	if o.Estimate != nil && o.Columns > 1 {
		return fmt.Errorf("%w: variable extents cannot be laid out in %d columns", domain.ErrInvalidConfig, o.Columns)
	}
	if !(o.SentinelExtent >= 0) || math.IsInf(o.SentinelExtent, 0) {
		return fmt.Errorf("%w: sentinel extent must not be negative, got %v", domain.ErrInvalidConfig, o.SentinelExtent)
	}
	if o.PinToBottom && o.Key == nil {
		return fmt.Errorf("%w: bottom pinning needs a stable item key", domain.ErrInvalidConfig)
	}
	if o.QuietPeriod < 0 {
		return fmt.Errorf("%w: quiet period must not be negative, got %v", domain.ErrInvalidConfig, o.QuietPeriod)
	}
	return nil
}

func (o *Options[T]) applyDefaults() {
	if o.Columns == 0 {
		o.Columns = 1
	}
	if o.SentinelExtent == 0 {
		o.SentinelExtent = 1
	}
	if o.QuietPeriod == 0 {
		o.QuietPeriod = DefaultQuietPeriod
	}
	if o.Context == nil {
		o.Context = context.Background()
	}
}
