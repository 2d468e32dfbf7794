// Package coordinator is the stateful scroll coordinator a windowed view
// attaches to. It owns the viewport model and the extent index, recomputes the
// visible range on every scroll sample, debounces the is-scrolling flag and
// layers the infinite-load and bottom-pinning policies on top.
//
// Every public call, quiet-timer firing and load settlement runs as one turn
// under the coordinator's lock, so a turn always completes before the next
// input is processed. Host callbacks raised during a turn are queued and run,
// in order, after the lock is released; they may call back into the
// coordinator.
package coordinator

import (
	"context"
	"fmt"
	"sync"

	"github.com/eapache/queue"

	"scrollwin/internal/debounce"
	"scrollwin/internal/domain"
	"scrollwin/internal/extent"
	"scrollwin/internal/loader"
	"scrollwin/internal/pin"
	"scrollwin/internal/viewport"
	"scrollwin/internal/window"
)

// Align selects where ScrollToIndexAligned places the target item
type Align int

const (
	AlignStart Align = iota
	AlignCenter
	AlignEnd
	// AlignAuto scrolls the least distance that makes the item fully visible
	AlignAuto
)

// Coordinator drives one windowed view over a caller-owned collection
type Coordinator[T any] struct {
	mu       sync.Mutex
	attached bool
	ctx      context.Context

	items    []T
	key      func(T) string
	estimate extent.Estimator[T]

	index      extent.Index
	uniform    *extent.Uniform
	cumulative *extent.Cumulative

	vp             *viewport.Model
	overscan       int
	sentinelExtent float64
	bottomEpsilon  float64

	loader *loader.Policy
	pin    *pin.Policy
	quiet  *debounce.Debouncer

	visible   window.Range
	scrolling bool
	quietGen  uint64

	pending *queue.Queue

	onScroll          func(offset float64, atBottom bool)
	onLoadMoreError   func(err error)
	onScrollingChange func(scrolling bool)
	onLoadStateChange func(state loader.State)
}

// New validates opts and attaches a coordinator. A view that pins to the
// bottom opens at the bottom; any other view opens at the top.
func New[T any](opts Options[T]) (*Coordinator[T], error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	opts.applyDefaults()

	vp, err := viewport.New(opts.ViewportExtent)
	if err != nil {
		return nil, err
	}

	c := &Coordinator[T]{
		attached:          true,
		ctx:               opts.Context,
		items:             opts.Items,
		key:               opts.Key,
		estimate:          opts.Estimate,
		vp:                vp,
		overscan:          opts.Overscan,
		sentinelExtent:    opts.SentinelExtent,
		bottomEpsilon:     pin.DefaultEpsilon,
		quiet:             debounce.New(opts.QuietPeriod, opts.Scheduler),
		visible:           window.EmptyRange(),
		pending:           queue.New(),
		onScroll:          opts.OnScroll,
		onLoadMoreError:   opts.OnLoadMoreError,
		onScrollingChange: opts.OnScrollingChange,
		onLoadStateChange: opts.OnLoadStateChange,
	}

	if opts.Estimate != nil {
		c.cumulative = extent.NewCumulative()
		c.index = c.cumulative
	} else {
		c.uniform, err = extent.NewUniform(opts.ItemExtent, opts.Gap, opts.Columns, 0)
		if err != nil {
			return nil, err
		}
		c.index = c.uniform
	}

	if opts.LoadMore != nil {
		threshold := opts.LoadThreshold
		if threshold == 0 {
			threshold = opts.ViewportExtent
		}
		c.loader, err = loader.New(opts.LoadMore, threshold, opts.HasMore)
		if err != nil {
			return nil, err
		}
		if opts.LoadThreshold == 0 {
			// one viewport, kept in step with resizes
			c.vp.OnChange(func(prev, next viewport.State) {
				if prev.ViewportExtent != next.ViewportExtent {
					c.loader.SetThreshold(next.ViewportExtent)
				}
			})
		}
	}

	if opts.PinToBottom {
		c.pin, err = pin.New(opts.PinEpsilon)
		if err != nil {
			return nil, err
		}
		c.bottomEpsilon = c.pin.Epsilon()
		c.pin.Track(len(c.items), c.keyAt(c.items))
	}

	if err := c.relayout(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.unlockAndFlush()
	if c.pin != nil {
		c.vp.SetScrollOffset(c.vp.State().MaxScrollOffset())
	}
	c.refresh()
	c.evaluateLoad()
	return c, nil
}

// Detach cancels the quiet-period timer. An in-flight load is left to settle
// and its result is ignored.
func (c *Coordinator[T]) Detach() {
	c.mu.Lock()
	defer c.unlockAndFlush()

	if !c.attached {
		return
	}
	c.attached = false
	c.quiet.Cancel()
}

// Attached reports whether Detach has not been called yet
func (c *Coordinator[T]) Attached() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.attached
}

// HandleScroll processes one scroll sample from the host
func (c *Coordinator[T]) HandleScroll(offset float64) {
	c.mu.Lock()
	defer c.unlockAndFlush()

	if !c.attached {
		return
	}
	c.sample(offset)
}

// ScrollToOffset scrolls programmatically and returns the clamped offset
func (c *Coordinator[T]) ScrollToOffset(offset float64) float64 {
	c.mu.Lock()
	defer c.unlockAndFlush()

	if !c.attached {
		return c.vp.State().ScrollOffset
	}
	return c.sample(offset)
}

// ScrollBy moves the offset by delta
func (c *Coordinator[T]) ScrollBy(delta float64) float64 {
	c.mu.Lock()
	defer c.unlockAndFlush()

	if !c.attached {
		return c.vp.State().ScrollOffset
	}
	return c.sample(c.vp.State().ScrollOffset + delta)
}

// ScrollToTop scrolls to offset 0
func (c *Coordinator[T]) ScrollToTop() float64 {
	return c.ScrollToOffset(0)
}

// ScrollToBottom scrolls to the largest valid offset
func (c *Coordinator[T]) ScrollToBottom() float64 {
	c.mu.Lock()
	defer c.unlockAndFlush()

	if !c.attached {
		return c.vp.State().ScrollOffset
	}
	return c.sample(c.vp.State().MaxScrollOffset())
}

// ScrollToIndex brings item i to the top of the viewport. Out-of-range
// indices are clamped to the nearest item.
func (c *Coordinator[T]) ScrollToIndex(i int) float64 {
	return c.ScrollToIndexAligned(i, AlignStart)
}

// ScrollToIndexAligned scrolls to item i placed according to align
func (c *Coordinator[T]) ScrollToIndexAligned(i int, align Align) float64 {
	c.mu.Lock()
	defer c.unlockAndFlush()

	if !c.attached {
		return c.vp.State().ScrollOffset
	}
	if len(c.items) == 0 {
		return c.sample(0)
	}
	i = clampInt(i, 0, len(c.items)-1)
	return c.sample(c.targetOffset(i, align))
}

func (c *Coordinator[T]) targetOffset(i int, align Align) float64 {
	s := c.vp.State()
	start := c.index.Offset(i)
	size := c.index.Extent(i)

	switch align {
	case AlignCenter:
		return start + size/2 - s.ViewportExtent/2
	case AlignEnd:
		return start + size - s.ViewportExtent
	case AlignAuto:
		switch {
		case start < s.ScrollOffset:
			return start
		case start+size > s.ScrollOffset+s.ViewportExtent:
			return start + size - s.ViewportExtent
		default:
			return s.ScrollOffset
		}
	default:
		return start
	}
}

// SetItems replaces the collection and is the growth hook for feeds. When
// bottom-pinning is on and the view sat at the bottom before new items were
// appended at the tail, it follows them to the new bottom.
func (c *Coordinator[T]) SetItems(items []T) error {
	c.mu.Lock()
	defer c.unlockAndFlush()

	if !c.attached {
		return domain.ErrDetached
	}

	// decided on the state captured before the growth is laid out
	follow := false
	if c.pin != nil {
		follow = c.pin.ShouldFollow(len(items), c.keyAt(items))
	}

	prev := c.items
	c.items = items
	if err := c.relayout(); err != nil {
		c.items = prev
		return err
	}
	if c.pin != nil {
		c.pin.Track(len(items), c.keyAt(items))
	}

	if follow {
		c.sample(c.vp.State().MaxScrollOffset())
	} else {
		c.refresh()
	}
	return nil
}

// SetHasMore records whether the source has more data. It is normally called
// from inside LoadMore together with SetItems.
func (c *Coordinator[T]) SetHasMore(hasMore bool) {
	c.mu.Lock()
	defer c.unlockAndFlush()

	if !c.attached || c.loader == nil {
		return
	}
	before := c.loader.State()
	c.loader.SetHasMore(hasMore)
	if c.loader.State() != before {
		c.emitLoadState()
	}
}

// SetViewportExtent resizes the viewport. A pinned view stays at the bottom.
func (c *Coordinator[T]) SetViewportExtent(e float64) error {
	c.mu.Lock()
	defer c.unlockAndFlush()

	if !c.attached {
		return domain.ErrDetached
	}
	wasPinned := c.pin != nil && c.pin.Pinned()
	if err := c.vp.SetViewportExtent(e); err != nil {
		return err
	}
	if wasPinned {
		c.vp.SetScrollOffset(c.vp.State().MaxScrollOffset())
	}
	c.refresh()
	return nil
}

// SetItemExtent changes the extent of every item in a uniform view
func (c *Coordinator[T]) SetItemExtent(e float64) error {
	c.mu.Lock()
	defer c.unlockAndFlush()

	if !c.attached {
		return domain.ErrDetached
	}
	if c.uniform == nil {
		return fmt.Errorf("%w: view uses an estimator, not a fixed item extent", domain.ErrInvalidConfig)
	}
	if err := c.uniform.SetItemExtent(e); err != nil {
		return err
	}
	if err := c.relayout(); err != nil {
		return err
	}
	c.refresh()
	return nil
}

// SetEstimator swaps the estimator of a variable-extent view, which rebuilds
// the offset table. A pinned view stays at the bottom.
func (c *Coordinator[T]) SetEstimator(estimate extent.Estimator[T]) error {
	c.mu.Lock()
	defer c.unlockAndFlush()

	if !c.attached {
		return domain.ErrDetached
	}
	if c.cumulative == nil {
		return fmt.Errorf("%w: view uses a fixed item extent, not an estimator", domain.ErrInvalidConfig)
	}
	if estimate == nil {
		return fmt.Errorf("%w: estimator must not be nil", domain.ErrInvalidConfig)
	}

	wasPinned := c.pin != nil && c.pin.Pinned()
	prev := c.estimate
	c.estimate = estimate
	c.cumulative.Invalidate()
	if err := c.relayout(); err != nil {
		c.estimate = prev
		return err
	}
	if wasPinned {
		c.vp.SetScrollOffset(c.vp.State().MaxScrollOffset())
	}
	c.refresh()
	return nil
}

// sample runs the five per-sample steps and returns the applied offset
func (c *Coordinator[T]) sample(offset float64) float64 {
	applied := c.vp.SetScrollOffset(offset)

	if !c.scrolling {
		c.scrolling = true
		c.emitScrolling(true)
	}
	c.quietGen++
	gen := c.quietGen
	c.quiet.Trigger(func() { c.quietElapsed(gen) })

	c.visible = c.index.Range(applied, c.vp.State().ViewportExtent, c.overscan)
	c.evaluateLoad()
	atBottom := c.observeBottom()

	if c.onScroll != nil {
		fn := c.onScroll
		c.pending.Add(func() { fn(applied, atBottom) })
	}
	return applied
}

// refresh recomputes the range and the pin state without counting as a sample
func (c *Coordinator[T]) refresh() {
	s := c.vp.State()
	c.visible = c.index.Range(s.ScrollOffset, s.ViewportExtent, c.overscan)
	c.observeBottom()
}

func (c *Coordinator[T]) observeBottom() bool {
	s := c.vp.State()
	if c.pin != nil {
		return c.pin.Observe(s)
	}
	return s.DistanceToEnd() < c.bottomEpsilon
}

// quietElapsed ends the scrolling state unless a sample newer than gen
// arrived while the timer was waiting for the lock
func (c *Coordinator[T]) quietElapsed(gen uint64) {
	c.mu.Lock()
	defer c.unlockAndFlush()

	if !c.attached || !c.scrolling || gen != c.quietGen {
		return
	}
	c.scrolling = false
	c.emitScrolling(false)
}

func (c *Coordinator[T]) evaluateLoad() {
	if c.loader == nil || !c.loader.ShouldTrigger(c.vp.State().DistanceToEnd()) {
		return
	}
	load, ok := c.loader.Begin()
	if !ok {
		return
	}
	c.emitLoadState()
	go c.runLoad(load, len(c.items))
}

// runLoad is the only suspension point: it calls LoadMore without the lock
// and applies the outcome as a turn of its own.
func (c *Coordinator[T]) runLoad(load loader.LoadFunc, countBefore int) {
	err := load(c.ctx)

	c.mu.Lock()
	defer c.unlockAndFlush()

	if !c.attached {
		return
	}
	state := c.loader.Settle(err)
	c.emitLoadState()

	if err != nil {
		if c.onLoadMoreError != nil {
			fn := c.onLoadMoreError
			c.pending.Add(func() { fn(err) })
		}
		return
	}
	// a short page may leave the viewport near the end; keep filling, but
	// only while loads actually produce items
	if state == loader.Idle && len(c.items) > countBefore {
		c.evaluateLoad()
	}
}

func (c *Coordinator[T]) relayout() error {
	n := c.renderedCount()
	if c.uniform != nil {
		c.uniform.SetCount(n)
	} else if c.cumulative.NeedsRebuild(n) {
		if err := c.cumulative.Rebuild(n, c.extentAt); err != nil {
			return err
		}
	}
	c.vp.SetTotalExtent(c.index.Total())
	return nil
}

func (c *Coordinator[T]) extentAt(i int) float64 {
	if i < len(c.items) {
		return c.estimate(c.items[i], i)
	}
	return c.sentinelExtent
}

func (c *Coordinator[T]) renderedCount() int {
	if c.loader != nil {
		return len(c.items) + 1
	}
	return len(c.items)
}

func (c *Coordinator[T]) keyAt(items []T) func(int) string {
	return func(i int) string { return c.key(items[i]) }
}

func (c *Coordinator[T]) emitScrolling(scrolling bool) {
	if c.onScrollingChange == nil {
		return
	}
	fn := c.onScrollingChange
	c.pending.Add(func() { fn(scrolling) })
}

func (c *Coordinator[T]) emitLoadState() {
	if c.onLoadStateChange == nil {
		return
	}
	fn := c.onLoadStateChange
	state := c.loader.State()
	c.pending.Add(func() { fn(state) })
}

// unlockAndFlush releases the lock, then runs the callbacks queued by the turn
func (c *Coordinator[T]) unlockAndFlush() {
	var calls []func()
	for c.pending.Length() > 0 {
		calls = append(calls, c.pending.Remove().(func()))
	}
	c.mu.Unlock()

	for _, fn := range calls {
		fn()
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
