package coordinator

import (
	"scrollwin/internal/loader"
	"scrollwin/internal/viewport"
	"scrollwin/internal/window"
)

// SentinelKind tells what the trailing loader pseudo-item stands for
type SentinelKind int

const (
	// SentinelNone marks a regular item
	SentinelNone SentinelKind = iota
	// SentinelLoading stands for "loading..." while the source has more data
	SentinelLoading
	// SentinelEnd stands for "no more data"
	SentinelEnd
)

func (k SentinelKind) String() string {
	switch k {
	case SentinelLoading:
		return "loading"
	case SentinelEnd:
		return "end"
	default:
		return "none"
	}
}

// Placement positions one rendered entry
type Placement[T any] struct {
	Index    int
	Offset   float64 // absolute position along the scroll axis
	Extent   float64
	Column   int
	Item     T // zero for the sentinel
	Sentinel SentinelKind
}

// Positioned is a host-rendered node at its placement
type Positioned[N any] struct {
	Index    int
	Offset   float64
	Extent   float64
	Column   int
	Sentinel SentinelKind
	Node     N
}

// Snapshot gathers the host-facing outputs of one turn
type Snapshot struct {
	Viewport    viewport.State
	Range       window.Range
	ItemCount   int
	Scrolling   bool
	LoadingMore bool
	LoadState   loader.State
	HasMore     bool
	Pinned      bool
	AtBottom    bool
	Attached    bool
}

// VisibleRange returns the range over the rendered list, which includes the
// loader sentinel at index Len() when infinite loading is on
func (c *Coordinator[T]) VisibleRange() window.Range {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.visible
}

// ItemRange returns the visible range restricted to caller-owned items
func (c *Coordinator[T]) ItemRange() window.Range {
	c.mu.Lock()
	defer c.mu.Unlock()

	r := c.visible
	if r.End > len(c.items)-1 {
		r.End = len(c.items) - 1
	}
	if r.End < r.Start {
		return window.EmptyRange()
	}
	return r
}

// Visible returns a placement for every index in the visible range
func (c *Coordinator[T]) Visible() []Placement[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.placements()
}

// Frame returns the snapshot and the placements of the same turn, so a host
// never paints placements against the offset of a later turn
func (c *Coordinator[T]) Frame() (Snapshot, []Placement[T]) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot(), c.placements()
}

func (c *Coordinator[T]) placements() []Placement[T] {
	r := c.visible
	if r.Empty() {
		return nil
	}
	out := make([]Placement[T], 0, r.Len())
	for i := r.Start; i <= r.End; i++ {
		p := Placement[T]{
			Index:  i,
			Offset: c.index.Offset(i),
			Extent: c.index.Extent(i),
			Column: c.index.Column(i),
		}
		if i < len(c.items) {
			p.Item = c.items[i]
		} else {
			p.Sentinel = c.sentinelKind()
		}
		out = append(out, p)
	}
	return out
}

// Render maps the visible placements through the host's render functions.
// A nil renderSentinel leaves the sentinel out.
func Render[T, N any](c *Coordinator[T], renderItem func(item T, index int) N, renderSentinel func(kind SentinelKind) N) []Positioned[N] {
	placements := c.Visible()
	out := make([]Positioned[N], 0, len(placements))
	for _, p := range placements {
		pos := Positioned[N]{
			Index:    p.Index,
			Offset:   p.Offset,
			Extent:   p.Extent,
			Column:   p.Column,
			Sentinel: p.Sentinel,
		}
		if p.Sentinel != SentinelNone {
			if renderSentinel == nil {
				continue
			}
			pos.Node = renderSentinel(p.Sentinel)
		} else {
			pos.Node = renderItem(p.Item, p.Index)
		}
		out = append(out, pos)
	}
	return out
}

// OffsetOf returns the absolute position of item i, clamped into range
func (c *Coordinator[T]) OffsetOf(i int) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.items) == 0 {
		return 0
	}
	return c.index.Offset(clampInt(i, 0, len(c.items)-1))
}

// IndexAt returns the caller item under the given offset, or -1
func (c *Coordinator[T]) IndexAt(offset float64) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.items) == 0 {
		return -1
	}
	return clampInt(c.index.IndexAt(offset), 0, len(c.items)-1)
}

// Items returns the caller-owned collection
func (c *Coordinator[T]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.items
}

// Len returns the number of caller-owned items
func (c *Coordinator[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// State returns the viewport state
func (c *Coordinator[T]) State() viewport.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.vp.State()
}

// IsScrolling reports whether a scroll sample arrived within the quiet period
func (c *Coordinator[T]) IsScrolling() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.scrolling
}

// IsLoadingMore reports whether a load is in flight
func (c *Coordinator[T]) IsLoadingMore() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loader != nil && c.loader.State() == loader.Loading
}

// LoadState returns the infinite-load state; Exhausted when the policy is off
func (c *Coordinator[T]) LoadState() loader.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loader == nil {
		return loader.Exhausted
	}
	return c.loader.State()
}

// LoadCalls returns how many loads were started
func (c *Coordinator[T]) LoadCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loader == nil {
		return 0
	}
	return c.loader.Calls()
}

// IsPinnedToBottom returns the pin state of the last sample
func (c *Coordinator[T]) IsPinnedToBottom() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pin != nil && c.pin.Pinned()
}

// IsAtBottom reports whether the viewport currently shows the end of the content
func (c *Coordinator[T]) IsAtBottom() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.vp.State().DistanceToEnd() < c.bottomEpsilon
}

// Snapshot returns every host-facing output at once
func (c *Coordinator[T]) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

func (c *Coordinator[T]) snapshot() Snapshot {
	s := Snapshot{
		Viewport:  c.vp.State(),
		Range:     c.visible,
		ItemCount: len(c.items),
		Scrolling: c.scrolling,
		LoadState: loader.Exhausted,
		Attached:  c.attached,
	}
	if c.loader != nil {
		s.LoadState = c.loader.State()
		s.LoadingMore = s.LoadState == loader.Loading
		s.HasMore = c.loader.HasMore()
	}
	s.Pinned = c.pin != nil && c.pin.Pinned()
	s.AtBottom = s.Viewport.DistanceToEnd() < c.bottomEpsilon
	return s
}

func (c *Coordinator[T]) sentinelKind() SentinelKind {
	if c.loader == nil {
		return SentinelNone
	}
	if c.loader.HasMore() {
		return SentinelLoading
	}
	return SentinelEnd
}
