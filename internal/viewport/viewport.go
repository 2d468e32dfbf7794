// Package viewport holds the scroll position, visible extent and virtual
// content extent of one windowed view.
package viewport

import (
	"fmt"
	"math"

	"scrollwin/internal/domain"
)

// State is a snapshot of the viewport
type State struct {
	ScrollOffset   float64
	ViewportExtent float64
	TotalExtent    float64
}

// MaxScrollOffset returns the largest valid scroll offset
func (s State) MaxScrollOffset() float64 {
	return math.Max(0, s.TotalExtent-s.ViewportExtent)
}

// DistanceToEnd returns the content extent below the bottom edge
func (s State) DistanceToEnd() float64 {
	return s.TotalExtent - (s.ScrollOffset + s.ViewportExtent)
}

// ChangeFunc receives the previous and the new state
type ChangeFunc func(prev, next State)

// Model stores the viewport state and keeps 0 <= offset <= total - extent
type Model struct {
	state     State
	listeners map[int]ChangeFunc
	order     []int
	nextID    int
}

// New creates a model with an empty content extent
func New(viewportExtent float64) (*Model, error) {
	if err := validateExtent(viewportExtent); err != nil {
		return nil, err
	}
	return &Model{
		state:     State{ViewportExtent: viewportExtent},
		listeners: make(map[int]ChangeFunc),
	}, nil
}

func validateExtent(e float64) error {
	if !(e > 0) || math.IsInf(e, 0) {
		return fmt.Errorf("%w: viewport extent must be positive, got %v", domain.ErrInvalidConfig, e)
	}
	return nil
}

// State returns the current state
func (m *Model) State() State {
	return m.state
}

// SetScrollOffset clamps and stores the offset, returning the applied value
func (m *Model) SetScrollOffset(offset float64) float64 {
	next := m.state
	next.ScrollOffset = clampOffset(offset, next)
	m.apply(next)
	return next.ScrollOffset
}

// SetViewportExtent changes the visible extent and re-clamps the offset
func (m *Model) SetViewportExtent(extent float64) error {
	if err := validateExtent(extent); err != nil {
		return err
	}
	next := m.state
	next.ViewportExtent = extent
	next.ScrollOffset = clampOffset(next.ScrollOffset, next)
	m.apply(next)
	return nil
}

// SetTotalExtent changes the content extent and re-clamps the offset
func (m *Model) SetTotalExtent(total float64) {
	if !(total >= 0) {
		total = 0
	}
	next := m.state
	next.TotalExtent = total
	next.ScrollOffset = clampOffset(next.ScrollOffset, next)
	m.apply(next)
}

// OnChange registers fn for state changes.
// Returns an unsubscribe function
func (m *Model) OnChange(fn ChangeFunc) func() {
	id := m.nextID
	m.nextID++
	m.listeners[id] = fn
	m.order = append(m.order, id)

	return func() {
		if _, ok := m.listeners[id]; !ok {
			return
		}
		delete(m.listeners, id)
		for i, v := range m.order {
			if v == id {
				m.order = append(m.order[:i], m.order[i+1:]...)
				break
			}
		}
	}
}

func (m *Model) apply(next State) {
	prev := m.state
	if prev == next {
		return
	}
	m.state = next

	// copy so a listener may unsubscribe while being notified
	ids := append([]int(nil), m.order...)
	for _, id := range ids {
		if fn, ok := m.listeners[id]; ok {
			fn(prev, next)
		}
	}
}

func clampOffset(offset float64, s State) float64 {
	if !(offset > 0) {
		return 0
	}
	if limit := s.MaxScrollOffset(); offset > limit {
		return limit
	}
	return offset
}
