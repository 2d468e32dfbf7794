// Package pin implements bottom-pinning for append-only feeds: when new items
// arrive at the tail and the viewport sat at the bottom before they arrived,
// the view follows them.
package pin

import (
	"fmt"
	"math"

	"scrollwin/internal/domain"
	"scrollwin/internal/viewport"
)

// DefaultEpsilon is the distance from the bottom still counted as "at bottom"
const DefaultEpsilon = 1.0

// Policy tracks whether the viewport is pinned and which item was last
type Policy struct {
	epsilon float64
	pinned  bool

	count   int
	tailKey string
}

// New creates a policy; a zero epsilon selects DefaultEpsilon
func New(epsilon float64) (*Policy, error) {
	if epsilon == 0 {
		epsilon = DefaultEpsilon
	}
	if !(epsilon > 0) || math.IsInf(epsilon, 0) {
		return nil, fmt.Errorf("%w: pin epsilon must be positive, got %v", domain.ErrInvalidConfig, epsilon)
	}
	// an empty feed is at its bottom
	return &Policy{epsilon: epsilon, pinned: true}, nil
}

// Epsilon returns the bottom tolerance
func (p *Policy) Epsilon() float64 { return p.epsilon }

// Observe recomputes the pinned flag from a scroll sample
func (p *Policy) Observe(s viewport.State) bool {
	p.pinned = s.DistanceToEnd() < p.epsilon
	return p.pinned
}

// Pinned returns the flag captured by the last Observe. Read it before the
// grown collection is laid out: afterwards the total extent has increased and
// the viewport no longer reads as being at the bottom.
func (p *Policy) Pinned() bool { return p.pinned }

// Track records the collection's length and tail identity
func (p *Policy) Track(count int, keyAt func(i int) string) {
	p.count = count
	p.tailKey = ""
	if count > 0 {
		p.tailKey = keyAt(count - 1)
	}
}

// Grew reports whether the collection grew by appending at the tail: it is
// longer than the tracked one and the tracked tail item kept its position.
func (p *Policy) Grew(count int, keyAt func(i int) string) bool {
	if count <= p.count {
		return false
	}
	if p.count == 0 {
		return true
	}
	return keyAt(p.count-1) == p.tailKey
}

// ShouldFollow combines the pre-growth pin state with the growth check
func (p *Policy) ShouldFollow(count int, keyAt func(i int) string) bool {
	return p.pinned && p.Grew(count, keyAt)
}
