// Package loader implements the infinite-load policy: a three-state machine that
// requests more items when the viewport nears the end of the known set.
package loader

import (
	"context"
	"fmt"
	"math"

	"scrollwin/internal/domain"
)

// State of the infinite-load policy
type State int

const (
	// Idle accepts the next qualifying scroll sample
	Idle State = iota
	// Loading means a load is in flight; further triggers are suppressed
	Loading
	// Exhausted means the source reported no more data
	Exhausted
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Exhausted:
		return "exhausted"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// LoadFunc fetches more items. The caller supplies the new items and updates
// hasMore before it returns.
type LoadFunc func(ctx context.Context) error

// Policy is the IDLE -> LOADING -> (IDLE | EXHAUSTED) state machine. The state
// itself is the single-flight guard.
type Policy struct {
	load      LoadFunc
	threshold float64
	hasMore   bool
	state     State
	calls     int
}

// New creates a policy. threshold is the remaining content extent below the
// viewport at which a load is requested.
func New(load LoadFunc, threshold float64, hasMore bool) (*Policy, error) {
	if load == nil {
		return nil, fmt.Errorf("%w: load function is required", domain.ErrInvalidConfig)
	}
	if !(threshold >= 0) || math.IsInf(threshold, 0) {
		return nil, fmt.Errorf("%w: load threshold must not be negative, got %v", domain.ErrInvalidConfig, threshold)
	}
	p := &Policy{
		load:      load,
		threshold: threshold,
		hasMore:   hasMore,
	}
	if !hasMore {
		p.state = Exhausted
	}
	return p, nil
}

// State returns the current state
func (p *Policy) State() State { return p.state }

// HasMore reports whether the source claims more data
func (p *Policy) HasMore() bool { return p.hasMore }

// Threshold returns the trigger distance
func (p *Policy) Threshold() float64 { return p.threshold }

// SetThreshold changes the trigger distance; negative values are ignored
func (p *Policy) SetThreshold(threshold float64) {
	if threshold >= 0 && !math.IsInf(threshold, 0) {
		p.threshold = threshold
	}
}

// Calls returns how many loads were started
func (p *Policy) Calls() int { return p.calls }

// SetHasMore records the source's claim. true leaves Exhausted; false while
// Idle exhausts the policy; while Loading it is applied when the load settles.
func (p *Policy) SetHasMore(hasMore bool) {
	p.hasMore = hasMore
	switch {
	case hasMore && p.state == Exhausted:
		p.state = Idle
	case !hasMore && p.state == Idle:
		p.state = Exhausted
	}
}

// ShouldTrigger reports whether a sample at distanceToEnd starts a load
func (p *Policy) ShouldTrigger(distanceToEnd float64) bool {
	return p.state == Idle && p.hasMore && distanceToEnd <= p.threshold
}

// Begin moves Idle to Loading and returns the load function to run. ok is
// false when a load is already in flight or the policy is exhausted.
func (p *Policy) Begin() (load LoadFunc, ok bool) {
	if p.state != Idle || !p.hasMore {
		return nil, false
	}
	p.state = Loading
	p.calls++
	return p.load, true
}

// Settle applies the outcome of the in-flight load. A failure returns to Idle
// so the next qualifying sample may retry; nothing is retried automatically.
func (p *Policy) Settle(err error) State {
	if p.state != Loading {
		return p.state
	}
	switch {
	case err != nil:
		p.state = Idle
	case p.hasMore:
		p.state = Idle
	default:
		p.state = Exhausted
	}
	return p.state
}
