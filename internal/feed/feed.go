// Package feed is the demo data collaborator of the terminal host: a seeded
// synthetic message source with paging, simulated latency and failures, and
// a height estimator that agrees with the renderer's wrapping.
package feed

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"scrollwin/internal/config"
)

// ErrPageFailed is returned by Page when the simulated backend rejects a request
var ErrPageFailed = errors.New("page request failed")

// Item is one message of the feed
type Item struct {
	ID     int
	Author string
	Body   string
	At     time.Time
}

// Key identifies an item stably across appends
func (it Item) Key() string {
	return fmt.Sprintf("msg-%d", it.ID)
}

// Page is the result of one Page request
type Page struct {
	Items   []Item
	Next    int
	HasMore bool
}

var (
	authors = []string{"ada", "linus", "grace", "ken", "barbara", "dennis", "margaret", "rob"}
	words   = []string{
		"window", "range", "offset", "viewport", "overscan", "extent", "scroll",
		"render", "pin", "tail", "page", "cursor", "latency", "frame", "buffer",
		"sentinel", "estimate", "binary", "search", "quiet", "timer", "append",
		"ok", "the", "a", "of", "and", "then", "lgtm", "shipping",
		"日本語", "表示幅", "🚀", "✅", "naïve", "café",
	}
	epoch = time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)
)

// Source generates items deterministically from a seed: item i always has the
// same content, so pages are stable across retries.
type Source struct {
	mu          sync.Mutex
	seed        int64
	rng         *rand.Rand
	latency     time.Duration
	failureRate float64
	maxItems    int
	live        int
}

// NewSource creates a source from the feed settings
func NewSource(s config.FeedSettings) *Source {
	return &Source{
		seed:        s.Seed,
		rng:         rand.New(rand.NewSource(s.Seed)),
		latency:     s.Latency(),
		failureRate: s.FailureRate,
		maxItems:    s.MaxItems,
		live:        s.InitialItems,
	}
}

// Item returns item i
func (s *Source) Item(i int) Item {
	r := rand.New(rand.NewSource(s.seed*1_000_003 + int64(i)))

	n := 3 + r.Intn(38)
	body := make([]string, n)
	for j := range body {
		body[j] = words[r.Intn(len(words))]
	}
	return Item{
		ID:     i,
		Author: authors[r.Intn(len(authors))],
		Body:   strings.Join(body, " "),
		At:     epoch.Add(time.Duration(i) * 37 * time.Second),
	}
}

// Items returns items [from, from+n)
func (s *Source) Items(from, n int) []Item {
	out := make([]Item, 0, n)
	for i := from; i < from+n; i++ {
		out = append(out, s.Item(i))
	}
	return out
}

// Page fetches up to size items starting at cursor after the simulated
// latency. It honours ctx cancellation.
func (s *Source) Page(ctx context.Context, cursor, size int) (Page, error) {
	if s.latency > 0 {
		timer := time.NewTimer(s.latency)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return Page{}, ctx.Err()
		case <-timer.C:
		}
	}

	s.mu.Lock()
	failed := s.failureRate > 0 && s.rng.Float64() < s.failureRate
	limit := s.maxItems
	s.mu.Unlock()
	if failed {
		return Page{}, fmt.Errorf("%w: cursor %d", ErrPageFailed, cursor)
	}

	end := cursor + size
	if limit > 0 && end > limit {
		end = limit
	}
	if end < cursor {
		end = cursor
	}
	return Page{
		Items:   s.Items(cursor, end-cursor),
		Next:    end,
		HasMore: limit == 0 || end < limit,
	}, nil
}

// Next returns the next live message, continuing after the initial items
func (s *Source) Next() Item {
	s.mu.Lock()
	i := s.live
	s.live++
	s.mu.Unlock()
	return s.Item(i)
}

// Extend lets a bounded source serve n more items, as if the backend had
// received new data
func (s *Source) Extend(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.maxItems > 0 {
		s.maxItems += n
	}
}
