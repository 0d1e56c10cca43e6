// Package search turns raw query input into cancelable catalog lookups and
// reconciles their outcomes into a single observable State.
//
// All State mutation happens under one mutex. A lookup runs in its own
// goroutine with its own context; when it completes it re-checks, under the
// same mutex, that it is still the current lookup before touching State.
// Starting a lookup or resetting for a short query supersedes every earlier
// lookup.
package search

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	liberrors "github.com/lepinkainen/pdbrowse/internal/errors"
	"github.com/lepinkainen/pdbrowse/internal/openlibrary"
)

const (
	// DefaultMinQueryLength is the shortest trimmed query that triggers a lookup.
	DefaultMinQueryLength = 2

	// KeepTypingMessage is shown for a non-empty query below the minimum length.
	KeepTypingMessage = "Keep typing to narrow your search."
)

// Searcher performs a single catalog lookup. Implementations should return
// promptly once ctx is cancelled; Wait blocks until they do.
type Searcher interface {
	Search(ctx context.Context, query string) ([]openlibrary.Work, error)
}

// Controller owns the search State for one session.
type Controller struct {
	searcher  Searcher
	logger    *slog.Logger
	debounce  time.Duration
	minLength int

	baseCtx    context.Context
	baseCancel context.CancelFunc
	wg         sync.WaitGroup

	mu         sync.Mutex
	state      State
	generation uint64
	cancel     context.CancelFunc
	closed     bool
	subs       map[int]chan State
	nextSubID  int
}

// Option is a functional option for configuring the Controller.
type Option func(*Controller)

// WithLogger sets the logger used for lookup tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithDebounce delays each lookup by d. A newer Submit during the delay
// cancels the pending lookup before it reaches the network.
func WithDebounce(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.debounce = d
		}
	}
}

// WithMinQueryLength overrides the minimum trimmed query length in runes.
func WithMinQueryLength(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.minLength = n
		}
	}
}

// New creates a Controller with an idle State.
func New(searcher Searcher, opts ...Option) *Controller {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		searcher:   searcher,
		logger:     slog.Default(),
		minLength:  DefaultMinQueryLength,
		baseCtx:    ctx,
		baseCancel: cancel,
		subs:       make(map[int]chan State),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Submit records raw as the current query and decides whether to reset or
// start a new lookup. It never blocks on the network; outcomes land in State
// asynchronously.
func (c *Controller) Submit(raw string) {
	trimmed := strings.TrimSpace(raw)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	c.state.Query = raw
	c.supersedeLocked()

	if utf8.RuneCountInString(trimmed) < c.minLength {
		c.state.Results = nil
		c.state.IsLoading = false
		c.state.ErrorMessage = ""
		if trimmed != "" {
			c.state.ErrorMessage = KeepTypingMessage
		}
		c.publishLocked()
		return
	}

	ctx, cancel := context.WithCancel(c.baseCtx)
	c.cancel = cancel
	gen := c.generation
	lookupID := uuid.NewString()

	c.state.IsLoading = true
	c.state.ErrorMessage = ""
	c.publishLocked()

	c.logger.Debug("Starting lookup", "lookup_id", lookupID, "query", trimmed)

	c.wg.Add(1)
	go c.lookup(ctx, gen, lookupID, trimmed)
}

// Retry re-submits the current query text.
func (c *Controller) Retry() {
	c.mu.Lock()
	query := c.state.Query
	c.mu.Unlock()

	c.Submit(query)
}

// Snapshot returns a copy of the current State.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// Subscribe returns a channel that receives a State copy after every
// mutation, starting with the current State. The channel only holds the
// latest State; a slow reader skips intermediate ones. The returned function
// unsubscribes and closes the channel.
func (c *Controller) Subscribe() (<-chan State, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch := make(chan State, 1)
	if c.closed {
		close(ch)
		return ch, func() {}
	}

	id := c.nextSubID
	c.nextSubID++
	c.subs[id] = ch
	ch <- c.state.clone()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			if sub, ok := c.subs[id]; ok {
				delete(c.subs, id)
				close(sub)
			}
		})
	}
}

// Wait blocks until every started lookup goroutine has returned.
func (c *Controller) Wait() {
	c.wg.Wait()
}

// Close cancels the in-flight lookup and detaches the controller. Later
// Submit calls and lookup completions have no effect. Subscriber channels
// are closed. Close does not wait for lookup goroutines; call Wait for that.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.supersedeLocked()
	c.baseCancel()
	for id, ch := range c.subs {
		delete(c.subs, id)
		close(ch)
	}
	c.mu.Unlock()
}

// supersedeLocked invalidates the current lookup, if any.
func (c *Controller) supersedeLocked() {
	c.generation++
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

func (c *Controller) lookup(ctx context.Context, gen uint64, lookupID, query string) {
	defer c.wg.Done()

	if c.debounce > 0 {
		timer := time.NewTimer(c.debounce)
		select {
		case <-ctx.Done():
			timer.Stop()
			c.logger.Debug("Lookup superseded during debounce", "lookup_id", lookupID)
			return
		case <-timer.C:
		}
	}

	if ctx.Err() != nil {
		c.logger.Debug("Lookup superseded before start", "lookup_id", lookupID)
		return
	}

	started := time.Now()
	works, err := c.searcher.Search(ctx, query)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || gen != c.generation || ctx.Err() != nil {
		c.logger.Debug("Discarding stale lookup", "lookup_id", lookupID, "query", query)
		return
	}
	if err != nil && liberrors.IsCancelled(err) {
		c.logger.Debug("Lookup cancelled", "lookup_id", lookupID)
		return
	}

	c.cancel()
	c.cancel = nil

	if err != nil {
		c.state.Results = nil
		c.state.ErrorMessage = liberrors.Describe(err)
		c.logger.Warn("Search failed", "lookup_id", lookupID, "query", query, "error", err)
	} else {
		c.state.Results = cloneWorks(works)
		c.state.ErrorMessage = ""
		c.logger.Debug("Lookup complete", "lookup_id", lookupID, "results", len(works), "duration", time.Since(started))
	}
	c.state.IsLoading = false
	c.publishLocked()
}

// publishLocked hands the current State to every subscriber, replacing any
// value the subscriber has not read yet.
func (c *Controller) publishLocked() {
	if len(c.subs) == 0 {
		return
	}
	snap := c.state.clone()
	for _, ch := range c.subs {
		select {
		case ch <- snap:
			continue
		default:
		}
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap:
		default:
		}
	}
}
