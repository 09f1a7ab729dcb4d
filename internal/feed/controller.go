// Package feed implements the client side of the chat board: a polling
// loop that appends unseen messages to a local view, and an eviction loop
// that drops messages a fixed time after they were displayed. The view is
// an explicit ordered map from message id to entry, so both loops operate
// on plain data rather than on rendered output.
package feed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/cinefeed/backend/internal/models"
)

const (
	// DefaultPollInterval is how often the feed asks for new messages.
	DefaultPollInterval = 5 * time.Second
	// DefaultEvictInterval is how often expired entries are swept.
	DefaultEvictInterval = 2 * time.Second
	// DefaultLifetime is how long a message stays visible after it was
	// displayed locally. Display time, not creation time: a message that
	// arrives late still gets its full time on screen.
	DefaultLifetime = 40 * time.Second
)

// Entry is one visible message plus the local time it appeared.
type Entry struct {
	Message     models.Message
	DisplayedAt time.Time
}

// Controller drives the poll/evict cycle against a chat server. The two
// timers run on separate goroutines; the mutex keeps the view consistent
// between them.
type Controller struct {
	baseURL string
	client  *http.Client

	pollInterval  time.Duration
	evictInterval time.Duration
	lifetime      time.Duration
	now           func() time.Time

	mu      sync.Mutex
	seen    map[int64]struct{} // monotonic: ids stay here after eviction
	entries map[int64]*Entry
	order   []int64 // display order of live entries
	input   string  // pending outgoing text

	// OnAppend and OnEvict, when set, are called outside the lock for each
	// message entering or leaving the view. The terminal client renders
	// through these.
	OnAppend func(models.Message)
	OnEvict  func(models.Message)
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock substitutes the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithLifetime overrides the display lifetime.
func WithLifetime(d time.Duration) Option {
	return func(c *Controller) { c.lifetime = d }
}

// WithIntervals overrides the poll and evict cadence.
func WithIntervals(poll, evict time.Duration) Option {
	return func(c *Controller) {
		c.pollInterval = poll
		c.evictInterval = evict
	}
}

// WithHTTPClient substitutes the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Controller) { c.client = client }
}

// New creates a controller for the chat server at baseURL.
func New(baseURL string, opts ...Option) *Controller {
	c := &Controller{
		baseURL:       baseURL,
		client:        &http.Client{Timeout: 10 * time.Second},
		pollInterval:  DefaultPollInterval,
		evictInterval: DefaultEvictInterval,
		lifetime:      DefaultLifetime,
		now:           time.Now,
		seen:          make(map[int64]struct{}),
		entries:       make(map[int64]*Entry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run starts both timers and blocks until ctx is cancelled.
func (c *Controller) Run(ctx context.Context) {
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		ticker := time.NewTicker(c.pollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				// Poll errors are transient; the next tick retries.
				_ = c.Poll(ctx)
			}
		}
	}()

	go func() {
		defer wg.Done()
		ticker := time.NewTicker(c.evictInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.Evict()
			}
		}
	}()

	wg.Wait()
}

// Poll fetches the latest messages and appends the ones not yet seen.
// An id that was already displayed is never re-added, even after its entry
// was evicted.
func (c *Controller) Poll(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/messages", nil)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("poll failed: HTTP %d", resp.StatusCode)
	}

	var payload struct {
		Messages []models.Message `json:"messages"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return err
	}

	var appended []models.Message
	c.mu.Lock()
	for _, msg := range payload.Messages {
		if _, ok := c.seen[msg.ID]; ok {
			continue
		}
		c.seen[msg.ID] = struct{}{}
		c.entries[msg.ID] = &Entry{Message: msg, DisplayedAt: c.now()}
		c.order = append(c.order, msg.ID)
		appended = append(appended, msg)
	}
	c.mu.Unlock()

	if c.OnAppend != nil {
		for _, msg := range appended {
			c.OnAppend(msg)
		}
	}
	return nil
}

// Evict removes entries displayed longer ago than the lifetime. It is a
// pure filter over the view: the seen-set and the server's rows are
// untouched. Returns the evicted messages, oldest first.
func (c *Controller) Evict() []models.Message {
	cutoff := c.now().Add(-c.lifetime)

	var evicted []models.Message
	c.mu.Lock()
	kept := c.order[:0]
	for _, id := range c.order {
		entry := c.entries[id]
		if entry.DisplayedAt.Before(cutoff) {
			delete(c.entries, id)
			evicted = append(evicted, entry.Message)
			continue
		}
		kept = append(kept, id)
	}
	c.order = kept
	c.mu.Unlock()

	if c.OnEvict != nil {
		for _, msg := range evicted {
			c.OnEvict(msg)
		}
	}
	return evicted
}

// SetInput stages outgoing text, like typing into the input box.
func (c *Controller) SetInput(text string) {
	c.mu.Lock()
	c.input = text
	c.mu.Unlock()
}

// Input returns the currently staged text.
func (c *Controller) Input() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.input
}

// Send posts the staged input as an anonymous message. The input clears
// immediately (optimistic); on failure it is restored so nothing typed is
// lost, and the error is returned for inline display.
func (c *Controller) Send(ctx context.Context) error {
	c.mu.Lock()
	text := c.input
	c.input = ""
	c.mu.Unlock()

	if err := c.post(ctx, text); err != nil {
		c.mu.Lock()
		c.input = text
		c.mu.Unlock()
		return err
	}
	return nil
}

func (c *Controller) post(ctx context.Context, text string) error {
	body, err := json.Marshal(map[string]any{
		"message":      text,
		"is_anonymous": true,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/messages", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		var errBody struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(raw, &errBody) == nil && errBody.Error != "" {
			return fmt.Errorf("send failed: %s", errBody.Error)
		}
		return fmt.Errorf("send failed: HTTP %d", resp.StatusCode)
	}
	return nil
}

// Visible returns the live entries in display order.
func (c *Controller) Visible() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Entry, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, *c.entries[id])
	}
	return out
}

// Seen reports whether an id has ever been displayed.
func (c *Controller) Seen(id int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.seen[id]
	return ok
}
