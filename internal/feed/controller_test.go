package feed

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinefeed/backend/internal/models"
)

// fakeClock is a manually advanced time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

// chatStub serves /messages from a mutable in-memory slice and records
// posted bodies.
type chatStub struct {
	mu       sync.Mutex
	messages []models.Message
	posted   []string
	failPost bool
}

func (s *chatStub) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/messages", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()

		if r.Method == http.MethodPost {
			if s.failPost {
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(map[string]string{"error": "message cannot be empty"})
				return
			}
			var req struct {
				Message string `json:"message"`
			}
			json.NewDecoder(r.Body).Decode(&req)
			s.posted = append(s.posted, req.Message)
			json.NewEncoder(w).Encode(map[string]any{"ok": true, "message_id": len(s.posted), "user_name": "SilentOtter123"})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"messages": s.messages})
	})
	return mux
}

func (s *chatStub) setMessages(msgs []models.Message) {
	s.mu.Lock()
	s.messages = msgs
	s.mu.Unlock()
}

func newTestController(t *testing.T, clock *fakeClock) (*Controller, *chatStub) {
	t.Helper()
	stub := &chatStub{}
	srv := httptest.NewServer(stub.handler())
	t.Cleanup(srv.Close)
	return New(srv.URL, WithClock(clock.Now)), stub
}

func msg(id int64, text string) models.Message {
	return models.Message{ID: id, UserName: "BraveLion456", Message: text}
}

func TestPollAppendsOnlyUnseen(t *testing.T) {
	clock := newFakeClock()
	c, stub := newTestController(t, clock)

	stub.setMessages([]models.Message{msg(1, "first"), msg(2, "second")})
	require.NoError(t, c.Poll(context.Background()))
	require.Len(t, c.Visible(), 2)

	// Same feed plus one new message: only the new one is appended.
	stub.setMessages([]models.Message{msg(1, "first"), msg(2, "second"), msg(3, "third")})
	require.NoError(t, c.Poll(context.Background()))

	visible := c.Visible()
	require.Len(t, visible, 3)
	assert.Equal(t, int64(1), visible[0].Message.ID)
	assert.Equal(t, int64(3), visible[2].Message.ID)
}

func TestEvictDropsExpiredEntries(t *testing.T) {
	clock := newFakeClock()
	c, stub := newTestController(t, clock)

	stub.setMessages([]models.Message{msg(1, "early")})
	require.NoError(t, c.Poll(context.Background()))

	clock.Advance(30 * time.Second)
	stub.setMessages([]models.Message{msg(1, "early"), msg(2, "late")})
	require.NoError(t, c.Poll(context.Background()))

	// 41 s after message 1 was displayed, 11 s after message 2.
	clock.Advance(11 * time.Second)
	evicted := c.Evict()

	require.Len(t, evicted, 1)
	assert.Equal(t, int64(1), evicted[0].ID)

	visible := c.Visible()
	require.Len(t, visible, 1)
	assert.Equal(t, int64(2), visible[0].Message.ID)
}

func TestEvictedMessageIsNeverReAdded(t *testing.T) {
	clock := newFakeClock()
	c, stub := newTestController(t, clock)

	stub.setMessages([]models.Message{msg(1, "ephemeral")})
	require.NoError(t, c.Poll(context.Background()))

	clock.Advance(DefaultLifetime + time.Second)
	require.Len(t, c.Evict(), 1)
	assert.Empty(t, c.Visible())

	// The server still returns the row; the seen-set blocks re-display.
	require.NoError(t, c.Poll(context.Background()))
	assert.Empty(t, c.Visible())
	assert.True(t, c.Seen(1))
}

func TestEvictionUsesDisplayTimeNotCreationTime(t *testing.T) {
	clock := newFakeClock()
	c, stub := newTestController(t, clock)

	// A message created long ago but first displayed now still gets its
	// full lifetime locally.
	old := msg(1, "late arrival")
	old.CreatedAt = clock.Now().Add(-time.Hour)
	stub.setMessages([]models.Message{old})
	require.NoError(t, c.Poll(context.Background()))

	clock.Advance(DefaultLifetime - time.Second)
	assert.Empty(t, c.Evict())
	assert.Len(t, c.Visible(), 1)
}

func TestSendClearsInputOptimistically(t *testing.T) {
	clock := newFakeClock()
	c, stub := newTestController(t, clock)

	c.SetInput("hello board")
	require.NoError(t, c.Send(context.Background()))
	assert.Empty(t, c.Input())

	stub.mu.Lock()
	defer stub.mu.Unlock()
	require.Len(t, stub.posted, 1)
	assert.Equal(t, "hello board", stub.posted[0])
}

func TestSendRestoresInputOnFailure(t *testing.T) {
	clock := newFakeClock()
	c, stub := newTestController(t, clock)
	stub.failPost = true

	c.SetInput("do not lose me")
	err := c.Send(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "message cannot be empty")
	assert.Equal(t, "do not lose me", c.Input())
}

func TestAppendAndEvictHooks(t *testing.T) {
	clock := newFakeClock()
	c, stub := newTestController(t, clock)

	var appended, evicted []int64
	c.OnAppend = func(m models.Message) { appended = append(appended, m.ID) }
	c.OnEvict = func(m models.Message) { evicted = append(evicted, m.ID) }

	stub.setMessages([]models.Message{msg(1, "a"), msg(2, "b")})
	require.NoError(t, c.Poll(context.Background()))
	assert.Equal(t, []int64{1, 2}, appended)

	clock.Advance(DefaultLifetime + time.Second)
	c.Evict()
	assert.Equal(t, []int64{1, 2}, evicted)
}
