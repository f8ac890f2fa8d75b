// Package live keeps standing queries fresh: writers announce which tables
// changed, and subscribers re-run their query and receive a new snapshot.
package live

import (
	"slices"
	"sync"

	"github.com/google/uuid"
)

// Table names announced in changes.
const (
	TableNotes   = "notes"
	TableHistory = "note_edit_history"
)

// Change describes one committed write.
type Change struct {
	Tables  []string
	NoteIDs []int64
}

// Touches reports whether c affects any of tables. A subscription with no
// tables matches every change.
func (c Change) Touches(tables map[string]struct{}) bool {
	if len(tables) == 0 {
		return true
	}
	return slices.ContainsFunc(c.Tables, func(t string) bool {
		_, ok := tables[t]
		return ok
	})
}

// Subscription signals on C after each matching change. Signals coalesce:
// several changes before the receiver wakes up yield one signal.
type Subscription struct {
	ID     string
	C      <-chan struct{}
	c      chan struct{}
	tables map[string]struct{}
	hub    *Hub
	once   sync.Once
}

// Close unsubscribes. It is safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(func() { s.hub.unsubscribe(s.ID) })
}

// Hub fans change notifications out to subscriptions and listeners.
type Hub struct {
	mu        sync.RWMutex
	subs      map[string]*Subscription
	listeners map[string]func(Change)
}

func NewHub() *Hub {
	return &Hub{
		subs:      make(map[string]*Subscription),
		listeners: make(map[string]func(Change)),
	}
}

// Subscribe registers interest in the given tables (all tables when empty).
func (h *Hub) Subscribe(tables ...string) *Subscription {
	c := make(chan struct{}, 1)
	s := &Subscription{
		ID:     uuid.NewString(),
		C:      c,
		c:      c,
		tables: make(map[string]struct{}, len(tables)),
		hub:    h,
	}
	for _, t := range tables {
		s.tables[t] = struct{}{}
	}

	h.mu.Lock()
	h.subs[s.ID] = s
	h.mu.Unlock()
	return s
}

func (h *Hub) unsubscribe(id string) {
	h.mu.Lock()
	delete(h.subs, id)
	h.mu.Unlock()
}

// OnChange registers fn to run synchronously inside Notify for every change.
// The returned func removes it.
func (h *Hub) OnChange(fn func(Change)) (cancel func()) {
	id := uuid.NewString()
	h.mu.Lock()
	h.listeners[id] = fn
	h.mu.Unlock()
	return func() {
		h.mu.Lock()
		delete(h.listeners, id)
		h.mu.Unlock()
	}
}

// Notify announces a committed change. It never blocks on subscribers.
func (h *Hub) Notify(c Change) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, fn := range h.listeners {
		fn(c)
	}
	for _, s := range h.subs {
		if !c.Touches(s.tables) {
			continue
		}
		select {
		case s.c <- struct{}{}:
		default:
		}
	}
}

// Subscribers returns the number of open subscriptions.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
