// Package cache holds an LRU read cache of notes kept coherent through the
// live change hub.
package cache

import (
	"context"
	"slices"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/dmitrijs2005/avisos/internal/live"
	"github.com/dmitrijs2005/avisos/internal/models"
)

// NoteCache caches notes by id. A nil *NoteCache is a valid, disabled cache.
type NoteCache struct {
	lru *lru.Cache[int64, models.Note]
	// gen increases on every invalidation; loads that straddle one are not cached.
	gen    atomic.Uint64
	cancel func()
}

// NewNoteCache returns a cache of the given size subscribed to hub. A size
// of zero disables caching and returns nil.
func NewNoteCache(size int, hub *live.Hub) (*NoteCache, error) {
	if size == 0 {
		return nil, nil
	}
	l, err := lru.New[int64, models.Note](size)
	if err != nil {
		return nil, err
	}
	c := &NoteCache{lru: l}
	if hub != nil {
		c.cancel = hub.OnChange(c.onChange)
	}
	return c, nil
}

func (c *NoteCache) onChange(ch live.Change) {
	if !slices.Contains(ch.Tables, live.TableNotes) {
		return
	}
	if len(ch.NoteIDs) == 0 {
		c.Purge()
		return
	}
	c.Invalidate(ch.NoteIDs...)
}

// GetOrLoad returns the cached note or calls load and caches its result.
func (c *NoteCache) GetOrLoad(ctx context.Context, id int64, load func(context.Context, int64) (*models.Note, error)) (*models.Note, error) {
	if c == nil {
		return load(ctx, id)
	}
	if n, ok := c.lru.Get(id); ok {
		return &n, nil
	}

	gen := c.gen.Load()
	n, err := load(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.gen.Load() == gen {
		c.lru.Add(id, *n)
	}
	return n, nil
}

func (c *NoteCache) Invalidate(ids ...int64) {
	if c == nil {
		return
	}
	c.gen.Add(1)
	for _, id := range ids {
		c.lru.Remove(id)
	}
}

func (c *NoteCache) Purge() {
	if c == nil {
		return
	}
	c.gen.Add(1)
	c.lru.Purge()
}

func (c *NoteCache) Len() int {
	if c == nil {
		return 0
	}
	return c.lru.Len()
}

// Close detaches the cache from the hub.
func (c *NoteCache) Close() {
	if c != nil && c.cancel != nil {
		c.cancel()
	}
}
