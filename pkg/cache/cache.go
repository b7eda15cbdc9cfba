package cache

import (
	"context"
	"fmt"
	"time"

	"tldw/pkg/summarize"
)

// DefaultTTL is how long a cached summary stays valid.
const DefaultTTL = 7 * 24 * time.Hour

// Entry is one cached summary with its retention window.
type Entry struct {
	VideoID   string            `json:"video_id"`
	Summary   summarize.Summary `json:"summary"`
	CreatedAt time.Time         `json:"created_at"`
	ExpiresAt time.Time         `json:"expires_at"`
}

// Store persists the whole cache collection as one record, mirroring a
// key-value store that reads and writes the collection atomically.
type Store interface {
	Read(ctx context.Context) (map[string]Entry, error)
	Write(ctx context.Context, entries map[string]Entry) error
}

// Cache maps video IDs to previously computed summaries. Eviction is lazy:
// expired entries are swept on every Put, never on Get, so a stale entry
// that nobody overwrites can still be served. That gap is inherited
// behavior; callers wanting strict freshness must check ExpiresAt.
type Cache struct {
	store Store
	ttl   time.Duration
	now   func() time.Time
}

func New(store Store, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		store: store,
		ttl:   ttl,
		now:   time.Now,
	}
}

// SetClock replaces the time source (tests).
func (c *Cache) SetClock(now func() time.Time) {
	c.now = now
}

// Get returns the cached entry for a video, or nil when absent. The entry
// comes back as stored, even when already expired.
func (c *Cache) Get(ctx context.Context, videoID string) (*Entry, error) {
	entries, err := c.store.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("read cache: %w", err)
	}

	entry, ok := entries[videoID]
	if !ok {
		return nil, nil
	}
	return &entry, nil
}

// Put stores a summary under its video ID, overwriting any previous entry,
// and sweeps every expired entry from the collection before persisting.
func (c *Cache) Put(ctx context.Context, summary *summarize.Summary) error {
	entries, err := c.store.Read(ctx)
	if err != nil {
		return fmt.Errorf("read cache: %w", err)
	}

	now := c.now()
	for id, entry := range entries {
		if entry.ExpiresAt.Before(now) {
			delete(entries, id)
		}
	}

	entries[summary.VideoID] = Entry{
		VideoID:   summary.VideoID,
		Summary:   *summary,
		CreatedAt: now,
		ExpiresAt: now.Add(c.ttl),
	}

	if err := c.store.Write(ctx, entries); err != nil {
		return fmt.Errorf("write cache: %w", err)
	}
	return nil
}
