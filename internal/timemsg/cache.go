// Package timemsg tracks the live persistent time message of each guild.
package timemsg

import (
	"context"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/Taaku18/timezone-bot/internal/domain"
)

// Handle refers to a live persistent message.
type Handle struct {
	Location domain.MessageLocation
}

//go:generate mockgen -source=cache.go -destination=mocks/cache.go -package=mocks

// Fetcher confirms a message still exists and is reachable. Implementations
// resolve the channel from local state first and fall back to a remote fetch.
type Fetcher interface {
	FetchMessage(ctx context.Context, loc domain.MessageLocation) error
}

// Records is the persisted side the cache is derived from.
type Records interface {
	TimeMessages(ctx context.Context) ([]domain.MessageLocation, error)
	RemoveTimeMessage(ctx context.Context, guildID int64) error
	PruneTimeMessage(ctx context.Context, loc domain.MessageLocation) error
}

// Cache maps guild id to its live message handle.
type Cache struct {
	records Records
	fetcher Fetcher
	log     *zap.Logger

	mu      sync.RWMutex
	entries map[int64]Handle
}

// New creates an empty cache.
func New(records Records, fetcher Fetcher, log *zap.Logger) *Cache {
	return &Cache{
		records: records,
		fetcher: fetcher,
		log:     log,
		entries: make(map[int64]Handle),
	}
}

// Reconcile loads every persisted message that can still be fetched. Records
// whose channel or message is gone are removed from the store.
func (c *Cache) Reconcile(ctx context.Context) error {
	locs, err := c.records.TimeMessages(ctx)
	if err != nil {
		return err
	}
	for _, loc := range locs {
		if err := c.fetcher.FetchMessage(ctx, loc); err != nil {
			c.log.Warn("time message not found, removing",
				zap.Int64("guild", loc.GuildID),
				zap.Int64("channel", loc.ChannelID),
				zap.Int64("message", loc.MessageID),
				zap.Error(err),
			)
			if err := c.RemoveIf(ctx, loc); err != nil {
				c.log.Error("remove time message failed", zap.Int64("guild", loc.GuildID), zap.Error(err))
			}
			continue
		}
		c.Put(loc.GuildID, Handle{Location: loc})
	}
	c.log.Info("time message cache ready", zap.Int("messages", c.Len()))
	return nil
}

// Get returns the guild's handle.
func (c *Cache) Get(guildID int64) (Handle, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	h, ok := c.entries[guildID]
	return h, ok
}

// Put inserts or replaces the guild's handle.
func (c *Cache) Put(guildID int64, h Handle) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[guildID] = h
}

// Evict drops the guild's handle only; the persisted record is untouched.
func (c *Cache) Evict(guildID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, guildID)
}

// Remove evicts the guild and deletes its persisted record.
func (c *Cache) Remove(ctx context.Context, guildID int64) error {
	c.Evict(guildID)
	return c.records.RemoveTimeMessage(ctx, guildID)
}

// RemoveIf is Remove restricted to loc. A newer message sent for the same
// guild in the meantime survives in both the cache and the store.
func (c *Cache) RemoveIf(ctx context.Context, loc domain.MessageLocation) error {
	c.mu.Lock()
	if h, ok := c.entries[loc.GuildID]; ok && h.Location == loc {
		delete(c.entries, loc.GuildID)
	}
	c.mu.Unlock()
	return c.records.PruneTimeMessage(ctx, loc)
}

// Guilds returns the cached guild ids in ascending order.
func (c *Cache) Guilds() []int64 {
	c.mu.RLock()
	ids := make([]int64, 0, len(c.entries))
	for id := range c.entries {
		ids = append(ids, id)
	}
	c.mu.RUnlock()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Len returns the number of cached handles.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
