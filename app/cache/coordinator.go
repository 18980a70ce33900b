package cache

import (
	"context"
	"log/slog"
	"sort"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

const probeInterval = 30 * time.Second

// Coordinator is the read-through cache for query results. A backend that is
// unreachable or erroring degrades the coordinator to cache-disabled mode:
// reads report misses, writes are skipped, and callers never see the failure.
type Coordinator struct {
	client    *redis.Client
	enabled   bool
	available atomic.Bool
	lastProbe atomic.Int64
}

// NewCoordinator connects to the cache backend. A failed initial ping does
// not error out; the coordinator starts degraded and recovers once the
// backend answers.
func NewCoordinator(addr string, enabled bool) *Coordinator {
	c := &Coordinator{enabled: enabled}
	if !enabled {
		return c
	}

	c.client = redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})

	if err := c.client.Ping(context.Background()).Err(); err != nil {
		slog.Warn("Cache backend unreachable, starting in cache-disabled mode", "addr", addr, "error", err)
		c.lastProbe.Store(time.Now().UnixNano())
		return c
	}

	slog.Info("Connected to cache backend", "addr", addr)
	c.available.Store(true)

	return c
}

func (c *Coordinator) GetPage(ctx context.Context, userID, folderID, field string) (string, bool) {
	if !c.ready(ctx) {
		return "", false
	}

	payload, err := c.client.HGet(ctx, Superkey(userID, folderID), field).Result()
	if err == redis.Nil {
		return "", false
	}
	if err != nil {
		c.fail(err)
		return "", false
	}

	return payload, true
}

func (c *Coordinator) SetPage(ctx context.Context, userID, folderID, field, payload string) {
	if !c.ready(ctx) {
		return
	}

	if err := c.client.HSet(ctx, Superkey(userID, folderID), field, payload).Err(); err != nil {
		c.fail(err)
	}
}

// InvalidateFolder drops every cached page for the owner and folder. Coarse
// on purpose: correctness favors whole-superkey invalidation over staleness.
func (c *Coordinator) InvalidateFolder(ctx context.Context, userID, folderID string) {
	if !c.ready(ctx) {
		return
	}

	if err := c.client.Del(ctx, Superkey(userID, folderID)).Err(); err != nil {
		c.fail(err)
	}
}

func (c *Coordinator) GetFolderList(ctx context.Context, userID string) ([]string, bool) {
	if !c.ready(ctx) {
		return nil, false
	}

	names, err := c.client.SMembers(ctx, FolderListKey(userID)).Result()
	if err != nil {
		c.fail(err)
		return nil, false
	}
	if len(names) == 0 {
		return nil, false
	}

	sort.Strings(names)
	return names, true
}

func (c *Coordinator) SetFolderList(ctx context.Context, userID string, names []string) {
	if !c.ready(ctx) || len(names) == 0 {
		return
	}

	members := make([]interface{}, len(names))
	for i, name := range names {
		members[i] = name
	}

	if err := c.client.SAdd(ctx, FolderListKey(userID), members...).Err(); err != nil {
		c.fail(err)
	}
}

func (c *Coordinator) InvalidateFolderList(ctx context.Context, userID string) {
	if !c.ready(ctx) {
		return
	}

	if err := c.client.Del(ctx, FolderListKey(userID)).Err(); err != nil {
		c.fail(err)
	}
}

func (c *Coordinator) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}

// ready reports whether cache operations should be attempted. While
// degraded, at most one ping per probe interval checks for recovery.
func (c *Coordinator) ready(ctx context.Context) bool {
	if !c.enabled || c.client == nil {
		return false
	}
	if c.available.Load() {
		return true
	}

	last := c.lastProbe.Load()
	now := time.Now().UnixNano()
	if now-last < int64(probeInterval) {
		return false
	}
	if !c.lastProbe.CompareAndSwap(last, now) {
		return false
	}

	if err := c.client.Ping(ctx).Err(); err != nil {
		return false
	}

	c.available.Store(true)
	slog.Info("Cache backend recovered, caching re-enabled")

	return true
}

func (c *Coordinator) fail(err error) {
	c.lastProbe.Store(time.Now().UnixNano())
	if c.available.Swap(false) {
		slog.Warn("Cache backend error, degrading to cache-disabled mode", "error", err)
	}
}
