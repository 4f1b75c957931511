package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ErrCacheMiss is returned when the requested key is not in the cache.
var ErrCacheMiss = errors.New("cache: key not found")

// Cache key prefix and TTL for learner snapshots.
const (
	PrefixSnapshot   = "bitlit:snapshot:"
	TTLSnapshotCache = 30 * time.Minute
)

// RedisConfig holds Redis connection configuration.
type RedisConfig struct {
	Addr        string
	Password    string
	DB          int
	DialTimeout time.Duration
}

// NewRedisClient connects to Redis and verifies the connection.
func NewRedisClient(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	if cfg.DialTimeout == 0 {
		cfg.DialTimeout = 5 * time.Second
	}
	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: cfg.DialTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, cfg.DialTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}
	return client, nil
}

// CachedSnapshotRepo is a read-through, write-through Redis cache in front
// of a SnapshotRepo. Only the latest snapshot per name is cached. Cache
// failures degrade to the underlying repo.
type CachedSnapshotRepo struct {
	inner  SnapshotRepo
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedSnapshotRepo wraps inner with a Redis cache.
func NewCachedSnapshotRepo(inner SnapshotRepo, client *redis.Client, ttl time.Duration, logger *zap.Logger) *CachedSnapshotRepo {
	if ttl <= 0 {
		ttl = TTLSnapshotCache
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedSnapshotRepo{inner: inner, client: client, ttl: ttl, logger: logger}
}

func (c *CachedSnapshotRepo) Save(ctx context.Context, snap *Snapshot) error {
	if err := c.inner.Save(ctx, snap); err != nil {
		return err
	}
	if err := c.set(ctx, snap); err != nil {
		c.logger.Warn("snapshot cache write failed", zap.String("name", snap.Name), zap.Error(err))
		c.invalidate(ctx, snap.Name)
	}
	return nil
}

func (c *CachedSnapshotRepo) Latest(ctx context.Context, name string) (*Snapshot, error) {
	snap, err := c.get(ctx, name)
	if err == nil {
		return snap, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		c.logger.Warn("snapshot cache read failed", zap.String("name", name), zap.Error(err))
	}

	snap, err = c.inner.Latest(ctx, name)
	if err != nil || snap == nil {
		return snap, err
	}
	if err := c.set(ctx, snap); err != nil {
		c.logger.Warn("snapshot cache fill failed", zap.String("name", name), zap.Error(err))
	}
	return snap, nil
}

// Prune never removes the newest snapshot, so the cached entry stays valid.
func (c *CachedSnapshotRepo) Prune(ctx context.Context, name string, keep int) error {
	return c.inner.Prune(ctx, name, keep)
}

func (c *CachedSnapshotRepo) Delete(ctx context.Context, name string) error {
	c.invalidate(ctx, name)
	return c.inner.Delete(ctx, name)
}

func (c *CachedSnapshotRepo) Names(ctx context.Context) ([]string, error) {
	return c.inner.Names(ctx)
}

func (c *CachedSnapshotRepo) get(ctx context.Context, name string) (*Snapshot, error) {
	raw, err := c.client.Get(ctx, snapshotKey(name)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}
	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("decode cached snapshot: %w", err)
	}
	return &snap, nil
}

func (c *CachedSnapshotRepo) set(ctx context.Context, snap *Snapshot) error {
	cp := *snap
	cp.Data = normalizeSnapshotData(cp.Data)
	raw, err := json.Marshal(cp)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return c.client.Set(ctx, snapshotKey(snap.Name), raw, c.ttl).Err()
}

func (c *CachedSnapshotRepo) invalidate(ctx context.Context, name string) {
	if err := c.client.Del(ctx, snapshotKey(name)).Err(); err != nil {
		c.logger.Warn("snapshot cache invalidate failed", zap.String("name", name), zap.Error(err))
	}
}

func snapshotKey(name string) string {
	return PrefixSnapshot + name
}
