package pending

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/craftledger/internal/platform/logger"
)

const DefaultKeyPrefix = "craftledger:pending:"

// RedisStore shares selections across restarts and replicas. Take uses GETDEL, so two concurrent takes for one
// user cannot both see the selection.
type RedisStore struct {
	log    *logger.Logger
	rdb    *goredis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisStore(log *logger.Logger, addr, prefix string, ttl time.Duration) (*RedisStore, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, fmt.Errorf("missing redis addr")
	}
	if strings.TrimSpace(prefix) == "" {
		prefix = DefaultKeyPrefix
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &RedisStore{
		log:    log.With("service", "RedisPendingStore"),
		rdb:    rdb,
		prefix: prefix,
		ttl:    ttl,
	}, nil
}

func (r *RedisStore) key(userID string) string { return r.prefix + userID }

func (r *RedisStore) Put(ctx context.Context, s Selection) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	ttl := r.ttl
	if ttl < 0 {
		ttl = 0
	}
	if err := r.rdb.Set(ctx, r.key(s.UserID), raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis set pending: %w", err)
	}
	return nil
}

func (r *RedisStore) Restore(ctx context.Context, s Selection) (bool, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return false, err
	}
	ttl := r.ttl
	if ttl < 0 {
		ttl = 0
	}
	held, err := r.rdb.SetNX(ctx, r.key(s.UserID), raw, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx pending: %w", err)
	}
	return held, nil
}

func (r *RedisStore) Take(ctx context.Context, userID string) (Selection, bool, error) {
	raw, err := r.rdb.GetDel(ctx, r.key(userID)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return Selection{}, false, nil
	}
	if err != nil {
		return Selection{}, false, fmt.Errorf("redis getdel pending: %w", err)
	}
	var s Selection
	if err := json.Unmarshal(raw, &s); err != nil {
		r.log.Warn("bad pending selection payload", "user_id", userID, "error", err)
		return Selection{}, false, nil
	}
	return s, true, nil
}

func (r *RedisStore) Close() error {
	if r == nil || r.rdb == nil {
		return nil
	}
	return r.rdb.Close()
}
