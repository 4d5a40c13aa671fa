package redis

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const presenceKey = "chat:online"

// RedisPresenceStore keeps the set of online parties in one ZSet scored by
// last check-in time, so stale entries age out on their own.
type RedisPresenceStore struct {
	rdb *redis.Client
}

func NewRedisPresenceStore(rdb *redis.Client) *RedisPresenceStore {
	return &RedisPresenceStore{rdb: rdb}
}

func (p *RedisPresenceStore) SetOnline(ctx context.Context, identity string, ttl time.Duration) error {
	err := p.rdb.ZAdd(ctx, presenceKey, redis.Z{
		Score:  float64(time.Now().Unix()),
		Member: identity,
	}).Err()
	if err != nil {
		return err
	}
	// Cap the whole set's lifetime so an idle deployment does not leak the key.
	return p.rdb.Expire(ctx, presenceKey, ttl*2).Err()
}

func (p *RedisPresenceStore) SetOffline(ctx context.Context, identity string) error {
	return p.rdb.ZRem(ctx, presenceKey, identity).Err()
}

func (p *RedisPresenceStore) IsOnline(ctx context.Context, identity string) (bool, error) {
	// Drop members that stopped checking in before answering.
	threshold := time.Now().Add(-10 * time.Minute).Unix()
	p.rdb.ZRemRangeByScore(ctx, presenceKey, "-inf", strconv.FormatInt(threshold, 10))

	err := p.rdb.ZScore(ctx, presenceKey, identity).Err()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
