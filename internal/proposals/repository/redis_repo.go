package repository

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// proposalsKey holds the JSON array of every saved proposal.
const proposalsKey = "proposalcraft:proposals"

// RedisRepository keeps the saved proposals under a single Redis key.
type RedisRepository struct {
	*collection
	client *redis.Client
}

// NewRedisRepository creates a repository backed by client.
func NewRedisRepository(client *redis.Client, clock Clock) *RedisRepository {
	r := &RedisRepository{client: client}
	r.collection = newCollection(redisBlob{client: client}, clock, "redis")
	return r
}

func (r *RedisRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

type redisBlob struct {
	client *redis.Client
}

func (b redisBlob) read(ctx context.Context) ([]byte, bool, error) {
	data, err := b.client.Get(ctx, proposalsKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (b redisBlob) write(ctx context.Context, data []byte) error {
	return b.client.Set(ctx, proposalsKey, data, 0).Err()
}

func (b redisBlob) remove(ctx context.Context) error {
	return b.client.Del(ctx, proposalsKey).Err()
}
