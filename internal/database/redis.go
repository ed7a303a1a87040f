package database

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisClients struct {
	Publish *redis.Client
	PubSub  *redis.Client
}

func NewRedisClients(redisURL string) (*RedisClients, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	publishClient := redis.NewClient(opt)
	if err := publishClient.Ping(ctx).Err(); err != nil {
		publishClient.Close()
		return nil, fmt.Errorf("failed to ping Redis (publish): %w", err)
	}

	// Subscriptions hold their connections, keep them off the publish pool.
	pubsubOpt := *opt
	pubsubClient := redis.NewClient(&pubsubOpt)
	if err := pubsubClient.Ping(ctx).Err(); err != nil {
		publishClient.Close()
		pubsubClient.Close()
		return nil, fmt.Errorf("failed to ping Redis (pubsub): %w", err)
	}

	return &RedisClients{
		Publish: publishClient,
		PubSub:  pubsubClient,
	}, nil
}

func (r *RedisClients) Close() {
	r.Publish.Close()
	r.PubSub.Close()
}
