package services

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"spaceweather-backend/internal/models"
)

// SessionChannel is the redis pub/sub channel carrying updates for one session.
func SessionChannel(sessionID uuid.UUID) string {
	return "session_updates:" + sessionID.String()
}

// RedisNotifier publishes session updates through redis pub/sub.
type RedisNotifier struct {
	redis *redis.Client
}

func NewRedisNotifier(client *redis.Client) *RedisNotifier {
	return &RedisNotifier{redis: client}
}

func (n *RedisNotifier) Notify(ctx context.Context, sessionID uuid.UUID, msg models.WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("failed to encode session update", "session_id", sessionID, "error", err)
		return
	}
	if err := n.redis.Publish(ctx, SessionChannel(sessionID), string(data)).Err(); err != nil {
		slog.Warn("failed to publish session update", "session_id", sessionID, "error", err)
	}
}
