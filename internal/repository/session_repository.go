package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// SessionRepository 定义了管理员会话记录的操作接口。
// 会话以 sessionID 为键存入 Redis，注销或过期后即失效。
type SessionRepository interface {
	Save(ctx context.Context, sessionID string, ttl time.Duration) error
	Exists(ctx context.Context, sessionID string) (bool, error)
	Delete(ctx context.Context, sessionID string) error
}

type redisSessionRepository struct {
	redisClient *redis.Client
}

// NewSessionRepository 创建一个新的 SessionRepository 实例。
func NewSessionRepository(redisClient *redis.Client) SessionRepository {
	return &redisSessionRepository{redisClient: redisClient}
}

func sessionKey(sessionID string) string {
	return fmt.Sprintf("admin:session:%s", sessionID)
}

// Save 写入一条带 TTL 的会话记录。
func (r *redisSessionRepository) Save(ctx context.Context, sessionID string, ttl time.Duration) error {
	if err := r.redisClient.Set(ctx, sessionKey(sessionID), "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to save admin session: %w", err)
	}
	return nil
}

// Exists 检查会话记录是否仍然有效。
func (r *redisSessionRepository) Exists(ctx context.Context, sessionID string) (bool, error) {
	_, err := r.redisClient.Get(ctx, sessionKey(sessionID)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check admin session: %w", err)
	}
	return true, nil
}

// Delete 删除会话记录，幂等。
func (r *redisSessionRepository) Delete(ctx context.Context, sessionID string) error {
	if err := r.redisClient.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to delete admin session: %w", err)
	}
	return nil
}
