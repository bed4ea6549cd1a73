package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/taskflow/taskflow/internal/entity"
)

// CacheRepository keeps each owner's full task list under its own key so
// one user's writes never evict another user's cache.
type CacheRepository struct {
	client *redis.Client
}

func NewCacheRepository(addr, password string, db int) *CacheRepository {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &CacheRepository{client: client}
}

func taskKey(ownerID uuid.UUID) string {
	return "tasks:" + ownerID.String()
}

func (c *CacheRepository) SetTasks(ctx context.Context, ownerID uuid.UUID, tasks []entity.Task, ttl time.Duration) error {
	data, err := json.Marshal(tasks)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, taskKey(ownerID), data, ttl).Err()
}

func (c *CacheRepository) GetTasks(ctx context.Context, ownerID uuid.UUID) ([]entity.Task, bool, error) {
	data, err := c.client.Get(ctx, taskKey(ownerID)).Result()
	if err == redis.Nil {
		return nil, false, nil
	} else if err != nil {
		return nil, false, err
	}

	var tasks []entity.Task
	if err := json.Unmarshal([]byte(data), &tasks); err != nil {
		return nil, false, err
	}
	return tasks, true, nil
}

func (c *CacheRepository) Invalidate(ctx context.Context, ownerID uuid.UUID) error {
	return c.client.Del(ctx, taskKey(ownerID)).Err()
}

// Ping checks the Redis connection.
func (c *CacheRepository) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close releases the underlying connection pool.
func (c *CacheRepository) Close() error {
	return c.client.Close()
}
