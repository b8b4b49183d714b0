package client

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"coursecloud/internal/enrollment/models"
	platformredis "coursecloud/internal/platform/redis"
)

// CachedIdentityClient puts a short-TTL redis cache in front of student
// lookups. The cache is never authoritative: read or write failures fall
// through to the wrapped client and are logged at debug.
type CachedIdentityClient struct {
	next   IdentityClient
	redis  *platformredis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewCachedIdentityClient(next IdentityClient, redis *platformredis.Client, ttl time.Duration, logger *slog.Logger) *CachedIdentityClient {
	return &CachedIdentityClient{next: next, redis: redis, ttl: ttl, logger: logger}
}

func (c *CachedIdentityClient) FetchStudent(ctx context.Context, studentID string) (*models.Student, error) {
	key := "student:" + studentID

	if raw, err := c.redis.Get(ctx, key).Bytes(); err == nil {
		var student models.Student
		if err := json.Unmarshal(raw, &student); err == nil {
			return &student, nil
		}
	}

	student, err := c.next.FetchStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(student); err == nil {
		if err := c.redis.Set(ctx, key, raw, c.ttl).Err(); err != nil {
			c.logger.DebugContext(ctx, "identity cache write failed", "student_id", studentID, "error", err)
		}
	}
	return student, nil
}
