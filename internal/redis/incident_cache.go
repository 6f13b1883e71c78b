package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"roadwatch/internal/domain"

	goredis "github.com/redis/go-redis/v9"
)

// IncidentCache keeps short-lived copies of windowed active-incident lists.
// Writers must Invalidate so a fresh create is visible to the next read.
type IncidentCache struct {
	client *goredis.Client
	prefix string
	ttl    time.Duration
}

func NewIncidentCache(r *Redis, ttl time.Duration) *IncidentCache {
	return &IncidentCache{
		client: r.Client,
		prefix: "incidents:active",
		ttl:    ttl,
	}
}

func (c *IncidentCache) key(windowHours int) string {
	return fmt.Sprintf("%s:%dh", c.prefix, windowHours)
}

// GetActive returns the cached list for the window, or (nil, nil) on a miss.
func (c *IncidentCache) GetActive(ctx context.Context, windowHours int) ([]*domain.Incident, error) {
	data, err := c.client.Get(ctx, c.key(windowHours)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var incidents []*domain.Incident
	if err := json.Unmarshal(data, &incidents); err != nil {
		return nil, err
	}

	return incidents, nil
}

func (c *IncidentCache) SetActive(ctx context.Context, windowHours int, incidents []*domain.Incident) error {
	b, err := json.Marshal(incidents)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(windowHours), b, c.ttl).Err()
}

// Invalidate drops every cached window so writes are immediately visible.
func (c *IncidentCache) Invalidate(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, c.prefix+":*", 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}
