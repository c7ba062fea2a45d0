// Package locationcache implements the rider location cache on Redis.
// Each rider's latest accepted position is kept under its own key with a
// short TTL, so the tracking read model never serves stale coordinates and
// silent riders simply age out.
package locationcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/ports"
	"lastmile/internal/pkg/errs"
)

// DefaultTTL is how long a position entry stays servable without a fresh
// report. Riders report every few seconds while moving, so a minute of
// silence means the feed is gone.
const DefaultTTL = time.Minute

type entry struct {
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	Heading   float64   `json:"heading"`
	SpeedKmh  float64   `json:"speed_kmh"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RedisLocationCache implements ports.LocationCache on a Redis client.
type RedisLocationCache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ ports.LocationCache = &RedisLocationCache{}

// NewRedisLocationCache creates a cache over the given client. A non-positive
// ttl falls back to DefaultTTL.
func NewRedisLocationCache(client *redis.Client, ttl time.Duration) (*RedisLocationCache, error) {
	if client == nil {
		return nil, errs.NewValueIsRequiredError("client")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &RedisLocationCache{client: client, ttl: ttl}, nil
}

// Set stores the rider's latest position, replacing any previous entry and
// restarting the TTL.
func (c *RedisLocationCache) Set(ctx context.Context, riderID kernel.UUID, pos ports.RiderPosition) error {
	if err := riderID.Validate(); err != nil {
		return err
	}
	if err := pos.Point.Validate(); err != nil {
		return err
	}

	payload, err := json.Marshal(entry{
		Lat:       pos.Point.Lat(),
		Lng:       pos.Point.Lng(),
		Heading:   pos.Heading,
		SpeedKmh:  pos.SpeedKmh,
		UpdatedAt: pos.UpdatedAt,
	})
	if err != nil {
		return err
	}

	return c.client.Set(ctx, key(riderID), payload, c.ttl).Err()
}

// Get returns the rider's latest position. The bool is false when the rider
// has no fresh entry.
func (c *RedisLocationCache) Get(ctx context.Context, riderID kernel.UUID) (ports.RiderPosition, bool, error) {
	if err := riderID.Validate(); err != nil {
		return ports.RiderPosition{}, false, err
	}

	raw, err := c.client.Get(ctx, key(riderID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ports.RiderPosition{}, false, nil
		}
		return ports.RiderPosition{}, false, err
	}

	var e entry
	if err = json.Unmarshal(raw, &e); err != nil {
		return ports.RiderPosition{}, false, err
	}

	point, err := kernel.NewGeoPoint(e.Lat, e.Lng)
	if err != nil {
		return ports.RiderPosition{}, false, err
	}

	return ports.RiderPosition{
		Point:     point,
		Heading:   e.Heading,
		SpeedKmh:  e.SpeedKmh,
		UpdatedAt: e.UpdatedAt,
	}, true, nil
}

func key(riderID kernel.UUID) string {
	return fmt.Sprintf("rider:location:%s", riderID.String())
}
