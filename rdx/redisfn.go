package rdx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"travelbuddy/models"
)

// Cache holds rendered itinerary detail documents. Misses and failures are
// indistinguishable to callers: both mean "go to the store".
type Cache interface {
	GetItinerary(ctx context.Context, id string) (*models.Itinerary, bool)
	SetItinerary(ctx context.Context, it *models.Itinerary)
	Invalidate(ctx context.Context, id string)
}

func itineraryKey(id string) string {
	return "itinerary:" + id
}

// Noop is used when no Redis address is configured
type Noop struct{}

func (Noop) GetItinerary(context.Context, string) (*models.Itinerary, bool) { return nil, false }
func (Noop) SetItinerary(context.Context, *models.Itinerary) {}
func (Noop) Invalidate(context.Context, string) {}

// RedisCache is a read-through itinerary cache. Every Redis call goes through
// a circuit breaker so an unavailable Redis costs one fast failure instead of
// a dial timeout per request.
type RedisCache struct {
	conn   *redis.Client
	cb     *gobreaker.CircuitBreaker
	ttl    time.Duration
	logger *logrus.Logger
}

func NewRedisCache(conn *redis.Client, ttl time.Duration, logger *logrus.Logger) *RedisCache {
	return &RedisCache{
		conn:   conn,
		cb:     CircuitBreaker("redis", logger),
		ttl:    ttl,
		logger: logger,
	}
}

// Connect builds a client for addr; the connection is established lazily
func Connect(addr, password string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DialTimeout:  500 * time.Millisecond,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
	})
}

func CircuitBreaker(name string, logger *logrus.Logger) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     10 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 2
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.WithFields(logrus.Fields{"breaker": name, "from": from.String(), "to": to.String()}).
				Warn("circuit breaker state changed")
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, redis.Nil)
		},
	})
}

func (c *RedisCache) GetItinerary(ctx context.Context, id string) (*models.Itinerary, bool) {
	res, err := c.cb.Execute(func() (interface{}, error) {
		return c.conn.Get(ctx, itineraryKey(id)).Bytes()
	})
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.WithError(err).WithField("id", id).Debug("itinerary cache read failed")
		}
		return nil, false
	}
	var it models.Itinerary
	if err := json.Unmarshal(res.([]byte), &it); err != nil {
		c.logger.WithError(err).WithField("id", id).Warn("discarding corrupt cache entry")
		c.Invalidate(ctx, id)
		return nil, false
	}
	it.EnsureSlices()
	return &it, true
}

func (c *RedisCache) SetItinerary(ctx context.Context, it *models.Itinerary) {
	payload, err := json.Marshal(it)
	if err != nil {
		c.logger.WithError(err).Warn("encode itinerary for cache")
		return
	}
	id := it.ID.Hex()
	if _, err := c.cb.Execute(func() (interface{}, error) {
		return nil, c.conn.Set(ctx, itineraryKey(id), payload, c.ttl).Err()
	}); err != nil {
		c.logger.WithError(err).WithField("id", id).Debug("itinerary cache write failed")
	}
}

func (c *RedisCache) Invalidate(ctx context.Context, id string) {
	if _, err := c.cb.Execute(func() (interface{}, error) {
		return nil, c.conn.Del(ctx, itineraryKey(id)).Err()
	}); err != nil {
		c.logger.WithError(err).WithField("id", id).Debug("itinerary cache invalidate failed")
	}
}

// Ping reports whether Redis answers, for startup logging
func Ping(ctx context.Context, conn *redis.Client) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	if err := conn.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	return nil
}
