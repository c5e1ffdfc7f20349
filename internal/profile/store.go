package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "profile:"

// Store persists customer profiles between evaluation passes.
type Store interface {
	Get(ctx context.Context, customerID string) (*Profile, error)
	Put(ctx context.Context, p *Profile) error
}

type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed profile store. A zero ttl keeps
// profiles indefinitely.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// Get loads a customer's profile. An unknown customer yields a fresh
// empty profile rather than an error; first events bootstrap the state.
func (s *RedisStore) Get(ctx context.Context, customerID string) (*Profile, error) {
	data, err := s.client.Get(ctx, keyPrefix+customerID).Bytes()
	if errors.Is(err, redis.Nil) {
		return New(customerID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get profile failed: %w", err)
	}

	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile %s: %w", customerID, err)
	}
	if p.Scores == nil {
		p.Scores = make(map[string]float64)
	}
	if p.Tags == nil {
		p.Tags = make([]string, 0)
	}
	return &p, nil
}

func (s *RedisStore) Put(ctx context.Context, p *Profile) error {
	if p == nil || p.CustomerID == "" {
		return fmt.Errorf("profile with customer id is required")
	}

	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal profile %s: %w", p.CustomerID, err)
	}

	if err := s.client.Set(ctx, keyPrefix+p.CustomerID, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set profile failed: %w", err)
	}
	return nil
}
