package profile

import (
	"context"
	"fmt"

	"github.com/sony/gobreaker"

	"compass/internal/config"
	"compass/pkg/circuitbreaker"
)

// CircuitBreakerStore guards the Redis profile store so that a Redis
// outage trips fast instead of stalling every event in the pipeline.
type CircuitBreakerStore struct {
	store Store
	cb    *circuitbreaker.Wrapper
}

func NewCircuitBreakerStore(store Store, cfg config.CircuitBreakerConfig) *CircuitBreakerStore {
	if !cfg.Enabled {
		return &CircuitBreakerStore{store: store, cb: nil}
	}

	cbConfig := circuitbreaker.DefaultConfig("redis-profiles")
	if cfg.MaxRequests > 0 {
		cbConfig.MaxRequests = cfg.MaxRequests
	}
	if cfg.Interval > 0 {
		cbConfig.Interval = cfg.Interval
	}
	if cfg.Timeout > 0 {
		cbConfig.Timeout = cfg.Timeout
	}
	if cfg.FailureRatio > 0 && cfg.MinRequests > 0 {
		cbConfig.ReadyToTrip = func(counts gobreaker.Counts) bool {
			if counts.Requests < uint32(cfg.MinRequests) {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= cfg.FailureRatio
		}
	}

	return &CircuitBreakerStore{
		store: store,
		cb:    circuitbreaker.NewWrapper(cbConfig),
	}
}

func (s *CircuitBreakerStore) Get(ctx context.Context, customerID string) (*Profile, error) {
	if s.cb == nil {
		return s.store.Get(ctx, customerID)
	}

	result, err := s.cb.ExecuteWithContext(ctx, func() (interface{}, error) {
		return s.store.Get(ctx, customerID)
	})

	s.cb.RecordRequest(err == nil)

	if err != nil {
		if s.cb.IsOpen() {
			return nil, fmt.Errorf("circuit breaker is open for redis-profiles: %w", err)
		}
		return nil, err
	}

	p, ok := result.(*Profile)
	if !ok {
		return nil, fmt.Errorf("store returned invalid result type")
	}
	return p, nil
}

func (s *CircuitBreakerStore) Put(ctx context.Context, p *Profile) error {
	if s.cb == nil {
		return s.store.Put(ctx, p)
	}

	_, err := s.cb.ExecuteWithContext(ctx, func() (interface{}, error) {
		return nil, s.store.Put(ctx, p)
	})

	s.cb.RecordRequest(err == nil)

	if err != nil {
		if s.cb.IsOpen() {
			return fmt.Errorf("circuit breaker is open for redis-profiles: %w", err)
		}
		return err
	}
	return nil
}

func (s *CircuitBreakerStore) State() string {
	if s.cb == nil {
		return "disabled"
	}
	return s.cb.State().String()
}
