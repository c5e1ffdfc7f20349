package catalog

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"compass/internal/config"
	"compass/internal/logger"
	"compass/pkg/metrics"
)

// Service keeps the active product catalog cached in memory and
// refreshes it periodically or on config events.
type Service struct {
	repo          Repository
	products      []Product
	productsMu    sync.RWMutex
	catalogConfig config.CatalogConfig
	logger        logger.Logger
}

func NewService(repo Repository, cfg config.CatalogConfig, log logger.Logger) *Service {
	return &Service{
		repo:          repo,
		catalogConfig: cfg,
		products:      make([]Product, 0),
		logger:        log,
	}
}

// ActiveProducts returns a copy of the cached catalog.
func (s *Service) ActiveProducts() []Product {
	s.productsMu.RLock()
	defer s.productsMu.RUnlock()

	products := make([]Product, len(s.products))
	copy(products, s.products)
	return products
}

// ReloadRules refreshes the cached catalog, sleeping a short random
// jitter first. The name satisfies the config event reloader contract.
func (s *Service) ReloadRules(ctx context.Context) error {
	if err := s.applyJitter(ctx); err != nil {
		return err
	}
	return s.ReloadNow(ctx)
}

// ReloadNow refreshes the cached catalog without jitter.
func (s *Service) ReloadNow(ctx context.Context) error {
	s.logger.DebugwCtx(ctx, "Loading products from database")
	products, err := s.repo.GetActiveProducts(ctx)
	if err != nil {
		return err
	}

	s.productsMu.Lock()
	s.products = products
	s.productsMu.Unlock()

	metrics.SetActiveProducts(len(products))
	s.logger.InfowCtx(ctx, "Successfully reloaded products",
		"products_count", len(products),
	)
	return nil
}

func (s *Service) applyJitter(ctx context.Context) error {
	if s.catalogConfig.Reload.JitterMaxMilliseconds == 0 {
		return nil
	}

	jitter := time.Duration(rand.Intn(s.catalogConfig.Reload.JitterMaxMilliseconds)) * time.Millisecond
	s.logger.DebugwCtx(ctx, "Reload scheduled with jitter",
		"jitter_ms", jitter.Milliseconds(),
	)

	select {
	case <-time.After(jitter):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Service) StartReloader(ctx context.Context) error {
	ticker := time.NewTicker(time.Duration(s.catalogConfig.Reload.IntervalSeconds) * time.Second)
	defer ticker.Stop()

	if err := s.ReloadNow(ctx); err != nil {
		s.logger.ErrorwCtx(ctx, "Failed to reload products",
			"error", err,
		)
	}

	for {
		select {
		case <-ticker.C:
			if err := s.ReloadRules(ctx); err != nil {
				s.logger.ErrorwCtx(ctx, "Failed to reload products",
					"error", err,
				)
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
