package recommend

import (
	"context"
	"fmt"
	"time"

	"compass/internal/catalog"
	"compass/internal/config"
	"compass/internal/logger"
	"compass/internal/profile"
	"compass/pkg/cel"
	"compass/pkg/errors"
	"compass/pkg/metrics"
	"compass/pkg/tracing"
)

// Service produces ranked product decisions for stored or ad-hoc
// profiles. Audience expressions are optional per product and are
// evaluated outside the core decision pass.
type Service struct {
	catalog   *catalog.Service
	profiles  profile.Store
	evaluator *cel.Evaluator
	cfg       config.RecommendationConfig
	logger    logger.Logger
}

func NewService(catalogSvc *catalog.Service, profiles profile.Store, cfg config.RecommendationConfig, log logger.Logger) (*Service, error) {
	evaluator, err := cel.NewEvaluator()
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL evaluator: %w", err)
	}

	return &Service{
		catalog:   catalogSvc,
		profiles:  profiles,
		evaluator: evaluator,
		cfg:       cfg,
		logger:    log,
	}, nil
}

// ForCustomer loads the customer's stored profile and evaluates the
// active catalog against it.
func (s *Service) ForCustomer(ctx context.Context, customerID string) ([]Recommendation, error) {
	ctx, span := tracing.GetTracer("recommendation-service").Start(ctx, "recommend.for_customer")
	defer span.End()

	if customerID == "" {
		return nil, errors.ErrValidation.WithDetail("message", "customer ID is required")
	}

	p, err := s.profiles.Get(ctx, customerID)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal)
	}

	return s.ForProfile(ctx, p)
}

// ForProfile evaluates the active catalog against the given profile.
func (s *Service) ForProfile(ctx context.Context, p *profile.Profile) ([]Recommendation, error) {
	start := time.Now()

	products := s.catalog.ActiveProducts()
	misses := s.audienceMisses(ctx, products, p)

	recs, err := RecommendWithAudienceMisses(products, p, misses)
	if err != nil {
		metrics.RecommendationRequestsTotal.WithLabelValues("error").Inc()
		metrics.ObserveRecommendationDuration(time.Since(start), "error")
		return nil, errors.Wrap(err, errors.ErrValidation)
	}

	for _, rec := range recs {
		metrics.IncRecommendationDecision(rec.Product.ID, string(rec.Decision))
	}
	metrics.RecommendationRequestsTotal.WithLabelValues("ok").Inc()
	metrics.ObserveRecommendationDuration(time.Since(start), "ok")

	return recs, nil
}

// audienceMisses evaluates each product's audience expression. An
// evaluation error does not hide the product: broken expressions are
// logged and skipped.
func (s *Service) audienceMisses(ctx context.Context, products []catalog.Product, p *profile.Profile) map[string]bool {
	if !s.cfg.AudienceEnabled {
		return nil
	}

	var misses map[string]bool
	for _, product := range products {
		if product.Audience == "" {
			continue
		}

		inAudience, err := s.evaluator.EvaluateAudience(ctx, product.Audience, p)
		if err != nil {
			s.logger.WarnwCtx(ctx, "Audience expression evaluation failed, skipping",
				"product_id", product.ID,
				"error", err,
			)
			continue
		}

		if !inAudience {
			if misses == nil {
				misses = make(map[string]bool)
			}
			misses[product.ID] = true
		}
	}

	return misses
}
