package rules

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"compass/internal/config"
	"compass/internal/constants"
	"compass/internal/engine"
	"compass/internal/logger"
	"compass/internal/profile"
	"compass/pkg/metrics"
	"compass/pkg/models"
	"compass/pkg/tracing"
)

// Service keeps the active rule set cached in memory and applies
// incoming customer events to profiles through the evaluation engine.
type Service struct {
	repo        Repository
	rules       []engine.Rule
	rulesMu     sync.RWMutex
	rulesConfig config.RulesConfig
	logger      logger.Logger
}

func NewService(repo Repository, cfg config.RulesConfig, log logger.Logger) *Service {
	return &Service{
		repo:        repo,
		rulesConfig: cfg,
		rules:       make([]engine.Rule, 0),
		logger:      log,
	}
}

// Apply runs the cached rule set against one incoming event and
// returns the updated profile with the evaluation trace.
func (s *Service) Apply(ctx context.Context, envelope models.EventEnvelope, p *profile.Profile) (*profile.Profile, []engine.TraceEntry, error) {
	ctx, span := tracing.GetTracer("profile-service").Start(ctx, "rules.apply")
	defer span.End()

	rules := s.ActiveRules()
	start := time.Now()

	event := engine.Event{
		Type:    engine.EventType(envelope.Type),
		Payload: envelope.Payload,
	}

	result, err := engine.Evaluate(rules, p, []engine.Event{event})
	if err != nil {
		s.recordMetrics(time.Since(start), "error")
		if s.rulesConfig.Fallback.OnError == constants.FallbackSkip {
			metrics.FallbackUsageTotal.WithLabelValues("profile", "skip_on_error", "evaluation_error").Inc()
			s.logger.WarnwCtx(ctx, "Evaluation error, leaving profile unchanged (fallback: skip)",
				"error", err,
			)
			return p, nil, nil
		}
		return nil, nil, err
	}

	for _, entry := range result.Trace {
		metrics.IncRuleEvaluation(entry.RuleID, entry.RuleName, "matched")
	}
	s.countAppliedEffects(rules, result.Trace)

	s.recordMetrics(time.Since(start), "processed")
	return result.Profile, result.Trace, nil
}

// ActiveRules returns a copy of the cached rule set.
func (s *Service) ActiveRules() []engine.Rule {
	s.rulesMu.RLock()
	defer s.rulesMu.RUnlock()

	rules := make([]engine.Rule, len(s.rules))
	copy(rules, s.rules)
	return rules
}

func (s *Service) countAppliedEffects(rules []engine.Rule, trace []engine.TraceEntry) {
	byID := make(map[string]engine.Rule, len(rules))
	for _, rule := range rules {
		byID[rule.ID] = rule
	}
	for _, entry := range trace {
		rule, ok := byID[entry.RuleID]
		if !ok {
			continue
		}
		for _, effect := range rule.Effects {
			metrics.IncEffectApplied(string(effect.Type))
		}
	}
}

func (s *Service) recordMetrics(duration time.Duration, status string) {
	metrics.ProfileEventsTotal.WithLabelValues(status).Inc()
	metrics.ObserveProfileProcessingDuration(duration, status)
}

// ReloadRules refreshes the cached rule set, sleeping a short random
// jitter first so instances reloading on the same trigger spread out.
func (s *Service) ReloadRules(ctx context.Context) error {
	if err := s.applyJitter(ctx); err != nil {
		return err
	}
	return s.ReloadRulesNow(ctx)
}

// ReloadRulesNow refreshes the cached rule set without jitter.
func (s *Service) ReloadRulesNow(ctx context.Context) error {
	rules, err := s.loadRules(ctx)
	if err != nil {
		return err
	}

	s.updateRules(ctx, rules)
	return nil
}

func (s *Service) applyJitter(ctx context.Context) error {
	if s.rulesConfig.Reload.JitterMaxMilliseconds == 0 {
		return nil
	}

	jitter := time.Duration(rand.Intn(s.rulesConfig.Reload.JitterMaxMilliseconds)) * time.Millisecond
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

func (s *Service) loadRules(ctx context.Context) ([]engine.Rule, error) {
	s.logger.DebugwCtx(ctx, "Loading rules from database")
	rules, err := s.repo.GetActiveRules(ctx)
	if err != nil {
		return nil, err
	}
	return rules, nil
}

func (s *Service) updateRules(ctx context.Context, rules []engine.Rule) {
	s.rulesMu.Lock()
	s.rules = rules
	s.rulesMu.Unlock()

	metrics.SetActiveRules(len(rules))
	s.logger.InfowCtx(ctx, "Successfully reloaded rules",
		"rules_count", len(rules),
	)
}

func (s *Service) StartReloader(ctx context.Context) error {
	ticker := time.NewTicker(time.Duration(s.rulesConfig.Reload.IntervalSeconds) * time.Second)
	defer ticker.Stop()

	if err := s.ReloadRulesNow(ctx); err != nil {
		s.logger.ErrorwCtx(ctx, "Failed to reload rules",
			"error", err,
		)
	}

	for {
		select {
		case <-ticker.C:
			if err := s.ReloadRules(ctx); err != nil {
				s.logger.ErrorwCtx(ctx, "Failed to reload rules",
					"error", err,
				)
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
