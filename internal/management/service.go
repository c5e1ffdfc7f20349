package management

import (
	"context"
	"encoding/json"
	"strings"

	"compass/internal/catalog"
	"compass/internal/constants"
	"compass/internal/engine"
	"compass/internal/narrative"
	"compass/internal/profile"
	"compass/internal/recommend"
	"compass/pkg/cel"
	pkgerrors "compass/pkg/errors"
	"compass/pkg/models"
)

type service struct {
	repo                Repository
	productRepo         ProductRepository
	versioningRepo      VersioningRepository
	configEventProducer *ConfigEventProducer
	auditEnabled        bool
}

type ServiceOption func(*service)

func WithVersioning(versioningRepo VersioningRepository) ServiceOption {
	return func(s *service) {
		s.versioningRepo = versioningRepo
		s.auditEnabled = true
	}
}

func WithProducts(productRepo ProductRepository) ServiceOption {
	return func(s *service) {
		s.productRepo = productRepo
	}
}

func WithConfigEvents(configEventProducer *ConfigEventProducer) ServiceOption {
	return func(s *service) {
		s.configEventProducer = configEventProducer
	}
}

func NewService(repo Repository, opts ...ServiceOption) Service {
	s := &service{
		repo:         repo,
		auditEnabled: false,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.versioningRepo != nil {
		s.auditEnabled = true
	}

	return s
}

func (s *service) CreateProfileRule(ctx context.Context, req CreateProfileRuleRequest) (*ProfileRule, error) {
	if err := ValidateProfileRule(req); err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.ErrValidation)
	}

	rule := &ProfileRule{
		Name:       req.Name,
		EventType:  engine.EventType(req.EventType),
		Status:     getStatusValue(req.Status),
		Priority:   req.Priority,
		Conditions: req.Conditions,
		Effects:    req.Effects,
	}

	if err := s.repo.CreateProfileRule(ctx, rule); err != nil {
		if pkgerrors.IsConflict(err) {
			return nil, err
		}
		return nil, pkgerrors.Wrap(err, pkgerrors.ErrInternal)
	}

	s.createVersionAndAudit(ctx, rule, "create", nil)
	s.publishRuleEvent(ctx, models.ActionCreate, rule.ID)

	return s.copyProfileRule(rule), nil
}

func (s *service) ListProfileRules(ctx context.Context) ([]ProfileRule, error) {
	rules, err := s.repo.ListProfileRules(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.ErrInternal)
	}
	return rules, nil
}

func (s *service) GetProfileRule(ctx context.Context, id string) (*ProfileRule, error) {
	rule, err := s.repo.GetProfileRule(ctx, id)
	if err != nil {
		return nil, s.handleNotFoundError(err, id)
	}
	if rule == nil {
		return nil, pkgerrors.ErrNotFound.WithDetail("id", id)
	}
	return s.copyProfileRule(rule), nil
}

func (s *service) UpdateProfileRule(ctx context.Context, id string, req UpdateProfileRuleRequest) (*ProfileRule, error) {
	if err := ValidateUpdateProfileRule(req); err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.ErrValidation)
	}

	rule, err := s.repo.GetProfileRule(ctx, id)
	if err != nil {
		return nil, s.handleNotFoundError(err, id)
	}
	if rule == nil {
		return nil, pkgerrors.ErrNotFound.WithDetail("id", id)
	}

	oldValue, _ := s.ruleToMap(rule)
	s.updateProfileRuleFields(rule, req)

	if err := s.repo.UpdateProfileRule(ctx, rule); err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.ErrInternal)
	}

	s.createVersionAndAudit(ctx, rule, "update", oldValue)
	s.publishRuleEvent(ctx, models.ActionUpdate, rule.ID)

	return s.copyProfileRule(rule), nil
}

func (s *service) DeleteProfileRule(ctx context.Context, id string) error {
	rule, err := s.repo.GetProfileRule(ctx, id)
	if err != nil {
		return s.handleNotFoundError(err, id)
	}
	if rule == nil {
		return pkgerrors.ErrNotFound.WithDetail("id", id)
	}

	oldValue, _ := s.ruleToMap(rule)

	if err := s.repo.DeleteProfileRule(ctx, id); err != nil {
		return pkgerrors.Wrap(err, pkgerrors.ErrInternal)
	}

	if s.auditEnabled && s.versioningRepo != nil {
		auditLog := s.buildAuditLog(id, "profile", "delete", oldValue, nil, getChangedBy(ctx))
		_ = s.versioningRepo.CreateAuditLog(ctx, auditLog)
	}

	s.publishRuleEvent(ctx, models.ActionDelete, id)
	return nil
}

func (s *service) GetRuleVersions(ctx context.Context, ruleID string) ([]RuleVersion, error) {
	if s.versioningRepo == nil {
		return nil, pkgerrors.ErrInternal.WithDetail("message", "versioning not enabled")
	}
	versions, err := s.versioningRepo.GetVersions(ctx, ruleID)
	if err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.ErrInternal)
	}
	return versions, nil
}

func (s *service) GetAuditLogs(ctx context.Context, ruleID *string, ruleType string, limit int) ([]AuditLog, error) {
	if s.versioningRepo == nil {
		return nil, pkgerrors.ErrInternal.WithDetail("message", "audit logging not enabled")
	}
	if limit <= 0 || limit > constants.MaxLimit {
		limit = constants.DefaultLimit
	}
	logs, err := s.versioningRepo.GetAuditLogs(ctx, ruleID, ruleType, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.ErrInternal)
	}
	return logs, nil
}

func (s *service) CreateProduct(ctx context.Context, req CreateProductRequest) (*catalog.Product, error) {
	if err := ValidateProduct(req); err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.ErrValidation)
	}

	if s.productRepo == nil {
		return nil, pkgerrors.ErrInternal.WithDetail("message", "product repository not configured")
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	product := &catalog.Product{
		Name:           req.Name,
		RequiredScores: req.RequiredScores,
		WeightByScore:  req.WeightByScore,
		Exclusions:     req.Exclusions,
		Audience:       req.Audience,
		Active:         active,
	}

	if err := s.productRepo.CreateProduct(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.ErrInternal)
	}

	s.publishProductEvent(ctx, models.ActionCreate, product.ID)

	return product, nil
}

func (s *service) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	if s.productRepo == nil {
		return nil, pkgerrors.ErrInternal.WithDetail("message", "product repository not configured")
	}

	products, err := s.productRepo.ListProducts(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.ErrInternal)
	}
	return products, nil
}

func (s *service) GetProduct(ctx context.Context, id string) (*catalog.Product, error) {
	if s.productRepo == nil {
		return nil, pkgerrors.ErrInternal.WithDetail("message", "product repository not configured")
	}

	product, err := s.productRepo.GetProduct(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.ErrInternal)
	}
	if product == nil {
		return nil, pkgerrors.ErrNotFound.WithDetail("id", id)
	}
	return product, nil
}

func (s *service) UpdateProduct(ctx context.Context, id string, req UpdateProductRequest) (*catalog.Product, error) {
	if err := ValidateUpdateProduct(req); err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.ErrValidation)
	}

	if s.productRepo == nil {
		return nil, pkgerrors.ErrInternal.WithDetail("message", "product repository not configured")
	}

	product, err := s.productRepo.GetProduct(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.ErrInternal)
	}
	if product == nil {
		return nil, pkgerrors.ErrNotFound.WithDetail("id", id)
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.RequiredScores != nil {
		product.RequiredScores = *req.RequiredScores
	}
	if req.WeightByScore != nil {
		product.WeightByScore = *req.WeightByScore
	}
	if req.Exclusions != nil {
		product.Exclusions = *req.Exclusions
	}
	if req.Audience != nil {
		product.Audience = *req.Audience
	}
	if req.Active != nil {
		product.Active = *req.Active
	}

	if err := s.productRepo.UpdateProduct(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.ErrInternal)
	}

	s.publishProductEvent(ctx, models.ActionUpdate, product.ID)

	return product, nil
}

func (s *service) DeleteProduct(ctx context.Context, id string) error {
	if s.productRepo == nil {
		return pkgerrors.ErrInternal.WithDetail("message", "product repository not configured")
	}

	product, err := s.productRepo.GetProduct(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(err, pkgerrors.ErrInternal)
	}
	if product == nil {
		return pkgerrors.ErrNotFound.WithDetail("id", id)
	}

	if err := s.productRepo.DeleteProduct(ctx, id); err != nil {
		return pkgerrors.Wrap(err, pkgerrors.ErrInternal)
	}

	s.publishProductEvent(ctx, models.ActionDelete, id)

	return nil
}

// Simulate runs the evaluation and recommendation pipeline against a
// caller-supplied profile without touching stored profiles. Rules and
// products are the currently persisted ones, filtered the same way the
// runtime services filter them.
func (s *service) Simulate(ctx context.Context, req SimulationRequest) (*SimulationResponse, error) {
	if len(req.Events) == 0 {
		return nil, pkgerrors.ErrValidation.WithDetail("message", "at least one event is required")
	}

	stored, err := s.repo.ListProfileRules(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.ErrInternal)
	}
	engineRules := make([]engine.Rule, 0, len(stored))
	for i := range stored {
		engineRules = append(engineRules, stored[i].ToEngineRule())
	}

	var products []catalog.Product
	if s.productRepo != nil {
		products, err = s.productRepo.ListProducts(ctx)
		if err != nil {
			return nil, pkgerrors.Wrap(err, pkgerrors.ErrInternal)
		}
	}

	initial := buildSimulationProfile(req.Profile)

	result, err := engine.Evaluate(engineRules, initial, req.Events)
	if err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.ErrInternal)
	}

	misses := s.audienceMisses(ctx, products, result.Profile)
	recs, err := recommend.RecommendWithAudienceMisses(products, result.Profile, misses)
	if err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.ErrInternal)
	}

	return &SimulationResponse{
		Profile:         result.Profile,
		Trace:           result.Trace,
		Recommendations: recs,
		Narrative:       narrative.Render(result.Trace, recs),
	}, nil
}

// audienceMisses mirrors the recommendation service: evaluation errors
// leave the product visible.
func (s *service) audienceMisses(ctx context.Context, products []catalog.Product, p *profile.Profile) map[string]bool {
	evaluator, err := cel.NewEvaluator()
	if err != nil {
		return nil
	}

	var misses map[string]bool
	for _, product := range products {
		if !product.Active || product.Audience == "" {
			continue
		}
		matched, err := evaluator.EvaluateAudience(ctx, product.Audience, p)
		if err != nil {
			continue
		}
		if !matched {
			if misses == nil {
				misses = make(map[string]bool)
			}
			misses[product.ID] = true
		}
	}
	return misses
}

func buildSimulationProfile(sp SimulationProfile) *profile.Profile {
	p := profile.New(sp.CustomerID)
	if sp.StaticData != nil {
		p.StaticData = sp.StaticData
	}
	if sp.Behavioral != nil {
		p.Behavioral = sp.Behavioral
	}
	if sp.Scores != nil {
		p.Scores = sp.Scores
	}
	if sp.Tags != nil {
		p.Tags = sp.Tags
	}
	return p
}

func (s *service) handleNotFoundError(err error, id string) error {
	if err == nil {
		return nil
	}
	if strings.Contains(err.Error(), "not found") {
		return pkgerrors.ErrNotFound.WithDetail("id", id)
	}
	return pkgerrors.Wrap(err, pkgerrors.ErrInternal)
}

func (s *service) createVersionAndAudit(ctx context.Context, rule *ProfileRule, action string, oldValue map[string]interface{}) {
	if !s.auditEnabled || s.versioningRepo == nil {
		return
	}

	ruleJSON, err := ruleToJSON(rule)
	if err != nil {
		return
	}

	version := s.buildVersion(ctx, rule, ruleJSON)
	if err := s.versioningRepo.CreateVersion(ctx, version); err != nil {
		return
	}

	newValue, err := s.ruleToMap(rule)
	if err != nil {
		return
	}

	auditLog := s.buildAuditLog(rule.ID, "profile", action, oldValue, newValue, getChangedBy(ctx))
	_ = s.versioningRepo.CreateAuditLog(ctx, auditLog)
}

func (s *service) buildVersion(ctx context.Context, rule *ProfileRule, ruleJSON string) *RuleVersion {
	version := 1
	if s.versioningRepo != nil {
		if nextVersion, err := s.versioningRepo.GetNextVersion(ctx, rule.ID); err == nil {
			version = nextVersion
		}
	}

	return &RuleVersion{
		RuleID:    rule.ID,
		RuleType:  "profile",
		RuleData:  ruleJSON,
		Version:   version,
		ChangedBy: getChangedBy(ctx),
	}
}

func (s *service) buildAuditLog(ruleID, ruleType, action string, oldValue, newValue map[string]interface{}, changedBy string) *AuditLog {
	return &AuditLog{
		RuleID:    &ruleID,
		RuleType:  ruleType,
		Action:    action,
		OldValue:  oldValue,
		NewValue:  newValue,
		ChangedBy: changedBy,
	}
}

func (s *service) ruleToMap(rule *ProfileRule) (map[string]interface{}, error) {
	ruleData, err := json.Marshal(rule)
	if err != nil {
		return nil, err
	}
	var result map[string]interface{}
	if err := json.Unmarshal(ruleData, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) publishRuleEvent(ctx context.Context, action, ruleID string) {
	if s.configEventProducer != nil {
		_ = s.configEventProducer.PublishProfileRuleEvent(ctx, action, ruleID, getChangedBy(ctx))
	}
}

func (s *service) publishProductEvent(ctx context.Context, action, productID string) {
	if s.configEventProducer != nil {
		_ = s.configEventProducer.PublishProductEvent(ctx, action, productID, getChangedBy(ctx))
	}
}

func (s *service) updateProfileRuleFields(rule *ProfileRule, req UpdateProfileRuleRequest) {
	if req.Name != nil {
		rule.Name = *req.Name
	}
	if req.EventType != nil {
		rule.EventType = engine.EventType(*req.EventType)
	}
	if req.Status != nil {
		rule.Status = engine.RuleStatus(*req.Status)
	}
	if req.Priority != nil {
		rule.Priority = *req.Priority
	}
	if req.Conditions != nil {
		rule.Conditions = *req.Conditions
	}
	if req.Effects != nil {
		rule.Effects = *req.Effects
	}
}

func (s *service) copyProfileRule(rule *ProfileRule) *ProfileRule {
	out := *rule
	out.Conditions = append([]engine.Condition(nil), rule.Conditions...)
	out.Effects = append([]engine.Effect(nil), rule.Effects...)
	return &out
}

func getStatusValue(reqStatus *string) engine.RuleStatus {
	if reqStatus == nil {
		return engine.StatusDraft
	}
	return engine.RuleStatus(*reqStatus)
}

func getChangedBy(ctx context.Context) string {
	if userID := ctx.Value("user_id"); userID != nil {
		if id, ok := userID.(string); ok {
			return id
		}
	}
	return "system"
}
