package management

import (
	"fmt"

	"compass/internal/engine"
	"compass/pkg/cel"
)

// Rule authoring is validated here, not in the engine: stored rules
// that slip past (imports, simulation payloads) still evaluate under
// the engine's fail-silent semantics.

func ValidateProfileRule(req CreateProfileRuleRequest) error {
	if req.Name == "" {
		return fmt.Errorf("name is required")
	}
	if !engine.ValidEventType(engine.EventType(req.EventType)) {
		return fmt.Errorf("unknown event_type: %s", req.EventType)
	}
	if req.Status != nil {
		if err := validateStatus(*req.Status); err != nil {
			return err
		}
	}
	if len(req.Conditions) == 0 {
		return fmt.Errorf("at least one condition is required")
	}
	if err := validateConditions(req.Conditions); err != nil {
		return err
	}
	if len(req.Effects) == 0 {
		return fmt.Errorf("at least one effect is required")
	}
	return validateEffects(req.Effects)
}

func ValidateUpdateProfileRule(req UpdateProfileRuleRequest) error {
	if req.Name != nil && *req.Name == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if req.EventType != nil && !engine.ValidEventType(engine.EventType(*req.EventType)) {
		return fmt.Errorf("unknown event_type: %s", *req.EventType)
	}
	if req.Status != nil {
		if err := validateStatus(*req.Status); err != nil {
			return err
		}
	}
	if req.Conditions != nil {
		if len(*req.Conditions) == 0 {
			return fmt.Errorf("at least one condition is required")
		}
		if err := validateConditions(*req.Conditions); err != nil {
			return err
		}
	}
	if req.Effects != nil {
		if len(*req.Effects) == 0 {
			return fmt.Errorf("at least one effect is required")
		}
		if err := validateEffects(*req.Effects); err != nil {
			return err
		}
	}
	return nil
}

func validateStatus(status string) error {
	switch engine.RuleStatus(status) {
	case engine.StatusDraft, engine.StatusActive, engine.StatusInactive:
		return nil
	}
	return fmt.Errorf("invalid status: %s. Allowed: DRAFT, ACTIVE, INACTIVE", status)
}

func validateConditions(conditions []engine.Condition) error {
	for i, cond := range conditions {
		if cond.Source == "" {
			return fmt.Errorf("conditions[%d]: source is required", i)
		}
		if !engine.ValidOperator(cond.Op) {
			return fmt.Errorf("conditions[%d]: unknown operator: %s", i, cond.Op)
		}
	}
	return nil
}

func validateEffects(effects []engine.Effect) error {
	for i, effect := range effects {
		if !engine.ValidEffectType(effect.Type) {
			return fmt.Errorf("effects[%d]: unknown effect type: %s", i, effect.Type)
		}
		switch effect.Type {
		case engine.EffectScoreDelta:
			if effect.Score == "" {
				return fmt.Errorf("effects[%d]: score is required for scoreDelta", i)
			}
		case engine.EffectAddTag, engine.EffectRemoveTag:
			if effect.Tag == "" {
				return fmt.Errorf("effects[%d]: tag is required for %s", i, effect.Type)
			}
		}
	}
	return nil
}

func ValidateProduct(req CreateProductRequest) error {
	if req.Name == "" {
		return fmt.Errorf("name is required")
	}
	if req.Audience != "" {
		return validateAudience(req.Audience)
	}
	return nil
}

func ValidateUpdateProduct(req UpdateProductRequest) error {
	if req.Name != nil && *req.Name == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if req.Audience != nil && *req.Audience != "" {
		return validateAudience(*req.Audience)
	}
	return nil
}

func validateAudience(expression string) error {
	evaluator, err := cel.NewEvaluator()
	if err != nil {
		return fmt.Errorf("failed to create CEL evaluator: %w", err)
	}

	if err := evaluator.ValidateAudienceExpression(expression); err != nil {
		return fmt.Errorf("invalid audience expression: %w", err)
	}

	return nil
}
