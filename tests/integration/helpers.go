package integration

import (
	"time"

	"compass/internal/config"
	"compass/internal/constants"
	"compass/internal/engine"
	"compass/internal/logger"
	"compass/internal/management"
	"compass/pkg/models"
)

const (
	containerStartupTimeout = 60
	timestampDelay          = 10 * time.Millisecond
)

func createTestLogger() logger.Logger {
	return logger.NopLogger()
}

func createTestRulesConfig() config.RulesConfig {
	return config.RulesConfig{
		Fallback: config.FallbackConfig{
			OnError: constants.FallbackSkip,
		},
		Reload: config.ReloadConfig{
			IntervalSeconds: 60,
		},
	}
}

func createTestCatalogConfig() config.CatalogConfig {
	return config.CatalogConfig{
		Reload: config.ReloadConfig{
			IntervalSeconds: 60,
		},
	}
}

func createTestRule(name, eventType string, priority int, status string) *management.ProfileRule {
	return &management.ProfileRule{
		Name:      name,
		EventType: engine.EventType(eventType),
		Status:    engine.RuleStatus(status),
		Priority:  priority,
		Conditions: []engine.Condition{
			{Source: "event.amount", Op: engine.OpGreaterEqual, Value: engine.NumberValue(50000)},
		},
		Effects: []engine.Effect{
			{Type: engine.EffectScoreDelta, Score: "financialStability", Delta: 10},
			{Type: engine.EffectAddTag, Tag: "stable-income"},
		},
	}
}

func createTestRuleRequest(name, eventType string, priority int, status string) management.CreateProfileRuleRequest {
	rule := createTestRule(name, eventType, priority, status)
	return management.CreateProfileRuleRequest{
		Name:       rule.Name,
		EventType:  eventType,
		Status:     &status,
		Priority:   priority,
		Conditions: rule.Conditions,
		Effects:    rule.Effects,
	}
}

func createTestEvent(customerID, eventType string, payload map[string]interface{}) models.EventEnvelope {
	return models.EventEnvelope{
		ID:         "evt-" + customerID,
		CustomerID: customerID,
		Type:       eventType,
		Source:     "test",
		Timestamp:  time.Now(),
		Payload:    payload,
		Metadata:   models.Metadata{},
	}
}
