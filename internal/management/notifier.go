package management

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"compass/internal/broker"
	"compass/pkg/models"
)

type ConfigEventProducer struct {
	producer broker.Producer
	topic    string
}

func NewConfigEventProducer(producer broker.Producer, topic string) *ConfigEventProducer {
	return &ConfigEventProducer{
		producer: producer,
		topic:    topic,
	}
}

func (p *ConfigEventProducer) PublishProfileRuleEvent(ctx context.Context, action, ruleID, changedBy string) error {
	event := models.ConfigUpdateEvent{
		EventType:   models.EventTypeProfileRuleUpdated,
		ServiceType: models.ServiceTypeProfile,
		RuleID:      ruleID,
		Action:      action,
		Timestamp:   time.Now(),
		ChangedBy:   changedBy,
	}
	return p.publishEvent(ctx, event)
}

func (p *ConfigEventProducer) PublishProductEvent(ctx context.Context, action, productID, changedBy string) error {
	event := models.ConfigUpdateEvent{
		EventType:   models.EventTypeProductUpdated,
		ServiceType: models.ServiceTypeRecommendation,
		ProductID:   productID,
		Action:      action,
		Timestamp:   time.Now(),
		ChangedBy:   changedBy,
	}
	return p.publishEvent(ctx, event)
}

func (p *ConfigEventProducer) publishEvent(ctx context.Context, event models.ConfigUpdateEvent) error {
	if p.producer == nil || p.topic == "" {
		return nil
	}

	eventJSON, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal config event: %w", err)
	}

	var eventData map[string]interface{}
	if err := json.Unmarshal(eventJSON, &eventData); err != nil {
		return fmt.Errorf("failed to unmarshal event data: %w", err)
	}

	envelope := models.EventEnvelope{
		ID:        uuid.New().String(),
		Type:      event.EventType,
		Source:    "management-service",
		Timestamp: time.Now(),
		Payload:   eventData,
	}

	return p.producer.Publish(ctx, p.topic, envelope)
}
