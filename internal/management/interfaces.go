package management

import (
	"context"

	"compass/internal/catalog"
)

type Service interface {
	CreateProfileRule(ctx context.Context, req CreateProfileRuleRequest) (*ProfileRule, error)
	ListProfileRules(ctx context.Context) ([]ProfileRule, error)
	GetProfileRule(ctx context.Context, id string) (*ProfileRule, error)
	UpdateProfileRule(ctx context.Context, id string, req UpdateProfileRuleRequest) (*ProfileRule, error)
	DeleteProfileRule(ctx context.Context, id string) error
	GetRuleVersions(ctx context.Context, ruleID string) ([]RuleVersion, error)
	GetAuditLogs(ctx context.Context, ruleID *string, ruleType string, limit int) ([]AuditLog, error)

	CreateProduct(ctx context.Context, req CreateProductRequest) (*catalog.Product, error)
	ListProducts(ctx context.Context) ([]catalog.Product, error)
	GetProduct(ctx context.Context, id string) (*catalog.Product, error)
	UpdateProduct(ctx context.Context, id string, req UpdateProductRequest) (*catalog.Product, error)
	DeleteProduct(ctx context.Context, id string) error

	Simulate(ctx context.Context, req SimulationRequest) (*SimulationResponse, error)
}
