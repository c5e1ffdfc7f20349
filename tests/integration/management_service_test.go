package integration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"compass/internal/engine"
	"compass/internal/management"
	"compass/internal/recommend"
	pkgerrors "compass/pkg/errors"
)

func newManagementService(infra *TestInfra) management.Service {
	repo := management.NewRepository(infra.PostgresDB)
	versioningRepo := management.NewVersioningRepository(infra.PostgresDB)
	return management.NewService(repo, management.WithVersioning(versioningRepo))
}

func TestManagementService_CreateProfileRule(t *testing.T) {
	infra := SetupTestInfraWithOptions(t, true, false, false)

	svc := newManagementService(infra)
	ctx := context.Background()

	rule, err := svc.CreateProfileRule(ctx, createTestRuleRequest("salary-credit-boost", "SALARY_CREDIT", 10, "ACTIVE"))
	require.NoError(t, err)
	assert.NotEmpty(t, rule.ID)
	assert.Equal(t, engine.StatusActive, rule.Status)
}

func TestManagementService_CreateProfileRule_DefaultsToDraft(t *testing.T) {
	infra := SetupTestInfraWithOptions(t, true, false, false)

	svc := newManagementService(infra)
	ctx := context.Background()

	req := createTestRuleRequest("draft-by-default", "LOGIN", 1, "DRAFT")
	req.Status = nil

	rule, err := svc.CreateProfileRule(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, engine.StatusDraft, rule.Status)
}

func TestManagementService_CreateProfileRule_ValidationError(t *testing.T) {
	infra := SetupTestInfraWithOptions(t, true, false, false)

	svc := newManagementService(infra)
	ctx := context.Background()

	req := createTestRuleRequest("bad-rule", "UNKNOWN_EVENT", 1, "ACTIVE")

	_, err := svc.CreateProfileRule(ctx, req)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestManagementService_UpdateProfileRule(t *testing.T) {
	infra := SetupTestInfraWithOptions(t, true, false, false)

	svc := newManagementService(infra)
	ctx := context.Background()

	rule, err := svc.CreateProfileRule(ctx, createTestRuleRequest("salary-credit-boost", "SALARY_CREDIT", 10, "DRAFT"))
	require.NoError(t, err)

	newStatus := "ACTIVE"
	newPriority := 42
	updated, err := svc.UpdateProfileRule(ctx, rule.ID, management.UpdateProfileRuleRequest{
		Status:   &newStatus,
		Priority: &newPriority,
	})
	require.NoError(t, err)
	assert.Equal(t, engine.StatusActive, updated.Status)
	assert.Equal(t, 42, updated.Priority)
	assert.Equal(t, rule.Name, updated.Name)
}

func TestManagementService_DeleteProfileRule(t *testing.T) {
	infra := SetupTestInfraWithOptions(t, true, false, false)

	svc := newManagementService(infra)
	ctx := context.Background()

	rule, err := svc.CreateProfileRule(ctx, createTestRuleRequest("salary-credit-boost", "SALARY_CREDIT", 10, "ACTIVE"))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteProfileRule(ctx, rule.ID))

	_, err = svc.GetProfileRule(ctx, rule.ID)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestManagementService_Versioning(t *testing.T) {
	infra := SetupTestInfraWithOptions(t, true, false, false)

	svc := newManagementService(infra)
	ctx := context.Background()

	rule, err := svc.CreateProfileRule(ctx, createTestRuleRequest("versioned-rule", "SALARY_CREDIT", 10, "DRAFT"))
	require.NoError(t, err)

	newName := "versioned-rule-v2"
	_, err = svc.UpdateProfileRule(ctx, rule.ID, management.UpdateProfileRuleRequest{Name: &newName})
	require.NoError(t, err)

	versions, err := svc.GetRuleVersions(ctx, rule.ID)
	require.NoError(t, err)
	require.Len(t, versions, 2)

	// Newest first.
	assert.Equal(t, 2, versions[0].Version)
	assert.Equal(t, 1, versions[1].Version)
	assert.Equal(t, "profile", versions[0].RuleType)
	assert.Contains(t, versions[0].RuleData, "versioned-rule-v2")
	assert.Contains(t, versions[1].RuleData, `"versioned-rule"`)
}

func TestManagementService_AuditLogs(t *testing.T) {
	infra := SetupTestInfraWithOptions(t, true, false, false)

	svc := newManagementService(infra)
	ctx := context.Background()

	rule, err := svc.CreateProfileRule(ctx, createTestRuleRequest("audited-rule", "SALARY_CREDIT", 10, "ACTIVE"))
	require.NoError(t, err)

	newPriority := 99
	_, err = svc.UpdateProfileRule(ctx, rule.ID, management.UpdateProfileRuleRequest{Priority: &newPriority})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteProfileRule(ctx, rule.ID))

	logs, err := svc.GetAuditLogs(ctx, &rule.ID, "", 50)
	require.NoError(t, err)
	require.Len(t, logs, 3)

	// Newest first: delete, update, create.
	assert.Equal(t, "delete", logs[0].Action)
	assert.Equal(t, "update", logs[1].Action)
	assert.Equal(t, "create", logs[2].Action)
	assert.Equal(t, "system", logs[0].ChangedBy)
	assert.NotNil(t, logs[0].OldValue)
	assert.Nil(t, logs[0].NewValue)
}

func TestManagementService_ProductCRUD(t *testing.T) {
	infra := SetupTestInfraWithOptions(t, true, true, false)

	repo := management.NewRepository(infra.PostgresDB)
	productRepo := management.NewProductRepository(infra.MongoDB)
	svc := management.NewService(repo, management.WithProducts(productRepo))
	ctx := context.Background()

	product, err := svc.CreateProduct(ctx, management.CreateProductRequest{
		Name:           "Premium Card",
		RequiredScores: map[string]float64{"financialStability": 60},
		WeightByScore:  map[string]float64{"financialStability": 0.5},
		Exclusions:     []string{"defaulted"},
		Audience:       `scores["financialStability"] > 50.0`,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, product.ID)
	assert.True(t, product.Active)

	retrieved, err := svc.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, product.Name, retrieved.Name)
	assert.Equal(t, product.RequiredScores, retrieved.RequiredScores)

	inactive := false
	updated, err := svc.UpdateProduct(ctx, product.ID, management.UpdateProductRequest{Active: &inactive})
	require.NoError(t, err)
	assert.False(t, updated.Active)

	products, err := svc.ListProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 1)

	require.NoError(t, svc.DeleteProduct(ctx, product.ID))

	_, err = svc.GetProduct(ctx, product.ID)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestManagementService_ProductCRUD_InvalidAudience(t *testing.T) {
	infra := SetupTestInfraWithOptions(t, true, true, false)

	repo := management.NewRepository(infra.PostgresDB)
	productRepo := management.NewProductRepository(infra.MongoDB)
	svc := management.NewService(repo, management.WithProducts(productRepo))
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, management.CreateProductRequest{
		Name:     "Broken Offer",
		Audience: `scores[`,
	})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestManagementService_Simulate(t *testing.T) {
	infra := SetupTestInfraWithOptions(t, true, true, false)

	repo := management.NewRepository(infra.PostgresDB)
	productRepo := management.NewProductRepository(infra.MongoDB)
	svc := management.NewService(repo, management.WithProducts(productRepo))
	ctx := context.Background()

	_, err := svc.CreateProfileRule(ctx, createTestRuleRequest("salary-credit-boost", "SALARY_CREDIT", 10, "ACTIVE"))
	require.NoError(t, err)

	// Draft rules must not fire in simulation either.
	_, err = svc.CreateProfileRule(ctx, createTestRuleRequest("draft-rule", "SALARY_CREDIT", 99, "DRAFT"))
	require.NoError(t, err)

	_, err = svc.CreateProduct(ctx, management.CreateProductRequest{
		Name:           "Premium Card",
		RequiredScores: map[string]float64{"financialStability": 60},
		WeightByScore:  map[string]float64{"financialStability": 1},
	})
	require.NoError(t, err)

	resp, err := svc.Simulate(ctx, management.SimulationRequest{
		Profile: management.SimulationProfile{
			CustomerID: "cust-sim",
			Scores:     map[string]float64{"financialStability": 52},
		},
		Events: []engine.Event{
			{Type: engine.EventSalaryCredit, Payload: map[string]interface{}{"amount": 80000.0}},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 62.0, resp.Profile.Scores["financialStability"])
	assert.True(t, resp.Profile.HasTag("stable-income"))

	require.Len(t, resp.Trace, 1)
	assert.Equal(t, "salary-credit-boost", resp.Trace[0].RuleName)
	assert.Equal(t, `financialStability +10 (52 → 62); Added tag "stable-income"`, resp.Trace[0].EffectDescription)

	require.Len(t, resp.Recommendations, 1)
	assert.Equal(t, recommend.DecisionShown, resp.Recommendations[0].Decision)
	assert.Equal(t, 62.0, resp.Recommendations[0].Score)

	assert.Contains(t, resp.Narrative, "salary-credit-boost")
	assert.Contains(t, resp.Narrative, "Shown: Premium Card")
}

func TestManagementService_Simulate_AudienceMiss(t *testing.T) {
	infra := SetupTestInfraWithOptions(t, true, true, false)

	repo := management.NewRepository(infra.PostgresDB)
	productRepo := management.NewProductRepository(infra.MongoDB)
	svc := management.NewService(repo, management.WithProducts(productRepo))
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, management.CreateProductRequest{
		Name:          "Targeted Offer",
		WeightByScore: map[string]float64{"engagement": 1},
		Audience:      `"vip" in tags`,
	})
	require.NoError(t, err)

	resp, err := svc.Simulate(ctx, management.SimulationRequest{
		Profile: management.SimulationProfile{
			CustomerID: "cust-sim",
			Scores:     map[string]float64{"engagement": 40},
		},
		Events: []engine.Event{{Type: engine.EventLogin}},
	})
	require.NoError(t, err)

	require.Len(t, resp.Recommendations, 1)
	assert.Equal(t, recommend.DecisionHidden, resp.Recommendations[0].Decision)
	assert.Equal(t, 40.0, resp.Recommendations[0].Score)
	assert.Contains(t, resp.Recommendations[0].Why, "✗ outside product audience")
}

func TestManagementService_Simulate_NoEvents(t *testing.T) {
	infra := SetupTestInfraWithOptions(t, true, false, false)

	svc := newManagementService(infra)
	ctx := context.Background()

	_, err := svc.Simulate(ctx, management.SimulationRequest{
		Profile: management.SimulationProfile{CustomerID: "cust-sim"},
	})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidation(err))
}
