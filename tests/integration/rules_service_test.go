package integration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"compass/internal/management"
	"compass/internal/profile"
	"compass/internal/rules"
)

func TestRulesRepository_GetActiveRules(t *testing.T) {
	infra := SetupTestInfraWithOptions(t, true, false, false)

	mgmtRepo := management.NewRepository(infra.PostgresDB)
	ctx := context.Background()

	require.NoError(t, mgmtRepo.CreateProfileRule(ctx, createTestRule("active-high", "SALARY_CREDIT", 20, "ACTIVE")))
	require.NoError(t, mgmtRepo.CreateProfileRule(ctx, createTestRule("active-low", "LOGIN", 5, "ACTIVE")))
	require.NoError(t, mgmtRepo.CreateProfileRule(ctx, createTestRule("draft", "LOGIN", 50, "DRAFT")))
	require.NoError(t, mgmtRepo.CreateProfileRule(ctx, createTestRule("inactive", "LOGIN", 50, "INACTIVE")))

	repo := rules.NewRepository(infra.PostgresDB)
	active, err := repo.GetActiveRules(ctx)
	require.NoError(t, err)

	require.Len(t, active, 2)
	assert.Equal(t, "active-high", active[0].Name)
	assert.Equal(t, "active-low", active[1].Name)
}

func TestRulesService_ReloadAndApply(t *testing.T) {
	infra := SetupTestInfraWithOptions(t, true, false, false)

	mgmtRepo := management.NewRepository(infra.PostgresDB)
	ctx := context.Background()

	require.NoError(t, mgmtRepo.CreateProfileRule(ctx, createTestRule("salary-credit-boost", "SALARY_CREDIT", 10, "ACTIVE")))

	svc := rules.NewService(rules.NewRepository(infra.PostgresDB), createTestRulesConfig(), createTestLogger())
	require.NoError(t, svc.ReloadRulesNow(ctx))
	require.Len(t, svc.ActiveRules(), 1)

	p := profile.New("cust-1")
	p.Scores["financialStability"] = 52

	envelope := createTestEvent("cust-1", "SALARY_CREDIT", map[string]interface{}{"amount": 80000.0})

	updated, trace, err := svc.Apply(ctx, envelope, p)
	require.NoError(t, err)

	assert.Equal(t, 62.0, updated.Scores["financialStability"])
	assert.True(t, updated.HasTag("stable-income"))
	require.Len(t, trace, 1)
	assert.Equal(t, "salary-credit-boost", trace[0].RuleName)

	// Original profile untouched.
	assert.Equal(t, 52.0, p.Scores["financialStability"])
}

func TestRulesService_ApplyBelowThreshold(t *testing.T) {
	infra := SetupTestInfraWithOptions(t, true, false, false)

	mgmtRepo := management.NewRepository(infra.PostgresDB)
	ctx := context.Background()

	require.NoError(t, mgmtRepo.CreateProfileRule(ctx, createTestRule("salary-credit-boost", "SALARY_CREDIT", 10, "ACTIVE")))

	svc := rules.NewService(rules.NewRepository(infra.PostgresDB), createTestRulesConfig(), createTestLogger())
	require.NoError(t, svc.ReloadRulesNow(ctx))

	envelope := createTestEvent("cust-1", "SALARY_CREDIT", map[string]interface{}{"amount": 10000.0})

	updated, trace, err := svc.Apply(ctx, envelope, profile.New("cust-1"))
	require.NoError(t, err)

	assert.Empty(t, trace)
	assert.Empty(t, updated.Tags)
	assert.Empty(t, updated.Scores)
}

func TestRulesService_ReloadPicksUpChanges(t *testing.T) {
	infra := SetupTestInfraWithOptions(t, true, false, false)

	mgmtRepo := management.NewRepository(infra.PostgresDB)
	ctx := context.Background()

	rule := createTestRule("toggled-rule", "LOGIN", 10, "ACTIVE")
	require.NoError(t, mgmtRepo.CreateProfileRule(ctx, rule))

	svc := rules.NewService(rules.NewRepository(infra.PostgresDB), createTestRulesConfig(), createTestLogger())
	require.NoError(t, svc.ReloadRulesNow(ctx))
	require.Len(t, svc.ActiveRules(), 1)

	rule.Status = "INACTIVE"
	require.NoError(t, mgmtRepo.UpdateProfileRule(ctx, rule))

	require.NoError(t, svc.ReloadRulesNow(ctx))
	assert.Empty(t, svc.ActiveRules())
}
