package integration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"compass/internal/engine"
	"compass/internal/management"
	pkgerrors "compass/pkg/errors"
)

func TestManagementRepository_CreateProfileRule(t *testing.T) {
	infra := SetupTestInfraWithOptions(t, true, false, false)

	repo := management.NewRepository(infra.PostgresDB)
	ctx := context.Background()

	rule := createTestRule("salary-credit-boost", "SALARY_CREDIT", 10, "ACTIVE")

	err := repo.CreateProfileRule(ctx, rule)
	require.NoError(t, err)
	assert.NotEmpty(t, rule.ID)
	assert.False(t, rule.CreatedAt.IsZero())
	assert.False(t, rule.UpdatedAt.IsZero())
}

func TestManagementRepository_CreateProfileRule_DuplicateName(t *testing.T) {
	infra := SetupTestInfraWithOptions(t, true, false, false)

	repo := management.NewRepository(infra.PostgresDB)
	ctx := context.Background()

	rule := createTestRule("dup-rule", "SALARY_CREDIT", 10, "ACTIVE")
	require.NoError(t, repo.CreateProfileRule(ctx, rule))

	dup := createTestRule("dup-rule", "SALARY_CREDIT", 20, "DRAFT")
	err := repo.CreateProfileRule(ctx, dup)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsConflict(err))
}

func TestManagementRepository_GetProfileRule(t *testing.T) {
	infra := SetupTestInfraWithOptions(t, true, false, false)

	repo := management.NewRepository(infra.PostgresDB)
	ctx := context.Background()

	rule := createTestRule("salary-credit-boost", "SALARY_CREDIT", 10, "ACTIVE")
	require.NoError(t, repo.CreateProfileRule(ctx, rule))

	retrieved, err := repo.GetProfileRule(ctx, rule.ID)
	require.NoError(t, err)
	assert.Equal(t, rule.ID, retrieved.ID)
	assert.Equal(t, rule.Name, retrieved.Name)
	assert.Equal(t, rule.EventType, retrieved.EventType)
	assert.Equal(t, rule.Status, retrieved.Status)
	assert.Equal(t, rule.Priority, retrieved.Priority)
	assert.Equal(t, rule.Conditions, retrieved.Conditions)
	assert.Equal(t, rule.Effects, retrieved.Effects)
}

func TestManagementRepository_GetProfileRule_NotFound(t *testing.T) {
	infra := SetupTestInfraWithOptions(t, true, false, false)

	repo := management.NewRepository(infra.PostgresDB)
	ctx := context.Background()

	_, err := repo.GetProfileRule(ctx, "00000000-0000-0000-0000-000000000000")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestManagementRepository_ListProfileRules(t *testing.T) {
	infra := SetupTestInfraWithOptions(t, true, false, false)

	repo := management.NewRepository(infra.PostgresDB)
	ctx := context.Background()

	rules := []*management.ProfileRule{
		createTestRule("rule1", "SALARY_CREDIT", 10, "ACTIVE"),
		createTestRule("rule2", "LOGIN", 20, "ACTIVE"),
		createTestRule("rule3", "TRANSFER", 5, "DRAFT"),
	}

	for _, rule := range rules {
		require.NoError(t, repo.CreateProfileRule(ctx, rule))
		time.Sleep(timestampDelay)
	}

	list, err := repo.ListProfileRules(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 3)

	assert.Equal(t, "rule2", list[0].Name) // Priority 20
	assert.Equal(t, "rule1", list[1].Name) // Priority 10
	assert.Equal(t, "rule3", list[2].Name) // Priority 5
}

func TestManagementRepository_UpdateProfileRule(t *testing.T) {
	infra := SetupTestInfraWithOptions(t, true, false, false)

	repo := management.NewRepository(infra.PostgresDB)
	ctx := context.Background()

	rule := createTestRule("salary-credit-boost", "SALARY_CREDIT", 10, "DRAFT")
	require.NoError(t, repo.CreateProfileRule(ctx, rule))

	originalUpdatedAt := rule.UpdatedAt

	time.Sleep(timestampDelay)
	rule.Name = "salary-credit-boost-v2"
	rule.Status = engine.StatusActive
	rule.Priority = 15
	rule.Effects = []engine.Effect{
		{Type: engine.EffectScoreDelta, Score: "financialStability", Delta: 20},
	}

	require.NoError(t, repo.UpdateProfileRule(ctx, rule))

	retrieved, err := repo.GetProfileRule(ctx, rule.ID)
	require.NoError(t, err)
	assert.Equal(t, "salary-credit-boost-v2", retrieved.Name)
	assert.Equal(t, engine.StatusActive, retrieved.Status)
	assert.Equal(t, 15, retrieved.Priority)
	assert.Equal(t, rule.Effects, retrieved.Effects)
	assert.True(t, retrieved.UpdatedAt.After(originalUpdatedAt))
}

func TestManagementRepository_UpdateProfileRule_NotFound(t *testing.T) {
	infra := SetupTestInfraWithOptions(t, true, false, false)

	repo := management.NewRepository(infra.PostgresDB)
	ctx := context.Background()

	rule := createTestRule("ghost", "LOGIN", 1, "DRAFT")
	rule.ID = "00000000-0000-0000-0000-000000000000"

	err := repo.UpdateProfileRule(ctx, rule)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestManagementRepository_DeleteProfileRule(t *testing.T) {
	infra := SetupTestInfraWithOptions(t, true, false, false)

	repo := management.NewRepository(infra.PostgresDB)
	ctx := context.Background()

	rule := createTestRule("salary-credit-boost", "SALARY_CREDIT", 10, "ACTIVE")
	require.NoError(t, repo.CreateProfileRule(ctx, rule))
	require.NoError(t, repo.DeleteProfileRule(ctx, rule.ID))

	_, err := repo.GetProfileRule(ctx, rule.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}
