package integration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"compass/internal/catalog"
	"compass/internal/config"
	"compass/internal/management"
	"compass/internal/profile"
	"compass/internal/recommend"
)

func seedProduct(t *testing.T, repo management.ProductRepository, product *catalog.Product) {
	t.Helper()
	require.NoError(t, repo.CreateProduct(context.Background(), product))
}

func TestCatalogService_ReloadOnlyActiveProducts(t *testing.T) {
	infra := SetupTestInfraWithOptions(t, false, true, false)

	productRepo := management.NewProductRepository(infra.MongoDB)
	ctx := context.Background()

	seedProduct(t, productRepo, &catalog.Product{Name: "Active Card", Active: true})
	seedProduct(t, productRepo, &catalog.Product{Name: "Retired Card", Active: false})

	svc := catalog.NewService(catalog.NewRepository(infra.MongoDB), createTestCatalogConfig(), createTestLogger())
	require.NoError(t, svc.ReloadNow(ctx))

	products := svc.ActiveProducts()
	require.Len(t, products, 1)
	assert.Equal(t, "Active Card", products[0].Name)
}

func TestRecommendationService_ForCustomer(t *testing.T) {
	infra := SetupTestInfraWithOptions(t, false, true, true)

	productRepo := management.NewProductRepository(infra.MongoDB)
	ctx := context.Background()

	seedProduct(t, productRepo, &catalog.Product{
		Name:           "Premium Card",
		RequiredScores: map[string]float64{"financialStability": 60},
		WeightByScore:  map[string]float64{"financialStability": 0.5},
		Active:         true,
	})
	seedProduct(t, productRepo, &catalog.Product{
		Name:          "Starter Account",
		WeightByScore: map[string]float64{"engagement": 0.2},
		Exclusions:    []string{"stable-income"},
		Active:        true,
	})

	catalogSvc := catalog.NewService(catalog.NewRepository(infra.MongoDB), createTestCatalogConfig(), createTestLogger())
	require.NoError(t, catalogSvc.ReloadNow(ctx))

	profiles := profile.NewRedisStore(infra.RedisClient, 0)
	p := profile.New("cust-1")
	p.Scores["financialStability"] = 62
	p.Scores["engagement"] = 40
	p.Tags = []string{"stable-income"}
	require.NoError(t, profiles.Put(ctx, p))

	svc, err := recommend.NewService(catalogSvc, profiles, config.RecommendationConfig{AudienceEnabled: true}, createTestLogger())
	require.NoError(t, err)

	recs, err := svc.ForCustomer(ctx, "cust-1")
	require.NoError(t, err)
	require.Len(t, recs, 2)

	assert.Equal(t, "Premium Card", recs[0].Product.Name)
	assert.Equal(t, recommend.DecisionShown, recs[0].Decision)
	assert.Equal(t, 31.0, recs[0].Score)
	assert.Equal(t, 1, recs[0].Rank)

	assert.Equal(t, "Starter Account", recs[1].Product.Name)
	assert.Equal(t, recommend.DecisionHidden, recs[1].Decision)
	assert.Equal(t, 0.0, recs[1].Score)
	assert.Equal(t, 2, recs[1].Rank)
	assert.Equal(t, []string{`Excluded: profile has tag "stable-income"`}, recs[1].Why)
}

func TestRecommendationService_UnknownCustomerGetsFreshProfile(t *testing.T) {
	infra := SetupTestInfraWithOptions(t, false, true, true)

	productRepo := management.NewProductRepository(infra.MongoDB)
	ctx := context.Background()

	seedProduct(t, productRepo, &catalog.Product{
		Name:           "Premium Card",
		RequiredScores: map[string]float64{"financialStability": 60},
		Active:         true,
	})

	catalogSvc := catalog.NewService(catalog.NewRepository(infra.MongoDB), createTestCatalogConfig(), createTestLogger())
	require.NoError(t, catalogSvc.ReloadNow(ctx))

	profiles := profile.NewRedisStore(infra.RedisClient, 0)

	svc, err := recommend.NewService(catalogSvc, profiles, config.RecommendationConfig{}, createTestLogger())
	require.NoError(t, err)

	recs, err := svc.ForCustomer(ctx, "never-seen")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, recommend.DecisionHidden, recs[0].Decision)
}

func TestRecommendationService_AudienceFiltering(t *testing.T) {
	infra := SetupTestInfraWithOptions(t, false, true, true)

	productRepo := management.NewProductRepository(infra.MongoDB)
	ctx := context.Background()

	seedProduct(t, productRepo, &catalog.Product{
		Name:     "VIP Offer",
		Audience: `"vip" in tags`,
		Active:   true,
	})
	seedProduct(t, productRepo, &catalog.Product{
		Name:     "Broken Offer",
		Audience: `customer_id`, // non-bool, evaluation error leaves it visible
		Active:   true,
	})

	catalogSvc := catalog.NewService(catalog.NewRepository(infra.MongoDB), createTestCatalogConfig(), createTestLogger())
	require.NoError(t, catalogSvc.ReloadNow(ctx))

	profiles := profile.NewRedisStore(infra.RedisClient, 0)
	require.NoError(t, profiles.Put(ctx, profile.New("cust-1")))

	svc, err := recommend.NewService(catalogSvc, profiles, config.RecommendationConfig{AudienceEnabled: true}, createTestLogger())
	require.NoError(t, err)

	recs, err := svc.ForCustomer(ctx, "cust-1")
	require.NoError(t, err)
	require.Len(t, recs, 2)

	byName := map[string]recommend.Recommendation{}
	for _, rec := range recs {
		byName[rec.Product.Name] = rec
	}

	assert.Equal(t, recommend.DecisionHidden, byName["VIP Offer"].Decision)
	assert.Contains(t, byName["VIP Offer"].Why, "✗ outside product audience")
	assert.Equal(t, recommend.DecisionShown, byName["Broken Offer"].Decision)
}
