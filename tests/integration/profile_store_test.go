package integration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"compass/internal/config"
	"compass/internal/profile"
)

func TestProfileStore_GetUnknownCustomer(t *testing.T) {
	infra := SetupTestInfraWithOptions(t, false, false, true)

	store := profile.NewRedisStore(infra.RedisClient, 0)
	ctx := context.Background()

	p, err := store.Get(ctx, "never-seen")
	require.NoError(t, err)

	assert.Equal(t, "never-seen", p.CustomerID)
	assert.Empty(t, p.Scores)
	assert.Empty(t, p.Tags)
	assert.NotNil(t, p.Scores)
	assert.NotNil(t, p.Tags)
}

func TestProfileStore_PutAndGet(t *testing.T) {
	infra := SetupTestInfraWithOptions(t, false, false, true)

	store := profile.NewRedisStore(infra.RedisClient, 0)
	ctx := context.Background()

	p := profile.New("cust-1")
	p.StaticData = map[string]interface{}{"segment": "premium"}
	p.Scores["financialStability"] = 62
	p.Tags = []string{"stable-income"}
	p.LastUpdated = time.Now()

	require.NoError(t, store.Put(ctx, p))

	loaded, err := store.Get(ctx, "cust-1")
	require.NoError(t, err)

	assert.Equal(t, p.CustomerID, loaded.CustomerID)
	assert.Equal(t, p.StaticData, loaded.StaticData)
	assert.Equal(t, p.Scores, loaded.Scores)
	assert.Equal(t, p.Tags, loaded.Tags)
}

func TestProfileStore_PutRequiresCustomerID(t *testing.T) {
	infra := SetupTestInfraWithOptions(t, false, false, true)

	store := profile.NewRedisStore(infra.RedisClient, 0)

	err := store.Put(context.Background(), &profile.Profile{})
	require.Error(t, err)
}

func TestProfileStore_TTLExpiry(t *testing.T) {
	infra := SetupTestInfraWithOptions(t, false, false, true)

	store := profile.NewRedisStore(infra.RedisClient, 500*time.Millisecond)
	ctx := context.Background()

	p := profile.New("expiring")
	p.Scores["engagement"] = 10
	require.NoError(t, store.Put(ctx, p))

	time.Sleep(700 * time.Millisecond)

	loaded, err := store.Get(ctx, "expiring")
	require.NoError(t, err)
	assert.Empty(t, loaded.Scores)
}

func TestCircuitBreakerStore_PassThrough(t *testing.T) {
	infra := SetupTestInfraWithOptions(t, false, false, true)

	inner := profile.NewRedisStore(infra.RedisClient, 0)
	store := profile.NewCircuitBreakerStore(inner, config.CircuitBreakerConfig{Enabled: true})
	ctx := context.Background()

	p := profile.New("cust-cb")
	p.Scores["engagement"] = 7
	require.NoError(t, store.Put(ctx, p))

	loaded, err := store.Get(ctx, "cust-cb")
	require.NoError(t, err)
	assert.Equal(t, 7.0, loaded.Scores["engagement"])
}
