package cart

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/nikolayk812/checkout-demo/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/currency"
)

func setupTestRedis(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() {
		_ = client.Close()
	})

	return NewRedisCache(client, 10*time.Minute), mr
}

func storeCart(t *testing.T, cache *RedisCache, cart domain.Cart) {
	t.Helper()

	version, err := cache.Version(t.Context(), cart.OwnerID)
	require.NoError(t, err)

	stored, err := cache.SetIfVersion(t.Context(), cart, version)
	require.NoError(t, err)
	require.True(t, stored)
}

func TestRedisCache_SetGet(t *testing.T) {
	cache, _ := setupTestRedis(t)
	ctx := t.Context()

	discount := decimal.RequireFromString("9.99")
	now := time.Now().UTC().Truncate(time.Second)
	cart := domain.Cart{
		OwnerID: "customer-1",
		Lines: []domain.CartLine{
			{
				ProductID:     uuid.New(),
				Quantity:      2,
				Price:         domain.Money{Amount: decimal.RequireFromString("12.50"), Currency: currency.EUR},
				DiscountPrice: &discount,
				CreatedAt:     now,
				UpdatedAt:     now,
			},
			{
				ProductID: uuid.New(),
				Quantity:  1,
				Price:     domain.Money{Amount: decimal.RequireFromString("3"), Currency: currency.EUR},
				CreatedAt: now,
				UpdatedAt: now,
			},
		},
	}

	storeCart(t, cache, cart)

	actual, err := cache.Get(ctx, cart.OwnerID)
	require.NoError(t, err)

	assert.Equal(t, cart.OwnerID, actual.OwnerID)
	require.Len(t, actual.Lines, 2)
	for i, line := range cart.Lines {
		assert.Equal(t, line.ProductID, actual.Lines[i].ProductID)
		assert.Equal(t, line.Quantity, actual.Lines[i].Quantity)
		assert.True(t, line.Price.Equal(actual.Lines[i].Price), "price %s vs %s", line.Price, actual.Lines[i].Price)
		assert.True(t, line.CreatedAt.Equal(actual.Lines[i].CreatedAt))
	}
	require.NotNil(t, actual.Lines[0].DiscountPrice)
	assert.True(t, discount.Equal(*actual.Lines[0].DiscountPrice))
	assert.Nil(t, actual.Lines[1].DiscountPrice)
}

func TestRedisCache_Miss(t *testing.T) {
	cache, _ := setupTestRedis(t)

	_, err := cache.Get(t.Context(), "nobody")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestRedisCache_InvalidJSON(t *testing.T) {
	cache, mr := setupTestRedis(t)

	require.NoError(t, mr.Set(cacheKey("customer-2"), `{"owner_id":`))

	_, err := cache.Get(t.Context(), "customer-2")
	require.ErrorContains(t, err, "unmarshal cart")
}

func TestRedisCache_TTL(t *testing.T) {
	cache, mr := setupTestRedis(t)

	storeCart(t, cache, domain.Cart{OwnerID: "customer-3"})

	ttl := mr.TTL(cacheKey("customer-3"))
	assert.GreaterOrEqual(t, ttl, 10*time.Minute)
	assert.LessOrEqual(t, ttl, 12*time.Minute+30*time.Second)
}

func TestRedisCache_NonPositiveTTLFallsBackToDefault(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	c := NewRedisCache(client, -time.Minute)
	storeCart(t, c, domain.Cart{OwnerID: "customer-5"})

	ttl := mr.TTL(cacheKey("customer-5"))
	assert.GreaterOrEqual(t, ttl, 15*time.Minute)
	assert.LessOrEqual(t, ttl, 15*time.Minute+15*time.Minute/4)
}

func TestRedisCache_Delete(t *testing.T) {
	cache, mr := setupTestRedis(t)
	ctx := t.Context()

	storeCart(t, cache, domain.Cart{OwnerID: "customer-4"})
	assert.True(t, mr.Exists(cacheKey("customer-4")))

	require.NoError(t, cache.Delete(ctx, "customer-4"))
	assert.False(t, mr.Exists(cacheKey("customer-4")))

	assert.NoError(t, cache.Delete(ctx, "customer-4"))
}

func TestRedisCache_SetIfVersion(t *testing.T) {
	cache, mr := setupTestRedis(t)
	ctx := t.Context()

	version, err := cache.Version(ctx, "customer-5")
	require.NoError(t, err)
	assert.Zero(t, version)

	require.NoError(t, cache.Delete(ctx, "customer-5"))

	stored, err := cache.SetIfVersion(ctx, domain.Cart{OwnerID: "customer-5"}, version)
	require.NoError(t, err)
	assert.False(t, stored, "a delete since the version was read wins")
	assert.False(t, mr.Exists(cacheKey("customer-5")))

	version, err = cache.Version(ctx, "customer-5")
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)

	stored, err = cache.SetIfVersion(ctx, domain.Cart{OwnerID: "customer-5"}, version)
	require.NoError(t, err)
	assert.True(t, stored)
	assert.True(t, mr.Exists(cacheKey("customer-5")))

	assert.Greater(t, mr.TTL(versionKey("customer-5")), 20*time.Minute)
}

func TestCacheKey(t *testing.T) {
	assert.Equal(t, "cart:abc", cacheKey("abc"))
	assert.Equal(t, "cart:abc:version", versionKey("abc"))
}
