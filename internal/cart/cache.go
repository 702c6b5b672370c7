package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/checkout-demo/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

var ErrCacheMiss = errors.New("cache miss")

const defaultTTL = 15 * time.Minute

// Cache stores cart snapshots. Every Delete bumps the owner's version, so a
// snapshot read from the database before a concurrent mutation is never
// written back over it.
type Cache interface {
	Get(ctx context.Context, ownerID string) (domain.Cart, error)
	Version(ctx context.Context, ownerID string) (int64, error)
	SetIfVersion(ctx context.Context, cart domain.Cart, version int64) (bool, error)
	Delete(ctx context.Context, ownerID string) error
}

// setIfVersion writes KEYS[1] only while KEYS[2] still holds ARGV[1].
var setIfVersion = redis.NewScript(`
local current = redis.call('GET', KEYS[2]) or '0'
if current ~= ARGV[1] then
	return 0
end
redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
return 1
`)

type RedisCache struct {
	client  redis.UniversalClient
	baseTTL time.Duration
}

func NewRedisCache(client redis.UniversalClient, baseTTL time.Duration) *RedisCache {
	if baseTTL <= 0 {
		baseTTL = defaultTTL
	}
	return &RedisCache{
		client:  client,
		baseTTL: baseTTL,
	}
}

type cachedLine struct {
	ProductID     uuid.UUID        `json:"product_id"`
	Quantity      int32            `json:"quantity"`
	Price         decimal.Decimal  `json:"price"`
	Currency      string           `json:"currency"`
	DiscountPrice *decimal.Decimal `json:"discount_price,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

type cachedCart struct {
	OwnerID string       `json:"owner_id"`
	Lines   []cachedLine `json:"lines"`
}

func (r *RedisCache) Get(ctx context.Context, ownerID string) (domain.Cart, error) {
	data, err := r.client.Get(ctx, cacheKey(ownerID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Cart{}, ErrCacheMiss
	}
	if err != nil {
		return domain.Cart{}, fmt.Errorf("redis get: %w", err)
	}

	var cached cachedCart
	if err := json.Unmarshal(data, &cached); err != nil {
		return domain.Cart{}, fmt.Errorf("unmarshal cart: %w", err)
	}

	cart := domain.Cart{OwnerID: cached.OwnerID}
	for _, line := range cached.Lines {
		unit, err := currency.ParseISO(line.Currency)
		if err != nil {
			return domain.Cart{}, fmt.Errorf("currency[%s] is not valid: %w", line.Currency, err)
		}
		cart.Lines = append(cart.Lines, domain.CartLine{
			ProductID:     line.ProductID,
			Quantity:      line.Quantity,
			Price:         domain.Money{Amount: line.Price, Currency: unit},
			DiscountPrice: line.DiscountPrice,
			CreatedAt:     line.CreatedAt,
			UpdatedAt:     line.UpdatedAt,
		})
	}

	return cart, nil
}

func (r *RedisCache) Version(ctx context.Context, ownerID string) (int64, error) {
	version, err := r.client.Get(ctx, versionKey(ownerID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis get version: %w", err)
	}
	return version, nil
}

func (r *RedisCache) SetIfVersion(ctx context.Context, cart domain.Cart, version int64) (bool, error) {
	cached := cachedCart{
		OwnerID: cart.OwnerID,
		Lines:   make([]cachedLine, 0, len(cart.Lines)),
	}
	for _, line := range cart.Lines {
		cached.Lines = append(cached.Lines, cachedLine{
			ProductID:     line.ProductID,
			Quantity:      line.Quantity,
			Price:         line.Price.Amount,
			Currency:      line.Price.Currency.String(),
			DiscountPrice: line.DiscountPrice,
			CreatedAt:     line.CreatedAt,
			UpdatedAt:     line.UpdatedAt,
		})
	}

	data, err := json.Marshal(cached)
	if err != nil {
		return false, fmt.Errorf("marshal cart: %w", err)
	}

	// jitter spreads expiry of carts written together
	ttl := r.baseTTL + time.Duration(rand.Int64N(int64(r.baseTTL/4)+1))

	keys := []string{cacheKey(cart.OwnerID), versionKey(cart.OwnerID)}
	stored, err := setIfVersion.Run(ctx, r.client, keys, version, data, ttl.Milliseconds()).Int()
	if err != nil {
		return false, fmt.Errorf("redis set: %w", err)
	}

	return stored == 1, nil
}

// Delete drops the snapshot and bumps the version in one transaction.
func (r *RedisCache) Delete(ctx context.Context, ownerID string) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, cacheKey(ownerID))
		pipe.Incr(ctx, versionKey(ownerID))
		pipe.Expire(ctx, versionKey(ownerID), r.versionTTL())
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// versionTTL is far longer than a database read, so a version cannot expire
// and come back with the same value between Version and SetIfVersion.
func (r *RedisCache) versionTTL() time.Duration {
	return 2*r.baseTTL + time.Minute
}

func cacheKey(ownerID string) string {
	return fmt.Sprintf("cart:%s", ownerID)
}

func versionKey(ownerID string) string {
	return fmt.Sprintf("cart:%s:version", ownerID)
}

// NopCache never hits. It is used when no redis address is configured.
type NopCache struct{}

func (NopCache) Get(context.Context, string) (domain.Cart, error) { return domain.Cart{}, ErrCacheMiss }
func (NopCache) Version(context.Context, string) (int64, error)   { return 0, nil }
func (NopCache) Delete(context.Context, string) error             { return nil }

func (NopCache) SetIfVersion(context.Context, domain.Cart, int64) (bool, error) { return false, nil }
