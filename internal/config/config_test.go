package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nikolayk812/checkout-demo/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/text/currency"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "USD", cfg.Checkout.Currency)
	assert.Equal(t, 15*time.Minute, cfg.Redis.CartTTL)
	assert.Equal(t, uint32(5), cfg.Gateway.BreakerFailures)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checkout.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
database:
  url: postgres://file@db:5432/checkout
gateway:
  base_url: https://gateway.example.com
  key_id: key_file
  key_secret: from-file
  timeout: 3s
checkout:
  currency: INR
  shipping_charge: "40"
  free_shipping_threshold: "500"
  tax_rate: "0.18"
log:
  level: debug
`), 0o600))

	t.Setenv("CHECKOUT_GATEWAY_KEY_SECRET", "from-env")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres://file@db:5432/checkout", cfg.Database.URL)
	assert.Equal(t, "from-env", cfg.Gateway.KeySecret)
	assert.Equal(t, 3*time.Second, cfg.Gateway.Timeout)
	assert.Equal(t, "INR", cfg.Checkout.Currency)

	pricing, err := cfg.Pricing()
	require.NoError(t, err)
	assert.Equal(t, "40", pricing.ShippingCharge.String())
	assert.Equal(t, "500", pricing.FreeShippingThreshold.String())
	assert.Equal(t, "0.18", pricing.TaxRate.String())
	assert.Equal(t, currency.INR, pricing.Currency)
}

func TestValidate(t *testing.T) {
	valid := func() config.Config {
		cfg, err := config.Load("")
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name     string
		mutate   func(c *config.Config)
		wantText string
	}{
		{
			name:     "empty database url",
			mutate:   func(c *config.Config) { c.Database.URL = "" },
			wantText: "database.url is empty",
		},
		{
			name:     "unknown currency",
			mutate:   func(c *config.Config) { c.Checkout.Currency = "XYZW" },
			wantText: "checkout.currency[XYZW] is not valid",
		},
		{
			name:     "negative cart ttl",
			mutate:   func(c *config.Config) { c.Redis.CartTTL = -time.Minute },
			wantText: "redis.cart_ttl[-1m0s] must be positive",
		},
		{
			name:     "zero cart ttl",
			mutate:   func(c *config.Config) { c.Redis.CartTTL = 0 },
			wantText: "redis.cart_ttl[0s] must be positive",
		},
		{
			name:     "negative shipping",
			mutate:   func(c *config.Config) { c.Checkout.ShippingCharge = "-1" },
			wantText: "checkout.shipping_charge[-1] is negative",
		},
		{
			name:     "tax rate as percent",
			mutate:   func(c *config.Config) { c.Checkout.TaxRate = "18" },
			wantText: "checkout.tax_rate[18] must be a fraction",
		},
		{
			name: "gateway without credentials",
			mutate: func(c *config.Config) {
				c.Gateway.BaseURL = "https://gateway.example.com"
				c.Gateway.KeySecret = ""
			},
			wantText: "gateway.key_id and gateway.key_secret are required",
		},
		{
			name:     "bad log level",
			mutate:   func(c *config.Config) { c.Log.Level = "loud" },
			wantText: "log.level[loud] is not valid",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantText)
		})
	}
}
