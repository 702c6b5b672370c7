package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseID(t *testing.T) {
	id, err := parseID("order-id", "8f14e45f-ceea-467f-a0e6-7f8b2a6bd6a1")
	require.NoError(t, err)
	assert.Equal(t, "8f14e45f-ceea-467f-a0e6-7f8b2a6bd6a1", id.String())

	_, err = parseID("order-id", "ORD-1")
	assert.EqualError(t, err, "order-id[ORD-1] is not a uuid")
}

func TestArgumentValidation(t *testing.T) {
	// none of these reach the database
	tests := []struct {
		name    string
		run     func() error
		wantErr string
	}{
		{
			name:    "stock add bad product",
			run:     func() error { return runStockAdd(stockAddCmd, []string{"nope", "3"}) },
			wantErr: "product-id[nope] is not a uuid",
		},
		{
			name: "stock add zero quantity",
			run: func() error {
				return runStockAdd(stockAddCmd, []string{"8f14e45f-ceea-467f-a0e6-7f8b2a6bd6a1", "0"})
			},
			wantErr: "quantity[0] must be a positive integer",
		},
		{
			name:    "stock show bad product",
			run:     func() error { return runStockShow(stockShowCmd, []string{"x"}) },
			wantErr: "product-id[x] is not a uuid",
		},
		{
			name:    "orders show bad order",
			run:     func() error { return runOrdersShow(ordersShowCmd, []string{"x"}) },
			wantErr: "order-id[x] is not a uuid",
		},
		{
			name:    "review retry bad order",
			run:     func() error { return runReviewRetry(reviewRetryCmd, []string{"x"}) },
			wantErr: "order-id[x] is not a uuid",
		},
		{
			name:    "payment verify bad order",
			run:     func() error { return runPaymentVerify(paymentVerifyCmd, []string{"x"}) },
			wantErr: "order-id[x] is not a uuid",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.EqualError(t, tt.run(), tt.wantErr)
		})
	}
}

func TestFlagValidation(t *testing.T) {
	require.NoError(t, ordersExpireCmd.Flags().Set("limit", "0"))
	t.Cleanup(func() { _ = ordersExpireCmd.Flags().Set("limit", "100") })
	assert.EqualError(t, runOrdersExpire(ordersExpireCmd, nil), "--limit must be positive")

	require.NoError(t, migrateDownCmd.Flags().Set("steps", "-1"))
	t.Cleanup(func() { _ = migrateDownCmd.Flags().Set("steps", "1") })
	assert.EqualError(t, runMigrateDown(migrateDownCmd, nil), "--steps must be positive")
}

func TestLoadConfig_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checkout.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: loud\n"), 0o600))

	configPath = path
	t.Cleanup(func() { configPath = "" })

	_, _, err := loadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log.level[loud] is not valid")
}

func TestVersionCmd(t *testing.T) {
	rootCmd.Version = "1.2.3"

	var out bytes.Buffer
	versionCmd.SetOut(&out)
	versionCmd.Run(versionCmd, nil)

	assert.Equal(t, "1.2.3\n", out.String())
}
