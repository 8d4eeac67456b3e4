// internal/config/config_test.go
package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	assert.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "skillswap", cfg.Database.Database)
	assert.Equal(t, 24, cfg.JWT.AccessTokenTTL)
	assert.Equal(t, 168, cfg.JWT.RefreshTokenTTL)
	assert.Equal(t, 5.0, cfg.Listing.MinPrice)
	assert.Equal(t, 500.0, cfg.Listing.MaxPrice)
	assert.Equal(t, "usd", cfg.Payment.Currency)
	assert.False(t, cfg.Redis.Enabled)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9999")
	t.Setenv("LISTING_MIN_PRICE", "1.5")
	t.Setenv("LISTING_MAX_PRICE", "250")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg, err := Load()
	assert.NoError(t, err)

	assert.Equal(t, "9999", cfg.Server.Port)
	assert.Equal(t, 1.5, cfg.Listing.MinPrice)
	assert.Equal(t, 250.0, cfg.Listing.MaxPrice)
	assert.True(t, cfg.Redis.Enabled)
}

func TestLoadIgnoresUnparsableNumbers(t *testing.T) {
	t.Setenv("JWT_ACCESS_TTL", "not-a-number")
	t.Setenv("LISTING_MIN_PRICE", "cheap")

	cfg, err := Load()
	assert.NoError(t, err)

	assert.Equal(t, 24, cfg.JWT.AccessTokenTTL)
	assert.Equal(t, 5.0, cfg.Listing.MinPrice)
}

func TestValidateProductionNeedsRealSecret(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("DB_PASSWORD", "something")

	_, err := Load()
	assert.Error(t, err)

	t.Setenv("JWT_SECRET", "an-actual-production-secret")
	cfg, err := Load()
	assert.NoError(t, err)
	assert.Equal(t, "production", cfg.Environment)
}

func TestValidateProductionNeedsDBPassword(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("JWT_SECRET", "an-actual-production-secret")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidatePriceBounds(t *testing.T) {
	t.Setenv("LISTING_MIN_PRICE", "100")
	t.Setenv("LISTING_MAX_PRICE", "50")

	_, err := Load()
	assert.Error(t, err)
}
