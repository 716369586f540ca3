package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 1000.0, cfg.Commerce.FreeShippingThreshold)
	assert.Equal(t, 60.0, cfg.Commerce.FlatShippingFee)
	assert.Equal(t, "TP", cfg.Commerce.OrderNumberPrefix)
	assert.Equal(t, 5, cfg.Commerce.OrderNumberMaxAttempts)
	assert.Equal(t, 24*time.Hour, cfg.Cart.SessionTTL)
	assert.Equal(t, "session_id", cfg.Cart.CookieName)
	assert.Equal(t, "Asia/Dhaka", cfg.Location().String())
	assert.True(t, cfg.IsDevelopment())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("FREE_SHIPPING_THRESHOLD", "1500.5")
	t.Setenv("CART_SESSION_TTL", "2h")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 1500.5, cfg.Commerce.FreeShippingThreshold)
	assert.Equal(t, 2*time.Hour, cfg.Cart.SessionTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Security.CORSAllowedOrigins)
}

func TestValidate(t *testing.T) {
	t.Run("short jwt secret", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "short")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "JWT_SECRET")
	})

	t.Run("unknown timezone", func(t *testing.T) {
		t.Setenv("ANALYTICS_TIMEZONE", "Mars/Olympus")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ANALYTICS_TIMEZONE")
	})

	t.Run("zero order number attempts", func(t *testing.T) {
		t.Setenv("ORDER_NUMBER_MAX_ATTEMPTS", "0")
		_, err := Load()
		require.Error(t, err)
	})
}

func TestGetDatabaseDSN(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{
		Host: "db", Port: "5432", User: "u", Password: "p", Name: "n", SSLMode: "disable",
	}}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=n sslmode=disable", cfg.GetDatabaseDSN())
}
