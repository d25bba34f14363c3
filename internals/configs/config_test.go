package configs

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "DATABASE_URL", "CAPACITY_CACHE_TTL", "JWT_TTL", "LOG_PRETTY", "CORS_ORIGINS", "ADMIN_EMAILS", "DB_STATEMENT_TIMEOUT", "TRUSTED_PROXIES"} {
		t.Setenv(k, "")
	}
	t.Setenv("PORT", "3000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, 30*time.Second, cfg.CapacityCacheTTL)
	assert.Equal(t, 12*time.Hour, cfg.JWTTTL)
	assert.False(t, cfg.LogPretty)
	assert.Empty(t, cfg.CorsOrigins)
	assert.Contains(t, cfg.DSN(), "sslmode=")
	assert.Equal(t, 15*time.Second, cfg.DBStatementTimeout)
	assert.Contains(t, cfg.DSN(), "&statement_timeout=15000")
	assert.Empty(t, cfg.TrustedProxies)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/x")
	t.Setenv("CAPACITY_CACHE_TTL", "5s")
	t.Setenv("ADMIN_EMAILS", " A@x.com, ,b@X.com ")
	t.Setenv("ADMIN_EMAIL", " Root@X.com ")
	t.Setenv("LOG_PRETTY", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres://u:p@db:5432/x", cfg.DSN())
	assert.Equal(t, 5*time.Second, cfg.CapacityCacheTTL)
	assert.Equal(t, []string{"a@x.com", "b@x.com"}, cfg.AdminEmails)
	assert.Equal(t, "root@x.com", cfg.AdminEmail)
	assert.True(t, cfg.LogPretty)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("JWT_TTL", "forever")
	_, err := Load()
	assert.ErrorContains(t, err, "JWT_TTL")

	t.Setenv("JWT_TTL", "")
	t.Setenv("LOG_PRETTY", "maybe")
	_, err = Load()
	assert.ErrorContains(t, err, "LOG_PRETTY")
}

func TestStatementTimeoutOverride(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_STATEMENT_TIMEOUT", "2500ms")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Contains(t, cfg.DSN(), "&statement_timeout=2500")

	t.Setenv("DB_STATEMENT_TIMEOUT", "soon")
	_, err = Load()
	assert.ErrorContains(t, err, "DB_STATEMENT_TIMEOUT")
}

func clientIP(t *testing.T, cfg *AppConfig) string {
	t.Helper()
	fc := fiber.Config{}
	cfg.ApplyProxy(&fc)
	app := fiber.New(fc)
	app.Get("/ip", func(c *fiber.Ctx) error { return c.SendString(c.IP()) })

	req := httptest.NewRequest(fiber.MethodGet, "/ip", nil)
	req.Header.Set(fiber.HeaderXForwardedFor, "203.0.113.9")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func TestForwardedForNeedsTrustedProxy(t *testing.T) {
	assert.NotEqual(t, "203.0.113.9", clientIP(t, &AppConfig{}))
	assert.NotEqual(t, "203.0.113.9", clientIP(t, &AppConfig{TrustedProxies: []string{"10.0.0.0/8"}}))
	assert.Equal(t, "203.0.113.9", clientIP(t, &AppConfig{TrustedProxies: []string{"0.0.0.0/0"}}))
}
