package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventhub_backend/internals/databases/dbtest"
	authModel "eventhub_backend/internals/features/auth/model"
)

func TestRevokeAndPurge(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, Revoke(ctx, db, "tok-a", testSecret, now.Add(time.Hour)))
	require.NoError(t, Revoke(ctx, db, "tok-a", testSecret, now.Add(2*time.Hour)))
	require.NoError(t, Revoke(ctx, db, "tok-old", testSecret, now.Add(-time.Minute)))

	var rows int64
	require.NoError(t, db.Model(&authModel.RevokedTokenModel{}).Count(&rows).Error)
	assert.EqualValues(t, 2, rows)

	ok, err := IsRevoked(ctx, db, "tok-a", testSecret, now)
	require.NoError(t, err)
	assert.True(t, ok)

	// expired entries no longer count
	ok, err = IsRevoked(ctx, db, "tok-old", testSecret, now)
	require.NoError(t, err)
	assert.False(t, ok)

	// the stored key depends on the secret
	ok, err = IsRevoked(ctx, db, "tok-a", "other-secret", now)
	require.NoError(t, err)
	assert.False(t, ok)

	n, err := PurgeExpired(ctx, db, now)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	ok, err = IsRevoked(ctx, nil, "tok-a", testSecret, now)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAdminOnlyRejectsRevokedToken(t *testing.T) {
	db := dbtest.Open(t)
	app := fiber.New()
	app.Get("/admin", append(AdminOnly(testSecret, db), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})...)

	tok, exp, err := SignAdminToken(testSecret, "admin@x.com", "password", time.Hour, time.Now())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	assert.Equal(t, fiber.StatusOK, status(t, app, req))

	require.NoError(t, Revoke(context.Background(), db, tok, testSecret, exp))

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	assert.Equal(t, fiber.StatusUnauthorized, status(t, app, req))
}
