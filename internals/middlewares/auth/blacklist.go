// internals/middlewares/auth/blacklist.go
package auth

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	authModel "eventhub_backend/internals/features/auth/model"
	helper "eventhub_backend/internals/helpers"
	"eventhub_backend/internals/helpers/apperr"
)

func hmacHex(raw, secret string) string {
	m := hmac.New(sha256.New, []byte(secret))
	_, _ = m.Write([]byte(raw))
	return hex.EncodeToString(m.Sum(nil))
}

// Revoke blacklists raw until expiresAt. Repeated calls refresh the expiry.
func Revoke(ctx context.Context, db *gorm.DB, raw, secret string, expiresAt time.Time) error {
	if db == nil || strings.TrimSpace(raw) == "" || secret == "" {
		return nil
	}
	row := authModel.RevokedTokenModel{Token: hmacHex(raw, secret), ExpiredAt: expiresAt.UTC()}
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "token"}},
		DoUpdates: clause.AssignmentColumns([]string{"expired_at"}),
	}).Create(&row).Error
}

// IsRevoked reports whether raw was logged out and has not expired yet.
func IsRevoked(ctx context.Context, db *gorm.DB, raw, secret string, now time.Time) (bool, error) {
	if db == nil || strings.TrimSpace(raw) == "" || secret == "" {
		return false, nil
	}
	var n int64
	err := db.WithContext(ctx).Model(&authModel.RevokedTokenModel{}).
		Where("token = ? AND expired_at > ?", hmacHex(raw, secret), now.UTC()).
		Count(&n).Error
	return n > 0, err
}

// PurgeExpired deletes blacklist rows whose tokens have expired anyway.
func PurgeExpired(ctx context.Context, db *gorm.DB, now time.Time) (int64, error) {
	res := db.WithContext(ctx).Where("expired_at <= ?", now.UTC()).Delete(&authModel.RevokedTokenModel{})
	return res.RowsAffected, res.Error
}

// RejectRevoked runs in front of AuthMiddleware. A nil db disables the check.
func RejectRevoked(db *gorm.DB, secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := helper.GetRawAccessToken(c)
		if raw == "" {
			return c.Next()
		}
		revoked, err := IsRevoked(c.UserContext(), db, raw, secret, time.Now())
		if err != nil {
			log.Ctx(c.UserContext()).Warn().Err(err).Msg("blacklist lookup failed")
			return c.Next()
		}
		if revoked {
			return helper.JsonFromError(c, apperr.New(apperr.KindUnauthorized, "session has been logged out, please sign in again"))
		}
		return c.Next()
	}
}
