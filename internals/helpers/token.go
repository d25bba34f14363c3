package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// LocRawToken is the Locals key the auth middleware stores the verified token under.
const LocRawToken = "raw_token"

// GetRawAccessToken looks for the admin token in, in order:
// the "access_token" cookie, Locals(LocRawToken), and "Authorization: Bearer <token>".
func GetRawAccessToken(c *fiber.Ctx) string {
	if v := strings.TrimSpace(c.Cookies("access_token")); v != "" {
		return v
	}
	if v, ok := c.Locals(LocRawToken).(string); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	const p = "Bearer "
	auth := c.Get("Authorization")
	if len(auth) > len(p) && strings.EqualFold(auth[:len(p)], p) {
		return strings.TrimSpace(auth[len(p):])
	}
	return ""
}

func SetRawAccessToken(c *fiber.Ctx, raw string) {
	if strings.TrimSpace(raw) != "" {
		c.Locals(LocRawToken, strings.TrimSpace(raw))
	}
}
