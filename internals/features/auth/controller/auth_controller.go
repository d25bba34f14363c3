// file: internals/features/auth/controller/auth_controller.go
package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	helper "eventhub_backend/internals/helpers"
	authMw "eventhub_backend/internals/middlewares/auth"

	dto "eventhub_backend/internals/features/auth/dto"
	service "eventhub_backend/internals/features/auth/service"
)

type AuthController struct {
	Svc       *service.AuthService
	Validator *validator.Validate
}

func NewAuthController(svc *service.AuthService) *AuthController {
	return &AuthController{Svc: svc, Validator: helper.NewValidator()}
}

func setAccessCookie(c *fiber.Ctx, out dto.TokenResponse) {
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    out.AccessToken,
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
		Path:     "/",
		Expires:  out.ExpiresAt,
	})
}

// POST /api/auth/login
func (ctl *AuthController) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	req.Normalize()
	if err := req.Validate(ctl.Validator); err != nil {
		return helper.JsonFromError(c, err)
	}
	out, err := ctl.Svc.Login(c.UserContext(), req)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	setAccessCookie(c, out)
	return helper.JsonOK(c, "login successful", out)
}

// POST /api/auth/google
func (ctl *AuthController) LoginGoogle(c *fiber.Ctx) error {
	var req dto.GoogleLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	req.Normalize()
	if err := req.Validate(ctl.Validator); err != nil {
		return helper.JsonFromError(c, err)
	}
	out, err := ctl.Svc.LoginGoogle(c.UserContext(), req)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	setAccessCookie(c, out)
	return helper.JsonOK(c, "login successful", out)
}

// GET /api/auth/me (behind AuthMiddleware)
func (ctl *AuthController) Me(c *fiber.Ctx) error {
	return helper.JsonOK(c, "current admin", fiber.Map{
		"email": c.Locals(authMw.LocAdminEmail),
		"role":  c.Locals(authMw.LocUserRole),
	})
}

// POST /api/auth/logout
// The presented token is blacklisted until it expires; logging out twice is fine.
func (ctl *AuthController) Logout(c *fiber.Ctx) error {
	if err := ctl.Svc.Logout(c.UserContext(), helper.GetRawAccessToken(c)); err != nil {
		return helper.JsonFromError(c, err)
	}
	c.ClearCookie("access_token")
	return helper.JsonOK(c, "logged out", nil)
}
