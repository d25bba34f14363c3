// file: internals/features/auth/dto/auth_dto.go
package dto

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	helper "eventhub_backend/internals/helpers"
)

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

func (r *LoginRequest) Normalize() {
	r.Email = helper.NormalizeEmail(r.Email)
}

func (r *LoginRequest) Validate(v *validator.Validate) error {
	return helper.ValidateStruct(v, r)
}

type GoogleLoginRequest struct {
	IDToken string `json:"id_token" validate:"required"`
}

func (r *GoogleLoginRequest) Normalize() {
	r.IDToken = strings.TrimSpace(r.IDToken)
}

func (r *GoogleLoginRequest) Validate(v *validator.Validate) error {
	return helper.ValidateStruct(v, r)
}

type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
}
