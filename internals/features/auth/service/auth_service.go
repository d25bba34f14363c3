// file: internals/features/auth/service/auth_service.go
package service

import (
	"context"
	"slices"
	"time"

	googleAuthIDTokenVerifier "github.com/futurenda/google-auth-id-token-verifier"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"eventhub_backend/internals/configs"
	helper "eventhub_backend/internals/helpers"
	"eventhub_backend/internals/helpers/apperr"
	authMw "eventhub_backend/internals/middlewares/auth"

	dto "eventhub_backend/internals/features/auth/dto"
)

const (
	MethodPassword = "password"
	MethodGoogle   = "google"
)

// IDTokenVerifier checks a Google ID token and returns the email it was issued to.
type IDTokenVerifier interface {
	VerifyEmail(idToken string) (string, error)
}

type googleVerifier struct{ clientID string }

func (g googleVerifier) VerifyEmail(idToken string) (string, error) {
	v := googleAuthIDTokenVerifier.Verifier{}
	if err := v.VerifyIDToken(idToken, []string{g.clientID}); err != nil {
		return "", err
	}
	claimSet, err := googleAuthIDTokenVerifier.Decode(idToken)
	if err != nil {
		return "", err
	}
	return claimSet.Email, nil
}

type AuthService struct {
	// DB holds the token blacklist; nil disables revocation.
	DB           *gorm.DB
	Secret       string
	TTL          time.Duration
	AdminEmail   string
	PasswordHash string
	// Google sign-in is accepted only for these addresses.
	AllowedEmails []string
	Verifier      IDTokenVerifier
	Now           func() time.Time
}

func NewAuthService(cfg *configs.AppConfig, db *gorm.DB) *AuthService {
	allowed := make([]string, 0, len(cfg.AdminEmails)+1)
	for _, e := range cfg.AdminEmails {
		allowed = append(allowed, helper.NormalizeEmail(e))
	}
	if cfg.AdminEmail != "" {
		allowed = append(allowed, helper.NormalizeEmail(cfg.AdminEmail))
	}
	return &AuthService{
		DB:            db,
		Secret:        cfg.JWTSecret,
		TTL:           cfg.JWTTTL,
		AdminEmail:    helper.NormalizeEmail(cfg.AdminEmail),
		PasswordHash:  cfg.AdminPasswordHash,
		AllowedEmails: allowed,
		Verifier:      googleVerifier{clientID: cfg.GoogleClientID},
		Now:           time.Now,
	}
}

func invalidCredentials() *apperr.Error {
	return apperr.New(apperr.KindUnauthorized, "invalid credentials")
}

func (s *AuthService) issue(email, method string) (dto.TokenResponse, error) {
	tok, exp, err := authMw.SignAdminToken(s.Secret, email, method, s.TTL, s.Now().UTC())
	if err != nil {
		return dto.TokenResponse{}, apperr.Store("sign token", err)
	}
	return dto.TokenResponse{
		AccessToken: tok,
		TokenType:   "Bearer",
		ExpiresAt:   exp,
		Email:       email,
		Role:        authMw.RoleAdmin,
	}, nil
}

// Login checks the configured admin email and bcrypt password hash.
func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (dto.TokenResponse, error) {
	if s.PasswordHash == "" || s.AdminEmail == "" {
		return dto.TokenResponse{}, apperr.New(apperr.KindUnauthorized, "password login is disabled")
	}
	// compare the hash even on an email mismatch so both paths cost the same
	hashErr := bcrypt.CompareHashAndPassword([]byte(s.PasswordHash), []byte(req.Password))
	if req.Email != s.AdminEmail || hashErr != nil {
		log.Ctx(ctx).Warn().Str("email", req.Email).Msg("admin login failed")
		return dto.TokenResponse{}, invalidCredentials()
	}
	return s.issue(req.Email, MethodPassword)
}

// LoginGoogle accepts a verified Google ID token whose email is on the allowlist.
func (s *AuthService) LoginGoogle(ctx context.Context, req dto.GoogleLoginRequest) (dto.TokenResponse, error) {
	email, err := s.Verifier.VerifyEmail(req.IDToken)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("google id token rejected")
		return dto.TokenResponse{}, apperr.New(apperr.KindUnauthorized, "invalid Google ID token")
	}
	email = helper.NormalizeEmail(email)
	if email == "" || !slices.Contains(s.AllowedEmails, email) {
		return dto.TokenResponse{}, apperr.New(apperr.KindForbidden, "this account is not an administrator")
	}
	return s.issue(email, MethodGoogle)
}

// Logout blacklists raw for the rest of its lifetime. Tokens that no longer verify
// are ignored since they are rejected anyway.
func (s *AuthService) Logout(ctx context.Context, raw string) error {
	if raw == "" {
		return nil
	}
	claims, err := authMw.ParseAdminToken(s.Secret, raw)
	if err != nil || claims.ExpiresAt == nil {
		return nil
	}
	if err := authMw.Revoke(ctx, s.DB, raw, s.Secret, claims.ExpiresAt.Time); err != nil {
		return apperr.Store("revoke token", err)
	}
	log.Ctx(ctx).Info().Str("email", claims.Email).Msg("admin logged out")
	return nil
}
