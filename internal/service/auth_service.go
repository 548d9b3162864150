package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/upskillhq/workshop-platform/internal/apperr"
	"github.com/upskillhq/workshop-platform/internal/model"
	"github.com/upskillhq/workshop-platform/internal/repository"
)

// AuthConfig carries token-minting settings.
type AuthConfig struct {
	JWTSecret string
	Issuer    string
	TokenTTL  time.Duration
}

// AuthService authenticates admins and mints bearer tokens.
type AuthService struct {
	admins *repository.AdminRepository
	cfg    AuthConfig
}

// NewAuthService constructs an AuthService.
func NewAuthService(admins *repository.AdminRepository, cfg AuthConfig) *AuthService {
	return &AuthService{admins: admins, cfg: cfg}
}

// Login verifies the credentials and returns a signed token. Unknown email
// and wrong password produce the same message so the endpoint cannot be
// used to enumerate accounts.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, validationError(err)
	}

	admin, err := s.admins.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.Validation("invalid email or password")
		}
		return nil, apperr.Internal("load admin", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)) != nil {
		return nil, apperr.Validation("invalid email or password")
	}

	expiresAt := time.Now().Add(s.cfg.TokenTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iss": s.cfg.Issuer,
		"sub": admin.ID,
		"eml": admin.Email,
		"iat": time.Now().Unix(),
		"exp": expiresAt.Unix(),
	})
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return nil, apperr.Internal("sign token", err)
	}
	return &model.LoginResponse{
		Token:     signed,
		ExpiresAt: expiresAt.UTC().Format(time.RFC3339),
	}, nil
}
