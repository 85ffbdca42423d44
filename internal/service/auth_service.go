package service

import (
	"context"
	"log/slog"
	"net/mail"

	"github.com/mmynk/rondo/internal/apperrors"
	"github.com/mmynk/rondo/internal/auth"
	"github.com/mmynk/rondo/internal/models"
)

// AuthService wraps an Authenticator with session token issuance.
type AuthService struct {
	authenticator auth.Authenticator
	jwt           *auth.JWTManager
}

// NewAuthService creates a new AuthService.
func NewAuthService(authenticator auth.Authenticator, jwt *auth.JWTManager) *AuthService {
	return &AuthService{authenticator: authenticator, jwt: jwt}
}

// RegisterInput carries a new account request.
type RegisterInput struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
}

// Session is an authenticated user plus their bearer token.
type Session struct {
	UserID      string `json:"user_id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Token       string `json:"token"`
}

// Register creates an account and returns a signed session.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return nil, apperrors.Validation("invalid email address")
	}
	if in.DisplayName == "" {
		return nil, apperrors.Validation("display name is required")
	}

	user, err := s.authenticator.Register(ctx, in.Email, in.DisplayName, in.Password)
	if err != nil {
		return nil, err
	}

	slog.Info("User registered", "user_id", user.ID)
	return s.newSession(user)
}

// Login authenticates by email and password and returns a signed session.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.authenticator.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return s.newSession(user)
}

func (s *AuthService) newSession(user *models.User) (*Session, error) {
	token, err := s.jwt.Generate(user)
	if err != nil {
		slog.Error("Failed to issue token", "user_id", user.ID, "error", err)
		return nil, err
	}
	return &Session{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Token:       token,
	}, nil
}
