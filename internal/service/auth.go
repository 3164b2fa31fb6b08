package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/foodgramapp/foodgram-server/internal/auth"
	"github.com/foodgramapp/foodgram-server/internal/domain"
	domainerrors "github.com/foodgramapp/foodgram-server/internal/errors"
	"github.com/foodgramapp/foodgram-server/internal/id"
	"github.com/foodgramapp/foodgram-server/internal/store"
)

const badCredentials = "unable to log in with provided credentials"

// AuthService issues and revokes access tokens.
// Each token is bound to a session row; logging out deletes the row,
// which invalidates the token before it expires.
type AuthService struct {
	store  store.Store
	tokens *auth.TokenService
	hasher *auth.PasswordHasher
	logger *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(store store.Store, tokens *auth.TokenService, logger *slog.Logger) *AuthService {
	return &AuthService{
		store:  store,
		tokens: tokens,
		hasher: auth.NewPasswordHasher(auth.DefaultArgon2Params),
		logger: discardIfNil(logger),
	}
}

// LoginRequest contains user credentials.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// TokenResponse carries a freshly issued token.
type TokenResponse struct {
	AuthToken string `json:"auth_token"`
}

// Login verifies credentials and opens a session.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	if err := alive(ctx); err != nil {
		return nil, err
	}
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.store.GetUserByEmail(ctx, strings.TrimSpace(req.Email))
	if errors.Is(err, store.ErrNotFound) {
		return nil, domainerrors.InvalidCredentials(badCredentials)
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	ok, err := s.hasher.Verify(user.PasswordHash, req.Password)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		s.logger.Info("login failed", "user_id", user.ID)
		return nil, domainerrors.InvalidCredentials(badCredentials)
	}

	if s.hasher.NeedsRehash(user.PasswordHash) {
		if hash, err := s.hasher.Hash(req.Password); err == nil {
			if err := s.store.UpdateUserPassword(ctx, user.ID, hash); err != nil {
				s.logger.Warn("password rehash failed", "user_id", user.ID, "error", err)
			}
		}
	}

	sessionID, err := id.Generate(id.PrefixSession)
	if err != nil {
		return nil, fmt.Errorf("generate session ID: %w", err)
	}
	now := time.Now()
	session := &domain.Session{
		ID:        sessionID,
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.tokens.Lifetime()),
	}
	if err := s.store.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	s.logger.Info("user logged in", "user_id", user.ID, "session_id", session.ID)
	return &TokenResponse{AuthToken: s.tokens.Issue(user, session)}, nil
}

// Authenticate resolves a bearer token to its user and session.
// Any failure is Unauthorized.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.User, *domain.Session, error) {
	if err := alive(ctx); err != nil {
		return nil, nil, err
	}

	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, nil, domainerrors.Unauthorized("invalid token").WithCause(err)
	}

	session, err := s.store.GetSession(ctx, claims.SessionID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil, domainerrors.Unauthorized("session has ended")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("get session: %w", err)
	}
	if session.UserID != claims.UserID || session.IsExpired() {
		return nil, nil, domainerrors.Unauthorized("session has ended")
	}

	user, err := s.store.GetUser(ctx, claims.UserID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil, domainerrors.Unauthorized("user no longer exists")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("get user: %w", err)
	}

	return user, session, nil
}

// Logout ends the session behind the current token.
func (s *AuthService) Logout(ctx context.Context, p domain.Principal, sessionID string) error {
	if err := alive(ctx); err != nil {
		return err
	}
	if p.IsAnonymous() || sessionID == "" {
		return domainerrors.Unauthorized("authentication required")
	}
	if err := s.store.DeleteSession(ctx, sessionID); err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("delete session: %w", err)
	}
	s.logger.Info("user logged out", "user_id", p.UserID, "session_id", sessionID)
	return nil
}

// PruneSessions deletes expired sessions and reports how many were removed.
func (s *AuthService) PruneSessions(ctx context.Context) (int, error) {
	n, err := s.store.DeleteExpiredSessions(ctx)
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	if n > 0 {
		s.logger.Info("pruned expired sessions", "count", n)
	}
	return n, nil
}
