package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/foodgramapp/foodgram-server/internal/auth"
	"github.com/foodgramapp/foodgram-server/internal/domain"
	"github.com/foodgramapp/foodgram-server/internal/dto"
	domainerrors "github.com/foodgramapp/foodgram-server/internal/errors"
	"github.com/foodgramapp/foodgram-server/internal/id"
	"github.com/foodgramapp/foodgram-server/internal/policy"
	"github.com/foodgramapp/foodgram-server/internal/store"
)

// UserService manages accounts.
type UserService struct {
	store    store.Store
	enricher *dto.Enricher
	logger   *slog.Logger
}

// NewUserService creates a new user service.
func NewUserService(store store.Store, enricher *dto.Enricher, logger *slog.Logger) *UserService {
	return &UserService{store: store, enricher: enricher, logger: discardIfNil(logger)}
}

// RegisterRequest contains new account data.
type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email,max=254"`
	Username  string `json:"username" validate:"required,max=150,username"`
	FirstName string `json:"first_name" validate:"required,max=150,person_name"`
	LastName  string `json:"last_name" validate:"required,max=150,person_name"`
	Password  string `json:"password" validate:"required,min=8,max=1024"`
}

// SetPasswordRequest changes the caller's password.
type SetPasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=1024"`
}

// ListUsersRequest pages through accounts.
type ListUsersRequest struct {
	Search string
	Page   int
	Limit  int
}

// Register creates a member account. Taken emails and usernames are
// reported per field.
func (s *UserService) Register(ctx context.Context, req RegisterRequest) (*dto.User, error) {
	if err := alive(ctx); err != nil {
		return nil, err
	}
	req.Email = strings.TrimSpace(req.Email)
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.createUser(ctx, req, domain.RoleMember)
	if err != nil {
		return nil, err
	}
	return s.enricher.User(ctx, domain.Anonymous, user)
}

// CreateAdmin creates an administrator. It is meant for operator tooling
// and skips the principal check.
func (s *UserService) CreateAdmin(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	if err := alive(ctx); err != nil {
		return nil, err
	}
	req.Email = strings.TrimSpace(req.Email)
	if err := validate.Validate(req); err != nil {
		return nil, err
	}
	return s.createUser(ctx, req, domain.RoleAdmin)
}

func (s *UserService) createUser(ctx context.Context, req RegisterRequest, role domain.Role) (*domain.User, error) {
	taken := map[string]string{}
	if _, err := s.store.GetUserByEmail(ctx, req.Email); err == nil {
		taken["email"] = "a user with this email already exists"
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if _, err := s.store.GetUserByUsername(ctx, req.Username); err == nil {
		taken["username"] = "a user with this username already exists"
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if len(taken) > 0 {
		return nil, domainerrors.ValidationWithDetails("validation failed", taken)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	userID, err := id.Generate(id.PrefixUser)
	if err != nil {
		return nil, fmt.Errorf("generate user ID: %w", err)
	}

	user := &domain.User{
		Entity:       domain.Entity{ID: userID},
		Email:        req.Email,
		Username:     req.Username,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: hash,
		Role:         role,
	}
	user.InitTimestamps()

	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, storeErr(err, "user not found")
	}

	s.logger.Info("user registered", "user_id", user.ID, "role", user.Role)
	return user, nil
}

// Get returns one account as seen by viewer.
func (s *UserService) Get(ctx context.Context, viewer domain.Principal, userID string) (*dto.User, error) {
	if err := alive(ctx); err != nil {
		return nil, err
	}
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, storeErr(err, "user not found")
	}
	return s.enricher.User(ctx, viewer, user)
}

// Me returns the caller's own account.
func (s *UserService) Me(ctx context.Context, viewer domain.Principal) (*dto.User, error) {
	if err := policy.CanCreate(viewer); err != nil {
		return nil, err
	}
	return s.Get(ctx, viewer, viewer.UserID)
}

// List pages through accounts in registration order.
func (s *UserService) List(ctx context.Context, viewer domain.Principal, req ListUsersRequest) (*store.PaginatedResult[*dto.User], error) {
	if err := alive(ctx); err != nil {
		return nil, err
	}
	page, err := s.store.ListUsers(ctx, store.UserFilter{
		Search:     strings.TrimSpace(req.Search),
		PageParams: pageParams(req.Page, req.Limit),
	})
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	views, err := s.enricher.Users(ctx, viewer, page.Items)
	if err != nil {
		return nil, err
	}
	return &store.PaginatedResult[*dto.User]{
		Items: views, Total: page.Total, Page: page.Page, Limit: page.Limit, HasMore: page.HasMore,
	}, nil
}

// SetPassword replaces the caller's password after checking the current one.
func (s *UserService) SetPassword(ctx context.Context, viewer domain.Principal, req SetPasswordRequest) error {
	if err := policy.CanCreate(viewer); err != nil {
		return err
	}
	if err := alive(ctx); err != nil {
		return err
	}
	if err := validate.Validate(req); err != nil {
		return err
	}

	user, err := s.store.GetUser(ctx, viewer.UserID)
	if err != nil {
		return storeErr(err, "user not found")
	}
	ok, err := auth.VerifyPassword(user.PasswordHash, req.CurrentPassword)
	if err != nil {
		return fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return domainerrors.ValidationWithDetails("current password is incorrect",
			map[string]string{"current_password": "is incorrect"})
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.store.UpdateUserPassword(ctx, user.ID, hash); err != nil {
		return storeErr(err, "user not found")
	}

	s.logger.Info("password changed", "user_id", user.ID)
	return nil
}

// Count returns the number of registered users. Used by the health check.
func (s *UserService) Count(ctx context.Context) (int, error) {
	return s.store.CountUsers(ctx)
}
