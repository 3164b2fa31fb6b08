package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/foodgramapp/foodgram-server/internal/dto"
	"github.com/foodgramapp/foodgram-server/internal/service"
	"github.com/foodgramapp/foodgram-server/internal/store"
)

func (s *Server) registerUserRoutes() {
	register(s.api, huma.Operation{
		OperationID:   "registerUser",
		Method:        http.MethodPost,
		Path:          "/api/v1/users",
		Summary:       "Register",
		Description:   "Creates a new account",
		Tags:          []string{"Users"},
		DefaultStatus: http.StatusCreated,
	}, s.handleRegister)

	register(s.api, huma.Operation{
		OperationID: "listUsers",
		Method:      http.MethodGet,
		Path:        "/api/v1/users",
		Summary:     "List users",
		Description: "Returns a page of accounts in registration order",
		Tags:        []string{"Users"},
	}, s.handleListUsers)

	register(s.api, huma.Operation{
		OperationID: "getCurrentUser",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/me",
		Summary:     "Current user",
		Description: "Returns the authenticated account",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"token": {}}},
	}, s.handleMe)

	register(s.api, huma.Operation{
		OperationID:   "setPassword",
		Method:        http.MethodPost,
		Path:          "/api/v1/users/set_password",
		Summary:       "Change password",
		Description:   "Replaces the caller's password after checking the current one",
		Tags:          []string{"Users"},
		Security:      []map[string][]string{{"token": {}}},
		DefaultStatus: http.StatusNoContent,
	}, s.handleSetPassword)

	register(s.api, huma.Operation{
		OperationID: "getUser",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/{id}",
		Summary:     "Get user",
		Description: "Returns one account",
		Tags:        []string{"Users"},
	}, s.handleGetUser)
}

// === DTOs ===

// RegisterRequest is the request body for registration.
type RegisterRequest struct {
	Email     string `json:"email" maxLength:"254" doc:"Login email"`
	Username  string `json:"username" maxLength:"150" doc:"Public handle"`
	FirstName string `json:"first_name" maxLength:"150" doc:"First name"`
	LastName  string `json:"last_name" maxLength:"150" doc:"Last name"`
	Password  string `json:"password" maxLength:"1024" doc:"Password, at least 8 characters"`
}

// RegisterInput wraps the registration request for Huma.
type RegisterInput struct {
	Body RegisterRequest
}

// PageInput holds the shared pagination query parameters.
type PageInput struct {
	Page  int `query:"page" minimum:"1" default:"1" doc:"1-based page number"`
	Limit int `query:"limit" minimum:"1" maximum:"100" default:"6" doc:"Page size"`
}

// ListUsersInput contains parameters for listing users.
type ListUsersInput struct {
	PageInput
	Search string `query:"search" doc:"Username substring"`
}

// UserOutput wraps a user view for Huma.
type UserOutput struct {
	Body *dto.User
}

// UserPageOutput wraps a page of users for Huma.
type UserPageOutput struct {
	Body *store.PaginatedResult[*dto.User]
}

// GetUserInput contains parameters for getting a user.
type GetUserInput struct {
	ID string `path:"id" doc:"User ID"`
}

// SetPasswordRequest is the request body for changing a password.
type SetPasswordRequest struct {
	CurrentPassword string `json:"current_password" maxLength:"1024" doc:"Current password"`
	NewPassword     string `json:"new_password" maxLength:"1024" doc:"New password, at least 8 characters"`
}

// SetPasswordInput wraps the password change for Huma.
type SetPasswordInput struct {
	Body SetPasswordRequest
}

// === Handlers ===

func (s *Server) handleRegister(ctx context.Context, input *RegisterInput) (*UserOutput, error) {
	user, err := s.services.User.Register(ctx, service.RegisterRequest{
		Email:     input.Body.Email,
		Username:  input.Body.Username,
		FirstName: input.Body.FirstName,
		LastName:  input.Body.LastName,
		Password:  input.Body.Password,
	})
	if err != nil {
		return nil, err
	}
	return &UserOutput{Body: user}, nil
}

func (s *Server) handleListUsers(ctx context.Context, input *ListUsersInput) (*UserPageOutput, error) {
	page, err := s.services.User.List(ctx, principalFrom(ctx), service.ListUsersRequest{
		Search: input.Search,
		Page:   input.Page,
		Limit:  input.Limit,
	})
	if err != nil {
		return nil, err
	}
	return &UserPageOutput{Body: page}, nil
}

func (s *Server) handleMe(ctx context.Context, _ *struct{}) (*UserOutput, error) {
	user, err := s.services.User.Me(ctx, principalFrom(ctx))
	if err != nil {
		return nil, err
	}
	return &UserOutput{Body: user}, nil
}

func (s *Server) handleGetUser(ctx context.Context, input *GetUserInput) (*UserOutput, error) {
	user, err := s.services.User.Get(ctx, principalFrom(ctx), input.ID)
	if err != nil {
		return nil, err
	}
	return &UserOutput{Body: user}, nil
}

func (s *Server) handleSetPassword(ctx context.Context, input *SetPasswordInput) (*struct{}, error) {
	err := s.services.User.SetPassword(ctx, principalFrom(ctx), service.SetPasswordRequest{
		CurrentPassword: input.Body.CurrentPassword,
		NewPassword:     input.Body.NewPassword,
	})
	if err != nil {
		return nil, err
	}
	return nil, nil
}
