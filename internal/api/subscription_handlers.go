package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/foodgramapp/foodgram-server/internal/dto"
	"github.com/foodgramapp/foodgram-server/internal/service"
	"github.com/foodgramapp/foodgram-server/internal/store"
)

func (s *Server) registerSubscriptionRoutes() {
	register(s.api, huma.Operation{
		OperationID: "listSubscriptions",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/subscriptions",
		Summary:     "List subscriptions",
		Description: "Returns the authors the caller follows, each with a preview of their recipes",
		Tags:        []string{"Subscriptions"},
		Security:    []map[string][]string{{"token": {}}},
	}, s.handleListSubscriptions)

	register(s.api, huma.Operation{
		OperationID:   "subscribe",
		Method:        http.MethodPost,
		Path:          "/api/v1/users/{id}/subscribe",
		Summary:       "Subscribe",
		Description:   "Follows an author",
		Tags:          []string{"Subscriptions"},
		Security:      []map[string][]string{{"token": {}}},
		DefaultStatus: http.StatusCreated,
	}, s.handleSubscribe)

	register(s.api, huma.Operation{
		OperationID:   "unsubscribe",
		Method:        http.MethodDelete,
		Path:          "/api/v1/users/{id}/subscribe",
		Summary:       "Unsubscribe",
		Description:   "Stops following an author",
		Tags:          []string{"Subscriptions"},
		Security:      []map[string][]string{{"token": {}}},
		DefaultStatus: http.StatusNoContent,
	}, s.handleUnsubscribe)
}

// === DTOs ===

// ListSubscriptionsInput contains parameters for listing subscriptions.
type ListSubscriptionsInput struct {
	PageInput
	RecipesLimit int `query:"recipes_limit" minimum:"0" doc:"Max recipes per author, 0 for all"`
}

// SubscriptionPageOutput wraps a page of subscriptions for Huma.
type SubscriptionPageOutput struct {
	Body *store.PaginatedResult[*dto.Subscription]
}

// SubscribeInput contains parameters for subscribing.
type SubscribeInput struct {
	ID           string `path:"id" doc:"Author user ID"`
	RecipesLimit int    `query:"recipes_limit" minimum:"0" doc:"Max recipes in the response, 0 for all"`
}

// SubscriptionOutput wraps one subscription for Huma.
type SubscriptionOutput struct {
	Body *dto.Subscription
}

// UnsubscribeInput contains parameters for unsubscribing.
type UnsubscribeInput struct {
	ID string `path:"id" doc:"Author user ID"`
}

// === Handlers ===

func (s *Server) handleListSubscriptions(ctx context.Context, input *ListSubscriptionsInput) (*SubscriptionPageOutput, error) {
	page, err := s.services.Subscription.List(ctx, principalFrom(ctx), service.ListSubscriptionsRequest{
		Page:         input.Page,
		Limit:        input.Limit,
		RecipesLimit: input.RecipesLimit,
	})
	if err != nil {
		return nil, err
	}
	return &SubscriptionPageOutput{Body: page}, nil
}

func (s *Server) handleSubscribe(ctx context.Context, input *SubscribeInput) (*SubscriptionOutput, error) {
	sub, err := s.services.Subscription.Subscribe(ctx, principalFrom(ctx), input.ID, input.RecipesLimit)
	if err != nil {
		return nil, err
	}
	return &SubscriptionOutput{Body: sub}, nil
}

func (s *Server) handleUnsubscribe(ctx context.Context, input *UnsubscribeInput) (*struct{}, error) {
	if err := s.services.Subscription.Unsubscribe(ctx, principalFrom(ctx), input.ID); err != nil {
		return nil, err
	}
	return nil, nil
}
