package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/foodgramapp/foodgram-server/internal/domain"
	"github.com/foodgramapp/foodgram-server/internal/dto"
	domainerrors "github.com/foodgramapp/foodgram-server/internal/errors"
	"github.com/foodgramapp/foodgram-server/internal/policy"
	"github.com/foodgramapp/foodgram-server/internal/store"
)

// SubscriptionService manages which authors the caller follows.
type SubscriptionService struct {
	store    store.Store
	enricher *dto.Enricher
	logger   *slog.Logger
}

// NewSubscriptionService creates a new subscription service.
func NewSubscriptionService(store store.Store, enricher *dto.Enricher, logger *slog.Logger) *SubscriptionService {
	return &SubscriptionService{store: store, enricher: enricher, logger: discardIfNil(logger)}
}

// ListSubscriptionsRequest pages through followed authors.
// RecipesLimit caps each author's embedded recipes; <= 0 includes all.
type ListSubscriptionsRequest struct {
	Page         int
	Limit        int
	RecipesLimit int
}

// Subscribe follows an author. Following yourself is a validation error
// regardless of any other state; a repeat subscription is Conflict.
func (s *SubscriptionService) Subscribe(ctx context.Context, p domain.Principal, authorID string, recipesLimit int) (*dto.Subscription, error) {
	if err := policy.CanCreate(p); err != nil {
		return nil, err
	}
	if p.Is(authorID) {
		return nil, domainerrors.Validation("cannot subscribe to yourself")
	}
	if err := alive(ctx); err != nil {
		return nil, err
	}

	author, err := s.store.GetUser(ctx, authorID)
	if err != nil {
		return nil, storeErr(err, "user not found")
	}

	subscribed, err := s.store.IsSubscribed(ctx, p.UserID, author.ID)
	if err != nil {
		return nil, fmt.Errorf("check subscription: %w", err)
	}
	if subscribed {
		return nil, domainerrors.Conflict("already subscribed")
	}

	if err := s.store.Subscribe(ctx, p.UserID, author.ID); err != nil {
		switch {
		case errors.Is(err, store.ErrAlreadyExists):
			return nil, domainerrors.Conflict("already subscribed")
		case errors.Is(err, store.ErrInvalidReference):
			return nil, domainerrors.NotFound("user not found")
		}
		return nil, fmt.Errorf("subscribe: %w", err)
	}

	s.logger.Info("subscribed", "user_id", p.UserID, "author_id", author.ID)
	return s.enricher.Subscription(ctx, p, author, recipesLimit)
}

// Unsubscribe stops following an author. Not following is Conflict.
func (s *SubscriptionService) Unsubscribe(ctx context.Context, p domain.Principal, authorID string) error {
	if err := policy.CanCreate(p); err != nil {
		return err
	}
	if err := alive(ctx); err != nil {
		return err
	}

	author, err := s.store.GetUser(ctx, authorID)
	if err != nil {
		return storeErr(err, "user not found")
	}

	if err := s.store.Unsubscribe(ctx, p.UserID, author.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.Conflict("not subscribed")
		}
		return fmt.Errorf("unsubscribe: %w", err)
	}

	s.logger.Info("unsubscribed", "user_id", p.UserID, "author_id", author.ID)
	return nil
}

// List returns the authors the caller follows, in subscription order.
func (s *SubscriptionService) List(ctx context.Context, p domain.Principal, req ListSubscriptionsRequest) (*store.PaginatedResult[*dto.Subscription], error) {
	if err := policy.CanCreate(p); err != nil {
		return nil, err
	}
	if err := alive(ctx); err != nil {
		return nil, err
	}

	page, err := s.store.ListSubscriptions(ctx, p.UserID, pageParams(req.Page, req.Limit))
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	views, err := s.enricher.Subscriptions(ctx, p, page.Items, req.RecipesLimit)
	if err != nil {
		return nil, err
	}
	return &store.PaginatedResult[*dto.Subscription]{
		Items: views, Total: page.Total, Page: page.Page, Limit: page.Limit, HasMore: page.HasMore,
	}, nil
}
