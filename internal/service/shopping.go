package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/foodgramapp/foodgram-server/internal/domain"
	"github.com/foodgramapp/foodgram-server/internal/dto"
	"github.com/foodgramapp/foodgram-server/internal/policy"
	"github.com/foodgramapp/foodgram-server/internal/shoppinglist"
	"github.com/foodgramapp/foodgram-server/internal/store"
)

// ShoppingListFilename is offered to clients downloading the list.
const ShoppingListFilename = "shopping-list.txt"

// CartService manages the caller's shopping cart and renders the
// shopping list from it.
type CartService struct {
	toggle relationToggle
}

// NewCartService creates a new shopping cart service.
func NewCartService(store store.Store, enricher *dto.Enricher, logger *slog.Logger) *CartService {
	return &CartService{toggle: relationToggle{
		store: store, enricher: enricher, kind: domain.RelationShoppingCart, logger: discardIfNil(logger),
	}}
}

// Add puts a recipe in the cart.
func (s *CartService) Add(ctx context.Context, p domain.Principal, recipeID string) (*dto.ShortRecipe, error) {
	return s.toggle.add(ctx, p, recipeID)
}

// Remove takes a recipe out of the cart.
func (s *CartService) Remove(ctx context.Context, p domain.Principal, recipeID string) error {
	return s.toggle.remove(ctx, p, recipeID)
}

// ShoppingList renders the summed ingredients of every recipe in the cart.
// An empty cart yields the empty string.
func (s *CartService) ShoppingList(ctx context.Context, p domain.Principal) (string, error) {
	if err := policy.CanCreate(p); err != nil {
		return "", err
	}
	if err := alive(ctx); err != nil {
		return "", err
	}
	items, err := s.toggle.store.ShoppingItems(ctx, p.UserID)
	if err != nil {
		return "", fmt.Errorf("load shopping items: %w", err)
	}
	return shoppinglist.Build(items), nil
}
