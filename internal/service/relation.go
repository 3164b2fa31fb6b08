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

// relationToggle adds and removes one kind of (user, recipe) membership
// for the acting user. Favorites and the shopping cart share it.
type relationToggle struct {
	store    store.Store
	enricher *dto.Enricher
	kind     domain.Relation
	logger   *slog.Logger
}

// add records the membership and returns the recipe's short view.
// Missing recipe is NotFound; an existing membership is Conflict.
func (t *relationToggle) add(ctx context.Context, p domain.Principal, recipeID string) (*dto.ShortRecipe, error) {
	if err := policy.CanCreate(p); err != nil {
		return nil, err
	}
	if err := alive(ctx); err != nil {
		return nil, err
	}

	recipe, err := t.store.GetRecipe(ctx, recipeID)
	if err != nil {
		return nil, storeErr(err, "recipe not found")
	}

	exists, err := t.store.HasRelation(ctx, t.kind, p.UserID, recipe.ID)
	if err != nil {
		return nil, fmt.Errorf("check %s: %w", t.kind, err)
	}
	if exists {
		return nil, domainerrors.Conflict("recipe already added")
	}

	// A concurrent add can still win the race; the UNIQUE constraint decides.
	if err := t.store.AddRelation(ctx, t.kind, p.UserID, recipe.ID); err != nil {
		switch {
		case errors.Is(err, store.ErrAlreadyExists):
			return nil, domainerrors.Conflict("recipe already added")
		case errors.Is(err, store.ErrInvalidReference):
			return nil, domainerrors.NotFound("recipe not found")
		}
		return nil, fmt.Errorf("add %s: %w", t.kind, err)
	}

	t.logger.Info("relation added", "kind", t.kind, "user_id", p.UserID, "recipe_id", recipe.ID)
	short := t.enricher.Short(recipe)
	return &short, nil
}

// remove deletes the membership.
// Missing recipe is NotFound; a missing membership is Conflict.
func (t *relationToggle) remove(ctx context.Context, p domain.Principal, recipeID string) error {
	if err := policy.CanCreate(p); err != nil {
		return err
	}
	if err := alive(ctx); err != nil {
		return err
	}

	recipe, err := t.store.GetRecipe(ctx, recipeID)
	if err != nil {
		return storeErr(err, "recipe not found")
	}

	if err := t.store.RemoveRelation(ctx, t.kind, p.UserID, recipe.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.Conflict("recipe was not added")
		}
		return fmt.Errorf("remove %s: %w", t.kind, err)
	}

	t.logger.Info("relation removed", "kind", t.kind, "user_id", p.UserID, "recipe_id", recipe.ID)
	return nil
}

// FavoriteService manages the caller's favorite recipes.
type FavoriteService struct {
	toggle relationToggle
}

// NewFavoriteService creates a new favorites service.
func NewFavoriteService(store store.Store, enricher *dto.Enricher, logger *slog.Logger) *FavoriteService {
	return &FavoriteService{toggle: relationToggle{
		store: store, enricher: enricher, kind: domain.RelationFavorite, logger: discardIfNil(logger),
	}}
}

// Add marks a recipe as a favorite.
func (s *FavoriteService) Add(ctx context.Context, p domain.Principal, recipeID string) (*dto.ShortRecipe, error) {
	return s.toggle.add(ctx, p, recipeID)
}

// Remove unmarks a favorite.
func (s *FavoriteService) Remove(ctx context.Context, p domain.Principal, recipeID string) error {
	return s.toggle.remove(ctx, p, recipeID)
}
