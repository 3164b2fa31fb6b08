package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/foodgramapp/foodgram-server/internal/domain"
	domainerrors "github.com/foodgramapp/foodgram-server/internal/errors"
	"github.com/foodgramapp/foodgram-server/internal/id"
	"github.com/foodgramapp/foodgram-server/internal/policy"
	"github.com/foodgramapp/foodgram-server/internal/store"
)

// IngredientService serves the ingredient catalogue.
type IngredientService struct {
	store  store.Store
	logger *slog.Logger
}

// NewIngredientService creates a new ingredient service.
func NewIngredientService(store store.Store, logger *slog.Logger) *IngredientService {
	return &IngredientService{store: store, logger: discardIfNil(logger)}
}

// CreateIngredientRequest describes a catalogue entry.
type CreateIngredientRequest struct {
	Name            string `json:"name" yaml:"name" validate:"required,max=150,ingredient_name"`
	MeasurementUnit string `json:"measurement_unit" yaml:"measurement_unit" validate:"required,max=150"`
}

// List returns ingredients whose name starts with prefix, ignoring case,
// ordered by name. An empty prefix lists everything.
func (s *IngredientService) List(ctx context.Context, prefix string) ([]*domain.Ingredient, error) {
	if err := alive(ctx); err != nil {
		return nil, err
	}
	items, err := s.store.ListIngredients(ctx, strings.TrimSpace(prefix))
	if err != nil {
		return nil, fmt.Errorf("list ingredients: %w", err)
	}
	return items, nil
}

// Get returns one ingredient.
func (s *IngredientService) Get(ctx context.Context, ingredientID string) (*domain.Ingredient, error) {
	if err := alive(ctx); err != nil {
		return nil, err
	}
	ing, err := s.store.GetIngredient(ctx, ingredientID)
	if err != nil {
		return nil, storeErr(err, "ingredient not found")
	}
	return ing, nil
}

// Create adds an ingredient. Admins only.
func (s *IngredientService) Create(ctx context.Context, p domain.Principal, req CreateIngredientRequest) (*domain.Ingredient, error) {
	if err := policy.CanAdminister(p); err != nil {
		return nil, err
	}
	ing, err := s.build(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := s.store.CreateIngredient(ctx, ing); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.Conflict("this ingredient already exists with this unit")
		}
		return nil, storeErr(err, "ingredient not found")
	}
	s.logger.Info("ingredient created", "ingredient_id", ing.ID, "name", ing.Name)
	return ing, nil
}

// Ensure returns the ingredient with the request's name and unit, creating
// it when absent. It is meant for operator tooling and skips the
// principal check.
func (s *IngredientService) Ensure(ctx context.Context, req CreateIngredientRequest) (*domain.Ingredient, bool, error) {
	ing, err := s.build(ctx, req)
	if err != nil {
		return nil, false, err
	}
	existing, err := s.store.GetIngredientByNameUnit(ctx, ing.Name, ing.MeasurementUnit)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, false, fmt.Errorf("get ingredient: %w", err)
	}
	if err := s.store.CreateIngredient(ctx, ing); err != nil {
		return nil, false, storeErr(err, "ingredient not found")
	}
	return ing, true, nil
}

func (s *IngredientService) build(ctx context.Context, req CreateIngredientRequest) (*domain.Ingredient, error) {
	if err := alive(ctx); err != nil {
		return nil, err
	}
	req.Name = strings.TrimSpace(req.Name)
	req.MeasurementUnit = strings.TrimSpace(req.MeasurementUnit)
	if err := validate.Validate(req); err != nil {
		return nil, err
	}
	ingredientID, err := id.Generate(id.PrefixIngredient)
	if err != nil {
		return nil, fmt.Errorf("generate ingredient ID: %w", err)
	}
	return &domain.Ingredient{ID: ingredientID, Name: req.Name, MeasurementUnit: req.MeasurementUnit}, nil
}
