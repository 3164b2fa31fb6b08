package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/foodgramapp/foodgram-server/internal/domain"
)

func (s *Server) registerIngredientRoutes() {
	register(s.api, huma.Operation{
		OperationID: "listIngredients",
		Method:      http.MethodGet,
		Path:        "/api/v1/ingredients",
		Summary:     "List ingredients",
		Description: "Returns ingredients ordered by name, optionally filtered by a case-insensitive name prefix",
		Tags:        []string{"Ingredients"},
	}, s.handleListIngredients)

	register(s.api, huma.Operation{
		OperationID: "getIngredient",
		Method:      http.MethodGet,
		Path:        "/api/v1/ingredients/{id}",
		Summary:     "Get ingredient",
		Description: "Returns an ingredient by ID",
		Tags:        []string{"Ingredients"},
	}, s.handleGetIngredient)
}

// === DTOs ===

// ListIngredientsInput contains parameters for listing ingredients.
type ListIngredientsInput struct {
	Name string `query:"name" doc:"Name prefix"`
}

// IngredientListOutput wraps the ingredient list for Huma.
type IngredientListOutput struct {
	Body []*domain.Ingredient
}

// GetIngredientInput contains parameters for getting an ingredient.
type GetIngredientInput struct {
	ID string `path:"id" doc:"Ingredient ID"`
}

// IngredientOutput wraps an ingredient for Huma.
type IngredientOutput struct {
	Body *domain.Ingredient
}

// === Handlers ===

func (s *Server) handleListIngredients(ctx context.Context, input *ListIngredientsInput) (*IngredientListOutput, error) {
	items, err := s.services.Ingredient.List(ctx, input.Name)
	if err != nil {
		return nil, err
	}
	return &IngredientListOutput{Body: items}, nil
}

func (s *Server) handleGetIngredient(ctx context.Context, input *GetIngredientInput) (*IngredientOutput, error) {
	ing, err := s.services.Ingredient.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &IngredientOutput{Body: ing}, nil
}
