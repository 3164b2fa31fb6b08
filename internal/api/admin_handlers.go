package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/foodgramapp/foodgram-server/internal/service"
)

func (s *Server) registerAdminRoutes() {
	register(s.api, huma.Operation{
		OperationID:   "createTag",
		Method:        http.MethodPost,
		Path:          "/api/v1/admin/tags",
		Summary:       "Create tag",
		Description:   "Creates a tag. The slug is derived from the name when omitted. Admin only.",
		Tags:          []string{"Admin"},
		Security:      []map[string][]string{{"token": {}}},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateTag)

	register(s.api, huma.Operation{
		OperationID:   "createIngredient",
		Method:        http.MethodPost,
		Path:          "/api/v1/admin/ingredients",
		Summary:       "Create ingredient",
		Description:   "Adds an ingredient to the catalogue. Admin only.",
		Tags:          []string{"Admin"},
		Security:      []map[string][]string{{"token": {}}},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateIngredient)
}

// === DTOs ===

// CreateTagRequest is the request body for creating a tag.
type CreateTagRequest struct {
	Name  string `json:"name" maxLength:"200" doc:"Display name"`
	Color string `json:"color" doc:"Hex color, #RRGGBB"`
	Slug  string `json:"slug,omitempty" maxLength:"200" doc:"URL-safe slug"`
}

// CreateTagInput wraps the create tag request for Huma.
type CreateTagInput struct {
	Body CreateTagRequest
}

// CreateIngredientRequest is the request body for creating an ingredient.
type CreateIngredientRequest struct {
	Name            string `json:"name" maxLength:"200" doc:"Ingredient name"`
	MeasurementUnit string `json:"measurement_unit" maxLength:"200" doc:"Unit, e.g. g or pcs"`
}

// CreateIngredientInput wraps the create ingredient request for Huma.
type CreateIngredientInput struct {
	Body CreateIngredientRequest
}

// === Handlers ===

func (s *Server) handleCreateTag(ctx context.Context, input *CreateTagInput) (*TagOutput, error) {
	tag, err := s.services.Tag.Create(ctx, principalFrom(ctx), service.CreateTagRequest{
		Name:  input.Body.Name,
		Color: input.Body.Color,
		Slug:  input.Body.Slug,
	})
	if err != nil {
		return nil, err
	}
	return &TagOutput{Body: tag}, nil
}

func (s *Server) handleCreateIngredient(ctx context.Context, input *CreateIngredientInput) (*IngredientOutput, error) {
	ing, err := s.services.Ingredient.Create(ctx, principalFrom(ctx), service.CreateIngredientRequest{
		Name:            input.Body.Name,
		MeasurementUnit: input.Body.MeasurementUnit,
	})
	if err != nil {
		return nil, err
	}
	return &IngredientOutput{Body: ing}, nil
}
