package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/foodgramapp/foodgram-server/internal/dto"
	"github.com/foodgramapp/foodgram-server/internal/service"
	"github.com/foodgramapp/foodgram-server/internal/store"
)

func (s *Server) registerRecipeRoutes() {
	register(s.api, huma.Operation{
		OperationID: "listRecipes",
		Method:      http.MethodGet,
		Path:        "/api/v1/recipes",
		Summary:     "List recipes",
		Description: "Returns a page of recipes, newest first. is_favorited and is_in_shopping_cart filter on the caller's own lists.",
		Tags:        []string{"Recipes"},
	}, s.handleListRecipes)

	register(s.api, huma.Operation{
		OperationID:   "createRecipe",
		Method:        http.MethodPost,
		Path:          "/api/v1/recipes",
		Summary:       "Create recipe",
		Description:   "Publishes a recipe authored by the caller",
		Tags:          []string{"Recipes"},
		Security:      []map[string][]string{{"token": {}}},
		DefaultStatus: http.StatusCreated,
		MaxBodyBytes:  MaxRecipeBodySize,
	}, s.handleCreateRecipe)

	register(s.api, huma.Operation{
		OperationID: "getRecipe",
		Method:      http.MethodGet,
		Path:        "/api/v1/recipes/{id}",
		Summary:     "Get recipe",
		Description: "Returns a recipe by ID",
		Tags:        []string{"Recipes"},
	}, s.handleGetRecipe)

	register(s.api, huma.Operation{
		OperationID:  "updateRecipe",
		Method:       http.MethodPatch,
		Path:         "/api/v1/recipes/{id}",
		Summary:      "Update recipe",
		Description:  "Rewrites a recipe. Tags and ingredients are replaced; an omitted image keeps the current one. Author only.",
		Tags:         []string{"Recipes"},
		Security:     []map[string][]string{{"token": {}}},
		MaxBodyBytes: MaxRecipeBodySize,
	}, s.handleUpdateRecipe)

	register(s.api, huma.Operation{
		OperationID:   "deleteRecipe",
		Method:        http.MethodDelete,
		Path:          "/api/v1/recipes/{id}",
		Summary:       "Delete recipe",
		Description:   "Deletes a recipe. Author or admin only.",
		Tags:          []string{"Recipes"},
		Security:      []map[string][]string{{"token": {}}},
		DefaultStatus: http.StatusNoContent,
	}, s.handleDeleteRecipe)
}

// === DTOs ===

// ListRecipesInput contains the recipe list filters.
type ListRecipesInput struct {
	PageInput
	Author           string   `query:"author" doc:"Author user ID"`
	Tags             []string `query:"tags,explode" doc:"Tag slugs; a recipe matches if it has any of them"`
	IsFavorited      bool     `query:"is_favorited" doc:"Only the caller's favorites"`
	IsInShoppingCart bool     `query:"is_in_shopping_cart" doc:"Only recipes in the caller's cart"`
}

// IngredientAmountRequest references an ingredient with a quantity.
type IngredientAmountRequest struct {
	ID     string `json:"id" doc:"Ingredient ID"`
	Amount int    `json:"amount" doc:"Quantity in the ingredient's unit, at least 1"`
}

// RecipeRequest is the request body for create and update.
type RecipeRequest struct {
	Name        string                    `json:"name" maxLength:"200" doc:"Recipe name, unique per author"`
	Text        string                    `json:"text" doc:"Description; HTML is converted to Markdown"`
	CookingTime int                       `json:"cooking_time" doc:"Minutes, at least 1"`
	Image       string                    `json:"image,omitempty" doc:"Base64 data URI; required on create"`
	Tags        []string                  `json:"tags" doc:"Tag IDs"`
	Ingredients []IngredientAmountRequest `json:"ingredients" doc:"Ingredients with amounts"`
}

// CreateRecipeInput wraps the create request for Huma.
type CreateRecipeInput struct {
	Body RecipeRequest
}

// UpdateRecipeInput wraps the update request for Huma.
type UpdateRecipeInput struct {
	ID   string `path:"id" doc:"Recipe ID"`
	Body RecipeRequest
}

// RecipeIDInput identifies a recipe in the path.
type RecipeIDInput struct {
	ID string `path:"id" doc:"Recipe ID"`
}

// RecipeOutput wraps a recipe view for Huma.
type RecipeOutput struct {
	Body *dto.Recipe
}

// RecipePageOutput wraps a page of recipes for Huma.
type RecipePageOutput struct {
	Body *store.PaginatedResult[*dto.Recipe]
}

// === Handlers ===

func (s *Server) handleListRecipes(ctx context.Context, input *ListRecipesInput) (*RecipePageOutput, error) {
	page, err := s.services.Recipe.List(ctx, principalFrom(ctx), service.ListRecipesRequest{
		Page:             input.Page,
		Limit:            input.Limit,
		AuthorID:         input.Author,
		TagSlugs:         input.Tags,
		IsFavorited:      input.IsFavorited,
		IsInShoppingCart: input.IsInShoppingCart,
	})
	if err != nil {
		return nil, err
	}
	return &RecipePageOutput{Body: page}, nil
}

func (s *Server) handleGetRecipe(ctx context.Context, input *RecipeIDInput) (*RecipeOutput, error) {
	recipe, err := s.services.Recipe.Get(ctx, principalFrom(ctx), input.ID)
	if err != nil {
		return nil, err
	}
	return &RecipeOutput{Body: recipe}, nil
}

func (s *Server) handleCreateRecipe(ctx context.Context, input *CreateRecipeInput) (*RecipeOutput, error) {
	recipe, err := s.services.Recipe.Create(ctx, principalFrom(ctx), toRecipeRequest(input.Body))
	if err != nil {
		return nil, err
	}
	return &RecipeOutput{Body: recipe}, nil
}

func (s *Server) handleUpdateRecipe(ctx context.Context, input *UpdateRecipeInput) (*RecipeOutput, error) {
	recipe, err := s.services.Recipe.Update(ctx, principalFrom(ctx), input.ID, toRecipeRequest(input.Body))
	if err != nil {
		return nil, err
	}
	return &RecipeOutput{Body: recipe}, nil
}

func (s *Server) handleDeleteRecipe(ctx context.Context, input *RecipeIDInput) (*struct{}, error) {
	if err := s.services.Recipe.Delete(ctx, principalFrom(ctx), input.ID); err != nil {
		return nil, err
	}
	return nil, nil
}

// === Helpers ===

func toRecipeRequest(body RecipeRequest) service.RecipeRequest {
	ingredients := make([]service.IngredientAmount, len(body.Ingredients))
	for i, ia := range body.Ingredients {
		ingredients[i] = service.IngredientAmount{ID: ia.ID, Amount: ia.Amount}
	}
	return service.RecipeRequest{
		Name:        body.Name,
		Text:        body.Text,
		CookingTime: body.CookingTime,
		Image:       body.Image,
		Tags:        body.Tags,
		Ingredients: ingredients,
	}
}
