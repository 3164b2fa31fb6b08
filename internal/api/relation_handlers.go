package api

import (
	"context"
	"mime"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/foodgramapp/foodgram-server/internal/dto"
	"github.com/foodgramapp/foodgram-server/internal/service"
)

func (s *Server) registerRelationRoutes() {
	register(s.api, huma.Operation{
		OperationID:   "addFavorite",
		Method:        http.MethodPost,
		Path:          "/api/v1/recipes/{id}/favorite",
		Summary:       "Add to favorites",
		Tags:          []string{"Favorites"},
		Security:      []map[string][]string{{"token": {}}},
		DefaultStatus: http.StatusCreated,
	}, s.handleAddFavorite)

	register(s.api, huma.Operation{
		OperationID:   "removeFavorite",
		Method:        http.MethodDelete,
		Path:          "/api/v1/recipes/{id}/favorite",
		Summary:       "Remove from favorites",
		Tags:          []string{"Favorites"},
		Security:      []map[string][]string{{"token": {}}},
		DefaultStatus: http.StatusNoContent,
	}, s.handleRemoveFavorite)

	register(s.api, huma.Operation{
		OperationID:   "addToCart",
		Method:        http.MethodPost,
		Path:          "/api/v1/recipes/{id}/shopping_cart",
		Summary:       "Add to shopping cart",
		Tags:          []string{"Shopping cart"},
		Security:      []map[string][]string{{"token": {}}},
		DefaultStatus: http.StatusCreated,
	}, s.handleAddToCart)

	register(s.api, huma.Operation{
		OperationID:   "removeFromCart",
		Method:        http.MethodDelete,
		Path:          "/api/v1/recipes/{id}/shopping_cart",
		Summary:       "Remove from shopping cart",
		Tags:          []string{"Shopping cart"},
		Security:      []map[string][]string{{"token": {}}},
		DefaultStatus: http.StatusNoContent,
	}, s.handleRemoveFromCart)

	register(s.api, huma.Operation{
		OperationID: "downloadShoppingCart",
		Method:      http.MethodGet,
		Path:        "/api/v1/recipes/download_shopping_cart",
		Summary:     "Download shopping list",
		Description: "Returns the summed ingredients of every recipe in the caller's cart as plain text",
		Tags:        []string{"Shopping cart"},
		Security:    []map[string][]string{{"token": {}}},
		Responses: map[string]*huma.Response{
			"200": {
				Description: "Shopping list",
				Content:     map[string]*huma.MediaType{"text/plain": {}},
			},
		},
	}, s.handleDownloadShoppingCart)
}

// === DTOs ===

// ShortRecipeOutput wraps the compact recipe projection for Huma.
type ShortRecipeOutput struct {
	Body *dto.ShortRecipe
}

// ShoppingListOutput is the plain-text shopping list download.
type ShoppingListOutput struct {
	ContentType        string `header:"Content-Type"`
	ContentDisposition string `header:"Content-Disposition"`
	CacheControl       string `header:"Cache-Control"`
	Body               []byte
}

// === Handlers ===

func (s *Server) handleAddFavorite(ctx context.Context, input *RecipeIDInput) (*ShortRecipeOutput, error) {
	short, err := s.services.Favorite.Add(ctx, principalFrom(ctx), input.ID)
	if err != nil {
		return nil, err
	}
	return &ShortRecipeOutput{Body: short}, nil
}

func (s *Server) handleRemoveFavorite(ctx context.Context, input *RecipeIDInput) (*struct{}, error) {
	if err := s.services.Favorite.Remove(ctx, principalFrom(ctx), input.ID); err != nil {
		return nil, err
	}
	return nil, nil
}

func (s *Server) handleAddToCart(ctx context.Context, input *RecipeIDInput) (*ShortRecipeOutput, error) {
	short, err := s.services.Cart.Add(ctx, principalFrom(ctx), input.ID)
	if err != nil {
		return nil, err
	}
	return &ShortRecipeOutput{Body: short}, nil
}

func (s *Server) handleRemoveFromCart(ctx context.Context, input *RecipeIDInput) (*struct{}, error) {
	if err := s.services.Cart.Remove(ctx, principalFrom(ctx), input.ID); err != nil {
		return nil, err
	}
	return nil, nil
}

func (s *Server) handleDownloadShoppingCart(ctx context.Context, _ *struct{}) (*ShoppingListOutput, error) {
	list, err := s.services.Cart.ShoppingList(ctx, principalFrom(ctx))
	if err != nil {
		return nil, err
	}
	return &ShoppingListOutput{
		ContentType:        "text/plain; charset=utf-8",
		ContentDisposition: mime.FormatMediaType("attachment", map[string]string{"filename": service.ShoppingListFilename}),
		CacheControl:       CacheNoStore,
		Body:               []byte(list),
	}, nil
}
