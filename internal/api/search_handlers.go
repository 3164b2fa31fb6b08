package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/foodgramapp/foodgram-server/internal/service"
)

func (s *Server) registerSearchRoutes() {
	register(s.api, huma.Operation{
		OperationID: "searchRecipes",
		Method:      http.MethodGet,
		Path:        "/api/v1/recipes/search",
		Summary:     "Search recipes",
		Description: "Full-text search over recipe names, descriptions and ingredients. Results are ordered by relevance.",
		Tags:        []string{"Search"},
	}, s.handleSearchRecipes)
}

// SearchRecipesInput contains the search query and filters.
type SearchRecipesInput struct {
	PageInput
	Query  string   `query:"q" maxLength:"200" doc:"Search query"`
	Tags   []string `query:"tags,explode" doc:"Tag slugs to filter by"`
	Author string   `query:"author" doc:"Author user ID"`
}

func (s *Server) handleSearchRecipes(ctx context.Context, input *SearchRecipesInput) (*RecipePageOutput, error) {
	page, err := s.services.Search.Search(ctx, principalFrom(ctx), service.SearchRecipesRequest{
		Query:    input.Query,
		TagSlugs: input.Tags,
		AuthorID: input.Author,
		Page:     input.Page,
		Limit:    input.Limit,
	})
	if err != nil {
		return nil, err
	}
	return &RecipePageOutput{Body: page}, nil
}
