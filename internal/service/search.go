package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/foodgramapp/foodgram-server/internal/domain"
	"github.com/foodgramapp/foodgram-server/internal/dto"
	"github.com/foodgramapp/foodgram-server/internal/search"
	"github.com/foodgramapp/foodgram-server/internal/store"
)

// SearchService bridges the full-text index and the store. A service
// without an index is disabled: writes are no-ops and searches are empty.
type SearchService struct {
	index    *search.SearchIndex
	store    store.Store
	enricher *dto.Enricher
	logger   *slog.Logger
}

// NewSearchService creates a new search service. index may be nil.
func NewSearchService(index *search.SearchIndex, store store.Store, enricher *dto.Enricher, logger *slog.Logger) *SearchService {
	return &SearchService{
		index:    index,
		store:    store,
		enricher: enricher,
		logger:   discardIfNil(logger),
	}
}

// Enabled reports whether an index is attached.
func (s *SearchService) Enabled() bool {
	return s != nil && s.index != nil
}

// SearchRecipesRequest is a full-text query with optional filters.
type SearchRecipesRequest struct {
	Query    string
	TagSlugs []string
	AuthorID string
	Page     int
	Limit    int
}

// IndexRecipe adds or replaces a recipe in the index.
func (s *SearchService) IndexRecipe(_ context.Context, r *domain.Recipe) {
	if !s.Enabled() {
		return
	}
	if err := s.index.IndexRecipe(r); err != nil {
		s.logger.Warn("failed to index recipe", "recipe_id", r.ID, "error", err)
		return
	}
	s.logger.Debug("indexed recipe", "recipe_id", r.ID)
}

// RemoveRecipe drops a recipe from the index.
func (s *SearchService) RemoveRecipe(_ context.Context, recipeID string) {
	if !s.Enabled() {
		return
	}
	if err := s.index.RemoveRecipe(recipeID); err != nil {
		s.logger.Warn("failed to unindex recipe", "recipe_id", recipeID, "error", err)
	}
}

// Reindex rebuilds the index from the store and returns the document count.
func (s *SearchService) Reindex(ctx context.Context) (int, error) {
	if !s.Enabled() {
		return 0, nil
	}
	recipes, err := s.store.ListAllRecipes(ctx)
	if err != nil {
		return 0, fmt.Errorf("list recipes: %w", err)
	}
	docs := make([]*search.RecipeDocument, len(recipes))
	for i, r := range recipes {
		docs[i] = search.FromRecipe(r)
	}
	if err := s.index.Rebuild(docs); err != nil {
		return 0, fmt.Errorf("rebuild index: %w", err)
	}
	return len(docs), nil
}

// ReindexIfFresh rebuilds the index when it was just created empty,
// e.g. on first start or after a mapping change.
func (s *SearchService) ReindexIfFresh(ctx context.Context) error {
	if !s.Enabled() || !s.index.Fresh() {
		return nil
	}
	n, err := s.Reindex(ctx)
	if err != nil {
		return err
	}
	s.logger.Info("search index populated", "documents", n)
	return nil
}

// Search returns a page of recipes ordered by relevance.
func (s *SearchService) Search(ctx context.Context, viewer domain.Principal, req SearchRecipesRequest) (*store.PaginatedResult[*dto.Recipe], error) {
	if err := alive(ctx); err != nil {
		return nil, err
	}
	params := pageParams(req.Page, req.Limit)
	if !s.Enabled() || strings.TrimSpace(req.Query) == "" {
		return store.EmptyPage[*dto.Recipe](params), nil
	}

	res, err := s.index.Search(ctx, search.SearchParams{
		Query:    req.Query,
		TagSlugs: req.TagSlugs,
		AuthorID: req.AuthorID,
		Limit:    params.Limit,
		Offset:   params.Offset(),
	})
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	ids := res.IDs()
	found, err := s.store.GetRecipesByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load recipes: %w", err)
	}
	byID := make(map[string]*domain.Recipe, len(found))
	for _, r := range found {
		byID[r.ID] = r
	}

	// Hits for recipes deleted since indexing are skipped.
	ordered := make([]*domain.Recipe, 0, len(ids))
	for _, recipeID := range ids {
		if r, ok := byID[recipeID]; ok {
			ordered = append(ordered, r)
		}
	}

	views, err := s.enricher.Recipes(ctx, viewer, ordered)
	if err != nil {
		return nil, err
	}
	return store.NewPage(views, int(res.Total), params), nil
}

// DocumentCount reports the number of indexed recipes.
func (s *SearchService) DocumentCount() (uint64, error) {
	if !s.Enabled() {
		return 0, nil
	}
	return s.index.DocumentCount()
}
