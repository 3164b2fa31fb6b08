package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/foodgramapp/foodgram-server/internal/domain"
	"github.com/foodgramapp/foodgram-server/internal/dto"
	domainerrors "github.com/foodgramapp/foodgram-server/internal/errors"
	"github.com/foodgramapp/foodgram-server/internal/id"
	"github.com/foodgramapp/foodgram-server/internal/markup"
	"github.com/foodgramapp/foodgram-server/internal/media/images"
	"github.com/foodgramapp/foodgram-server/internal/policy"
	"github.com/foodgramapp/foodgram-server/internal/store"
)

// RecipeIndexer keeps a secondary index in step with recipe writes.
// Indexing is best effort: failures are logged, never returned.
type RecipeIndexer interface {
	IndexRecipe(ctx context.Context, r *domain.Recipe)
	RemoveRecipe(ctx context.Context, recipeID string)
}

type noopIndexer struct{}

func (noopIndexer) IndexRecipe(context.Context, *domain.Recipe) {}
func (noopIndexer) RemoveRecipe(context.Context, string)        {}

// RecipeService creates, edits, deletes and lists recipes.
type RecipeService struct {
	store    store.Store
	images   *images.Processor
	indexer  RecipeIndexer
	enricher *dto.Enricher
	logger   *slog.Logger
}

// NewRecipeService creates a new recipe service. indexer may be nil.
func NewRecipeService(
	store store.Store,
	images *images.Processor,
	indexer RecipeIndexer,
	enricher *dto.Enricher,
	logger *slog.Logger,
) *RecipeService {
	if indexer == nil {
		indexer = noopIndexer{}
	}
	return &RecipeService{
		store:    store,
		images:   images,
		indexer:  indexer,
		enricher: enricher,
		logger:   discardIfNil(logger),
	}
}

// IngredientAmount references a catalogue ingredient with a quantity.
type IngredientAmount struct {
	ID     string `json:"id" validate:"required"`
	Amount int    `json:"amount" validate:"min=1"`
}

// RecipeRequest is the payload for create and update. Image is a base64
// data URI; on update an empty image keeps the current one. Tags and
// ingredients replace the current ones wholesale.
type RecipeRequest struct {
	Name        string             `json:"name" validate:"required,max=200,recipe_name"`
	Text        string             `json:"text" validate:"required"`
	CookingTime int                `json:"cooking_time" validate:"min=1"`
	Image       string             `json:"image,omitempty" validate:"-"`
	Tags        []string           `json:"tags" validate:"required,min=1,unique,dive,required"`
	Ingredients []IngredientAmount `json:"ingredients" validate:"required,min=1,unique=ID,dive"`
}

// ListRecipesRequest filters a recipe listing. Flags filter on the
// viewer's own favorites and cart.
type ListRecipesRequest struct {
	Page             int
	Limit            int
	AuthorID         string
	TagSlugs         []string
	IsFavorited      bool
	IsInShoppingCart bool
}

// Get returns one recipe as seen by viewer.
func (s *RecipeService) Get(ctx context.Context, viewer domain.Principal, recipeID string) (*dto.Recipe, error) {
	if err := alive(ctx); err != nil {
		return nil, err
	}
	recipe, err := s.store.GetRecipe(ctx, recipeID)
	if err != nil {
		return nil, storeErr(err, "recipe not found")
	}
	return s.enricher.Recipe(ctx, viewer, recipe)
}

// List returns a page of recipes, newest first.
// An anonymous viewer asking for their favorites or cart gets an empty page.
func (s *RecipeService) List(ctx context.Context, viewer domain.Principal, req ListRecipesRequest) (*store.PaginatedResult[*dto.Recipe], error) {
	if err := alive(ctx); err != nil {
		return nil, err
	}
	params := pageParams(req.Page, req.Limit)

	if viewer.IsAnonymous() && (req.IsFavorited || req.IsInShoppingCart) {
		return store.EmptyPage[*dto.Recipe](params), nil
	}

	filter := store.RecipeFilter{
		AuthorID:   req.AuthorID,
		TagSlugs:   req.TagSlugs,
		PageParams: params,
	}
	if req.IsFavorited {
		filter.FavoritedBy = viewer.UserID
	}
	if req.IsInShoppingCart {
		filter.InCartOf = viewer.UserID
	}

	page, err := s.store.ListRecipes(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	views, err := s.enricher.Recipes(ctx, viewer, page.Items)
	if err != nil {
		return nil, err
	}
	return &store.PaginatedResult[*dto.Recipe]{
		Items: views, Total: page.Total, Page: page.Page, Limit: page.Limit, HasMore: page.HasMore,
	}, nil
}

// Create publishes a recipe authored by p.
func (s *RecipeService) Create(ctx context.Context, p domain.Principal, req RecipeRequest) (*dto.Recipe, error) {
	if err := policy.CanCreate(p); err != nil {
		return nil, err
	}
	if err := alive(ctx); err != nil {
		return nil, err
	}

	req = normalizeRecipeRequest(req)
	if err := validateRecipe(req, true); err != nil {
		return nil, err
	}
	tags, ingredients, err := s.resolveLinks(ctx, req)
	if err != nil {
		return nil, err
	}

	img, err := s.saveImage(ctx, req.Image)
	if err != nil {
		return nil, err
	}

	recipeID, err := id.Generate(id.PrefixRecipe)
	if err != nil {
		s.discardImage(img.Key)
		return nil, fmt.Errorf("generate recipe ID: %w", err)
	}

	now := time.Now()
	recipe := &domain.Recipe{
		ID:            recipeID,
		AuthorID:      p.UserID,
		Name:          req.Name,
		Image:         img.Key,
		ImageBlurHash: img.BlurHash,
		Text:          req.Text,
		CookingTime:   req.CookingTime,
		PubDate:       now,
		UpdatedAt:     now,
		Tags:          tags,
		Ingredients:   ingredients,
	}

	if err := s.store.CreateRecipe(ctx, recipe); err != nil {
		s.discardImage(img.Key)
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.Conflict("you already have a recipe with this name")
		}
		return nil, storeErr(err, "recipe not found")
	}

	s.indexer.IndexRecipe(ctx, recipe)
	s.logger.Info("recipe created", "recipe_id", recipe.ID, "user_id", p.UserID)
	return s.enricher.Recipe(ctx, p, recipe)
}

// Update rewrites a recipe. Only its author may do so; pub_date is kept.
func (s *RecipeService) Update(ctx context.Context, p domain.Principal, recipeID string, req RecipeRequest) (*dto.Recipe, error) {
	if err := policy.CanCreate(p); err != nil {
		return nil, err
	}
	if err := alive(ctx); err != nil {
		return nil, err
	}

	recipe, err := s.store.GetRecipe(ctx, recipeID)
	if err != nil {
		return nil, storeErr(err, "recipe not found")
	}
	if err := policy.CanModifyRecipe(p, recipe); err != nil {
		return nil, err
	}

	req = normalizeRecipeRequest(req)
	if err := validateRecipe(req, false); err != nil {
		return nil, err
	}
	tags, ingredients, err := s.resolveLinks(ctx, req)
	if err != nil {
		return nil, err
	}

	oldImage := ""
	if req.Image != "" {
		img, err := s.saveImage(ctx, req.Image)
		if err != nil {
			return nil, err
		}
		oldImage = recipe.Image
		recipe.Image = img.Key
		recipe.ImageBlurHash = img.BlurHash
	}

	recipe.Name = req.Name
	recipe.Text = req.Text
	recipe.CookingTime = req.CookingTime
	recipe.Tags = tags
	recipe.Ingredients = ingredients
	recipe.UpdatedAt = time.Now()

	if err := s.store.UpdateRecipe(ctx, recipe); err != nil {
		if oldImage != "" {
			s.discardImage(recipe.Image)
		}
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.Conflict("you already have a recipe with this name")
		}
		return nil, storeErr(err, "recipe not found")
	}
	if oldImage != "" {
		s.discardImage(oldImage)
	}

	s.indexer.IndexRecipe(ctx, recipe)
	s.logger.Info("recipe updated", "recipe_id", recipe.ID, "user_id", p.UserID)
	return s.enricher.Recipe(ctx, p, recipe)
}

// Delete removes a recipe. Only its author may do so.
func (s *RecipeService) Delete(ctx context.Context, p domain.Principal, recipeID string) error {
	if err := policy.CanCreate(p); err != nil {
		return err
	}
	if err := alive(ctx); err != nil {
		return err
	}

	recipe, err := s.store.GetRecipe(ctx, recipeID)
	if err != nil {
		return storeErr(err, "recipe not found")
	}
	if err := policy.CanModifyRecipe(p, recipe); err != nil {
		return err
	}

	if err := s.store.DeleteRecipe(ctx, recipe.ID); err != nil {
		return storeErr(err, "recipe not found")
	}
	s.discardImage(recipe.Image)
	s.indexer.RemoveRecipe(ctx, recipe.ID)

	s.logger.Info("recipe deleted", "recipe_id", recipe.ID, "user_id", p.UserID)
	return nil
}

func normalizeRecipeRequest(req RecipeRequest) RecipeRequest {
	req.Name = strings.TrimSpace(req.Name)
	req.Text = markup.Normalize(req.Text)
	req.Image = strings.TrimSpace(req.Image)
	return req
}

// validateRecipe runs the struct rules and, when requireImage is set,
// reports a missing image alongside the other field errors.
func validateRecipe(req RecipeRequest, requireImage bool) error {
	err := validate.Validate(req)
	if !requireImage || req.Image != "" {
		return err
	}

	details := map[string]string{}
	var de *domainerrors.Error
	if errors.As(err, &de) {
		if m, ok := de.Details.(map[string]string); ok {
			details = m
		}
	} else if err != nil {
		return err
	}
	details["image"] = "is required"
	return domainerrors.ValidationWithDetails("validation failed", details)
}

// resolveLinks loads the referenced tags and ingredients, keeping request
// order, and reports unknown ids per field.
func (s *RecipeService) resolveLinks(ctx context.Context, req RecipeRequest) ([]*domain.Tag, []domain.RecipeIngredient, error) {
	foundTags, err := s.store.GetTagsByIDs(ctx, req.Tags)
	if err != nil {
		return nil, nil, fmt.Errorf("get tags: %w", err)
	}
	tagByID := make(map[string]*domain.Tag, len(foundTags))
	for _, t := range foundTags {
		tagByID[t.ID] = t
	}

	ingredientIDs := make([]string, len(req.Ingredients))
	for i, ia := range req.Ingredients {
		ingredientIDs[i] = ia.ID
	}
	foundIngredients, err := s.store.GetIngredientsByIDs(ctx, ingredientIDs)
	if err != nil {
		return nil, nil, fmt.Errorf("get ingredients: %w", err)
	}
	ingByID := make(map[string]*domain.Ingredient, len(foundIngredients))
	for _, ing := range foundIngredients {
		ingByID[ing.ID] = ing
	}

	details := map[string]string{}

	tags := make([]*domain.Tag, 0, len(req.Tags))
	for i, tagID := range req.Tags {
		t, ok := tagByID[tagID]
		if !ok {
			details[fmt.Sprintf("tags[%d]", i)] = fmt.Sprintf("tag %q does not exist", tagID)
			continue
		}
		tags = append(tags, t)
	}

	ingredients := make([]domain.RecipeIngredient, 0, len(req.Ingredients))
	for i, ia := range req.Ingredients {
		ing, ok := ingByID[ia.ID]
		if !ok {
			details[fmt.Sprintf("ingredients[%d].id", i)] = fmt.Sprintf("ingredient %q does not exist", ia.ID)
			continue
		}
		ingredients = append(ingredients, domain.RecipeIngredient{
			IngredientID:    ing.ID,
			Name:            ing.Name,
			MeasurementUnit: ing.MeasurementUnit,
			Amount:          ia.Amount,
		})
	}

	if len(details) > 0 {
		return nil, nil, domainerrors.ValidationWithDetails("validation failed", details)
	}
	return tags, ingredients, nil
}

func (s *RecipeService) saveImage(ctx context.Context, dataURI string) (*images.Stored, error) {
	img, err := s.images.SaveDataURI(ctx, dataURI)
	if errors.Is(err, images.ErrInvalidImage) {
		return nil, domainerrors.ValidationWithDetails("invalid image",
			map[string]string{"image": err.Error()})
	}
	if err != nil {
		return nil, fmt.Errorf("save image: %w", err)
	}
	return img, nil
}

func (s *RecipeService) discardImage(key string) {
	if key == "" {
		return
	}
	if err := s.images.Storage().Delete(key); err != nil && !errors.Is(err, images.ErrNotFound) {
		s.logger.Warn("failed to delete recipe image", "key", key, "error", err)
	}
}
