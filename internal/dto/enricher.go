package dto

import (
	"context"
	"fmt"

	"github.com/foodgramapp/foodgram-server/internal/domain"
)

// Store is the subset of persistence the enricher reads.
type Store interface {
	GetUsersByIDs(ctx context.Context, ids []string) ([]*domain.User, error)
	RelationSet(ctx context.Context, kind domain.Relation, userID string, recipeIDs []string) (map[string]bool, error)
	SubscribedSet(ctx context.Context, userID string, authorIDs []string) (map[string]bool, error)
	ListRecipesByAuthor(ctx context.Context, authorID string, limit int) ([]*domain.Recipe, error)
	CountRecipesByAuthor(ctx context.Context, authorID string) (int, error)
}

// MediaPrefix is the URL path recipe images are served under.
const MediaPrefix = "/media/recipes/"

// Enricher builds views for a viewer. Every method issues one query per
// related entity kind, not one per item.
type Enricher struct {
	store     Store
	publicURL string
}

// NewEnricher creates an enricher. publicURL prefixes image links; empty
// yields root-relative links.
func NewEnricher(store Store, publicURL string) *Enricher {
	return &Enricher{store: store, publicURL: publicURL}
}

// ImageURL returns the link for a stored image key.
func (e *Enricher) ImageURL(key string) string {
	if key == "" {
		return ""
	}
	return e.publicURL + MediaPrefix + key
}

// Short projects a recipe to its compact view.
func (e *Enricher) Short(r *domain.Recipe) ShortRecipe {
	return ShortRecipe{
		ID:          r.ID,
		Name:        r.Name,
		Image:       e.ImageURL(r.Image),
		CookingTime: r.CookingTime,
	}
}

// User builds the view of one account.
func (e *Enricher) User(ctx context.Context, viewer domain.Principal, u *domain.User) (*User, error) {
	views, err := e.Users(ctx, viewer, []*domain.User{u})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

// Users builds views of accounts in order.
func (e *Enricher) Users(ctx context.Context, viewer domain.Principal, users []*domain.User) ([]*User, error) {
	ids := make([]string, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}

	subscribed, err := e.store.SubscribedSet(ctx, viewer.UserID, ids)
	if err != nil {
		return nil, fmt.Errorf("fetch subscriptions: %w", err)
	}

	views := make([]*User, len(users))
	for i, u := range users {
		views[i] = userView(u, subscribed[u.ID])
	}
	return views, nil
}

func userView(u *domain.User, subscribed bool) *User {
	return &User{
		ID:           u.ID,
		Email:        u.Email,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: subscribed,
	}
}

// Recipe builds the full view of one recipe.
func (e *Enricher) Recipe(ctx context.Context, viewer domain.Principal, r *domain.Recipe) (*Recipe, error) {
	views, err := e.Recipes(ctx, viewer, []*domain.Recipe{r})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

// Recipes builds full views in order. Authors, favorites, cart entries and
// subscriptions are each fetched once for the whole slice.
func (e *Enricher) Recipes(ctx context.Context, viewer domain.Principal, recipes []*domain.Recipe) ([]*Recipe, error) {
	if len(recipes) == 0 {
		return []*Recipe{}, nil
	}

	recipeIDs := make([]string, len(recipes))
	authorSeen := make(map[string]bool)
	var authorIDs []string
	for i, r := range recipes {
		recipeIDs[i] = r.ID
		if !authorSeen[r.AuthorID] {
			authorSeen[r.AuthorID] = true
			authorIDs = append(authorIDs, r.AuthorID)
		}
	}

	authors, err := e.store.GetUsersByIDs(ctx, authorIDs)
	if err != nil {
		return nil, fmt.Errorf("fetch authors: %w", err)
	}
	authorViews, err := e.Users(ctx, viewer, authors)
	if err != nil {
		return nil, err
	}
	authorByID := make(map[string]*User, len(authorViews))
	for _, a := range authorViews {
		authorByID[a.ID] = a
	}

	favorites, err := e.store.RelationSet(ctx, domain.RelationFavorite, viewer.UserID, recipeIDs)
	if err != nil {
		return nil, fmt.Errorf("fetch favorites: %w", err)
	}
	cart, err := e.store.RelationSet(ctx, domain.RelationShoppingCart, viewer.UserID, recipeIDs)
	if err != nil {
		return nil, fmt.Errorf("fetch shopping cart: %w", err)
	}

	views := make([]*Recipe, len(recipes))
	for i, r := range recipes {
		tags := r.Tags
		if tags == nil {
			tags = []*domain.Tag{}
		}
		ingredients := r.Ingredients
		if ingredients == nil {
			ingredients = []domain.RecipeIngredient{}
		}
		views[i] = &Recipe{
			ID:               r.ID,
			Tags:             tags,
			Author:           authorByID[r.AuthorID],
			Ingredients:      ingredients,
			IsFavorited:      favorites[r.ID],
			IsInShoppingCart: cart[r.ID],
			Name:             r.Name,
			Image:            e.ImageURL(r.Image),
			ImageBlurHash:    r.ImageBlurHash,
			Text:             r.Text,
			CookingTime:      r.CookingTime,
			PubDate:          r.PubDate,
		}
	}
	return views, nil
}

// Subscription builds the view of one followed author.
func (e *Enricher) Subscription(ctx context.Context, viewer domain.Principal, author *domain.User, recipesLimit int) (*Subscription, error) {
	views, err := e.Subscriptions(ctx, viewer, []*domain.User{author}, recipesLimit)
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

// Subscriptions builds views of followed authors, each with at most
// recipesLimit of their newest recipes. recipesLimit <= 0 includes all.
func (e *Enricher) Subscriptions(ctx context.Context, viewer domain.Principal, authors []*domain.User, recipesLimit int) ([]*Subscription, error) {
	users, err := e.Users(ctx, viewer, authors)
	if err != nil {
		return nil, err
	}

	views := make([]*Subscription, len(authors))
	for i, a := range authors {
		recipes, err := e.store.ListRecipesByAuthor(ctx, a.ID, recipesLimit)
		if err != nil {
			return nil, fmt.Errorf("fetch recipes of %s: %w", a.ID, err)
		}
		count, err := e.store.CountRecipesByAuthor(ctx, a.ID)
		if err != nil {
			return nil, fmt.Errorf("count recipes of %s: %w", a.ID, err)
		}

		short := make([]ShortRecipe, len(recipes))
		for j, r := range recipes {
			short[j] = e.Short(r)
		}
		views[i] = &Subscription{User: *users[i], Recipes: short, RecipesCount: count}
	}
	return views, nil
}
