// Package store defines the persistence interface for the recipe service.
package store

import (
	"context"

	"github.com/foodgramapp/foodgram-server/internal/domain"
	"github.com/foodgramapp/foodgram-server/internal/shoppinglist"
)

// Store defines the interface for all persistence operations.
//
// Lookups return ErrNotFound for missing rows; inserts return
// ErrAlreadyExists when a uniqueness constraint fails.
type Store interface {
	// Lifecycle
	Close() error

	// Users
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	GetUsersByIDs(ctx context.Context, ids []string) ([]*domain.User, error)
	UpdateUserPassword(ctx context.Context, userID, passwordHash string) error
	ListUsers(ctx context.Context, filter UserFilter) (*PaginatedResult[*domain.User], error)
	CountUsers(ctx context.Context) (int, error)

	// Auth sessions
	CreateSession(ctx context.Context, session *domain.Session) error
	GetSession(ctx context.Context, id string) (*domain.Session, error)
	DeleteSession(ctx context.Context, id string) error
	DeleteUserSessions(ctx context.Context, userID string) error
	DeleteExpiredSessions(ctx context.Context) (int, error)

	// Tags
	CreateTag(ctx context.Context, tag *domain.Tag) error
	GetTag(ctx context.Context, id string) (*domain.Tag, error)
	GetTagBySlug(ctx context.Context, slug string) (*domain.Tag, error)
	GetTagsByIDs(ctx context.Context, ids []string) ([]*domain.Tag, error)
	ListTags(ctx context.Context) ([]*domain.Tag, error)

	// Ingredients
	CreateIngredient(ctx context.Context, ingredient *domain.Ingredient) error
	GetIngredient(ctx context.Context, id string) (*domain.Ingredient, error)
	GetIngredientByNameUnit(ctx context.Context, name, unit string) (*domain.Ingredient, error)
	GetIngredientsByIDs(ctx context.Context, ids []string) ([]*domain.Ingredient, error)
	ListIngredients(ctx context.Context, namePrefix string) ([]*domain.Ingredient, error)

	// Recipes
	CreateRecipe(ctx context.Context, recipe *domain.Recipe) error
	UpdateRecipe(ctx context.Context, recipe *domain.Recipe) error
	DeleteRecipe(ctx context.Context, id string) error
	GetRecipe(ctx context.Context, id string) (*domain.Recipe, error)
	GetRecipesByIDs(ctx context.Context, ids []string) ([]*domain.Recipe, error)
	ListRecipes(ctx context.Context, filter RecipeFilter) (*PaginatedResult[*domain.Recipe], error)
	ListRecipesByAuthor(ctx context.Context, authorID string, limit int) ([]*domain.Recipe, error)
	CountRecipesByAuthor(ctx context.Context, authorID string) (int, error)
	ListAllRecipes(ctx context.Context) ([]*domain.Recipe, error)

	// Favorites and shopping cart
	AddRelation(ctx context.Context, kind domain.Relation, userID, recipeID string) error
	RemoveRelation(ctx context.Context, kind domain.Relation, userID, recipeID string) error
	HasRelation(ctx context.Context, kind domain.Relation, userID, recipeID string) (bool, error)
	RelationSet(ctx context.Context, kind domain.Relation, userID string, recipeIDs []string) (map[string]bool, error)
	ShoppingItems(ctx context.Context, userID string) ([]shoppinglist.Item, error)

	// Subscriptions
	Subscribe(ctx context.Context, userID, authorID string) error
	Unsubscribe(ctx context.Context, userID, authorID string) error
	IsSubscribed(ctx context.Context, userID, authorID string) (bool, error)
	SubscribedSet(ctx context.Context, userID string, authorIDs []string) (map[string]bool, error)
	ListSubscriptions(ctx context.Context, userID string, params PageParams) (*PaginatedResult[*domain.User], error)
}
