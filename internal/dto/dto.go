// Package dto provides the client-facing views of recipes and users.
//
// Views carry the viewer-dependent flags (is_favorited, is_in_shopping_cart,
// is_subscribed) and absolute image URLs, so handlers can return them as is.
package dto

import (
	"time"

	"github.com/foodgramapp/foodgram-server/internal/domain"
)

// User is the public view of an account.
type User struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	IsSubscribed bool   `json:"is_subscribed"`
}

// Recipe is the full view of a recipe.
type Recipe struct {
	ID               string                    `json:"id"`
	Tags             []*domain.Tag             `json:"tags"`
	Author           *User                     `json:"author"`
	Ingredients      []domain.RecipeIngredient `json:"ingredients"`
	IsFavorited      bool                      `json:"is_favorited"`
	IsInShoppingCart bool                      `json:"is_in_shopping_cart"`
	Name             string                    `json:"name"`
	Image            string                    `json:"image"`
	ImageBlurHash    string                    `json:"image_blurhash,omitempty"`
	Text             string                    `json:"text"`
	CookingTime      int                       `json:"cooking_time"`
	PubDate          time.Time                 `json:"pub_date"`
}

// ShortRecipe is the compact projection returned by favorite and cart
// toggles and embedded in subscriptions.
type ShortRecipe struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

// Subscription is a followed author with a preview of their recipes.
type Subscription struct {
	User
	Recipes      []ShortRecipe `json:"recipes"`
	RecipesCount int           `json:"recipes_count"`
}
