package api

import "github.com/foodgramapp/foodgram-server/internal/service"

// Services groups the business logic used by the API server.
type Services struct {
	Auth         *service.AuthService
	User         *service.UserService
	Tag          *service.TagService
	Ingredient   *service.IngredientService
	Recipe       *service.RecipeService
	Favorite     *service.FavoriteService
	Cart         *service.CartService
	Subscription *service.SubscriptionService
	Search       *service.SearchService
}
