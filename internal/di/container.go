// Package di provides dependency injection configuration for the Foodgram server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/foodgramapp/foodgram-server/internal/auth"
	"github.com/foodgramapp/foodgram-server/internal/config"
	"github.com/foodgramapp/foodgram-server/internal/di/providers"
	"github.com/foodgramapp/foodgram-server/internal/dto"
	"github.com/foodgramapp/foodgram-server/internal/logger"
	"github.com/foodgramapp/foodgram-server/internal/media/images"
	"github.com/foodgramapp/foodgram-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
// args are the command-line flags passed to config.LoadConfig.
func NewContainer(args []string) *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ConfigProvider(args))
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideAuthKey)

	// Database layer
	do.Provide(injector, providers.ProvideStore)

	// Storage layer
	do.Provide(injector, providers.ProvideImageStorage)
	do.Provide(injector, providers.ProvideImageProcessor)

	// Search layer
	do.Provide(injector, providers.ProvideSearchIndex)
	do.Provide(injector, providers.ProvideSearchService)

	// Auth layer
	do.Provide(injector, providers.ProvideTokenService)

	// Business services
	do.Provide(injector, providers.ProvideEnricher)
	do.Provide(injector, providers.ProvideAuthService)
	do.Provide(injector, providers.ProvideUserService)
	do.Provide(injector, providers.ProvideTagService)
	do.Provide(injector, providers.ProvideIngredientService)
	do.Provide(injector, providers.ProvideRecipeService)
	do.Provide(injector, providers.ProvideFavoriteService)
	do.Provide(injector, providers.ProvideCartService)
	do.Provide(injector, providers.ProvideSubscriptionService)

	// Workers
	do.Provide(injector, providers.ProvideSessionCleanupJob)

	// Server
	do.Provide(injector, providers.ProvideAPIServer)
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and starts the HTTP server.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	if err := InitServices(injector); err != nil {
		return err
	}

	// Workers
	if _, err := do.Invoke[*providers.SessionCleanupJob](injector); err != nil {
		return err
	}

	// Server
	if _, err := do.Invoke[*providers.HTTPServerHandle](injector); err != nil {
		return err
	}

	// Fill the search index on first start
	providers.TriggerSearchReindexIfNeeded(injector)

	return nil
}

// InitServices initializes everything short of background jobs and the
// listener. Command-line tools use it to reach the services directly.
func InitServices(injector *do.RootScope) error {
	steps := []func() error{
		invoke[*config.Config](injector),
		invoke[*logger.Logger](injector),
		invoke[providers.AuthKey](injector),
		invoke[*providers.StoreHandle](injector),
		invoke[*images.Storage](injector),
		invoke[*images.Processor](injector),
		invoke[*providers.SearchIndexHandle](injector),
		invoke[*dto.Enricher](injector),
		invoke[*service.SearchService](injector),
		invoke[*auth.TokenService](injector),

		// Business services
		invoke[*service.AuthService](injector),
		invoke[*service.UserService](injector),
		invoke[*service.TagService](injector),
		invoke[*service.IngredientService](injector),
		invoke[*service.RecipeService](injector),
		invoke[*service.FavoriteService](injector),
		invoke[*service.CartService](injector),
		invoke[*service.SubscriptionService](injector),
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

func invoke[T any](injector *do.RootScope) func() error {
	return func() error {
		_, err := do.Invoke[T](injector)
		return err
	}
}
