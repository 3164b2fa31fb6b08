// Package api provides the HTTP API server and handlers for Foodgram.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/foodgramapp/foodgram-server/internal/logger"
	"github.com/foodgramapp/foodgram-server/internal/media/images"
	"github.com/foodgramapp/foodgram-server/internal/ratelimit"
)

// Options tunes the HTTP surface.
type Options struct {
	CORSOrigins    []string
	LoginRateLimit float64 // login attempts per second per client IP
	LoginBurst     int
	// TrustProxy rewrites the client address from forwarding headers.
	// Enable only behind a reverse proxy that sets them.
	TrustProxy bool
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	services     *Services
	media        *images.Storage
	router       *chi.Mux
	api          huma.API
	logger       *slog.Logger
	loginLimiter *ratelimit.KeyedRateLimiter
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(services *Services, media *images.Storage, opts Options, log *slog.Logger) *Server {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	if opts.LoginBurst <= 0 {
		opts.LoginBurst = 5
	}
	if opts.LoginRateLimit <= 0 {
		opts.LoginRateLimit = 0.2
	}

	s := &Server{
		services:     services,
		media:        media,
		router:       chi.NewRouter(),
		logger:       log,
		loginLimiter: ratelimit.New(opts.LoginRateLimit, opts.LoginBurst),
	}

	s.setupMiddleware(opts)

	humaConfig := huma.DefaultConfig("Foodgram API", "1.0.0")
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"token": {
			Type:        "apiKey",
			In:          "header",
			Name:        "Authorization",
			Description: `"Token <auth_token>" or "Bearer <auth_token>"`,
		},
	}
	s.api = humachi.New(s.router, humaConfig)
	RegisterErrorHandler(log)

	s.registerRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// API exposes the huma API, e.g. for OpenAPI export.
func (s *Server) API() huma.API {
	return s.api
}

// Close stops background work owned by the server.
func (s *Server) Close() {
	s.loginLimiter.Stop()
}

func (s *Server) setupMiddleware(opts Options) {
	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	s.router.Use(middleware.RequestID)
	if opts.TrustProxy {
		s.router.Use(middleware.RealIP)
	}
	s.router.Use(logger.Middleware(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(60 * time.Second))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	s.router.Use(authMiddleware(s.services.Auth))
}

func (s *Server) registerRoutes() {
	s.registerHealthRoutes()
	s.registerAuthRoutes()
	s.registerUserRoutes()
	s.registerSubscriptionRoutes()
	s.registerTagRoutes()
	s.registerIngredientRoutes()
	s.registerAdminRoutes()
	s.registerRecipeRoutes()
	s.registerRelationRoutes()
	if s.services.Search.Enabled() {
		s.registerSearchRoutes()
	}
	s.registerMediaRoutes()
}
