package api

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodgramapp/foodgram-server/internal/auth"
	"github.com/foodgramapp/foodgram-server/internal/dto"
	"github.com/foodgramapp/foodgram-server/internal/media/images"
	"github.com/foodgramapp/foodgram-server/internal/search"
	"github.com/foodgramapp/foodgram-server/internal/service"
	"github.com/foodgramapp/foodgram-server/internal/store/sqlite"
)

const (
	testTokenKey  = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"
	testPublicURL = "http://localhost:8080"
	testPassword  = "correct horse battery"
)

// testServer wraps the API server for handler tests.
type testServer struct {
	*Server
	api      humatest.TestAPI
	services *Services
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()
	return setupTestServerWith(t, Options{})
}

// setupTestServerWith builds the full stack over a temporary data dir.
func setupTestServerWith(t *testing.T, opts Options) *testServer {
	t.Helper()

	dir := t.TempDir()
	logger := slog.New(slog.DiscardHandler)

	st, err := sqlite.Open(filepath.Join(dir, "foodgram.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	storage, err := images.NewStorage(dir, "images")
	require.NoError(t, err)
	processor := images.NewProcessor(storage, logger)

	index, err := search.NewSearchIndex(search.Options{DataPath: filepath.Join(dir, "search")})
	require.NoError(t, err)
	t.Cleanup(func() { index.Close() })

	tokens, err := auth.NewTokenService(testTokenKey, time.Hour)
	require.NoError(t, err)

	enricher := dto.NewEnricher(st, testPublicURL)
	searchSvc := service.NewSearchService(index, st, enricher, logger)

	services := &Services{
		Auth:         service.NewAuthService(st, tokens, logger),
		User:         service.NewUserService(st, enricher, logger),
		Tag:          service.NewTagService(st, logger),
		Ingredient:   service.NewIngredientService(st, logger),
		Recipe:       service.NewRecipeService(st, processor, searchSvc, enricher, logger),
		Favorite:     service.NewFavoriteService(st, enricher, logger),
		Cart:         service.NewCartService(st, enricher, logger),
		Subscription: service.NewSubscriptionService(st, enricher, logger),
		Search:       searchSvc,
	}

	s := NewServer(services, storage, opts, logger)
	t.Cleanup(s.Close)

	return &testServer{
		Server:   s,
		api:      humatest.Wrap(t, s.api),
		services: services,
	}
}

// register creates an account through the API and returns its ID.
func (ts *testServer) register(t *testing.T, username string) string {
	t.Helper()
	resp := ts.api.Post("/api/v1/users", map[string]any{
		"email":      username + "@example.com",
		"username":   username,
		"first_name": "Test",
		"last_name":  "User",
		"password":   testPassword,
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	var u dto.User
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &u))
	return u.ID
}

// login returns a ready-to-use Authorization header line.
func (ts *testServer) login(t *testing.T, email string) string {
	t.Helper()
	resp := ts.api.Post("/api/v1/auth/token/login", map[string]any{
		"email":    email,
		"password": testPassword,
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var tok service.TokenResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &tok))
	require.NotEmpty(t, tok.AuthToken)
	return "Authorization: Token " + tok.AuthToken
}

// member registers and logs in, returning the user ID and auth header.
func (ts *testServer) member(t *testing.T, username string) (string, string) {
	t.Helper()
	id := ts.register(t, username)
	return id, ts.login(t, username+"@example.com")
}

// admin creates an administrator and logs in.
func (ts *testServer) admin(t *testing.T) string {
	t.Helper()
	_, err := ts.services.User.CreateAdmin(context.Background(), service.RegisterRequest{
		Email:     "root@example.com",
		Username:  "root",
		FirstName: "Site",
		LastName:  "Admin",
		Password:  testPassword,
	})
	require.NoError(t, err)
	return ts.login(t, "root@example.com")
}

// catalog seeds one tag and two ingredients through the admin API.
func (ts *testServer) catalog(t *testing.T) (tagID, flourID, eggID string) {
	t.Helper()
	adminAuth := ts.admin(t)

	resp := ts.api.Post("/api/v1/admin/tags", adminAuth, map[string]any{"name": "Breakfast", "color": "#E26C2D"})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	tagID = decodeID(t, resp.Body.Bytes())

	resp = ts.api.Post("/api/v1/admin/ingredients", adminAuth, map[string]any{"name": "flour", "measurement_unit": "g"})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	flourID = decodeID(t, resp.Body.Bytes())

	resp = ts.api.Post("/api/v1/admin/ingredients", adminAuth, map[string]any{"name": "egg", "measurement_unit": "pcs"})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	eggID = decodeID(t, resp.Body.Bytes())

	return tagID, flourID, eggID
}

// createRecipe posts a recipe and returns the decoded view.
func (ts *testServer) createRecipe(t *testing.T, authHeader string, body map[string]any) *dto.Recipe {
	t.Helper()
	resp := ts.api.Post("/api/v1/recipes", authHeader, body)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	var r dto.Recipe
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &r))
	return &r
}

func recipeBody(name, tagID string, ingredients ...map[string]any) map[string]any {
	return map[string]any{
		"name":         name,
		"text":         "Mix everything and cook.",
		"cooking_time": 15,
		"image":        testImage,
		"tags":         []string{tagID},
		"ingredients":  ingredients,
	}
}

func amount(id string, n int) map[string]any {
	return map[string]any{"id": id, "amount": n}
}

func decodeID(t *testing.T, body []byte) string {
	t.Helper()
	var v struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(body, &v))
	require.NotEmpty(t, v.ID)
	return v.ID
}

// decodeError parses the standard error body.
func decodeError(t *testing.T, body []byte) APIError {
	t.Helper()
	var e APIError
	require.NoError(t, json.Unmarshal(body, &e))
	return e
}

var testImage = func() string {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 30), G: uint8(y * 30), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		panic(err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}()

func TestHealthCheck_Success(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/health")
	assert.Equal(t, http.StatusOK, resp.Code)

	var health HealthResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &health))
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "healthy", health.Components["database"].Status)
	assert.Contains(t, health.Components, "search")
}

func TestSchemaViolation_IsBadRequest(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/users?limit=1000")
	require.Equal(t, http.StatusBadRequest, resp.Code, resp.Body.String())

	apiErr := decodeError(t, resp.Body.Bytes())
	assert.Equal(t, "VALIDATION_ERROR", apiErr.Code)
	details, ok := apiErr.Details.(map[string]any)
	require.True(t, ok, "expected field details, got %T", apiErr.Details)
	assert.Contains(t, details, "limit")
}

func TestUnknownRoute_NotFound(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/recipes/does-not-exist")
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, "NOT_FOUND", decodeError(t, resp.Body.Bytes()).Code)
}

func TestLogin_RateLimited(t *testing.T) {
	ts := setupTestServerWith(t, Options{LoginRateLimit: 0.001, LoginBurst: 2})

	creds := map[string]any{"email": "nobody@example.com", "password": "wrong password"}
	for range 2 {
		resp := ts.api.Post("/api/v1/auth/token/login", creds)
		require.Equal(t, http.StatusBadRequest, resp.Code, resp.Body.String())
	}

	resp := ts.api.Post("/api/v1/auth/token/login", creds)
	assert.Equal(t, http.StatusTooManyRequests, resp.Code)
	assert.Equal(t, "RATE_LIMITED", decodeError(t, resp.Body.Bytes()).Code)

	// Forwarding headers from an untrusted client do not open a new budget.
	for _, ip := range []string{"198.51.100.7", "198.51.100.8"} {
		resp = ts.api.Post("/api/v1/auth/token/login", "X-Forwarded-For: "+ip, creds)
		assert.Equal(t, http.StatusTooManyRequests, resp.Code)
		resp = ts.api.Post("/api/v1/auth/token/login", "X-Real-IP: "+ip, creds)
		assert.Equal(t, http.StatusTooManyRequests, resp.Code)
	}
}

func TestLogin_RateLimitedBehindProxy(t *testing.T) {
	ts := setupTestServerWith(t, Options{LoginRateLimit: 0.001, LoginBurst: 1, TrustProxy: true})

	creds := map[string]any{"email": "nobody@example.com", "password": "wrong password"}
	resp := ts.api.Post("/api/v1/auth/token/login", "X-Forwarded-For: 198.51.100.7", creds)
	require.Equal(t, http.StatusBadRequest, resp.Code, resp.Body.String())

	resp = ts.api.Post("/api/v1/auth/token/login", "X-Forwarded-For: 198.51.100.7", creds)
	assert.Equal(t, http.StatusTooManyRequests, resp.Code)

	resp = ts.api.Post("/api/v1/auth/token/login", "X-Forwarded-For: 198.51.100.8", creds)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestClientIP(t *testing.T) {
	assert.Equal(t, "10.0.0.3", clientIP("10.0.0.3:5000"))
	assert.Equal(t, "::1", clientIP("[::1]:5000"))
	assert.Equal(t, "garbage", clientIP("garbage"))
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "abc", bearerToken("Token abc"))
	assert.Equal(t, "abc", bearerToken("Bearer abc"))
	assert.Equal(t, "abc", bearerToken("bearer abc"))
	assert.Empty(t, bearerToken("Basic abc"))
	assert.Empty(t, bearerToken(""))
}
