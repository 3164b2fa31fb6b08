package sqlite

import (
	"context"
	"database/sql"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/foodgramapp/foodgram-server/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(dbPath, slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen(t *testing.T) {
	s := newTestStore(t)

	var journalMode string
	if err := s.db.QueryRow("PRAGMA journal_mode").Scan(&journalMode); err != nil {
		t.Fatalf("query journal_mode: %v", err)
	}
	if journalMode != "wal" {
		t.Errorf("expected wal, got %s", journalMode)
	}

	var fk int
	if err := s.db.QueryRow("PRAGMA foreign_keys").Scan(&fk); err != nil {
		t.Fatalf("query foreign_keys: %v", err)
	}
	if fk != 1 {
		t.Errorf("expected foreign_keys=1, got %d", fk)
	}

	tables := []string{
		"users", "sessions", "tags", "ingredients", "recipes",
		"recipe_tags", "recipe_ingredients", "favorites", "shopping_cart", "subscriptions",
	}
	for _, table := range tables {
		var name string
		err := s.db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("table %s not found: %v", table, err)
		}
	}
}

// holdConns checks out n pooled connections until the test ends, so later
// statements run on connections opened after them.
func holdConns(t *testing.T, s *Store, n int) []*sql.Conn {
	t.Helper()
	conns := make([]*sql.Conn, 0, n)
	for range n {
		c, err := s.db.Conn(context.Background())
		if err != nil {
			t.Fatalf("checkout conn: %v", err)
		}
		t.Cleanup(func() { c.Close() })
		conns = append(conns, c)
	}
	return conns
}

func TestOpen_PragmasOnEveryConnection(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i, c := range holdConns(t, s, 4) {
		var fk, busy int
		if err := c.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&fk); err != nil {
			t.Fatalf("conn %d foreign_keys: %v", i, err)
		}
		if err := c.QueryRowContext(ctx, "PRAGMA busy_timeout").Scan(&busy); err != nil {
			t.Fatalf("conn %d busy_timeout: %v", i, err)
		}
		if fk != 1 {
			t.Errorf("conn %d: expected foreign_keys=1, got %d", i, fk)
		}
		if busy != 5000 {
			t.Errorf("conn %d: expected busy_timeout=5000, got %d", i, busy)
		}
	}
}

func TestOpen_Idempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	for i := 0; i < 2; i++ {
		s, err := Open(dbPath, slog.New(slog.DiscardHandler))
		if err != nil {
			t.Fatalf("open #%d: %v", i+1, err)
		}
		s.Close()
	}
}

func TestFormatTime_SortsChronologically(t *testing.T) {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	earlier := formatTime(base)
	later := formatTime(base.Add(500 * time.Millisecond))
	if !(earlier < later) {
		t.Errorf("expected %q < %q", earlier, later)
	}
	if len(earlier) != len(later) {
		t.Errorf("expected fixed width, got %d and %d", len(earlier), len(later))
	}

	got, err := parseTime(later)
	if err != nil {
		t.Fatalf("parseTime: %v", err)
	}
	if !got.Equal(base.Add(500 * time.Millisecond)) {
		t.Errorf("round trip: got %v", got)
	}
}

// Fixtures shared by the store tests.

func mustUser(t *testing.T, s *Store, id, username string) *domain.User {
	t.Helper()
	now := time.Now()
	u := &domain.User{
		Entity:       domain.Entity{ID: id, CreatedAt: now, UpdatedAt: now},
		Email:        username + "@example.com",
		Username:     username,
		FirstName:    "Test",
		LastName:     "User",
		PasswordHash: "hash",
		Role:         domain.RoleMember,
	}
	if err := s.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("CreateUser(%s): %v", id, err)
	}
	return u
}

func mustTag(t *testing.T, s *Store, id, name, color string) *domain.Tag {
	t.Helper()
	tag := &domain.Tag{ID: id, Name: name, Color: color, Slug: name, CreatedAt: time.Now()}
	if err := s.CreateTag(context.Background(), tag); err != nil {
		t.Fatalf("CreateTag(%s): %v", id, err)
	}
	return tag
}

func mustIngredient(t *testing.T, s *Store, id, name, unit string) *domain.Ingredient {
	t.Helper()
	ing := &domain.Ingredient{ID: id, Name: name, MeasurementUnit: unit}
	if err := s.CreateIngredient(context.Background(), ing); err != nil {
		t.Fatalf("CreateIngredient(%s): %v", id, err)
	}
	return ing
}

type recipeOpt func(r *domain.Recipe)

func withTags(tags ...*domain.Tag) recipeOpt {
	return func(r *domain.Recipe) { r.Tags = tags }
}

func withIngredient(ing *domain.Ingredient, amount int) recipeOpt {
	return func(r *domain.Recipe) {
		r.Ingredients = append(r.Ingredients, domain.RecipeIngredient{
			IngredientID:    ing.ID,
			Name:            ing.Name,
			MeasurementUnit: ing.MeasurementUnit,
			Amount:          amount,
		})
	}
}

func publishedAt(ts time.Time) recipeOpt {
	return func(r *domain.Recipe) { r.PubDate = ts; r.UpdatedAt = ts }
}

func makeRecipe(id, authorID, name string, opts ...recipeOpt) *domain.Recipe {
	now := time.Now()
	r := &domain.Recipe{
		ID:          id,
		AuthorID:    authorID,
		Name:        name,
		Image:       "recipes/" + id + ".jpg",
		Text:        "Mix and bake.",
		CookingTime: 30,
		PubDate:     now,
		UpdatedAt:   now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func mustRecipe(t *testing.T, s *Store, id, authorID, name string, opts ...recipeOpt) *domain.Recipe {
	t.Helper()
	r := makeRecipe(id, authorID, name, opts...)
	if err := s.CreateRecipe(context.Background(), r); err != nil {
		t.Fatalf("CreateRecipe(%s): %v", id, err)
	}
	return r
}
