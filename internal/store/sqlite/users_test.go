package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/foodgramapp/foodgram-server/internal/domain"
	"github.com/foodgramapp/foodgram-server/internal/store"
)

func TestCreateAndGetUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := mustUser(t, s, "user-1", "alice")

	got, err := s.GetUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if got.Username != "alice" || got.Email != u.Email || got.Role != domain.RoleMember {
		t.Errorf("unexpected user: %+v", got)
	}
	if got.PasswordHash != "hash" {
		t.Errorf("PasswordHash: got %q", got.PasswordHash)
	}
}

func TestGetUserByEmail_CaseInsensitive(t *testing.T) {
	s := newTestStore(t)
	mustUser(t, s, "user-1", "alice")

	got, err := s.GetUserByEmail(context.Background(), "  ALICE@Example.com ")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if got.ID != "user-1" {
		t.Errorf("got %s, want user-1", got.ID)
	}
}

func TestGetUserByUsername(t *testing.T) {
	s := newTestStore(t)
	mustUser(t, s, "user-1", "alice")

	got, err := s.GetUserByUsername(context.Background(), "alice")
	if err != nil {
		t.Fatalf("GetUserByUsername: %v", err)
	}
	if got.ID != "user-1" {
		t.Errorf("got %s, want user-1", got.ID)
	}

	if _, err := s.GetUserByUsername(context.Background(), "bob"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("missing username: expected ErrNotFound, got %v", err)
	}
}

func TestCreateUser_Duplicates(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	mustUser(t, s, "user-1", "alice")

	now := time.Now()
	dupEmail := &domain.User{
		Entity:   domain.Entity{ID: "user-2", CreatedAt: now, UpdatedAt: now},
		Email:    "Alice@example.com",
		Username: "alice2",
		Role:     domain.RoleMember,
	}
	if err := s.CreateUser(ctx, dupEmail); !errors.Is(err, store.ErrAlreadyExists) {
		t.Errorf("duplicate email: expected ErrAlreadyExists, got %v", err)
	}

	dupUsername := &domain.User{
		Entity:   domain.Entity{ID: "user-3", CreatedAt: now, UpdatedAt: now},
		Email:    "other@example.com",
		Username: "alice",
		Role:     domain.RoleMember,
	}
	if err := s.CreateUser(ctx, dupUsername); !errors.Is(err, store.ErrAlreadyExists) {
		t.Errorf("duplicate username: expected ErrAlreadyExists, got %v", err)
	}
}

func TestGetUser_NotFound(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.GetUser(context.Background(), "nope"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListUsers_SearchAndPaging(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	mustUser(t, s, "user-1", "chef_anna")
	mustUser(t, s, "user-2", "bob")
	mustUser(t, s, "user-3", "anna.k")

	page, err := s.ListUsers(ctx, store.UserFilter{Search: "anna"})
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if page.Total != 2 || len(page.Items) != 2 {
		t.Fatalf("expected 2 matches, got total=%d items=%d", page.Total, len(page.Items))
	}
	if page.Items[0].ID != "user-1" || page.Items[1].ID != "user-3" {
		t.Errorf("expected registration order, got %s, %s", page.Items[0].ID, page.Items[1].ID)
	}

	// "_" is literal, not a wildcard.
	page, err = s.ListUsers(ctx, store.UserFilter{Search: "_"})
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if page.Total != 1 {
		t.Errorf("expected 1 match for underscore, got %d", page.Total)
	}

	page, err = s.ListUsers(ctx, store.UserFilter{PageParams: store.PageParams{Page: 2, Limit: 2}})
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if page.Total != 3 || len(page.Items) != 1 || page.HasMore {
		t.Errorf("unexpected second page: %+v", page)
	}
}

func TestUpdateUserPassword(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	mustUser(t, s, "user-1", "alice")

	if err := s.UpdateUserPassword(ctx, "user-1", "new-hash"); err != nil {
		t.Fatalf("UpdateUserPassword: %v", err)
	}
	got, _ := s.GetUser(ctx, "user-1")
	if got.PasswordHash != "new-hash" {
		t.Errorf("PasswordHash: got %q", got.PasswordHash)
	}

	if err := s.UpdateUserPassword(ctx, "missing", "x"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSessions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	mustUser(t, s, "user-1", "alice")

	now := time.Now()
	live := &domain.Session{ID: "session-1", UserID: "user-1", CreatedAt: now, ExpiresAt: now.Add(time.Hour)}
	expired := &domain.Session{ID: "session-2", UserID: "user-1", CreatedAt: now, ExpiresAt: now.Add(-time.Hour)}
	for _, sess := range []*domain.Session{live, expired} {
		if err := s.CreateSession(ctx, sess); err != nil {
			t.Fatalf("CreateSession: %v", err)
		}
	}

	got, err := s.GetSession(ctx, "session-1")
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if got.UserID != "user-1" || got.IsExpired() {
		t.Errorf("unexpected session: %+v", got)
	}

	n, err := s.DeleteExpiredSessions(ctx)
	if err != nil {
		t.Fatalf("DeleteExpiredSessions: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 expired session removed, got %d", n)
	}

	if err := s.DeleteSession(ctx, "session-1"); err != nil {
		t.Fatalf("DeleteSession: %v", err)
	}
	if err := s.DeleteSession(ctx, "session-1"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("second delete: expected ErrNotFound, got %v", err)
	}
}

func TestSessionsCascadeWithUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	mustUser(t, s, "user-1", "alice")

	now := time.Now()
	if err := s.CreateSession(ctx, &domain.Session{ID: "session-1", UserID: "user-1", CreatedAt: now, ExpiresAt: now.Add(time.Hour)}); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if _, err := s.db.Exec(`DELETE FROM users WHERE id = 'user-1'`); err != nil {
		t.Fatalf("delete user: %v", err)
	}
	if _, err := s.GetSession(ctx, "session-1"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected session to cascade, got %v", err)
	}
}
