package sqlite

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/foodgramapp/foodgram-server/internal/domain"
	"github.com/foodgramapp/foodgram-server/internal/store"
)

// Subscribe records that userID follows authorID.
// Returns store.ErrAlreadyExists on a duplicate and store.ErrInvalidInput
// when userID equals authorID.
func (s *Store) Subscribe(ctx context.Context, userID, authorID string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO subscriptions (user_id, author_id, created_at) VALUES (?, ?, ?)`,
		userID, authorID, formatTime(time.Now()))
	return writeErr(err)
}

// Unsubscribe removes a subscription. Returns store.ErrNotFound if absent.
func (s *Store) Unsubscribe(ctx context.Context, userID, authorID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM subscriptions WHERE user_id = ? AND author_id = ?`, userID, authorID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// IsSubscribed reports whether userID follows authorID.
func (s *Store) IsSubscribed(ctx context.Context, userID, authorID string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM subscriptions WHERE user_id = ? AND author_id = ?)`,
		userID, authorID).Scan(&exists)
	return exists, err
}

// SubscribedSet returns which of authorIDs the user follows.
func (s *Store) SubscribedSet(ctx context.Context, userID string, authorIDs []string) (map[string]bool, error) {
	if userID == "" || len(authorIDs) == 0 {
		return map[string]bool{}, nil
	}
	query, args, err := sq.Select("author_id").From("subscriptions").
		Where(sq.Eq{"user_id": userID, "author_id": authorIDs}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	return s.idSet(ctx, query, args...)
}

// ListSubscriptions returns the authors userID follows, oldest subscription first.
func (s *Store) ListSubscriptions(ctx context.Context, userID string, params store.PageParams) (*store.PaginatedResult[*domain.User], error) {
	params.Normalize()

	total, err := countOf(ctx, s.db, sq.Select("COUNT(*)").From("subscriptions").
		Where(sq.Eq{"user_id": userID}))
	if err != nil {
		return nil, fmt.Errorf("count subscriptions: %w", err)
	}

	query, args, err := sq.Select(userColumns).From("subscriptions sub").
		Join("users u ON u.id = sub.author_id").
		Where(sq.Eq{"sub.user_id": userID}).
		OrderBy("sub.rowid").
		Limit(uint64(params.Limit)).
		Offset(uint64(params.Offset())).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	users, err := s.queryUsers(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return store.NewPage(users, total, params), nil
}
