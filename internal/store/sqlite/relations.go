package sqlite

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/foodgramapp/foodgram-server/internal/domain"
	"github.com/foodgramapp/foodgram-server/internal/shoppinglist"
)

// relationTable returns the table backing a relation kind.
func relationTable(kind domain.Relation) (string, error) {
	switch kind {
	case domain.RelationFavorite:
		return "favorites", nil
	case domain.RelationShoppingCart:
		return "shopping_cart", nil
	}
	return "", fmt.Errorf("unknown relation %q", kind)
}

// AddRelation records (user, recipe) under kind.
// Returns store.ErrAlreadyExists if it is already recorded and
// store.ErrInvalidReference if the user or recipe does not exist.
func (s *Store) AddRelation(ctx context.Context, kind domain.Relation, userID, recipeID string) error {
	table, err := relationTable(kind)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO `+table+` (user_id, recipe_id, created_at) VALUES (?, ?, ?)`,
		userID, recipeID, formatTime(time.Now()))
	return writeErr(err)
}

// RemoveRelation deletes (user, recipe) under kind.
// Returns store.ErrNotFound if it was not recorded.
func (s *Store) RemoveRelation(ctx context.Context, kind domain.Relation, userID, recipeID string) error {
	table, err := relationTable(kind)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM `+table+` WHERE user_id = ? AND recipe_id = ?`, userID, recipeID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// HasRelation reports whether (user, recipe) is recorded under kind.
func (s *Store) HasRelation(ctx context.Context, kind domain.Relation, userID, recipeID string) (bool, error) {
	table, err := relationTable(kind)
	if err != nil {
		return false, err
	}
	var exists bool
	err = s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM `+table+` WHERE user_id = ? AND recipe_id = ?)`,
		userID, recipeID).Scan(&exists)
	return exists, err
}

// RelationSet returns which of recipeIDs the user has recorded under kind.
func (s *Store) RelationSet(ctx context.Context, kind domain.Relation, userID string, recipeIDs []string) (map[string]bool, error) {
	set := make(map[string]bool)
	if userID == "" || len(recipeIDs) == 0 {
		return set, nil
	}
	table, err := relationTable(kind)
	if err != nil {
		return nil, err
	}

	query, args, err := sq.Select("recipe_id").From(table).
		Where(sq.Eq{"user_id": userID, "recipe_id": recipeIDs}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	return s.idSet(ctx, query, args...)
}

// ShoppingItems returns one row per ingredient of every recipe in the
// user's cart, in cart insertion order then recipe ingredient order.
func (s *Store) ShoppingItems(ctx context.Context, userID string) ([]shoppinglist.Item, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT i.name, i.measurement_unit, ri.amount
		FROM shopping_cart c
		JOIN recipe_ingredients ri ON ri.recipe_id = c.recipe_id
		JOIN ingredients i ON i.id = ri.ingredient_id
		WHERE c.user_id = ?
		ORDER BY c.rowid, ri.position`, userID)
	if err != nil {
		return nil, fmt.Errorf("query shopping items: %w", err)
	}
	defer rows.Close()

	items := []shoppinglist.Item{}
	for rows.Next() {
		var it shoppinglist.Item
		if err := rows.Scan(&it.Name, &it.Unit, &it.Amount); err != nil {
			return nil, fmt.Errorf("scan shopping item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate shopping items: %w", err)
	}
	return items, nil
}

func (s *Store) idSet(ctx context.Context, query string, args ...any) (map[string]bool, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	set := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		set[id] = true
	}
	return set, rows.Err()
}
