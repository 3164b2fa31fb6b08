package sqlite

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/foodgramapp/foodgram-server/internal/domain"
	"github.com/foodgramapp/foodgram-server/internal/util"
)

const ingredientColumns = `i.id, i.name, i.measurement_unit`

func scanIngredient(scanner interface{ Scan(dest ...any) error }) (*domain.Ingredient, error) {
	var ing domain.Ingredient
	if err := scanner.Scan(&ing.ID, &ing.Name, &ing.MeasurementUnit); err != nil {
		return nil, err
	}
	return &ing, nil
}

// CreateIngredient inserts a new ingredient.
// Returns store.ErrAlreadyExists if (name, measurement_unit) is taken.
func (s *Store) CreateIngredient(ctx context.Context, ing *domain.Ingredient) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO ingredients (id, name, name_fold, measurement_unit)
		VALUES (?, ?, ?, ?)`,
		ing.ID,
		ing.Name,
		util.Fold(ing.Name),
		ing.MeasurementUnit,
	)
	return writeErr(err)
}

// GetIngredient retrieves an ingredient by ID.
func (s *Store) GetIngredient(ctx context.Context, id string) (*domain.Ingredient, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+ingredientColumns+` FROM ingredients i WHERE i.id = ?`, id)
	ing, err := scanIngredient(row)
	if err != nil {
		return nil, notFound(err)
	}
	return ing, nil
}

// GetIngredientByNameUnit retrieves the ingredient with exactly this name and unit.
func (s *Store) GetIngredientByNameUnit(ctx context.Context, name, unit string) (*domain.Ingredient, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+ingredientColumns+` FROM ingredients i WHERE i.name = ? AND i.measurement_unit = ?`,
		name, unit)
	ing, err := scanIngredient(row)
	if err != nil {
		return nil, notFound(err)
	}
	return ing, nil
}

// GetIngredientsByIDs returns the ingredients that exist among ids.
func (s *Store) GetIngredientsByIDs(ctx context.Context, ids []string) ([]*domain.Ingredient, error) {
	if len(ids) == 0 {
		return []*domain.Ingredient{}, nil
	}
	query, args, err := sq.Select(ingredientColumns).From("ingredients i").
		Where(sq.Eq{"i.id": ids}).OrderBy("i.name").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	return s.queryIngredients(ctx, query, args...)
}

// ListIngredients returns ingredients whose name starts with namePrefix,
// compared under Unicode case folding, ordered by name.
// An empty prefix lists everything.
func (s *Store) ListIngredients(ctx context.Context, namePrefix string) ([]*domain.Ingredient, error) {
	b := sq.Select(ingredientColumns).From("ingredients i").OrderBy("i.name", "i.measurement_unit")
	if namePrefix != "" {
		b = b.Where(sq.Expr(`i.name_fold LIKE ? ESCAPE '\'`, util.EscapeLike(util.Fold(namePrefix))+"%"))
	}
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	return s.queryIngredients(ctx, query, args...)
}

func (s *Store) queryIngredients(ctx context.Context, query string, args ...any) ([]*domain.Ingredient, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*domain.Ingredient{}
	for rows.Next() {
		ing, err := scanIngredient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ing)
	}
	return out, rows.Err()
}
