package sqlite

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/foodgramapp/foodgram-server/internal/domain"
	"github.com/foodgramapp/foodgram-server/internal/store"
)

// recipeColumns is the ordered list of columns selected in recipe queries.
// Must match the scan order in scanRecipe.
const recipeColumns = `r.id, r.author_id, r.name, r.image, r.image_blurhash,
	r.text, r.cooking_time, r.pub_date, r.updated_at`

// newestFirst is the default recipe order. rowid breaks pub_date ties.
var newestFirst = []string{"r.pub_date DESC", "r.rowid DESC"}

func scanRecipe(scanner interface{ Scan(dest ...any) error }) (*domain.Recipe, error) {
	var (
		r         domain.Recipe
		pubDate   string
		updatedAt string
	)

	err := scanner.Scan(
		&r.ID,
		&r.AuthorID,
		&r.Name,
		&r.Image,
		&r.ImageBlurHash,
		&r.Text,
		&r.CookingTime,
		&pubDate,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if r.PubDate, err = parseTime(pubDate); err != nil {
		return nil, err
	}
	if r.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &r, nil
}

// CreateRecipe inserts a recipe with its tags and ingredients in one transaction.
// Returns store.ErrAlreadyExists if the author already has a recipe with
// this name and store.ErrInvalidReference if a tag or ingredient is unknown.
func (s *Store) CreateRecipe(ctx context.Context, r *domain.Recipe) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO recipes (
			id, author_id, name, image, image_blurhash, text,
			cooking_time, pub_date, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID,
		r.AuthorID,
		r.Name,
		r.Image,
		r.ImageBlurHash,
		r.Text,
		r.CookingTime,
		formatTime(r.PubDate),
		formatTime(r.UpdatedAt),
	)
	if err != nil {
		return writeErr(err)
	}

	if err := insertRecipeLinks(ctx, tx, r); err != nil {
		return err
	}

	return tx.Commit()
}

// UpdateRecipe rewrites the mutable fields of a recipe and replaces its
// tags and ingredients wholesale. pub_date and author_id never change.
func (s *Store) UpdateRecipe(ctx context.Context, r *domain.Recipe) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE recipes SET
			name = ?, image = ?, image_blurhash = ?, text = ?,
			cooking_time = ?, updated_at = ?
		WHERE id = ?`,
		r.Name,
		r.Image,
		r.ImageBlurHash,
		r.Text,
		r.CookingTime,
		formatTime(r.UpdatedAt),
		r.ID,
	)
	if err != nil {
		return writeErr(err)
	}
	if err := requireAffected(res); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM recipe_tags WHERE recipe_id = ?`, r.ID); err != nil {
		return fmt.Errorf("delete recipe_tags: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM recipe_ingredients WHERE recipe_id = ?`, r.ID); err != nil {
		return fmt.Errorf("delete recipe_ingredients: %w", err)
	}
	if err := insertRecipeLinks(ctx, tx, r); err != nil {
		return err
	}

	return tx.Commit()
}

func insertRecipeLinks(ctx context.Context, tx queryer, r *domain.Recipe) error {
	for _, t := range r.Tags {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO recipe_tags (recipe_id, tag_id) VALUES (?, ?)`, r.ID, t.ID)
		if err != nil {
			return writeErr(err)
		}
	}
	for i, ing := range r.Ingredients {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO recipe_ingredients (recipe_id, ingredient_id, amount, position)
			VALUES (?, ?, ?, ?)`,
			r.ID, ing.IngredientID, ing.Amount, i)
		if err != nil {
			return writeErr(err)
		}
	}
	return nil
}

// DeleteRecipe removes a recipe; links, favorites and cart entries cascade.
func (s *Store) DeleteRecipe(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM recipes WHERE id = ?`, id)
	if err != nil {
		return deleteErr(err)
	}
	return requireAffected(res)
}

// GetRecipe retrieves a recipe with its tags and ingredients.
func (s *Store) GetRecipe(ctx context.Context, id string) (*domain.Recipe, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+recipeColumns+` FROM recipes r WHERE r.id = ?`, id)
	r, err := scanRecipe(row)
	if err != nil {
		return nil, notFound(err)
	}
	if err := s.loadRecipeLinks(ctx, []*domain.Recipe{r}); err != nil {
		return nil, err
	}
	return r, nil
}

// GetRecipesByIDs returns the recipes that exist among ids, newest first.
func (s *Store) GetRecipesByIDs(ctx context.Context, ids []string) ([]*domain.Recipe, error) {
	if len(ids) == 0 {
		return []*domain.Recipe{}, nil
	}
	return s.selectRecipes(ctx, sq.Select(recipeColumns).From("recipes r").
		Where(sq.Eq{"r.id": ids}).OrderBy(newestFirst...))
}

// ListRecipes returns one page of recipes matching the filter, newest first.
func (s *Store) ListRecipes(ctx context.Context, f store.RecipeFilter) (*store.PaginatedResult[*domain.Recipe], error) {
	f.Normalize()
	where := recipeWhere(f)

	total, err := countOf(ctx, s.db, sq.Select("COUNT(*)").From("recipes r").Where(where))
	if err != nil {
		return nil, fmt.Errorf("count recipes: %w", err)
	}
	if total == 0 {
		return store.NewPage[*domain.Recipe](nil, 0, f.PageParams), nil
	}

	recipes, err := s.selectRecipes(ctx, sq.Select(recipeColumns).From("recipes r").
		Where(where).
		OrderBy(newestFirst...).
		Limit(uint64(f.Limit)).
		Offset(uint64(f.Offset())))
	if err != nil {
		return nil, err
	}
	return store.NewPage(recipes, total, f.PageParams), nil
}

// recipeWhere translates a filter into a conjunction of predicates.
func recipeWhere(f store.RecipeFilter) sq.And {
	where := sq.And{}
	if f.AuthorID != "" {
		where = append(where, sq.Eq{"r.author_id": f.AuthorID})
	}
	if len(f.TagSlugs) > 0 {
		sub := sq.Select("rt.recipe_id").From("recipe_tags rt").
			Join("tags t ON t.id = rt.tag_id").
			Where(sq.Eq{"t.slug": f.TagSlugs})
		where = append(where, inSubquery("r.id", sub))
	}
	if f.FavoritedBy != "" {
		where = append(where, inSubquery("r.id",
			sq.Select("recipe_id").From("favorites").Where(sq.Eq{"user_id": f.FavoritedBy})))
	}
	if f.InCartOf != "" {
		where = append(where, inSubquery("r.id",
			sq.Select("recipe_id").From("shopping_cart").Where(sq.Eq{"user_id": f.InCartOf})))
	}
	return where
}

func inSubquery(column string, sub sq.SelectBuilder) sq.Sqlizer {
	query, args, err := sub.ToSql()
	if err != nil {
		return errSqlizer{err}
	}
	return sq.Expr(column+" IN ("+query+")", args...)
}

// errSqlizer defers a subquery build error to the outer ToSql call.
type errSqlizer struct{ err error }

func (e errSqlizer) ToSql() (string, []any, error) { return "", nil, e.err }

// ListRecipesByAuthor returns an author's newest recipes. limit <= 0 means all.
func (s *Store) ListRecipesByAuthor(ctx context.Context, authorID string, limit int) ([]*domain.Recipe, error) {
	b := sq.Select(recipeColumns).From("recipes r").
		Where(sq.Eq{"r.author_id": authorID}).
		OrderBy(newestFirst...)
	if limit > 0 {
		b = b.Limit(uint64(limit))
	}
	return s.selectRecipes(ctx, b)
}

// CountRecipesByAuthor returns how many recipes an author has published.
func (s *Store) CountRecipesByAuthor(ctx context.Context, authorID string) (int, error) {
	return countOf(ctx, s.db, sq.Select("COUNT(*)").From("recipes r").
		Where(sq.Eq{"r.author_id": authorID}))
}

// ListAllRecipes returns every recipe with links loaded, for reindexing.
func (s *Store) ListAllRecipes(ctx context.Context) ([]*domain.Recipe, error) {
	return s.selectRecipes(ctx, sq.Select(recipeColumns).From("recipes r").OrderBy(newestFirst...))
}

func (s *Store) selectRecipes(ctx context.Context, b sq.SelectBuilder) ([]*domain.Recipe, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build recipe query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	recipes := []*domain.Recipe{}
	for rows.Next() {
		r, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.loadRecipeLinks(ctx, recipes); err != nil {
		return nil, err
	}
	return recipes, nil
}

// loadRecipeLinks fills Tags and Ingredients for a batch of recipes with
// one query each.
func (s *Store) loadRecipeLinks(ctx context.Context, recipes []*domain.Recipe) error {
	if len(recipes) == 0 {
		return nil
	}

	byID := make(map[string]*domain.Recipe, len(recipes))
	ids := make([]string, len(recipes))
	for i, r := range recipes {
		byID[r.ID] = r
		ids[i] = r.ID
		r.Tags = []*domain.Tag{}
		r.Ingredients = []domain.RecipeIngredient{}
	}

	if err := s.loadRecipeTags(ctx, ids, byID); err != nil {
		return fmt.Errorf("load recipe tags: %w", err)
	}
	if err := s.loadRecipeIngredients(ctx, ids, byID); err != nil {
		return fmt.Errorf("load recipe ingredients: %w", err)
	}
	return nil
}

func (s *Store) loadRecipeTags(ctx context.Context, ids []string, byID map[string]*domain.Recipe) error {
	query, args, err := sq.Select("rt.recipe_id", tagColumns).
		From("recipe_tags rt").
		Join("tags t ON t.id = rt.tag_id").
		Where(sq.Eq{"rt.recipe_id": ids}).
		OrderBy("t.name").
		ToSql()
	if err != nil {
		return err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			recipeID  string
			t         domain.Tag
			createdAt string
		)
		if err := rows.Scan(&recipeID, &t.ID, &t.Name, &t.Color, &t.Slug, &createdAt); err != nil {
			return err
		}
		if t.CreatedAt, err = parseTime(createdAt); err != nil {
			return err
		}
		if r, ok := byID[recipeID]; ok {
			r.Tags = append(r.Tags, &t)
		}
	}
	return rows.Err()
}

func (s *Store) loadRecipeIngredients(ctx context.Context, ids []string, byID map[string]*domain.Recipe) error {
	query, args, err := sq.Select("ri.recipe_id", "i.id", "i.name", "i.measurement_unit", "ri.amount").
		From("recipe_ingredients ri").
		Join("ingredients i ON i.id = ri.ingredient_id").
		Where(sq.Eq{"ri.recipe_id": ids}).
		OrderBy("ri.recipe_id", "ri.position").
		ToSql()
	if err != nil {
		return err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			recipeID string
			ri       domain.RecipeIngredient
		)
		if err := rows.Scan(&recipeID, &ri.IngredientID, &ri.Name, &ri.MeasurementUnit, &ri.Amount); err != nil {
			return err
		}
		if r, ok := byID[recipeID]; ok {
			r.Ingredients = append(r.Ingredients, ri)
		}
	}
	return rows.Err()
}
