package search

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodgramapp/foodgram-server/internal/domain"
)

// setupTestIndex creates a temporary search index for testing.
func setupTestIndex(t *testing.T) *SearchIndex {
	t.Helper()

	index, err := NewSearchIndex(Options{DataPath: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })

	return index
}

func sampleDocs() []*RecipeDocument {
	return []*RecipeDocument{
		{
			ID: "r1", AuthorID: "u1", Name: "Pancakes", Text: "Whisk and fry.",
			Ingredients: []string{"flour", "milk", "egg"}, Tags: []string{"Breakfast"},
			TagSlugs: []string{"breakfast"}, CookingTime: 20, PubDate: 1,
		},
		{
			ID: "r2", AuthorID: "u2", Name: "Borscht", Text: "Slow simmer with beetroot.",
			Ingredients: []string{"beetroot", "cabbage"}, Tags: []string{"Lunch"},
			TagSlugs: []string{"lunch"}, CookingTime: 90, PubDate: 2,
		},
		{
			ID: "r3", AuthorID: "u1", Name: "Сырники", Text: "Творог, мука, яйцо.",
			Ingredients: []string{"творог", "flour"}, Tags: []string{"Завтрак"},
			TagSlugs: []string{"завтрак"}, CookingTime: 25, PubDate: 3,
		},
	}
}

func TestNewSearchIndex(t *testing.T) {
	index := setupTestIndex(t)

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count)
	assert.True(t, index.Fresh())
}

func TestSearchIndex_IndexAndDelete(t *testing.T) {
	index := setupTestIndex(t)

	require.NoError(t, index.IndexDocuments(sampleDocs()))
	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), count)

	require.NoError(t, index.DeleteDocument("r2"))
	count, err = index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), count)
}

func TestSearchIndex_Search_Fields(t *testing.T) {
	index := setupTestIndex(t)
	require.NoError(t, index.IndexDocuments(sampleDocs()))
	ctx := context.Background()

	tests := []struct {
		query string
		want  []string
	}{
		{"pancakes", []string{"r1"}},
		{"beetroot", []string{"r2"}},  // ingredient and text
		{"breakfast", []string{"r1"}}, // tag name
		{"simmer", []string{"r2"}},    // text only
		{"сырники", []string{"r3"}},   // Cyrillic, lowercased
		{"pancake", []string{"r1"}},   // fuzzy
		{"pan", []string{"r1"}},       // prefix
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			res, err := index.Search(ctx, SearchParams{Query: tt.query})
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.IDs())
		})
	}
}

func TestSearchIndex_Search_SharedIngredient(t *testing.T) {
	index := setupTestIndex(t)
	require.NoError(t, index.IndexDocuments(sampleDocs()))

	res, err := index.Search(context.Background(), SearchParams{Query: "flour"})
	require.NoError(t, err)
	assert.Equal(t, uint64(2), res.Total)
	assert.ElementsMatch(t, []string{"r1", "r3"}, res.IDs())
}

func TestSearchIndex_Search_Filters(t *testing.T) {
	index := setupTestIndex(t)
	require.NoError(t, index.IndexDocuments(sampleDocs()))
	ctx := context.Background()

	res, err := index.Search(ctx, SearchParams{Query: "flour", AuthorID: "u1", TagSlugs: []string{"завтрак"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"r3"}, res.IDs())

	// No text query: filters alone, newest first.
	res, err = index.Search(ctx, SearchParams{AuthorID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"r3", "r1"}, res.IDs())

	res, err = index.Search(ctx, SearchParams{TagSlugs: []string{"lunch", "breakfast"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"r2", "r1"}, res.IDs())
}

func TestSearchIndex_Search_Paging(t *testing.T) {
	index := setupTestIndex(t)
	require.NoError(t, index.IndexDocuments(sampleDocs()))
	ctx := context.Background()

	res, err := index.Search(ctx, SearchParams{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, uint64(3), res.Total)
	assert.Equal(t, []string{"r3", "r2"}, res.IDs())

	res, err = index.Search(ctx, SearchParams{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"r1"}, res.IDs())
}

func TestSearchIndex_IndexRecipe_Replaces(t *testing.T) {
	index := setupTestIndex(t)
	ctx := context.Background()

	r := &domain.Recipe{
		ID: "r1", AuthorID: "u1", Name: "Pancakes", Text: "fry", CookingTime: 10,
		PubDate: time.Now(),
		Tags:    []*domain.Tag{{ID: "t1", Name: "Breakfast", Slug: "breakfast"}},
	}
	require.NoError(t, index.IndexRecipe(r))

	r.Name = "Waffles"
	require.NoError(t, index.IndexRecipe(r))

	res, err := index.Search(ctx, SearchParams{Query: "pancakes"})
	require.NoError(t, err)
	assert.Empty(t, res.Hits)

	res, err = index.Search(ctx, SearchParams{Query: "waffles"})
	require.NoError(t, err)
	assert.Equal(t, []string{"r1"}, res.IDs())

	require.NoError(t, index.RemoveRecipe("r1"))
	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count)
}

func TestSearchIndex_Rebuild(t *testing.T) {
	index := setupTestIndex(t)
	require.NoError(t, index.IndexDocuments(sampleDocs()))

	require.NoError(t, index.Rebuild(sampleDocs()[:1]))

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)
	assert.False(t, index.Fresh())
}

func TestSearchIndex_Persistence(t *testing.T) {
	dir := t.TempDir()

	index, err := NewSearchIndex(Options{DataPath: dir})
	require.NoError(t, err)
	require.NoError(t, index.IndexDocuments(sampleDocs()))
	require.NoError(t, index.Close())

	reopened, err := NewSearchIndex(Options{DataPath: dir})
	require.NoError(t, err)
	defer reopened.Close()

	assert.False(t, reopened.Fresh())
	count, err := reopened.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), count)
}

func TestFromRecipe(t *testing.T) {
	pub := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	r := &domain.Recipe{
		ID: "r1", AuthorID: "u1", Name: "Pancakes", Text: "fry", CookingTime: 10, PubDate: pub,
		Tags: []*domain.Tag{{Name: "Breakfast", Slug: "breakfast"}},
		Ingredients: []domain.RecipeIngredient{
			{IngredientID: "i1", Name: "flour", MeasurementUnit: "g", Amount: 200},
		},
	}

	doc := FromRecipe(r)
	assert.Equal(t, []string{"Breakfast"}, doc.Tags)
	assert.Equal(t, []string{"breakfast"}, doc.TagSlugs)
	assert.Equal(t, []string{"flour"}, doc.Ingredients)
	assert.Equal(t, pub.UnixMilli(), doc.PubDate)

	m := doc.ToMap()
	assert.Equal(t, "Pancakes", m["name"])
	assert.NotContains(t, (&RecipeDocument{ID: "x"}).ToMap(), "tags")
}
