// Package search provides full-text recipe search using Bleve.
// Recipes are indexed with their ingredient and tag names denormalized so
// one query covers all of them.
package search

import (
	"github.com/foodgramapp/foodgram-server/internal/domain"
)

// RecipeDocument is the indexed form of a recipe.
type RecipeDocument struct {
	ID          string
	AuthorID    string
	Name        string
	Text        string
	Ingredients []string // ingredient names
	Tags        []string // tag names
	TagSlugs    []string
	CookingTime int
	PubDate     int64 // Unix millis
}

// ToMap converts the document to a map whose keys match the index mapping.
func (d *RecipeDocument) ToMap() map[string]any {
	m := map[string]any{
		"id":           d.ID,
		"author_id":    d.AuthorID,
		"name":         d.Name,
		"cooking_time": d.CookingTime,
		"pub_date":     d.PubDate,
	}
	if d.Text != "" {
		m["text"] = d.Text
	}
	if len(d.Ingredients) > 0 {
		m["ingredients"] = d.Ingredients
	}
	if len(d.Tags) > 0 {
		m["tags"] = d.Tags
	}
	if len(d.TagSlugs) > 0 {
		m["tag_slugs"] = d.TagSlugs
	}
	return m
}

// FromRecipe builds the document for a recipe with tags and ingredients loaded.
func FromRecipe(r *domain.Recipe) *RecipeDocument {
	doc := &RecipeDocument{
		ID:          r.ID,
		AuthorID:    r.AuthorID,
		Name:        r.Name,
		Text:        r.Text,
		CookingTime: r.CookingTime,
		PubDate:     r.PubDate.UnixMilli(),
	}
	for _, t := range r.Tags {
		doc.Tags = append(doc.Tags, t.Name)
		doc.TagSlugs = append(doc.TagSlugs, t.Slug)
	}
	for _, ing := range r.Ingredients {
		doc.Ingredients = append(doc.Ingredients, ing.Name)
	}
	return doc
}
