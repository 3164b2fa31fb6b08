package domain

import "time"

// Recipe is owned by its author. Name is unique per author.
// PubDate is set once at creation and never changes.
type Recipe struct {
	ID            string
	AuthorID      string
	Name          string
	Image         string // image storage key, e.g. <uuid>.jpg
	ImageBlurHash string
	Text          string
	CookingTime   int
	PubDate       time.Time
	UpdatedAt     time.Time

	Tags        []*Tag
	Ingredients []RecipeIngredient
}

// RecipeIngredient ties an ingredient to a recipe with a positive amount.
type RecipeIngredient struct {
	IngredientID    string `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

// TagIDs returns the ids of the recipe's tags in order.
func (r *Recipe) TagIDs() []string {
	ids := make([]string, len(r.Tags))
	for i, t := range r.Tags {
		ids[i] = t.ID
	}
	return ids
}
