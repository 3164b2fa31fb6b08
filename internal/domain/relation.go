package domain

import "time"

// Relation names a (user, recipe) membership fact.
type Relation string

const (
	// RelationFavorite marks a recipe as a favorite of the user.
	RelationFavorite Relation = "favorite"
	// RelationShoppingCart marks a recipe for the user's shopping list.
	RelationShoppingCart Relation = "shopping_cart"
)

// Valid reports whether r is a known relation.
func (r Relation) Valid() bool {
	return r == RelationFavorite || r == RelationShoppingCart
}

// Subscription records that UserID follows AuthorID.
type Subscription struct {
	UserID    string
	AuthorID  string
	CreatedAt time.Time
}
