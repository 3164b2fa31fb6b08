package store

// RecipeFilter narrows a recipe listing. Empty fields do not filter.
// Results are always ordered newest first.
type RecipeFilter struct {
	AuthorID    string
	TagSlugs    []string // match any
	FavoritedBy string   // user id
	InCartOf    string   // user id
	PageParams
}

// UserFilter narrows a user listing.
type UserFilter struct {
	Search string // username substring
	PageParams
}
