// Package policy decides whether a principal may write a resource.
// Reads are public and never consult it.
package policy

import (
	"github.com/foodgramapp/foodgram-server/internal/domain"
	domainerrors "github.com/foodgramapp/foodgram-server/internal/errors"
)

// CanCreate allows any authenticated principal.
func CanCreate(p domain.Principal) error {
	if p.IsAnonymous() {
		return domainerrors.Unauthorized("authentication required")
	}
	return nil
}

// CanModifyRecipe allows only the author to update or delete a recipe.
// Admins get no exception.
func CanModifyRecipe(p domain.Principal, recipe *domain.Recipe) error {
	if err := CanCreate(p); err != nil {
		return err
	}
	if !p.Is(recipe.AuthorID) {
		return domainerrors.Forbidden("only the author can modify this recipe")
	}
	return nil
}

// CanAdminister allows admins only.
func CanAdminister(p domain.Principal) error {
	if err := CanCreate(p); err != nil {
		return err
	}
	if !p.IsAdmin() {
		return domainerrors.Forbidden("admin access required")
	}
	return nil
}
