package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodgramapp/foodgram-server/internal/domain"
	domainerrors "github.com/foodgramapp/foodgram-server/internal/errors"
)

func TestCartService_ShoppingList(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	alice := env.member(t, "alice")
	bob := env.member(t, "bob")
	tag := env.tag(t, "breakfast", "#E26C2D")
	flour := env.ingredient(t, "flour", "g")
	egg := env.ingredient(t, "egg", "pcs")

	list, err := env.cart.ShoppingList(ctx, bob)
	require.NoError(t, err)
	assert.Equal(t, "", list)

	pancakes := env.recipe(t, alice, recipeRequest("Pancakes", []*domain.Tag{tag},
		IngredientAmount{ID: flour.ID, Amount: 100},
		IngredientAmount{ID: egg.ID, Amount: 2},
	))
	bread := env.recipe(t, alice, recipeRequest("Bread", []*domain.Tag{tag},
		IngredientAmount{ID: flour.ID, Amount: 150},
	))

	_, err = env.cart.Add(ctx, bob, pancakes.ID)
	require.NoError(t, err)
	_, err = env.cart.Add(ctx, bob, bread.ID)
	require.NoError(t, err)

	_, err = env.cart.Add(ctx, bob, bread.ID)
	assertCode(t, err, domainerrors.CodeConflict)

	list, err = env.cart.ShoppingList(ctx, bob)
	require.NoError(t, err)
	assert.Equal(t, "• flour (g) - 250\n• egg (pcs) - 2", list)

	got, err := env.recipes.Get(ctx, bob, bread.ID)
	require.NoError(t, err)
	assert.True(t, got.IsInShoppingCart)
	assert.False(t, got.IsFavorited)

	require.NoError(t, env.cart.Remove(ctx, bob, pancakes.ID))
	list, err = env.cart.ShoppingList(ctx, bob)
	require.NoError(t, err)
	assert.Equal(t, "• flour (g) - 150", list)

	// Deleting a recipe drops it from every cart.
	require.NoError(t, env.recipes.Delete(ctx, alice, bread.ID))
	list, err = env.cart.ShoppingList(ctx, bob)
	require.NoError(t, err)
	assert.Equal(t, "", list)

	_, err = env.cart.ShoppingList(ctx, testAnonymous)
	assertCode(t, err, domainerrors.CodeUnauthorized)
}
