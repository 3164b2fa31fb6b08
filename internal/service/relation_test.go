package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodgramapp/foodgram-server/internal/domain"
	domainerrors "github.com/foodgramapp/foodgram-server/internal/errors"
)

func TestFavoriteService_Toggle(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	alice := env.member(t, "alice")
	bob := env.member(t, "bob")
	tag := env.tag(t, "lunch", "#49B64E")
	rice := env.ingredient(t, "rice", "g")
	r := env.recipe(t, alice, recipeRequest("Rice", []*domain.Tag{tag}, IngredientAmount{ID: rice.ID, Amount: 100}))

	for i := 0; i < 2; i++ {
		short, err := env.favorites.Add(ctx, bob, r.ID)
		require.NoError(t, err)
		assert.Equal(t, r.ID, short.ID)
		assert.Equal(t, "Rice", short.Name)
		assert.Equal(t, r.Image, short.Image)
		assert.Equal(t, 15, short.CookingTime)

		got, err := env.recipes.Get(ctx, bob, r.ID)
		require.NoError(t, err)
		assert.True(t, got.IsFavorited)

		_, err = env.favorites.Add(ctx, bob, r.ID)
		assertCode(t, err, domainerrors.CodeConflict)

		require.NoError(t, env.favorites.Remove(ctx, bob, r.ID))

		got, err = env.recipes.Get(ctx, bob, r.ID)
		require.NoError(t, err)
		assert.False(t, got.IsFavorited)
	}

	assertCode(t, env.favorites.Remove(ctx, bob, r.ID), domainerrors.CodeConflict)
}

func TestFavoriteService_Errors(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	bob := env.member(t, "bob")

	_, err := env.favorites.Add(ctx, bob, "rcp_missing")
	assertCode(t, err, domainerrors.CodeNotFound)
	assertCode(t, env.favorites.Remove(ctx, bob, "rcp_missing"), domainerrors.CodeNotFound)

	_, err = env.favorites.Add(ctx, testAnonymous, "rcp_missing")
	assertCode(t, err, domainerrors.CodeUnauthorized)
}

func TestRelations_ScopedToCaller(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	alice := env.member(t, "alice")
	bob := env.member(t, "bob")
	carol := env.member(t, "carol")
	tag := env.tag(t, "lunch", "#49B64E")
	rice := env.ingredient(t, "rice", "g")
	r := env.recipe(t, alice, recipeRequest("Rice", []*domain.Tag{tag}, IngredientAmount{ID: rice.ID, Amount: 100}))

	_, err := env.favorites.Add(ctx, bob, r.ID)
	require.NoError(t, err)
	_, err = env.cart.Add(ctx, bob, r.ID)
	require.NoError(t, err)
	_, err = env.subscriptions.Subscribe(ctx, bob, alice.UserID, 0)
	require.NoError(t, err)

	// Another user removing the same target only touches their own rows.
	assertCode(t, env.favorites.Remove(ctx, carol, r.ID), domainerrors.CodeConflict)
	assertCode(t, env.cart.Remove(ctx, carol, r.ID), domainerrors.CodeConflict)
	assertCode(t, env.subscriptions.Unsubscribe(ctx, carol, alice.UserID), domainerrors.CodeConflict)

	got, err := env.recipes.Get(ctx, bob, r.ID)
	require.NoError(t, err)
	assert.True(t, got.IsFavorited)
	assert.True(t, got.IsInShoppingCart)

	// Adding as carol does not conflict with bob's rows.
	_, err = env.favorites.Add(ctx, carol, r.ID)
	require.NoError(t, err)
}
