package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodgramapp/foodgram-server/internal/domain"
	domainerrors "github.com/foodgramapp/foodgram-server/internal/errors"
)

func TestSubscriptionService_SubscribeUnsubscribe(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	alice := env.member(t, "alice")
	bob := env.member(t, "bob")
	tag := env.tag(t, "lunch", "#49B64E")
	rice := env.ingredient(t, "rice", "g")
	amount := IngredientAmount{ID: rice.ID, Amount: 100}
	env.recipe(t, bob, recipeRequest("Rice", []*domain.Tag{tag}, amount))
	newest := env.recipe(t, bob, recipeRequest("Fried rice", []*domain.Tag{tag}, amount))

	sub, err := env.subscriptions.Subscribe(ctx, alice, bob.UserID, 1)
	require.NoError(t, err)
	assert.Equal(t, bob.UserID, sub.ID)
	assert.True(t, sub.IsSubscribed)
	assert.Equal(t, 2, sub.RecipesCount)
	require.Len(t, sub.Recipes, 1)
	assert.Equal(t, newest.ID, sub.Recipes[0].ID)

	_, err = env.subscriptions.Subscribe(ctx, alice, bob.UserID, 0)
	assertCode(t, err, domainerrors.CodeConflict)

	page, err := env.subscriptions.List(ctx, alice, ListSubscriptionsRequest{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "bob", page.Items[0].Username)
	assert.Len(t, page.Items[0].Recipes, 2)

	require.NoError(t, env.subscriptions.Unsubscribe(ctx, alice, bob.UserID))
	assertCode(t, env.subscriptions.Unsubscribe(ctx, alice, bob.UserID), domainerrors.CodeConflict)

	page, err = env.subscriptions.List(ctx, alice, ListSubscriptionsRequest{})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}

func TestSubscriptionService_Self(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	alice := env.member(t, "alice")

	_, err := env.subscriptions.Subscribe(ctx, alice, alice.UserID, 0)
	de := assertCode(t, err, domainerrors.CodeValidation)
	assert.Equal(t, "cannot subscribe to yourself", de.Message)
}

func TestSubscriptionService_Errors(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	alice := env.member(t, "alice")

	_, err := env.subscriptions.Subscribe(ctx, alice, "usr_missing", 0)
	assertCode(t, err, domainerrors.CodeNotFound)

	_, err = env.subscriptions.Subscribe(ctx, testAnonymous, alice.UserID, 0)
	assertCode(t, err, domainerrors.CodeUnauthorized)

	_, err = env.subscriptions.List(ctx, testAnonymous, ListSubscriptionsRequest{})
	assertCode(t, err, domainerrors.CodeUnauthorized)
}
