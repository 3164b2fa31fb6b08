package store

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_IsSurvivesWithCause(t *testing.T) {
	cause := errors.New("UNIQUE constraint failed: recipes.author_id, recipes.name")
	err := ErrAlreadyExists.WithCause(cause)

	assert.ErrorIs(t, err, ErrAlreadyExists)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Equal(t, http.StatusConflict, err.HTTPCode())
}

func TestError_WithMessage(t *testing.T) {
	err := ErrNotFound.WithMessage("recipe not found")

	assert.Equal(t, "recipe not found", err.Error())
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Equal(t, http.StatusNotFound, err.HTTPCode())
}
