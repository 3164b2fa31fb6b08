package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/foodgramapp/foodgram-server/internal/domain"
	domainerrors "github.com/foodgramapp/foodgram-server/internal/errors"
)

var (
	author = domain.Principal{UserID: "user-author", Role: domain.RoleMember}
	other  = domain.Principal{UserID: "user-other", Role: domain.RoleMember}
	admin  = domain.Principal{UserID: "user-admin", Role: domain.RoleAdmin}
	recipe = &domain.Recipe{ID: "recipe-1", AuthorID: "user-author"}
)

func TestCanCreate(t *testing.T) {
	assert.ErrorIs(t, CanCreate(domain.Anonymous), domainerrors.ErrUnauthorized)
	assert.NoError(t, CanCreate(other))
}

func TestCanModifyRecipe(t *testing.T) {
	tests := []struct {
		name      string
		principal domain.Principal
		want      error
	}{
		{"anonymous", domain.Anonymous, domainerrors.ErrUnauthorized},
		{"author", author, nil},
		{"other user", other, domainerrors.ErrForbidden},
		{"admin", admin, domainerrors.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CanModifyRecipe(tt.principal, recipe)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCanAdminister(t *testing.T) {
	assert.ErrorIs(t, CanAdminister(domain.Anonymous), domainerrors.ErrUnauthorized)
	assert.ErrorIs(t, CanAdminister(author), domainerrors.ErrForbidden)
	assert.NoError(t, CanAdminister(admin))
}
