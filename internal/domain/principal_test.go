package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPrincipal(t *testing.T) {
	tests := []struct {
		name      string
		principal Principal
		anonymous bool
		admin     bool
	}{
		{"anonymous", Anonymous, true, false},
		{"member", Principal{UserID: "user-1", Role: RoleMember}, false, false},
		{"admin", Principal{UserID: "user-2", Role: RoleAdmin}, false, true},
		{"role without user is still anonymous", Principal{Role: RoleAdmin}, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.anonymous, tt.principal.IsAnonymous())
			assert.Equal(t, tt.admin, tt.principal.IsAdmin())
		})
	}
}

func TestPrincipal_Is(t *testing.T) {
	p := Principal{UserID: "user-1"}

	assert.True(t, p.Is("user-1"))
	assert.False(t, p.Is("user-2"))
	assert.False(t, Anonymous.Is(""), "anonymous never matches, even an empty owner")
}

func TestPrincipalOf(t *testing.T) {
	assert.Equal(t, Anonymous, PrincipalOf(nil))

	u := &User{Entity: Entity{ID: "user-9"}, Role: RoleAdmin}
	assert.Equal(t, Principal{UserID: "user-9", Role: RoleAdmin}, PrincipalOf(u))
}

func TestSession_IsExpired(t *testing.T) {
	assert.True(t, (&Session{ExpiresAt: time.Now().Add(-time.Minute)}).IsExpired())
	assert.False(t, (&Session{ExpiresAt: time.Now().Add(time.Hour)}).IsExpired())
}

func TestRelation_Valid(t *testing.T) {
	assert.True(t, RelationFavorite.Valid())
	assert.True(t, RelationShoppingCart.Valid())
	assert.False(t, Relation("wishlist").Valid())
}
