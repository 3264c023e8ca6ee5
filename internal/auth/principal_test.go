package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SantaTabla/Shop-Backend/internal/auth"
	"github.com/SantaTabla/Shop-Backend/internal/config"
)

func TestNewPrincipalRequiresAllFields(t *testing.T) {
	cases := []struct {
		name                  string
		id, cart, role, email string
		wantErr               bool
	}{
		{"complete", "u-1", "cart-1", auth.RoleUser, "a@b.com", false},
		{"missing id", "", "cart-1", auth.RoleUser, "a@b.com", true},
		{"missing cart", "u-1", "", auth.RoleUser, "a@b.com", true},
		{"missing role", "u-1", "cart-1", "", "a@b.com", true},
		{"missing email", "u-1", "cart-1", auth.RoleUser, "", true},
		{"admin without cart", auth.AdminID, "", auth.RoleAdmin, "admin@shop.com", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := auth.NewPrincipal(tc.id, tc.cart, tc.role, tc.email)
			if tc.wantErr {
				assert.True(t, auth.IsKind(err, auth.KindInternal), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.id, p.ID)
		})
	}
}

func TestAdminPrincipal(t *testing.T) {
	p := auth.AdminPrincipal(config.AdminConfig{Email: "admin@shop.com"})

	assert.Equal(t, auth.AdminID, p.ID)
	assert.Equal(t, auth.RoleAdmin, p.Role)
	assert.Empty(t, p.Cart)
	assert.True(t, p.IsAdmin())
}

func TestPrincipalFromUser(t *testing.T) {
	email := "dana@example.com"
	cart := "cart-1"
	u := &auth.User{UserID: "u-1", Email: &email, CartID: &cart, Role: auth.RoleUser}

	p, err := auth.PrincipalFromUser(u)
	require.NoError(t, err)
	assert.Equal(t, auth.Principal{ID: "u-1", Cart: "cart-1", Role: auth.RoleUser, Email: email}, p)
	assert.False(t, p.IsAdmin())

	// A stored record without a cart is an invalid principal.
	u.CartID = nil
	_, err = auth.PrincipalFromUser(u)
	assert.Error(t, err)
}
