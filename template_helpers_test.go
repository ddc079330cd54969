package portal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTemplateHelpersRegistry(t *testing.T) {
	helpers := TemplateHelpers()

	assert.Contains(t, helpers, "is_authenticated")
	assert.Contains(t, helpers, "has_role")

	roles := TemplateRoles()
	assert.Equal(t, RoleStudent, roles["student"])
	assert.Equal(t, RoleAdmin, roles["admin"])
}

func TestIsAuthenticated(t *testing.T) {
	tests := []struct {
		name string
		user any
		want bool
	}{
		{"nil value", nil, false},
		{"user pointer", &User{Name: "Ada"}, true},
		{"nil user pointer", (*User)(nil), false},
		{"user value", User{Name: "Ada"}, true},
		{"session with user", &SessionObject{UserID: "user-1"}, true},
		{"session without user", &SessionObject{}, false},
		{"claims", &JWTClaims{UID: "user-1"}, true},
		{"empty claims", &JWTClaims{}, false},
		{"view map", map[string]any{"name": "Ada"}, true},
		{"empty view map", map[string]any{}, false},
		{"unrelated type", 42, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isAuthenticated(tt.user))
		})
	}
}

func TestHasTemplateRole(t *testing.T) {
	tests := []struct {
		name string
		user any
		role string
		want bool
	}{
		{"admin user pointer", &User{Role: RoleAdmin}, RoleAdmin, true},
		{"student user pointer", &User{Role: RoleStudent}, RoleAdmin, false},
		{"nil user pointer", (*User)(nil), RoleAdmin, false},
		{"user value", User{Role: RoleStudent}, RoleStudent, true},
		{"session", &SessionObject{UserID: "user-1", Role: RoleAdmin}, RoleAdmin, true},
		{"claims", &JWTClaims{UID: "user-1", UserRole: RoleStudent}, RoleStudent, true},
		{"claims wrong role", &JWTClaims{UID: "user-1", UserRole: RoleStudent}, RoleAdmin, false},
		{"view map", map[string]any{"role": RoleAdmin}, RoleAdmin, true},
		{"view map missing role", map[string]any{}, RoleAdmin, false},
		{"empty required role passes", &User{Role: RoleStudent}, "", true},
		{"unrelated type", "admin", RoleAdmin, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, hasTemplateRole(tt.user, tt.role))
		})
	}
}
