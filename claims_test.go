package portal_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"

	portal "github.com/openexams/portal"
)

func TestJWTClaimsAccessors(t *testing.T) {
	issued := time.Now().Truncate(time.Second)
	expires := issued.Add(time.Hour)

	claims := &portal.JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "subject-1",
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
		UID:      "uid-1",
		UserRole: portal.RoleAdmin,
	}

	assert.Equal(t, "subject-1", claims.Subject())
	assert.Equal(t, "uid-1", claims.UserID())
	assert.Equal(t, portal.RoleAdmin, claims.Role())
	assert.True(t, claims.Expires().Equal(expires))
	assert.True(t, claims.IssuedAt().Equal(issued))
}

func TestJWTClaimsUserIDFallsBackToSubject(t *testing.T) {
	claims := &portal.JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "subject-1"},
	}

	assert.Equal(t, "subject-1", claims.UserID())
}

func TestJWTClaimsHasRoleIsExact(t *testing.T) {
	claims := &portal.JWTClaims{UserRole: portal.RoleStudent}

	assert.True(t, claims.HasRole(portal.RoleStudent))
	assert.False(t, claims.HasRole(portal.RoleAdmin))
	// empty requirement only asserts a valid session
	assert.True(t, claims.HasRole(""))
}

func TestJWTClaimsZeroTimes(t *testing.T) {
	claims := &portal.JWTClaims{}

	assert.True(t, claims.Expires().IsZero())
	assert.True(t, claims.IssuedAt().IsZero())
}
