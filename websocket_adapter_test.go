package portal_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	portal "github.com/openexams/portal"
)

func wsClaimsForRole(t *testing.T, role portal.UserRole) *portal.WSAuthClaimsAdapter {
	t.Helper()

	svc := newTestTokenService(3600)
	identity := MockIdentity{
		IDValue:   "9a2f8e7a-1c44-4bd0-8f2e-000000000001",
		NameValue: "Test User",
		RoleValue: role,
	}

	token, err := svc.Generate(identity)
	require.NoError(t, err)

	validator := portal.NewWSTokenValidator(svc)
	claims, err := validator.Validate(token)
	require.NoError(t, err)

	adapter, ok := claims.(*portal.WSAuthClaimsAdapter)
	require.True(t, ok)
	return adapter
}

func TestWSValidatorRejectsBadToken(t *testing.T) {
	svc := newTestTokenService(3600)
	validator := portal.NewWSTokenValidator(svc)

	claims, err := validator.Validate("not-a-jwt")
	require.Error(t, err)
	assert.Nil(t, claims)
	assert.True(t, portal.IsMalformedError(err))
}

func TestWSAdminPermissions(t *testing.T) {
	adapter := wsClaimsForRole(t, portal.RoleAdmin)

	assert.Equal(t, portal.RoleAdmin, adapter.Role())
	assert.Equal(t, "9a2f8e7a-1c44-4bd0-8f2e-000000000001", adapter.UserID())
	assert.True(t, adapter.CanRead("exams"))
	assert.True(t, adapter.CanCreate("exams"))
	assert.True(t, adapter.CanEdit("exams"))
	assert.True(t, adapter.CanDelete("exams"))
	assert.True(t, adapter.HasRole(portal.RoleAdmin))
	assert.False(t, adapter.HasRole(portal.RoleStudent))
	assert.True(t, adapter.IsAtLeast(portal.RoleAdmin))
	assert.False(t, adapter.IsAtLeast(portal.RoleStudent))
}

func TestWSStudentPermissions(t *testing.T) {
	adapter := wsClaimsForRole(t, portal.RoleStudent)

	assert.Equal(t, portal.RoleStudent, adapter.Role())
	assert.True(t, adapter.CanRead("exams"))
	assert.False(t, adapter.CanCreate("exams"))
	assert.False(t, adapter.CanEdit("exams"))
	assert.False(t, adapter.CanDelete("exams"))
	assert.True(t, adapter.IsAtLeast(portal.RoleStudent))
	assert.False(t, adapter.IsAtLeast(portal.RoleAdmin))
	// empty minimum is satisfied by any authenticated session
	assert.True(t, adapter.IsAtLeast(""))
}

func TestWSValidatorWithKeyRotation(t *testing.T) {
	oldSvc := portal.NewTokenService([]byte("old-secret-key"), 3600, "exam-portal", nil, testLogger{})
	newSvc := portal.NewTokenService([]byte("new-secret-key"), 3600, "exam-portal", nil, testLogger{})

	identity := MockIdentity{
		IDValue:   "9a2f8e7a-1c44-4bd0-8f2e-000000000002",
		NameValue: "Test User",
		RoleValue: portal.RoleStudent,
	}

	oldToken, err := oldSvc.Generate(identity)
	require.NoError(t, err)

	rotation := portal.NewMultiTokenValidator(newSvc, oldSvc)
	validator := portal.NewWSTokenValidator(rotation)

	claims, err := validator.Validate(oldToken)
	require.NoError(t, err)
	assert.Equal(t, portal.RoleStudent, claims.Role())
}
