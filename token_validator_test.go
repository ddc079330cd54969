package portal_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	portal "github.com/openexams/portal"
)

func TestTokenValidatorFuncNil(t *testing.T) {
	var fn portal.TokenValidatorFunc

	_, err := fn.Validate("anything")
	assert.ErrorIs(t, err, portal.ErrUnableToDecodeSession)
}

func TestTokenValidatorFuncDelegates(t *testing.T) {
	svc := newTestTokenService(3600)
	fn := portal.TokenValidatorFunc(svc.Validate)

	token, err := svc.Generate(MockIdentity{IDValue: "user-1", RoleValue: portal.RoleStudent})
	require.NoError(t, err)

	claims, err := fn.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID())
}

func TestMultiTokenValidatorKeyRotation(t *testing.T) {
	oldKey := portal.NewTokenService([]byte("old-secret"), 3600, "exam-portal", nil, testLogger{})
	newKey := portal.NewTokenService([]byte("new-secret"), 3600, "exam-portal", nil, testLogger{})

	// tokens issued before the rotation still validate through the chain
	multi := portal.NewMultiTokenValidator(newKey, oldKey)

	oldToken, err := oldKey.Generate(MockIdentity{IDValue: "user-1", RoleValue: portal.RoleAdmin})
	require.NoError(t, err)

	newToken, err := newKey.Generate(MockIdentity{IDValue: "user-2", RoleValue: portal.RoleStudent})
	require.NoError(t, err)

	claims, err := multi.Validate(oldToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID())

	claims, err = multi.Validate(newToken)
	require.NoError(t, err)
	assert.Equal(t, "user-2", claims.UserID())
}

func TestMultiTokenValidatorAllFail(t *testing.T) {
	first := portal.NewTokenService([]byte("key-one"), 3600, "exam-portal", nil, testLogger{})
	second := portal.NewTokenService([]byte("key-two"), 3600, "exam-portal", nil, testLogger{})

	multi := portal.NewMultiTokenValidator(first, second)

	_, err := multi.Validate("definitely.not.valid")
	require.Error(t, err)
	assert.True(t, portal.IsMalformedError(err))
}

func TestMultiTokenValidatorFiltersNil(t *testing.T) {
	svc := newTestTokenService(3600)
	multi := portal.NewMultiTokenValidator(nil, svc, nil)

	token, err := svc.Generate(MockIdentity{IDValue: "user-1", RoleValue: portal.RoleStudent})
	require.NoError(t, err)

	_, err = multi.Validate(token)
	assert.NoError(t, err)
}

func TestMultiTokenValidatorEmpty(t *testing.T) {
	multi := portal.NewMultiTokenValidator()

	_, err := multi.Validate("anything")
	assert.ErrorIs(t, err, portal.ErrTokenMalformed)
}
