package portal_test

import (
	"fmt"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"

	portal "github.com/openexams/portal"
)

func TestSentinelErrorCodes(t *testing.T) {
	// the missing/invalid split: no token at all is 401, everything else 403
	assert.Equal(t, goerrors.CodeUnauthorized, portal.ErrTokenMissing.Code)
	assert.Equal(t, goerrors.CodeForbidden, portal.ErrTokenExpired.Code)
	assert.Equal(t, goerrors.CodeForbidden, portal.ErrTokenMalformed.Code)
	assert.Equal(t, goerrors.CodeForbidden, portal.ErrRoleMismatch.Code)
	assert.Equal(t, goerrors.CodeUnauthorized, portal.ErrInvalidCredentials.Code)
	assert.Equal(t, goerrors.CodeConflict, portal.ErrDuplicateIdentity.Code)
}

func TestIsTokenExpiredError(t *testing.T) {
	assert.True(t, portal.IsTokenExpiredError(portal.ErrTokenExpired))
	assert.True(t, portal.IsTokenExpiredError(fmt.Errorf("jwt: token is expired by 3h")))
	assert.False(t, portal.IsTokenExpiredError(portal.ErrTokenMalformed))
	assert.False(t, portal.IsTokenExpiredError(nil))
}

func TestIsMalformedError(t *testing.T) {
	assert.True(t, portal.IsMalformedError(portal.ErrTokenMalformed))
	assert.True(t, portal.IsMalformedError(fmt.Errorf("jwt: token is malformed")))
	assert.False(t, portal.IsMalformedError(portal.ErrTokenExpired))
	assert.False(t, portal.IsMalformedError(nil))
}

func TestIsConflictError(t *testing.T) {
	assert.True(t, portal.IsConflictError(portal.ErrDuplicateIdentity))
	assert.True(t, portal.IsConflictError(portal.NewDuplicateIdentityError(nil)))

	// driver level unique violations count as conflicts too
	assert.True(t, portal.IsConflictError(fmt.Errorf("UNIQUE constraint failed: users.student_id")))
	assert.True(t, portal.IsConflictError(fmt.Errorf(`duplicate key value violates unique constraint "idx_users_admin_email"`)))

	assert.False(t, portal.IsConflictError(fmt.Errorf("connection refused")))
	assert.False(t, portal.IsConflictError(nil))
}

func TestNewDuplicateIdentityError(t *testing.T) {
	err := portal.NewDuplicateIdentityError(map[string]any{"student_id": "S-100"})

	assert.Equal(t, goerrors.CategoryConflict, err.Category)
	assert.Equal(t, portal.TextCodeDuplicateIdentity, err.TextCode)
	assert.Equal(t, "S-100", err.Metadata["student_id"])

	// building the rich error must not touch the shared sentinel
	assert.Nil(t, portal.ErrDuplicateIdentity.Metadata)
}
