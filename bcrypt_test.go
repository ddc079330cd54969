package portal_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	portal "github.com/openexams/portal"
)

func TestHashPasswordAndCompare(t *testing.T) {
	hash, err := portal.HashPassword("s3cret-password")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "s3cret-password", hash)

	assert.NoError(t, portal.ComparePasswordAndHash("s3cret-password", hash))
}

func TestComparePasswordMismatch(t *testing.T) {
	hash, err := portal.HashPassword("correct-password")
	require.NoError(t, err)

	err = portal.ComparePasswordAndHash("wrong-password", hash)
	require.Error(t, err)
	assert.ErrorIs(t, err, portal.ErrInvalidCredentials)
}

func TestHashPasswordEmpty(t *testing.T) {
	_, err := portal.HashPassword("")
	assert.ErrorIs(t, err, portal.ErrNoEmptyString)
}

func TestHashPasswordSalted(t *testing.T) {
	first, err := portal.HashPassword("same-password")
	require.NoError(t, err)

	second, err := portal.HashPassword("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}
