package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("super-secret")
	require.NoError(t, err)

	assert.NoError(t, CheckPassword(hash, "super-secret"))
	assert.Error(t, CheckPassword(hash, "wrong"))
}

func TestGenerateAndParseToken(t *testing.T) {
	principal := Principal{ID: 42, Role: RoleManager, DepartmentID: 3, Name: "Ada Lovelace", Email: "ada@example.com"}

	token, err := GenerateToken("test-secret", principal, time.Hour)
	require.NoError(t, err)

	parsed, err := ParseToken("test-secret", token)
	require.NoError(t, err)
	assert.Equal(t, principal, parsed)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, err := GenerateToken("one", Principal{ID: 1, Role: RoleCEO}, time.Hour)
	require.NoError(t, err)

	_, err = ParseToken("two", token)
	assert.Error(t, err)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	token, err := GenerateToken("secret", Principal{ID: 1, Role: RoleCEO}, -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken("secret", token)
	assert.Error(t, err)
}

func TestParseTokenRejectsUnknownRole(t *testing.T) {
	token, err := GenerateToken("secret", Principal{ID: 1, Role: "hr"}, time.Hour)
	require.NoError(t, err)

	_, err = ParseToken("secret", token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPrincipalHasRole(t *testing.T) {
	manager := Principal{ID: 7, Role: RoleManager}
	assert.True(t, manager.HasRole(RoleCEO, RoleManager))
	assert.False(t, manager.HasRole(RoleCEO))
	assert.False(t, Principal{}.HasRole(AllRoles...), "anonymous principal never matches")
}
