package jwt

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	userID := uuid.New()
	orgID := uuid.New()

	token, err := GenerateToken(userID, "alice", &orgID, "owner", "v1")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	require.NotNil(t, claims.OrganizationID)
	assert.Equal(t, orgID, *claims.OrganizationID)
	assert.Equal(t, "owner", claims.Role)
	assert.Equal(t, "v1", claims.TokenVersion)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	_, err := ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	token, err := GenerateToken(uuid.New(), "bob", nil, "cashier", "v1")
	require.NoError(t, err)

	_, err = ValidateToken(token + "x")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
