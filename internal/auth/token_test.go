package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifecheck/survey/internal/models"
)

func testUser() models.User {
	return models.User{ID: 42, Username: "alice", IsAdmin: true}
}

func TestIssueAndVerify(t *testing.T) {
	tm := NewTokenManager("test-secret", "survey-backend")

	token, err := tm.Issue(testUser(), time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := tm.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.True(t, claims.IsAdmin)
	assert.Equal(t, "survey-backend", claims.Issuer)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	tm := NewTokenManager("test-secret", "survey-backend")

	token, err := tm.Issue(testUser(), -time.Minute)
	require.NoError(t, err)

	_, err = tm.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	tm := NewTokenManager("test-secret", "survey-backend")
	other := NewTokenManager("other-secret", "survey-backend")

	token, err := tm.Issue(testUser(), time.Hour)
	require.NoError(t, err)

	_, err = other.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsWrongIssuer(t *testing.T) {
	tm := NewTokenManager("test-secret", "someone-else")
	verifier := NewTokenManager("test-secret", "survey-backend")

	token, err := tm.Issue(testUser(), time.Hour)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	tm := NewTokenManager("test-secret", "survey-backend")

	_, err := tm.Verify("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
