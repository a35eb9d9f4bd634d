package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() *JWTService {
	return NewJWTService(JWTConfig{
		SecretKey:   "test-secret",
		TokenIssuer: "courseselect.test",
	})
}

func TestIssueAndValidateToken(t *testing.T) {
	svc := newTestService()

	token, err := svc.IssueToken(7, "student@courseselect.local", "STUDENT", time.Hour)
	require.NoError(t, err)

	claims, err := svc.ValidateAndExtractClaims(token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, "student@courseselect.local", claims.Email)
	assert.Equal(t, "STUDENT", claims.RoleType)
	assert.Equal(t, "courseselect.test", claims.Issuer)
}

func TestValidateTokenExpired(t *testing.T) {
	svc := newTestService()

	token, err := svc.IssueToken(7, "student@courseselect.local", "STUDENT", -time.Minute)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, err := newTestService().IssueToken(7, "student@courseselect.local", "STUDENT", time.Hour)
	require.NoError(t, err)

	other := NewJWTService(JWTConfig{SecretKey: "different-secret", TokenIssuer: "courseselect.test"})
	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenWrongIssuer(t *testing.T) {
	issued := NewJWTService(JWTConfig{SecretKey: "test-secret", TokenIssuer: "somewhere-else"})
	token, err := issued.IssueToken(7, "student@courseselect.local", "STUDENT", time.Hour)
	require.NoError(t, err)

	_, err = newTestService().ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateAndExtractClaimsRejectsEmpty(t *testing.T) {
	_, err := newTestService().ValidateAndExtractClaims("")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExtractBearerToken(t *testing.T) {
	token, err := ExtractBearerToken("Bearer abc.def.ghi")
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)

	// A bare token is accepted as-is
	token, err = ExtractBearerToken("abc.def.ghi")
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)

	_, err = ExtractBearerToken("")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}
