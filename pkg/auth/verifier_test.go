package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"
const testIssuer = "local-auth0"

func signToken(t *testing.T, secret, issuer, email string) string {
	claims := jwt.MapClaims{
		"iss": issuer,
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	if email != "" {
		claims["email"] = email
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestVerifyExtractsEmail(t *testing.T) {
	v := NewJWTVerifier(testSecret, testIssuer)

	email, err := v.Verify(signToken(t, testSecret, testIssuer, "alice@example.com"))
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", email)
}

func TestVerifyRejectsEmptyToken(t *testing.T) {
	v := NewJWTVerifier(testSecret, testIssuer)

	_, err := v.Verify("")
	assert.Equal(t, ErrInvalidToken, err)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	v := NewJWTVerifier(testSecret, testIssuer)

	_, err := v.Verify(signToken(t, "other-secret", testIssuer, "alice@example.com"))
	assert.Equal(t, ErrInvalidToken, err)
}

func TestVerifyRejectsWrongIssuer(t *testing.T) {
	v := NewJWTVerifier(testSecret, testIssuer)

	_, err := v.Verify(signToken(t, testSecret, "someone-else", "alice@example.com"))
	assert.Equal(t, ErrInvalidToken, err)
}

func TestVerifyRejectsMissingEmailClaim(t *testing.T) {
	v := NewJWTVerifier(testSecret, testIssuer)

	_, err := v.Verify(signToken(t, testSecret, testIssuer, ""))
	assert.Equal(t, ErrInvalidToken, err)
}
