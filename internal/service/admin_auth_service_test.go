package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminLogin(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)

	svc := NewAdminAuthService("Admin@Example.com", hash, "signing-key")

	signed, err := svc.Login("admin@example.com", "s3cret")
	require.NoError(t, err)

	claims := jwt.MapClaims{}
	tok, err := jwt.ParseWithClaims(signed, claims, func(t *jwt.Token) (any, error) {
		return []byte("signing-key"), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	require.NoError(t, err)
	assert.True(t, tok.Valid)
	assert.Equal(t, "admin@example.com", claims["email"])

	exp, err := claims.GetExpirationTime()
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(TokenTTL), exp.Time, time.Minute)
}

func TestAdminLoginRejectsBadCredentials(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	svc := NewAdminAuthService("admin@example.com", hash, "signing-key")

	_, err = svc.Login("admin@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login("someone@example.com", "s3cret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAdminLoginWithoutSecretOrAccount(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)

	_, err = NewAdminAuthService("admin@example.com", hash, "").Login("admin@example.com", "s3cret")
	assert.ErrorIs(t, err, ErrJWTSecretMissing)

	_, err = NewAdminAuthService("", "", "signing-key").Login("", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
