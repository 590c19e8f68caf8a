package credential_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/go-auth-bridge/credential"
	"github.com/jrsteele09/go-auth-bridge/internal/errors"
	"github.com/stretchr/testify/require"
)

func fixedNow(t *testing.T) time.Time {
	t.Helper()
	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	prev := credential.NowTimeFunc
	credential.NowTimeFunc = func() time.Time { return now }
	t.Cleanup(func() { credential.NowTimeFunc = prev })
	return now
}

func TestParse(t *testing.T) {
	now := fixedNow(t)

	tok, err := credential.Parse("#access_token=ya29.abc&token_type=Bearer&expires_in=3599&scope=email%20https://www.googleapis.com/auth/drive.file&state=s1")
	require.NoError(t, err)

	require.Equal(t, "ya29.abc", tok.AccessToken)
	require.Equal(t, "Bearer", tok.TokenType)
	require.Equal(t, now.Add(3599*time.Second), tok.Expiry)
	require.Equal(t, "s1", tok.Extra("state"))
	require.Equal(t, []string{"email", "https://www.googleapis.com/auth/drive.file"}, credential.Scopes(tok))
}

func TestParse_Minimal(t *testing.T) {
	tok, err := credential.Parse("access_token=abc123&token_type=Bearer")
	require.NoError(t, err)
	require.Equal(t, "abc123", tok.AccessToken)
	require.True(t, tok.Expiry.IsZero())
	require.Empty(t, credential.Scopes(tok))
}

func TestParse_Errors(t *testing.T) {
	t.Run("provider error", func(t *testing.T) {
		_, err := credential.Parse("error=access_denied&error_description=User+denied&state=s")
		require.True(t, errors.Is(err, errors.ErrProviderDenied))
		require.Contains(t, err.Error(), "access_denied: User denied")
	})

	t.Run("provider error without description", func(t *testing.T) {
		_, err := credential.Parse("error=access_denied")
		require.True(t, errors.Is(err, errors.ErrProviderDenied))
	})

	t.Run("empty payload", func(t *testing.T) {
		_, err := credential.Parse("")
		require.True(t, errors.Is(err, errors.ErrMissingAccessToken))
	})

	t.Run("bad expires_in", func(t *testing.T) {
		_, err := credential.Parse("access_token=a&expires_in=soon")
		require.True(t, errors.Is(err, errors.ErrInvalidCredential))
	})

	t.Run("malformed query", func(t *testing.T) {
		_, err := credential.Parse("access_token=%zz")
		require.True(t, errors.Is(err, errors.ErrInvalidCredential))
	})
}

func TestIDTokenClaims(t *testing.T) {
	idToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   "user-1",
		"email": "john.doe@example.com",
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	tok, err := credential.Parse("access_token=a&id_token=" + idToken)
	require.NoError(t, err)

	claims, err := credential.IDTokenClaims(tok)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims["sub"])
	require.Equal(t, "john.doe@example.com", claims["email"])

	t.Run("missing", func(t *testing.T) {
		tok, err := credential.Parse("access_token=a")
		require.NoError(t, err)
		_, err = credential.IDTokenClaims(tok)
		require.True(t, errors.Is(err, errors.ErrInvalidCredential))
	})

	t.Run("garbage", func(t *testing.T) {
		tok, err := credential.Parse("access_token=a&id_token=not.a.jwt")
		require.NoError(t, err)
		_, err = credential.IDTokenClaims(tok)
		require.Error(t, err)
	})
}
