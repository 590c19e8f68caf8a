// Package credential turns the raw fragment relayed by the loopback bridge
// into an oauth2.Token.
package credential

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/go-auth-bridge/internal/errors"
	"golang.org/x/oauth2"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// Parse reads an implicit-grant fragment such as
// "access_token=...&token_type=Bearer&expires_in=3599&scope=...". A leading
// '#' is ignored. All fragment parameters remain available via Token.Extra.
func Parse(payload string) (*oauth2.Token, error) {
	payload = strings.TrimPrefix(strings.TrimSpace(payload), "#")
	values, err := url.ParseQuery(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrInvalidCredential, err)
	}

	if code := values.Get("error"); code != "" {
		if desc := values.Get("error_description"); desc != "" {
			return nil, fmt.Errorf("%w: %s: %s", errors.ErrProviderDenied, code, desc)
		}
		return nil, fmt.Errorf("%w: %s", errors.ErrProviderDenied, code)
	}

	accessToken := values.Get("access_token")
	if accessToken == "" {
		return nil, errors.ErrMissingAccessToken
	}

	tok := &oauth2.Token{
		AccessToken:  accessToken,
		TokenType:    values.Get("token_type"),
		RefreshToken: values.Get("refresh_token"),
	}
	if raw := values.Get("expires_in"); raw != "" {
		seconds, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || seconds < 0 {
			return nil, fmt.Errorf("%w: invalid expires_in %q", errors.ErrInvalidCredential, raw)
		}
		tok.Expiry = NowTimeFunc().Add(time.Duration(seconds) * time.Second)
	}
	return tok.WithExtra(values), nil
}

// Scopes returns the granted scopes, which may be fewer than requested.
func Scopes(tok *oauth2.Token) []string {
	scope, _ := tok.Extra("scope").(string)
	return strings.Fields(scope)
}

// IDTokenClaims decodes the id_token returned alongside the access token
// (response_type "token id_token"). The signature is NOT verified; use the
// claims for display only.
func IDTokenClaims(tok *oauth2.Token) (jwt.MapClaims, error) {
	raw, _ := tok.Extra("id_token").(string)
	if raw == "" {
		return nil, fmt.Errorf("%w: no id_token", errors.ErrInvalidCredential)
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrInvalidCredential, err)
	}
	return claims, nil
}
