// Package identity looks up who signed in, using the access token captured by
// the loopback bridge.
package identity

import (
	"context"
	"errors"
	"sync"

	"github.com/coreos/go-oidc/v3/oidc"
	autherrors "github.com/jrsteele09/go-auth-bridge/internal/errors"
	"golang.org/x/oauth2"
)

// Profile is the subset of the OIDC userinfo response the application shows.
type Profile struct {
	Subject       string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// Resolver discovers the provider on first use and caches it.
type Resolver struct {
	issuer string

	mu       sync.Mutex
	provider *oidc.Provider
}

func NewResolver(issuer string) (*Resolver, error) {
	if issuer == "" {
		return nil, errors.New("[identity NewResolver] issuer is required")
	}
	return &Resolver{issuer: issuer}, nil
}

func (r *Resolver) getProvider(ctx context.Context) (*oidc.Provider, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.provider != nil {
		return r.provider, nil
	}
	p, err := oidc.NewProvider(ctx, r.issuer)
	if err != nil {
		return nil, autherrors.Wrapf(err, "[identity Resolver] failed to discover %s", r.issuer)
	}
	r.provider = p
	return p, nil
}

// UserInfo calls the provider's userinfo endpoint with tok.
func (r *Resolver) UserInfo(ctx context.Context, tok *oauth2.Token) (*Profile, error) {
	if tok == nil || tok.AccessToken == "" {
		return nil, errors.New("[identity UserInfo] access token is required")
	}
	p, err := r.getProvider(ctx)
	if err != nil {
		return nil, err
	}
	info, err := p.UserInfo(ctx, oauth2.StaticTokenSource(tok))
	if err != nil {
		return nil, autherrors.Wrapf(err, "[identity UserInfo]")
	}

	var claims struct {
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := info.Claims(&claims); err != nil {
		return nil, autherrors.Wrapf(err, "[identity UserInfo] failed to decode claims")
	}
	return &Profile{
		Subject:       info.Subject,
		Email:         info.Email,
		EmailVerified: info.EmailVerified,
		Name:          claims.Name,
		Picture:       claims.Picture,
	}, nil
}
