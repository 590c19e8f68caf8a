// Package provider builds the implicit-grant authorization URL for a session.
package provider

import (
	"errors"

	"github.com/jrsteele09/go-auth-bridge/internal/config"
	"github.com/jrsteele09/go-auth-bridge/loopback"
	"github.com/jrsteele09/go-auth-bridge/session"
	"golang.org/x/oauth2"
)

// ResponseTypeToken asks the provider to return the access token in the
// redirect fragment.
const ResponseTypeToken = "token"

type Provider struct {
	oauthConfig  oauth2.Config
	redirectHost string
}

// Option defines a function type to modify the Provider instance.
type Option func(*Provider)

// WithRedirectHost sets the host used in redirect_uri. It must match the
// registered redirect URI exactly; "localhost" and "127.0.0.1" differ.
func WithRedirectHost(host string) Option {
	return func(p *Provider) {
		p.redirectHost = host
	}
}

func New(clientID, authURL string, scopes []string, options ...Option) (*Provider, error) {
	if clientID == "" {
		return nil, errors.New("[provider New] client id is required")
	}
	if authURL == "" {
		return nil, errors.New("[provider New] authorization url is required")
	}
	p := &Provider{
		oauthConfig: oauth2.Config{
			ClientID: clientID,
			Endpoint: oauth2.Endpoint{AuthURL: authURL},
			Scopes:   append([]string(nil), scopes...),
		},
		redirectHost: loopback.DefaultHost,
	}
	for _, opt := range options {
		opt(p)
	}
	return p, nil
}

// FromConfig builds a Provider whose redirect host is the loopback host.
func FromConfig(cfg interface {
	config.OAuthConfig
	config.LoopbackConfig
}) (*Provider, error) {
	return New(cfg.GetClientID(), cfg.GetAuthURL(), cfg.GetScopes(), WithRedirectHost(cfg.GetLoopbackHost()))
}

// AuthURL returns the URL the browser must open for the session.
func (p *Provider) AuthURL(info session.Info, opts ...oauth2.AuthCodeOption) string {
	c := p.oauthConfig
	c.RedirectURL = info.RedirectURL(p.redirectHost)
	opts = append([]oauth2.AuthCodeOption{oauth2.SetAuthURLParam("response_type", ResponseTypeToken)}, opts...)
	return c.AuthCodeURL(info.State, opts...)
}
