package provider_test

import (
	"net/url"
	"testing"

	"github.com/jrsteele09/go-auth-bridge/internal/config"
	"github.com/jrsteele09/go-auth-bridge/provider"
	"github.com/jrsteele09/go-auth-bridge/session"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestProvider_AuthURL(t *testing.T) {
	p, err := provider.New("client-1", "https://accounts.example.com/o/oauth2/v2/auth",
		[]string{"https://www.googleapis.com/auth/drive.file", "https://www.googleapis.com/auth/userinfo.email"})
	require.NoError(t, err)

	raw := p.AuthURL(session.Info{Port: 3000, State: "state-1"})
	u, err := url.Parse(raw)
	require.NoError(t, err)

	require.Equal(t, "accounts.example.com", u.Host)
	require.Equal(t, "/o/oauth2/v2/auth", u.Path)

	q := u.Query()
	require.Equal(t, "client-1", q.Get("client_id"))
	require.Equal(t, "token", q.Get("response_type"))
	require.Equal(t, "http://127.0.0.1:3000/", q.Get("redirect_uri"))
	require.Equal(t, "state-1", q.Get("state"))
	require.Equal(t, "https://www.googleapis.com/auth/drive.file https://www.googleapis.com/auth/userinfo.email", q.Get("scope"))
}

func TestProvider_AuthURLOptions(t *testing.T) {
	p, err := provider.New("client-1", "https://auth.example.com/authorize", nil, provider.WithRedirectHost("localhost"))
	require.NoError(t, err)

	raw := p.AuthURL(session.Info{Port: 51234, State: "s"}, oauth2.SetAuthURLParam("prompt", "select_account"))
	u, err := url.Parse(raw)
	require.NoError(t, err)

	q := u.Query()
	require.Equal(t, "http://localhost:51234/", q.Get("redirect_uri"))
	require.Equal(t, "select_account", q.Get("prompt"))
	require.Empty(t, q.Get("scope"))
}

func TestFromConfig(t *testing.T) {
	cfg, err := config.Parse(map[string]string{"OAUTH_CLIENT_ID": "abc"})
	require.NoError(t, err)

	p, err := provider.FromConfig(cfg)
	require.NoError(t, err)

	u, err := url.Parse(p.AuthURL(session.Info{Port: 3000, State: "s"}))
	require.NoError(t, err)
	require.Equal(t, "accounts.google.com", u.Host)
	require.Equal(t, "abc", u.Query().Get("client_id"))
	require.Contains(t, u.Query().Get("scope"), "drive.file")
}

func TestNew_Validation(t *testing.T) {
	_, err := provider.New("", "https://auth.example.com", nil)
	require.Error(t, err)

	_, err = provider.New("client", "", nil)
	require.Error(t, err)
}
