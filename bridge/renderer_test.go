package bridge_test

import (
	"testing"

	"github.com/jrsteele09/go-auth-bridge/bridge"
	"github.com/stretchr/testify/require"
)

func TestRenderer_BridgePage(t *testing.T) {
	r, err := bridge.New("Raiden AI Authenticator", bridge.Vietnamese)
	require.NoError(t, err)

	page := string(r.BridgePage())
	require.Contains(t, page, `id="status"`)
	require.Contains(t, page, `id="spinner"`)
	require.Contains(t, page, `id="desc"`)
	require.Contains(t, page, "window.location.hash")
	require.Contains(t, page, "access_token")
	require.Contains(t, page, "Raiden AI Authenticator")
	require.Contains(t, page, bridge.Vietnamese.Processing)
	require.Contains(t, page, `lang="vi"`)
}

func TestRenderer_Deterministic(t *testing.T) {
	a, err := bridge.New("App", bridge.English)
	require.NoError(t, err)
	b, err := bridge.New("App", bridge.English)
	require.NoError(t, err)

	require.Equal(t, a.BridgePage(), a.BridgePage())
	require.Equal(t, a.BridgePage(), b.BridgePage())
	require.Equal(t, a.SuccessPage(), b.SuccessPage())
}

func TestRenderer_SuccessPage(t *testing.T) {
	r, err := bridge.New("", bridge.English)
	require.NoError(t, err)

	page := string(r.SuccessPage())
	require.Contains(t, page, bridge.DefaultAppName)
	require.Contains(t, page, "Signed in!")
	require.NotContains(t, page, "<script")
}

func TestRenderer_EscapesAppName(t *testing.T) {
	r, err := bridge.New("<b>App</b>", bridge.English)
	require.NoError(t, err)
	require.NotContains(t, string(r.BridgePage()), "<b>App</b>")
	require.Contains(t, string(r.BridgePage()), "&lt;b&gt;App&lt;/b&gt;")
}

func TestMessagesFor(t *testing.T) {
	tests := []struct {
		locale string
		want   string
	}{
		{"", "vi"},
		{"vi", "vi"},
		{"vi-VN", "vi"},
		{"en", "en"},
		{"en-GB", "en"},
		{"fr, en;q=0.8", "en"},
		{"de", "vi"},
	}
	for _, tt := range tests {
		t.Run(tt.locale, func(t *testing.T) {
			require.Equal(t, tt.want, bridge.MessagesFor(tt.locale).Lang)
		})
	}
}
