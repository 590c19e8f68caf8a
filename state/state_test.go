package state_test

import (
	"encoding/base64"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-auth-bridge/state"
	"github.com/stretchr/testify/require"
)

func TestUUIDIssuer_Issue(t *testing.T) {
	issuer := state.UUIDIssuer{}

	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		s, err := issuer.Issue()
		require.NoError(t, err)

		id, err := uuid.Parse(s)
		require.NoError(t, err)
		require.Equal(t, uuid.Version(4), id.Version())

		_, dup := seen[s]
		require.False(t, dup, "state issued twice: %s", s)
		seen[s] = struct{}{}
	}
}

func TestRandomIssuer_Issue(t *testing.T) {
	t.Run("default length", func(t *testing.T) {
		s, err := state.RandomIssuer{}.Issue()
		require.NoError(t, err)

		raw, err := base64.RawURLEncoding.DecodeString(s)
		require.NoError(t, err)
		require.Len(t, raw, state.DefaultRandomLength)
	})

	t.Run("unique values", func(t *testing.T) {
		a, err := state.RandomIssuer{Length: 16}.Issue()
		require.NoError(t, err)
		b, err := state.RandomIssuer{Length: 16}.Issue()
		require.NoError(t, err)
		require.NotEqual(t, a, b)
	})

	t.Run("too short", func(t *testing.T) {
		_, err := state.RandomIssuer{Length: 8}.Issue()
		require.Error(t, err)
		require.Contains(t, err.Error(), "minimum")
	})
}

func TestNewIssuer(t *testing.T) {
	tests := []struct {
		kind string
		want state.Issuer
	}{
		{"", state.UUIDIssuer{}},
		{"uuid", state.UUIDIssuer{}},
		{" Random ", state.RandomIssuer{Length: state.DefaultRandomLength}},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			issuer, err := state.NewIssuer(tt.kind)
			require.NoError(t, err)
			require.Equal(t, tt.want, issuer)
		})
	}

	_, err := state.NewIssuer("sequential")
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown issuer")
}

func TestIssuerFunc(t *testing.T) {
	issuer := state.IssuerFunc(func() (string, error) { return "fixed", nil })
	s, err := issuer.Issue()
	require.NoError(t, err)
	require.Equal(t, "fixed", s)

	failing := state.IssuerFunc(func() (string, error) { return "", errors.New("no entropy") })
	_, err = failing.Issue()
	require.Error(t, err)
}

func TestEqual(t *testing.T) {
	const expected = "5d2c7e0a-1b2c-4d3e-8f90-0a1b2c3d4e5f"

	tests := []struct {
		name string
		got  string
		want bool
	}{
		{"exact match", expected, true},
		{"missing", "", false},
		{"prefix of expected", expected[:10], false},
		{"expected is prefix", expected + "-extra", false},
		{"contains expected", "x" + expected, false},
		{"different", "00000000-0000-4000-8000-000000000000", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, state.Equal(expected, tt.got))
		})
	}

	t.Run("empty expected never matches", func(t *testing.T) {
		require.False(t, state.Equal("", ""))
	})
}
