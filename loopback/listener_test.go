package loopback_test

import (
	"net"
	"strconv"
	"testing"

	"github.com/jrsteele09/go-auth-bridge/internal/errors"
	"github.com/jrsteele09/go-auth-bridge/loopback"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestBind_PreferredPortFree(t *testing.T) {
	// Find a free port, release it, then ask for it explicitly.
	probe, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	free := probe.Addr().(*net.TCPAddr).Port
	require.NoError(t, probe.Close())

	l, port, err := loopback.Bind("127.0.0.1", free)
	require.NoError(t, err)
	defer l.Close()
	require.Equal(t, free, port)
}

func TestBind_FallbackWhenPreferredPortTaken(t *testing.T) {
	occupied, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer occupied.Close()
	taken := occupied.Addr().(*net.TCPAddr).Port

	l, port, err := loopback.Bind("127.0.0.1", taken, loopback.WithLogger(zerolog.Nop()))
	require.NoError(t, err)
	defer l.Close()

	require.NotEqual(t, taken, port)
	require.Greater(t, port, 0)
	require.LessOrEqual(t, port, 65535)
	_, p, err := net.SplitHostPort(l.Addr().String())
	require.NoError(t, err)
	require.Equal(t, strconv.Itoa(port), p)
}

func TestBind_EphemeralPort(t *testing.T) {
	l, port, err := loopback.Bind("", 0)
	require.NoError(t, err)
	defer l.Close()
	require.Greater(t, port, 0)
	require.Equal(t, "127.0.0.1", l.Addr().(*net.TCPAddr).IP.String())
}

func TestBind_Errors(t *testing.T) {
	t.Run("non loopback host", func(t *testing.T) {
		l, _, err := loopback.Bind("192.0.2.1", 0)
		require.Nil(t, l)
		require.Error(t, err)
		require.True(t, errors.Is(err, errors.ErrBind))

		var bindErr *loopback.BindError
		require.True(t, errors.As(err, &bindErr))
		require.Contains(t, bindErr.Error(), "not a loopback address")
	})

	t.Run("invalid port", func(t *testing.T) {
		_, _, err := loopback.Bind("127.0.0.1", 70000)
		require.Error(t, err)
		require.True(t, errors.Is(err, errors.ErrBind))
	})
}
