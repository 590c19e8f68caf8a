package relay_test

import (
	"testing"
	"time"

	"github.com/jrsteele09/go-auth-bridge/relay"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestChannel_Deliver(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	c := relay.NewChannel(1, relay.WithNowTime(func() time.Time { return now }))

	require.True(t, c.Deliver("access_token=abc123&token_type=Bearer"))

	select {
	case ev := <-c.Events():
		require.Equal(t, relay.EventTokenReceived, ev.Name)
		require.Equal(t, "access_token=abc123&token_type=Bearer", ev.Payload)
		require.Equal(t, now, ev.ReceivedAt)
	default:
		t.Fatal("expected an event")
	}
}

func TestChannel_DeliverWithoutReceiverCapacity(t *testing.T) {
	c := relay.NewChannel(1, relay.WithLogger(zerolog.Nop()))

	require.True(t, c.Deliver("first"))
	require.False(t, c.Deliver("second"))

	ev := <-c.Events()
	require.Equal(t, "first", ev.Payload)
	require.Len(t, c.Events(), 0)
}

func TestChannel_DefaultBuffer(t *testing.T) {
	c := relay.NewChannel(0)
	require.Equal(t, relay.DefaultBuffer, cap(c.Events()))
}

func TestFunc(t *testing.T) {
	var got []string
	r := relay.Func(func(payload string) bool {
		got = append(got, payload)
		return true
	})
	require.True(t, r.Deliver("x"))
	require.Equal(t, []string{"x"}, got)
}
