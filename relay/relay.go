// Package relay hands captured credentials from the loopback listener to the
// application layer.
package relay

import (
	"time"

	"github.com/jrsteele09/go-auth-bridge/internal/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// EventTokenReceived names the event carrying a raw fragment payload.
const EventTokenReceived = "oauth_token_received"

// DefaultBuffer is the capacity of a Channel created with a zero buffer size.
const DefaultBuffer = 1

// Event is a single notification from the core to the application.
type Event struct {
	Name       string
	Payload    string
	ReceivedAt time.Time
}

// Relay delivers a captured payload. Deliver never blocks and reports
// whether the payload was handed over.
type Relay interface {
	Deliver(payload string) bool
}

// Func adapts a function to the Relay interface.
type Func func(payload string) bool

func (f Func) Deliver(payload string) bool {
	return f(payload)
}

// Channel pushes events onto a buffered channel owned by the application's
// receiver loop.
type Channel struct {
	events  chan Event
	logger  zerolog.Logger
	nowTime func() time.Time
}

var _ Relay = (*Channel)(nil)

// ChannelOption configures a Channel.
type ChannelOption func(*Channel)

func WithLogger(logger zerolog.Logger) ChannelOption {
	return func(c *Channel) {
		c.logger = logger
	}
}

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ChannelOption {
	return func(c *Channel) {
		c.nowTime = nowFunc
	}
}

func NewChannel(buffer int, options ...ChannelOption) *Channel {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	c := &Channel{
		events:  make(chan Event, buffer),
		logger:  log.Logger,
		nowTime: time.Now,
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// Events is the receive side consumed by the application.
func (c *Channel) Events() <-chan Event {
	return c.events
}

// Deliver queues an EventTokenReceived event. The channel cannot tell whether
// anyone is receiving: true means the event was buffered, and it stays
// buffered until a receiver reads it. Only a full buffer drops the payload and
// returns false.
func (c *Channel) Deliver(payload string) bool {
	return c.Publish(Event{Name: EventTokenReceived, Payload: payload})
}

// Publish queues an arbitrary event without blocking.
func (c *Channel) Publish(event Event) bool {
	if event.ReceivedAt.IsZero() {
		event.ReceivedAt = c.nowTime()
	}
	select {
	case c.events <- event:
		return true
	default:
		c.logger.Warn().Err(errors.ErrRelayUndelivered).Str("event", event.Name).Msg("Dropped relay event")
		return false
	}
}
