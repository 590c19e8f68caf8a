// Package loopback binds the local listener that receives the provider
// redirect.
package loopback

import (
	"fmt"
	"net"
	"strconv"

	"github.com/jrsteele09/go-auth-bridge/internal/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	DefaultHost = "127.0.0.1"
	DefaultPort = 3000
)

// BindError is returned when neither the preferred nor the fallback port could
// be bound.
type BindError struct {
	Addr string
	Err  error
}

func (e *BindError) Error() string {
	return fmt.Sprintf("%s on %s: %v", errors.ErrBind, e.Addr, e.Err)
}

func (e *BindError) Unwrap() []error {
	return []error{errors.ErrBind, e.Err}
}

type options struct {
	logger zerolog.Logger
}

// Option configures Bind.
type Option func(*options)

// WithLogger sets the logger used to report the fallback path.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// Bind listens on host:preferredPort, falling back to an OS assigned port on
// the same host when the preferred port is unavailable. preferredPort 0 goes
// straight to the OS assigned port. The returned port is read from the
// listener.
func Bind(host string, preferredPort int, opts ...Option) (net.Listener, int, error) {
	o := options{logger: log.Logger}
	for _, opt := range opts {
		opt(&o)
	}
	if host == "" {
		host = DefaultHost
	}
	if !isLoopback(host) {
		return nil, 0, &BindError{Addr: host, Err: fmt.Errorf("%s is not a loopback address", host)}
	}
	if preferredPort < 0 || preferredPort > 65535 {
		return nil, 0, &BindError{Addr: host, Err: fmt.Errorf("invalid port %d", preferredPort)}
	}

	if preferredPort != 0 {
		addr := net.JoinHostPort(host, strconv.Itoa(preferredPort))
		l, err := net.Listen("tcp", addr)
		if err == nil {
			return l, port(l), nil
		}
		o.logger.Warn().Err(err).Str("addr", addr).Msg("Preferred loopback port unavailable, falling back to an ephemeral port")
	}

	addr := net.JoinHostPort(host, "0")
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, 0, &BindError{Addr: addr, Err: err}
	}
	return l, port(l), nil
}

func port(l net.Listener) int {
	if tcp, ok := l.Addr().(*net.TCPAddr); ok {
		return tcp.Port
	}
	_, p, _ := net.SplitHostPort(l.Addr().String())
	n, _ := strconv.Atoi(p)
	return n
}

func isLoopback(host string) bool {
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
