// Package session runs a single loopback authorization session: it issues the
// state, binds the listener and serves the bridge until a token arrives, the
// session times out or it is aborted.
package session

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/jrsteele09/go-auth-bridge/internal/errors"
	"github.com/jrsteele09/go-auth-bridge/server"
	"github.com/rs/zerolog"
)

// Status is the lifecycle state of a Session.
type Status int

const (
	StatusPending Status = iota
	StatusFulfilled
	StatusAborted
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusFulfilled:
		return "fulfilled"
	case StatusAborted:
		return "aborted"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Info is everything the caller needs to build the provider authorization URL.
type Info struct {
	Port  int    `json:"port"`
	State string `json:"state"`
}

// RedirectURL is the loopback redirect URI for this session.
func (i Info) RedirectURL(host string) string {
	return fmt.Sprintf("http://%s/", net.JoinHostPort(host, fmt.Sprint(i.Port)))
}

// Session is one authorization attempt. Only the immutable Info is shared
// with callers; the listener and router belong to the session goroutines.
type Session struct {
	info            Info
	srv             *http.Server
	router          *server.Router
	logger          zerolog.Logger
	shutdownTimeout time.Duration

	fulfilled  chan struct{}
	abort      chan struct{}
	abortOnce  sync.Once
	abortCause error
	done       chan struct{}

	mu     sync.RWMutex
	status Status
	err    error
}

func newSession(info Info, logger zerolog.Logger, shutdownTimeout time.Duration) *Session {
	return &Session{
		info:            info,
		logger:          logger,
		shutdownTimeout: shutdownTimeout,
		fulfilled:       make(chan struct{}),
		abort:           make(chan struct{}),
		done:            make(chan struct{}),
	}
}

func (s *Session) Info() Info {
	return s.info
}

func (s *Session) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Done is closed once the listener has been released.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Err is nil while pending and after fulfilment. For an aborted session it
// wraps errors.ErrSessionAborted and the cause.
func (s *Session) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// Wait blocks until the session has finished or ctx is done.
func (s *Session) Wait(ctx context.Context) error {
	select {
	case <-s.done:
		return s.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Abort stops a pending session. It does not wait; use Done for that.
func (s *Session) Abort() {
	s.abortWith(errors.ErrSessionClosed)
}

func (s *Session) abortWith(cause error) {
	s.abortOnce.Do(func() {
		s.abortCause = cause
		close(s.abort)
	})
}

// fulfil runs under the router lock after the success page was flushed.
func (s *Session) fulfil() {
	s.mu.Lock()
	s.status = StatusFulfilled
	s.mu.Unlock()
	close(s.fulfilled)
}

func (s *Session) serve(ln net.Listener) {
	if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.logger.Error().Err(err).Msg("Loopback server stopped unexpectedly")
		s.abortWith(err)
	}
}

func (s *Session) supervise(ctx context.Context, timeout time.Duration) {
	var expired <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		expired = timer.C
	}

	var cause error
	select {
	case <-s.fulfilled:
	case <-expired:
		cause = fmt.Errorf("%w after %s", errors.ErrSessionTimeout, timeout)
	case <-ctx.Done():
		cause = ctx.Err()
	case <-s.abort:
		cause = s.abortCause
	}

	// A submission may have won the race; the router decides.
	if cause != nil && s.router.Close() {
		s.mu.Lock()
		s.status = StatusAborted
		s.err = fmt.Errorf("%w: %w", errors.ErrSessionAborted, cause)
		s.mu.Unlock()
		s.logger.Warn().Err(cause).Int("port", s.info.Port).Msg("Authorization session aborted")
	} else {
		s.logger.Info().Int("port", s.info.Port).Msg("Authorization session fulfilled")
	}

	s.shutdown()
	close(s.done)
}

func (s *Session) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("Graceful shutdown failed, closing loopback server")
		_ = s.srv.Close()
	}
}
