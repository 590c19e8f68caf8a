package session

import (
	"context"
	"errors"
	"fmt"
	stdlog "log"
	"net/http"
	"sync"
	"time"

	"github.com/jrsteele09/go-auth-bridge/bridge"
	"github.com/jrsteele09/go-auth-bridge/internal/config"
	autherrors "github.com/jrsteele09/go-auth-bridge/internal/errors"
	"github.com/jrsteele09/go-auth-bridge/loopback"
	"github.com/jrsteele09/go-auth-bridge/relay"
	"github.com/jrsteele09/go-auth-bridge/server"
	"github.com/jrsteele09/go-auth-bridge/state"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	DefaultTimeout         = 5 * time.Minute
	DefaultShutdownTimeout = 2 * time.Second

	readHeaderTimeout = 10 * time.Second
	readTimeout       = 30 * time.Second
	idleTimeout       = 30 * time.Second
)

// Controller starts authorization sessions. At most one session is active;
// starting a new one aborts the previous session and waits for its port to be
// released.
type Controller struct {
	issuer          state.Issuer
	renderer        *bridge.Renderer
	relay           relay.Relay
	host            string
	port            int
	timeout         time.Duration
	shutdownTimeout time.Duration
	maxBodyBytes    int64
	env             string
	logger          zerolog.Logger

	mu      sync.Mutex
	current *Session
}

// Option defines a function type to modify the Controller instance.
type Option func(*Controller)

func WithIssuer(issuer state.Issuer) Option {
	return func(c *Controller) {
		c.issuer = issuer
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithAddress sets the loopback host and preferred port. Port 0 always uses an
// OS assigned port.
func WithAddress(host string, port int) Option {
	return func(c *Controller) {
		c.host = host
		c.port = port
	}
}

// WithTimeout bounds how long a session waits for a token. Zero disables the
// timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Controller) {
		c.timeout = timeout
	}
}

func WithShutdownTimeout(timeout time.Duration) Option {
	return func(c *Controller) {
		if timeout > 0 {
			c.shutdownTimeout = timeout
		}
	}
}

func WithMaxBodyBytes(n int64) Option {
	return func(c *Controller) {
		c.maxBodyBytes = n
	}
}

func WithEnv(env string) Option {
	return func(c *Controller) {
		c.env = env
	}
}

// ConfigOptions maps the loopback configuration onto controller options.
func ConfigOptions(cfg config.LoopbackConfig) []Option {
	return []Option{
		WithAddress(cfg.GetLoopbackHost(), cfg.GetLoopbackPort()),
		WithTimeout(cfg.GetSessionTimeout()),
		WithShutdownTimeout(cfg.GetShutdownTimeout()),
		WithMaxBodyBytes(cfg.GetMaxBodyBytes()),
	}
}

func NewController(renderer *bridge.Renderer, r relay.Relay, options ...Option) (*Controller, error) {
	if renderer == nil {
		return nil, errors.New("[NewController] renderer is required")
	}
	if r == nil {
		return nil, errors.New("[NewController] relay is required")
	}

	c := &Controller{
		issuer:          state.UUIDIssuer{},
		renderer:        renderer,
		relay:           r,
		host:            loopback.DefaultHost,
		port:            loopback.DefaultPort,
		timeout:         DefaultTimeout,
		shutdownTimeout: DefaultShutdownTimeout,
		maxBodyBytes:    server.DefaultMaxBodyBytes,
		logger:          log.Logger,
	}
	for _, opt := range options {
		opt(c)
	}
	return c, nil
}

// Start begins a session and returns as soon as the listener is bound.
// ctx bounds the whole session, not just this call.
func (c *Controller) Start(ctx context.Context) (Info, error) {
	s, err := c.StartSession(ctx)
	if err != nil {
		return Info{}, err
	}
	return s.Info(), nil
}

// StartSession is Start returning the session handle.
func (c *Controller) StartSession(ctx context.Context) (*Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if prev := c.current; prev != nil {
		prev.abortWith(fmt.Errorf("%w: superseded by a new session", autherrors.ErrSessionClosed))
		<-prev.Done()
		c.current = nil
	}

	st, err := c.issuer.Issue()
	if err != nil {
		return nil, autherrors.Wrapf(err, "[Controller Start] failed to issue state")
	}

	ln, port, err := loopback.Bind(c.host, c.port, loopback.WithLogger(c.logger))
	if err != nil {
		return nil, autherrors.Wrapf(err, "[Controller Start]")
	}

	logger := c.logger.With().Int("port", port).Logger()
	s := newSession(Info{Port: port, State: st}, logger, c.shutdownTimeout)

	router, err := server.New(st, c.renderer, c.relay,
		server.WithLogger(logger),
		server.WithEnv(c.env),
		server.WithMaxBodyBytes(c.maxBodyBytes),
		server.WithTerminateFunc(s.fulfil),
	)
	if err != nil {
		_ = ln.Close()
		return nil, autherrors.Wrapf(err, "[Controller Start]")
	}

	s.router = router
	s.srv = &http.Server{
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		IdleTimeout:       idleTimeout,
		ErrorLog:          stdlog.New(logger, "", 0),
	}

	go s.serve(ln)
	go s.supervise(ctx, c.timeout)

	c.current = s
	logger.Info().Dur("timeout", c.timeout).Msg("Authorization session started")
	return s, nil
}

// Current returns the most recently started session, or nil.
func (c *Controller) Current() *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Abort stops the current session and waits until its port is released.
func (c *Controller) Abort() {
	c.mu.Lock()
	s := c.current
	c.mu.Unlock()
	if s == nil {
		return
	}
	s.Abort()
	<-s.Done()
}
