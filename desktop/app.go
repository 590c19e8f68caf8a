// Package desktop is the application side of the loopback bridge: it builds
// the components from configuration, exposes the start_session command and
// owns the loop that receives relay events.
package desktop

import (
	"context"
	"errors"
	"sync"

	"github.com/jrsteele09/go-auth-bridge/bridge"
	"github.com/jrsteele09/go-auth-bridge/internal/config"
	autherrors "github.com/jrsteele09/go-auth-bridge/internal/errors"
	"github.com/jrsteele09/go-auth-bridge/provider"
	"github.com/jrsteele09/go-auth-bridge/relay"
	"github.com/jrsteele09/go-auth-bridge/session"
	"github.com/jrsteele09/go-auth-bridge/state"
	"github.com/pkg/browser"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

// ErrNoClientID is returned by operations needing the provider when no OAuth
// client id is configured.
var ErrNoClientID = errors.New("oauth client id is not configured")

// EventSessionAborted is published when a session ends without a token. The
// payload is the abort reason.
const EventSessionAborted = "oauth_session_aborted"

const eventBuffer = 8

// Handler receives relay events on the App's receiver loop.
type Handler func(ctx context.Context, ev relay.Event)

type App struct {
	controller *session.Controller
	provider   *provider.Provider
	events     *relay.Channel
	openURL    func(string) error
	logger     zerolog.Logger

	mu       sync.RWMutex
	handlers map[string]map[int]Handler
	nextID   int
}

// Option defines a function type to modify the App instance.
type Option func(*appOptions)

type appOptions struct {
	logger         zerolog.Logger
	openURL        func(string) error
	sessionOptions []session.Option
}

func WithLogger(logger zerolog.Logger) Option {
	return func(o *appOptions) {
		o.logger = logger
	}
}

// WithURLOpener replaces the system browser launcher.
func WithURLOpener(open func(string) error) Option {
	return func(o *appOptions) {
		o.openURL = open
	}
}

// WithSessionOptions appends controller options after the configured ones.
func WithSessionOptions(opts ...session.Option) Option {
	return func(o *appOptions) {
		o.sessionOptions = append(o.sessionOptions, opts...)
	}
}

// New wires every component explicitly; nothing is created lazily.
func New(cfg config.Config, options ...Option) (*App, error) {
	o := appOptions{logger: log.Logger, openURL: browser.OpenURL}
	for _, opt := range options {
		opt(&o)
	}

	renderer, err := bridge.New(cfg.GetAppName(), bridge.MessagesFor(cfg.GetLocale()))
	if err != nil {
		return nil, autherrors.Wrapf(err, "[desktop New]")
	}

	events := relay.NewChannel(eventBuffer, relay.WithLogger(o.logger))

	issuer, err := state.NewIssuer(cfg.GetStateIssuer())
	if err != nil {
		return nil, autherrors.Wrapf(err, "[desktop New]")
	}

	sessionOptions := append(session.ConfigOptions(cfg),
		session.WithIssuer(issuer),
		session.WithLogger(o.logger),
		session.WithEnv(cfg.GetEnv()),
	)
	controller, err := session.NewController(renderer, events, append(sessionOptions, o.sessionOptions...)...)
	if err != nil {
		return nil, autherrors.Wrapf(err, "[desktop New]")
	}

	// Without a client id the bridge still runs, only AuthURL and Login fail.
	var p *provider.Provider
	if cfg.GetClientID() != "" {
		p, err = provider.FromConfig(cfg)
		if err != nil {
			return nil, autherrors.Wrapf(err, "[desktop New]")
		}
	}

	return &App{
		controller: controller,
		provider:   p,
		events:     events,
		openURL:    o.openURL,
		logger:     o.logger,
		handlers:   make(map[string]map[int]Handler),
	}, nil
}

// StartSession is the start_session command: it returns the port and state
// the UI needs to build the authorization URL.
func (a *App) StartSession(ctx context.Context) (session.Info, error) {
	s, err := a.startSession(ctx)
	if err != nil {
		return session.Info{}, err
	}
	return s.Info(), nil
}

func (a *App) startSession(ctx context.Context) (*session.Session, error) {
	s, err := a.controller.StartSession(ctx)
	if err != nil {
		return nil, err
	}
	go a.watch(s)
	return s, nil
}

// watch reports an aborted session on the event channel.
func (a *App) watch(s *session.Session) {
	<-s.Done()
	if err := s.Err(); err != nil {
		a.events.Publish(relay.Event{Name: EventSessionAborted, Payload: err.Error()})
	}
}

// AuthURL builds the provider authorization URL for a session.
func (a *App) AuthURL(info session.Info, opts ...oauth2.AuthCodeOption) (string, error) {
	if a.provider == nil {
		return "", ErrNoClientID
	}
	return a.provider.AuthURL(info, opts...), nil
}

// On registers h for events named name and returns a func removing it.
func (a *App) On(name string, h Handler) (remove func()) {
	a.mu.Lock()
	defer a.mu.Unlock()
	id := a.nextID
	a.nextID++
	if a.handlers[name] == nil {
		a.handlers[name] = make(map[int]Handler)
	}
	a.handlers[name][id] = h
	return func() {
		a.mu.Lock()
		defer a.mu.Unlock()
		delete(a.handlers[name], id)
	}
}

// Run dispatches relay events to the registered handlers until ctx is done.
// Events published while Run is not active are buffered, up to eventBuffer,
// and dispatched once it starts.
func (a *App) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-a.events.Events():
			a.dispatch(ctx, ev)
		}
	}
}

func (a *App) dispatch(ctx context.Context, ev relay.Event) {
	a.mu.RLock()
	handlers := make([]Handler, 0, len(a.handlers[ev.Name]))
	for _, h := range a.handlers[ev.Name] {
		handlers = append(handlers, h)
	}
	a.mu.RUnlock()

	if len(handlers) == 0 {
		a.logger.Warn().Str("event", ev.Name).Msg("No handler registered for event")
		return
	}
	for _, h := range handlers {
		h(ctx, ev)
	}
}

// Login runs a full authorization: start a session, open the browser and wait
// for the relayed credential. Run must be running. opened receives the URL
// before the browser is launched so it can be shown to the user.
func (a *App) Login(ctx context.Context, openBrowser bool, opened func(url string)) (string, error) {
	if a.provider == nil {
		return "", ErrNoClientID
	}

	received := make(chan string, 1)
	remove := a.On(relay.EventTokenReceived, func(_ context.Context, ev relay.Event) {
		select {
		case received <- ev.Payload:
		default:
		}
	})
	defer remove()

	s, err := a.startSession(ctx)
	if err != nil {
		return "", err
	}

	url, err := a.AuthURL(s.Info())
	if err != nil {
		s.Abort()
		return "", err
	}
	if opened != nil {
		opened(url)
	}
	if openBrowser {
		if err := a.openURL(url); err != nil {
			a.logger.Warn().Err(err).Msg("Could not open the browser, open the URL manually")
		}
	}

	select {
	case payload := <-received:
		return payload, nil
	case <-s.Done():
		if err := s.Err(); err != nil {
			return "", err
		}
		// Fulfilled; the event is on its way through Run.
		select {
		case payload := <-received:
			return payload, nil
		case <-ctx.Done():
			return "", ctx.Err()
		}
	case <-ctx.Done():
		s.Abort()
		<-s.Done()
		return "", ctx.Err()
	}
}

// Current returns the active or most recent session.
func (a *App) Current() *session.Session {
	return a.controller.Current()
}

// Close aborts any pending session and waits for its port to be released.
func (a *App) Close() {
	a.controller.Abort()
}
