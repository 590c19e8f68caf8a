// Package server routes requests arriving on the loopback listener: token
// submissions are validated and relayed, everything else gets the bridge page.
package server

import (
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/jrsteele09/go-auth-bridge/bridge"
	"github.com/jrsteele09/go-auth-bridge/relay"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultMaxBodyBytes bounds the size of a token submission.
const DefaultMaxBodyBytes int64 = 64 << 10

// Phase is the router's position in its state machine.
type Phase int

const (
	PhaseListening Phase = iota
	PhaseTerminated
)

func (p Phase) String() string {
	switch p {
	case PhaseListening:
		return "listening"
	case PhaseTerminated:
		return "terminated"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// route matches on the exact method and raw path. Paths are not cleaned, so
// "//" or "/a/../b" fall through to the bridge page instead of a redirect.
type route struct {
	method  string
	path    string
	handler http.HandlerFunc
}

// Router serves one authorization session. Requests are handled one at a
// time; once a submission with the expected state has been relayed the
// router is terminated and answers every later request with 410 Gone.
type Router struct {
	env          string
	routes       []route
	fallback     http.HandlerFunc
	gone         http.HandlerFunc
	state        string
	renderer     *bridge.Renderer
	relay        relay.Relay
	logger       zerolog.Logger
	maxBodyBytes int64
	onTerminate  func()

	mu    sync.Mutex
	phase Phase
}

// Option defines a function type to modify the Router instance.
type Option func(*Router)

func WithLogger(logger zerolog.Logger) Option {
	return func(rt *Router) {
		rt.logger = logger
	}
}

// WithEnv sets the environment name; "DEV" logs the registered routes.
func WithEnv(env string) Option {
	return func(rt *Router) {
		rt.env = env
	}
}

func WithMaxBodyBytes(n int64) Option {
	return func(rt *Router) {
		if n > 0 {
			rt.maxBodyBytes = n
		}
	}
}

// WithTerminateFunc registers fn to run once, after the success response has
// been flushed. fn is called with the router lock held and must not block.
func WithTerminateFunc(fn func()) Option {
	return func(rt *Router) {
		rt.onTerminate = fn
	}
}

func New(expectedState string, renderer *bridge.Renderer, r relay.Relay, options ...Option) (*Router, error) {
	if expectedState == "" {
		return nil, errors.New("[server New] expected state is required")
	}
	if renderer == nil {
		return nil, errors.New("[server New] renderer is required")
	}
	if r == nil {
		return nil, errors.New("[server New] relay is required")
	}

	rt := &Router{
		state:        expectedState,
		renderer:     renderer,
		relay:        r,
		logger:       log.Logger,
		maxBodyBytes: DefaultMaxBodyBytes,
		onTerminate:  func() {},
	}
	for _, opt := range options {
		opt(rt)
	}

	rt.initRoutes()
	rt.logRoutes()

	return rt, nil
}

func (rt *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	if rt.phase == PhaseTerminated {
		rt.gone(w, r)
		return
	}
	for _, rte := range rt.routes {
		if r.Method == rte.method && r.URL.Path == rte.path {
			rte.handler(w, r)
			return
		}
	}
	rt.fallback(w, r)
}

// Phase returns the current state machine position.
func (rt *Router) Phase() Phase {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.phase
}

// RegisterRouteFunc adds a handler for an exact method and path. Requests
// matching no route get the bridge page.
func (rt *Router) RegisterRouteFunc(method, path string, handler http.HandlerFunc) {
	rt.routes = append(rt.routes, route{method: method, path: path, handler: handler})
}

func (rt *Router) initRoutes() {
	rt.RegisterRouteFunc(http.MethodPost, RouteToken, ChainMiddleware(rt.TokenHandler(), rt.StdMiddleware()...))
	rt.fallback = ChainMiddleware(rt.BridgeHandler(), rt.StdMiddleware()...)
	rt.gone = ChainMiddleware(func(w http.ResponseWriter, r *http.Request) {
		writeText(w, http.StatusGone, bodySessionClosed)
	}, rt.StdMiddleware()...)
}

// Close terminates the router without a fulfilment. It returns false when the
// router had already terminated, either by an accepted submission or an
// earlier Close. The termination func is not called.
func (rt *Router) Close() bool {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if rt.phase == PhaseTerminated {
		return false
	}
	rt.phase = PhaseTerminated
	return true
}

// terminate must be called with rt.mu held.
func (rt *Router) terminate() {
	if rt.phase == PhaseTerminated {
		return
	}
	rt.phase = PhaseTerminated
	rt.onTerminate()
}

func (rt *Router) logRoutes() {
	if rt.env != "DEV" {
		return
	}
	for _, rte := range rt.routes {
		rt.logger.Debug().Str("method", rte.method).Str("path", rte.path).Msg("Route registered")
	}
	rt.logger.Debug().Str("method", "*").Str("path", RouteBridge).Msg("Route registered")
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", contentTypeText)
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
