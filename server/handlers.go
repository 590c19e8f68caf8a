package server

import (
	"fmt"
	"io"
	"net/http"

	"github.com/jrsteele09/go-auth-bridge/internal/errors"
	"github.com/jrsteele09/go-auth-bridge/state"
)

// BridgeHandler serves the bridge page for the provider redirect landing and
// any other request that is not a token submission.
func (rt *Router) BridgeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeHTML(w, http.StatusOK, rt.renderer.BridgePage())
	}
}

// TokenHandler accepts the fragment forwarded by the bridge page. The state
// query parameter must be present once and equal the session state.
func (rt *Router) TokenHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		states := r.URL.Query()[QueryState]
		if len(states) != 1 || !state.Equal(rt.state, states[0]) {
			rt.logger.Warn().Err(errors.ErrStateMismatch).Str("remote", r.RemoteAddr).Msg("Rejected token submission")
			writeText(w, http.StatusForbidden, bodyStateMismatch)
			return
		}

		// A failed read still completes the session with whatever was read.
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, rt.maxBodyBytes))
		if err != nil {
			rt.logger.Error().Err(fmt.Errorf("%w: %w", errors.ErrBodyRead, err)).Msg("Continuing with an empty payload")
			body = nil
		}
		payload := string(body)

		if !rt.relay.Deliver(payload) {
			rt.logger.Warn().Err(errors.ErrRelayUndelivered).Msg("Token payload was not delivered")
		} else {
			rt.logger.Info().Int("payload_bytes", len(payload)).Msg("Token payload relayed")
		}

		writeHTML(w, http.StatusOK, rt.renderer.SuccessPage())
		if err := http.NewResponseController(w).Flush(); err != nil {
			rt.logger.Debug().Err(err).Msg("Flush not supported")
		}
		rt.terminate()
	}
}

func writeHTML(w http.ResponseWriter, status int, page []byte) {
	w.Header().Set("Content-Type", contentTypeHTML)
	w.WriteHeader(status)
	_, _ = w.Write(page)
}
