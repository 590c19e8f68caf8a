package server

import "github.com/jrsteele09/go-auth-bridge/bridge"

// Route path constants
const (
	// RouteToken receives the fragment forwarded by the bridge page
	RouteToken = bridge.TokenPath
	// RouteBridge catches the provider redirect landing and anything else
	RouteBridge = "/"

	// QueryState carries the CSRF state on token submissions
	QueryState = "state"
)

const (
	contentTypeHTML = "text/html; charset=utf-8"
	contentTypeText = "text/plain; charset=utf-8"

	bodyStateMismatch = "Unauthorized: State mismatch"
	bodySessionClosed = "Session closed"
)
