package errors

import (
	"errors"
	"fmt"
)

// Common error types for the loopback auth bridge
var (
	// Listener errors
	ErrBind = errors.New("failed to bind loopback listener")

	// Submission errors
	ErrStateMismatch = errors.New("state mismatch")
	ErrBodyRead      = errors.New("failed to read submission body")

	// Relay errors
	ErrRelayUndelivered = errors.New("relay has no receiver")

	// Session errors
	ErrSessionAborted = errors.New("session aborted")
	ErrSessionTimeout = errors.New("session timed out")
	ErrSessionClosed  = errors.New("session closed")

	// Credential errors
	ErrProviderDenied     = errors.New("provider returned an error")
	ErrMissingAccessToken = errors.New("missing access token")
	ErrInvalidCredential  = errors.New("invalid credential")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
