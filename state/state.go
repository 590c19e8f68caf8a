// Package state issues the CSRF state tokens that tie a provider redirect back
// to the authorization attempt that started it.
package state

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-auth-bridge/internal/errors"
)

// DefaultRandomLength is the number of random bytes drawn by RandomIssuer when
// no length is given (32 bytes = 256 bits).
const DefaultRandomLength = 32

// minRandomLength is 128 bits.
const minRandomLength = 16

// Issuer produces an unguessable opaque value for exactly one authorization attempt.
type Issuer interface {
	Issue() (string, error)
}

// UUIDIssuer issues version-4 random UUIDs.
type UUIDIssuer struct{}

var _ Issuer = UUIDIssuer{}

func (UUIDIssuer) Issue() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", errors.Wrapf(err, "[state Issue] failed to generate uuid")
	}
	return id.String(), nil
}

// RandomIssuer issues base64url encoded random strings of Length bytes.
type RandomIssuer struct {
	Length int
}

var _ Issuer = RandomIssuer{}

func (r RandomIssuer) Issue() (string, error) {
	length := r.Length
	if length == 0 {
		length = DefaultRandomLength
	}
	if length < minRandomLength {
		return "", fmt.Errorf("[state Issue] length %d is below the %d byte minimum", length, minRandomLength)
	}
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Wrapf(err, "[state Issue] failed to generate random bytes")
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

const (
	KindUUID   = "uuid"
	KindRandom = "random"
)

// NewIssuer returns the issuer for kind. An empty kind selects UUIDIssuer.
func NewIssuer(kind string) (Issuer, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", KindUUID:
		return UUIDIssuer{}, nil
	case KindRandom:
		return RandomIssuer{Length: DefaultRandomLength}, nil
	default:
		return nil, fmt.Errorf("[state NewIssuer] unknown issuer %q, want %q or %q", kind, KindUUID, KindRandom)
	}
}

// IssuerFunc adapts a function to the Issuer interface.
type IssuerFunc func() (string, error)

func (f IssuerFunc) Issue() (string, error) {
	return f()
}

// Equal reports whether got is exactly the expected state. Empty values never
// match, and a value that merely contains or prefixes expected is rejected.
func Equal(expected, got string) bool {
	if expected == "" || got == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(got)) == 1
}
