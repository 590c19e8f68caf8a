package config

import "time"

type LoopbackConfig interface {
	GetLoopbackHost() string
	GetLoopbackPort() int
	GetSessionTimeout() time.Duration
	GetShutdownTimeout() time.Duration
	GetMaxBodyBytes() int64
	GetLocale() string
	GetStateIssuer() string
}

type Loopback struct {
	// The provider's allow-listed redirect URI is registered with this exact port.
	Host            string        `env:"AUTH_LOOPBACK_HOST" envDefault:"127.0.0.1"`
	Port            int           `env:"AUTH_LOOPBACK_PORT" envDefault:"3000"`
	SessionTimeout  time.Duration `env:"AUTH_SESSION_TIMEOUT" envDefault:"5m"`
	ShutdownTimeout time.Duration `env:"AUTH_SHUTDOWN_TIMEOUT" envDefault:"2s"`
	MaxBodyBytes    int64         `env:"AUTH_MAX_BODY_BYTES" envDefault:"65536"`
	Locale          string        `env:"AUTH_LOCALE" envDefault:"vi"`
	// StateIssuer is "uuid" or "random".
	StateIssuer     string        `env:"AUTH_STATE_ISSUER" envDefault:"uuid"`
}

var _ LoopbackConfig = Loopback{}

func (l Loopback) GetLoopbackHost() string {
	return l.Host
}

func (l Loopback) GetLoopbackPort() int {
	return l.Port
}

func (l Loopback) GetSessionTimeout() time.Duration {
	return l.SessionTimeout
}

func (l Loopback) GetShutdownTimeout() time.Duration {
	return l.ShutdownTimeout
}

func (l Loopback) GetMaxBodyBytes() int64 {
	return l.MaxBodyBytes
}

func (l Loopback) GetLocale() string {
	return l.Locale
}

func (l Loopback) GetStateIssuer() string {
	return l.StateIssuer
}
