package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/jrsteele09/go-auth-bridge/internal/errors"
)

type Config interface {
	EnvConfig
	LoopbackConfig
	OAuthConfig
}

type EnvConfig interface {
	GetAppName() string
	GetEnv() string
	GetLogLevel() string
}

type mainConfig struct {
	EnvVars
	Loopback
	OAuth
}

// New loads the given .env files (missing files are skipped) and then reads
// the configuration from the process environment.
func New(envFiles ...string) (Config, error) {
	if err := LoadEnv(envFiles...); err != nil {
		return nil, errors.Wrapf(err, "[config New]")
	}
	c := mainConfig{}
	if err := env.Parse(&c); err != nil {
		return nil, errors.Wrapf(err, "[config New] parse env")
	}
	return c, nil
}

// Parse reads the configuration from environ instead of the process
// environment.
func Parse(environ map[string]string) (Config, error) {
	c := mainConfig{}
	if err := env.ParseWithOptions(&c, env.Options{Environment: environ}); err != nil {
		return nil, errors.Wrapf(err, "[config Parse] parse env")
	}
	return c, nil
}

// LoadEnv wraps godotenv.Load, expanding a leading ~ to the home directory.
// Variables already present in the environment are not overridden.
func LoadEnv(files ...string) error {
	for _, file := range files {
		if strings.HasPrefix(file, "~") {
			home, err := os.UserHomeDir()
			if err != nil {
				return err
			}
			file = strings.Replace(file, "~", home, 1)
		}
		if _, err := os.Stat(file); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(file); err != nil {
			return fmt.Errorf("load %s: %w", file, err)
		}
	}
	return nil
}
