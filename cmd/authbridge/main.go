package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/go-auth-bridge/desktop"
	"github.com/jrsteele09/go-auth-bridge/internal/config"
	"github.com/jrsteele09/go-auth-bridge/internal/logging"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Bytes("stack", debug.Stack()).Msg("Recovered from panic")
			returnError = errors.New("panic recovered")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return newRootCmd().ExecuteContext(ctx)
}

// environment is what every subcommand needs once flags have been parsed.
type environment struct {
	cfg    config.Config
	logger zerolog.Logger
	app    *desktop.App
}

func setup(envFile string) (*environment, error) {
	cfg, err := config.New(envFile)
	if err != nil {
		return nil, err
	}

	logger := logging.New(cfg, os.Stderr)
	log.Logger = logger

	app, err := desktop.New(cfg, desktop.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	return &environment{cfg: cfg, logger: logger, app: app}, nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
