package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jrsteele09/go-auth-bridge/desktop"
	"github.com/jrsteele09/go-auth-bridge/relay"
	"github.com/spf13/cobra"
)

// newServeCmd starts a bridge session without a provider, for wiring a
// separately built authorization URL or for manual testing with curl.
func newServeCmd(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start one bridge session and wait for its token submission",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setup(*envFile)
			if err != nil {
				return err
			}
			defer env.app.Close()

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			done := make(chan error, 1)
			env.app.On(relay.EventTokenReceived, func(_ context.Context, ev relay.Event) {
				env.logger.Info().Int("payload_bytes", len(ev.Payload)).Msg("Token received")
				select {
				case done <- nil:
				default:
				}
			})
			env.app.On(desktop.EventSessionAborted, func(_ context.Context, ev relay.Event) {
				select {
				case done <- fmt.Errorf("serve: %s", ev.Payload):
				default:
				}
			})
			go func() { _ = env.app.Run(ctx) }()

			info, err := env.app.StartSession(ctx)
			if err != nil {
				return err
			}
			if err := json.NewEncoder(cmd.OutOrStdout()).Encode(info); err != nil {
				return err
			}

			select {
			case err := <-done:
				return err
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	}
}
