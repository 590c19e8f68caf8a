package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jrsteele09/go-auth-bridge/credential"
	"github.com/jrsteele09/go-auth-bridge/identity"
	"github.com/spf13/cobra"
	"golang.org/x/oauth2"
)

func newLoginCmd(envFile *string) *cobra.Command {
	var (
		noBrowser bool
		userInfo  bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in through the browser and print the received credential",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setup(*envFile)
			if err != nil {
				return err
			}
			defer env.app.Close()

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			go func() { _ = env.app.Run(ctx) }()

			displayAppname(env.cfg.GetAppName())

			payload, err := env.app.Login(ctx, !noBrowser, func(url string) {
				fmt.Fprintf(cmd.OutOrStdout(), "Open this URL to sign in:\n\n  %s\n\n", url)
			})
			if err != nil {
				return fmt.Errorf("login: %w", err)
			}

			tok, err := credential.Parse(payload)
			if err != nil {
				return fmt.Errorf("login: %w", err)
			}
			printToken(cmd, tok)

			if !userInfo {
				return nil
			}
			resolver, err := identity.NewResolver(env.cfg.GetIssuer())
			if err != nil {
				return err
			}
			profile, err := resolver.UserInfo(ctx, tok)
			if err != nil {
				return fmt.Errorf("login: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s\n", profile.Email)
			return nil
		},
	}
	cmd.Flags().BoolVar(&noBrowser, "no-browser", false, "print the authorization URL without opening a browser")
	cmd.Flags().BoolVar(&userInfo, "userinfo", false, "fetch the signed-in user's profile from the issuer")
	return cmd
}

// printToken shows what was granted; the token itself is never printed.
func printToken(cmd *cobra.Command, tok *oauth2.Token) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Token type: %s\n", tok.Type())
	if !tok.Expiry.IsZero() {
		fmt.Fprintf(out, "Expires:    %s\n", tok.Expiry.Format(time.RFC3339))
	}
	if scopes := credential.Scopes(tok); len(scopes) > 0 {
		fmt.Fprintf(out, "Scopes:     %s\n", strings.Join(scopes, " "))
	}
	if claims, err := credential.IDTokenClaims(tok); err == nil {
		if sub, err := claims.GetSubject(); err == nil {
			fmt.Fprintf(out, "Subject:    %s\n", sub)
		}
	}
}
