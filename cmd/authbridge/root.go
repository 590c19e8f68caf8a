package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var envFile string

	rootCmd := &cobra.Command{
		Use:           "authbridge",
		Short:         "Loopback bridge for OAuth2 implicit-grant sign in",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	rootCmd.PersistentFlags().StringVarP(&envFile, "env-file", "e", ".env", "dotenv file loaded before reading the environment")

	rootCmd.AddCommand(newLoginCmd(&envFile))
	rootCmd.AddCommand(newServeCmd(&envFile))
	return rootCmd
}
