package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"cashbook/internal/config"
	"cashbook/internal/identity"
)

func tokenCmd() *cobra.Command {
	var ttl time.Duration
	cmd := &cobra.Command{
		Use:   "token <user-id>",
		Short: "Issue a bearer token signed with JWT_SECRET",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			tok, err := identity.NewJWTProvider(cfg.JWTSecret, cfg.JWTIssuer).Issue(args[0], ttl)
			if err != nil {
				return fmt.Errorf("issuing token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	return cmd
}

func hashKeyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-key <user-id> <secret>",
		Short: "Print an API_KEYS entry for a user and secret",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[0] == "" || args[1] == "" {
				return errors.New("user id and secret must not be empty")
			}
			hash, err := identity.HashAPIKey(args[1])
			if err != nil {
				return fmt.Errorf("hashing key: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s:%s\n", args[0], hash)
			return nil
		},
	}
}
