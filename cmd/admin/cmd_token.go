package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"centraldoconsumidor/backend/internal/api/middleware"
)

var tokenFlags struct {
	ttl time.Duration
}

var tokenCmd = &cobra.Command{
	Use:   "token <user_id>",
	Short: "Issue a bearer token for a user",
	Args:  cobra.ExactArgs(1),
	RunE:  runToken,
}

func init() {
	tokenCmd.Flags().DurationVar(&tokenFlags.ttl, "ttl", 72*time.Hour, "Token lifetime")
}

func runToken(cmd *cobra.Command, args []string) error {
	tokens, err := middleware.NewTokenService(cfg.JWTSecret, tokenFlags.ttl)
	if err != nil {
		return err
	}
	token, err := tokens.GenerateToken(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
