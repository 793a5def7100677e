package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"sf-content-upload/domain/auth"
	"sf-content-upload/infrastructure/salesforce"

	"github.com/spf13/cobra"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Check credentials by requesting an access token",
	Long: `Exchange the configured credentials for an access token and report the result.

The token itself is never printed in full.`,
	RunE: runToken,
}

func init() {
	rootCmd.AddCommand(tokenCmd)
}

func runToken(cmd *cobra.Command, args []string) error {
	cfg, err := requireConfig()
	if err != nil {
		return err
	}
	warnMissing(cfg)

	return RunTokenWithDependencies(cmd.Context(), salesforce.NewAuthenticator(logger), cfg.Credentials(), os.Stdout)
}

// RunTokenWithDependencies runs the token check with injected dependencies (for testing)
func RunTokenWithDependencies(ctx context.Context, authenticator auth.Authenticator, creds auth.Credentials, output OutputWriter) error {
	if ctx == nil {
		ctx = context.Background()
	}

	token, err := authenticator.Authenticate(ctx, creds)
	if err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	fmt.Fprintln(output, "Authenticated.")
	fmt.Fprintf(output, "  Access token: %s\n", token)
	if token.InstanceURL != "" {
		fmt.Fprintf(output, "  Instance URL: %s\n", token.InstanceURL)
	}
	if token.TokenType != "" {
		fmt.Fprintf(output, "  Token type:   %s\n", token.TokenType)
	}
	if !token.IssuedAt.IsZero() {
		fmt.Fprintf(output, "  Issued at:    %s\n", token.IssuedAt.UTC().Format(time.RFC3339))
	}
	return nil
}
