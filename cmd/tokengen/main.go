// Command tokengen mints bearer tokens for the cache admin API, signed with the key from
// the server's configuration, and generates new signing keys.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sidvishnoi/respec-github-apis/internal/config"
	"github.com/sidvishnoi/respec-github-apis/pkg/crypto"
	jwtpkg "github.com/sidvishnoi/respec-github-apis/pkg/jwt"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var (
		configPath string
		subject    string
		ttl        time.Duration
	)

	root := &cobra.Command{
		Use:          "tokengen",
		Short:        "Mint an admin bearer token",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if cfg.Admin.SigningKey == "" {
				return config.ErrSigningKeyRequired
			}

			lifetime := cfg.Admin.TokenTTL
			if ttl > 0 {
				lifetime = ttl
			}
			token, claims, err := jwtpkg.NewManager(cfg.Admin.SigningKey, cfg.Admin.Issuer, lifetime).Generate(subject)
			if err != nil {
				return fmt.Errorf("sign token: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			fmt.Fprintf(cmd.ErrOrStderr(), "subject=%s jti=%s expires=%s\n",
				claims.Subject, claims.ID, claims.ExpiresAt.Time.Format(time.RFC3339))
			return nil
		},
	}
	root.Flags().StringVarP(&configPath, "config", "c", "config.yaml", "path to the server configuration")
	root.Flags().StringVar(&subject, "sub", "admin", "token subject; must be listed in admin.subjects when that list is set")
	root.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (default admin.token_ttl)")

	var keyBytes int
	keygen := &cobra.Command{
		Use:   "keygen",
		Short: "Print a random value for admin.signing_key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			key, err := crypto.GenerateSigningKey(keyBytes)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), key)
			return nil
		},
	}
	keygen.Flags().IntVar(&keyBytes, "bytes", crypto.MinSigningKeyBytes, "key length in bytes")
	root.AddCommand(keygen)

	return root
}
