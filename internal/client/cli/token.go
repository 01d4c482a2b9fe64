package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/myday/internal/auth"
	"github.com/dmitrijs2005/myday/internal/shared"
	"github.com/spf13/cobra"
)

func newTokenCommand(r *runner) *cobra.Command {
	var (
		user   string
		secret string
		ttl    time.Duration
	)
	cmd := &cobra.Command{
		Use:         "token",
		Short:       "Issue an access token for the document server",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{noApp: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if user == "" {
				return fmt.Errorf("--user is required")
			}
			key := []byte(secret)
			if secret == "" {
				key = []byte(r.opts.Getenv("MYDAY_TOKEN_SECRET"))
			}
			defer func() { shared.WipeByteArray(key) }()
			if len(key) == 0 && isTerminal(cmd.InOrStdin()) {
				var err error
				key, err = GetSecret("Signing secret", cmd.ErrOrStderr())
				if err != nil {
					return err
				}
			}
			if len(strings.TrimSpace(string(key))) == 0 {
				return fmt.Errorf("signing secret is empty: pass --secret or set MYDAY_TOKEN_SECRET")
			}

			token, err := auth.GenerateToken(user, key, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&user, "user", "", "owner id the token grants access to")
	cmd.Flags().StringVar(&secret, "secret", "", "signing secret shared with the server")
	cmd.Flags().DurationVar(&ttl, "ttl", 30*24*time.Hour, "token lifetime")
	return cmd
}
