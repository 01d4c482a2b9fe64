package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newProfileCommand(r *runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or change the account profile kept in the remote store",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := r.app.profile.Get(cmd.Context())
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "owner: %s\n", p.OwnerID)
			fmt.Fprintf(w, "email: %s\n", p.Email)
			fmt.Fprintf(w, "name:  %s\n", p.DisplayName)
			return nil
		},
	}

	var email, name string
	set := &cobra.Command{
		Use:   "set",
		Short: "Update the profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			p, err := r.app.profile.Get(ctx)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("email") {
				p.Email = email
			}
			if cmd.Flags().Changed("name") {
				p.DisplayName = name
			}
			if err := r.app.profile.Save(ctx, p); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "profile saved")
			return nil
		},
	}
	set.Flags().StringVar(&email, "email", "", "email address")
	set.Flags().StringVar(&name, "name", "", "display name")

	cmd.AddCommand(show, set)
	return cmd
}
