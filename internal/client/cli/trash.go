package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newTrashCommand(r *runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trash",
		Short: "Review, restore and purge deleted entries",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List the trash; entries older than 30 days are purged first",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				ctx := cmd.Context()
				list, err := r.app.trash.Open(ctx)
				if err != nil {
					return err
				}
				days, ok, err := r.app.trash.RemainingDays(ctx)
				if err != nil {
					return err
				}
				printTrash(cmd.OutOrStdout(), list, days, ok)
				return nil
			},
		},
		&cobra.Command{
			Use:   "restore ID...",
			Short: "Put trashed entries back in the diary",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				ids, err := parseIDs(args)
				if err != nil {
					return err
				}
				restored, err := r.app.trash.RestoreMany(cmd.Context(), ids)
				for _, e := range restored {
					fmt.Fprintf(cmd.OutOrStdout(), "restored as entry %d\n", e.LocalID)
				}
				return err
			},
		},
		&cobra.Command{
			Use:   "evict ID...",
			Short: "Permanently delete trashed entries",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				ids, err := parseIDs(args)
				if err != nil {
					return err
				}
				n, err := r.app.trash.EvictMany(cmd.Context(), ids)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "evicted %d\n", n)
				return nil
			},
		},
		&cobra.Command{
			Use:   "empty",
			Short: "Permanently delete everything in the trash",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				n, err := r.app.trash.EvictAll(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "evicted %d\n", n)
				return nil
			},
		},
	)
	return cmd
}
