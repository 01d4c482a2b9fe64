package cli

import (
	"context"
	"fmt"
	"sort"

	"github.com/dmitrijs2005/myday/internal/client/syncer"
	"github.com/spf13/cobra"
)

func newSyncCommand(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Download entries and links created on other devices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := r.app.sync.SyncAll(cmd.Context())

			names := make([]string, 0, len(res))
			for name := range res {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d new, %d already here\n", name, res[name].Inserted, res[name].Skipped)
			}
			return err
		},
	}
}

// pullFunc is the SyncFromRemote method of a facade.
type pullFunc func(ctx context.Context, owner string) (syncer.PullResult, error)

// pullBeforeShowing runs pull for the configured owner before a listing.
// A failed pull is logged and otherwise ignored so local data is always
// shown.
func (a *App) pullBeforeShowing(ctx context.Context, collection string, pull pullFunc) {
	res, err := pull(ctx, a.cfg.OwnerID)
	if err != nil {
		a.logger.Warn(ctx, "pull failed", "collection", collection, "error", err)
		return
	}
	a.logger.Info(ctx, "pull finished", "collection", collection, "inserted", res.Inserted, "skipped", res.Skipped)
}
