package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/dmitrijs2005/myday/internal/client/live"
	"github.com/dmitrijs2005/myday/internal/client/models"
	"github.com/spf13/cobra"
)

func newWatchCommand(r *runner) *cobra.Command {
	var pull bool
	cmd := &cobra.Command{
		Use:       "watch entries|links|trash",
		Short:     "Print a listing and reprint it whenever it changes",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"entries", "links", "trash"},
		RunE: func(cmd *cobra.Command, args []string) error {
			a := r.app
			ctx := cmd.Context()
			if err := a.store.Watch(a.cfg.WatchDebounce, a.logger); err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			switch args[0] {
			case "entries":
				if pull {
					a.pullBeforeShowing(ctx, models.EntryCollection, a.diary.SyncFromRemote)
				}
				return follow(ctx, w, a.diary.ObserveAll(ctx), printEntries)
			case "links":
				if pull {
					a.pullBeforeShowing(ctx, models.LinkCollection, a.links.SyncFromRemote)
				}
				return follow(ctx, w, a.links.ObserveAll(ctx), printLinks)
			default:
				return follow(ctx, w, a.trash.Observe(ctx), func(w io.Writer, list []*models.TrashedEntry) {
					days, ok, _ := a.trash.RemainingDays(ctx)
					printTrash(w, list, days, ok)
				})
			}
		},
	}
	cmd.Flags().BoolVar(&pull, "sync", false, "download entries or links from other devices first; trash is local only")
	return cmd
}

// follow prints every snapshot of s until ctx ends. Failed queries are
// reported and the stream retries on the next change.
func follow[T any](ctx context.Context, w io.Writer, s *live.Stream[T], render func(io.Writer, []T)) error {
	defer s.Close()
	for {
		select {
		case <-ctx.Done():
			return nil
		case snap, ok := <-s.C:
			if !ok {
				return nil
			}
			fmt.Fprintln(w, "--")
			if snap.Err != nil {
				fmt.Fprintf(w, "error: %v\n", snap.Err)
				continue
			}
			render(w, snap.Items)
		}
	}
}
