package cli

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/myday/internal/client/stats"
	"github.com/spf13/cobra"
)

func newStatsCommand(r *runner) *cobra.Command {
	var day string
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarise the journal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := r.app
			ctx := cmd.Context()
			now := a.clock.Now()

			var rng stats.Range
			if day != "" {
				t, err := parseDate(day, now)
				if err != nil {
					return err
				}
				rng = stats.Day(t)
			}

			entries, err := a.diary.List(ctx)
			if err != nil {
				return err
			}
			links, err := a.links.List(ctx)
			if err != nil {
				return err
			}

			s := stats.Compute(entries, links, rng, now)
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "entries:      %d\n", s.Entries)
			fmt.Fprintf(w, "words:        %d (avg %d)\n", s.Words, s.AverageWords)
			fmt.Fprintf(w, "active days:  %d\n", s.ActiveDays)
			fmt.Fprintf(w, "links:        %d\n", s.Links)
			for _, p := range s.Platforms {
				if p.Count > 0 {
					fmt.Fprintf(w, "  %-10s %3d  %3d%%\n", p.Platform.DisplayName(), p.Count, p.Percent)
				}
			}
			fmt.Fprintln(w, "last months:")
			for _, m := range s.Monthly {
				fmt.Fprintf(w, "  %s %3d %s\n", m.Month.Format("Jan 2006"), m.Count, strings.Repeat("#", m.Count))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&day, "day", "", "only count one day")
	return cmd
}
