package cli

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/myday/internal/client/models"
	"github.com/spf13/cobra"
)

func newEntryCommand(r *runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "entry",
		Aliases: []string{"entries", "e"},
		Short:   "Write, read and delete diary entries",
	}
	cmd.AddCommand(
		newEntryAddCommand(r),
		newEntryListCommand(r),
		newEntryShowCommand(r),
		newEntryEditCommand(r),
		newEntryDeleteCommand(r),
	)
	return cmd
}

func newEntryAddCommand(r *runner) *cobra.Command {
	var title, body, date string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an entry; the body is read from stdin unless --body is given",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := r.app
			e := &models.Entry{Title: strings.TrimSpace(title), Body: body}
			if date != "" {
				t, err := parseDate(date, a.clock.Now())
				if err != nil {
					return err
				}
				e.OccurredAt = t
			}
			if !cmd.Flags().Changed("body") {
				text, err := readBody(cmd.InOrStdin(), cmd.OutOrStdout())
				if err != nil {
					return err
				}
				e.Body = text
			}

			id, err := a.diary.Insert(cmd.Context(), e)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added entry %d\n", id)
			return nil
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "entry title")
	cmd.Flags().StringVarP(&body, "body", "b", "", "entry text")
	cmd.Flags().StringVarP(&date, "date", "d", "", `entry date, e.g. 2025-06-01 or "yesterday"`)
	return cmd
}

func newEntryListCommand(r *runner) *cobra.Command {
	var pull bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List entries, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if pull {
				r.app.pullBeforeShowing(cmd.Context(), models.EntryCollection, r.app.diary.SyncFromRemote)
			}
			list, err := r.app.diary.List(cmd.Context())
			if err != nil {
				return err
			}
			printEntries(cmd.OutOrStdout(), list)
			return nil
		},
	}
	cmd.Flags().BoolVar(&pull, "sync", false, "download entries from other devices first")
	return cmd
}

func newEntryShowCommand(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Print one entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			e, err := r.app.diary.GetByID(cmd.Context(), id)
			if err != nil {
				return err
			}
			printEntry(cmd.OutOrStdout(), e)
			return nil
		},
	}
}

func newEntryEditCommand(r *runner) *cobra.Command {
	var title, body, date string
	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Change the title, text or date of an entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := r.app
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			e, err := a.diary.GetByID(cmd.Context(), id)
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if !flags.Changed("title") && !flags.Changed("body") && !flags.Changed("date") {
				return fmt.Errorf("nothing to change: pass --title, --body or --date")
			}
			if flags.Changed("title") {
				e.Title = strings.TrimSpace(title)
			}
			if flags.Changed("body") {
				e.Body = body
			}
			if flags.Changed("date") {
				t, err := parseDate(date, a.clock.Now())
				if err != nil {
					return err
				}
				e.OccurredAt = t
			}

			if err := a.diary.Update(cmd.Context(), e); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated entry %d\n", id)
			return nil
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "new title")
	cmd.Flags().StringVarP(&body, "body", "b", "", "new text")
	cmd.Flags().StringVarP(&date, "date", "d", "", "new date")
	return cmd
}

func newEntryDeleteCommand(r *runner) *cobra.Command {
	var permanent bool
	cmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Move an entry to the trash, or delete it outright with --permanent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := r.app
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if permanent {
				if err := a.diary.Delete(cmd.Context(), id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted entry %d\n", id)
				return nil
			}
			t, err := a.trash.SoftDelete(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "moved entry %d to trash as %d\n", id, t.LocalID)
			return nil
		},
	}
	cmd.Flags().BoolVar(&permanent, "permanent", false, "skip the trash")
	return cmd
}
