package cli

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/myday/internal/client/models"
	"github.com/spf13/cobra"
)

func newLinkCommand(r *runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "link",
		Aliases: []string{"links"},
		Short:   "Save social media links",
	}

	var platform, title string
	add := &cobra.Command{
		Use:   "add URL",
		Short: "Save a link; without --title the page title and description are fetched",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l := &models.SocialLink{
				URL:      strings.TrimSpace(args[0]),
				Platform: models.ParsePlatform(platform),
				Title:    strings.TrimSpace(title),
			}
			id, err := r.app.links.Insert(cmd.Context(), l)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added link %d\n", id)
			return nil
		},
	}
	add.Flags().StringVarP(&platform, "platform", "p", "", "facebook, instagram, tiktok, twitter, youtube or other")
	add.Flags().StringVarP(&title, "title", "t", "", "link title")

	var (
		filter string
		pull   bool
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "List links, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if pull {
				r.app.pullBeforeShowing(cmd.Context(), models.LinkCollection, r.app.links.SyncFromRemote)
			}
			r.app.links.SetFilter(platformFilter(filter))
			list, err := r.app.links.List(cmd.Context())
			if err != nil {
				return err
			}
			printLinks(cmd.OutOrStdout(), list)
			return nil
		},
	}
	list.Flags().StringVarP(&filter, "platform", "p", "", "only show one platform")
	list.Flags().BoolVar(&pull, "sync", false, "download links from other devices first")

	show := &cobra.Command{
		Use:   "show ID",
		Short: "Print one link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			l, err := r.app.links.GetByID(cmd.Context(), id)
			if err != nil {
				return err
			}
			printLink(cmd.OutOrStdout(), l)
			return nil
		},
	}

	del := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := r.app.links.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted link %d\n", id)
			return nil
		},
	}

	cmd.AddCommand(add, list, show, del)
	return cmd
}

// platformFilter maps the --platform value to a filter; "" and "all" clear it.
func platformFilter(s string) models.Platform {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "all") {
		return ""
	}
	return models.ParsePlatform(s)
}
