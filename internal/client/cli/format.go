package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/myday/internal/client/enrich"
	"github.com/dmitrijs2005/myday/internal/client/models"
)

const listTitleWidth = 40

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func parseIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, a := range args {
		id, err := parseID(a)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func syncState(remoteID string) string {
	if remoteID == "" {
		return "local"
	}
	return "synced"
}

func short(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return "(untitled)"
	}
	return enrich.Truncate(s, listTitleWidth)
}

func printEntries(w io.Writer, list []*models.Entry) {
	if len(list) == 0 {
		fmt.Fprintln(w, "no entries")
		return
	}
	for _, e := range list {
		fmt.Fprintf(w, "%-6d %s  %-6s  %s\n", e.LocalID, e.OccurredAt.Format("2006-01-02 15:04"), syncState(e.RemoteID), short(e.Title))
	}
}

func printEntry(w io.Writer, e *models.Entry) {
	fmt.Fprintf(w, "id:       %d\n", e.LocalID)
	fmt.Fprintf(w, "title:    %s\n", e.Title)
	fmt.Fprintf(w, "date:     %s\n", e.OccurredAt.Format(time.RFC3339))
	fmt.Fprintf(w, "created:  %s\n", e.CreatedAt.Format(time.RFC3339))
	if e.RemoteID != "" {
		fmt.Fprintf(w, "remote:   %s\n", e.RemoteID)
	}
	fmt.Fprintf(w, "\n%s\n", e.Body)
}

func printTrash(w io.Writer, list []*models.TrashedEntry, days int, ok bool) {
	if len(list) == 0 {
		fmt.Fprintln(w, "trash is empty")
		return
	}
	for _, t := range list {
		fmt.Fprintf(w, "%-6d deleted %s  %s\n", t.LocalID, t.DeletedAt.Format("2006-01-02 15:04"), short(t.Title))
	}
	if ok {
		fmt.Fprintf(w, "oldest entry is removed in %d days\n", days)
	}
}

func printLinks(w io.Writer, list []*models.SocialLink) {
	if len(list) == 0 {
		fmt.Fprintln(w, "no links")
		return
	}
	for _, l := range list {
		title := l.Title
		if title == "" {
			title = l.URL
		}
		fmt.Fprintf(w, "%-6d %-9s  %-6s  %s\n", l.LocalID, l.Platform.DisplayName(), syncState(l.RemoteID), short(title))
	}
}

func printLink(w io.Writer, l *models.SocialLink) {
	fmt.Fprintf(w, "id:          %d\n", l.LocalID)
	fmt.Fprintf(w, "url:         %s\n", l.URL)
	fmt.Fprintf(w, "platform:    %s\n", l.Platform.DisplayName())
	fmt.Fprintf(w, "title:       %s\n", l.Title)
	fmt.Fprintf(w, "description: %s\n", l.Description)
	if l.ImageURL != "" {
		fmt.Fprintf(w, "image:       %s\n", l.ImageURL)
	}
	if l.RemoteID != "" {
		fmt.Fprintf(w, "remote:      %s\n", l.RemoteID)
	}
}
