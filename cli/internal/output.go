package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/sagar-developer08/admin-ecom-sub000/internal/domain/entities"
	"github.com/sagar-developer08/admin-ecom-sub000/internal/pkg/timeutil"
)

// listFlags are the paging and filter flags shared by list commands
type listFlags struct {
	page   int
	limit  int
	search string
	status string
	sort   string
}

func (f *listFlags) register(cmd *cobra.Command, withStatus bool) {
	cmd.Flags().IntVar(&f.page, "page", 1, "Page number")
	cmd.Flags().IntVar(&f.limit, "limit", 20, "Items per page")
	cmd.Flags().StringVar(&f.search, "search", "", "Search term")
	cmd.Flags().StringVar(&f.sort, "sort", "", "Sort field, prefix with - for descending")
	if withStatus {
		cmd.Flags().StringVar(&f.status, "status", "", "Filter by status")
	}
}

func (f *listFlags) params() entities.ListParams {
	return entities.ListParams{Page: f.page, Limit: f.limit, Search: f.search, Status: f.status, Sort: f.sort}
}

// jsonOutput reports whether --output json was requested
func jsonOutput() bool {
	return strings.EqualFold(outputFormat, "json")
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printTable writes rows under a header using aligned columns
func printTable(w io.Writer, header []string, rows [][]string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

// printPagination writes a "page X of Y" footer when the server sent one
func printPagination(w io.Writer, p *entities.Pagination) {
	if p == nil || p.TotalPages == 0 {
		return
	}
	fmt.Fprintf(w, "\nPage %d of %d (%d total)\n", p.Page, p.TotalPages, p.Total)
}

// printList renders a page as JSON or as a table
func printList[T any](cmd *cobra.Command, page *entities.Page[T], header []string, row func(T) []string) error {
	out := cmd.OutOrStdout()
	if jsonOutput() {
		return printJSON(out, page.Items)
	}
	if len(page.Items) == 0 {
		fmt.Fprintln(out, "No results")
		return nil
	}
	rows := make([][]string, 0, len(page.Items))
	for _, item := range page.Items {
		rows = append(rows, row(item))
	}
	if err := printTable(out, header, rows); err != nil {
		return err
	}
	printPagination(out, page.Pagination)
	return nil
}

// printItem renders a single record as JSON or as key/value lines
func printItem(cmd *cobra.Command, v any, fields [][2]string) error {
	out := cmd.OutOrStdout()
	if jsonOutput() {
		return printJSON(out, v)
	}
	rows := make([][]string, 0, len(fields))
	for _, f := range fields {
		rows = append(rows, []string{f[0] + ":", f[1]})
	}
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

// maxCellWidth caps free-text columns in tables
const maxCellWidth = 48

// displayTimezone is the current context's timezone, set before each command runs
var displayTimezone string

func formatTime(t time.Time) string {
	return timeutil.Format(t, displayTimezone)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// formatDuration formats a duration in a human-friendly way (e.g., "2 days, 3 hours and 45 minutes")
func formatDuration(d time.Duration) string {
	if d < 0 {
		d = -d
	}

	days := int(d.Hours() / 24)
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	var parts []string
	if days > 0 {
		parts = append(parts, plural(days, "day"))
	}
	if hours > 0 {
		parts = append(parts, plural(hours, "hour"))
	}
	if minutes > 0 {
		parts = append(parts, plural(minutes, "minute"))
	}
	if len(parts) == 0 && seconds > 0 {
		parts = append(parts, plural(seconds, "second"))
	}

	switch len(parts) {
	case 0:
		return "0 seconds"
	case 1:
		return parts[0]
	default:
		return strings.Join(parts[:len(parts)-1], ", ") + " and " + parts[len(parts)-1]
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
