package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/sagar-developer08/admin-ecom-sub000/internal/domain/entities"
	"github.com/sagar-developer08/admin-ecom-sub000/internal/events"
	"github.com/sagar-developer08/admin-ecom-sub000/internal/pkg/textutil"
)

func newVendorsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "vendors",
		Aliases: []string{"vendor"},
		Short:   "Review and manage vendors",
	}

	var list listFlags
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List vendors",
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := getCliContext(cmd).API.Vendors.List(cmd.Context(), list.params())
			if err != nil {
				return err
			}
			return printList(cmd, page, []string{"ID", "BUSINESS", "EMAIL", "STATUS", "COMMISSION"}, func(v entities.Vendor) []string {
				return []string{v.ID, v.BusinessName, v.Email, string(v.Status), v.CommissionRate.String() + "%"}
			})
		},
	}
	list.register(listCmd, true)

	getCmd := &cobra.Command{
		Use:   "get ID",
		Short: "Show a vendor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := getCliContext(cmd).API.Vendors.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printItem(cmd, v, [][2]string{
				{"ID", v.ID}, {"Business", v.BusinessName}, {"Email", v.Email}, {"Phone", orDash(v.Phone)},
				{"Status", string(v.Status)}, {"Commission", v.CommissionRate.String() + "%"},
				{"Joined", formatTime(v.CreatedAt)},
			})
		},
	}

	approveCmd := &cobra.Command{
		Use:   "approve ID",
		Short: "Approve a pending vendor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := getCliContext(cmd).API.Vendors.Approve(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Vendor %q is now %s\n", v.BusinessName, v.Status)
			return nil
		},
	}

	var reason string
	suspendCmd := &cobra.Command{
		Use:   "suspend ID",
		Short: "Suspend a vendor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := getCliContext(cmd).API.Vendors.Suspend(cmd.Context(), args[0], reason)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Vendor %q is now %s\n", v.BusinessName, v.Status)
			return nil
		},
	}
	suspendCmd.Flags().StringVar(&reason, "reason", "", "Reason shown to the vendor")

	commissionCmd := &cobra.Command{
		Use:   "commission ID RATE",
		Short: "Set a vendor's commission rate in percent",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rate, err := decimal.NewFromString(strings.TrimSuffix(args[1], "%"))
			if err != nil {
				return fmt.Errorf("invalid rate %q: %w", args[1], err)
			}
			v, err := getCliContext(cmd).API.Vendors.SetCommission(cmd.Context(), args[0], rate)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Vendor %q commission set to %s%%\n", v.BusinessName, v.CommissionRate)
			return nil
		},
	}

	cmd.AddCommand(listCmd, getCmd, approveCmd, suspendCmd, commissionCmd)
	return cmd
}

func newTicketsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tickets",
		Aliases: []string{"ticket"},
		Short:   "Work support tickets",
	}

	var list listFlags
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List tickets",
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := getCliContext(cmd).API.Tickets.List(cmd.Context(), list.params())
			if err != nil {
				return err
			}
			return printList(cmd, page, []string{"ID", "SUBJECT", "STATUS", "PRIORITY", "UPDATED"}, func(t entities.Ticket) []string {
				return []string{t.ID, textutil.Cell(t.Subject, maxCellWidth), t.Status, orDash(t.Priority), formatTime(t.UpdatedAt)}
			})
		},
	}
	list.register(listCmd, true)

	showCmd := &cobra.Command{
		Use:     "show ID",
		Aliases: []string{"get"},
		Short:   "Show a ticket conversation",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := getCliContext(cmd)
			t, err := cc.API.Tickets.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if jsonOutput() {
				return printJSON(cmd.OutOrStdout(), t)
			}
			printMarkdown(cmd.OutOrStdout(), cc.Config, ticketMarkdown(t))
			return nil
		},
	}

	replyCmd := &cobra.Command{
		Use:   "reply ID MESSAGE",
		Short: "Reply to a ticket (MESSAGE may be markdown; use - to read stdin)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			message := args[1]
			if message == "-" {
				data, err := readAllLimited(cmd.InOrStdin())
				if err != nil {
					return err
				}
				message = string(data)
			}
			t, err := getCliContext(cmd).API.Tickets.Reply(cmd.Context(), args[0], message)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Replied to %q (%d messages)\n", t.Subject, len(t.Messages))
			return nil
		},
	}

	closeCmd := &cobra.Command{
		Use:   "close ID",
		Short: "Close a ticket",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := getCliContext(cmd).API.Tickets.Close(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Ticket %q is now %s\n", t.Subject, t.Status)
			return nil
		},
	}

	cmd.AddCommand(listCmd, showCmd, replyCmd, closeCmd)
	return cmd
}

// ticketMarkdown lays a ticket conversation out as one markdown document
func ticketMarkdown(t *entities.Ticket) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", t.Subject)
	fmt.Fprintf(&b, "**Status:** %s", t.Status)
	if t.Priority != "" {
		fmt.Fprintf(&b, " · **Priority:** %s", t.Priority)
	}
	b.WriteString("\n")
	for _, m := range t.Messages {
		author := m.Author
		if author == "" {
			author = orDash(m.AuthorID)
		}
		fmt.Fprintf(&b, "\n---\n\n### %s · %s\n\n%s\n", author, formatTime(m.CreatedAt), m.Body)
	}
	return b.String()
}

func newNotificationsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "notifications",
		Aliases: []string{"notification", "notif"},
		Short:   "Read notifications",
	}

	var (
		list   listFlags
		unread bool
	)
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List notifications",
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := getCliContext(cmd).API.Notifications.List(cmd.Context(), list.params(), unread)
			if err != nil {
				return err
			}
			return printList(cmd, page, []string{"ID", "TYPE", "TITLE", "READ", "CREATED"}, func(n entities.Notification) []string {
				return []string{n.ID, n.Type, textutil.Cell(n.Title, maxCellWidth), yesNo(n.Read), formatTime(n.CreatedAt)}
			})
		},
	}
	list.register(listCmd, false)
	listCmd.Flags().BoolVar(&unread, "unread", false, "Only unread notifications")

	countCmd := &cobra.Command{
		Use:   "count",
		Short: "Show the unread notification count",
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := getCliContext(cmd).API.Notifications.UnreadCount(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), n)
			return nil
		},
	}

	var all bool
	readCmd := &cobra.Command{
		Use:   "read [ID...]",
		Short: "Mark notifications as read",
		RunE: func(cmd *cobra.Command, args []string) error {
			api := getCliContext(cmd).API
			if all {
				if err := api.Notifications.MarkAllRead(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "All notifications marked as read")
				return nil
			}
			if len(args) == 0 {
				return errors.New("give notification IDs or --all")
			}
			for _, id := range args {
				if err := api.Notifications.MarkRead(cmd.Context(), id); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d notification(s) marked as read\n", len(args))
			return nil
		},
	}
	readCmd.Flags().BoolVar(&all, "all", false, "Mark every notification as read")

	cmd.AddCommand(listCmd, countCmd, readCmd, newNotificationsWatchCommand())
	return cmd
}

func newNotificationsWatchCommand() *cobra.Command {
	var eventsFilter []string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream live notifications until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := getCliContext(cmd)
			out := cmd.OutOrStdout()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			sub := events.NewSubscriber(cc.API.Config.Stream.URL, cc.API.Credentials)
			defer sub.Close()

			show := func(ev entities.StreamEvent) {
				if jsonOutput() {
					_ = printJSON(out, ev)
					return
				}
				fmt.Fprintln(out, describeEvent(ev))
			}

			if len(eventsFilter) == 0 {
				if err := sub.On(events.AnyEvent, show); err != nil {
					return err
				}
			}
			for _, name := range eventsFilter {
				if err := sub.On(name, show); err != nil {
					return err
				}
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "Watching %s (Ctrl+C to stop)\n", cc.API.Config.Stream.URL)
			if err := sub.Run(ctx); err != nil {
				if errors.Is(err, events.ErrUnauthorized) {
					return fmt.Errorf("%w: %s", err, sessionExpiredMessage)
				}
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&eventsFilter, "event", nil,
		"Only show these events ("+strings.Join([]string{events.EventNotification, events.EventUnreadCount, events.EventTicketReply, events.EventVendorSignup, events.EventOrderPlaced}, ", ")+")")
	return cmd
}

// describeEvent turns a stream event into one human-readable line
func describeEvent(ev entities.StreamEvent) string {
	switch ev.Event {
	case events.EventNotification:
		var n entities.Notification
		if json.Unmarshal(ev.Data, &n) == nil && n.Title != "" {
			return fmt.Sprintf("[%s] %s: %s", orDash(n.Type), n.Title, textutil.Cell(n.Body, 120))
		}
	case events.EventUnreadCount:
		var c entities.UnreadCount
		if json.Unmarshal(ev.Data, &c) == nil {
			return fmt.Sprintf("[unread] %d unread notification(s)", c.Count)
		}
	}
	if len(ev.Data) == 0 {
		return "[" + ev.Event + "]"
	}
	return fmt.Sprintf("[%s] %s", ev.Event, ev.Data)
}

func newMediaCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "media",
		Short: "Upload and delete media files",
	}

	var (
		folder      string
		contentType string
	)
	uploadCmd := &cobra.Command{
		Use:   "upload FILE",
		Short: "Upload a file and print its URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open file: %w", err)
			}
			defer f.Close()

			asset, err := getCliContext(cmd).API.Media.Upload(cmd.Context(), filepath.Base(args[0]), contentType, f, folder)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return printJSON(cmd.OutOrStdout(), asset)
			}
			fmt.Fprintln(cmd.OutOrStdout(), asset.URL)
			return nil
		},
	}
	uploadCmd.Flags().StringVar(&folder, "folder", "", "Destination folder (e.g. brands, products)")
	uploadCmd.Flags().StringVar(&contentType, "content-type", "", "Content type (sniffed when empty)")

	cmd.AddCommand(uploadCmd, newDeleteCommand("media file", func(cmd *cobra.Command, id string) error {
		return getCliContext(cmd).API.Media.Delete(cmd.Context(), id)
	}))
	return cmd
}

// maxReplySize bounds ticket replies read from stdin
const maxReplySize = 64 << 10

func readAllLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxReplySize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read reply: %w", err)
	}
	if len(data) > maxReplySize {
		return nil, fmt.Errorf("reply exceeds %d KB", maxReplySize>>10)
	}
	return data, nil
}
