package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/sagar-developer08/admin-ecom-sub000/internal/auth"
	"github.com/sagar-developer08/admin-ecom-sub000/internal/client"
	"github.com/sagar-developer08/admin-ecom-sub000/internal/pkg/logger"
)

func newAuthCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authentication commands",
		Long:  `Manage the admin session for the current context`,
	}

	cmd.AddCommand(newAuthLoginCommand())
	cmd.AddCommand(newAuthLogoutCommand())
	cmd.AddCommand(newAuthStatusCommand())
	cmd.AddCommand(newAuthWhoamiCommand())
	cmd.AddCommand(newAuthTokenCommand())

	return cmd
}

func newAuthLoginCommand() *cobra.Command {
	var (
		email    string
		password string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Login to the admin API",
		Long: `Authenticate with email and password. Superadmin and vendor accounts are both accepted;
what you can do afterwards depends on the role in the issued token.

Examples:
  shopadmin auth login
  shopadmin auth login --email admin@example.com`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := getCliContext(cmd)
			log := logger.WithCommand(slog.Default(), "login")

			var err error
			if email == "" || password == "" {
				email, password, err = promptCredentials(cmd.InOrStdin(), cmd.OutOrStdout(), email)
				if err != nil {
					return err
				}
			}

			log.Info("Starting login", "email", email, "context", cc.Config.CurrentContext)
			result, err := cc.API.Auth.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if result.User != nil {
				fmt.Fprintf(out, "✓ Successfully logged in as %s (%s)\n", result.User.Email, result.User.Role)
			} else {
				fmt.Fprintln(out, "✓ Successfully logged in")
			}
			if creds, err := cc.API.Credentials.Credentials(); err == nil && !creds.ExpiresAt.IsZero() {
				fmt.Fprintf(out, "  Token expires: %s\n", creds.ExpiresAt.Local().Format("2006-01-02 15:04:05"))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "Account email (prompted when empty)")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password (prompted when empty)")

	return cmd
}

func newAuthLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Logout from the admin API",
		Long:  `Tell the auth service to end the session, then remove the stored credentials and auth cookie`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := getCliContext(cmd)
			if _, err := cc.API.Credentials.GetToken(); errors.Is(err, client.ErrNoToken) {
				fmt.Fprintln(cmd.OutOrStdout(), "Not logged in")
				return nil
			}

			if err := cc.API.Auth.Logout(cmd.Context()); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "✓ Successfully logged out")
			return nil
		},
	}
}

func newAuthStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show authentication status",
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := getCliContext(cmd)
			out := cmd.OutOrStdout()

			creds, err := cc.API.Credentials.Credentials()
			if err != nil {
				fmt.Fprintln(out, "Not logged in")
				return nil
			}

			fmt.Fprintf(out, "Context: %s\n", cc.Config.CurrentContext)
			fmt.Fprintf(out, "Logged in as: %s\n", orDash(creds.Email))
			fmt.Fprintf(out, "User ID: %s\n", orDash(creds.UserID))
			fmt.Fprintf(out, "Role: %s\n", orDash(creds.Role))

			if _, ok := cc.API.Credentials.AuthCookie(); ok {
				fmt.Fprintln(out, "Auth cookie: stored")
			} else {
				fmt.Fprintln(out, "Auth cookie: missing")
			}
			if creds.RefreshToken != "" {
				fmt.Fprintln(out, "Refresh token: stored")
			} else {
				fmt.Fprintln(out, "Refresh token: none (an unavailable token service will end the session)")
			}

			claims, err := cc.API.Auth.Claims()
			if claims == nil || claims.ExpiresAt == nil {
				if err != nil && !errors.Is(err, auth.ErrExpiredToken) {
					logger.WithCommand(cc.Logger, "status").Debug("access token is not a readable JWT", slog.String("error", err.Error()))
				}
				fmt.Fprintln(out, "Token expiry: unknown")
				return nil
			}
			fmt.Fprintf(out, "Token expires: %s\n", claims.ExpiresAt.Local().Format("2006-01-02 15:04:05 MST"))

			if left := claims.ExpiresIn(time.Now()); left <= 0 {
				fmt.Fprintf(out, "⚠  Token expired %s ago - a refresh will be attempted on the next request\n", formatDuration(left))
			} else {
				fmt.Fprintf(out, "✓  Valid for %s\n", formatDuration(left))
			}
			return nil
		},
	}
}

func newAuthWhoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user as the auth service sees it",
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := getCliContext(cmd)
			user, err := cc.API.Auth.Me(cmd.Context())
			if err != nil {
				return err
			}
			return printItem(cmd, user, [][2]string{
				{"ID", user.ID},
				{"Name", user.Name},
				{"Email", user.Email},
				{"Role", string(user.Role)},
				{"Vendor", orDash(user.VendorID)},
				{"Last login", formatTime(user.LastLogin)},
			})
		},
	}
}

func newAuthTokenCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "token",
		Short: "Display the current access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := getCliContext(cmd).API.Credentials.GetToken()
			if err != nil {
				return fmt.Errorf("not logged in: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), token.AccessToken)
			return nil
		},
	}
}

// promptCredentials asks for whatever was not given on the command line.
// The password is read without echo when stdin is a terminal.
func promptCredentials(in io.Reader, out io.Writer, email string) (string, string, error) {
	reader := bufio.NewReader(in)

	if email == "" {
		fmt.Fprint(out, "Email: ")
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return "", "", fmt.Errorf("failed to read email: %w", err)
		}
		email = strings.TrimSpace(line)
	}

	fmt.Fprint(out, "Password: ")
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		passwordBytes, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(out)
		if err != nil {
			return "", "", fmt.Errorf("failed to read password: %w", err)
		}
		return email, string(passwordBytes), nil
	}

	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", "", fmt.Errorf("failed to read password: %w", err)
	}
	return email, strings.TrimRight(line, "\r\n"), nil
}
