package cli

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sagar-developer08/admin-ecom-sub000/internal/config"
	"github.com/sagar-developer08/admin-ecom-sub000/internal/pkg/timeutil"
)

func newConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration and contexts",
		Long:  `Manage CLI configuration including service contexts, similar to kubectl contexts.`,
	}

	cmd.AddCommand(newCurrentContextCommand())
	cmd.AddCommand(newUseContextCommand())
	cmd.AddCommand(newListContextsCommand())
	cmd.AddCommand(newAddContextCommand())
	cmd.AddCommand(newDeleteContextCommand())
	cmd.AddCommand(newConfigShowCommand())

	return cmd
}

func newCurrentContextCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "current-context",
		Short: "Display the current context",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cfg.CurrentContext)
			return nil
		},
	}
}

func newUseContextCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "use-context CONTEXT_NAME",
		Short: "Switch to a different context",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			contextName := args[0]

			cfg, err := LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			if err := cfg.SetCurrentContext(contextName); err != nil {
				return err
			}

			if err := SaveConfig(cfg); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Switched to context %q\n", contextName)
			return nil
		},
	}
}

func newListContextsCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list-contexts",
		Aliases: []string{"get-contexts"},
		Short:   "List all available contexts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			if len(cfg.Contexts) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No contexts configured")
				return nil
			}

			names := make([]string, 0, len(cfg.Contexts))
			for name := range cfg.Contexts {
				names = append(names, name)
			}
			sort.Strings(names)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "CURRENT\tNAME\tAUTH\tTHEME")
			for _, name := range names {
				ctx := cfg.Contexts[name]
				current := " "
				if name == cfg.CurrentContext {
					current = "*"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", current, name, ctx.Services.Auth, ctx.Rendering.Theme)
			}
			return w.Flush()
		},
	}
}

func newAddContextCommand() *cobra.Command {
	var (
		host   string
		urls   map[string]string
		stream   string
		theme    string
		timezone string
	)

	cmd := &cobra.Command{
		Use:   "add-context CONTEXT_NAME",
		Short: "Add or update a context",
		Long: `Add or update a context. Without --host every service uses its local development
URL. With --host every service is expected behind one gateway under /api. Override
individual services with --url.

Examples:
  shopadmin config add-context staging --host https://staging.example.com
  shopadmin config add-context dev --url media=http://localhost:7005/api/media`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			contextName := args[0]

			cfg, err := LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			if timezone != "" && !timeutil.IsValidTimezone(timezone) {
				return fmt.Errorf("unknown timezone %q", timezone)
			}

			ctx := &Context{Services: config.DefaultServices(), Stream: stream}
			ctx.Rendering.Theme = theme
			ctx.Rendering.Timezone = timezone
			if host != "" {
				ctx.Services = servicesOnHost(host)
			}
			for service, url := range urls {
				if err := ctx.Services.Set(service, url); err != nil {
					return err
				}
			}
			// Validate before persisting
			if _, err := config.FromServices(ctx.Services); err != nil {
				return err
			}

			cfg.AddContext(contextName, ctx)
			if len(cfg.Contexts) == 1 {
				cfg.CurrentContext = contextName
			}

			if err := SaveConfig(cfg); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Context %q added/updated\n", contextName)
			return nil
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "Gateway host serving every service under /api (e.g. https://admin.example.com)")
	cmd.Flags().StringToStringVar(&urls, "url", nil, "Per-service base URL override, e.g. --url product=http://localhost:5001/api/products")
	cmd.Flags().StringVar(&stream, "stream", "", "Notification stream URL (derived from the notification service when empty)")
	cmd.Flags().StringVar(&theme, "theme", "auto", "Markdown rendering theme")
	cmd.Flags().StringVar(&timezone, "timezone", "", "Display timezone, e.g. Asia/Dubai (default: local)")

	return cmd
}

// servicesOnHost lays every service out behind one gateway host
func servicesOnHost(host string) config.ServicesConfig {
	return config.ServicesConfig{
		Auth:         host + "/api/auth",
		Product:      host + "/api/products",
		Vendor:       host + "/api/vendors",
		Support:      host + "/api/support",
		Notification: host + "/api/notifications",
		Media:        host + "/api/media",
	}
}

func newDeleteContextCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete-context CONTEXT_NAME",
		Short: "Delete a context",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			contextName := args[0]

			cfg, err := LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			if err := cfg.DeleteContext(contextName); err != nil {
				return err
			}

			if err := SaveConfig(cfg); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			// Stale credentials for a deleted context are useless
			_ = NewFileCredentials(contextName).ClearToken()

			fmt.Fprintf(cmd.OutOrStdout(), "Context %q deleted\n", contextName)
			return nil
		},
	}
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current context configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			clientCfg, err := cfg.ClientConfig()
			if err != nil {
				return err
			}
			ctx, _ := cfg.GetCurrentContext()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Current context: %s\n", cfg.CurrentContext)
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			for _, service := range config.ServiceNames {
				url, _ := clientCfg.Services.BaseURL(service)
				fmt.Fprintf(w, "  %s\t%s\n", service, url)
			}
			fmt.Fprintf(w, "  stream\t%s\n", clientCfg.Stream.URL)
			fmt.Fprintf(w, "  theme\t%s\n", ctx.Rendering.Theme)
			fmt.Fprintf(w, "  timezone\t%s\n", orDash(ctx.Rendering.Timezone))
			if err := w.Flush(); err != nil {
				return err
			}

			configPath, _ := GetConfigPath()
			fmt.Fprintf(out, "Config file: %s\n", configPath)
			return nil
		},
	}
}
