package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/sagar-developer08/admin-ecom-sub000/internal/pkg/idgen"
	"github.com/sagar-developer08/admin-ecom-sub000/internal/pkg/logger"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const cliContextKey contextKey = "cliContext"

// cliNodeID keeps CLI request IDs apart from the web host's
const cliNodeID = 2

// CliContext holds shared CLI context
type CliContext struct {
	Config *Config
	API    *API
	Logger *slog.Logger
}

// Global flags
var (
	logLevel      string
	logFile       string
	logToStderr   bool
	alsoLogStderr bool
	logFormat     string
	outputFormat  string
)

// NewRootCommand creates the root cobra command
func NewRootCommand() *cobra.Command {
	var ctx CliContext

	rootCmd := &cobra.Command{
		Use:           "shopadmin",
		Short:         "CLI for administering the shop",
		Long:          `A command line interface for the shop's admin APIs: catalog, vendors, support tickets, notifications and media.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := setupLogging(); err != nil {
				return fmt.Errorf("failed to setup logging: %w", err)
			}
			if err := idgen.Initialize(cliNodeID); err != nil {
				return fmt.Errorf("failed to initialize id generator: %w", err)
			}

			ctx.Logger = slog.Default().With("component", "cli")
			ctx.Logger.Debug("CLI started", "command", cmd.CommandPath())

			// Config commands manage the file the API is built from
			if inCommand(cmd, "config") {
				cmd.SetContext(context.WithValue(cmd.Context(), cliContextKey, &ctx))
				return nil
			}

			cfg, err := LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			ctx.Config = cfg
			if current, err := cfg.GetCurrentContext(); err == nil {
				displayTimezone = current.Rendering.Timezone
			}

			api, err := NewAPI(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			ctx.API = api

			cmd.SetContext(context.WithValue(cmd.Context(), cliContextKey, &ctx))
			return nil
		},
	}

	rootCmd.AddCommand(newAuthCommand())
	rootCmd.AddCommand(newConfigCommand())
	rootCmd.AddCommand(newBrandsCommand())
	rootCmd.AddCommand(newCategoriesCommand())
	rootCmd.AddCommand(newProductsCommand())
	rootCmd.AddCommand(newAttributesCommand())
	rootCmd.AddCommand(newVendorsCommand())
	rootCmd.AddCommand(newTicketsCommand())
	rootCmd.AddCommand(newNotificationsCommand())
	rootCmd.AddCommand(newMediaCommand())

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn",
		"Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"Log file path (if specified, logs to file instead of stderr)")
	rootCmd.PersistentFlags().BoolVar(&logToStderr, "logtostderr", false,
		"Log to stderr (default behavior unless --log-file specified)")
	rootCmd.PersistentFlags().BoolVar(&alsoLogStderr, "alsologtostderr", false,
		"Log to both file and stderr")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text",
		"Log format (text, json)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table",
		"Output format (table, json)")

	return rootCmd
}

// inCommand reports whether cmd is name or one of its subcommands
func inCommand(cmd *cobra.Command, name string) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Name() == name && c.HasParent() && !c.Parent().HasParent() {
			return true
		}
	}
	return false
}

// setupLogging configures the global logger based on CLI flags
func setupLogging() error {
	if logFile == "" {
		logToStderr = true
	}

	cfg := logger.Config{
		Level:         logger.ParseLevel(logLevel),
		LogFile:       logFile,
		LogToStderr:   logToStderr,
		AlsoLogStderr: alsoLogStderr,
		Format:        logFormat,
	}

	globalLogger, err := logger.SetupLogger(cfg)
	if err != nil {
		return err
	}

	slog.SetDefault(globalLogger)
	return nil
}

// getCliContext extracts the CLI context from the command context
func getCliContext(cmd *cobra.Command) *CliContext {
	return cmd.Context().Value(cliContextKey).(*CliContext)
}
