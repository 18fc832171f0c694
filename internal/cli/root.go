package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"slices"

	"github.com/spf13/cobra"

	"restaurant-dashboard/internal/common/logger"
	"restaurant-dashboard/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	LogLevel   string
	Format     string // "json" | "text"
}

var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command of the dashboard CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Restaurant back-office dashboard",
		Long: `Back-office dashboard for a restaurant backend.

Serves the dashboard API with a live order view kept in sync over a push
channel, and offers one-shot commands for orders, tables and reports.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "config file (default: config.yaml or deploy/config.example.yaml)")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "debug|info|warn|error, overrides the config")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewWatchCommand(opts))
	cmd.AddCommand(NewOrdersCommand(opts))
	cmd.AddCommand(NewTablesCommand(opts))
	cmd.AddCommand(NewReportCommand(opts))

	return cmd
}

// load reads the configuration and applies the log level.
func (o *RootOptions) load() (*config.Config, error) {
	path := o.ConfigPath
	if path == "" {
		found, err := config.FindConfig()
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		path = found
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	if o.LogLevel != "" {
		cfg.Log.Level = o.LogLevel
	}
	logger.SetLevel(cfg.Log.Level)
	return cfg, nil
}
