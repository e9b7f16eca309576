// Package main provides the export command: the HTTP API plus CLI mirrors of its endpoints.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ezexport/internal/config"
	"ezexport/internal/logger"
)

// rootOptions holds flags shared by every subcommand.
type rootOptions struct {
	configPath string
	envFile    string
	logLevel   string
}

func main() {
	cmd := newRootCommand()
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "exporter",
		Short:         "Export legacy eZ Publish pages in the target content schema",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Path to YAML config file")
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "Path to .env file (ignored when missing)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Override logging level (debug, info, warn, error)")

	cmd.AddCommand(
		newServeCommand(opts),
		newURLsCommand(opts),
		newContentCommand(opts),
		newNormalizeCommand(opts),
		newConfigCommand(),
	)

	return cmd
}

// load reads configuration and builds the logger. Logs go to stderr so
// command output on stdout stays machine-readable.
func (o *rootOptions) load() (*config.Config, *logger.Logger, error) {
	cfg, err := config.LoadConfig(o.configPath, o.envFile)
	if err != nil {
		return nil, nil, err
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format, os.Stderr)

	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
		log.SetLevel(o.logLevel)
	}

	return cfg, log, nil
}

// loadWithSources is load plus a check that the sheet and CMS are configured.
func (o *rootOptions) loadWithSources() (*config.Config, *logger.Logger, error) {
	cfg, log, err := o.load()
	if err != nil {
		return nil, nil, err
	}

	if err := cfg.ValidateSources(); err != nil {
		return nil, nil, fmt.Errorf("missing data sources: %w", err)
	}

	return cfg, log, nil
}
