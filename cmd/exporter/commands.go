package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"ezexport/internal/api"
	"ezexport/internal/config"
	"ezexport/internal/exporter"
	"ezexport/internal/ezpublish"
	"ezexport/internal/formatter"
	"ezexport/internal/logger"
	"ezexport/internal/manifest"
	"ezexport/internal/models"
	"ezexport/internal/normalizer"
	"ezexport/internal/validator"
)

const tableTitleWidth = 40

func newServeCommand(opts *rootOptions) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the export HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := opts.loadWithSources()
			if err != nil {
				return err
			}

			if port != "" {
				cfg.Server.Port = port
			}

			log.Info("starting export API", "config", cfg.String())

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			server := api.NewServer(exporter.NewFromConfig(cfg, log), validator.New(), log)

			return server.Run(ctx, cfg.Server)
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "Override listen port")

	return cmd
}

func newURLsCommand(opts *rootOptions) *cobra.Command {
	var (
		org   string
		debug bool
		table bool
	)

	cmd := &cobra.Command{
		Use:   "urls <type>",
		Short: "List manifest paths of a category (\"all\" for every category)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := opts.loadWithSources()
			if err != nil {
				return err
			}

			svc := exporter.NewFromConfig(cfg, log)
			category := models.Category(args[0])

			if table {
				pages, err := svc.Pages(cmd.Context(), category, org)
				if err != nil {
					return err
				}

				_, err = io.WriteString(cmd.OutOrStdout(), formatter.PageTable(pages))

				return err
			}

			listing, err := svc.ListURLs(cmd.Context(), category, org, debug)
			if err != nil {
				return err
			}

			return writeJSON(cmd.OutOrStdout(), listing)
		},
	}

	cmd.Flags().StringVar(&org, "org", "", "Only pages of this organisation (gl, gu, ga, common)")
	cmd.Flags().BoolVar(&debug, "debug", false, "Print full manifest records instead of paths")
	cmd.Flags().BoolVar(&table, "table", false, "Print an aligned table")

	return cmd
}

func newContentCommand(opts *rootOptions) *cobra.Command {
	var table bool

	cmd := &cobra.Command{
		Use:   "content <path>...",
		Short: "Export the pages behind manifest paths",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := opts.loadWithSources()
			if err != nil {
				return err
			}

			pages, err := exporter.NewFromConfig(cfg, log).Content(cmd.Context(), args)
			if err != nil {
				return err
			}

			return writePages(cmd.OutOrStdout(), pages, table)
		},
	}

	cmd.Flags().BoolVar(&table, "table", false, "Print a summary table instead of JSON")

	return cmd
}

func newNormalizeCommand(opts *rootOptions) *cobra.Command {
	var (
		manifestPath string
		objectsPath  string
		table        bool
	)

	cmd := &cobra.Command{
		Use:   "normalize",
		Short: "Normalize a saved manifest CSV and legacy object dump without network access",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := opts.load()
			if err != nil {
				return err
			}

			pages, err := readManifest(manifestPath, cfg.CMS.Domain, log)
			if err != nil {
				return err
			}

			objects, err := readObjects(objectsPath, cfg.CMS.Domain)
			if err != nil {
				return err
			}

			processor := normalizer.NewProcessor(cfg.MetaDefaults(), log)
			envelopes := processor.BuildPages(pages, objects)

			log.Info("normalized dump", "pages", len(pages), "objects", len(objects), "exported", len(envelopes))

			return writePages(cmd.OutOrStdout(), envelopes, table)
		},
	}

	cmd.Flags().StringVar(&manifestPath, "manifest", "", "Manifest CSV file")
	cmd.Flags().StringVar(&objectsPath, "objects", "", "Legacy objects JSON ({\"data\": [...]} or an array)")
	cmd.Flags().BoolVar(&table, "table", false, "Print a summary table instead of JSON")

	_ = cmd.MarkFlagRequired("manifest")
	_ = cmd.MarkFlagRequired("objects")

	return cmd
}

func newConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration files",
	}

	var force bool

	initCmd := &cobra.Command{
		Use:   "init <path>",
		Short: "Write a config file with default settings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists, use --force to overwrite", path)
			}

			if err := config.Default().SaveConfig(path); err != nil {
				return err
			}

			_, err := fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)

			return err
		},
	}

	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	cmd.AddCommand(initCmd)

	return cmd
}

func readManifest(path, domain string, log *logger.Logger) ([]models.PageRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest: %w", err)
	}
	defer f.Close()

	return manifest.NewParser(domain, validator.New(), log).Parse(f)
}

func readObjects(path, domain string) ([]models.LegacyObject, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read objects: %w", err)
	}

	objects, err := ezpublish.DecodeObjects(data)
	if err != nil {
		return nil, err
	}

	ezpublish.AbsolutizeImages(objects, domain)

	return objects, nil
}

func writePages(w io.Writer, pages []models.PageEnvelope, table bool) error {
	if table {
		_, err := io.WriteString(w, formatter.EnvelopeTable(pages, tableTitleWidth))
		return err
	}

	return writeJSON(w, api.ContentResponse{Pages: pages})
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}
