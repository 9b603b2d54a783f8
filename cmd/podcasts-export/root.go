package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/handiism/podcasts-export/internal/config"
	"github.com/handiism/podcasts-export/internal/export"
	"github.com/handiism/podcasts-export/internal/logging"
	"github.com/handiism/podcasts-export/internal/reveal"
)

type runOptions struct {
	configPath string
	output     string
	dryRun     bool
	verbose    bool
	noReveal   bool
}

func newRootCommand() *cobra.Command {
	var opts runOptions

	rootCmd := &cobra.Command{
		Use:           "podcasts-export",
		Short:         "Export downloaded Apple Podcasts episodes as tagged MP3 files",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runExport(ctx, cmd, opts)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Configuration file path")
	rootCmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output root (overrides config)")
	rootCmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Show the export plan without copying anything")
	rootCmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Show verbose output and debug logs")
	rootCmd.Flags().BoolVar(&opts.noReveal, "no-reveal", false, "Do not open the output folder when done")

	rootCmd.AddCommand(newConfigCommand())
	return rootCmd
}

func loadSettings(configPath, output string) (*config.Settings, error) {
	path := strings.TrimSpace(configPath)
	if path == "" {
		defaultPath, err := config.DefaultPath()
		if err != nil {
			return nil, fmt.Errorf("determine default config path: %w", err)
		}
		path = defaultPath
	}

	settings, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if output = strings.TrimSpace(output); output != "" {
		expanded, err := config.ExpandPath(output)
		if err != nil {
			return nil, err
		}
		settings.Paths.OutputRoot = expanded
	}
	return settings, nil
}

func runExport(ctx context.Context, cmd *cobra.Command, opts runOptions) error {
	settings, err := loadSettings(opts.configPath, opts.output)
	if err != nil {
		return err
	}
	if opts.noReveal {
		settings.Export.RevealOutput = false
	}

	logger, err := logging.NewFromSettings(settings, true, opts.verbose)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	out := newPrinter(cmd.OutOrStdout(), opts.verbose)
	manager := export.NewManager(settings, logger, out.event)

	out.header("Podcasts Export")
	if err := manager.Initialize(ctx); err != nil {
		return err
	}

	if opts.dryRun {
		out.println("")
		out.println(renderPlan(manager.OutputDir(), manager.Groups()))
		out.println("[Dry run - nothing exported]")
		return nil
	}

	_, total, _, files := manager.GetProgress()
	out.println("")
	out.printf("Exporting %d episodes (%s)...\n", files, formatBytes(total))

	result, err := manager.Start(ctx)
	if err != nil {
		return err
	}

	out.summary(result)
	if len(result.Failed) > 0 {
		out.println(renderFailures(result.Failed))
	}

	if settings.Export.RevealOutput {
		if err := reveal.Open(result.OutputDir); err != nil {
			logger.Debug("could not reveal output", zap.Error(err))
		}
	}
	return nil
}
