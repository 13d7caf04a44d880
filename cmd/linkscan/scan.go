package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hasu-dev/linkscan/internal/config"
	"github.com/hasu-dev/linkscan/internal/extract"
	"github.com/hasu-dev/linkscan/internal/history"
	"github.com/hasu-dev/linkscan/internal/log"
	"github.com/hasu-dev/linkscan/internal/model"
	"github.com/hasu-dev/linkscan/internal/probe"
	"github.com/hasu-dev/linkscan/internal/report"
)

// NewScanCmd creates the scan command.
func NewScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [urls...] [output]",
		Short: "Scan pages for outbound links and probe their status",
		Long: `Scan fetches each source page, collects every anchor target that
starts with "http", probes each collected link with a single GET, and
writes a markdown table of (Source URL, Link, Status Code) rows.

Arguments beginning with "http" are treated as source URLs; any other
argument names the output file. Without arguments, two built-in example
pages are scanned and the report is written to links.md.

Links that cannot be reached at all are reported with status code 0.
Redirects are not followed: a 301 appears as 301.

Examples:
  # Scan the built-in example pages into links.md
  linkscan scan

  # Scan two pages into a custom report path
  linkscan scan https://example.com https://example.org reports/out.md

  # JSON output with bounded parallel probing
  linkscan scan --json -C 8 https://example.com report.json

  # Use a config file with per-site cookies or headers
  linkscan scan -c .linkscan https://intranet.example.com`,
		Args: cobra.ArbitraryArgs,
		RunE: runScanCmd,
	}

	// Scan behavior flags
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each HTTP request")
	cmd.Flags().IntP("concurrency", "C", config.DefaultConcurrency,
		"Number of link probes in flight (1 = strictly sequential)")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .linkscan in current or home directory)")

	// Report flags
	cmd.Flags().StringP("output", "o", "",
		"Report file path (overrides the positional output argument)")
	cmd.Flags().BoolP("json", "j", false,
		"Write a JSON report instead of markdown")

	// History flags
	cmd.Flags().Bool("no-history", false,
		"Do not record this run in the scan history database")

	return cmd
}

// runScanCmd executes the scan command.
func runScanCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging with credential sanitization
	logger := log.NewSecureLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runScan(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags and arguments.
//
// Argument classification matches the documented invocation surface:
// anything starting with "http" is a source URL, anything else names the
// output file. With several non-URL arguments the last one wins.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)

	for _, arg := range args {
		if strings.HasPrefix(arg, "http") {
			cfg.Sources = append(cfg.Sources, arg)
		} else {
			cfg.OutputPath = arg
		}
	}
	if len(cfg.Sources) == 0 {
		cfg.Sources = config.DefaultSourceURLs()
	}

	var err error

	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	cfg.Concurrency, err = cmd.Flags().GetInt("concurrency")
	if err != nil {
		return nil, err
	}

	outputFlag, err := cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}
	if outputFlag != "" {
		cfg.OutputPath = outputFlag
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Load per-site configurations from the config file.
	// An explicitly given path must exist; an implicit search may
	// come up empty without complaint.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cfg.SiteConfigs, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	noHistory, err := cmd.Flags().GetBool("no-history")
	if err != nil {
		return nil, err
	}
	cfg.SaveHistory = !noHistory
	cfg.HistoryDir = config.XDGDataDir()

	return cfg, nil
}

// runScan executes the scan and writes the report.
func runScan(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting scan",
		"sources", len(cfg.Sources),
		"output", cfg.OutputPath,
		"concurrency", cfg.Concurrency,
	)

	prober := probe.New(
		probe.WithTimeout(cfg.Timeout),
		probe.WithUserAgent(cfg.UserAgent),
		probe.WithMaxBodySize(cfg.MaxBodySize),
	)

	extractor := extract.New(
		extract.WithProber(prober),
		extract.WithTimeout(cfg.Timeout),
		extract.WithConcurrency(cfg.Concurrency),
		extract.WithUserAgent(cfg.UserAgent),
		extract.WithMaxBodySize(cfg.MaxBodySize),
		extract.WithSiteConfigs(cfg.SiteConfigs),
		extract.WithLogger(logger),
	)

	fmt.Printf("Scanning %d source page(s)...\n", len(cfg.Sources))
	startTime := time.Now()

	scanReport := extractor.Extract(ctx, cfg.Sources)

	elapsed := time.Since(startTime)
	fmt.Printf("Scan completed in %s: %d link(s), %d unreachable, %d source fetch failure(s)\n",
		elapsed.Round(time.Millisecond),
		scanReport.TotalLinks(),
		scanReport.UnreachableLinks(),
		scanReport.FailedSources(),
	)

	if err := writeReport(cfg, scanReport); err != nil {
		return err
	}
	fmt.Printf("Link check completed. Results saved to %s\n", cfg.OutputPath)

	if cfg.SaveHistory {
		if err := saveScanReport(ctx, cfg, scanReport, logger); err != nil {
			// History is best effort; the report file already exists.
			logger.Error("failed to save scan history", "error", err)
		}
	}

	return nil
}

// writeReport writes the report file, creating missing parent
// directories and truncating any existing file at the path.
func writeReport(cfg *config.Config, scanReport *model.Report) error {
	dir := filepath.Dir(cfg.OutputPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.OpenFile(cfg.OutputPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644) //nolint:gosec // Reports are not sensitive
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	var w report.Writer
	if cfg.JSONReport {
		w = report.NewJSONWriter(f, report.WithPrettyPrint())
	} else {
		w = report.NewMarkdownWriter(f)
	}

	if _, err := w.Write(scanReport); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	return nil
}

// saveScanReport records the run in the history database.
func saveScanReport(ctx context.Context, cfg *config.Config, scanReport *model.Report, logger *slog.Logger) error {
	db, err := history.Open(cfg.HistoryDir, history.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer db.Close()

	scanID, err := db.SaveReport(ctx, scanReport)
	if err != nil {
		return fmt.Errorf("failed to save scan report: %w", err)
	}

	logger.Info("scan recorded in history", "scanID", scanID, "dir", cfg.HistoryDir)
	return nil
}
