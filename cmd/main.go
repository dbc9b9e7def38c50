package main

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/bryan-cox/streakledger/internal/clipboard"
	"github.com/bryan-cox/streakledger/internal/config"
	"github.com/bryan-cox/streakledger/internal/dates"
	"github.com/bryan-cox/streakledger/internal/ingest"
	"github.com/bryan-cox/streakledger/internal/model"
	"github.com/bryan-cox/streakledger/internal/report"
	"github.com/bryan-cox/streakledger/internal/streak"
)

// --- Cobra Command Definitions ---

var (
	// Used for flags.
	filePath     string
	configPath   string
	verbose      bool
	startDate    string
	endDate      string
	sortBy       string
	outputFormat string
	copyReport   bool

	// cfg is loaded before every command runs.
	cfg = config.Default()

	// logLevel is shared with the slog handler installed in main.
	logLevel = new(slog.LevelVar)

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:               "streakledger",
		Short:             "A CLI tool to compute completion streaks from a task export.",
		Long:              `StreakLedger reads a CSV export of tasks and reports, per person, the current completion streak, the longest streak and the completion ratio over an optional date range.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: loadConfig,
	}

	// statsCmd represents the stats command
	statsCmd = &cobra.Command{
		Use:   "stats",
		Short: "Show streak statistics per person.",
		Long: `Computes streaks for every person in the task export. A "Done" task extends the current streak, an "Archived" task resets it and any other status leaves it unchanged.

Dates may be given as YYYY-MM-DD or YYYY年M月D日. Either side of the range may be left open.`,
		RunE: runStatsCommand,
	}

	// recordsCmd represents the records command
	recordsCmd = &cobra.Command{
		Use:   "records",
		Short: "List the normalized task records.",
		Long:  `Prints every record read from the task export together with the entity it is grouped under and its parsed due date. Useful for checking how a file was ingested.`,
		RunE:  runRecordsCommand,
	}
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func init() {
	// Add persistent flags to the root command (available to all subcommands)
	rootCmd.PersistentFlags().StringVar(&filePath, "file", "tasks.csv", "Path to the CSV task export.")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a TOML or YAML config file (default $XDG_CONFIG_HOME/streakledger/config.toml).")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable debug logging.")

	// Add local flags to the 'stats' command
	statsCmd.Flags().StringVar(&startDate, "start-date", "", "Start date, inclusive (YYYY-MM-DD).")
	statsCmd.Flags().StringVar(&endDate, "end-date", "", "End date, inclusive (YYYY-MM-DD).")
	statsCmd.Flags().StringVar(&sortBy, "sort", "", "Sort by 'current' or 'longest' streak (default from config: current).")
	statsCmd.Flags().StringVar(&outputFormat, "format", "", "Output format: text, json or yaml (default from config: text).")
	statsCmd.Flags().BoolVar(&copyReport, "copy", false, "Also copy the report to the clipboard.")

	// Add subcommands to the root command
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(recordsCmd)
}

// --- Main Application Entry Point ---

func main() {
	// Setup structured JSON logger for diagnostics and errors.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)
	Execute()
}

// --- Command Execution Logic ---

func loadConfig(_ *cobra.Command, _ []string) error {
	if verbose {
		logLevel.Set(slog.LevelDebug)
	} else {
		logLevel.Set(slog.LevelInfo)
	}

	loaded, err := config.Load(configPath)
	if err != nil {
		return err
	}
	cfg = loaded
	return nil
}

func runStatsCommand(cmd *cobra.Command, _ []string) error {
	records, err := ingest.LoadFile(filePath)
	if err != nil {
		return err
	}

	window, err := parseWindow(orDefault(startDate, cfg.StartDate), orDefault(endDate, cfg.EndDate))
	if err != nil {
		return err
	}
	key, err := streak.ParseSortKey(orDefault(sortBy, cfg.DefaultSort))
	if err != nil {
		return err
	}
	format, err := report.ParseFormat(orDefault(outputFormat, cfg.DefaultFormat))
	if err != nil {
		return err
	}

	analyzer := &streak.Analyzer{
		DoneStatus:     cfg.DoneStatus,
		ArchivedStatus: cfg.ArchivedStatus,
	}
	stats := streak.Sort(analyzer.Analyze(records, window), key)
	slog.Debug("computed streaks", "records", len(records), "entities", len(stats))

	opts := report.TextOptions{Window: window, SortKey: key}
	if err := report.Render(cmd.OutOrStdout(), format, stats, opts); err != nil {
		return err
	}

	if copyReport {
		var plain bytes.Buffer
		if err := report.Render(&plain, format, stats, opts); err != nil {
			return err
		}
		if err := clipboard.CopyText(plain.String()); err != nil {
			slog.Warn("could not copy report to clipboard", "error", err)
		}
	}
	return nil
}

func runRecordsCommand(cmd *cobra.Command, _ []string) error {
	records, err := ingest.LoadFile(filePath)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	col := func(w int) lipgloss.Style { return lipgloss.NewStyle().Width(w) }
	for _, rec := range records {
		fmt.Fprintf(out, "%s %s %s %s\n",
			col(20).Render(report.EntityLabel(rec.EntityKey)),
			col(14).Render(rec.Status),
			col(12).Render(dates.Format(dates.Parse(rec.Due))),
			rec.Due)
	}
	fmt.Fprintf(out, "%d record(s)\n", len(records))
	return nil
}

// --- Helper Functions ---

func orDefault(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}

// parseWindow builds an inclusive window from optional bounds. Unlike due
// dates in the export, bounds given by the user are parsed strictly.
func parseWindow(startStr, endStr string) (*model.Window, error) {
	if startStr == "" && endStr == "" {
		return nil, nil
	}

	window := &model.Window{}
	if startStr != "" {
		start, err := dates.ParseStrict(startStr)
		if err != nil {
			return nil, fmt.Errorf("invalid start date, use YYYY-MM-DD: %w", err)
		}
		window.Start = &start
	}
	if endStr != "" {
		end, err := dates.ParseStrict(endStr)
		if err != nil {
			return nil, fmt.Errorf("invalid end date, use YYYY-MM-DD: %w", err)
		}
		window.End = &end
	}

	if window.Start != nil && window.End != nil && window.End.Before(*window.Start) {
		return nil, fmt.Errorf("end date cannot be before start date")
	}
	return window, nil
}
