package main

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/vantle/strata/pkg/config"
	"github.com/vantle/strata/pkg/estimate"
	"github.com/vantle/strata/pkg/format"
	"github.com/vantle/strata/pkg/logger"
)

var version = "0.1.0"

func main() {
	root := &cobra.Command{
		Use:   "strata",
		Short: "Strata - load strategy advisor for tabular data files",
		Long: `Strata inspects a CSV or columnar data file, projects its in-memory
footprint from a cheap sample, and recommends a load strategy (eager, lazy,
or streaming) based on the memory the machine can actually spare.`,
	}

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("Strata v%s\n", version)
			fmt.Printf("Go version: %s\n", runtime.Version())
			fmt.Printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	})

	var configFile, formatName, logLevel string
	var pretty bool
	var timeout time.Duration

	analyzeCmd := &cobra.Command{
		Use:   "analyze <file>",
		Short: "Analyze a data file and recommend a load strategy",
		Long: `Analyze profiles the file's schema and a bounded sample, estimates its
decoded in-memory size, and prints a JSON report with the recommended
strategy and every intermediate the projection used.

Example:
  strata analyze events.parquet
  strata analyze --format csv --pretty exported.dat`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(args[0], configFile, formatName, logLevel, pretty, timeout)
		},
	}

	analyzeCmd.Flags().StringVarP(&configFile, "config", "c", "", "Path to YAML configuration file (optional)")
	analyzeCmd.Flags().StringVarP(&formatName, "format", "f", "", "Force the file format (csv, parquet) instead of detecting it")
	analyzeCmd.Flags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	analyzeCmd.Flags().BoolVar(&pretty, "pretty", false, "Indent the JSON report")
	analyzeCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "Analysis timeout")

	root.AddCommand(analyzeCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runAnalyze(path, configFile, formatName, logLevel string, pretty bool, timeout time.Duration) error {
	if err := logger.Init(logger.Config{Level: logLevel}); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	cfg := config.NewDefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	analyzer := estimate.NewAnalyzer(cfg, nil, logger.Get())

	var report *estimate.Report
	var err error
	if formatName != "" {
		f, ferr := format.Parse(formatName)
		if ferr != nil {
			return ferr
		}
		report, err = analyzer.AnalyzeFormat(ctx, path, f)
	} else {
		report, err = analyzer.Analyze(ctx, path)
	}
	if err != nil {
		return err
	}

	var out []byte
	if pretty {
		out, err = report.JSONIndent()
	} else {
		out, err = report.JSON()
	}
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
