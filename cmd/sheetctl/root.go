package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/sheetresolver/internal/application"
	"github.com/JonMunkholm/sheetresolver/internal/config"
	"github.com/JonMunkholm/sheetresolver/internal/core"
	"github.com/JonMunkholm/sheetresolver/internal/export"
	"github.com/JonMunkholm/sheetresolver/internal/logging"
)

var (
	outputFormat string
	outputPath   string
	depth        int
	verbose      bool

	sourceKind string
	repoID     string
	branch     string
	sheetDir   string
	linkable   []string
)

var rootCmd = &cobra.Command{
	Use:           "sheetctl",
	Short:         "Resolve and query datamining sheets",
	Long:          "sheetctl fetches CSV sheets, resolves references between them, and searches the resulting rows.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&outputFormat, "format", "f", "json", "output format: json, yaml, csv, xlsx")
	flags.StringVarP(&outputPath, "output", "o", "", "write output to a file instead of stdout")
	flags.IntVarP(&depth, "depth", "d", core.DefaultRecurseDepth, "reference recursion depth")
	flags.BoolVarP(&verbose, "verbose", "v", false, "log debug output to stderr")
	flags.StringVar(&sourceKind, "source", "", "sheet source: github, dir, postgres (default from SHEET_SOURCE)")
	flags.StringVar(&repoID, "repo", "", "datamining repository, owner/name (default from SHEET_REPO)")
	flags.StringVar(&branch, "branch", "", "repository branch (default from SHEET_BRANCH)")
	flags.StringVar(&sheetDir, "dir", "", "local repository checkout for the dir source")
	flags.StringSliceVar(&linkable, "linkable", nil, "additional linkable sheet names")

	rootCmd.AddCommand(sheetCmd)
	rootCmd.AddCommand(itemCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(linkableCmd)
}

// loadApp reads configuration, applies flag overrides, and builds the service.
func loadApp(ctx context.Context) (*application.App, error) {
	// A missing .env is fine; existing variables win.
	_ = godotenv.Load()

	cfg, err := config.LoadFrom(overrides(os.LookupEnv))
	if err != nil {
		return nil, err
	}

	level := cfg.Logging.Level
	if verbose {
		level = "debug"
	}
	logging.SetupWriter(os.Stderr, level, cfg.Logging.Format)

	cfg.Resolver.LinkableTypes = append(cfg.Resolver.LinkableTypes, linkable...)
	return application.New(ctx, cfg)
}

// overrides layers command-line flags over the environment.
func overrides(env config.LookupFunc) config.LookupFunc {
	flagValues := map[string]string{
		"SHEET_SOURCE": sourceKind,
		"SHEET_REPO":   repoID,
		"SHEET_BRANCH": branch,
		"SHEET_DIR":    sheetDir,
	}
	return func(key string) (string, bool) {
		if v := flagValues[key]; v != "" {
			return v, true
		}
		return env(key)
	}
}

// output opens the destination chosen by --output.
func output() (io.Writer, func() error, error) {
	if outputPath == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(outputPath)
	if err != nil {
		return nil, nil, fmt.Errorf("create output file: %w", err)
	}
	return f, f.Close, nil
}

// write encodes with fn to the chosen destination in the chosen format.
func write(fn func(w io.Writer, f export.Format) error) error {
	format, err := export.ParseFormat(outputFormat)
	if err != nil {
		return err
	}
	if format == export.FormatXLSX && outputPath == "" {
		return fmt.Errorf("xlsx output needs --output")
	}

	w, closeOutput, err := output()
	if err != nil {
		return err
	}
	if err := fn(w, format); err != nil {
		_ = closeOutput()
		return err
	}
	return closeOutput()
}
