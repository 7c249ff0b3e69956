package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/sheetresolver/internal/core"
	"github.com/JonMunkholm/sheetresolver/internal/export"
)

var sheetCmd = &cobra.Command{
	Use:   "sheet <name>",
	Short: "Print every row of a sheet",
	Args:  cobra.ExactArgs(1),
	RunE:  runSheet,
}

var itemCmd = &cobra.Command{
	Use:   "item <name> <index>",
	Short: "Print one row of a sheet",
	Long:  "Print the row at a zero-based position among the sheet's data rows. Prints null when there is no such row.",
	Args:  cobra.ExactArgs(2),
	RunE:  runItem,
}

var (
	searchTerm string
	threshold  int
	columns    []string
	filters    []string
)

var searchCmd = &cobra.Command{
	Use:   "search <name>",
	Short: "Search a sheet",
	Long: `Search a sheet by name similarity, filters, and column projection.

Filters take the form Field<op>Value with op one of =, >, >=, <, <=.
Nested fields use dots, e.g. ClassJob.Name=Gladiator.`,
	Example: `  sheetctl search Item --term potion --threshold 1
  sheetctl search Item --filter "LevelItem>=50" --columns ID,Name --format csv`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

var linkableCmd = &cobra.Command{
	Use:   "linkable",
	Short: "List the sheet types whose columns are resolved as references",
	Args:  cobra.NoArgs,
	RunE:  runLinkable,
}

func init() {
	searchCmd.Flags().StringVarP(&searchTerm, "term", "t", "", "match rows whose Name is close to this term")
	searchCmd.Flags().IntVar(&threshold, "threshold", core.DefaultScoreThreshold, "largest edit distance that still matches")
	searchCmd.Flags().StringSliceVarP(&columns, "columns", "c", nil, "dotted field paths to keep")
	searchCmd.Flags().StringArrayVar(&filters, "filter", nil, "filter expression, repeatable")
}

func runSheet(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	app, err := loadApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	rows, err := app.Service.GetSheet(ctx, args[0], depth)
	if err != nil {
		return err
	}
	return write(func(w io.Writer, f export.Format) error {
		return export.WriteRows(w, f, args[0], rows)
	})
}

func runItem(cmd *cobra.Command, args []string) error {
	index, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("row index %q is not an integer", args[1])
	}

	ctx := cmd.Context()
	app, err := loadApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	row, err := app.Service.GetSheetItem(ctx, args[0], index, depth)
	if err != nil {
		return err
	}
	return write(func(w io.Writer, f export.Format) error {
		return export.WriteRow(w, f, args[0], row)
	})
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	app, err := loadApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	opts := core.SearchOptions{
		SearchTerm: searchTerm,
		Columns:    columns,
		Filters:    filters,
	}
	if cmd.Flags().Changed("threshold") {
		opts.ScoreThreshold = core.IntOption(threshold)
	}
	if cmd.Flags().Changed("depth") {
		opts.RecurseDepth = core.IntOption(depth)
	}

	res, err := app.Service.Search(ctx, args[0], opts)
	if err != nil {
		return err
	}
	return write(func(w io.Writer, f export.Format) error {
		return export.WriteResult(w, f, args[0], res)
	})
}

func runLinkable(cmd *cobra.Command, args []string) error {
	app, err := loadApp(cmd.Context())
	if err != nil {
		return err
	}
	defer app.Close()

	for _, name := range app.Service.Linkable().All() {
		fmt.Fprintln(cmd.OutOrStdout(), name)
	}
	return nil
}
