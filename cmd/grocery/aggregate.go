package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"grocery-aggregator/internal/core/grocery"
	"grocery-aggregator/internal/pkg/common"

	"github.com/spf13/cobra"
)

// planFile aggregate 命令的輸入檔格式，與 POST /api/v1/grocery/aggregate 的請求體相同
type planFile struct {
	Requirements []grocery.Requirement  `json:"requirements"`
	Pantry       []grocery.PantryRecord `json:"pantry"`
	Options      grocery.Options        `json:"options"`
}

type aggregateOptions struct {
	input    string
	today    string
	asJSON   bool
	noPantry bool
}

func newAggregateCmd(root *rootOptions) *cobra.Command {
	opts := &aggregateOptions{}

	cmd := &cobra.Command{
		Use:   "aggregate",
		Short: "Aggregate a requirements file into an ordered shopping list",
		Example: `  grocery aggregate --input plan.json
  grocery aggregate --input plan.json --units units.csv --today 2024-05-01 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAggregate(cmd.Context(), cmd.OutOrStdout(), root, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "JSON file with requirements, pantry and options (- for stdin)")
	cmd.Flags().StringVar(&opts.today, "today", "", "reference date (YYYY-MM-DD) for meal and expiry windows")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print the full result as JSON")
	cmd.Flags().BoolVar(&opts.noPantry, "no-pantry", false, "skip pantry reconciliation")
	cmd.MarkFlagRequired("input")
	return cmd
}

func runAggregate(ctx context.Context, out io.Writer, root *rootOptions, opts *aggregateOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}

	catalog, closeCatalog, err := root.loadCatalog(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeCatalog()

	plan := planFile{Options: grocery.OptionsFromConfig(cfg.Aggregation)}
	if err := readPlan(opts.input, &plan); err != nil {
		return err
	}
	if opts.noPantry {
		plan.Options.IncludePantryCheck = false
	}

	engineOpts := []grocery.Option{
		grocery.WithSettings(grocery.SettingsFromConfig(cfg.Aggregation)),
		grocery.WithCategorizer(grocery.NewKeywordCategorizer(cfg.Aggregation.CategoryOverrides)),
	}
	if opts.today != "" {
		day, err := grocery.ParseDate(opts.today)
		if err != nil {
			return fmt.Errorf("invalid --today: %w", err)
		}
		engineOpts = append(engineOpts, grocery.WithClock(func() time.Time { return day.Time }))
	}

	result := grocery.NewEngine(catalog, engineOpts...).Aggregate(plan.Requirements, plan.Pantry, plan.Options)

	if opts.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	return printResult(out, result)
}

func readPlan(path string, plan *planFile) error {
	var r io.Reader
	if path == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		r = f
	}

	if err := common.DecodeJSONStrict(r, plan); err != nil {
		return fmt.Errorf("parse input %s: %w", path, err)
	}
	if plan.Options.MinimumQuantityThreshold < 0 {
		return fmt.Errorf("minimum_quantity_threshold must not be negative")
	}
	return nil
}

// printResult 以表格輸出採買清單，錯誤與警告列在最後
func printResult(out io.Writer, result grocery.Result) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PRIORITY\tCATEGORY\tINGREDIENT\tQUANTITY\tPANTRY\tNOTES")
	for _, item := range result.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			item.Priority,
			item.Category,
			item.IngredientName,
			item.DisplayText,
			item.PantryStatus,
			item.Notes,
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, w := range result.Warnings {
		fmt.Fprintf(out, "warning: %s\n", w)
	}
	for _, e := range result.Errors {
		fmt.Fprintf(out, "error: %s\n", e)
	}
	if len(result.Errors) > 0 {
		return fmt.Errorf("%d input error(s): %s", len(result.Errors), strings.Join(result.Errors, "; "))
	}
	return nil
}
