package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"grocery-aggregator/internal/core/units"

	"github.com/spf13/cobra"
)

func newUnitsCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "units",
		Short: "Inspect the unit catalog",
	}
	cmd.AddCommand(newUnitsLookupCmd(root))
	cmd.AddCommand(newUnitsListCmd(root))
	return cmd
}

func newUnitsLookupCmd(root *rootOptions) *cobra.Command {
	var ingredientID string

	cmd := &cobra.Command{
		Use:   "lookup <code>",
		Short: "Show the catalog entry for a unit code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUnitsLookup(cmd.Context(), cmd.OutOrStdout(), root, args[0], ingredientID)
		},
	}
	cmd.Flags().StringVar(&ingredientID, "ingredient", "", "prefer the entry scoped to this ingredient id")
	return cmd
}

func newUnitsListCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every catalog entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			catalog, closeCatalog, err := openCatalog(ctx, root)
			if err != nil {
				return err
			}
			defer closeCatalog()

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "CODE\tFAMILY\tFACTOR\tINGREDIENT")
			for _, u := range catalog.Units() {
				fmt.Fprintf(tw, "%s\t%s\t%g\t%s\n", u.Code, u.Family, u.Factor, u.IngredientID)
			}
			return tw.Flush()
		},
	}
}

func openCatalog(ctx context.Context, root *rootOptions) (*units.Catalog, func() error, error) {
	cfg, err := root.loadConfig()
	if err != nil {
		return nil, func() error { return nil }, err
	}
	return root.loadCatalog(ctx, cfg)
}

func runUnitsLookup(ctx context.Context, out io.Writer, root *rootOptions, code, ingredientID string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	catalog, closeCatalog, err := openCatalog(ctx, root)
	if err != nil {
		return err
	}
	defer closeCatalog()

	var (
		unit units.Unit
		ok   bool
	)
	if ingredientID != "" {
		unit, ok = catalog.LookupFor(ingredientID, code)
	} else {
		unit, ok = catalog.Lookup(code)
	}
	if !ok {
		return fmt.Errorf("unknown unit %q", code)
	}

	fmt.Fprintf(out, "code:        %s\n", unit.Code)
	fmt.Fprintf(out, "family:      %s\n", unit.Family)
	if unit.Convertible() {
		base := "g"
		if unit.Family == units.FamilyVolume {
			base = "ml"
		}
		fmt.Fprintf(out, "factor:      %g %s\n", unit.Factor, base)
	} else {
		fmt.Fprintln(out, "factor:      not convertible")
	}
	if unit.IngredientID != "" {
		fmt.Fprintf(out, "ingredient:  %s\n", unit.IngredientID)
	}
	return nil
}
