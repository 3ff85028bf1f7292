package main

import (
	"context"
	"fmt"
	"os"

	"grocery-aggregator/internal/core/units"
	"grocery-aggregator/internal/infrastructure/config"
	"grocery-aggregator/internal/pkg/common"

	"github.com/spf13/cobra"
)

// rootOptions 所有子命令共用的旗標
type rootOptions struct {
	configFile string
	unitsFile  string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "grocery",
		Short: "Aggregate meal-plan ingredient requirements into a shopping list",
		Long: `grocery runs the shopping-list aggregation engine locally.

Settings are read from the same configuration as the API server
(APP_* environment variables, .env and an optional config file).`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.verbose {
				return common.InitLogger("debug", "", "")
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "configuration file (yaml, json or toml)")
	cmd.PersistentFlags().StringVar(&opts.unitsFile, "units", "", "unit catalog file (csv, yaml or json); overrides the configured source")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log debug output")

	cmd.AddCommand(newAggregateCmd(opts))
	cmd.AddCommand(newUnitsCmd(opts))
	return cmd
}

// loadConfig 讀取設定，未指定 --config 時沿用 APP_CONFIG_FILE
func (o *rootOptions) loadConfig() (*config.Config, error) {
	if o.configFile != "" {
		return config.Load(o.configFile)
	}
	return config.LoadConfig()
}

// loadCatalog 依 --units 或設定建立並載入單位目錄
func (o *rootOptions) loadCatalog(ctx context.Context, cfg *config.Config) (*units.Catalog, func() error, error) {
	closer := func() error { return nil }
	var source units.Source
	if o.unitsFile != "" {
		source = units.NewFileSource(o.unitsFile)
	} else {
		var err error
		source, closer, err = units.SourceFromConfig(ctx, cfg.Catalog)
		if err != nil {
			return nil, closer, err
		}
	}

	catalog := units.NewCatalog(source)
	if err := catalog.Refresh(ctx); err != nil {
		closer()
		return nil, closer, fmt.Errorf("load units from %s: %w", source.Name(), err)
	}
	return catalog, closer, nil
}

func main() {
	defer common.Sync()
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
