// Package handlers implements the hclust command line.
package handlers

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hupe1980/hclust"
	"github.com/hupe1980/hclust/internal/config"
)

var cfgFile string

// NewRootCmd creates the root command with all subcommands attached
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "hclust",
		Short: "Hierarchical clustering of online shopper sessions",
		Long: `hclust groups browsing sessions by their navigation pattern and date
qualifiers. Sessions are compared with the Gower dissimilarity, merged
agglomeratively and cut into flat clusters whose per-group totals are
printed as tables.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./.hclust.yaml or $HOME/.hclust.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("data", "", "path to the sessions CSV file")

	rootCmd.AddCommand(NewRunCmd())
	rootCmd.AddCommand(NewTreeCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the configuration and applies the persistent flags on
// top of it.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.App.LogLevel, _ = flags.GetString("log-level")
	}
	if flags.Changed("data") {
		cfg.Data.Path, _ = flags.GetString("data")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Data.Path == "" {
		return nil, fmt.Errorf("no data file given, use --data or data.path")
	}
	if cfg.App.ConfigFile != "" {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", cfg.App.ConfigFile)
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) *hclust.Logger {
	level, _ := config.ParseLevel(cfg.App.LogLevel) // validated
	if cfg.App.LogFormat == "json" {
		return hclust.NewJSONLogger(level)
	}
	return hclust.NewTextLogger(level)
}

func newEngine(cfg *config.Config) *hclust.Engine {
	opts := []hclust.Option{
		hclust.WithLogger(newLogger(cfg)),
		hclust.WithWorkers(cfg.Cluster.Workers),
	}
	if limit := cfg.MemoryLimitBytes(); limit > 0 {
		opts = append(opts, hclust.WithMemoryLimit(limit))
	}
	if cfg.Cluster.MissingValues {
		opts = append(opts, hclust.WithMissingValues())
	}
	return hclust.New(opts...)
}
