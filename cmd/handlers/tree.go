package handlers

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/hupe1980/hclust/internal/dataset"
	"github.com/hupe1980/hclust/internal/report"
)

// NewTreeCmd creates the tree command
func NewTreeCmd() *cobra.Command {
	treeCmd := &cobra.Command{
		Use:   "tree",
		Short: "Print the topmost merges of the merge tree",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("method") {
				cfg.Cluster.Method, _ = cmd.Flags().GetString("method")
				if err := cfg.Validate(); err != nil {
					return err
				}
			}
			last, _ := cmd.Flags().GetInt("last")

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			sessions, err := dataset.LoadFile(cfg.Data.Path)
			if err != nil {
				return err
			}
			prepared, err := dataset.Prepare(sessions)
			if err != nil {
				return err
			}

			engine := newEngine(cfg)
			d, err := engine.ComputeDistances(ctx, prepared.Matrix)
			if err != nil {
				return err
			}
			tree, err := engine.BuildMergeTree(ctx, d, cfg.Method())
			if err != nil {
				return err
			}

			title := fmt.Sprintf("%s linkage of %d sessions", cfg.Method(), tree.N())
			fmt.Fprintln(cmd.OutOrStdout(), report.Merges(title, tree, last))
			return nil
		},
	}

	treeCmd.Flags().String("method", "", "linkage method: complete, single, average, weighted, ward")
	treeCmd.Flags().Int("last", 10, "number of merges to print")

	return treeCmd
}
