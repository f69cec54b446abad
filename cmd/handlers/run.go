package handlers

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/hupe1980/hclust/codec"
	"github.com/hupe1980/hclust/dendrogram"
	"github.com/hupe1980/hclust/fcluster"
	"github.com/hupe1980/hclust/internal/config"
	"github.com/hupe1980/hclust/internal/dataset"
	"github.com/hupe1980/hclust/internal/report"
)

// NewRunCmd creates the run command
func NewRunCmd() *cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Cluster the sessions and print per-group summaries",
		Long: `Load the sessions, standardize the navigation columns, one-hot encode the
date qualifiers and cluster them. For every requested cluster count the
per-group sums of the page counts, special days and months are printed,
followed by a bounce-rate and revenue profile.

The dendrogram layout and the cluster labels can be exported with
--dendrogram-out and --assignments-out. The file extension selects JSON
or YAML; "-" writes JSON to stdout.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := applyRunFlags(cmd, cfg); err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return runCluster(ctx, cfg, cmd.OutOrStdout())
		},
	}

	runCmd.Flags().IntSlice("k", nil, "cluster counts to cut the tree into (default 3,4)")
	runCmd.Flags().String("method", "", "linkage method: complete, single, average, weighted, ward")
	runCmd.Flags().String("dendrogram-out", "", "write the dendrogram layout to this file")
	runCmd.Flags().String("assignments-out", "", "write the cluster labels of every k to this file")
	runCmd.Flags().Int("truncate-level", 10, "merge levels shown below the dendrogram root")
	runCmd.Flags().Float64("color-threshold", 0.24, "dendrogram colour threshold, 0 selects 0.7 times the maximum height")

	return runCmd
}

func applyRunFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("k") {
		cfg.Cluster.Ks, _ = flags.GetIntSlice("k")
	}
	if flags.Changed("method") {
		cfg.Cluster.Method, _ = flags.GetString("method")
	}
	if flags.Changed("dendrogram-out") {
		cfg.Dendrogram.Output, _ = flags.GetString("dendrogram-out")
	}
	if flags.Changed("assignments-out") {
		cfg.Cluster.AssignmentsOut, _ = flags.GetString("assignments-out")
	}
	if flags.Changed("truncate-level") {
		cfg.Dendrogram.TruncateLevel, _ = flags.GetInt("truncate-level")
	}
	if flags.Changed("color-threshold") {
		cfg.Dendrogram.ColorThreshold, _ = flags.GetFloat64("color-threshold")
	}
	return cfg.Validate()
}

func runCluster(ctx context.Context, cfg *config.Config, w io.Writer) error {
	sessions, err := dataset.LoadFile(cfg.Data.Path)
	if err != nil {
		return err
	}
	prepared, err := dataset.Prepare(sessions)
	if err != nil {
		return err
	}

	engine := newEngine(cfg)
	res, err := engine.Cluster(ctx, prepared.Matrix, cfg.Method(), cfg.Cluster.Ks...)
	if err != nil {
		return fmt.Errorf("clustering failed: %w", err)
	}

	fmt.Fprintln(w, report.Heading("Group evaluation"))
	for _, a := range res.Assignments {
		title := strconv.Itoa(a.K()) + " groups"

		sums, err := dataset.Aggregate(sessions, prepared, a.Labels)
		if err != nil {
			return err
		}
		profile, err := dataset.Profile(sessions, a.Labels)
		if err != nil {
			return err
		}

		fmt.Fprintln(w, report.Assignment(title, a))
		fmt.Fprintln(w, report.Groups(title, sums))
		fmt.Fprintln(w, report.Groups(title+": bounce rates and revenue", profile))
	}

	if path := cfg.Cluster.AssignmentsOut; path != "" {
		if err := export(path, assignments(res.Assignments), w); err != nil {
			return err
		}
	}

	if cfg.Dendrogram.Output == "" {
		return nil
	}

	opts := []dendrogram.Option{dendrogram.WithTruncateLevel(cfg.Dendrogram.TruncateLevel)}
	if cfg.Dendrogram.ColorThreshold > 0 {
		opts = append(opts, dendrogram.WithColorThreshold(cfg.Dendrogram.ColorThreshold))
	}
	layout, err := engine.ProjectDendrogram(res.Tree, opts...)
	if err != nil {
		return err
	}
	if err := export(cfg.Dendrogram.Output, layout, w); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Dendrogram: %d leaves, %d colour groups\n", len(layout.Leaves), layout.Groups)
	return nil
}

// assignments keys the partitions by their cluster count.
func assignments(as []*fcluster.Assignment) map[string]*fcluster.Assignment {
	out := make(map[string]*fcluster.Assignment, len(as))
	for _, a := range as {
		out[strconv.Itoa(a.K())] = a
	}
	return out
}

// export encodes v with the codec matching path. "-" writes JSON to stdout.
func export(path string, v any, stdout io.Writer) error {
	c := codec.ForPath(path)
	data, err := c.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if c.Name() == "json" {
		data = append(data, '\n')
	}

	if path == "-" {
		_, err = stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	fmt.Fprintf(os.Stderr, "Written %s (%s)\n", path, c.Name())
	return nil
}
