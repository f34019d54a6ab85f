package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	var opts runOptions

	rootCmd := &cobra.Command{
		Use:   "dkaminpar",
		Short: "Distributed graph partitioning core",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Partition a graph via distributed clustering and contraction",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPartition(opts)
		},
	}

	runCmd.Flags().StringVar(&opts.configPath, "config", "", "Path to configuration file (YAML)")
	runCmd.Flags().StringVar(&opts.inputPath, "input", "", "Input graph path (adjacency-list format)")
	runCmd.Flags().StringVar(&opts.outputDir, "output", "", "Directory to write per-rank coarse graphs and partitions")
	runCmd.Flags().BoolVar(&opts.jsonReport, "json", false, "Print the run summary as JSON")
	runCmd.Flags().IntVar(&opts.processes, "processes", 0, "Number of ranks (overrides config)")
	runCmd.Flags().IntVar(&opts.threads, "threads", 0, "Worker-pool threads per rank (overrides config)")
	runCmd.Flags().IntVar(&opts.blocks, "blocks", 0, "Number of target blocks (overrides config)")
	runCmd.Flags().Float64Var(&opts.imbalance, "imbalance", 0, "Allowed block imbalance (overrides config)")
	runCmd.Flags().StringVar(&opts.splitMode, "split", "", "Ownership split mode: vertex or edge (overrides config)")
	runCmd.Flags().IntVar(&opts.maxLevels, "max-levels", 0, "Maximum coarsening levels, 0 = until threshold (overrides config)")
	_ = runCmd.MarkFlagRequired("input")

	rootCmd.AddCommand(runCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
