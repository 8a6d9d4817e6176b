package sopsguard

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sopsguard/sopsguard/internal/engine"
	"github.com/sopsguard/sopsguard/internal/report"
)

func init() {
	cmd := &cobra.Command{
		Use:   "baseline",
		Short: "Manage baselines",
	}

	update := &cobra.Command{
		Use:   "update",
		Short: "Accept current violations as the baseline",
		RunE: func(cmd *cobra.Command, _ []string) error {
			abs, _ := filepath.Abs(".")
			cfg := engine.Config{Root: abs, Threads: flagThreads, DefaultExcludes: true, NoCache: true}
			results, err := engine.Scan(cfg)
			if err != nil {
				return err
			}
			if err := report.SaveBaseline("sopsguard.baseline.json", report.Flatten(results)); err != nil {
				return err
			}
			fmt.Fprintln(os.Stdout, "Baseline updated.")
			return nil
		},
	}

	rootCmd.AddCommand(cmd)
	cmd.AddCommand(update)
}
