package sopsguard

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/sopsguard/sopsguard/internal/audit"
)

var flagHistoryLimit int

func init() {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past check runs",
		Long:  "Reads the audit log kept under .git and lists recent check runs, newest first.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			abs, _ := filepath.Abs(".")
			records, err := audit.NewLog(abs).History()
			if err != nil {
				fmt.Fprintln(os.Stdout, "No history recorded yet.")
				return nil
			}
			if flagHistoryLimit > 0 && len(records) > flagHistoryLimit {
				records = records[:flagHistoryLimit]
			}
			table := tablewriter.NewTable(os.Stdout)
			table.Header("When", "Mode", "Files", "Violations", "New", "Blocked", "Duration")
			for _, r := range records {
				mode := "tree"
				if r.Staged {
					mode = "staged"
				}
				blocked := "no"
				if r.Blocked {
					blocked = "yes"
				}
				_ = table.Append([]string{
					r.Timestamp.Format("2006-01-02 15:04:05"),
					mode,
					fmt.Sprintf("%d", r.FilesScanned),
					fmt.Sprintf("%d", r.TotalViolations),
					fmt.Sprintf("%d", r.NewViolations),
					blocked,
					r.Duration,
				})
			}
			return table.Render()
		},
	}
	cmd.Flags().IntVar(&flagHistoryLimit, "limit", 20, "maximum runs to show (0 = all)")
	rootCmd.AddCommand(cmd)
}
