package sopsguard

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sopsguard/sopsguard/internal/files"
)

func init() {
	cmd := &cobra.Command{
		Use:   "install-hook",
		Short: "Install the git pre-commit hook",
		Long:  "Writes .git/hooks/pre-commit so every commit runs 'sopsguard check --staged'.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			abs, _ := filepath.Abs(".")
			if err := files.InstallHook(abs); err != nil {
				return err
			}
			// the fallback cache location for trees without .git write access
			_ = files.AppendIgnore(abs, ".sopsguardcache.json")
			fmt.Fprintln(os.Stdout, "Installed pre-commit hook.")
			return nil
		},
	}
	rootCmd.AddCommand(cmd)
}
