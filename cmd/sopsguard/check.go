package sopsguard

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/sopsguard/sopsguard/internal/audit"
	"github.com/sopsguard/sopsguard/internal/config"
	"github.com/sopsguard/sopsguard/internal/engine"
	"github.com/sopsguard/sopsguard/internal/report"
	"github.com/sopsguard/sopsguard/internal/update"
)

var (
	flagPath     string
	flagStaged   bool
	flagInclude  string
	flagExclude  string
	flagMaxBytes int64
	flagTable    bool
	flagText     bool
	flagBaseline string
)

func init() {
	cmd := &cobra.Command{
		Use:   "check [files...]",
		Short: "Check files for unencrypted secret material",
		Long: "Check scans the given files (or the tree under --path, or the staged\n" +
			"change set with --staged) for Kubernetes Secret resources and kustomize\n" +
			"secretGenerator entries that lack SOPS encryption metadata.",
		RunE: runCheck,
	}
	rootCmd.AddCommand(cmd)

	cmd.Flags().StringVarP(&flagPath, "path", "p", ".", "path to scan when no files are given")
	cmd.Flags().BoolVar(&flagStaged, "staged", false, "scan staged changes (pre-commit mode)")
	cmd.Flags().StringVar(&flagInclude, "include", "", "comma-separated include globs")
	cmd.Flags().StringVar(&flagExclude, "exclude", "", "comma-separated exclude globs")
	cmd.Flags().Int64Var(&flagMaxBytes, "max-bytes", 1<<20, "skip files larger than this")
	cmd.Flags().BoolVar(&flagTable, "table", false, "output in table format with borders")
	cmd.Flags().BoolVar(&flagText, "text", false, "output in plain text columnar format (default)")
	cmd.Flags().StringVar(&flagBaseline, "baseline", "sopsguard.baseline.json", "baseline file of accepted findings")
}

func runCheck(cmd *cobra.Command, args []string) error {
	abs, _ := filepath.Abs(flagPath)

	// Load configs: CLI > local > global
	var gcfg, lcfg config.FileConfig
	if c, err := config.LoadGlobal(); err == nil {
		gcfg = c
	}
	if c, err := config.LoadLocal(abs); err == nil {
		lcfg = c
	}

	suffixes := gcfg.EncryptedSuffixes
	if len(lcfg.EncryptedSuffixes) > 0 {
		suffixes = lcfg.EncryptedSuffixes
	}

	cfg := engine.Config{
		Root:              abs,
		Files:             args,
		Staged:            flagStaged,
		IncludeGlobs:      pickString(flagInclude, lcfg.Include, gcfg.Include),
		ExcludeGlobs:      pickString(flagExclude, lcfg.Exclude, gcfg.Exclude),
		MaxBytes:          pickInt64(flagMaxBytes, lcfg.MaxBytes, gcfg.MaxBytes),
		Threads:           pickInt(flagThreads, lcfg.Threads, gcfg.Threads),
		NoCache:           flagNoCache,
		DefaultExcludes:   flagDefaultExcludes,
		EncryptedSuffixes: suffixes,
	}

	noColor := pickBool(flagNoColor, lcfg.NoColor, gcfg.NoColor)
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		noColor = true
	}
	failOn := flagFailOn
	if !cmd.Flags().Changed("fail-on") {
		if v := pickString("", lcfg.FailOn, gcfg.FailOn); v != "" {
			failOn = v
		}
	}
	if lcfg.DefaultExcludes != nil && !cmd.Flags().Changed("default-excludes") {
		cfg.DefaultExcludes = *lcfg.DefaultExcludes
	}

	machine := flagJSON || flagSARIF
	if !machine {
		if !flagNoUpdateCheck {
			if latest, newer, _ := update.Check(version, false); newer && latest != "" {
				fmt.Fprintf(os.Stderr, "(new version available: v%s)  run 'sopsguard --self-update' to upgrade\n", latest)
			}
		}
		if flagSelfUpdate {
			if err := selfUpdate(); err == nil {
				fmt.Fprintln(os.Stderr, "updated to latest; re-run command")
				return nil
			}
		}
	}

	res, err := engine.ScanWithStats(cfg)
	if err != nil {
		return fmt.Errorf("scan error: %w", err)
	}

	results := res.Results
	if base, err := report.LoadBaseline(flagBaseline); err == nil {
		results = report.FilterNew(results, base)
	}
	violations := report.Flatten(results)

	switch {
	case flagSARIF:
		if err := report.WriteSARIF(os.Stdout, version, violations); err != nil {
			return fmt.Errorf("sarif error: %w", err)
		}
	case flagJSON:
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			return err
		}
	case flagTable:
		report.PrintTable(os.Stdout, results, report.PrintOptions{NoColor: noColor, Duration: res.Duration, FilesScanned: res.FilesScanned})
	default:
		report.PrintText(os.Stdout, results, report.PrintOptions{NoColor: noColor, Duration: res.Duration, FilesScanned: res.FilesScanned})
	}

	blocked := report.ShouldFail(violations, failOn)
	all := report.Flatten(res.Results)
	_ = audit.NewLog(abs).Record(audit.NewRunRecord(abs, flagStaged, all, violations, res.FilesScanned, res.Duration, blocked))

	if len(res.Errors) > 0 {
		for _, e := range res.Errors {
			fmt.Fprintln(os.Stderr, "error:", e)
		}
		return errors.New("some targets could not be read")
	}
	if blocked {
		os.Exit(1)
	}
	return nil
}
