package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"

	"github.com/sopsguard/sopsguard/internal/types"
)

// PrintOptions controls human-readable rendering.
type PrintOptions struct {
	NoColor      bool
	Duration     time.Duration
	FilesScanned int
}

var (
	styleHigh = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	styleMed  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	styleLow  = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	stylePass = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

func severityLabel(s types.Severity, noColor bool) string {
	if noColor {
		return string(s)
	}
	switch s {
	case types.SevHigh:
		return styleHigh.Render("high")
	case types.SevMed:
		return styleMed.Render("medium")
	default:
		return styleLow.Render("low")
	}
}

// PrintText writes violations as <path>:<line>: <message> lines with the
// offending source line underneath, syntax highlighted when color is on.
func PrintText(w io.Writer, results []types.ScanResult, opts PrintOptions) {
	violations := Flatten(results)
	if len(violations) == 0 {
		ok := "All files pass: no unencrypted secrets found"
		if !opts.NoColor {
			ok = stylePass.Render(ok)
		}
		fmt.Fprintln(w, ok)
	}
	for _, v := range violations {
		fmt.Fprintf(w, "%-6s %s\n", severityLabel(v.Severity, opts.NoColor), v.String())
		if s := strings.TrimRight(v.Snippet, " \t"); s != "" {
			fmt.Fprint(w, "       ")
			if opts.NoColor {
				fmt.Fprintln(w, s)
			} else if err := quick.Highlight(w, s+"\n", "yaml", "terminal256", "monokai"); err != nil {
				fmt.Fprintln(w, s)
			}
		}
	}
	printSummary(w, violations, opts)
}

// PrintTable writes violations in a bordered table followed by the summary.
func PrintTable(w io.Writer, results []types.ScanResult, opts PrintOptions) {
	violations := Flatten(results)
	if len(violations) == 0 {
		PrintText(w, results, opts)
		return
	}
	table := tablewriter.NewTable(w)
	table.Header("Severity", "Rule", "Location", "Message")
	for _, v := range violations {
		_ = table.Append([]string{string(v.Severity), v.Rule, fmt.Sprintf("%s:%d", v.Path, v.Line), v.Message})
	}
	_ = table.Render()
	printSummary(w, violations, opts)
}

func printSummary(w io.Writer, violations []types.Violation, opts PrintOptions) {
	if opts.Duration <= 0 && opts.FilesScanned <= 0 {
		return
	}
	high, med, low := 0, 0, 0
	for _, v := range violations {
		switch v.Severity {
		case types.SevHigh:
			high++
		case types.SevMed:
			med++
		default:
			low++
		}
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Violations: %d (high: %d, medium: %d, low: %d)\n", len(violations), high, med, low)
	if opts.FilesScanned > 0 {
		fmt.Fprintf(w, "Files scanned: %d\n", opts.FilesScanned)
	}
	if opts.Duration > 0 {
		fmt.Fprintf(w, "Scan duration: %.2fs\n", opts.Duration.Seconds())
	}
}
