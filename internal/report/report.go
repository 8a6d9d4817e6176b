// Package report assembles per-file scan results and renders them for
// humans (text, table) and machines (JSON via the caller, SARIF). It is the
// only component that consults ignore directives, so suppression happens in
// exactly one place.
package report

import (
	"fmt"

	"github.com/sopsguard/sopsguard/internal/detectors"
	"github.com/sopsguard/sopsguard/internal/ignore"
	"github.com/sopsguard/sopsguard/internal/types"
)

// Assemble builds the ScanResult for one file. If the file carries a
// file-level ignore the validator is never invoked. Constructs on ignored
// lines are skipped; duplicate findings (the same line can surface via the
// whole-file parse and an embedded region) collapse to one violation.
func Assemble(path string, dirs ignore.Directives, constructs []detectors.Construct, opts detectors.Options, lines []string) types.ScanResult {
	res := types.ScanResult{Path: path, Passed: true}
	if dirs.FileIgnored {
		return res
	}
	seen := map[string]bool{}
	for _, c := range constructs {
		if dirs.Ignored(c.Line) {
			continue
		}
		v := detectors.Validate(path, c, opts)
		if v == nil {
			continue
		}
		key := fmt.Sprintf("%d|%s|%s", v.Line, v.Rule, v.Message)
		if seen[key] {
			continue
		}
		seen[key] = true
		if v.Line >= 1 && v.Line <= len(lines) {
			v.Snippet = lines[v.Line-1]
		}
		res.Violations = append(res.Violations, *v)
	}
	res.Passed = len(res.Violations) == 0
	return res
}

// Flatten collects all violations across results in order.
func Flatten(results []types.ScanResult) []types.Violation {
	var out []types.Violation
	for _, r := range results {
		out = append(out, r.Violations...)
	}
	return out
}

// ShouldFail reports whether the violations reach the fail-on threshold.
// Unknown thresholds default to low: any violation blocks the commit.
func ShouldFail(violations []types.Violation, failOn string) bool {
	level := map[string]int{"low": 1, "medium": 2, "high": 3}
	th := level[failOn]
	if th == 0 {
		th = 1
	}
	for _, v := range violations {
		if level[string(v.Severity)] >= th {
			return true
		}
	}
	return false
}
