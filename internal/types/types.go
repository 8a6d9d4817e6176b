package types

import "fmt"

// Severity is a coarse-grained risk level for a violation.
type Severity string

const (
	SevLow  Severity = "low"
	SevMed  Severity = "medium"
	SevHigh Severity = "high"
)

// Violation describes unencrypted secret material located at a path and
// 1-based line. Rule identifies the check that produced it.
type Violation struct {
	Path     string   `json:"path"`
	Line     int      `json:"line"`
	Rule     string   `json:"rule"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Snippet  string   `json:"snippet,omitempty"` // offending source line, when resolvable
}

// String renders the violation in the canonical <path>:<line>: <message> form.
func (v Violation) String() string {
	return fmt.Sprintf("%s:%d: %s", v.Path, v.Line, v.Message)
}

// ScanResult is the terminal per-file outcome. Violations appear in file
// traversal order (top to bottom).
type ScanResult struct {
	Path       string      `json:"path"`
	Passed     bool        `json:"passed"`
	Violations []Violation `json:"violations,omitempty"`
}
