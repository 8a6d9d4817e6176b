package report

import (
	"encoding/json"
	"os"

	"github.com/sopsguard/sopsguard/internal/types"
)

// Baseline holds previously accepted findings so a repository can adopt the
// hook without first fixing historical debt. Keys are path|rule|message.
type Baseline struct {
	Items map[string]bool `json:"items"`
}

func LoadBaseline(path string) (Baseline, error) {
	b := Baseline{Items: map[string]bool{}}
	f, err := os.ReadFile(path)
	if err != nil {
		return b, err
	}
	_ = json.Unmarshal(f, &b)
	if b.Items == nil {
		b.Items = map[string]bool{}
	}
	return b, nil
}

func SaveBaseline(path string, violations []types.Violation) error {
	b := Baseline{Items: map[string]bool{}}
	for _, v := range violations {
		b.Items[baselineKey(v)] = true
	}
	buf, _ := json.MarshalIndent(b, "", "  ")
	return os.WriteFile(path, buf, 0644)
}

// FilterNew drops violations recorded in the baseline and recomputes each
// file's pass state.
func FilterNew(results []types.ScanResult, base Baseline) []types.ScanResult {
	if len(base.Items) == 0 {
		return results
	}
	out := make([]types.ScanResult, 0, len(results))
	for _, r := range results {
		kept := r.Violations[:0:0]
		for _, v := range r.Violations {
			if !base.Items[baselineKey(v)] {
				kept = append(kept, v)
			}
		}
		r.Violations = kept
		r.Passed = len(kept) == 0
		out = append(out, r)
	}
	return out
}

func baselineKey(v types.Violation) string {
	return v.Path + "|" + v.Rule + "|" + v.Message
}
