package report

import (
	"path/filepath"
	"testing"

	"github.com/sopsguard/sopsguard/internal/types"
)

func TestBaselineRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "base.json")
	old := types.Violation{Path: "legacy.yaml", Line: 3, Rule: "unencrypted-secret", Message: "old debt"}
	if err := SaveBaseline(path, []types.Violation{old}); err != nil {
		t.Fatal(err)
	}
	base, err := LoadBaseline(path)
	if err != nil {
		t.Fatal(err)
	}

	fresh := types.Violation{Path: "new.yaml", Line: 9, Rule: "unencrypted-secret", Message: "new leak"}
	results := []types.ScanResult{
		{Path: "legacy.yaml", Violations: []types.Violation{old}},
		{Path: "new.yaml", Violations: []types.Violation{fresh}},
	}
	filtered := FilterNew(results, base)
	if len(filtered) != 2 {
		t.Fatalf("result count changed: %d", len(filtered))
	}
	if !filtered[0].Passed || len(filtered[0].Violations) != 0 {
		t.Fatalf("baselined violation survived: %+v", filtered[0])
	}
	if filtered[1].Passed || len(filtered[1].Violations) != 1 {
		t.Fatalf("new violation lost: %+v", filtered[1])
	}
}

func TestLoadBaselineMissing(t *testing.T) {
	base, err := LoadBaseline(filepath.Join(t.TempDir(), "nope.json"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if base.Items == nil {
		t.Fatal("Items must be usable even on error")
	}
}
