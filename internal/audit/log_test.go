package audit

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sopsguard/sopsguard/internal/types"
)

func TestRecordAndHistory(t *testing.T) {
	root := t.TempDir()
	l := NewLog(root)

	all := []types.Violation{
		{Path: "a.yaml", Line: 2, Rule: "unencrypted-secret", Severity: types.SevHigh},
		{Path: "b.yaml", Line: 5, Rule: "generator-file", Severity: types.SevMed},
	}
	first := NewRunRecord(root, true, all, all, 10, time.Second, true)
	if err := l.Record(first); err != nil {
		t.Fatal(err)
	}
	if err := l.Record(NewRunRecord(root, false, nil, nil, 12, time.Second, false)); err != nil {
		t.Fatal(err)
	}

	hist, err := l.History()
	if err != nil {
		t.Fatal(err)
	}
	if len(hist) != 2 {
		t.Fatalf("history length = %d", len(hist))
	}
	if hist[0].Blocked {
		t.Fatal("newest first: second run did not block")
	}
	if hist[1].TotalViolations != 2 || hist[1].SeverityCounts["high"] != 1 {
		t.Fatalf("counts wrong: %+v", hist[1])
	}
	if hist[1].RuleCounts["generator-file"] != 1 {
		t.Fatalf("rule counts wrong: %+v", hist[1].RuleCounts)
	}
}

func TestLogLivesUnderGitDir(t *testing.T) {
	root := t.TempDir()
	if err := os.Mkdir(filepath.Join(root, ".git"), 0755); err != nil {
		t.Fatal(err)
	}
	l := NewLog(root)
	if err := l.Record(RunRecord{}); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(root, ".git", "sopsguard_audit.jsonl")); err != nil {
		t.Fatalf("log not under .git: %v", err)
	}
}

func TestHistorySkipsCorruptLines(t *testing.T) {
	root := t.TempDir()
	l := NewLog(root)
	if err := l.Record(RunRecord{RunID: "first"}); err != nil {
		t.Fatal(err)
	}
	// a torn write in the middle of the log
	f, err := os.OpenFile(l.logPath, os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.WriteString("{\"run_id\": \"torn\n"); err != nil {
		t.Fatal(err)
	}
	_ = f.Close()
	if err := l.Record(RunRecord{RunID: "second"}); err != nil {
		t.Fatal(err)
	}

	done := make(chan struct{})
	var hist []RunRecord
	go func() {
		defer close(done)
		hist, err = l.History()
	}()
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("History did not return on a corrupt log line")
	}
	if err != nil {
		t.Fatal(err)
	}
	if len(hist) != 2 || hist[0].RunID != "second" || hist[1].RunID != "first" {
		t.Fatalf("records around the corrupt line lost: %+v", hist)
	}
}
