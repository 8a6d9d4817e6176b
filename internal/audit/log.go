// Package audit keeps an append-only JSONL history of check runs under
// .git, so a team can see when the hook last ran and what it blocked.
// Records carry counts and locations only, never secret values.
package audit

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sopsguard/sopsguard/internal/types"
)

type RunRecord struct {
	Timestamp       time.Time      `json:"timestamp"`
	RunID           string         `json:"run_id"`
	Root            string         `json:"root"`
	Staged          bool           `json:"staged"`
	FilesScanned    int            `json:"files_scanned"`
	TotalViolations int            `json:"total_violations"`
	NewViolations   int            `json:"new_violations"`
	BaselinedCount  int            `json:"baselined_count"`
	SeverityCounts  map[string]int `json:"severity_counts"`
	RuleCounts      map[string]int `json:"rule_counts"`
	Duration        string         `json:"duration"`
	Blocked         bool           `json:"blocked"`
}

type Log struct {
	logPath string
}

func NewLog(root string) *Log {
	gitDir := filepath.Join(root, ".git")
	logPath := filepath.Join(root, ".sopsguard_audit.jsonl")
	if st, err := os.Stat(gitDir); err == nil && st.IsDir() {
		logPath = filepath.Join(gitDir, "sopsguard_audit.jsonl")
	}
	return &Log{logPath: logPath}
}

// History returns recorded runs, newest first. Corrupt lines are skipped so
// a torn write can never lock the tool out of its own history.
func (l *Log) History() ([]RunRecord, error) {
	f, err := os.Open(l.logPath)
	if err != nil {
		return nil, fmt.Errorf("open audit log: %w", err)
	}
	defer f.Close()

	var records []RunRecord
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		var r RunRecord
		if err := json.Unmarshal(sc.Bytes(), &r); err != nil {
			continue
		}
		records = append(records, r)
	}

	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	return records, nil
}

func (l *Log) Record(r RunRecord) error {
	if r.RunID == "" {
		r.RunID = fmt.Sprintf("run_%d", time.Now().Unix())
	}

	// owner-only: the log reveals which files hold secret material
	f, err := os.OpenFile(l.logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("open audit log: %w", err)
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(r); err != nil {
		return fmt.Errorf("write audit record: %w", err)
	}
	return nil
}

// NewRunRecord summarizes one check run. Violations are counted, never
// stored: paths and snippets stay out of the log.
func NewRunRecord(root string, staged bool, all, fresh []types.Violation, filesScanned int, duration time.Duration, blocked bool) RunRecord {
	severityCounts := map[string]int{}
	ruleCounts := map[string]int{}
	for _, v := range all {
		severityCounts[string(v.Severity)]++
		ruleCounts[v.Rule]++
	}
	return RunRecord{
		Timestamp:       time.Now(),
		Root:            root,
		Staged:          staged,
		FilesScanned:    filesScanned,
		TotalViolations: len(all),
		NewViolations:   len(fresh),
		BaselinedCount:  len(all) - len(fresh),
		SeverityCounts:  severityCounts,
		RuleCounts:      ruleCounts,
		Duration:        duration.String(),
		Blocked:         blocked,
	}
}
