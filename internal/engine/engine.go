package engine

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"

	xxhash "github.com/cespare/xxhash/v2"
	"k8s.io/klog/v2"

	"github.com/sopsguard/sopsguard/internal/cache"
	"github.com/sopsguard/sopsguard/internal/detectors"
	"github.com/sopsguard/sopsguard/internal/extract"
	"github.com/sopsguard/sopsguard/internal/git"
	"github.com/sopsguard/sopsguard/internal/ignore"
	"github.com/sopsguard/sopsguard/internal/report"
	"github.com/sopsguard/sopsguard/internal/types"
)

// Config controls scanning behavior including scope, performance, and filters.
type Config struct {
	Root              string
	Files             []string // explicit targets (pre-commit argument list); bypasses the walk
	Staged            bool     // scan the staged change set instead of the working tree
	IncludeGlobs      string
	ExcludeGlobs      string
	MaxBytes          int64
	Threads           int
	NoCache           bool
	DefaultExcludes   bool
	EncryptedSuffixes []string
	Progress          func()
}

// Result contains per-file results plus basic scan statistics. Results keep
// target order, so identical input always renders identically. Errors holds
// driver-level I/O failures, which are distinct from validation violations.
type Result struct {
	Results      []types.ScanResult
	FilesScanned int
	Duration     time.Duration
	Errors       []error
}

type target struct {
	path string // as reported (relative for walks, verbatim for args)
	data []byte
	hash string
}

// ScanFile runs the full per-file pipeline: resolve ignore directives,
// extract documents, collect constructs, assemble the result. It is a pure
// function of its input and safe to call from concurrent workers.
func ScanFile(path string, data []byte, opts detectors.Options) types.ScanResult {
	dirs := ignore.Resolve(data)
	if dirs.FileIgnored {
		klog.V(2).InfoS("file ignored by directive", "path", path)
		return types.ScanResult{Path: path, Passed: true}
	}
	docs := extract.Extract(data)
	var constructs []detectors.Construct
	for _, d := range docs {
		constructs = append(constructs, detectors.Collect(d)...)
	}
	klog.V(2).InfoS("scanned file", "path", path, "documents", len(docs), "constructs", len(constructs))
	return report.Assemble(path, dirs, constructs, opts, strings.Split(string(data), "\n"))
}

// Scan runs a scan and returns only the per-file results.
func Scan(cfg Config) ([]types.ScanResult, error) {
	res, err := ScanWithStats(cfg)
	if err != nil {
		return nil, err
	}
	return res.Results, nil
}

// ScanWithStats runs a scan and returns results along with timing and counts.
func ScanWithStats(cfg Config) (Result, error) {
	var result Result
	started := time.Now()

	opts := detectors.DefaultOptions().WithSuffixes(cfg.EncryptedSuffixes)
	if cfg.Threads <= 0 {
		cfg.Threads = runtime.GOMAXPROCS(0)
	}

	targets, errs := collectTargets(cfg)
	result.Errors = errs

	db := cache.DB{Entries: map[string]string{}}
	if !cfg.NoCache {
		db, _ = cache.Load(cfg.Root)
	}

	// Cached clean files are skipped but still reported as passing so the
	// result set covers every target.
	var pending []int
	results := make([]types.ScanResult, len(targets))
	for i, tg := range targets {
		if !cfg.NoCache && db.Entries[tg.path] == tg.hash {
			results[i] = types.ScanResult{Path: tg.path, Passed: true}
			if cfg.Progress != nil {
				cfg.Progress()
			}
			continue
		}
		pending = append(pending, i)
	}

	var mu sync.Mutex
	var wg sync.WaitGroup
	jobs := make(chan int)
	for w := 0; w < cfg.Threads; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = ScanFile(targets[i].path, targets[i].data, opts)
				if cfg.Progress != nil {
					mu.Lock()
					cfg.Progress()
					mu.Unlock()
				}
			}
		}()
	}
	for _, i := range pending {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	updated := false
	for i, r := range results {
		if r.Passed && targets[i].hash != "" {
			if db.Entries[targets[i].path] != targets[i].hash {
				db.Entries[targets[i].path] = targets[i].hash
				updated = true
			}
		} else {
			if _, ok := db.Entries[targets[i].path]; ok {
				delete(db.Entries, targets[i].path)
				updated = true
			}
		}
	}
	if !cfg.NoCache && updated {
		_ = cache.Save(cfg.Root, db)
	}

	result.Results = results
	result.FilesScanned = len(targets)
	result.Duration = time.Since(started)
	return result, nil
}

// collectTargets gathers the files to scan per the configured mode.
// Unreadable explicit targets surface as errors; anything skipped during a
// walk is silently ignored the way any tree scanner would.
func collectTargets(cfg Config) ([]target, []error) {
	var targets []target
	var errs []error

	add := func(path string, data []byte) {
		if cfg.MaxBytes > 0 && int64(len(data)) > cfg.MaxBytes {
			klog.V(2).InfoS("skipping oversized file", "path", path, "bytes", len(data))
			return
		}
		if looksBinary(data) {
			klog.V(2).InfoS("skipping binary file", "path", path)
			return
		}
		targets = append(targets, target{path: path, data: data, hash: fastHash(data)})
	}

	switch {
	case len(cfg.Files) > 0:
		for _, p := range cfg.Files {
			b, err := os.ReadFile(p)
			if err != nil {
				errs = append(errs, fmt.Errorf("read %s: %w", p, err))
				continue
			}
			add(p, b)
		}
	case cfg.Staged:
		paths, data, err := git.StagedFiles(cfg.Root)
		if err != nil {
			errs = append(errs, err)
			return targets, errs
		}
		for i, p := range paths {
			if data[i] == nil || !allowedByGlobs(p, cfg) {
				continue
			}
			add(p, data[i])
		}
	default:
		walkErr := Walk(cfg, func(p string, data []byte) {
			add(p, data)
		})
		if walkErr != nil {
			errs = append(errs, walkErr)
		}
	}
	return targets, errs
}

func fastHash(b []byte) string {
	if len(b) == 0 {
		return "0000000000000000"
	}
	sum := xxhash.Sum64(b)
	var buf [16]byte
	const hex = "0123456789abcdef"
	for i := 15; i >= 0; i-- {
		buf[i] = hex[sum&0xF]
		sum >>= 4
	}
	return string(buf[:])
}
