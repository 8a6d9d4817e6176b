package core

import (
	"github.com/sopsguard/sopsguard/internal/engine"
	"github.com/sopsguard/sopsguard/internal/types"
)

// Re-export selected internal types as a stable public API surface.
// These are type aliases so external consumers can depend on a stable path.
// We can replace these with decoupled structs later without breaking callers.
type Config = engine.Config
type ScanResult = types.ScanResult
type Violation = types.Violation

// Scan is the stable entrypoint for other programs.
func Scan(cfg Config) ([]ScanResult, error) {
	return engine.Scan(cfg)
}

// CheckBytes validates a single file's content without touching the
// filesystem. This is the shape editor integrations want.
func CheckBytes(path string, data []byte) ScanResult {
	return engine.ScanFile(path, data, detectorOptions(nil))
}

// CheckBytesWithSuffixes is CheckBytes with a custom encrypted-suffix list.
func CheckBytesWithSuffixes(path string, data []byte, suffixes []string) ScanResult {
	return engine.ScanFile(path, data, detectorOptions(suffixes))
}
