// Package core provides a small, stable facade over sopsguard's internal
// engine for external integrations. It deliberately re-exports a narrow API
// surface so CI tooling and editor plugins can depend on a stable import
// path without reaching into internal packages.
//
// Example:
//
//	cfg := core.Config{Root: ".", DefaultExcludes: true}
//	results, err := core.Scan(cfg)
//	if err != nil { /* handle */ }
//	_ = core.MarshalResults(os.Stdout, results)
package core
