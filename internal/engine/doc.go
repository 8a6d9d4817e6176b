// Package engine contains the core scanning logic for sopsguard. It
// selects target files (explicit args, the staged set, or a working-tree
// walk), fans them out across workers, and returns per-file scan results in
// a deterministic order. This package is internal; external consumers
// should use the stable facade in pkg/core.
package engine
