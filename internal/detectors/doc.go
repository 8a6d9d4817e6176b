// Package detectors locates secret-bearing constructs in parsed documents
// and classifies each as encrypted or not. The walker and the validator are
// deliberately decoupled: the walker only collects, the validator only
// judges, so each is testable on its own.
package detectors
