// Package report formats reconciliation results for machine
// consumers.
//
// A completed run serializes to {release, changed, stdout, stderr}, a
// failed one to {release, msg, command, stdout, stderr} with the
// command populated only for tool failures. The Reporter emits one
// JSON object per line so multi-release applies stay parseable with
// line-oriented tooling.
package report
