// Package journal persists reconciliation outcomes to an embedded
// bbolt database.
//
// # Role
//
// The journal is a run log, not a state store. Reconciliation never
// consults it: the cluster itself is the source of truth, re-queried
// through the tool on every run. What the journal adds is history,
// the record of what chartsync decided and did on each run, which the
// history command and the HTTP API expose for auditing.
//
// # Storage Model
//
// Records live in a single "runs" bucket keyed by UUID, serialized as
// JSON. Reads scan the bucket and sort by start time in memory, which
// is fine at the volumes a release journal sees. The database file is
// chartsync.db under the configured data directory and is created on
// first open.
//
// # Usage
//
//	j, err := journal.Open("./chartsync-data")
//	if err != nil {
//		return err
//	}
//	defer j.Close()
//
//	j.Append(journal.FromOutcome(outcome, helmVersion))
//
//	recent, err := j.ByRelease("nginx", 10)
package journal
