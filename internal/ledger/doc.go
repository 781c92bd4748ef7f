// Package ledger persists enrichment outcomes across pipeline runs.
//
// The ledger is a CSV file holding exactly one outcome per movie ID, success
// or failed. It is the source of truth for "already attempted": an ID present
// in the ledger is never re-submitted to the lookup service, regardless of
// its status. Failed entries never expire; retrying one requires an explicit
// purge.
//
// Writes replace the whole file through a temp-file rename so a crash mid-run
// can lose that run's new outcomes but never corrupt committed ones. The
// ledger is single-writer: one pipeline run owns it at a time.
package ledger
