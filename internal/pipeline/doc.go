// Package pipeline wires the full batch run: read inputs, enrich through the
// ledger-backed scheduler, derive the genre taxonomy, reconcile, and load the
// analytics database.
//
// A file lock guards the whole run; a second concurrent invocation against
// the same ledger fails fast with ErrLocked instead of corrupting state.
// Re-running the pipeline is idempotent end to end, which is what makes the
// non-transactional four-relation load acceptable.
package pipeline
