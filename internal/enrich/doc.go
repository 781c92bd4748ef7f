// Package enrich drives the per-run lookup loop against the OMDb client.
//
// The scheduler computes the work set (catalog records with a release year
// and no ledger entry), truncates it to the per-run API limit, performs one
// lookup per record, and appends all outcomes to the ledger in a single batch
// write. A record that misses or fails transport is recorded as failed and
// never retried automatically; records past the limit simply wait for the
// next run.
//
// Lookups may run with bounded concurrency, but which records are attempted
// is decided up front in catalog order, the quota counts attempts, and the
// ledger write stays one atomic batch.
package enrich
