// Package taxonomy derives the genre vocabulary and its movie membership
// relation from the raw catalog.
//
// The vocabulary is rebuilt from scratch every run: distinct genre names are
// collected across all records, sorted lexically, and assigned dense 1-based
// IDs. Membership edges are then emitted per (movie, genre) pair. The
// reserved "(no genres listed)" value and empty fields are ignored.
package taxonomy
