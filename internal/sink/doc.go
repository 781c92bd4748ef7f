// Package sink loads the reconciled relations into the SQLite analytics
// database.
//
// Every run fully replaces the four relations (genres, movies, movie_genres,
// ratings). Each relation is loaded into a staging table and swapped into
// place inside a transaction, so a crash never leaves a half-written table;
// it can leave some relations replaced and others not, which is acceptable
// because the whole pipeline is idempotent end to end. Schema DDL is
// embedded and safe to apply repeatedly.
package sink
