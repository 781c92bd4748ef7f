// Package catalog reads the movie and rating input files and derives the
// normalized lookup identity (clean title plus release year) for each record.
//
// Records without an extractable release year cannot be queried against the
// lookup service; they are still carried through genre and rating processing.
package catalog
