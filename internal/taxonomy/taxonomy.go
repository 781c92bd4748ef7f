package taxonomy

import (
	"sort"
	"strings"

	"cineload/internal/catalog"
)

const (
	delimiter = "|"
	// sentinel marks a record that declares it has no genres.
	sentinel = "(no genres listed)"
)

// Genre is one entry in the derived vocabulary. IDs are dense, 1-based, and
// assigned in sorted lexical order of the name, so identical catalogs always
// produce identical IDs regardless of input row order.
type Genre struct {
	ID   int64
	Name string
}

// Membership is one movie-to-genre edge.
type Membership struct {
	MovieID int64
	GenreID int64
}

// Taxonomy is the derived vocabulary plus the membership relation.
type Taxonomy struct {
	Genres      []Genre
	Memberships []Membership
}

// Build recomputes the taxonomy from the full catalog. It replaces any prior
// vocabulary; genre IDs are not stable across catalog changes.
func Build(records []catalog.Record) Taxonomy {
	names := make(map[string]struct{})
	for _, record := range records {
		for _, name := range splitGenres(record.Genres) {
			names[name] = struct{}{}
		}
	}

	sorted := make([]string, 0, len(names))
	for name := range names {
		sorted = append(sorted, name)
	}
	sort.Strings(sorted)

	genres := make([]Genre, 0, len(sorted))
	idByName := make(map[string]int64, len(sorted))
	for i, name := range sorted {
		id := int64(i + 1)
		genres = append(genres, Genre{ID: id, Name: name})
		idByName[name] = id
	}

	var memberships []Membership
	for _, record := range records {
		for _, name := range splitGenres(record.Genres) {
			id, ok := idByName[name]
			if !ok {
				// All names come from the same scan; this guards
				// against future incremental callers.
				continue
			}
			memberships = append(memberships, Membership{MovieID: record.ID, GenreID: id})
		}
	}

	return Taxonomy{Genres: genres, Memberships: memberships}
}

func splitGenres(field string) []string {
	if strings.TrimSpace(field) == "" || field == sentinel {
		return nil
	}
	parts := strings.Split(field, delimiter)
	out := parts[:0]
	for _, part := range parts {
		if part == "" || part == sentinel {
			continue
		}
		out = append(out, part)
	}
	return out
}
