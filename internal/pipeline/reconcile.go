package pipeline

import (
	"cineload/internal/catalog"
	"cineload/internal/ledger"
	"cineload/internal/sink"
)

// Reconcile inner-joins catalog records against success-status ledger entries
// on movie ID. Records absent from the ledger, or present with failed status,
// are dropped from the movies relation; their ratings still load elsewhere.
//
// Where both sides carry a value (title, year) the catalog wins, and the
// movies relation carries the catalog's raw display title, year suffix
// included; the cleaned lookup title lives only in the ledger. The join
// result is projected into the fixed MovieRow shape, so there is no
// positional or suffix-based column disambiguation to get wrong.
func Reconcile(records []catalog.Record, successes []ledger.Entry) []sink.MovieRow {
	byID := make(map[int64]ledger.Entry, len(successes))
	for _, entry := range successes {
		if _, exists := byID[entry.MovieID]; !exists {
			byID[entry.MovieID] = entry
		}
	}

	var rows []sink.MovieRow
	for _, record := range records {
		entry, ok := byID[record.ID]
		if !ok {
			continue
		}
		rows = append(rows, sink.MovieRow{
			MovieID:    record.ID,
			Title:      record.Title,
			Year:       record.Year,
			IMDBID:     entry.IMDBID,
			Director:   entry.Director,
			Plot:       entry.Plot,
			BoxOffice:  entry.BoxOffice,
			PosterURL:  entry.PosterURL,
			Runtime:    entry.Runtime,
			Metascore:  entry.Metascore,
			IMDBRating: entry.IMDBRating,
		})
	}
	return rows
}
