package catalog

// Record is one row of the movie catalog input, with its derived lookup
// identity filled in at read time. The raw title remains untouched so the
// catalog stays the source of truth for display values.
type Record struct {
	ID         int64
	Title      string // display title as read from the input
	Genres     string // pipe-delimited genre field, may be empty
	CleanTitle string // Title with the trailing " (YYYY)" suffix removed
	Year       int    // 0 when no release year could be extracted
}

// HasYear reports whether a release year was extracted from the title.
// Only records with a year are eligible for external lookup.
func (r Record) HasYear() bool { return r.Year != 0 }

// Rating is one row of the ratings input. Ratings pass through to the sink
// unfiltered; they are independent of enrichment status.
type Rating struct {
	UserID    int64
	MovieID   int64
	Value     float64
	Timestamp int64
}
