package ledger

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"cineload/internal/logging"
)

// Outcome status values stored in the ledger.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// header is the on-disk column order. It never changes shape between runs;
// readers tolerate files that predate newer columns.
var header = []string{
	"movieId", "title", "release_year", "status", "imdb_id", "director",
	"plot", "box_office", "poster_url", "runtime_minutes", "metascore",
	"imdb_rating",
}

// Entry records one enrichment outcome. Enrichment fields are only populated
// for success entries; Metascore and IMDBRating stay nil when the service had
// no data.
type Entry struct {
	MovieID    int64
	Title      string
	Year       int
	Status     string
	IMDBID     string
	Director   string
	Plot       string
	BoxOffice  string
	PosterURL  string
	Runtime    string
	Metascore  *int
	IMDBRating *float64
}

// Ledger holds the committed outcomes for all prior runs plus any appended
// during the current run.
type Ledger struct {
	path    string
	logger  *slog.Logger
	entries map[int64]Entry
	order   []int64 // insertion order, preserved across rewrites
}

// Open reads the ledger at path, deduplicating by movie ID (first occurrence
// wins). A missing file is a cold start: an empty ledger is written out with
// the full outcome schema so the file exists from the first run onward.
func Open(path string, logger *slog.Logger) (*Ledger, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("ledger path required")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logging.NewComponentLogger(logger, "ledger")

	l := &Ledger{
		path:    path,
		logger:  logger,
		entries: make(map[int64]Entry),
	}

	if err := l.load(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		logger.Info("no existing cache ledger, starting fresh", logging.String("path", path))
		if err := l.save(); err != nil {
			return nil, fmt.Errorf("initialize ledger: %w", err)
		}
		return l, nil
	}

	logger.Info("loaded cache ledger",
		logging.Int("entry_count", len(l.order)),
		logging.String("path", path))
	return l, nil
}

// Lookup returns the outcome for a movie ID if one has been recorded.
func (l *Ledger) Lookup(movieID int64) (Entry, bool) {
	entry, ok := l.entries[movieID]
	return entry, ok
}

// Has reports whether an outcome exists for the movie ID.
func (l *Ledger) Has(movieID int64) bool {
	_, ok := l.entries[movieID]
	return ok
}

// Len returns the number of recorded outcomes.
func (l *Ledger) Len() int { return len(l.order) }

// Entries returns all outcomes in committed order.
func (l *Ledger) Entries() []Entry {
	out := make([]Entry, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, l.entries[id])
	}
	return out
}

// Successes returns the success-status outcomes in committed order.
func (l *Ledger) Successes() []Entry {
	var out []Entry
	for _, id := range l.order {
		if entry := l.entries[id]; entry.Status == StatusSuccess {
			out = append(out, entry)
		}
	}
	return out
}

// AppendBatch records this run's outcomes and rewrites the ledger once,
// atomically. An entry whose movie ID is already recorded, or duplicated
// within the batch, is rejected before anything is written: an ID gets at
// most one outcome, ever. An empty batch is a no-op and touches nothing.
func (l *Ledger) AppendBatch(entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}

	seen := make(map[int64]struct{}, len(entries))
	for _, entry := range entries {
		if entry.Status != StatusSuccess && entry.Status != StatusFailed {
			return fmt.Errorf("entry %d has invalid status %q", entry.MovieID, entry.Status)
		}
		if l.Has(entry.MovieID) {
			return fmt.Errorf("movie %d already has a recorded outcome", entry.MovieID)
		}
		if _, dup := seen[entry.MovieID]; dup {
			return fmt.Errorf("movie %d appears twice in batch", entry.MovieID)
		}
		seen[entry.MovieID] = struct{}{}
	}

	for _, entry := range entries {
		l.entries[entry.MovieID] = entry
		l.order = append(l.order, entry.MovieID)
	}

	if err := l.save(); err != nil {
		return fmt.Errorf("persist ledger: %w", err)
	}

	l.logger.Info("cache updated",
		logging.Int("new_entries", len(entries)),
		logging.Int("total_entries", len(l.order)))
	return nil
}

// Remove deletes the outcome for a movie ID and rewrites the ledger. It is
// the manual escape hatch for retrying a failed lookup on a later run.
func (l *Ledger) Remove(movieID int64) error {
	if !l.Has(movieID) {
		return fmt.Errorf("movie %d not found in ledger", movieID)
	}
	delete(l.entries, movieID)
	for i, id := range l.order {
		if id == movieID {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
	if err := l.save(); err != nil {
		return fmt.Errorf("persist ledger: %w", err)
	}
	l.logger.Info("removed ledger entry", logging.Int64("movie_id", movieID))
	return nil
}

// RemoveFailed deletes every failed-status outcome, returning how many were
// dropped. Success entries are untouched.
func (l *Ledger) RemoveFailed() (int, error) {
	kept := l.order[:0]
	removed := 0
	for _, id := range l.order {
		if l.entries[id].Status == StatusFailed {
			delete(l.entries, id)
			removed++
			continue
		}
		kept = append(kept, id)
	}
	l.order = kept
	if removed == 0 {
		return 0, nil
	}
	if err := l.save(); err != nil {
		return 0, fmt.Errorf("persist ledger: %w", err)
	}
	l.logger.Info("purged failed ledger entries", logging.Int("removed", removed))
	return removed, nil
}

func (l *Ledger) load() error {
	file, err := os.Open(l.path)
	if err != nil {
		return err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	head, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("read ledger header: %w", err)
	}

	cols := make(map[string]int, len(head))
	for i, name := range head {
		cols[name] = i
	}
	if _, ok := cols["movieId"]; !ok {
		return fmt.Errorf("ledger %s missing movieId column", l.path)
	}

	rows, err := reader.ReadAll()
	if err != nil {
		return fmt.Errorf("read ledger rows: %w", err)
	}

	for _, row := range rows {
		entry, err := entryFromRow(row, cols)
		if err != nil {
			return fmt.Errorf("ledger %s: %w", l.path, err)
		}
		// First occurrence wins; append logic upstream prevents
		// duplicates from being written in the first place.
		if _, exists := l.entries[entry.MovieID]; exists {
			l.logger.Warn("duplicate ledger entry ignored", logging.Int64("movie_id", entry.MovieID))
			continue
		}
		l.entries[entry.MovieID] = entry
		l.order = append(l.order, entry.MovieID)
	}
	return nil
}

// save rewrites the whole ledger through a temp file and an atomic rename.
// A crash before the rename leaves the previous file intact.
func (l *Ledger) save() error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("create ledger directory: %w", err)
	}

	tmpPath := l.path + ".tmp"
	file, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create temp ledger: %w", err)
	}

	writer := csv.NewWriter(file)
	if err := writer.Write(header); err != nil {
		file.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write ledger header: %w", err)
	}
	for _, id := range l.order {
		if err := writer.Write(rowFromEntry(l.entries[id])); err != nil {
			file.Close()
			os.Remove(tmpPath)
			return fmt.Errorf("write ledger row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		file.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("flush ledger: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp ledger: %w", err)
	}

	if err := os.Rename(tmpPath, l.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp ledger: %w", err)
	}
	return nil
}

func rowFromEntry(e Entry) []string {
	return []string{
		strconv.FormatInt(e.MovieID, 10),
		e.Title,
		formatYear(e.Year),
		e.Status,
		e.IMDBID,
		e.Director,
		e.Plot,
		e.BoxOffice,
		e.PosterURL,
		e.Runtime,
		formatOptInt(e.Metascore),
		formatOptFloat(e.IMDBRating),
	}
}

func entryFromRow(row []string, cols map[string]int) (Entry, error) {
	get := func(name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return row[idx]
	}

	movieID, err := strconv.ParseInt(strings.TrimSpace(get("movieId")), 10, 64)
	if err != nil {
		return Entry{}, fmt.Errorf("bad movieId %q: %w", get("movieId"), err)
	}

	return Entry{
		MovieID:    movieID,
		Title:      get("title"),
		Year:       parseYear(get("release_year")),
		Status:     strings.TrimSpace(get("status")),
		IMDBID:     get("imdb_id"),
		Director:   get("director"),
		Plot:       get("plot"),
		BoxOffice:  get("box_office"),
		PosterURL:  get("poster_url"),
		Runtime:    get("runtime_minutes"),
		Metascore:  parseOptInt(get("metascore")),
		IMDBRating: parseOptFloat(get("imdb_rating")),
	}, nil
}

func formatYear(year int) string {
	if year == 0 {
		return ""
	}
	return strconv.Itoa(year)
}

func formatOptInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func formatOptFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// parseYear tolerates float formatting ("1995.0") from earlier tooling that
// wrote the ledger with nullable numeric columns.
func parseYear(value string) int {
	f := parseOptFloat(value)
	if f == nil {
		return 0
	}
	return int(*f)
}

func parseOptInt(value string) *int {
	f := parseOptFloat(value)
	if f == nil {
		return nil
	}
	v := int(*f)
	return &v
}

func parseOptFloat(value string) *float64 {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil
	}
	return &parsed
}
