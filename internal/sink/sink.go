package sink

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"cineload/internal/catalog"
	"cineload/internal/logging"
	"cineload/internal/taxonomy"
)

//go:embed schema.sql
var schemaSQL string

// MovieRow is the reconciled projection loaded into the movies relation: the
// catalog identity joined with a success-status enrichment outcome. Title and
// Year always come from the catalog side of the join.
type MovieRow struct {
	MovieID    int64
	Title      string
	Year       int
	IMDBID     string
	Director   string
	Plot       string
	BoxOffice  string
	PosterURL  string
	Runtime    string
	Metascore  *int
	IMDBRating *float64
}

// Snapshot carries one run's full contents for all four relations.
type Snapshot struct {
	Genres      []taxonomy.Genre
	Movies      []MovieRow
	MovieGenres []taxonomy.Membership
	Ratings     []catalog.Rating
}

// RelationCounts reports row counts per relation.
type RelationCounts struct {
	Genres      int64
	Movies      int64
	MovieGenres int64
	Ratings     int64
}

// Store manages the SQLite analytics database.
type Store struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// Open connects to (or creates) the analytics database and applies the
// schema DDL.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("database path required")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{
		db:     db,
		path:   path,
		logger: logging.NewComponentLogger(logger, "sink"),
	}
	if err := store.InitSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

// InitSchema applies the embedded DDL. It is safe to run repeatedly.
func (s *Store) InitSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// Load fully replaces all four relations with the snapshot's contents.
// Categories load before membership for readability of the resulting
// database; there is no foreign-key dependency between the relations.
func (s *Store) Load(ctx context.Context, snap Snapshot) error {
	if err := s.InitSchema(ctx); err != nil {
		return err
	}

	if err := s.loadGenres(ctx, snap.Genres); err != nil {
		return err
	}
	if err := s.loadMovies(ctx, snap.Movies); err != nil {
		return err
	}
	if err := s.loadMovieGenres(ctx, snap.MovieGenres); err != nil {
		return err
	}
	if err := s.loadRatings(ctx, snap.Ratings); err != nil {
		return err
	}

	s.logger.Info("load complete",
		logging.Int("genres", len(snap.Genres)),
		logging.Int("movies", len(snap.Movies)),
		logging.Int("movie_genres", len(snap.MovieGenres)),
		logging.Int("ratings", len(snap.Ratings)))
	return nil
}

// Counts returns current row counts for all four relations.
func (s *Store) Counts(ctx context.Context) (RelationCounts, error) {
	var counts RelationCounts
	targets := []struct {
		table string
		dest  *int64
	}{
		{"genres", &counts.Genres},
		{"movies", &counts.Movies},
		{"movie_genres", &counts.MovieGenres},
		{"ratings", &counts.Ratings},
	}
	for _, target := range targets {
		row := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM "+target.table)
		if err := row.Scan(target.dest); err != nil {
			return RelationCounts{}, fmt.Errorf("count %s: %w", target.table, err)
		}
	}
	return counts, nil
}

// MovieIDs returns the ids currently present in the movies relation.
func (s *Store) MovieIDs(ctx context.Context) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT movie_id FROM movies ORDER BY movie_id")
	if err != nil {
		return nil, fmt.Errorf("query movie ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan movie id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// replaceRelation stages rows into a fresh table and swaps it into place,
// all inside one transaction. The staging DDL must mirror schema.sql for
// the target table since the staging table becomes the real one.
func (s *Store) replaceRelation(ctx context.Context, table, stagingDDL, insertSQL string, insert func(*sql.Stmt) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin %s load: %w", table, err)
	}
	defer func() { _ = tx.Rollback() }()

	staging := table + "_staging"
	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+staging); err != nil {
		return fmt.Errorf("drop stale staging for %s: %w", table, err)
	}
	if _, err := tx.ExecContext(ctx, stagingDDL); err != nil {
		return fmt.Errorf("create staging for %s: %w", table, err)
	}

	stmt, err := tx.PrepareContext(ctx, insertSQL)
	if err != nil {
		return fmt.Errorf("prepare %s insert: %w", table, err)
	}
	defer stmt.Close()
	if err := insert(stmt); err != nil {
		return fmt.Errorf("stage %s rows: %w", table, err)
	}

	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+table); err != nil {
		return fmt.Errorf("drop %s: %w", table, err)
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("ALTER TABLE %s RENAME TO %s", staging, table)); err != nil {
		return fmt.Errorf("swap %s into place: %w", table, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit %s load: %w", table, err)
	}
	return nil
}

func (s *Store) loadGenres(ctx context.Context, genres []taxonomy.Genre) error {
	ddl := `CREATE TABLE genres_staging (
		genre_id INTEGER PRIMARY KEY,
		genre_name TEXT NOT NULL
	)`
	return s.replaceRelation(ctx, "genres", ddl,
		"INSERT INTO genres_staging (genre_id, genre_name) VALUES (?, ?)",
		func(stmt *sql.Stmt) error {
			for _, genre := range genres {
				if _, err := stmt.ExecContext(ctx, genre.ID, genre.Name); err != nil {
					return err
				}
			}
			return nil
		})
}

func (s *Store) loadMovies(ctx context.Context, movies []MovieRow) error {
	ddl := `CREATE TABLE movies_staging (
		movie_id INTEGER PRIMARY KEY,
		title TEXT NOT NULL,
		release_year INTEGER,
		imdb_id TEXT,
		director TEXT,
		plot TEXT,
		box_office TEXT,
		poster_url TEXT,
		runtime_minutes TEXT,
		metascore INTEGER,
		imdb_rating REAL
	)`
	insertSQL := `INSERT INTO movies_staging (
		movie_id, title, release_year, imdb_id, director, plot,
		box_office, poster_url, runtime_minutes, metascore, imdb_rating
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	return s.replaceRelation(ctx, "movies", ddl, insertSQL,
		func(stmt *sql.Stmt) error {
			for _, movie := range movies {
				_, err := stmt.ExecContext(ctx,
					movie.MovieID,
					movie.Title,
					nullableYear(movie.Year),
					nullableString(movie.IMDBID),
					nullableString(movie.Director),
					nullableString(movie.Plot),
					nullableString(movie.BoxOffice),
					nullableString(movie.PosterURL),
					nullableString(movie.Runtime),
					nullableInt(movie.Metascore),
					nullableFloat(movie.IMDBRating),
				)
				if err != nil {
					return err
				}
			}
			return nil
		})
}

func (s *Store) loadMovieGenres(ctx context.Context, memberships []taxonomy.Membership) error {
	ddl := `CREATE TABLE movie_genres_staging (
		movie_id INTEGER NOT NULL,
		genre_id INTEGER NOT NULL
	)`
	return s.replaceRelation(ctx, "movie_genres", ddl,
		"INSERT INTO movie_genres_staging (movie_id, genre_id) VALUES (?, ?)",
		func(stmt *sql.Stmt) error {
			for _, membership := range memberships {
				if _, err := stmt.ExecContext(ctx, membership.MovieID, membership.GenreID); err != nil {
					return err
				}
			}
			return nil
		})
}

func (s *Store) loadRatings(ctx context.Context, ratings []catalog.Rating) error {
	ddl := `CREATE TABLE ratings_staging (
		user_id INTEGER NOT NULL,
		movie_id INTEGER NOT NULL,
		rating REAL NOT NULL,
		timestamp INTEGER NOT NULL
	)`
	return s.replaceRelation(ctx, "ratings", ddl,
		"INSERT INTO ratings_staging (user_id, movie_id, rating, timestamp) VALUES (?, ?, ?, ?)",
		func(stmt *sql.Stmt) error {
			for _, rating := range ratings {
				if _, err := stmt.ExecContext(ctx, rating.UserID, rating.MovieID, rating.Value, rating.Timestamp); err != nil {
					return err
				}
			}
			return nil
		})
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}

func nullableYear(year int) any {
	if year == 0 {
		return nil
	}
	return year
}

func nullableInt(value *int) any {
	if value == nil {
		return nil
	}
	return *value
}

func nullableFloat(value *float64) any {
	if value == nil {
		return nil
	}
	return *value
}
