package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"cineload/internal/catalog"
	"cineload/internal/config"
	"cineload/internal/enrich"
	"cineload/internal/ledger"
	"cineload/internal/logging"
	"cineload/internal/omdb"
	"cineload/internal/sink"
	"cineload/internal/taxonomy"
)

// ErrLocked reports that another run holds the pipeline lock.
var ErrLocked = errors.New("another cineload run is already in progress")

// Result summarizes one completed run.
type Result struct {
	RunID      string
	Movies     int
	Ratings    int
	Enrichment enrich.Summary
	Loaded     sink.RelationCounts
	Elapsed    time.Duration
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithFinder overrides the lookup client, mainly for tests.
func WithFinder(finder omdb.Finder) Option {
	return func(p *Pipeline) {
		if finder != nil {
			p.finder = finder
		}
	}
}

// Pipeline executes the batch enrichment-and-load job.
type Pipeline struct {
	cfg    *config.Config
	logger *slog.Logger
	finder omdb.Finder
}

// New constructs a pipeline from validated configuration.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) (*Pipeline, error) {
	if cfg == nil {
		return nil, errors.New("pipeline requires configuration")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	p := &Pipeline{cfg: cfg, logger: logger}
	for _, opt := range opts {
		opt(p)
	}

	if p.finder == nil {
		client, err := omdb.New(
			cfg.OMDB.APIKey,
			cfg.OMDB.BaseURL,
			time.Duration(cfg.OMDB.TimeoutSeconds)*time.Second,
		)
		if err != nil {
			return nil, fmt.Errorf("build omdb client: %w", err)
		}
		p.finder = client
	}
	return p, nil
}

// Run executes one full pipeline pass. The run lock is held for the whole
// duration; partial enrichment results are committed to the ledger even when
// the quota truncates the work set, and the final load fully replaces the
// sink's contents.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	if err := p.cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	lock := flock.New(p.cfg.Paths.LockFile)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire run lock: %w", err)
	}
	if !ok {
		return nil, ErrLocked
	}
	defer func() {
		if unlockErr := lock.Unlock(); unlockErr != nil {
			p.logger.Warn("failed to release run lock", logging.Error(unlockErr))
		}
	}()

	runID := uuid.NewString()
	logger := p.logger.With(logging.String("run_id", runID))
	started := time.Now()
	logger.Info("pipeline started",
		logging.String("movies_csv", p.cfg.Paths.MoviesCSV),
		logging.String("ratings_csv", p.cfg.Paths.RatingsCSV))

	records, err := catalog.ReadMovies(p.cfg.Paths.MoviesCSV)
	if err != nil {
		return nil, fmt.Errorf("extract movies: %w", err)
	}
	ratings, err := catalog.ReadRatings(p.cfg.Paths.RatingsCSV)
	if err != nil {
		return nil, fmt.Errorf("extract ratings: %w", err)
	}
	logger.Info("extraction complete",
		logging.Int("movies", len(records)),
		logging.Int("ratings", len(ratings)))

	cache, err := ledger.Open(p.cfg.Paths.CacheFile, logger)
	if err != nil {
		return nil, fmt.Errorf("open cache ledger: %w", err)
	}

	scheduler := enrich.NewScheduler(
		p.finder,
		cache,
		p.cfg.Enrichment.APILimit,
		p.cfg.Enrichment.LookupConcurrency,
		logger,
	)
	summary, err := scheduler.Run(ctx, records)
	if err != nil {
		return nil, fmt.Errorf("enrich catalog: %w", err)
	}

	tax := taxonomy.Build(records)
	movies := Reconcile(records, cache.Successes())
	logger.Info("reconciliation complete",
		logging.Int("enriched_movies", len(movies)),
		logging.Int("genres", len(tax.Genres)))

	store, err := sink.Open(p.cfg.Paths.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("open analytics database: %w", err)
	}
	defer store.Close()

	snapshot := sink.Snapshot{
		Genres:      tax.Genres,
		Movies:      movies,
		MovieGenres: tax.Memberships,
		Ratings:     ratings,
	}
	if err := store.Load(ctx, snapshot); err != nil {
		return nil, fmt.Errorf("load analytics database: %w", err)
	}

	counts, err := store.Counts(ctx)
	if err != nil {
		return nil, fmt.Errorf("count loaded rows: %w", err)
	}

	elapsed := time.Since(started)
	logger.Info("pipeline finished", logging.Duration("elapsed", elapsed))

	return &Result{
		RunID:      runID,
		Movies:     len(records),
		Ratings:    len(ratings),
		Enrichment: summary,
		Loaded:     counts,
		Elapsed:    elapsed,
	}, nil
}
