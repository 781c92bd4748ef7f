package enrich

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"cineload/internal/catalog"
	"cineload/internal/ledger"
	"cineload/internal/logging"
	"cineload/internal/omdb"
)

// progressInterval controls how often the lookup loop reports progress.
const progressInterval = 100

// Scheduler owns one run's enrichment work.
type Scheduler struct {
	finder      omdb.Finder
	ledger      *ledger.Ledger
	limit       int
	concurrency int
	logger      *slog.Logger
}

// Summary reports what a run accomplished.
type Summary struct {
	Eligible  int // records needing a lookup before the limit applied
	Attempted int
	Succeeded int
	Failed    int
	Deferred  int // eligible records pushed to a future run by the limit
}

// NewScheduler constructs a scheduler. Limit caps lookups per run;
// concurrency bounds parallel in-flight lookups (1 = sequential).
func NewScheduler(finder omdb.Finder, l *ledger.Ledger, limit, concurrency int, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = logging.NewNop()
	}
	if limit <= 0 {
		limit = 1
	}
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Scheduler{
		finder:      finder,
		ledger:      l,
		limit:       limit,
		concurrency: concurrency,
		logger:      logging.NewComponentLogger(logger, "enrich"),
	}
}

// Run performs the lookups for this run and commits the outcomes in one
// ledger append. Per-record failures become failed outcomes, never errors;
// Run only returns an error for context cancellation or a ledger write
// failure. Outcomes from completed attempts are committed even when the
// context is canceled partway through.
func (s *Scheduler) Run(ctx context.Context, records []catalog.Record) (Summary, error) {
	workset := s.workSet(records)
	summary := Summary{Eligible: len(workset)}

	if len(workset) > s.limit {
		summary.Deferred = len(workset) - s.limit
		workset = workset[:s.limit]
		s.logger.Info("api limit reached, deferring remaining lookups",
			logging.Int("limit", s.limit),
			logging.Int("deferred", summary.Deferred))
	}

	if len(workset) == 0 {
		s.logger.Info("no records need enrichment")
		return summary, nil
	}

	s.logger.Info("starting lookups",
		logging.Int("count", len(workset)),
		logging.Int("concurrency", s.concurrency))

	// Indexed by work-set position so the batch lands in catalog order no
	// matter what order lookups complete in.
	outcomes := make([]*ledger.Entry, len(workset))
	var processed atomic.Int64

	group := new(errgroup.Group)
	group.SetLimit(s.concurrency)
	for i, record := range workset {
		if ctx.Err() != nil {
			break
		}
		group.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			entry := s.lookup(ctx, record)
			outcomes[i] = &entry

			count := processed.Add(1)
			if count%progressInterval == 0 {
				s.logger.Info("lookup progress",
					logging.Int64("processed", count),
					logging.Int("total", len(workset)))
			}
			return nil
		})
	}
	_ = group.Wait()

	batch := make([]ledger.Entry, 0, len(workset))
	for _, entry := range outcomes {
		if entry == nil {
			continue // never attempted (canceled before dispatch)
		}
		batch = append(batch, *entry)
		switch entry.Status {
		case ledger.StatusSuccess:
			summary.Succeeded++
		case ledger.StatusFailed:
			summary.Failed++
		}
	}
	summary.Attempted = len(batch)

	if err := s.ledger.AppendBatch(batch); err != nil {
		return summary, err
	}
	if err := ctx.Err(); err != nil {
		return summary, err
	}

	s.logger.Info("enrichment finished",
		logging.Int("attempted", summary.Attempted),
		logging.Int("succeeded", summary.Succeeded),
		logging.Int("failed", summary.Failed),
		logging.Int("deferred", summary.Deferred))
	return summary, nil
}

// workSet selects records eligible for lookup, preserving catalog order.
// A record without a release year can never be queried; a record already in
// the ledger was attempted on a previous run, whatever the outcome.
func (s *Scheduler) workSet(records []catalog.Record) []catalog.Record {
	var out []catalog.Record
	for _, record := range records {
		if !record.HasYear() {
			continue
		}
		if s.ledger.Has(record.ID) {
			continue
		}
		out = append(out, record)
	}
	return out
}

// lookup performs one enrichment attempt and classifies the result. Misses
// and transport failures both become failed outcomes; the distinction only
// matters for logging.
func (s *Scheduler) lookup(ctx context.Context, record catalog.Record) ledger.Entry {
	result, err := s.finder.Find(ctx, record.CleanTitle, record.Year)
	if err != nil {
		if errors.Is(err, omdb.ErrNotFound) {
			s.logger.Debug("no match for record",
				logging.Int64("movie_id", record.ID),
				logging.String("title", record.CleanTitle),
				logging.Int("year", record.Year))
		} else {
			s.logger.Warn("lookup failed",
				logging.Int64("movie_id", record.ID),
				logging.String("title", record.CleanTitle),
				logging.Error(err))
		}
		return ledger.Entry{
			MovieID: record.ID,
			Title:   record.CleanTitle,
			Year:    record.Year,
			Status:  ledger.StatusFailed,
		}
	}

	return ledger.Entry{
		MovieID:    record.ID,
		Title:      record.CleanTitle,
		Year:       record.Year,
		Status:     ledger.StatusSuccess,
		IMDBID:     result.IMDBID,
		Director:   result.Director,
		Plot:       result.Plot,
		BoxOffice:  result.BoxOffice,
		PosterURL:  result.PosterURL,
		Runtime:    result.Runtime,
		Metascore:  result.Metascore,
		IMDBRating: result.IMDBRating,
	}
}
