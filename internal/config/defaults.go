package config

const (
	defaultMoviesCSV      = "~/.local/share/cineload/data/movies.csv"
	defaultRatingsCSV     = "~/.local/share/cineload/data/ratings.csv"
	defaultDatabase       = "~/.local/share/cineload/movie_analytics.db"
	defaultCacheFile      = "~/.local/share/cineload/omdb_cache.csv"
	defaultLogDir         = "~/.local/share/cineload/logs"
	defaultLockFile       = "~/.local/share/cineload/cineload.lock"
	defaultOMDBBaseURL    = "http://www.omdbapi.com/"
	defaultOMDBTimeout    = 5
	defaultAPILimit       = 1000
	defaultLookupParallel = 1
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			MoviesCSV:  defaultMoviesCSV,
			RatingsCSV: defaultRatingsCSV,
			Database:   defaultDatabase,
			CacheFile:  defaultCacheFile,
			LogDir:     defaultLogDir,
			LockFile:   defaultLockFile,
		},
		OMDB: OMDB{
			BaseURL:        defaultOMDBBaseURL,
			TimeoutSeconds: defaultOMDBTimeout,
		},
		Enrichment: Enrichment{
			APILimit:          defaultAPILimit,
			LookupConcurrency: defaultLookupParallel,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
