package ledger_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cineload/internal/ledger"
	"cineload/internal/logging"
)

func openLedger(t *testing.T, path string) *ledger.Ledger {
	t.Helper()
	l, err := ledger.Open(path, logging.NewNop())
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	return l
}

func TestColdStartWritesSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.csv")
	l := openLedger(t, path)

	if l.Len() != 0 {
		t.Fatalf("expected empty ledger, got %d entries", l.Len())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ledger file should exist after cold start: %v", err)
	}
	first := strings.SplitN(strings.TrimSpace(string(data)), "\n", 2)[0]
	if !strings.HasPrefix(first, "movieId,title,release_year,status") {
		t.Fatalf("unexpected header: %q", first)
	}
}

func TestAppendBatchPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.csv")
	l := openLedger(t, path)

	score := 96
	rating := 8.3
	entries := []ledger.Entry{
		{
			MovieID: 1, Title: "Toy Story", Year: 1995, Status: ledger.StatusSuccess,
			IMDBID: "tt0114709", Director: "John Lasseter", Plot: "Toys come to life.",
			BoxOffice: "$223,225,679", PosterURL: "http://img/p.jpg", Runtime: "81 min",
			Metascore: &score, IMDBRating: &rating,
		},
		{MovieID: 2, Title: "Lost Film", Year: 1921, Status: ledger.StatusFailed},
	}
	if err := l.AppendBatch(entries); err != nil {
		t.Fatalf("AppendBatch returned error: %v", err)
	}

	reopened := openLedger(t, path)
	if reopened.Len() != 2 {
		t.Fatalf("expected 2 entries after reopen, got %d", reopened.Len())
	}

	success, ok := reopened.Lookup(1)
	if !ok || success.Status != ledger.StatusSuccess {
		t.Fatalf("unexpected entry for id 1: %+v", success)
	}
	if success.Metascore == nil || *success.Metascore != 96 {
		t.Fatalf("metascore did not survive the round trip: %v", success.Metascore)
	}
	if success.IMDBRating == nil || *success.IMDBRating != 8.3 {
		t.Fatalf("imdb rating did not survive the round trip: %v", success.IMDBRating)
	}

	failed, ok := reopened.Lookup(2)
	if !ok || failed.Status != ledger.StatusFailed {
		t.Fatalf("unexpected entry for id 2: %+v", failed)
	}
	if failed.Metascore != nil || failed.IMDBID != "" {
		t.Fatalf("failed entry must carry no enrichment data: %+v", failed)
	}
}

func TestAppendBatchRejectsRecordedID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.csv")
	l := openLedger(t, path)

	if err := l.AppendBatch([]ledger.Entry{{MovieID: 5, Status: ledger.StatusFailed}}); err != nil {
		t.Fatalf("AppendBatch returned error: %v", err)
	}
	err := l.AppendBatch([]ledger.Entry{{MovieID: 5, Status: ledger.StatusSuccess}})
	if err == nil {
		t.Fatal("expected error for already-recorded movie id")
	}
	if l.Len() != 1 {
		t.Fatalf("rejected batch must not change the ledger, got %d entries", l.Len())
	}
}

func TestAppendBatchRejectsDuplicateWithinBatch(t *testing.T) {
	l := openLedger(t, filepath.Join(t.TempDir(), "cache.csv"))
	err := l.AppendBatch([]ledger.Entry{
		{MovieID: 9, Status: ledger.StatusFailed},
		{MovieID: 9, Status: ledger.StatusFailed},
	})
	if err == nil {
		t.Fatal("expected error for duplicate id within batch")
	}
	if l.Len() != 0 {
		t.Fatal("rejected batch must leave ledger empty")
	}
}

func TestEmptyBatchDoesNotTouchFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.csv")
	l := openLedger(t, path)

	before, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat ledger: %v", err)
	}
	if err := l.AppendBatch(nil); err != nil {
		t.Fatalf("AppendBatch returned error: %v", err)
	}
	after, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat ledger: %v", err)
	}
	if !after.ModTime().Equal(before.ModTime()) || after.Size() != before.Size() {
		t.Fatal("empty batch must not rewrite the ledger")
	}
}

func TestDedupeOnReadFirstOccurrenceWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.csv")
	content := "movieId,title,release_year,status,imdb_id,director,plot,box_office,poster_url,runtime_minutes,metascore,imdb_rating\n" +
		"3,First,1990,success,tt1,,,,,,,\n" +
		"3,Second,1991,failed,,,,,,,,\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write ledger: %v", err)
	}

	l := openLedger(t, path)
	if l.Len() != 1 {
		t.Fatalf("expected duplicate collapse to 1 entry, got %d", l.Len())
	}
	entry, _ := l.Lookup(3)
	if entry.Title != "First" || entry.Status != ledger.StatusSuccess {
		t.Fatalf("first occurrence must win, got %+v", entry)
	}
}

func TestTolerantOfFloatFormattedNumbers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.csv")
	content := "movieId,title,release_year,status,imdb_id,director,plot,box_office,poster_url,runtime_minutes,metascore,imdb_rating\n" +
		"4,Old Row,1995.0,success,tt4,,,,,,96.0,8.3\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write ledger: %v", err)
	}

	l := openLedger(t, path)
	entry, ok := l.Lookup(4)
	if !ok || entry.Year != 1995 {
		t.Fatalf("expected float year to parse, got %+v", entry)
	}
	if entry.Metascore == nil || *entry.Metascore != 96 {
		t.Fatalf("expected float metascore to parse, got %v", entry.Metascore)
	}
}

func TestSuccessesFiltersFailed(t *testing.T) {
	l := openLedger(t, filepath.Join(t.TempDir(), "cache.csv"))
	err := l.AppendBatch([]ledger.Entry{
		{MovieID: 1, Status: ledger.StatusSuccess},
		{MovieID: 2, Status: ledger.StatusFailed},
		{MovieID: 3, Status: ledger.StatusSuccess},
	})
	if err != nil {
		t.Fatalf("AppendBatch returned error: %v", err)
	}

	successes := l.Successes()
	if len(successes) != 2 || successes[0].MovieID != 1 || successes[1].MovieID != 3 {
		t.Fatalf("unexpected successes: %+v", successes)
	}
}

func TestRemoveFailed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.csv")
	l := openLedger(t, path)
	err := l.AppendBatch([]ledger.Entry{
		{MovieID: 1, Status: ledger.StatusSuccess},
		{MovieID: 2, Status: ledger.StatusFailed},
		{MovieID: 3, Status: ledger.StatusFailed},
	})
	if err != nil {
		t.Fatalf("AppendBatch returned error: %v", err)
	}

	removed, err := l.RemoveFailed()
	if err != nil {
		t.Fatalf("RemoveFailed returned error: %v", err)
	}
	if removed != 2 || l.Len() != 1 {
		t.Fatalf("expected 2 removed and 1 kept, got removed=%d len=%d", removed, l.Len())
	}

	reopened := openLedger(t, path)
	if reopened.Len() != 1 || !reopened.Has(1) {
		t.Fatalf("purge must persist, got %d entries", reopened.Len())
	}
}

func TestRemoveUnknownID(t *testing.T) {
	l := openLedger(t, filepath.Join(t.TempDir(), "cache.csv"))
	if err := l.Remove(42); err == nil {
		t.Fatal("expected error removing unknown id")
	}
}
