package catalog_test

import (
	"os"
	"path/filepath"
	"testing"

	"cineload/internal/catalog"
)

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestReadMovies(t *testing.T) {
	path := writeFixture(t, "movies.csv", `movieId,title,genres
1,Toy Story (1995),Adventure|Animation|Children|Comedy|Fantasy
2,Jumanji (1995),Adventure|Children|Fantasy
3,Documentary of Unknown Date,(no genres listed)
`)

	records, err := catalog.ReadMovies(path)
	if err != nil {
		t.Fatalf("ReadMovies returned error: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}

	first := records[0]
	if first.ID != 1 || first.CleanTitle != "Toy Story" || first.Year != 1995 {
		t.Fatalf("unexpected first record: %+v", first)
	}
	if !first.HasYear() {
		t.Fatal("expected year on first record")
	}

	third := records[2]
	if third.HasYear() {
		t.Fatalf("expected no year on %q", third.Title)
	}
	if third.CleanTitle != third.Title {
		t.Fatalf("title without year must pass through unchanged: %+v", third)
	}
}

func TestReadMoviesColumnOrderIndependent(t *testing.T) {
	path := writeFixture(t, "movies.csv", `genres,movieId,title
Comedy,7,Clerks (1994)
`)

	records, err := catalog.ReadMovies(path)
	if err != nil {
		t.Fatalf("ReadMovies returned error: %v", err)
	}
	if len(records) != 1 || records[0].ID != 7 || records[0].Genres != "Comedy" {
		t.Fatalf("unexpected records: %+v", records)
	}
}

func TestReadMoviesMissingColumn(t *testing.T) {
	path := writeFixture(t, "movies.csv", "movieId,title\n1,Foo (1990)\n")
	if _, err := catalog.ReadMovies(path); err == nil {
		t.Fatal("expected error for missing genres column")
	}
}

func TestReadRatings(t *testing.T) {
	path := writeFixture(t, "ratings.csv", `userId,movieId,rating,timestamp
1,1,4.0,964982703
1,3,0.5,964981247
`)

	ratings, err := catalog.ReadRatings(path)
	if err != nil {
		t.Fatalf("ReadRatings returned error: %v", err)
	}
	if len(ratings) != 2 {
		t.Fatalf("expected 2 ratings, got %d", len(ratings))
	}
	if ratings[1].UserID != 1 || ratings[1].MovieID != 3 || ratings[1].Value != 0.5 || ratings[1].Timestamp != 964981247 {
		t.Fatalf("unexpected rating: %+v", ratings[1])
	}
}

func TestReadRatingsBadValue(t *testing.T) {
	path := writeFixture(t, "ratings.csv", "userId,movieId,rating,timestamp\n1,1,notanumber,5\n")
	if _, err := catalog.ReadRatings(path); err == nil {
		t.Fatal("expected error for malformed rating value")
	}
}
