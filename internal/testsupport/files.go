package testsupport

import (
	"os"
	"testing"
)

// WriteFile writes content to path, failing the test on error.
func WriteFile(t testing.TB, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteMoviesCSV writes a movies fixture with the standard header.
func WriteMoviesCSV(t testing.TB, path string, rows ...string) {
	t.Helper()
	content := "movieId,title,genres\n"
	for _, row := range rows {
		content += row + "\n"
	}
	WriteFile(t, path, content)
}

// WriteRatingsCSV writes a ratings fixture with the standard header.
func WriteRatingsCSV(t testing.TB, path string, rows ...string) {
	t.Helper()
	content := "userId,movieId,rating,timestamp\n"
	for _, row := range rows {
		content += row + "\n"
	}
	WriteFile(t, path, content)
}
