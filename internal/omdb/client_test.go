package omdb_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cineload/internal/omdb"
)

func newTestClient(t *testing.T, url string) *omdb.Client {
	t.Helper()
	client, err := omdb.New("key", url, time.Second)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return client
}

func TestNewRequiresAPIKey(t *testing.T) {
	if _, err := omdb.New("", "http://example.com", time.Second); err == nil {
		t.Fatal("expected error when api key missing")
	}
}

func TestFindSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("apikey") != "key" || q.Get("t") != "Toy Story" || q.Get("y") != "1995" {
			t.Fatalf("unexpected query: %q", r.URL.RawQuery)
		}
		if q.Get("plot") != "short" || q.Get("r") != "json" {
			t.Fatalf("missing fixed parameters: %q", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"Response": "True",
			"imdbID": "tt0114709",
			"Director": "John Lasseter",
			"Plot": "Toys come to life.",
			"BoxOffice": "$223,225,679",
			"Poster": "http://img.example/poster.jpg",
			"Runtime": "81 min",
			"Metascore": "96",
			"imdbRating": "8.3"
		}`))
	}))
	t.Cleanup(server.Close)

	client := newTestClient(t, server.URL)
	result, err := client.Find(context.Background(), "Toy Story", 1995)
	if err != nil {
		t.Fatalf("Find returned error: %v", err)
	}
	if result.IMDBID != "tt0114709" || result.Director != "John Lasseter" {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.Metascore == nil || *result.Metascore != 96 {
		t.Fatalf("unexpected metascore: %v", result.Metascore)
	}
	if result.IMDBRating == nil || *result.IMDBRating != 8.3 {
		t.Fatalf("unexpected imdb rating: %v", result.IMDBRating)
	}
}

func TestFindCoercesSentinelsToNil(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"Response": "True",
			"imdbID": "tt0000001",
			"Director": "N/A",
			"Metascore": "N/A",
			"imdbRating": "not-a-number"
		}`))
	}))
	t.Cleanup(server.Close)

	client := newTestClient(t, server.URL)
	result, err := client.Find(context.Background(), "Obscure", 1931)
	if err != nil {
		t.Fatalf("Find returned error: %v", err)
	}
	if result.Director != "" {
		t.Fatalf("expected N/A director to clear, got %q", result.Director)
	}
	if result.Metascore != nil {
		t.Fatalf("expected nil metascore, got %v", *result.Metascore)
	}
	if result.IMDBRating != nil {
		t.Fatalf("malformed rating must coerce to nil, got %v", *result.IMDBRating)
	}
}

func TestFindNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"Response":"False","Error":"Movie not found!"}`))
	}))
	t.Cleanup(server.Close)

	client := newTestClient(t, server.URL)
	_, err := client.Find(context.Background(), "Nonexistent", 2001)
	if !errors.Is(err, omdb.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFindHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	client := newTestClient(t, server.URL)
	_, err := client.Find(context.Background(), "Broken", 1999)
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
	if errors.Is(err, omdb.ErrNotFound) {
		t.Fatal("transport failure must not masquerade as not-found")
	}
}

func TestFindValidatesInput(t *testing.T) {
	client := newTestClient(t, "http://example.com")
	if _, err := client.Find(context.Background(), "  ", 1999); err == nil {
		t.Fatal("expected error for empty title")
	}
	if _, err := client.Find(context.Background(), "Title", 0); err == nil {
		t.Fatal("expected error for missing year")
	}
}
