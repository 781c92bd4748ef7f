package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

// ReadMovies parses the movie catalog CSV. Columns are resolved by header
// name (movieId, title, genres) so column order does not matter. The lookup
// identity is derived for every record as it is read.
func ReadMovies(path string) ([]Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open movies csv: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read movies header: %w", err)
	}
	cols, err := requireColumns(header, "movieId", "title", "genres")
	if err != nil {
		return nil, fmt.Errorf("movies csv: %w", err)
	}

	var records []Record
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read movies row: %w", err)
		}
		line++

		id, err := strconv.ParseInt(field(row, cols["movieId"]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("movies csv line %d: bad movieId: %w", line, err)
		}
		title := field(row, cols["title"])
		clean, year, _ := SplitTitleYear(title)
		records = append(records, Record{
			ID:         id,
			Title:      title,
			Genres:     field(row, cols["genres"]),
			CleanTitle: clean,
			Year:       year,
		})
	}
	return records, nil
}

// ReadRatings parses the ratings CSV (userId, movieId, rating, timestamp).
func ReadRatings(path string) ([]Rating, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open ratings csv: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read ratings header: %w", err)
	}
	cols, err := requireColumns(header, "userId", "movieId", "rating", "timestamp")
	if err != nil {
		return nil, fmt.Errorf("ratings csv: %w", err)
	}

	var ratings []Rating
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read ratings row: %w", err)
		}
		line++

		userID, err := strconv.ParseInt(field(row, cols["userId"]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("ratings csv line %d: bad userId: %w", line, err)
		}
		movieID, err := strconv.ParseInt(field(row, cols["movieId"]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("ratings csv line %d: bad movieId: %w", line, err)
		}
		value, err := strconv.ParseFloat(field(row, cols["rating"]), 64)
		if err != nil {
			return nil, fmt.Errorf("ratings csv line %d: bad rating: %w", line, err)
		}
		timestamp, err := strconv.ParseInt(field(row, cols["timestamp"]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("ratings csv line %d: bad timestamp: %w", line, err)
		}
		ratings = append(ratings, Rating{
			UserID:    userID,
			MovieID:   movieID,
			Value:     value,
			Timestamp: timestamp,
		})
	}
	return ratings, nil
}

func requireColumns(header []string, names ...string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}
	for _, name := range names {
		if _, ok := index[name]; !ok {
			return nil, fmt.Errorf("missing required column %q", name)
		}
	}
	return index, nil
}

func field(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
