package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/user/stream-harness/internal/domain"
)

// The catalog source stores runtimes in minutes; sessions track seconds.
const minutesToSeconds = 60

// Fallback item used when the catalog is empty or fails to load, so callers
// never observe an empty catalog.
var fallbackItem = domain.CatalogItem{
	ID:              "unknown",
	Title:           "Unknown",
	DurationSeconds: 300,
	Weight:          1.0,
}

// Load reads a catalog from a CSV file with the columns id, title, runtime
// (minutes) and score. Rows with missing or unparsable fields are dropped.
// Weights are the row score normalized by the maximum score, so the
// top-scored item has weight exactly 1.0. Any load failure falls back to a
// single synthetic item rather than returning an error.
func Load(path string, logger *slog.Logger) *domain.Catalog {
	f, err := os.Open(path)
	if err != nil {
		logger.Warn("failed to open catalog, using fallback item", "path", path, "error", err)
		return fallbackCatalog()
	}
	defer f.Close()

	items, err := parse(f, logger)
	if err != nil || len(items) == 0 {
		logger.Warn("catalog unusable, using fallback item", "path", path, "error", err)
		return fallbackCatalog()
	}

	c, err := domain.NewCatalog(items)
	if err != nil {
		return fallbackCatalog()
	}
	logger.Info("catalog loaded", "path", path, "items", c.Len())
	return c
}

func fallbackCatalog() *domain.Catalog {
	c, _ := domain.NewCatalog([]domain.CatalogItem{fallbackItem})
	return c
}

type rawRow struct {
	id      string
	title   string
	minutes float64
	score   float64
}

func parse(r io.Reader, logger *slog.Logger) ([]domain.CatalogItem, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := map[string]int{}
	for i, name := range header {
		cols[name] = i
	}
	for _, required := range []string{"id", "title", "runtime", "imdb_score"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("catalog missing column %q", required)
		}
	}

	var rows []rawRow
	var dropped int
	var maxScore float64
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			dropped++
			continue
		}
		row, ok := parseRow(record, cols)
		if !ok {
			dropped++
			continue
		}
		rows = append(rows, row)
		if row.score > maxScore {
			maxScore = row.score
		}
	}
	if dropped > 0 {
		logger.Warn("dropped malformed catalog rows", "count", dropped)
	}
	if maxScore <= 0 {
		return nil, fmt.Errorf("no catalog row has a positive score")
	}

	items := make([]domain.CatalogItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, domain.CatalogItem{
			ID:              row.id,
			Title:           row.title,
			DurationSeconds: int(row.minutes * minutesToSeconds),
			Weight:          row.score / maxScore,
		})
	}
	return items, nil
}

func parseRow(record []string, cols map[string]int) (rawRow, bool) {
	field := func(name string) (string, bool) {
		i := cols[name]
		if i >= len(record) || record[i] == "" {
			return "", false
		}
		return record[i], true
	}

	id, ok := field("id")
	if !ok {
		return rawRow{}, false
	}
	title, ok := field("title")
	if !ok {
		return rawRow{}, false
	}
	runtimeStr, ok := field("runtime")
	if !ok {
		return rawRow{}, false
	}
	scoreStr, ok := field("imdb_score")
	if !ok {
		return rawRow{}, false
	}

	minutes, err := strconv.ParseFloat(runtimeStr, 64)
	if err != nil || minutes <= 0 {
		return rawRow{}, false
	}
	score, err := strconv.ParseFloat(scoreStr, 64)
	if err != nil || score <= 0 {
		return rawRow{}, false
	}

	return rawRow{id: id, title: title, minutes: minutes, score: score}, true
}
