package catalog

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeCatalog(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.csv")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("failed to write catalog file: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeCatalog(t, `id,title,runtime,imdb_score
m1,First,90,8.0
m2,Second,120,4.0
m3,,100,5.0
m4,Fourth,,6.0
m5,Fifth,abc,6.0
m6,Sixth,45,2.0
`)

	c := Load(path, testLogger())

	if c.Len() != 3 {
		t.Fatalf("expected 3 valid items, got %d", c.Len())
	}

	items := map[string]struct {
		duration int
		weight   float64
	}{}
	var maxWeight float64
	for _, it := range c.Items() {
		items[it.ID] = struct {
			duration int
			weight   float64
		}{it.DurationSeconds, it.Weight}

		if it.Weight <= 0 || it.Weight > 1 {
			t.Errorf("item %s weight %f outside (0, 1]", it.ID, it.Weight)
		}
		if it.Weight > maxWeight {
			maxWeight = it.Weight
		}
	}

	if maxWeight != 1.0 {
		t.Errorf("top-scored item should have weight exactly 1.0, got %f", maxWeight)
	}
	if got := items["m1"].duration; got != 90*60 {
		t.Errorf("runtime not converted to seconds: got %d", got)
	}
	if got := items["m2"].weight; got != 0.5 {
		t.Errorf("expected m2 weight 0.5, got %f", got)
	}
	if got := items["m6"].weight; got != 0.25 {
		t.Errorf("expected m6 weight 0.25, got %f", got)
	}
}

func TestLoad_FallbackOnMissingFile(t *testing.T) {
	c := Load(filepath.Join(t.TempDir(), "nope.csv"), testLogger())

	if c.Len() != 1 {
		t.Fatalf("expected single fallback item, got %d", c.Len())
	}
	item := c.Items()[0]
	if item.Title != "Unknown" || item.DurationSeconds != 300 || item.Weight != 1.0 {
		t.Errorf("unexpected fallback item: %+v", item)
	}
}

func TestLoad_FallbackOnAllRowsInvalid(t *testing.T) {
	path := writeCatalog(t, `id,title,runtime,imdb_score
m1,,90,8.0
,Second,120,4.0
`)

	c := Load(path, testLogger())
	if c.Len() != 1 || c.Items()[0].ID != "unknown" {
		t.Errorf("expected fallback catalog, got %+v", c.Items())
	}
}

func TestLoad_FallbackOnMissingColumns(t *testing.T) {
	path := writeCatalog(t, `id,name
m1,First
`)

	c := Load(path, testLogger())
	if c.Len() != 1 || c.Items()[0].ID != "unknown" {
		t.Errorf("expected fallback catalog, got %+v", c.Items())
	}
}
