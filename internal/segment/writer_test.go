package segment

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/kailas-cloud/harvest/internal/catalog"
)

func testRecord(id string) *catalog.Record {
	return &catalog.Record{
		ID:       id,
		Title:    "Product " + id,
		Price:    9.99,
		Currency: "EUR",
	}
}

func TestWriter_RollsOverAtCap(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "Laptops")
	w := NewWriter(dir, 3)

	for i := 1; i <= 7; i++ {
		if err := w.Write(testRecord(strconv.Itoa(i))); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	if got := w.Written(); got != 7 {
		t.Errorf("written: got %d, want 7", got)
	}

	paths, err := ListSegments(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 3 {
		t.Fatalf("got %d segments, want 3: %v", len(paths), paths)
	}

	// 3 + 3 + 1 records across the segments.
	wantCounts := []int{3, 3, 1}
	for i, path := range paths {
		n := 0
		if _, err := ReadFile(path, func(catalog.Record) { n++ }); err != nil {
			t.Fatal(err)
		}
		if n != wantCounts[i] {
			t.Errorf("%s: got %d records, want %d", filepath.Base(path), n, wantCounts[i])
		}
	}
}

func TestWriter_NoFileUntilFirstWrite(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "Empty")
	w := NewWriter(dir, 10)
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	if w.Written() != 0 {
		t.Errorf("written: got %d, want 0", w.Written())
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Error("directory should not be created for an empty writer")
	}
}

func TestSegmentName(t *testing.T) {
	if got := SegmentName(7); got != "batch_007.ndjson" {
		t.Errorf("got %q", got)
	}
}
