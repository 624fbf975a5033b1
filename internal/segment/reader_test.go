package segment

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/kailas-cloud/harvest/internal/catalog"
)

func TestReadFile_SkipsTornLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batch_001.ndjson")
	content := `{"id":"1","title":"A"}
{"id":"2","tit
{"id":"3","title":"C"}
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	var ids []string
	badLines, err := ReadFile(path, func(rec catalog.Record) {
		ids = append(ids, rec.ID)
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if badLines != 1 {
		t.Errorf("badLines: got %d, want 1", badLines)
	}
	if len(ids) != 2 || ids[0] != "1" || ids[1] != "3" {
		t.Errorf("ids: got %v", ids)
	}
}

func TestCombine_DeduplicatesAcrossSegments(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "Laptops")
	w := NewWriter(dir, 2)
	for _, id := range []string{"1", "2", "3"} {
		if err := w.Write(testRecord(id)); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	// A resumed run re-emitted record 3 into a later segment.
	w2 := NewWriter(dir, 2)
	w2.seq = 5
	for _, id := range []string{"3", "4"} {
		if err := w2.Write(testRecord(id)); err != nil {
			t.Fatal(err)
		}
	}
	if err := w2.Close(); err != nil {
		t.Fatal(err)
	}

	outPath := filepath.Join(t.TempDir(), "Laptops.ndjson")
	written, dupes, err := Combine(dir, outPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if written != 4 {
		t.Errorf("written: got %d, want 4", written)
	}
	if dupes != 1 {
		t.Errorf("dupes: got %d, want 1", dupes)
	}

	var ids []string
	if _, err := ReadFile(outPath, func(rec catalog.Record) {
		ids = append(ids, rec.ID)
	}); err != nil {
		t.Fatal(err)
	}
	want := []string{"1", "2", "3", "4"}
	if len(ids) != len(want) {
		t.Fatalf("ids: got %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("ids[%d]: got %q, want %q", i, ids[i], want[i])
		}
	}
}

func TestCombine_RoundTripPreservesRecords(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "Tablets")
	w := NewWriter(dir, 10)
	rec := testRecord("42")
	rec.Attrs = map[string]string{"Display diagonal": "10.9\""}
	rec.Categories = []string{"Tablets"}
	if err := w.Write(rec); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	outPath := filepath.Join(t.TempDir(), "Tablets.ndjson")
	if _, _, err := Combine(dir, outPath); err != nil {
		t.Fatal(err)
	}

	var got catalog.Record
	if _, err := ReadFile(outPath, func(r catalog.Record) { got = r }); err != nil {
		t.Fatal(err)
	}
	if got.ID != "42" || got.Title != "Product 42" || got.Price != 9.99 {
		t.Errorf("record mangled: %+v", got)
	}
	if got.Attrs["Display diagonal"] != "10.9\"" {
		t.Errorf("attrs mangled: %v", got.Attrs)
	}
}

func TestListSegments_SequenceOrder(t *testing.T) {
	dir := t.TempDir()
	for _, seq := range []int{3, 1, 2} {
		path := filepath.Join(dir, SegmentName(seq))
		if err := os.WriteFile(path, []byte(`{"id":"`+strconv.Itoa(seq)+`"}`+"\n"), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	paths, err := ListSegments(dir)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"batch_001.ndjson", "batch_002.ndjson", "batch_003.ndjson"}
	for i, p := range paths {
		if filepath.Base(p) != want[i] {
			t.Errorf("paths[%d]: got %s, want %s", i, filepath.Base(p), want[i])
		}
	}
}
