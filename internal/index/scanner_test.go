package index

import (
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/harvest/internal/catalog"
)

const indexDoc = `<?xml version="1.0"?>
<ICECAT-interface>
  <files.index Generated="20240101000000">
    <file path="export/freexml/EN/1001.xml" Product_ID="1001" Updated="20240101" Catid="151" On_Market="1"/>
    <file path="export/freexml/EN/1002.xml" Product_ID="1002" Catid="151"/>
    <file path="export/freexml/EN/2001.xml" Product_ID="2001" Catid="195"/>
    <file path="export/freexml/EN/3001.xml" Catid="942"/>
    <file path="" Product_ID="9999" Catid="151"/>
  </files.index>
</ICECAT-interface>`

func writeGzipIndex(t *testing.T, doc string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "files.index.xml.gz")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	gz := gzip.NewWriter(f)
	if _, err := gz.Write([]byte(doc)); err != nil {
		t.Fatal(err)
	}
	if err := gz.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestScan_FiltersByTarget(t *testing.T) {
	path := writeGzipIndex(t, indexDoc)

	var entries []catalog.IndexEntry
	err := NewScanner(path, zap.NewNop()).Scan(map[string]bool{"151": true}, func(e catalog.IndexEntry) error {
		entries = append(entries, e)
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2: %v", len(entries), entries)
	}
	if entries[0].ProductID != "1001" || entries[1].ProductID != "1002" {
		t.Errorf("unexpected product ids: %v", entries)
	}
}

func TestScan_ProductIDFallsBackToPath(t *testing.T) {
	path := writeGzipIndex(t, indexDoc)

	var got catalog.IndexEntry
	err := NewScanner(path, zap.NewNop()).Scan(map[string]bool{"942": true}, func(e catalog.IndexEntry) error {
		got = e
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ProductID != "3001" {
		t.Errorf("product id: got %q, want %q", got.ProductID, "3001")
	}
}

func TestCounts(t *testing.T) {
	path := writeGzipIndex(t, indexDoc)

	counts, err := NewScanner(path, zap.NewNop()).Counts()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := map[string]int{"151": 2, "195": 1, "942": 1}
	for id, n := range want {
		if counts[id] != n {
			t.Errorf("category %s: got %d, want %d", id, counts[id], n)
		}
	}
	// The entry with an empty path never reaches the callback.
	if len(counts) != len(want) {
		t.Errorf("got %d categories, want %d: %v", len(counts), len(want), counts)
	}
}

func TestScan_PlainXMLWithoutGzipSuffix(t *testing.T) {
	path := filepath.Join(t.TempDir(), "files.index.xml")
	if err := os.WriteFile(path, []byte(indexDoc), 0o600); err != nil {
		t.Fatal(err)
	}

	n := 0
	err := NewScanner(path, zap.NewNop()).Scan(nil, func(catalog.IndexEntry) error {
		n++
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 4 {
		t.Errorf("got %d entries, want 4", n)
	}
}

func TestPlausibleSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.gz")
	if err := os.WriteFile(path, make([]byte, 100), 0o600); err != nil {
		t.Fatal(err)
	}

	if !PlausibleSize(path, 100) {
		t.Error("exact size should be plausible")
	}
	if PlausibleSize(path, 101) {
		t.Error("undersized file should not be plausible")
	}
	if PlausibleSize(filepath.Join(t.TempDir(), "absent"), 1) {
		t.Error("missing file should not be plausible")
	}
}
