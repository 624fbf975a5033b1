package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSortedRows(t *testing.T) {
	counts := map[string]int{"151": 40, "195": 120, "942": 40, "999": 5}
	names := map[string]string{"151": "Laptops", "195": "Tablets", "942": "Warranty"}

	rows := SortedRows(counts, names)

	t.Run("count descending", func(t *testing.T) {
		if rows[0].CategoryID != "195" {
			t.Errorf("rows[0]: got %s, want 195", rows[0].CategoryID)
		}
		if rows[3].CategoryID != "999" {
			t.Errorf("rows[3]: got %s, want 999", rows[3].CategoryID)
		}
	})

	t.Run("id ascending breaks ties", func(t *testing.T) {
		if rows[1].CategoryID != "151" || rows[2].CategoryID != "942" {
			t.Errorf("tie order: got %s, %s", rows[1].CategoryID, rows[2].CategoryID)
		}
	})

	t.Run("missing name falls back to Unknown", func(t *testing.T) {
		if rows[3].Name != "Unknown" {
			t.Errorf("got %q", rows[3].Name)
		}
	})
}

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "counts.csv")
	rows := []Row{
		{CategoryID: "151", Count: 40, Name: "Laptops"},
		{CategoryID: "195", Count: 12, Name: "Tablets"},
	}

	if err := WriteCSV(path, rows); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3: %q", len(lines), lines)
	}
	if lines[0] != "ID,Count,Name" {
		t.Errorf("header: got %q", lines[0])
	}
	if lines[1] != "151,40,Laptops" {
		t.Errorf("row: got %q", lines[1])
	}
}

func TestTable_LimitsRows(t *testing.T) {
	rows := []Row{
		{CategoryID: "1", Count: 3, Name: "A"},
		{CategoryID: "2", Count: 2, Name: "B"},
		{CategoryID: "3", Count: 1, Name: "C"},
	}

	out := Table(rows, 2)
	if !strings.Contains(out, "A") || !strings.Contains(out, "B") {
		t.Errorf("missing rows:\n%s", out)
	}
	if strings.Contains(out, "C") {
		t.Errorf("row beyond limit included:\n%s", out)
	}

	t.Run("limit beyond length is safe", func(t *testing.T) {
		if out := Table(rows, 50); !strings.Contains(out, "C") {
			t.Errorf("missing rows:\n%s", out)
		}
	})
}
