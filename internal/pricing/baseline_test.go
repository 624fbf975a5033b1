package pricing

import (
	"path/filepath"
	"testing"
)

func TestGuess(t *testing.T) {
	tests := []struct {
		category string
		want     float64
	}{
		{"Rack Servers", 1500},
		{"Laptops", 800},
		{"laptop bags", 800}, // keyword order: Laptop before Bag
		{"Warranty & Support Extensions", 50},
		{"Garden Gnomes", defaultGenerated},
	}

	for _, tt := range tests {
		t.Run(tt.category, func(t *testing.T) {
			if got := Guess(tt.category); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGenerateAndLoadBaselines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "price_baselines.csv")
	categories := map[string]string{
		"151": "Laptops",
		"195": "Tablets",
		"999": "Garden Gnomes",
	}

	matched, total, err := Generate(categories, path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 3 {
		t.Errorf("total: got %d, want 3", total)
	}
	if matched != 2 {
		t.Errorf("matched: got %d, want 2", matched)
	}

	table, err := LoadBaselines(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := table["laptops"]; got != 800 {
		t.Errorf("laptops: got %v, want 800", got)
	}
	if got := table["garden gnomes"]; got != defaultGenerated {
		t.Errorf("garden gnomes: got %v, want %v", got, defaultGenerated)
	}
}

func TestLoadBaselines_MissingFileIsEmpty(t *testing.T) {
	table, err := LoadBaselines(filepath.Join(t.TempDir(), "absent.csv"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(table) != 0 {
		t.Errorf("got %d entries, want 0", len(table))
	}
}
