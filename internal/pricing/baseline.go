// Package pricing synthesizes plausible, deterministic demo prices: a
// keyword-derived baseline per category, a brand multiplier and a bounded
// hash-based perturbation so the same product always prices the same.
package pricing

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Rule maps a category-name keyword to a baseline price. Order matters:
// more specific keywords come first.
type Rule struct {
	Keyword string
	Price   float64
}

// Rules is the baseline table generation rule set. The final default for an
// unmatched category is defaultGenerated.
var Rules = []Rule{
	{"Server", 1500},
	{"Workstation", 1200},
	{"Laptop", 800},
	{"Notebook", 800},
	{"Smartphone", 600},
	{"Tablet", 400},
	{"Television", 600},
	{"TV", 500},
	{"Monitor", 250},
	{"Camera", 400},
	{"Printer", 200},
	{"Washer", 400},
	{"Fridge", 500},
	{"Processor", 250},
	{"Motherboard", 150},
	{"Graphics Card", 400},
	{"Memory", 80},
	{"RAM", 80},
	{"HDD", 100},
	{"SSD", 120},
	{"Switch", 150},
	{"Router", 80},
	{"Headphones", 70},
	{"Speaker", 100},
	{"Keyboard", 40},
	{"Mouse", 30},
	{"Cable", 15},
	{"Adapter", 20},
	{"Case", 25},
	{"Bag", 30},
	{"Battery", 40},
	{"Cartridge", 60},
	{"Toner", 90},
	{"Paper", 10},
	{"Software", 120},
	{"License", 100},
	{"Warranty", 50},
}

const defaultGenerated = 50

// Guess returns the baseline price for a category name via the first
// matching keyword rule, or the flat default.
func Guess(categoryName string) float64 {
	lower := strings.ToLower(categoryName)
	for _, r := range Rules {
		if strings.Contains(lower, strings.ToLower(r.Keyword)) {
			return r.Price
		}
	}
	return defaultGenerated
}

// Generate writes the baseline CSV for every category in the table and
// reports how many matched a keyword rule rather than the default. The file
// is meant to be hand-tuned afterwards.
func Generate(categories map[string]string, outPath string) (matched, total int, err error) {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o750); err != nil {
		return 0, 0, fmt.Errorf("mkdir %s: %w", filepath.Dir(outPath), err)
	}
	f, err := os.Create(outPath)
	if err != nil {
		return 0, 0, fmt.Errorf("create %s: %w", outPath, err)
	}
	defer func() { _ = f.Close() }()

	ids := make([]string, 0, len(categories))
	for id := range categories {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	w := csv.NewWriter(f)
	if err := w.Write([]string{"Category_ID", "Category_Name", "Baseline_Price"}); err != nil {
		return 0, 0, fmt.Errorf("write header: %w", err)
	}
	for _, id := range ids {
		name := categories[id]
		price := Guess(name)
		if price != defaultGenerated {
			matched++
		}
		total++
		row := []string{id, name, strconv.FormatFloat(price, 'f', -1, 64)}
		if err := w.Write(row); err != nil {
			return matched, total, fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return matched, total, fmt.Errorf("flush %s: %w", outPath, err)
	}
	return matched, total, nil
}

// LoadBaselines reads the generated CSV into a lower-cased category-name →
// baseline price table for the estimator. A missing file is not an error;
// the estimator falls back to its keyword table.
func LoadBaselines(path string) (map[string]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]float64{}, nil
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	table := make(map[string]float64, len(rows))
	for i, row := range rows {
		if i == 0 || len(row) < 3 {
			continue
		}
		price, err := strconv.ParseFloat(row[2], 64)
		if err != nil {
			continue
		}
		table[strings.ToLower(row[1])] = price
	}
	return table, nil
}
