// Package report renders run statistics: per-category document counts from
// the index scan, as CSV for tooling and a console table for the operator.
package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/kailas-cloud/harvest/internal/catalog"
)

// Row is one category's document count.
type Row struct {
	CategoryID string
	Count      int
	Name       string
}

// SortedRows turns a count table into rows ordered by count descending,
// resolving display names through the category table.
func SortedRows(counts map[string]int, names map[string]string) []Row {
	rows := make([]Row, 0, len(counts))
	for id, count := range counts {
		name, ok := names[id]
		if !ok {
			name = catalog.UnknownCategory
		}
		rows = append(rows, Row{CategoryID: id, Count: count, Name: name})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].CategoryID < rows[j].CategoryID
	})
	return rows
}

// WriteCSV writes all rows to a CSV file.
func WriteCSV(path string, rows []Row) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"ID", "Count", "Name"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range rows {
		if err := w.Write([]string{r.CategoryID, strconv.Itoa(r.Count), r.Name}); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return nil
}

// Table renders the top n rows as a fixed-width console table.
func Table(rows []Row, n int) string {
	if n > len(rows) {
		n = len(rows)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%-10s | %-10s | %s\n", "ID", "Count", "Name")
	b.WriteString(strings.Repeat("-", 50) + "\n")
	for _, r := range rows[:n] {
		fmt.Fprintf(&b, "%-10s | %-10d | %s\n", r.CategoryID, r.Count, r.Name)
	}
	return b.String()
}

// WriteMarkdown writes rows as a Markdown table, for pasting into run notes.
func WriteMarkdown(path string, rows []Row) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}

	var b strings.Builder
	b.WriteString("| ID | Count | Name |\n|---|---|---|\n")
	for _, r := range rows {
		fmt.Fprintf(&b, "| %s | %d | %s |\n", r.CategoryID, r.Count, r.Name)
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o600); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
