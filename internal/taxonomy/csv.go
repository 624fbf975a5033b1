package taxonomy

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// SaveTable writes an id → name table as a two-column CSV with a header.
// Rows are sorted by id so output is stable across runs.
func SaveTable(path string, table map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	ids := make([]string, 0, len(table))
	for id := range table {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	w := csv.NewWriter(f)
	if err := w.Write([]string{"ID", "Name"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, id := range ids {
		if err := w.Write([]string{id, table[id]}); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return nil
}

// LoadTable reads a two-column id,name CSV written by SaveTable.
func LoadTable(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	table := make(map[string]string, len(rows))
	for i, row := range rows {
		if i == 0 || len(row) < 2 {
			continue // header
		}
		table[row[0]] = row[1]
	}
	return table, nil
}
