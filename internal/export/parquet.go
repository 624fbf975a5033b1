// Package export writes combined category files in columnar form for
// analytics tooling that prefers Parquet over NDJSON.
package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"

	"github.com/kailas-cloud/harvest/internal/catalog"
)

// WriteParquet writes records to a snappy-compressed Parquet file.
func WriteParquet(path string, records []catalog.Record) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	w := parquet.NewGenericWriter[catalog.Record](f, parquet.Compression(&parquet.Snappy))
	if _, err := w.Write(records); err != nil {
		_ = w.Close()
		_ = f.Close()
		return fmt.Errorf("write parquet: %w", err)
	}
	if err := w.Close(); err != nil {
		_ = f.Close()
		return fmt.Errorf("close parquet writer: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
