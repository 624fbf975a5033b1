// Package segment writes and reads the NDJSON output: per-category segment
// files capped at a fixed record count, concatenable in sequence order.
package segment

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kailas-cloud/harvest/internal/catalog"
)

// DefaultCap is the record count at which a segment rolls over.
const DefaultCap = 1000

// Writer appends records to numbered segment files in one category
// directory: batch_001.ndjson, batch_002.ndjson, ...
type Writer struct {
	dir string
	cap int
	seq int
	n   int
	f   *os.File
}

// NewWriter creates a segment writer for dir. recordCap <= 0 uses DefaultCap.
func NewWriter(dir string, recordCap int) *Writer {
	if recordCap <= 0 {
		recordCap = DefaultCap
	}
	return &Writer{dir: dir, cap: recordCap}
}

// Write appends one record, rolling to the next segment at the cap.
func (w *Writer) Write(rec *catalog.Record) error {
	if w.f == nil || w.n >= w.cap {
		if err := w.roll(); err != nil {
			return err
		}
	}

	line, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record %s: %w", rec.ID, err)
	}
	if _, err := w.f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("write segment: %w", err)
	}
	w.n++
	return nil
}

// Written returns the total number of records written so far.
func (w *Writer) Written() int {
	if w.seq == 0 {
		return 0
	}
	return (w.seq-1)*w.cap + w.n
}

// Close flushes and closes the current segment.
func (w *Writer) Close() error {
	if w.f == nil {
		return nil
	}
	err := w.f.Close()
	w.f = nil
	if err != nil {
		return fmt.Errorf("close segment: %w", err)
	}
	return nil
}

func (w *Writer) roll() error {
	if err := w.Close(); err != nil {
		return err
	}
	if err := os.MkdirAll(w.dir, 0o750); err != nil {
		return fmt.Errorf("mkdir %s: %w", w.dir, err)
	}

	w.seq++
	w.n = 0
	path := filepath.Join(w.dir, SegmentName(w.seq))
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("open segment %s: %w", path, err)
	}
	w.f = f
	return nil
}

// SegmentName returns the file name for a segment sequence number.
func SegmentName(seq int) string {
	return fmt.Sprintf("batch_%03d.ndjson", seq)
}
