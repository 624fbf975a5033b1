// Package index streams the upstream product file index. The raw document is
// tens to hundreds of megabytes, so entries are decoded one element at a time
// and released immediately: peak memory stays proportional to the target set,
// not the index.
package index

import (
	"compress/gzip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/harvest/internal/catalog"
)

// Scanner reads a local copy of the file index, gzip-compressed or plain.
type Scanner struct {
	path string
	log  *zap.Logger
}

// NewScanner creates a scanner over the index file at path.
func NewScanner(path string, log *zap.Logger) *Scanner {
	return &Scanner{path: path, log: log}
}

// PlausibleSize reports whether the index file on disk is at least minBytes.
// An interrupted download leaves an implausibly small file; callers must
// delete it and re-download rather than silently scanning partial data.
func PlausibleSize(path string, minBytes int64) bool {
	st, err := os.Stat(path)
	return err == nil && st.Size() >= minBytes
}

// Scan walks every file entry, invoking fn for entries whose category id is
// in targets. A nil targets map matches everything. Returning an error from
// fn aborts the scan.
func (s *Scanner) Scan(targets map[string]bool, fn func(catalog.IndexEntry) error) error {
	r, closer, err := s.open()
	if err != nil {
		return err
	}
	defer closer()

	dec := xml.NewDecoder(r)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("scan index: %w", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "file" {
			continue
		}

		entry := entryFromElement(start)
		if err := dec.Skip(); err != nil {
			return fmt.Errorf("scan index: %w", err)
		}

		if entry.CategoryID == "" || entry.Path == "" {
			continue
		}
		if targets != nil && !targets[entry.CategoryID] {
			continue
		}
		if err := fn(entry); err != nil {
			return err
		}
	}
}

// Counts tallies file entries per category id across the whole index.
func (s *Scanner) Counts() (map[string]int, error) {
	counts := make(map[string]int)
	err := s.Scan(nil, func(e catalog.IndexEntry) error {
		counts[e.CategoryID]++
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("index scanned", zap.Int("categories", len(counts)))
	return counts, nil
}

func (s *Scanner) open() (io.Reader, func(), error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, nil, fmt.Errorf("open index %s: %w", s.path, err)
	}
	if !strings.HasSuffix(s.path, ".gz") {
		return f, func() { _ = f.Close() }, nil
	}
	gz, err := gzip.NewReader(f)
	if err != nil {
		_ = f.Close()
		return nil, nil, fmt.Errorf("gzip index %s: %w", s.path, err)
	}
	return gz, func() {
		_ = gz.Close()
		_ = f.Close()
	}, nil
}

func entryFromElement(start xml.StartElement) catalog.IndexEntry {
	var e catalog.IndexEntry
	for _, a := range start.Attr {
		switch a.Name.Local {
		case "Catid":
			e.CategoryID = a.Value
		case "path":
			e.Path = a.Value
		case "Product_ID":
			e.ProductID = a.Value
		}
	}
	if e.ProductID == "" && e.Path != "" {
		e.ProductID = strings.TrimSuffix(path.Base(e.Path), ".xml")
	}
	return e
}
