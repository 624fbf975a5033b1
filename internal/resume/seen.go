// Package resume tracks already-persisted product ids so an interrupted run
// can restart without re-fetching. Two drivers: a file scan over existing
// NDJSON output (the default) and a shared Valkey set for multi-host runs.
package resume

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// SeenSet answers whether a product id has already been persisted.
// At-least-once semantics: a crash between fetch and Add may duplicate an
// in-flight record, but Contains must never go false for a persisted id.
type SeenSet interface {
	Contains(ctx context.Context, id string) (bool, error)
	Add(ctx context.Context, id string) error
	Close()
}

// FileSet is an in-memory seen set loaded by scanning NDJSON output files.
type FileSet struct {
	mu  sync.RWMutex
	ids map[string]struct{}
}

// NewFileSet creates an empty file-backed seen set.
func NewFileSet() *FileSet {
	return &FileSet{ids: make(map[string]struct{})}
}

// ScanSegments walks root for .ndjson files and collects every record id.
// Unparseable lines (a torn final write from a killed run) are skipped, not
// fatal. A missing root yields an empty set.
func ScanSegments(root string, log *zap.Logger) (*FileSet, error) {
	s := NewFileSet()

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".ndjson") {
			return nil
		}
		if err := s.loadFile(path); err != nil {
			return fmt.Errorf("scan %s: %w", path, err)
		}
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, err
	}

	log.Info("resume set loaded", zap.Int("ids", len(s.ids)), zap.String("root", root))
	return s, nil
}

func (s *FileSet) loadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(line, &rec); err != nil {
			continue // torn line, tolerate
		}
		if rec.ID != "" {
			s.ids[rec.ID] = struct{}{}
		}
	}
	return sc.Err()
}

// Contains reports whether id was seen.
func (s *FileSet) Contains(_ context.Context, id string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.ids[id]
	return ok, nil
}

// Add marks id as seen.
func (s *FileSet) Add(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids[id] = struct{}{}
	return nil
}

// Len returns the number of seen ids.
func (s *FileSet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ids)
}

// Close is a no-op for the file driver.
func (s *FileSet) Close() {}
