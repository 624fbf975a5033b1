package segment

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/kailas-cloud/harvest/internal/catalog"
)

// ReadFile iterates the records of one NDJSON file. Lines that fail to parse
// (a torn final write from an interrupted run) are counted and skipped, never
// fatal.
func ReadFile(path string, fn func(catalog.Record)) (badLines int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec catalog.Record
		if err := json.Unmarshal(line, &rec); err != nil {
			badLines++
			continue
		}
		fn(rec)
	}
	if err := sc.Err(); err != nil {
		return badLines, fmt.Errorf("read %s: %w", path, err)
	}
	return badLines, nil
}

// ListSegments returns the segment files of a category directory in sequence
// order. Concatenating them in this order reconstructs the full stream.
func ListSegments(dir string) ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "batch_*.ndjson"))
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", dir, err)
	}
	sort.Strings(paths)
	return paths, nil
}

// Combine merges a category's segments in sequence order into one NDJSON
// file, dropping duplicate ids (a crash between flush and resume can leave
// the same record in two runs' segments).
func Combine(categoryDir, outPath string) (written, dupes int, err error) {
	paths, err := ListSegments(categoryDir)
	if err != nil {
		return 0, 0, err
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o750); err != nil {
		return 0, 0, fmt.Errorf("mkdir %s: %w", filepath.Dir(outPath), err)
	}
	out, err := os.Create(outPath)
	if err != nil {
		return 0, 0, fmt.Errorf("create %s: %w", outPath, err)
	}
	defer func() {
		if closeErr := out.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	w := bufio.NewWriter(out)
	seen := make(map[string]bool)

	for _, path := range paths {
		_, readErr := ReadFile(path, func(rec catalog.Record) {
			if seen[rec.ID] {
				dupes++
				return
			}
			seen[rec.ID] = true
			line, marshalErr := json.Marshal(rec)
			if marshalErr != nil {
				return
			}
			_, _ = w.Write(append(line, '\n'))
			written++
		})
		if readErr != nil {
			return written, dupes, readErr
		}
	}

	if err := w.Flush(); err != nil {
		return written, dupes, fmt.Errorf("flush %s: %w", outPath, err)
	}
	return written, dupes, nil
}
