package resume

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

func TestScanSegments(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "Laptops")
	if err := os.MkdirAll(dir, 0o750); err != nil {
		t.Fatal(err)
	}

	content := `{"id":"1001","title":"A"}
{"id":"1002","title":"B"}
{"id":"1003","ti` + "\n" // torn final line
	if err := os.WriteFile(filepath.Join(dir, "batch_001.ndjson"), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	// Non-NDJSON files are ignored.
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte(`{"id":"x"}`), 0o600); err != nil {
		t.Fatal(err)
	}

	s, err := ScanSegments(root, zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx := context.Background()
	for _, id := range []string{"1001", "1002"} {
		ok, err := s.Contains(ctx, id)
		if err != nil {
			t.Fatal(err)
		}
		if !ok {
			t.Errorf("id %s should be seen", id)
		}
	}
	if ok, _ := s.Contains(ctx, "1003"); ok {
		t.Error("torn line should not register an id")
	}
	if ok, _ := s.Contains(ctx, "x"); ok {
		t.Error("non-ndjson file should be ignored")
	}
	if s.Len() != 2 {
		t.Errorf("len: got %d, want 2", s.Len())
	}
}

func TestScanSegments_MissingRootIsEmpty(t *testing.T) {
	s, err := ScanSegments(filepath.Join(t.TempDir(), "absent"), zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("len: got %d, want 0", s.Len())
	}
}

func TestFileSet_AddContains(t *testing.T) {
	s := NewFileSet()
	ctx := context.Background()

	if ok, _ := s.Contains(ctx, "42"); ok {
		t.Error("empty set should not contain 42")
	}
	if err := s.Add(ctx, "42"); err != nil {
		t.Fatal(err)
	}
	if ok, _ := s.Contains(ctx, "42"); !ok {
		t.Error("42 should be contained after Add")
	}
}
