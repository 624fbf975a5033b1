package taxonomy

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadTargets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "targets.txt")
	content := "# comment line\nLaptops\n\n  Smartphones  \n#another\nTablets\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	targets, err := LoadTargets(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"Laptops", "Smartphones", "Tablets"}
	if len(targets) != len(want) {
		t.Fatalf("got %d targets, want %d: %v", len(targets), len(want), targets)
	}
	for i, w := range want {
		if targets[i] != w {
			t.Errorf("target[%d]: got %q, want %q", i, targets[i], w)
		}
	}
}

func TestLoadTargets_MissingFile(t *testing.T) {
	if _, err := LoadTargets(filepath.Join(t.TempDir(), "absent.txt")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestMatch(t *testing.T) {
	categories := map[string]string{
		"151": "Laptops",
		"152": "Laptop Spare Parts",
		"195": "Tablets",
		"942": "Warranty & Support Extensions",
	}

	t.Run("substring matches multiple categories", func(t *testing.T) {
		ids := Match(categories, []string{"laptop"})
		if !ids["151"] || !ids["152"] {
			t.Errorf("expected 151 and 152, got %v", ids)
		}
		if len(ids) != 2 {
			t.Errorf("got %d matches, want 2", len(ids))
		}
	})

	t.Run("case insensitive", func(t *testing.T) {
		ids := Match(categories, []string{"TABLETS"})
		if !ids["195"] {
			t.Errorf("expected 195, got %v", ids)
		}
	})

	t.Run("unmatched fragment contributes nothing", func(t *testing.T) {
		ids := Match(categories, []string{"zzz-does-not-exist"})
		if len(ids) != 0 {
			t.Errorf("got %v, want empty", ids)
		}
	})

	t.Run("empty fragment ignored", func(t *testing.T) {
		ids := Match(categories, []string{""})
		if len(ids) != 0 {
			t.Errorf("empty fragment matched %v", ids)
		}
	})
}
