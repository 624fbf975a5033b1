package taxonomy

import (
	"strings"
	"testing"

	"go.uber.org/zap"
)

const categoriesDoc = `<?xml version="1.0"?>
<ICECAT-interface>
  <Response>
    <CategoriesList>
      <Category ID="151">
        <Name ID="1000" langid="1" Value="Laptops"/>
        <Name ID="1001" langid="4" Value="Notebooks"/>
      </Category>
      <Category ID="195">
        <Name ID="1002" langid="4" Value="Tabletten"/>
      </Category>
      <Category ID="800" Name="Legacy Only"/>
      <VirtualCategory ID="9000">
        <Name langid="1" Value="Should Not Appear"/>
      </VirtualCategory>
      <Category ID="">
        <Name langid="1" Value="No ID"/>
      </Category>
    </CategoriesList>
  </Response>
</ICECAT-interface>`

func TestParseCategories(t *testing.T) {
	table, err := ParseCategories(strings.NewReader(categoriesDoc), zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("english name wins", func(t *testing.T) {
		if got := table["151"]; got != "Laptops" {
			t.Errorf("category 151: got %q, want %q", got, "Laptops")
		}
	})

	t.Run("falls back to first localized name", func(t *testing.T) {
		if got := table["195"]; got != "Tabletten" {
			t.Errorf("category 195: got %q, want %q", got, "Tabletten")
		}
	})

	t.Run("falls back to legacy attribute", func(t *testing.T) {
		if got := table["800"]; got != "Legacy Only" {
			t.Errorf("category 800: got %q, want %q", got, "Legacy Only")
		}
	})

	t.Run("virtual categories excluded", func(t *testing.T) {
		for id, name := range table {
			if name == "Should Not Appear" {
				t.Errorf("virtual category leaked as %s", id)
			}
		}
	})

	t.Run("missing id dropped", func(t *testing.T) {
		if len(table) != 3 {
			t.Errorf("got %d categories, want 3", len(table))
		}
	})
}

func TestParseCategories_TruncatedDocument(t *testing.T) {
	doc := categoriesDoc[:len(categoriesDoc)/2]
	table, err := ParseCategories(strings.NewReader(doc), zap.NewNop())
	if err == nil {
		t.Fatal("expected error for truncated document")
	}
	// Partial results up to the failure point are still returned.
	if got := table["151"]; got != "Laptops" {
		t.Errorf("partial table missing category 151, got %q", got)
	}
}
