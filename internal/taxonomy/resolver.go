// Package taxonomy resolves the upstream category and feature reference
// documents into lookup tables, and matches operator-supplied target names
// against them.
package taxonomy

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
)

const englishLangID = "1"

// categoryElem is one Category element of the taxonomy document. The legacy
// name attribute and the localized Name children share the tag name; the
// attr/child split keeps them apart.
type categoryElem struct {
	ID         string `xml:"ID,attr"`
	LegacyName string `xml:"Name,attr"`
	Names      []struct {
		LangID string `xml:"langid,attr"`
		Value  string `xml:"Value,attr"`
	} `xml:"Name"`
}

// ParseCategories stream-parses the (already decompressed) category taxonomy
// document into an id → English display name table. The document can be tens
// of megabytes, so elements are decoded one at a time and released
// immediately. Virtual/derived categories are excluded.
func ParseCategories(r io.Reader, log *zap.Logger) (map[string]string, error) {
	table := make(map[string]string)
	dec := xml.NewDecoder(r)

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return table, fmt.Errorf("category taxonomy: %w", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		local := start.Name.Local
		if !strings.HasSuffix(local, "Category") {
			continue
		}
		if strings.HasSuffix(local, "VirtualCategory") {
			// Virtual categories never carry products; skip the whole subtree.
			if err := dec.Skip(); err != nil {
				return table, fmt.Errorf("skip virtual category: %w", err)
			}
			continue
		}

		var cat categoryElem
		if err := dec.DecodeElement(&cat, &start); err != nil {
			return table, fmt.Errorf("decode category: %w", err)
		}
		if cat.ID == "" {
			continue
		}
		if name := cat.displayName(); name != "" {
			table[cat.ID] = name
		}
	}

	log.Info("category taxonomy parsed", zap.Int("categories", len(table)))
	return table, nil
}

// displayName resolves the English name, falling back to the first localized
// name, then the legacy name attribute.
func (c *categoryElem) displayName() string {
	for _, n := range c.Names {
		if n.LangID == englishLangID && n.Value != "" {
			return n.Value
		}
	}
	for _, n := range c.Names {
		if n.Value != "" {
			return n.Value
		}
	}
	return c.LegacyName
}
