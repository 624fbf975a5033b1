package taxonomy

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
)

// ParseFeatures stream-parses the (already decompressed) feature reference
// document into an id → English display name table. Only Name entries count;
// Description entries are deliberately ignored so the table stays a label map.
func ParseFeatures(r io.Reader, log *zap.Logger) (map[string]string, error) {
	table := make(map[string]string)
	dec := xml.NewDecoder(r)

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return table, fmt.Errorf("feature reference: %w", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok || !strings.HasSuffix(start.Name.Local, "Feature") {
			continue
		}

		id := attr(start, "ID")
		name, err := englishName(dec, start.Name.Local)
		if err != nil {
			return table, err
		}
		if id != "" && name != "" {
			table[id] = name
		}
	}

	log.Info("feature reference parsed", zap.Int("features", len(table)))
	return table, nil
}

// englishName walks the subtree of one Feature element looking for the first
// Name node with the English language id, preferring its Value attribute over
// its text content. The walk always consumes the whole element.
func englishName(dec *xml.Decoder, open string) (string, error) {
	var name string
	depth := 1
	inEnglishName := false

	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return name, fmt.Errorf("feature %s subtree: %w", open, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			inEnglishName = false
			if name == "" && strings.HasSuffix(t.Name.Local, "Name") && attr(t, "langid") == englishLangID {
				if v := attr(t, "Value"); v != "" {
					name = v
				} else {
					inEnglishName = true
				}
			}
		case xml.CharData:
			if inEnglishName && name == "" {
				if v := strings.TrimSpace(string(t)); v != "" {
					name = v
				}
			}
		case xml.EndElement:
			depth--
			inEnglishName = false
		}
	}
	return name, nil
}

func attr(e xml.StartElement, name string) string {
	for _, a := range e.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}
