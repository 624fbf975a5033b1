package normalize

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Long descriptions at or below this length add nothing over the title.
const minLongDescLen = 20

// stripHTML removes markup from a long-description field and collapses
// whitespace runs to single spaces.
func stripHTML(s string) string {
	if !strings.ContainsAny(s, "<>") {
		return collapseWhitespace(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return collapseWhitespace(s)
	}
	return collapseWhitespace(doc.Text())
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// buildDescription synthesizes the record description: title, cleaned long
// description when it carries real content, then the grouped spec block.
func buildDescription(title, longDesc string, groups []*specGroup) string {
	parts := []string{title}

	if cleaned := stripHTML(longDesc); len(cleaned) > minLongDescLen {
		parts = append(parts, "\n\n"+cleaned)
	}

	if len(groups) > 0 {
		parts = append(parts, "\n\nKey Specifications:")
		for _, g := range groups {
			items := strings.Join(g.items, "; ")
			if items != "" {
				parts = append(parts, "- **"+g.name+"**: "+items)
			}
		}
	}

	return strings.Join(parts, "\n")
}
