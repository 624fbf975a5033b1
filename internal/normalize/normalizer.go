// Package normalize converts one raw product XML document into a flat
// catalog record: identifiers, synthesized description, attribute map,
// selected image and a deterministic estimated price.
package normalize

import (
	"github.com/kailas-cloud/harvest/internal/catalog"
	"github.com/kailas-cloud/harvest/internal/pricing"
)

// Outcome classifies a per-document conversion result. Structural failures
// are counted, never propagated: one bad document must not abort a batch.
type Outcome int

const (
	// Converted means a record was produced and passed the quality gate.
	Converted Outcome = iota
	// Skipped means the document parsed but failed the quality gate
	// (missing product node, empty title or no usable image).
	Skipped
	// Errored means the document could not be parsed at all.
	Errored
)

// String returns the metrics label for the outcome.
func (o Outcome) String() string {
	switch o {
	case Converted:
		return "converted"
	case Skipped:
		return "skipped"
	default:
		return "errored"
	}
}

// Result is the typed per-document outcome.
type Result struct {
	Outcome Outcome
	Record  *catalog.Record // set when Outcome == Converted
	Reason  string          // set when Outcome == Skipped
	Err     error           // set when Outcome == Errored
}

// Normalizer holds the auxiliary lookup tables shared across a batch.
type Normalizer struct {
	features  map[string]string  // feature id -> display name
	baselines map[string]float64 // lower-cased category name -> baseline price
}

// New creates a normalizer. Nil tables are treated as empty.
func New(features map[string]string, baselines map[string]float64) *Normalizer {
	if features == nil {
		features = map[string]string{}
	}
	if baselines == nil {
		baselines = map[string]float64{}
	}
	return &Normalizer{features: features, baselines: baselines}
}

// Normalize converts one raw document. fallbackCategory names the category
// the document was filed under; it is used when the document carries no
// category of its own.
func (n *Normalizer) Normalize(data []byte, fallbackCategory string) Result {
	p, err := parseProduct(data)
	if err != nil {
		return Result{Outcome: Errored, Err: err}
	}
	if p == nil {
		return Result{Outcome: Skipped, Reason: "no product node"}
	}

	title := p.Title
	if title == "" {
		title = p.Name
	}
	if title == "" {
		return Result{Outcome: Skipped, Reason: "empty title"}
	}

	imageURL := selectImage(p)
	if imageURL == "" {
		// Quality gate: records without a usable image are useless in the
		// demo catalog. Counted as skipped, not as a parse failure.
		return Result{Outcome: Skipped, Reason: "no image"}
	}

	brand := ""
	if p.Supplier != nil {
		brand = p.Supplier.Name
	}

	categoryName := fallbackCategory
	if p.Category != nil && p.Category.Name != nil && p.Category.Name.Value != "" {
		categoryName = p.Category.Name.Value
	}
	if categoryName == "" {
		categoryName = catalog.UnknownCategory
	}

	longDesc := ""
	if p.Description != nil {
		longDesc = p.Description.LongDesc
	}

	attrs, groups := n.extractFeatures(p)

	rec := &catalog.Record{
		ID:          p.ID,
		Title:       title,
		Brand:       brand,
		Description: buildDescription(title, longDesc, groups),
		ImageURL:    imageURL,
		Price:       pricing.Estimate(p.ID, brand, categoryName, n.baselines),
		Currency:    "EUR",
		Attrs:       attrs,
		Categories:  []string{categoryName},
	}
	return Result{Outcome: Converted, Record: rec}
}
