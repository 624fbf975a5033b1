// Package catalog defines the entities flowing through the harvest pipeline.
package catalog

// Category is one taxonomy node of the upstream catalog.
type Category struct {
	ID   string
	Name string
}

// UnknownCategory is the sentinel display name for a missing category lookup.
const UnknownCategory = "Unknown"

// IndexEntry is one row of the upstream file index: which product document
// exists, for which category, and where. Entries are transient: read from
// the streamed index and discarded after dispatching a fetch.
type IndexEntry struct {
	CategoryID string
	Path       string
	ProductID  string
}

// Record is the normalized output entity, one per source product document.
// Created once, never mutated, written as a single NDJSON line.
type Record struct {
	ID          string            `json:"id" parquet:"id"`
	Title       string            `json:"title" parquet:"title"`
	Brand       string            `json:"brand" parquet:"brand"`
	Description string            `json:"description" parquet:"description"`
	ImageURL    string            `json:"image_url" parquet:"image_url"`
	Price       float64           `json:"price" parquet:"price"`
	Currency    string            `json:"currency" parquet:"currency"`
	Attrs       map[string]string `json:"attrs" parquet:"attrs"`
	Categories  []string          `json:"categories" parquet:"categories"`
}
