// Package curate draws a balanced demo sample from a category's record
// stream: an equal quota per keyword bucket first, then top-up from leftover
// keyword matches, then from the generic bucket.
package curate

import (
	"math/rand"
	"strings"
	"time"

	"github.com/kailas-cloud/harvest/internal/catalog"
)

// Sampler partitions records into keyword buckets and draws a bounded,
// roughly balanced sample. Order within a bucket is randomized per run
// unless a fixed seed pins it.
type Sampler struct {
	keywords []string
	limit    int
	rng      *rand.Rand
}

// New creates a sampler. seed == 0 randomizes per run.
func New(keywords []string, limit int, seed int64) *Sampler {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	lowered := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" {
			lowered = append(lowered, kw)
		}
	}
	return &Sampler{
		keywords: lowered,
		limit:    limit,
		rng:      rand.New(rand.NewSource(seed)),
	}
}

// Sample draws up to the per-category limit from records.
func (s *Sampler) Sample(records []catalog.Record) []catalog.Record {
	if s.limit <= 0 || len(records) == 0 {
		return nil
	}

	buckets := make(map[string][]catalog.Record, len(s.keywords))
	var generic []catalog.Record

	for _, rec := range records {
		if kw, ok := s.matchKeyword(rec); ok {
			buckets[kw] = append(buckets[kw], rec)
		} else {
			generic = append(generic, rec)
		}
	}

	var sample []catalog.Record

	// 1. Fair share per keyword bucket.
	perKeyword := s.limit
	if len(s.keywords) > 0 {
		perKeyword = s.limit / len(s.keywords)
	}
	var leftover []catalog.Record
	for _, kw := range s.keywords {
		items := buckets[kw]
		s.shuffle(items)
		take := min(perKeyword, len(items))
		sample = append(sample, items[:take]...)
		leftover = append(leftover, items[take:]...)
	}

	// 2. Top up from the remaining keyword pool.
	if len(sample) < s.limit {
		s.shuffle(leftover)
		sample = append(sample, leftover[:min(s.limit-len(sample), len(leftover))]...)
	}

	// 3. Then from the generic bucket.
	if len(sample) < s.limit {
		s.shuffle(generic)
		sample = append(sample, generic[:min(s.limit-len(sample), len(generic))]...)
	}

	if len(sample) > s.limit {
		sample = sample[:s.limit]
	}
	return sample
}

// matchKeyword returns the first keyword contained in the record's combined
// title, brand and description.
func (s *Sampler) matchKeyword(rec catalog.Record) (string, bool) {
	content := strings.ToLower(rec.Title + " " + rec.Brand + " " + rec.Description)
	for _, kw := range s.keywords {
		if strings.Contains(content, kw) {
			return kw, true
		}
	}
	return "", false
}

func (s *Sampler) shuffle(items []catalog.Record) {
	s.rng.Shuffle(len(items), func(i, j int) {
		items[i], items[j] = items[j], items[i]
	})
}
