package pricing

import (
	"hash/fnv"
	"math"
	"strings"
)

// Fallback baselines used by the estimator when the loaded table has no
// entry for the category. Intentionally coarser than the generation rules.
var estimatorFallback = []Rule{
	{"server", 1500},
	{"laptop", 800},
	{"software", 100},
	{"cable", 15},
}

const (
	estimatorDefault = 45
	variance         = 0.3

	premiumMultiplier = 1.3
	budgetMultiplier  = 0.8
)

// Brand allow-lists for the price multiplier. Matching is exact on the
// lower-cased brand name.
var (
	premiumBrands = map[string]bool{
		"apple":          true,
		"sony":           true,
		"bose":           true,
		"bang & olufsen": true,
		"leica":          true,
	}
	budgetBrands = map[string]bool{
		"trust":    true,
		"hama":     true,
		"logilink": true,
		"ewent":    true,
	}
)

// Estimate derives a deterministic demo price for a product. The same id,
// brand, category and baseline table always yield the same price; that is
// the whole point, stable demo data rather than statistical realism.
func Estimate(productID, brand, categoryName string, baselines map[string]float64) float64 {
	base, ok := baselines[strings.ToLower(categoryName)]
	if !ok {
		base = fallbackBaseline(categoryName)
	}

	base *= brandMultiplier(brand)

	// Perturb by up to ±variance of the base using a stable hash of the id.
	frac := hashFraction(productID)
	price := base + base*variance*(2*frac-1)

	if price < 0.01 {
		price = 0.01
	}
	return math.Round(price*100) / 100
}

func fallbackBaseline(categoryName string) float64 {
	lower := strings.ToLower(categoryName)
	for _, r := range estimatorFallback {
		if strings.Contains(lower, r.Keyword) {
			return r.Price
		}
	}
	return estimatorDefault
}

func brandMultiplier(brand string) float64 {
	lower := strings.ToLower(strings.TrimSpace(brand))
	switch {
	case premiumBrands[lower]:
		return premiumMultiplier
	case budgetBrands[lower]:
		return budgetMultiplier
	default:
		return 1.0
	}
}

// hashFraction reduces a product id to a stable value in [0, 1).
func hashFraction(id string) float64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(id))
	return float64(h.Sum64()%1000) / 1000.0
}
