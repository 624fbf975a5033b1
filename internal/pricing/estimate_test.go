package pricing

import (
	"math"
	"testing"
)

func TestEstimate_Deterministic(t *testing.T) {
	baselines := map[string]float64{"laptops": 800}

	first := Estimate("12345", "Acer", "Laptops", baselines)
	for i := 0; i < 5; i++ {
		if got := Estimate("12345", "Acer", "Laptops", baselines); got != first {
			t.Fatalf("price drifted: got %v, want %v", got, first)
		}
	}
}

func TestEstimate_VarianceBounds(t *testing.T) {
	baselines := map[string]float64{"laptops": 800}

	ids := []string{"1", "22", "333", "4444", "55555", "987654"}
	for _, id := range ids {
		price := Estimate(id, "", "Laptops", baselines)
		lo, hi := 800*(1-variance), 800*(1+variance)
		if price < lo || price > hi {
			t.Errorf("id %s: price %v outside [%v, %v]", id, price, lo, hi)
		}
	}
}

func TestEstimate_BrandMultipliers(t *testing.T) {
	baselines := map[string]float64{"headphones": 100}

	neutral := Estimate("777", "Acer", "Headphones", baselines)
	premium := Estimate("777", "Apple", "Headphones", baselines)
	budget := Estimate("777", "Trust", "Headphones", baselines)

	if got := premium / neutral; math.Abs(got-premiumMultiplier) > 0.001 {
		t.Errorf("premium ratio: got %v, want %v", got, premiumMultiplier)
	}
	if got := budget / neutral; math.Abs(got-budgetMultiplier) > 0.001 {
		t.Errorf("budget ratio: got %v, want %v", got, budgetMultiplier)
	}

	t.Run("brand match is case insensitive", func(t *testing.T) {
		if got := Estimate("777", "APPLE", "Headphones", baselines); got != premium {
			t.Errorf("got %v, want %v", got, premium)
		}
	})
}

func TestEstimate_FallbackBaselines(t *testing.T) {
	tests := []struct {
		category string
		base     float64
	}{
		{"Rack Servers", 1500},
		{"Gaming Laptops", 800},
		{"Antivirus Software", 100},
		{"HDMI Cables", 15},
		{"Garden Gnomes", estimatorDefault},
	}

	for _, tt := range tests {
		t.Run(tt.category, func(t *testing.T) {
			price := Estimate("42", "", tt.category, nil)
			lo, hi := tt.base*(1-variance), tt.base*(1+variance)
			if price < lo || price > hi {
				t.Errorf("price %v outside [%v, %v]", price, lo, hi)
			}
		})
	}
}

func TestEstimate_NeverBelowMinimum(t *testing.T) {
	baselines := map[string]float64{"freebies": 0}
	if got := Estimate("1", "", "Freebies", baselines); got < 0.01 {
		t.Errorf("price %v below floor", got)
	}
}

func TestEstimate_TwoDecimalPlaces(t *testing.T) {
	price := Estimate("98765", "Sony", "Speakers", map[string]float64{"speakers": 99.99})
	if rounded := math.Round(price*100) / 100; rounded != price {
		t.Errorf("price %v not rounded to cents", price)
	}
}
