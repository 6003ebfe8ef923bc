package application

import (
	"math"
	"testing"
)

func TestEditDistance_Score(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"Dune", "Dune", 1},
		{"dune", "DUNE", 1},
		{"Dunes", "Dune", 0.8},
		{"Dnue", "Dune", 0.5},
		{"Emma", "Dune", 0},
		{"", "", 1},
		{"  Emma ", "Emma", 1},
	}

	e := NewEditDistance()
	for _, tt := range tests {
		t.Run(tt.a+"/"+tt.b, func(t *testing.T) {
			got := e.Score(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Score(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestEditDistance_Cutoff(t *testing.T) {
	if got := NewEditDistance().Cutoff(); got != DefaultSimilarityCutoff {
		t.Errorf("Cutoff() = %v, want %v", got, DefaultSimilarityCutoff)
	}
}

func TestFuzzyScore(t *testing.T) {
	tests := []struct {
		name      string
		target    string
		query     string
		wantScore int
		wantMin   int
	}{
		{name: "exact match", target: "Dune", query: "Dune", wantScore: 150},
		{name: "prefix match", target: "Dune Messiah", query: "Dune", wantScore: 150},
		{name: "substring match", target: "Children of Dune", query: "Dune", wantScore: 100},
		{name: "no match", target: "Dune", query: "xyz", wantScore: 0},
		{name: "empty query", target: "Dune", query: "", wantScore: 0},
		{name: "in-order chars", target: "The Hobbit", query: "thb", wantMin: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FuzzyScore(tt.target, tt.query)
			if tt.wantMin > 0 {
				if got < tt.wantMin {
					t.Errorf("FuzzyScore(%q, %q) = %d, want >= %d", tt.target, tt.query, got, tt.wantMin)
				}
				return
			}
			if got != tt.wantScore {
				t.Errorf("FuzzyScore(%q, %q) = %d, want %d", tt.target, tt.query, got, tt.wantScore)
			}
		})
	}
}
