package vector

import (
	"math"
	"testing"
)

func TestSimilarityFromCosineDistance(t *testing.T) {
	tests := []struct {
		distance float64
		want     float64
	}{
		{0.0, 1.0},
		{0.2, 0.8},
		{1.0, 0.0},
		{2.0, 0.0},  // opposite vectors clamp to 0
		{-0.1, 1.0}, // numeric noise below 0 clamps to 1
	}
	for _, tt := range tests {
		got := SimilarityFromCosineDistance(tt.distance)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("distance %f: got %f, want %f", tt.distance, got, tt.want)
		}
	}
}

func TestSimilarityMonotonic(t *testing.T) {
	// Within [0,1] distance, smaller distance means strictly larger similarity.
	prev := SimilarityFromCosineDistance(0.0)
	for d := 0.05; d <= 1.0; d += 0.05 {
		cur := SimilarityFromCosineDistance(d)
		if cur >= prev {
			t.Fatalf("not monotonic at distance %f: %f >= %f", d, cur, prev)
		}
		if cur < 0 || cur > 1 {
			t.Fatalf("similarity out of range at distance %f: %f", d, cur)
		}
		prev = cur
	}
}

func TestCosineSimilarity(t *testing.T) {
	a := []float32{1, 0, 0}
	if got := CosineSimilarity(a, a); math.Abs(got-1.0) > 1e-9 {
		t.Errorf("identical vectors: got %f", got)
	}
	b := []float32{0, 1, 0}
	if got := CosineSimilarity(a, b); got != 0 {
		t.Errorf("orthogonal vectors: got %f", got)
	}
	neg := []float32{-1, 0, 0}
	if got := CosineSimilarity(a, neg); got != 0 {
		t.Errorf("opposite vectors should clamp to 0, got %f", got)
	}
	if got := CosineSimilarity(a, []float32{1, 0}); got != 0 {
		t.Errorf("mismatched lengths should score 0, got %f", got)
	}
}
