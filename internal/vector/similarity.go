package vector

// The stores in this package use the cosine metric. Raw cosine distance is
// d = 1 - cos_similarity (domain [0,2]); the normalized contract value is
// similarity = 1 - d clamped to [0,1], i.e. clamped cosine similarity. This
// is the only normalization used; unbounded-distance formulas like 1/(1+d)
// do not apply to the cosine metric and appear nowhere.

// SimilarityFromCosineDistance converts a raw cosine distance to the
// normalized [0,1] contract value. Monotonic: smaller distances map to
// strictly larger similarities within the clamp range.
func SimilarityFromCosineDistance(d float64) float64 {
	return clamp01(1 - d)
}

// CosineSimilarity returns the normalized similarity between two unit-length
// vectors (their inner product, clamped to [0,1]). Mismatched or empty
// vectors score 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	return clamp01(dot)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
