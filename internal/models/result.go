package models

// RetrievalResult is a single retrieved chunk with its normalized similarity.
// Similarity is in [0,1] where 1.0 means identical; constructed per query,
// never persisted.
type RetrievalResult struct {
	Text       string  `json:"text"`
	Source     string  `json:"source"`
	Similarity float64 `json:"similarity"`
}

// Answer is the query pipeline's output: the generated text plus the ordered
// retrieval results used as context (for caller-side citation display).
type Answer struct {
	Text      string            `json:"answer"`
	Retrieved []RetrievalResult `json:"retrieved_chunks"`
}
