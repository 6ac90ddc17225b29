package models

import "fmt"

// DefaultTopK is the number of chunks retrieved per question when unset.
const DefaultTopK = 3

// MaxTopK caps how many chunks a single question may retrieve.
const MaxTopK = 20

// AskRequest represents a question against the ingested corpus.
type AskRequest struct {
	Question string `json:"question"`
	TopK     int    `json:"top_k,omitempty"`
}

// Validate ensures the request has valid fields and sets defaults.
// Returns an error if the question is empty; otherwise normalizes TopK.
func (q *AskRequest) Validate() error {
	if q.Question == "" {
		return fmt.Errorf("question cannot be empty")
	}
	if q.TopK <= 0 {
		q.TopK = DefaultTopK
	}
	if q.TopK > MaxTopK {
		q.TopK = MaxTopK
	}
	return nil
}
