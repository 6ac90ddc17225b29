// Package llm provides answer generation through an ordered chain of
// chat-completion models: one primary plus configured fallbacks, tried
// strictly in order.
package llm

import (
	"context"
	"fmt"
)

// Generator produces text from a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// AllModelsFailedError is returned when every candidate model in the fallback
// chain has failed. It carries the last underlying error.
type AllModelsFailedError struct {
	Attempted int
	Err       error
}

func (e *AllModelsFailedError) Error() string {
	return fmt.Sprintf("all %d models failed, last error: %v", e.Attempted, e.Err)
}

func (e *AllModelsFailedError) Unwrap() error {
	return e.Err
}
