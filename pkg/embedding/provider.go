package embedding

import (
	"context"
	"errors"
)

// ErrUnavailable marks embedding failures that the cascade recovers from
// locally: the semantic step is skipped and classification continues.
var ErrUnavailable = errors.New("embedding provider unavailable")

// Provider computes a fixed-dimension embedding vector for a text. It must
// be safe for concurrent invocation: one provider is shared read-only across
// all classification calls in the process.
type Provider interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}
