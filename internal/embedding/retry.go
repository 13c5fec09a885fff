package embedding

import (
	"context"
	"log"
	"time"

	"chatdoc/internal/retry"
)

// Retrying retries failed embedding calls with capped exponential backoff.
type Retrying struct {
	next       Embedder
	maxRetries int
	baseDelay  time.Duration
}

// WithRetry retries failed embeddings up to maxRetries times with capped
// exponential backoff.
func WithRetry(next Embedder, maxRetries int, baseDelay time.Duration) Embedder {
	if maxRetries <= 0 {
		return next
	}
	return &Retrying{next: next, maxRetries: maxRetries, baseDelay: baseDelay}
}

func (r *Retrying) Embed(ctx context.Context, text string) ([]float32, error) {
	var lastErr error
	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		v, err := r.next.Embed(ctx, text)
		if err == nil {
			return v, nil
		}
		lastErr = err
		if attempt == r.maxRetries {
			break
		}
		log.Printf("⚠️  embed attempt %d failed: %v", attempt+1, err)
		if err := retry.Sleep(ctx, retry.Delay(r.baseDelay, attempt)); err != nil {
			return nil, lastErr
		}
	}
	return nil, lastErr
}
