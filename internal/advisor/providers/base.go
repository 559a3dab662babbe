// Package providers adapts the LLM vendor SDKs to a single text completion
// call used by the mediation advisor.
package providers

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Config selects and tunes a vendor model.
type Config struct {
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

// ErrEmptyResponse is returned when a vendor answers without any text.
var ErrEmptyResponse = errors.New("empty response")

// Retrier retries a call with exponential backoff.
type Retrier struct {
	Attempts int
	Delay    time.Duration
}

// Do runs fn until it succeeds, the attempts run out or ctx is done. The
// delay doubles after each failure.
func (r Retrier) Do(ctx context.Context, fn func() error) error {
	attempts := r.Attempts
	if attempts <= 0 {
		attempts = 1
	}
	delay := r.Delay
	if delay <= 0 {
		delay = 300 * time.Millisecond
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		if err := fn(); err != nil {
			lastErr = err
			if i == attempts-1 {
				break
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
			continue
		}
		return nil
	}
	if lastErr == nil {
		lastErr = errors.New("retry failed")
	}
	return lastErr
}

func timeoutOrDefault(d time.Duration) time.Duration {
	if d <= 0 {
		return 45 * time.Second
	}
	return d
}

// ExtractJSON cuts the outermost JSON object or array out of model text.
// Text without one is returned unchanged.
func ExtractJSON(text string) string {
	start := strings.IndexAny(text, "{[")
	end := strings.LastIndexAny(text, "}]")
	if start == -1 || end == -1 || end <= start {
		return text
	}
	return text[start : end+1]
}
