package providers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExtractJSON(t *testing.T) {
	assert.Equal(t, `{"key":"value"}`, ExtractJSON("Claro! {\"key\":\"value\"} Espero ter ajudado."))
	assert.Equal(t, `["a","b"]`, ExtractJSON(`["a","b"]`))
	assert.Equal(t, "sem json aqui", ExtractJSON("sem json aqui"))
}

func TestRetrier_SucceedsAfterFailures(t *testing.T) {
	calls := 0
	r := Retrier{Attempts: 3, Delay: time.Millisecond}

	err := r.Do(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.New("503")
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetrier_ReturnsLastError(t *testing.T) {
	calls := 0
	r := Retrier{Attempts: 2, Delay: time.Millisecond}

	err := r.Do(context.Background(), func() error {
		calls++
		return errors.New("rate limited")
	})

	assert.EqualError(t, err, "rate limited")
	assert.Equal(t, 2, calls)
}

func TestRetrier_StopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	calls := 0
	r := Retrier{Attempts: 5, Delay: time.Hour}

	err := r.Do(ctx, func() error {
		calls++
		return errors.New("fail")
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}
