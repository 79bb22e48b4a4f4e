package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateDelay(t *testing.T) {
	tests := []struct {
		name    string
		policy  Policy
		attempt int
		want    time.Duration
	}{
		{"zero attempt", Policy{InitialDelay: time.Second, BackoffStrategy: BackoffFixed}, 0, 0},
		{"fixed", Policy{InitialDelay: time.Second, BackoffStrategy: BackoffFixed}, 3, time.Second},
		{"linear", Policy{InitialDelay: time.Second, BackoffStrategy: BackoffLinear}, 3, 3 * time.Second},
		{"exponential", Policy{InitialDelay: time.Second, BackoffStrategy: BackoffExponential}, 4, 8 * time.Second},
		{"capped", Policy{InitialDelay: time.Second, MaxDelay: 5 * time.Second, BackoffStrategy: BackoffExponential}, 10, 5 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.policy.CalculateDelay(tt.attempt))
		})
	}
}

func TestCalculateDelayJitterStaysInBounds(t *testing.T) {
	p := Policy{InitialDelay: time.Second, BackoffStrategy: BackoffFixed, JitterFactor: 0.5}
	for i := 0; i < 100; i++ {
		d := p.CalculateDelay(1)
		assert.GreaterOrEqual(t, d, 500*time.Millisecond)
		assert.LessOrEqual(t, d, 1500*time.Millisecond)
	}
}

func TestDoRetriesUntilSuccess(t *testing.T) {
	calls := 0
	got, attempts, err := Do(context.Background(), Policy{MaxRetries: 3}, func(ctx context.Context, attempt int) (string, error) {
		calls++
		if attempt < 2 {
			return "", errors.New("transient")
		}
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, 3, calls)
}

func TestDoStopsOnPermanentError(t *testing.T) {
	permanent := errors.New("bad api key")
	policy := Policy{
		MaxRetries: 5,
		Retryable:  func(err error) bool { return !errors.Is(err, permanent) },
	}

	_, attempts, err := Do(context.Background(), policy, func(ctx context.Context, attempt int) (int, error) {
		return 0, permanent
	})

	assert.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, attempts)
}

func TestDoGivesUpAfterMaxRetries(t *testing.T) {
	_, attempts, err := Do(context.Background(), Policy{MaxRetries: 2}, func(ctx context.Context, attempt int) (int, error) {
		return 0, errors.New("still failing")
	})

	assert.Error(t, err)
	assert.Equal(t, 3, attempts)
}

func TestDoHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	policy := Policy{MaxRetries: 3, InitialDelay: time.Hour, BackoffStrategy: BackoffFixed}

	go cancel()
	_, _, err := Do(ctx, policy, func(ctx context.Context, attempt int) (int, error) {
		return 0, errors.New("fail")
	})

	assert.ErrorIs(t, err, context.Canceled)
}
