package utils_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ladleapp/ladle/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errTemporary = errors.New("temporary error")

func fastRetryOptions() utils.RetryOptions {
	return utils.RetryOptions{
		MaxElapsedTime:  time.Second,
		InitialInterval: time.Millisecond,
		MaxInterval:     5 * time.Millisecond,
		MaxRetries:      3,
	}
}

func TestWithRetry(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		operation     func() func() (int, error)
		expectedCalls int
		expectedErr   error
		expectedValue int
	}{
		{
			name: "succeeds first try",
			operation: func() func() (int, error) {
				return func() (int, error) { return 7, nil }
			},
			expectedCalls: 1,
			expectedValue: 7,
		},
		{
			name: "succeeds after retries",
			operation: func() func() (int, error) {
				count := 0
				return func() (int, error) {
					count++
					if count < 3 {
						return 0, errTemporary
					}
					return 42, nil
				}
			},
			expectedCalls: 3,
			expectedValue: 42,
		},
		{
			name: "fails all retries",
			operation: func() func() (int, error) {
				return func() (int, error) { return 0, errTemporary }
			},
			expectedCalls: 4, // Initial + 3 retries
			expectedErr:   errTemporary,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			calls := 0
			op := tt.operation()

			result, err := utils.WithRetry(context.Background(), func() (int, error) {
				calls++
				return op()
			}, fastRetryOptions())

			if tt.expectedErr != nil {
				require.ErrorIs(t, err, tt.expectedErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expectedValue, result)
			}
			assert.Equal(t, tt.expectedCalls, calls)
		})
	}
}

func TestWithRetryHonorsContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	_, err := utils.WithRetry(ctx, func() (int, error) {
		calls++
		return 0, errTemporary
	}, fastRetryOptions())

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}
