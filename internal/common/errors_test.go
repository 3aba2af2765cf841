package common

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserError(t *testing.T) {
	inner := errors.New("disk full")
	err := NewUserError("Purchase could not be saved", inner)

	assert.Equal(t, "Purchase could not be saved: disk full", err.Error())
	assert.ErrorIs(t, err, inner)

	var userErr *UserError
	require.ErrorAs(t, err, &userErr)
	assert.Equal(t, "Purchase could not be saved", userErr.UserMessage)
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "lookup failure is retryable",
			err:  fmt.Errorf("%w: barcode 123", ErrLookupFailed),
			want: true,
		},
		{
			name: "deadline exceeded is retryable",
			err:  context.DeadlineExceeded,
			want: true,
		},
		{
			name: "explicitly retryable",
			err:  &RetryableError{Err: errors.New("timeout"), Retryable: true},
			want: true,
		},
		{
			name: "explicitly not retryable",
			err:  &RetryableError{Err: errors.New("bad input"), Retryable: false},
			want: false,
		},
		{
			name: "plain error is not retryable",
			err:  errors.New("boom"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}
