package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryOnConflictEventuallySucceeds(t *testing.T) {
	attempts := 0
	err := RetryOnConflict(func() error {
		attempts++
		if attempts < 3 {
			return ErrVersionConflict
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestRetryOnConflictGivesUp(t *testing.T) {
	attempts := 0
	err := RetryOnConflict(func() error {
		attempts++
		return ErrVersionConflict
	})
	assert.ErrorIs(t, err, ErrVersionConflict)
	assert.Equal(t, maxConflictRetries+1, attempts)
}

func TestRetryOnConflictStopsOnOtherErrors(t *testing.T) {
	attempts := 0
	boom := errors.New("boom")
	err := RetryOnConflict(func() error {
		attempts++
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, attempts, "non-conflict errors are not retried")
}
