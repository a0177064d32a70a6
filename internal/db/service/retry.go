package service

import (
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// maxConflictRetries bounds how often a conflicting mutation is retried
// before the conflict is surfaced to the caller.
const maxConflictRetries = 5

// RetryOnConflict runs fn, retrying with exponential backoff while it
// fails with ErrVersionConflict. Any other error aborts immediately.
// Mutations roll back completely on conflict, so rerunning fn is safe.
func RetryOnConflict(fn func() error) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 10 * time.Millisecond
	bo.MaxInterval = 250 * time.Millisecond

	return backoff.Retry(func() error {
		err := fn()
		if err == nil {
			return nil
		}
		if errors.Is(err, ErrVersionConflict) {
			return err
		}
		return backoff.Permanent(err)
	}, backoff.WithMaxRetries(bo, maxConflictRetries))
}
