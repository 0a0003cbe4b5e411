// Package retry provides a bounded retry combinator for operations that can
// fail transiently.
package retry

// Do invokes fn up to maxAttempts times, stopping early when fn succeeds or
// returns an error that retryable reports as permanent. The last error is
// returned when all attempts are exhausted.
func Do(maxAttempts int, retryable func(error) bool, fn func() error) error {
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err = fn()
		if err == nil {
			return nil
		}
		if retryable != nil && !retryable(err) {
			return err
		}
	}
	return err
}
