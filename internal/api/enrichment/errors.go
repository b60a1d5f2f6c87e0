package enrichment

import (
	"errors"
	"fmt"
)

// ErrQuotaExceeded is the one failure the client hands back to its caller.
var ErrQuotaExceeded = errors.New("generative API quota exceeded")

// QuotaExceededError carries the last rate-limit error after retries ran out.
type QuotaExceededError struct {
	Attempts int
	Err      error
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("generative API quota exceeded after %d attempt(s): %v", e.Attempts, e.Err)
}

func (e *QuotaExceededError) Unwrap() error {
	return e.Err
}

func (e *QuotaExceededError) Is(target error) bool {
	return target == ErrQuotaExceeded
}
