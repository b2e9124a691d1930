package github

import (
	"errors"
	"fmt"
)

// ErrAlreadyLocked indicates a lock call hit an issue that is already
// locked (HTTP 423). It is a benign terminal state for that one call,
// not a failure of the run.
var ErrAlreadyLocked = errors.New("issue is already locked")

// StatusError reports a terminal API failure, preserving the last status
// code and response body so callers can log them for diagnostics.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("network failure: %s", e.Body)
	}
	return fmt.Sprintf("github api returned status %d: %s", e.StatusCode, e.Body)
}
