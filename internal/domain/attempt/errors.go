package attempt

import "errors"

var (
	// ErrAttemptNotFound Attemptが見つからない
	ErrAttemptNotFound = errors.New("attempt not found")
)
