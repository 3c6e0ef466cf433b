package autosave

import (
	"errors"
	"fmt"
)

// ErrCommitFailed indicates the persistence service rejected a commit.
// The document stays dirty; the next touch or manual save retries.
var ErrCommitFailed = errors.New("commit failed")

// ErrClosed indicates the scheduler was closed.
var ErrClosed = errors.New("autosave scheduler closed")

// CommitError describes a failed commit.
type CommitError struct {
	DocumentID string
	Trigger    Trigger
	// Attempts is how many saves were tried before giving up.
	Attempts int
	Err      error
}

// Error implements the error interface.
func (e *CommitError) Error() string {
	return fmt.Sprintf("%s commit of %s after %d attempt(s): %v", e.Trigger, e.DocumentID, e.Attempts, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *CommitError) Unwrap() error {
	return e.Err
}

// Is reports ErrCommitFailed so callers need not know the cause.
func (e *CommitError) Is(target error) bool {
	return target == ErrCommitFailed
}
