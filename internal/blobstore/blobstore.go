// Package blobstore fetches raw EDI documents by bucket and object name.
package blobstore

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound means the object does not exist.
var ErrNotFound = errors.New("object not found")

// Provider returns the raw bytes of one stored object.
type Provider interface {
	Fetch(ctx context.Context, bucket, name string) ([]byte, error)
}

// RetryableError indicates a transient failure that can be retried.
type RetryableError struct {
	StatusCode int
	Message    string
}

func (e *RetryableError) Error() string {
	if e.StatusCode == 0 {
		return "retryable error: " + truncate(e.Message, 200)
	}
	return fmt.Sprintf("retryable error (status %d): %s", e.StatusCode, truncate(e.Message, 200))
}

func (e *RetryableError) Retryable() bool { return true }

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
