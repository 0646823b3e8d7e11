package storage

import (
	"context"
	"strings"

	"github.com/cenkalti/backoff/v4"
)

// isBusyError reports whether err is SQLite's single-writer contention
// signal — another process (or another Driver over the same file) holding
// the write lock — as opposed to a constraint violation or syntax error,
// neither of which should ever be retried.
func isBusyError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "database is locked") ||
		strings.Contains(errStr, "sqlite_busy") ||
		strings.Contains(errStr, "busy")
}

// withBusyRetry retries op with exponential backoff only while it fails
// with a busy/locked error; any other error — or success — stops
// immediately. In-memory Drivers never see this error, so the retry loop
// is a no-op single call for them.
func withBusyRetry(ctx context.Context, op func() error) error {
	return backoff.Retry(func() error {
		err := op()
		if err == nil {
			return nil
		}
		if isBusyError(err) {
			return err
		}
		return backoff.Permanent(err)
	}, backoff.WithContext(busyRetryBackoff(), ctx))
}
