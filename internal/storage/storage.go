// Package storage wraps an embedded SQL engine with the connection
// lifecycle, PRAGMA tuning, transaction scoping, and row-projection
// helpers the data engine is built on. It never interprets the schema it
// runs — callers supply table names, columns, and DDL scripts as opaque
// strings.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gofrs/flock"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// driverName is the database/sql driver registered by the blank-imported
// go-sqlite3/driver package above.
const driverName = "sqlite3"

// Driver owns one connection pair (*sql.DB, and an optional *sql.Tx while a
// transaction scope is open) to an embedded relational database, plus the
// advisory file lock held for the lifetime of an on-disk Driver.
type Driver struct {
	db       *sql.DB
	tx       *sql.Tx
	inMemory bool
	path     string
	lock     *flock.Flock
}

// Open constructs a Driver. dsn selects the mode: "" or "none" selects an
// in-memory database; any other value is treated as a filesystem path,
// created if it does not yet exist. PRAGMAs are applied immediately,
// tuned per mode.
func Open(ctx context.Context, dsn string) (*Driver, error) {
	inMemory := dsn == "" || dsn == "none"

	var fileLock *flock.Flock
	if !inMemory {
		if dir := filepath.Dir(dsn); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("storage: create database directory: %w", err)
			}
		}
		fileLock = flock.New(dsn + ".lock")
		locked, err := fileLock.TryLock()
		if err != nil {
			return nil, fmt.Errorf("storage: acquire database lock: %w", err)
		}
		if !locked {
			return nil, fmt.Errorf("storage: database %q is in use by another process", dsn)
		}
	}

	connDSN := dsn
	if inMemory {
		connDSN = ":memory:"
	}
	connDSN += "?_txlock=immediate"
	db, err := sql.Open(driverName, connDSN)
	if err != nil {
		if fileLock != nil {
			_ = fileLock.Unlock()
		}
		return nil, fmt.Errorf("storage: open %q: %w", dsn, err)
	}
	// A single pooled connection for the Driver's lifetime: ":memory:"
	// would otherwise hand out a fresh empty database per connection, and
	// a registered collation is only visible on the connection it was
	// created on.
	db.SetMaxOpenConns(1)

	d := &Driver{db: db, inMemory: inMemory, path: dsn, lock: fileLock}
	if err := d.applyPragmas(ctx); err != nil {
		_ = d.Close()
		return nil, err
	}
	if err := d.registerDefaultCollations(ctx); err != nil {
		_ = d.Close()
		return nil, err
	}
	return d, nil
}

// WrapExisting adopts an already-open *sql.DB (the "existing handle"
// construction mode). The caller is responsible for having applied any
// PRAGMAs it needs; WrapExisting does not re-tune the connection.
func WrapExisting(db *sql.DB, inMemory bool) *Driver {
	return &Driver{db: db, inMemory: inMemory}
}

func (d *Driver) applyPragmas(ctx context.Context) error {
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA temp_store = MEMORY",
	}
	if d.inMemory {
		pragmas = append(pragmas,
			"PRAGMA synchronous = NORMAL",
			"PRAGMA journal_mode = WAL",
			"PRAGMA mmap_size = 30000000000",
			"PRAGMA cache_size = -20000",
		)
	} else {
		pragmas = append(pragmas,
			"PRAGMA synchronous = FULL",
			"PRAGMA journal_mode = DELETE",
			"PRAGMA mmap_size = 0",
			"PRAGMA cache_size = -2000",
		)
	}
	for _, p := range pragmas {
		if _, err := d.db.ExecContext(ctx, p); err != nil {
			return fmt.Errorf("storage: apply %q: %w", p, err)
		}
	}
	return nil
}

// Close rolls back any open transaction, flushes an on-disk connection,
// and releases the handle and advisory lock. Close is idempotent.
func (d *Driver) Close() error {
	if d.tx != nil {
		_ = d.tx.Rollback()
		d.tx = nil
	}
	var err error
	if d.db != nil {
		err = d.db.Close()
		d.db = nil
	}
	if d.lock != nil {
		if unlockErr := d.lock.Unlock(); unlockErr != nil && err == nil {
			err = unlockErr
		}
	}
	return err
}

// InMemory reports whether this Driver was opened in in-memory mode.
func (d *Driver) InMemory() bool { return d.inMemory }

// execer is satisfied by both *sql.DB and *sql.Tx; Driver dispatches
// through it so every write path works identically inside or outside a
// transaction scope.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (d *Driver) execer() execer {
	if d.tx != nil {
		return d.tx
	}
	return d.db
}

// busyRetryBackoff bounds how long a write waits on SQLITE_BUSY / "database
// is locked" contention from a second process sharing the same on-disk
// file before giving up.
func busyRetryBackoff() backoff.BackOff {
	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 5 * time.Second
	return bo
}
