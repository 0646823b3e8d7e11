package storage

import (
	"context"
	"fmt"

	sqlite3 "github.com/ncruces/go-sqlite3"
)

// Backup copies the whole database to path via the engine's native backup
// API. On-disk backups flush the WAL first so the copy reflects every
// committed write.
func (d *Driver) Backup(ctx context.Context, path string) error {
	if !d.inMemory {
		if _, err := d.db.ExecContext(ctx, "PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
			return fmt.Errorf("%w: flush wal before backup: %v", ErrIO, err)
		}
	}

	conn, err := d.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("%w: acquire connection for backup: %v", ErrIO, err)
	}
	defer conn.Close()

	err = conn.Raw(func(driverConn any) error {
		raw, ok := driverConn.(*sqlite3.Conn)
		if !ok {
			return fmt.Errorf("storage: unexpected driver connection type %T", driverConn)
		}
		return raw.Backup("main", path)
	})
	if err != nil {
		return fmt.Errorf("%w: backup to %q: %v", ErrIO, path, err)
	}
	return nil
}

// Optimize runs PRAGMA optimize, ANALYZE, then VACUUM in sequence. VACUUM
// cannot run inside an open transaction, so Optimize commits the current
// scope first if one is open.
func (d *Driver) Optimize(ctx context.Context) error {
	if d.tx != nil {
		tx := d.tx
		d.tx = nil
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("storage: optimize: commit open transaction before vacuum: %w", err)
		}
	}

	for _, stmt := range []string{"PRAGMA optimize", "ANALYZE", "VACUUM"} {
		if _, err := d.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("storage: optimize: %s: %w", stmt, err)
		}
	}
	return nil
}
