package storage

import (
	"context"
	"fmt"

	sqlite3 "github.com/ncruces/go-sqlite3"

	"github.com/gridmodel/plexosdb/internal/coerce"
)

// AddCollation registers a string collation under name on this Driver's
// connection, usable in SQL as COLLATE name. Open registers
// coerce.NoSpaceCollate under coerce.NoSpaceCollationName; WrapExisting
// does not. AddCollation is exposed separately so tests and callers can
// add others.
func (d *Driver) AddCollation(ctx context.Context, name string, cmp func(a, b string) int) error {
	conn, err := d.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("storage: add_collation %q: %w", name, err)
	}
	defer conn.Close()

	err = conn.Raw(func(driverConn any) error {
		raw, ok := driverConn.(*sqlite3.Conn)
		if !ok {
			return fmt.Errorf("storage: unexpected driver connection type %T", driverConn)
		}
		return raw.CreateCollation(name, cmp)
	})
	if err != nil {
		return fmt.Errorf("storage: add_collation %q: %w", name, err)
	}
	return nil
}

// registerDefaultCollations wires the engine's no_space collation into a
// freshly opened Driver.
func (d *Driver) registerDefaultCollations(ctx context.Context) error {
	return d.AddCollation(ctx, coerce.NoSpaceCollationName, coerce.NoSpaceCollate)
}
