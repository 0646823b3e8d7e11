// Package engine is the typed data-engine façade: it resolves domain
// names (classes, collections, objects) to the integer ids the relational
// store uses, and implements the ingestion, retrieval, copy, and deletion
// algorithms over the Storage Driver, Schema Catalog, Value Coercion, and
// XML Codec packages.
package engine

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/gridmodel/plexosdb/internal/storage"
)

// Engine is the typed API over one database. The Data Engine exclusively
// owns its Storage Driver for the Engine's lifetime.
type Engine struct {
	driver *storage.Driver
}

// Open constructs an Engine over dsn ("" or "none" for in-memory, else a
// filesystem path). When newDB is true, a fresh schema is created and the
// Class/Collection catalog seeded; otherwise the existing database is
// adopted as-is. Open does not read the stored version; Version and
// VersionTuple read it from t_config on each call.
func Open(ctx context.Context, dsn string, newDB bool) (*Engine, error) {
	d, err := storage.Open(ctx, dsn)
	if err != nil {
		return nil, err
	}
	e := &Engine{driver: d}
	if newDB {
		if err := e.CreateSchema(ctx, ""); err != nil {
			_ = d.Close()
			return nil, err
		}
	}
	return e, nil
}

// OpenWithHandle adopts an already-open *sql.DB rather than opening a new
// one — for callers embedding this engine in a process that already owns
// a connection pool (a pooled WAL-mode on-disk handle shared with other
// subsystems, or a driver-level test harness). The caller is responsible
// for having applied any PRAGMAs it needs; the engine assumes a schema is
// already present and does not run CreateSchema.
func OpenWithHandle(db *sql.DB, inMemory bool) *Engine {
	return &Engine{driver: storage.WrapExisting(db, inMemory)}
}

// Close releases the underlying Storage Driver.
func (e *Engine) Close() error {
	return e.driver.Close()
}

// Driver exposes the underlying Storage Driver for callers (tests, the
// XML import/export paths) that need direct access.
func (e *Engine) Driver() *storage.Driver {
	return e.driver
}

// CreateSchema executes either the packaged schema DDL (when script is
// empty) or the caller-supplied script via ExecuteScript, then seeds the
// Class/Collection catalog and the system singleton object. The DDL
// itself is opaque to the engine; it only needs the table and column
// names the rest of this package references.
func (e *Engine) CreateSchema(ctx context.Context, script string) error {
	if err := e.createTables(ctx, script); err != nil {
		return err
	}
	return e.driver.Transaction(ctx, func(scoped *storage.Driver) error {
		return seedCatalog(ctx, scoped)
	})
}

// createTables runs the DDL alone, without seeding the Class/Collection
// catalog — used by FromXML, which supplies its own catalog rows from
// the document rather than the fixed bootstrap set.
func (e *Engine) createTables(ctx context.Context, script string) error {
	if script == "" {
		script = schemaDDL
	}
	if err := e.driver.ExecuteScript(ctx, script); err != nil {
		return fmt.Errorf("engine: create_schema: %w", err)
	}
	return nil
}

// Version reports the dotted-integer version string stored in t_config
// under element='Version', or "" if absent.
func (e *Engine) Version(ctx context.Context) (string, error) {
	row, err := e.driver.FetchOne(ctx, "SELECT value FROM t_config WHERE element = ?", "Version")
	if err != nil {
		return "", fmt.Errorf("engine: version: %w", err)
	}
	if row == nil {
		return "", nil
	}
	v, _ := row[0].(string)
	return v, nil
}

// Backup copies the whole database to path via the Storage Driver's native
// backup API.
func (e *Engine) Backup(ctx context.Context, path string) error {
	return e.driver.Backup(ctx, path)
}

// Optimize runs the Storage Driver's PRAGMA optimize / ANALYZE / VACUUM
// maintenance sequence, committing any open transaction scope first.
func (e *Engine) Optimize(ctx context.Context) error {
	return e.driver.Optimize(ctx)
}

// VersionTuple reads the same Version element as Version but parses it
// into its dotted-integer components, the form spec calls for when a
// caller needs to compare versions numerically rather than lexically.
func (e *Engine) VersionTuple(ctx context.Context) ([]int, error) {
	v, err := e.Version(ctx)
	if err != nil {
		return nil, err
	}
	return parseVersion(v)
}

// parseVersion splits a dotted-integer version string into its integer
// components, for callers that need to compare versions numerically.
func parseVersion(v string) ([]int, error) {
	if v == "" {
		return nil, nil
	}
	parts := strings.Split(v, ".")
	out := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("engine: malformed version %q: %w", v, err)
		}
		out[i] = n
	}
	return out, nil
}
