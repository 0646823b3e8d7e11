package engine

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/gridmodel/plexosdb/internal/schema"
	"github.com/gridmodel/plexosdb/internal/storage"
	"github.com/gridmodel/plexosdb/internal/xmlcodec"
)

// FromXML creates a fresh database at dsn, creates the table structure
// (but, unlike Open's newDB path, does not seed the Class/Collection
// catalog — the document itself supplies those rows, including the
// System singleton object), and loads every table's rows from the
// MasterDataSet document at path. XML tags that do not match a
// schema.Table are skipped rather than failing the import, since a
// document may carry tables this engine does not model. Returns the
// opened Engine positioned after the import.
func FromXML(ctx context.Context, dsn, path string) (*Engine, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %q: %v", ErrIO, path, err)
	}
	defer f.Close()

	handler, err := xmlcodec.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIO, err)
	}

	e, err := Open(ctx, dsn, false)
	if err != nil {
		return nil, err
	}
	if err := e.createTables(ctx, ""); err != nil {
		_ = e.Close()
		return nil, err
	}

	err = e.driver.Transaction(ctx, func(scoped *storage.Driver) error {
		for _, table := range schema.AllTables {
			records := handler.GetRecords(table.Name)
			if len(records) == 0 {
				continue
			}
			// An empty column element coerces to nil; treat it like an
			// omitted column so the table's declared default applies.
			for _, rec := range records {
				for col, val := range rec {
					if val == nil {
						delete(rec, col)
					}
				}
			}
			for _, group := range groupByKeySet(records) {
				if err := scoped.InsertRecords(ctx, table.Name, group); err != nil {
					return fmt.Errorf("engine: from_xml: table %q: %w", table.Name, err)
				}
			}
		}
		return nil
	})
	if err != nil {
		_ = e.Close()
		return nil, err
	}
	return e, nil
}

// ToXML writes every table this engine maintains to a MasterDataSet
// document at path, one element per row tagged with the table name.
func (e *Engine) ToXML(ctx context.Context, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: create %q: %v", ErrIO, path, err)
	}
	defer f.Close()
	return e.writeXML(ctx, f)
}

func (e *Engine) writeXML(ctx context.Context, w io.Writer) error {
	handler := xmlcodec.NewHandler()
	for _, table := range schema.AllTables {
		rows, err := e.driver.FetchAllDict(ctx, fmt.Sprintf("SELECT * FROM %s", table.Name))
		if err != nil {
			return fmt.Errorf("engine: to_xml: table %q: %w", table.Name, err)
		}
		if len(rows) == 0 {
			continue
		}
		columnTypes, err := e.columnTypes(ctx, table.Name)
		if err != nil {
			return err
		}
		handler.CreateTableElement(rows, columnTypes, table.Name)
	}
	if err := handler.ToXML(w); err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	return nil
}

// columnTypes reads table's declared column types via PRAGMA table_info,
// the detail CreateTableElement needs to render BIT columns as
// "true"/"false" rather than "1"/"0".
func (e *Engine) columnTypes(ctx context.Context, table string) (map[string]string, error) {
	rows, err := e.driver.FetchAllDict(ctx, fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return nil, fmt.Errorf("engine: to_xml: column types for %q: %w", table, err)
	}
	out := make(map[string]string, len(rows))
	for _, row := range rows {
		name, _ := row["name"].(string)
		typ, _ := row["type"].(string)
		out[name] = typ
	}
	return out, nil
}

// groupByKeySet partitions records into runs of identical key sets, the
// grouping InsertRecords requires since sibling XML elements may have
// omitted different columns.
func groupByKeySet(records []map[string]any) [][]map[string]any {
	var groups [][]map[string]any
	keySets := []map[string]bool{}

	for _, rec := range records {
		keys := make(map[string]bool, len(rec))
		for k := range rec {
			keys[k] = true
		}
		placed := false
		for i, ks := range keySets {
			if sameKeys(ks, keys) {
				groups[i] = append(groups[i], rec)
				placed = true
				break
			}
		}
		if !placed {
			groups = append(groups, []map[string]any{rec})
			keySets = append(keySets, keys)
		}
	}
	return groups
}

func sameKeys(a, b map[string]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if !b[k] {
			return false
		}
	}
	return true
}
