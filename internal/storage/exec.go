package storage

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"
)

// Execute runs one statement outside of an explicit result set. Outside a
// transaction scope it is retried on busy/lock contention and commits
// immediately; inside one, any error is returned without retrying so the
// enclosing Transaction call can roll back.
func (d *Driver) Execute(ctx context.Context, query string, args ...any) (sql.Result, error) {
	var res sql.Result
	run := func() error {
		var err error
		res, err = d.execer().ExecContext(ctx, query, args...)
		return err
	}
	if d.tx != nil {
		if err := run(); err != nil {
			return nil, fmt.Errorf("storage: execute: %w", err)
		}
		return res, nil
	}
	if err := withBusyRetry(ctx, run); err != nil {
		return nil, fmt.Errorf("storage: execute: %w", err)
	}
	return res, nil
}

// ExecuteMany runs query once per row in rows with the same transactional
// and retry semantics as Execute.
func (d *Driver) ExecuteMany(ctx context.Context, query string, rows [][]any) error {
	run := func() error {
		for _, row := range rows {
			if _, err := d.execer().ExecContext(ctx, query, row...); err != nil {
				return err
			}
		}
		return nil
	}
	if d.tx != nil {
		if err := run(); err != nil {
			return fmt.Errorf("storage: executemany: %w", err)
		}
		return nil
	}
	if err := withBusyRetry(ctx, run); err != nil {
		return fmt.Errorf("storage: executemany: %w", err)
	}
	return nil
}

// statementSplit separates a script on ';' terminators; ExecuteScript then
// skips the blank statements produced by trailing separators.
var statementSplit = regexp.MustCompile(`;\s*\n?`)

// ExecuteScript runs a multi-statement SQL script, splitting on ';' with
// empty-statement suppression. It is implicitly wrapped in a transaction
// if none is already active.
func (d *Driver) ExecuteScript(ctx context.Context, script string) error {
	statements := statementSplit.Split(script, -1)

	run := func(exec execer) error {
		for _, stmt := range statements {
			stmt = strings.TrimSpace(stmt)
			if stmt == "" {
				continue
			}
			if _, err := exec.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("storage: executescript: %w", err)
			}
		}
		return nil
	}

	if d.tx != nil {
		return run(d.tx)
	}
	return d.Transaction(ctx, func(scoped *Driver) error {
		return run(scoped.execer())
	})
}

// nonSelectPattern matches the leading keyword of a mutating statement;
// Query rejects any such statement with ErrUsage.
var nonSelectPattern = regexp.MustCompile(`(?i)^\s*(insert|update|delete|create|alter|drop)\b`)

// Query runs a read-only statement and returns every matching row as a
// slice of column values in select-list order. It rejects
// INSERT/UPDATE/DELETE/CREATE/ALTER statements with ErrUsage without
// opening a transaction.
func (d *Driver) Query(ctx context.Context, query string, args ...any) ([][]any, error) {
	if nonSelectPattern.MatchString(query) {
		return nil, fmt.Errorf("%w: query must be read-only, got %q", ErrUsage, query)
	}
	rows, err := d.execer().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: query: %w", err)
	}
	defer rows.Close()
	return scanRows(rows)
}

func scanRows(rows *sql.Rows) ([][]any, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("storage: query columns: %w", err)
	}
	var out [][]any
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("storage: query scan: %w", err)
		}
		out = append(out, vals)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: query rows: %w", err)
	}
	return out, nil
}

func scanRowsAsDicts(rows *sql.Rows) ([]map[string]any, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("storage: query columns: %w", err)
	}
	var out []map[string]any
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("storage: query scan: %w", err)
		}
		rec := make(map[string]any, len(cols))
		for i, c := range cols {
			rec[c] = vals[i]
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: query rows: %w", err)
	}
	return out, nil
}

// FetchAll is an alias for Query kept for parity with the dict-projecting
// variants below.
func (d *Driver) FetchAll(ctx context.Context, query string, args ...any) ([][]any, error) {
	return d.Query(ctx, query, args...)
}

// FetchOne returns the first row only, or (nil, nil) if the query matched
// no rows.
func (d *Driver) FetchOne(ctx context.Context, query string, args ...any) ([]any, error) {
	rows, err := d.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// FetchAllDict runs a read-only query and projects each row as a
// column-name-keyed map.
func (d *Driver) FetchAllDict(ctx context.Context, query string, args ...any) ([]map[string]any, error) {
	if nonSelectPattern.MatchString(query) {
		return nil, fmt.Errorf("%w: query must be read-only, got %q", ErrUsage, query)
	}
	rows, err := d.execer().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: query: %w", err)
	}
	defer rows.Close()
	return scanRowsAsDicts(rows)
}

// FetchOneDict returns the first row as a map, or nil if none matched.
func (d *Driver) FetchOneDict(ctx context.Context, query string, args ...any) (map[string]any, error) {
	rows, err := d.FetchAllDict(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// IterDicts is the lazy, restartable-only-by-recall variant of
// FetchAllDict: it hands the caller one row at a time via yield, stopping
// early if yield returns false. Callers must fully drain or stop before
// issuing another query on the same Driver.
func (d *Driver) IterDicts(ctx context.Context, query string, args []any, yield func(map[string]any) bool) error {
	if nonSelectPattern.MatchString(query) {
		return fmt.Errorf("%w: query must be read-only, got %q", ErrUsage, query)
	}
	rows, err := d.execer().QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("storage: query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return fmt.Errorf("storage: query columns: %w", err)
	}
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return fmt.Errorf("storage: query scan: %w", err)
		}
		rec := make(map[string]any, len(cols))
		for i, c := range cols {
			rec[c] = vals[i]
		}
		if !yield(rec) {
			break
		}
	}
	return rows.Err()
}

// InsertRecords inserts one or more records into table. All records must
// share an identical key set; empty input and heterogeneous key sets are
// rejected with ErrUsage. A nonexistent table is rejected with the
// underlying SQL error instead, since the Driver does not itself know the
// schema.
func (d *Driver) InsertRecords(ctx context.Context, table string, records []map[string]any) error {
	if len(records) == 0 {
		return fmt.Errorf("%w: insert_records requires at least one record", ErrUsage)
	}
	cols := sortedKeys(records[0])
	for _, rec := range records[1:] {
		if !sameKeySet(cols, rec) {
			return fmt.Errorf("%w: insert_records requires identical key sets across records", ErrUsage)
		}
	}

	placeholders := make([]string, len(cols))
	for i := range placeholders {
		placeholders[i] = "?"
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(cols, ", "), strings.Join(placeholders, ", "))

	rows := make([][]any, len(records))
	for i, rec := range records {
		row := make([]any, len(cols))
		for j, c := range cols {
			row[j] = rec[c]
		}
		rows[i] = row
	}
	return d.ExecuteMany(ctx, query, rows)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j-1] > keys[j]; j-- {
			keys[j-1], keys[j] = keys[j], keys[j-1]
		}
	}
	return keys
}

func sameKeySet(cols []string, rec map[string]any) bool {
	if len(rec) != len(cols) {
		return false
	}
	for _, c := range cols {
		if _, ok := rec[c]; !ok {
			return false
		}
	}
	return true
}

// LastInsertRowID returns the rowid of the most recent single-row insert
// executed via res (the sql.Result returned from Execute).
func LastInsertRowID(res sql.Result) (int64, error) {
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: last_insert_rowid: %w", err)
	}
	return id, nil
}
