package storage

import (
	"context"
	"testing"
)

// storageTestHelper provides test setup and assertion methods.
type storageTestHelper struct {
	t      *testing.T
	ctx    context.Context
	driver *Driver
}

func newStorageTestHelper(t *testing.T) *storageTestHelper {
	t.Helper()
	d, err := Open(context.Background(), "")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	return &storageTestHelper{t: t, ctx: context.Background(), driver: d}
}

func (h *storageTestHelper) exec(query string, args ...any) {
	h.t.Helper()
	if _, err := h.driver.Execute(h.ctx, query, args...); err != nil {
		h.t.Fatalf("Execute(%q) failed: %v", query, err)
	}
}

func TestOpenInMemoryAppliesPragmas(t *testing.T) {
	h := newStorageTestHelper(t)
	row, err := h.driver.FetchOne(h.ctx, "PRAGMA foreign_keys")
	if err != nil {
		t.Fatalf("FetchOne failed: %v", err)
	}
	if len(row) != 1 || row[0] != int64(1) {
		t.Errorf("foreign_keys = %v, want [1]", row)
	}
}

func TestExecuteAndQueryRoundTrip(t *testing.T) {
	h := newStorageTestHelper(t)
	h.exec("CREATE TABLE widgets (id INTEGER PRIMARY KEY, name TEXT NOT NULL)")
	h.exec("INSERT INTO widgets (name) VALUES (?)", "sprocket")

	rows, err := h.driver.Query(h.ctx, "SELECT id, name FROM widgets")
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(rows) != 1 || rows[0][1] != "sprocket" {
		t.Fatalf("Query = %v, want one row named sprocket", rows)
	}
}

func TestQueryRejectsNonSelect(t *testing.T) {
	h := newStorageTestHelper(t)
	h.exec("CREATE TABLE t_object (object_id INTEGER PRIMARY KEY)")

	_, err := h.driver.Query(h.ctx, "INSERT INTO t_object DEFAULT VALUES")
	if err == nil {
		t.Fatal("expected usage error, got nil")
	}

	rows, qErr := h.driver.Query(h.ctx, "SELECT COUNT(*) FROM t_object")
	if qErr != nil {
		t.Fatalf("follow-up Query failed: %v", qErr)
	}
	if rows[0][0] != int64(0) {
		t.Errorf("t_object count = %v, want 0 (rejected insert must not apply)", rows[0][0])
	}
}

func TestTransactionRollsBackOnError(t *testing.T) {
	h := newStorageTestHelper(t)
	h.exec("CREATE TABLE widgets (id INTEGER PRIMARY KEY, name TEXT UNIQUE)")

	txErr := h.driver.Transaction(h.ctx, func(scoped *Driver) error {
		if _, err := scoped.Execute(h.ctx, "INSERT INTO widgets (name) VALUES (?)", "a"); err != nil {
			return err
		}
		_, err := scoped.Execute(h.ctx, "INSERT INTO widgets (name) VALUES (?)", "a")
		return err
	})
	if txErr == nil {
		t.Fatal("expected transaction to fail on unique violation")
	}

	rows, err := h.driver.Query(h.ctx, "SELECT COUNT(*) FROM widgets")
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if rows[0][0] != int64(0) {
		t.Errorf("widgets count = %v, want 0 (transaction must roll back fully)", rows[0][0])
	}
}

func TestInsertRecordsRejectsHeterogeneousKeys(t *testing.T) {
	h := newStorageTestHelper(t)
	h.exec("CREATE TABLE widgets (id INTEGER PRIMARY KEY, name TEXT, weight REAL)")

	err := h.driver.InsertRecords(h.ctx, "widgets", []map[string]any{
		{"name": "a"},
		{"name": "b", "weight": 1.5},
	})
	if err == nil {
		t.Fatal("expected ErrUsage for heterogeneous key sets")
	}
}

func TestInsertRecordsInsertsAllRows(t *testing.T) {
	h := newStorageTestHelper(t)
	h.exec("CREATE TABLE widgets (id INTEGER PRIMARY KEY, name TEXT)")

	err := h.driver.InsertRecords(h.ctx, "widgets", []map[string]any{
		{"name": "a"},
		{"name": "b"},
	})
	if err != nil {
		t.Fatalf("InsertRecords failed: %v", err)
	}

	rows, err := h.driver.Query(h.ctx, "SELECT COUNT(*) FROM widgets")
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if rows[0][0] != int64(2) {
		t.Errorf("widgets count = %v, want 2", rows[0][0])
	}
}

func TestNoSpaceCollationIsRegistered(t *testing.T) {
	h := newStorageTestHelper(t)
	h.exec("CREATE TABLE props (name TEXT COLLATE NOSPACE)")
	h.exec("INSERT INTO props (name) VALUES (?)", "Max Capacity")

	rows, err := h.driver.Query(h.ctx, "SELECT COUNT(*) FROM props WHERE name = ?", "MaxCapacity")
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if rows[0][0] != int64(1) {
		t.Errorf("NOSPACE lookup count = %v, want 1", rows[0][0])
	}
}
