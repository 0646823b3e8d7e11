package engine

import (
	"context"
	"testing"

	"github.com/gridmodel/plexosdb/internal/schema"
)

// engineTestHelper provides test setup and convenience methods shared
// across this package's test files.
type engineTestHelper struct {
	t   *testing.T
	ctx context.Context
	e   *Engine
}

func newEngineTestHelper(t *testing.T) *engineTestHelper {
	t.Helper()
	e, err := Open(context.Background(), "", true)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = e.Close() })
	return &engineTestHelper{t: t, ctx: context.Background(), e: e}
}

// seedProperty returns the id of the Property catalog row for name under
// the given collection, inserting one if the fixed bootstrap catalog
// doesn't already carry it — letting tests ask for whatever property
// vocabulary they need regardless of what seedProperties ships with.
func (h *engineTestHelper) seedProperty(coll schema.Collection, parentClass, childClass schema.Class, name string) int64 {
	h.t.Helper()
	collectionID, err := h.e.GetCollectionID(h.ctx, coll, parentClass, childClass)
	if err != nil {
		h.t.Fatalf("GetCollectionID failed: %v", err)
	}
	row, err := h.e.driver.FetchOne(h.ctx, "SELECT property_id FROM t_property WHERE name = ? AND collection_id = ?", name, collectionID)
	if err != nil {
		h.t.Fatalf("seed property %q: lookup failed: %v", name, err)
	}
	if row != nil {
		return row[0].(int64)
	}
	res, err := h.e.driver.Execute(h.ctx, "INSERT INTO t_property (name, collection_id) VALUES (?, ?)", name, collectionID)
	if err != nil {
		h.t.Fatalf("seed property %q failed: %v", name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		h.t.Fatalf("seed property %q: last insert id failed: %v", name, err)
	}
	return id
}

func (h *engineTestHelper) addObject(class schema.Class, name string) int64 {
	h.t.Helper()
	id, err := h.e.AddObject(h.ctx, class, name, AddObjectOptions{})
	if err != nil {
		h.t.Fatalf("AddObject(%q, %q) failed: %v", class, name, err)
	}
	return id
}

func TestCreateSchemaSeedsCatalog(t *testing.T) {
	h := newEngineTestHelper(t)

	rows, err := h.e.driver.Query(h.ctx, "SELECT COUNT(*) FROM t_class")
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if rows[0][0] != int64(len(schema.AllClasses)) {
		t.Errorf("t_class count = %v, want %d", rows[0][0], len(schema.AllClasses))
	}

	exists, err := h.e.CheckObjectExists(h.ctx, schema.ClassSystem, "System")
	if err != nil {
		t.Fatalf("CheckObjectExists failed: %v", err)
	}
	if !exists {
		t.Error("expected the System singleton object to exist after CreateSchema")
	}
}

func TestVersionReturnsEmptyWhenUnset(t *testing.T) {
	h := newEngineTestHelper(t)

	v, err := h.e.Version(h.ctx)
	if err != nil {
		t.Fatalf("Version failed: %v", err)
	}
	if v != "" {
		t.Errorf("Version = %q, want empty (t_config has no Version row yet)", v)
	}
}

func TestVersionTupleParsesDottedIntegers(t *testing.T) {
	h := newEngineTestHelper(t)

	if _, err := h.e.driver.Execute(h.ctx, "INSERT INTO t_config (element, value) VALUES ('Version', '8.300')"); err != nil {
		t.Fatalf("seed version row failed: %v", err)
	}

	tuple, err := h.e.VersionTuple(h.ctx)
	if err != nil {
		t.Fatalf("VersionTuple failed: %v", err)
	}
	want := []int{8, 300}
	if len(tuple) != len(want) || tuple[0] != want[0] || tuple[1] != want[1] {
		t.Errorf("VersionTuple = %v, want %v", tuple, want)
	}
}
