package engine

import (
	"testing"

	"github.com/google/uuid"

	"github.com/gridmodel/plexosdb/internal/schema"
)

func TestAddPropertiesFromRecordsInsertsAndSkipsUnknownProperty(t *testing.T) {
	h := newEngineTestHelper(t)
	h.addObject(schema.ClassGenerator, "gen1")
	h.addObject(schema.ClassGenerator, "gen2")
	h.seedProperty(schema.CollectionGenerators, schema.ClassSystem, schema.ClassGenerator, "Max Capacity")

	err := h.e.AddPropertiesFromRecords(h.ctx, []map[string]any{
		{objectNameKey: "gen1", "Max Capacity": 500, "Not A Property": 1},
		{objectNameKey: "gen2", "Max Capacity": 750},
	}, schema.ClassGenerator, AddPropertiesFromRecordsOptions{Collection: schema.CollectionGenerators})
	if err != nil {
		t.Fatalf("AddPropertiesFromRecords failed: %v", err)
	}

	rows, err := h.e.driver.Query(h.ctx, "SELECT COUNT(*) FROM t_data")
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if rows[0][0] != int64(2) {
		t.Errorf("t_data count = %v, want 2 (unknown property must be silently skipped)", rows[0][0])
	}
}

func TestAddPropertiesFromRecordsFailsOnMissingObject(t *testing.T) {
	h := newEngineTestHelper(t)
	h.seedProperty(schema.CollectionGenerators, schema.ClassSystem, schema.ClassGenerator, "Max Capacity")

	err := h.e.AddPropertiesFromRecords(h.ctx, []map[string]any{
		{objectNameKey: "ghost", "Max Capacity": 500},
	}, schema.ClassGenerator, AddPropertiesFromRecordsOptions{Collection: schema.CollectionGenerators})
	if err == nil {
		t.Fatal("expected ErrMissingKey for a record naming an object that does not exist")
	}
}

func TestAddPropertiesFromRecordsSkipsObjectWithoutMembership(t *testing.T) {
	h := newEngineTestHelper(t)
	h.seedProperty(schema.CollectionGenerators, schema.ClassSystem, schema.ClassGenerator, "Max Capacity")

	classID, err := h.e.GetClassID(h.ctx, schema.ClassGenerator)
	if err != nil {
		t.Fatalf("GetClassID failed: %v", err)
	}
	// Insert the object directly, bypassing AddObject so it never receives
	// the conventional system membership.
	if _, err := h.e.driver.Execute(h.ctx,
		"INSERT INTO t_object (name, class_id, description, guid) VALUES (?, ?, '', ?)",
		"orphan", classID, uuid.NewString()); err != nil {
		t.Fatalf("seed orphan object failed: %v", err)
	}

	err = h.e.AddPropertiesFromRecords(h.ctx, []map[string]any{
		{objectNameKey: "orphan", "Max Capacity": 500},
	}, schema.ClassGenerator, AddPropertiesFromRecordsOptions{Collection: schema.CollectionGenerators})
	if err != nil {
		t.Fatalf("AddPropertiesFromRecords failed: %v", err)
	}

	rows, err := h.e.driver.Query(h.ctx, "SELECT COUNT(*) FROM t_data")
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if rows[0][0] != int64(0) {
		t.Errorf("t_data count = %v, want 0 (membership-less object must be silently skipped)", rows[0][0])
	}
}
