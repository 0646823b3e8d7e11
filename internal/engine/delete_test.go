package engine

import (
	"testing"

	"github.com/gridmodel/plexosdb/internal/schema"
)

func TestDeleteObjectCascadesDataAndMemberships(t *testing.T) {
	h := newEngineTestHelper(t)
	h.addObject(schema.ClassGenerator, "gen1")
	h.seedProperty(schema.CollectionGenerators, schema.ClassSystem, schema.ClassGenerator, "Max Capacity")
	dataID, err := h.e.AddProperty(h.ctx, schema.ClassGenerator, "gen1", "Max Capacity", 500, AddPropertyOptions{Scenario: "High Load"})
	if err != nil {
		t.Fatalf("AddProperty failed: %v", err)
	}

	if err := h.e.DeleteObject(h.ctx, schema.ClassGenerator, "gen1", true); err != nil {
		t.Fatalf("DeleteObject failed: %v", err)
	}

	exists, err := h.e.CheckObjectExists(h.ctx, schema.ClassGenerator, "gen1")
	if err != nil {
		t.Fatalf("CheckObjectExists failed: %v", err)
	}
	if exists {
		t.Error("expected gen1 to be gone after DeleteObject")
	}

	row, err := h.e.driver.FetchOne(h.ctx, "SELECT COUNT(*) FROM t_data WHERE data_id = ?", dataID)
	if err != nil {
		t.Fatalf("FetchOne failed: %v", err)
	}
	if row[0] != int64(0) {
		t.Errorf("t_data rows remaining for deleted object's data_id = %v, want 0", row[0])
	}

	hasMembership, err := h.e.CheckMembershipExists(h.ctx, "System", "gen1", schema.CollectionGenerators)
	if err != nil {
		t.Fatalf("CheckMembershipExists failed: %v", err)
	}
	if hasMembership {
		t.Error("expected gen1's system membership to be gone after DeleteObject")
	}
}

func TestDeleteObjectRefusesWithoutCascadeWhenReferenced(t *testing.T) {
	h := newEngineTestHelper(t)
	h.addObject(schema.ClassGenerator, "gen1")

	err := h.e.DeleteObject(h.ctx, schema.ClassGenerator, "gen1", false)
	if err == nil {
		t.Fatal("expected ErrUsage when cascade is false and a membership still references the object")
	}

	exists, existsErr := h.e.CheckObjectExists(h.ctx, schema.ClassGenerator, "gen1")
	if existsErr != nil {
		t.Fatalf("CheckObjectExists failed: %v", existsErr)
	}
	if !exists {
		t.Error("a refused DeleteObject must not have removed the object")
	}
}

func TestDeletePropertyLeavesCatalogRowIntact(t *testing.T) {
	h := newEngineTestHelper(t)
	h.addObject(schema.ClassGenerator, "gen1")
	propertyID := h.seedProperty(schema.CollectionGenerators, schema.ClassSystem, schema.ClassGenerator, "Max Capacity")
	if _, err := h.e.AddProperty(h.ctx, schema.ClassGenerator, "gen1", "Max Capacity", 500, AddPropertyOptions{}); err != nil {
		t.Fatalf("AddProperty failed: %v", err)
	}

	if err := h.e.DeleteProperty(h.ctx, schema.ClassGenerator, "gen1", "Max Capacity"); err != nil {
		t.Fatalf("DeleteProperty failed: %v", err)
	}

	_, err := h.e.GetObjectProperties(h.ctx, schema.ClassGenerator, "gen1", GetObjectPropertiesOptions{})
	if err == nil {
		t.Fatal("expected ErrNoProperties after DeleteProperty removed the only Data row")
	}

	row, fetchErr := h.e.driver.FetchOne(h.ctx, "SELECT COUNT(*) FROM t_property WHERE property_id = ?", propertyID)
	if fetchErr != nil {
		t.Fatalf("FetchOne failed: %v", fetchErr)
	}
	if row[0] != int64(1) {
		t.Error("DeleteProperty must leave the Property catalog row in place")
	}
}
