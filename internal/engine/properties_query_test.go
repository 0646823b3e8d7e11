package engine

import (
	"testing"

	"github.com/gridmodel/plexosdb/internal/schema"
)

func TestGetObjectPropertiesMergesTextsTagsAndScenario(t *testing.T) {
	h := newEngineTestHelper(t)
	h.addObject(schema.ClassGenerator, "gen1")
	h.seedProperty(schema.CollectionGenerators, schema.ClassSystem, schema.ClassGenerator, "Max Capacity")

	dataID, err := h.e.AddProperty(h.ctx, schema.ClassGenerator, "gen1", "Max Capacity", 500, AddPropertyOptions{
		Scenario: "High Load",
		Texts:    map[schema.Class]string{schema.ClassDataFile: "notes.csv"},
	})
	if err != nil {
		t.Fatalf("AddProperty failed: %v", err)
	}

	records, err := h.e.GetObjectProperties(h.ctx, schema.ClassGenerator, "gen1", GetObjectPropertiesOptions{})
	if err != nil {
		t.Fatalf("GetObjectProperties failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("GetObjectProperties returned %d records, want 1", len(records))
	}
	rec := records[0]
	if rec.DataID != dataID {
		t.Errorf("DataID = %d, want %d", rec.DataID, dataID)
	}
	if rec.Property != "Max Capacity" {
		t.Errorf("Property = %q, want %q", rec.Property, "Max Capacity")
	}
	if rec.Value != int64(500) {
		t.Errorf("Value = %v, want int64(500)", rec.Value)
	}
	if rec.Scenario != "High Load" {
		t.Errorf("Scenario = %q, want %q", rec.Scenario, "High Load")
	}
	if len(rec.Texts) != 1 || rec.Texts[0] != "notes.csv" {
		t.Errorf("Texts = %v, want [notes.csv]", rec.Texts)
	}
}

func TestGetObjectPropertiesFailsWhenNoneMatch(t *testing.T) {
	h := newEngineTestHelper(t)
	h.addObject(schema.ClassGenerator, "gen1")

	_, err := h.e.GetObjectProperties(h.ctx, schema.ClassGenerator, "gen1", GetObjectPropertiesOptions{})
	if err == nil {
		t.Fatal("expected ErrNoProperties for an object with no Data rows")
	}
}
