package engine

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/gridmodel/plexosdb/internal/schema"
)

func TestToXMLThenFromXMLRoundTrip(t *testing.T) {
	h := newEngineTestHelper(t)
	h.addObject(schema.ClassGenerator, "gen1")
	h.seedProperty(schema.CollectionGenerators, schema.ClassSystem, schema.ClassGenerator, "Max Capacity")
	if _, err := h.e.AddProperty(h.ctx, schema.ClassGenerator, "gen1", "Max Capacity", 500, AddPropertyOptions{}); err != nil {
		t.Fatalf("AddProperty failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "export.xml")
	if err := h.e.ToXML(h.ctx, path); err != nil {
		t.Fatalf("ToXML failed: %v", err)
	}

	reimported, err := FromXML(context.Background(), "", path)
	if err != nil {
		t.Fatalf("FromXML failed: %v", err)
	}
	t.Cleanup(func() { _ = reimported.Close() })

	rows, err := reimported.Driver().Query(context.Background(), "SELECT name FROM t_object WHERE class_id = (SELECT class_id FROM t_class WHERE name = ?)", string(schema.ClassGenerator))
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	found := false
	for _, row := range rows {
		if row[0] == "gen1" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected gen1 to survive the XML round trip, got rows %v", rows)
	}
}
