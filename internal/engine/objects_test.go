package engine

import (
	"testing"

	"github.com/gridmodel/plexosdb/internal/schema"
)

func TestAddObjectCreatesSystemMembership(t *testing.T) {
	h := newEngineTestHelper(t)

	h.addObject(schema.ClassGenerator, "gen1")

	has, err := h.e.CheckMembershipExists(h.ctx, "System", "gen1", schema.CollectionGenerators)
	if err != nil {
		t.Fatalf("CheckMembershipExists failed: %v", err)
	}
	if !has {
		t.Error("AddObject must insert the conventional system membership")
	}
}

func TestAddObjectDuplicateNameFails(t *testing.T) {
	h := newEngineTestHelper(t)
	h.addObject(schema.ClassGenerator, "gen1")

	_, err := h.e.AddObject(h.ctx, schema.ClassGenerator, "gen1", AddObjectOptions{})
	if err == nil {
		t.Fatal("expected ErrNameInvalid for a duplicate object name")
	}
}

func TestAddObjectsBulkCreatesEveryMembership(t *testing.T) {
	h := newEngineTestHelper(t)

	ids, err := h.e.AddObjects(h.ctx, []string{"gen1", "gen2", "gen3"}, schema.ClassGenerator, "")
	if err != nil {
		t.Fatalf("AddObjects failed: %v", err)
	}
	if len(ids) != 3 {
		t.Fatalf("AddObjects returned %d ids, want 3", len(ids))
	}
	for _, name := range []string{"gen1", "gen2", "gen3"} {
		has, err := h.e.CheckMembershipExists(h.ctx, "System", name, schema.CollectionGenerators)
		if err != nil {
			t.Fatalf("CheckMembershipExists(%q) failed: %v", name, err)
		}
		if !has {
			t.Errorf("AddObjects must insert a system membership for %q", name)
		}
	}
}

func TestAddObjectResolvesCategoryByName(t *testing.T) {
	h := newEngineTestHelper(t)

	_, err := h.e.AddObject(h.ctx, schema.ClassGenerator, "gen1", AddObjectOptions{Category: "Thermal"})
	if err != nil {
		t.Fatalf("AddObject failed: %v", err)
	}
	categoryID, err := h.e.GetCategoryID(h.ctx, schema.ClassGenerator, "Thermal")
	if err != nil {
		t.Fatalf("GetCategoryID failed: %v", err)
	}
	if categoryID == 0 {
		t.Error("expected AddObject to have created the Thermal category")
	}
}
