package engine

import (
	"testing"

	"github.com/gridmodel/plexosdb/internal/schema"
)

func TestCopyObjectClonesMembershipsAndProperties(t *testing.T) {
	h := newEngineTestHelper(t)
	h.addObject(schema.ClassGenerator, "gen1")
	h.addObject(schema.ClassFuel, "coal")
	h.seedProperty(schema.CollectionGenerators, schema.ClassSystem, schema.ClassGenerator, "Max Capacity")
	if _, err := h.e.AddMembership(h.ctx, schema.ClassGenerator, schema.ClassFuel, "gen1", "coal", schema.CollectionFuels); err != nil {
		t.Fatalf("AddMembership failed: %v", err)
	}
	if _, err := h.e.AddProperty(h.ctx, schema.ClassGenerator, "gen1", "Max Capacity", 500, AddPropertyOptions{}); err != nil {
		t.Fatalf("AddProperty failed: %v", err)
	}

	newID, err := h.e.CopyObject(h.ctx, schema.ClassGenerator, "gen1", "gen1-copy", CopyObjectOptions{CopyProperties: true})
	if err != nil {
		t.Fatalf("CopyObject failed: %v", err)
	}
	if newID == 0 {
		t.Fatal("CopyObject returned a zero object id")
	}

	hasSystem, err := h.e.CheckMembershipExists(h.ctx, "System", "gen1-copy", schema.CollectionGenerators)
	if err != nil {
		t.Fatalf("CheckMembershipExists failed: %v", err)
	}
	if !hasSystem {
		t.Error("expected the copy's own system membership to still exist")
	}

	hasFuel, err := h.e.CheckMembershipExists(h.ctx, "gen1-copy", "coal", schema.CollectionFuels)
	if err != nil {
		t.Fatalf("CheckMembershipExists failed: %v", err)
	}
	if !hasFuel {
		t.Error("expected CopyObject to have recreated the gen1 -> coal membership for the copy")
	}

	records, err := h.e.GetObjectProperties(h.ctx, schema.ClassGenerator, "gen1-copy", GetObjectPropertiesOptions{})
	if err != nil {
		t.Fatalf("GetObjectProperties failed: %v", err)
	}
	if len(records) != 1 || records[0].Value != int64(500) {
		t.Errorf("copy's properties = %v, want one Max Capacity=500 row", records)
	}
}

func TestCopyObjectWithoutCopyPropertiesLeavesDataEmpty(t *testing.T) {
	h := newEngineTestHelper(t)
	h.addObject(schema.ClassGenerator, "gen1")
	h.seedProperty(schema.CollectionGenerators, schema.ClassSystem, schema.ClassGenerator, "Max Capacity")
	if _, err := h.e.AddProperty(h.ctx, schema.ClassGenerator, "gen1", "Max Capacity", 500, AddPropertyOptions{}); err != nil {
		t.Fatalf("AddProperty failed: %v", err)
	}

	if _, err := h.e.CopyObject(h.ctx, schema.ClassGenerator, "gen1", "gen1-copy", CopyObjectOptions{}); err != nil {
		t.Fatalf("CopyObject failed: %v", err)
	}

	_, err := h.e.GetObjectProperties(h.ctx, schema.ClassGenerator, "gen1-copy", GetObjectPropertiesOptions{})
	if err == nil {
		t.Fatal("expected ErrNoProperties when CopyProperties is false")
	}
}
