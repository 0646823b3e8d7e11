package engine

import (
	"testing"

	"github.com/gridmodel/plexosdb/internal/schema"
)

func TestAddMembershipCreatesResolvableEdge(t *testing.T) {
	h := newEngineTestHelper(t)
	h.addObject(schema.ClassGenerator, "gen1")
	h.addObject(schema.ClassFuel, "coal")

	_, err := h.e.AddMembership(h.ctx, schema.ClassGenerator, schema.ClassFuel, "gen1", "coal", schema.CollectionFuels)
	if err != nil {
		t.Fatalf("AddMembership failed: %v", err)
	}

	has, err := h.e.CheckMembershipExists(h.ctx, "gen1", "coal", schema.CollectionFuels)
	if err != nil {
		t.Fatalf("CheckMembershipExists failed: %v", err)
	}
	if !has {
		t.Error("expected the gen1 -> coal membership to be resolvable")
	}
}

func TestAddMembershipsFromRecordsRejectsWrongKeySet(t *testing.T) {
	h := newEngineTestHelper(t)

	err := h.e.AddMembershipsFromRecords(h.ctx, []map[string]any{
		{"parent_class_id": int64(1), "parent_object_id": int64(1)},
	}, 0)
	if err == nil {
		t.Fatal("expected ErrMissingKey for a record missing required keys")
	}
}

func TestAddMembershipsFromRecordsInsertsAll(t *testing.T) {
	h := newEngineTestHelper(t)
	genID := h.addObject(schema.ClassGenerator, "gen1")
	fuelID := h.addObject(schema.ClassFuel, "coal")
	genClassID, err := h.e.GetClassID(h.ctx, schema.ClassGenerator)
	if err != nil {
		t.Fatalf("GetClassID failed: %v", err)
	}
	fuelClassID, err := h.e.GetClassID(h.ctx, schema.ClassFuel)
	if err != nil {
		t.Fatalf("GetClassID failed: %v", err)
	}
	collectionID, err := h.e.GetCollectionID(h.ctx, schema.CollectionFuels, schema.ClassGenerator, schema.ClassFuel)
	if err != nil {
		t.Fatalf("GetCollectionID failed: %v", err)
	}

	err = h.e.AddMembershipsFromRecords(h.ctx, []map[string]any{
		{
			"parent_class_id":  genClassID,
			"parent_object_id": genID,
			"child_class_id":   fuelClassID,
			"child_object_id":  fuelID,
			"collection_id":    collectionID,
		},
	}, 0)
	if err != nil {
		t.Fatalf("AddMembershipsFromRecords failed: %v", err)
	}

	has, err := h.e.CheckMembershipExists(h.ctx, "gen1", "coal", schema.CollectionFuels)
	if err != nil {
		t.Fatalf("CheckMembershipExists failed: %v", err)
	}
	if !has {
		t.Error("expected AddMembershipsFromRecords to have inserted the membership")
	}
}
