package engine

import (
	"testing"

	"github.com/gridmodel/plexosdb/internal/schema"
)

func TestGetClassIDAndCheckClassExists(t *testing.T) {
	h := newEngineTestHelper(t)

	id, err := h.e.GetClassID(h.ctx, schema.ClassGenerator)
	if err != nil {
		t.Fatalf("GetClassID failed: %v", err)
	}
	if id == 0 {
		t.Error("GetClassID returned 0")
	}

	exists, err := h.e.CheckClassExists(h.ctx, schema.Class("NotARealClass"))
	if err != nil {
		t.Fatalf("CheckClassExists failed: %v", err)
	}
	if exists {
		t.Error("CheckClassExists = true for an unseeded class")
	}
}

func TestGetCollectionIDResolvesSeededTriple(t *testing.T) {
	h := newEngineTestHelper(t)

	id, err := h.e.GetCollectionID(h.ctx, schema.CollectionGenerators, schema.ClassSystem, schema.ClassGenerator)
	if err != nil {
		t.Fatalf("GetCollectionID failed: %v", err)
	}
	if id == 0 {
		t.Error("GetCollectionID returned 0")
	}

	_, err = h.e.GetCollectionID(h.ctx, schema.CollectionGenerators, schema.ClassGenerator, schema.ClassSystem)
	if err == nil {
		t.Error("expected ErrNotFound for the reversed, unseeded triple")
	}
}

func TestGetObjectsIDPartialMatch(t *testing.T) {
	h := newEngineTestHelper(t)
	h.addObject(schema.ClassGenerator, "gen1")
	h.addObject(schema.ClassGenerator, "gen2")

	result, err := h.e.GetObjectsID(h.ctx, []string{"gen1", "gen2", "missing"}, schema.ClassGenerator)
	if err != nil {
		t.Fatalf("GetObjectsID failed: %v", err)
	}
	if len(result) != 2 {
		t.Fatalf("GetObjectsID returned %d entries, want 2", len(result))
	}
	if _, ok := result["missing"]; ok {
		t.Error("GetObjectsID should omit names with no matching object")
	}
}
