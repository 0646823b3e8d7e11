package engine

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/gridmodel/plexosdb/internal/schema"
	"github.com/gridmodel/plexosdb/internal/storage"
)

// collectionKey identifies one seeded t_collection row by its unique
// (name, parent, child) triple — the same triple the table's UNIQUE
// constraint enforces.
func collectionKey(name schema.Collection, parent, child schema.Class) string {
	return string(name) + "|" + string(parent) + "|" + string(child)
}

// collectionDef pairs one named collection with the parent/child class
// combination it admits. A collection name may appear more than once —
// e.g. "Fuels" both as the System's default collection for Fuel and as a
// Generator's fuel assignment — so the (name, parent, child) triple, not
// the name alone, identifies a unique t_collection row.
type collectionDef struct {
	Name   schema.Collection
	Parent schema.Class
	Child  schema.Class
}

// seedCollections enumerates every t_collection row the bootstrap schema
// ships with. This concrete graph of relationships is original to this
// module (the real PLEXOS schema.sql was not in the retrieval pack) but
// every name here is drawn from the closed schema.Collection enumeration.
var seedCollections = []collectionDef{
	{schema.CollectionGenerators, schema.ClassSystem, schema.ClassGenerator},
	{schema.CollectionFuels, schema.ClassSystem, schema.ClassFuel},
	{schema.CollectionFuels, schema.ClassGenerator, schema.ClassFuel},
	{schema.CollectionHeadStorage, schema.ClassGenerator, schema.ClassStorage},
	{schema.CollectionTailStorage, schema.ClassGenerator, schema.ClassStorage},
	{schema.CollectionNodes, schema.ClassSystem, schema.ClassNode},
	{schema.CollectionNodes, schema.ClassGenerator, schema.ClassNode},
	{schema.CollectionStorages, schema.ClassSystem, schema.ClassStorage},
	{schema.CollectionEmissions, schema.ClassSystem, schema.ClassEmission},
	{schema.CollectionEmissions, schema.ClassGenerator, schema.ClassEmission},
	{schema.CollectionReserves, schema.ClassSystem, schema.ClassReserve},
	{schema.CollectionReserves, schema.ClassGenerator, schema.ClassReserve},
	{schema.CollectionBatteries, schema.ClassSystem, schema.ClassBattery},
	{schema.CollectionRegions, schema.ClassSystem, schema.ClassRegion},
	{schema.CollectionZones, schema.ClassSystem, schema.ClassZone},
	{schema.CollectionRegion, schema.ClassZone, schema.ClassRegion},
	{schema.CollectionZone, schema.ClassNode, schema.ClassZone},
	{schema.CollectionLines, schema.ClassSystem, schema.ClassLine},
	{schema.CollectionNodeFrom, schema.ClassLine, schema.ClassNode},
	{schema.CollectionNodeTo, schema.ClassLine, schema.ClassNode},
	{schema.CollectionTransformers, schema.ClassSystem, schema.ClassTransformer},
	{schema.CollectionInterfaces, schema.ClassSystem, schema.ClassInterface},
	{schema.CollectionModels, schema.ClassSystem, schema.ClassModel},
	{schema.CollectionScenario, schema.ClassModel, schema.ClassScenario},
	{schema.CollectionScenarios, schema.ClassSystem, schema.ClassScenario},
	{schema.CollectionHorizon, schema.ClassModel, schema.ClassHorizon},
	{schema.CollectionHorizons, schema.ClassSystem, schema.ClassHorizon},
	{schema.CollectionReport, schema.ClassModel, schema.ClassReport},
	{schema.CollectionReports, schema.ClassSystem, schema.ClassReport},
	{schema.CollectionReferenceNode, schema.ClassZone, schema.ClassNode},
	{schema.CollectionPASA, schema.ClassSystem, schema.ClassPASA},
	{schema.CollectionMTSchedule, schema.ClassSystem, schema.ClassMTSchedule},
	{schema.CollectionSTSchedule, schema.ClassSystem, schema.ClassSTSchedule},
	{schema.CollectionTransmission, schema.ClassSystem, schema.ClassTransmission},
	{schema.CollectionProduction, schema.ClassSystem, schema.ClassProduction},
	{schema.CollectionDiagnostic, schema.ClassModel, schema.ClassDiagnostic},
	{schema.CollectionDiagnostics, schema.ClassSystem, schema.ClassDiagnostic},
	{schema.CollectionPerformance, schema.ClassSystem, schema.ClassPerformance},
	{schema.CollectionDataFiles, schema.ClassSystem, schema.ClassDataFile},
	{schema.CollectionConstraint, schema.ClassModel, schema.ClassConstraint},
	{schema.CollectionConstraints, schema.ClassSystem, schema.ClassConstraint},
	{schema.CollectionVariables, schema.ClassSystem, schema.ClassVariable},
}

// propertyDef seeds one t_property catalog row the bootstrap ships with.
// Like seedCollections, this vocabulary is original to this module (no
// retrievable schema.sql carried the real PLEXOS property catalog); it
// covers at minimum the property names the concrete scenarios in this
// component's specification exercise, so add_property/
// add_properties_from_records work against a freshly created schema
// without a caller first having to declare properties through raw SQL.
type propertyDef struct {
	Name       string
	Collection schema.Collection
	Parent     schema.Class
	Child      schema.Class
	Unit       string // "" for no unit row
}

var seedProperties = []propertyDef{
	{"Max Capacity", schema.CollectionGenerators, schema.ClassSystem, schema.ClassGenerator, "MW"},
	{"Heat Rate", schema.CollectionGenerators, schema.ClassSystem, schema.ClassGenerator, "GJ/MWh"},
	{"Fuel Price", schema.CollectionFuels, schema.ClassSystem, schema.ClassFuel, "$/GJ"},
	{"Load", schema.CollectionNodes, schema.ClassSystem, schema.ClassNode, "MW"},
}

// seedCatalog populates t_class, t_collection, the fixed Property
// catalog, and the system singleton Object inside the caller's
// transaction scope using parameterized inserts — never a literal
// INSERT script — so every catalog id is resolved through the same
// path a later add_object call would use.
func seedCatalog(ctx context.Context, d *storage.Driver) error {
	classID := make(map[schema.Class]int64, len(schema.AllClasses))
	for _, class := range schema.AllClasses {
		res, err := d.Execute(ctx, "INSERT INTO t_class (name) VALUES (?)", string(class))
		if err != nil {
			return fmt.Errorf("engine: seed class %q: %w", class, err)
		}
		id, err := storage.LastInsertRowID(res)
		if err != nil {
			return fmt.Errorf("engine: seed class %q: %w", class, err)
		}
		classID[class] = id
	}

	collectionID := make(map[string]int64, len(seedCollections))
	for _, def := range seedCollections {
		parentID, ok := classID[def.Parent]
		if !ok {
			return fmt.Errorf("engine: seed collection %q: unknown parent class %q", def.Name, def.Parent)
		}
		childID, ok := classID[def.Child]
		if !ok {
			return fmt.Errorf("engine: seed collection %q: unknown child class %q", def.Name, def.Child)
		}
		res, err := d.Execute(ctx,
			"INSERT INTO t_collection (name, parent_class_id, child_class_id) VALUES (?, ?, ?)",
			string(def.Name), parentID, childID)
		if err != nil {
			return fmt.Errorf("engine: seed collection %q: %w", def.Name, err)
		}
		id, err := storage.LastInsertRowID(res)
		if err != nil {
			return fmt.Errorf("engine: seed collection %q: %w", def.Name, err)
		}
		collectionID[collectionKey(def.Name, def.Parent, def.Child)] = id
	}

	for _, def := range seedProperties {
		collID, ok := collectionID[collectionKey(def.Collection, def.Parent, def.Child)]
		if !ok {
			return fmt.Errorf("engine: seed property %q: unknown collection %q for %q -> %q", def.Name, def.Collection, def.Parent, def.Child)
		}
		var unitID any
		if def.Unit != "" {
			res, err := d.Execute(ctx, "INSERT INTO t_unit (value) VALUES (?)", def.Unit)
			if err != nil {
				return fmt.Errorf("engine: seed unit %q: %w", def.Unit, err)
			}
			id, err := storage.LastInsertRowID(res)
			if err != nil {
				return fmt.Errorf("engine: seed unit %q: %w", def.Unit, err)
			}
			unitID = id
		}
		if _, err := d.Execute(ctx,
			"INSERT INTO t_property (name, collection_id, unit_id) VALUES (?, ?, ?)",
			def.Name, collID, unitID); err != nil {
			return fmt.Errorf("engine: seed property %q: %w", def.Name, err)
		}
	}

	systemClassID := classID[schema.ClassSystem]
	_, err := d.Execute(ctx,
		"INSERT INTO t_object (name, class_id, description, guid) VALUES (?, ?, ?, ?)",
		"System", systemClassID, "", uuid.NewString())
	if err != nil {
		return fmt.Errorf("engine: seed system object: %w", err)
	}
	return nil
}
