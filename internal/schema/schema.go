// Package schema is the static catalog of table names, id columns, and the
// closed Class/Collection enumerations the data engine dispatches on.
package schema

import "strings"

// Table identifies one relational table plus the name of its integer
// primary-key column, or "" when the table has no single-column surrogate
// key (composite keys, or no key at all).
type Table struct {
	Name    string
	IDColumn string
}

// The fixed set of tables. Every row that references another table does so
// by id (a weak reference, never an ownership pointer) — see schema.Table.
var (
	TableAttribute     = Table{"t_attribute", "attribute_id"}
	TableAttributeData = Table{"t_attribute_data", ""}
	TableClass         = Table{"t_class", "class_id"}
	TableObjects       = Table{"t_object", "object_id"}
	TableCategories    = Table{"t_category", "category_id"}
	TableCollection    = Table{"t_collection", "collection_id"}
	TableMemberships   = Table{"t_membership", "membership_id"}
	TableProperty      = Table{"t_property", "property_id"}
	TableData          = Table{"t_data", "data_id"}
	TableBand          = Table{"t_band", "band_id"}
	TableReport        = Table{"t_report", ""}
	TableTags          = Table{"t_tag", "tag_id"}
	TableText          = Table{"t_text", "text_id"}
	TableUnits         = Table{"t_unit", "unit_id"}
	TableConfig        = Table{"t_config", ""}
)

// tablesByName is the name→Table lookup backing StrToSchema.
var tablesByName = map[string]Table{
	TableAttribute.Name:     TableAttribute,
	TableAttributeData.Name: TableAttributeData,
	TableClass.Name:         TableClass,
	TableObjects.Name:       TableObjects,
	TableCategories.Name:    TableCategories,
	TableCollection.Name:    TableCollection,
	TableMemberships.Name:   TableMemberships,
	TableProperty.Name:      TableProperty,
	TableData.Name:          TableData,
	TableBand.Name:          TableBand,
	TableReport.Name:        TableReport,
	TableTags.Name:          TableTags,
	TableText.Name:          TableText,
	TableUnits.Name:         TableUnits,
	TableConfig.Name:        TableConfig,
}

// AllTables lists every Table this engine maintains, for callers (XML
// export) that must walk the whole schema rather than look up one name.
var AllTables = []Table{
	TableClass, TableCollection, TableCategories, TableObjects, TableMemberships,
	TableUnits, TableProperty, TableData, TableBand, TableTags, TableText,
	TableAttribute, TableAttributeData, TableReport, TableConfig,
}

// StrToSchema returns the Table entry whose name matches, or false if the
// XML/SQL tag does not correspond to a table this engine maintains.
func StrToSchema(name string) (Table, bool) {
	t, ok := tablesByName[name]
	return t, ok
}

// Class enumerates the entity kinds this model recognizes. The set is
// closed: dispatch on Class is a pure lookup, never reflection.
type Class string

const (
	ClassSystem       Class = "System"
	ClassGenerator    Class = "Generator"
	ClassFuel         Class = "Fuel"
	ClassBattery      Class = "Battery"
	ClassStorage      Class = "Storage"
	ClassEmission     Class = "Emission"
	ClassReserve      Class = "Reserve"
	ClassRegion       Class = "Region"
	ClassZone         Class = "Zone"
	ClassNode         Class = "Node"
	ClassLine         Class = "Line"
	ClassTransformer  Class = "Transformer"
	ClassInterface    Class = "Interface"
	ClassDataFile     Class = "Data File"
	ClassTimeslice    Class = "Timeslice"
	ClassScenario     Class = "Scenario"
	ClassModel        Class = "Model"
	ClassHorizon      Class = "Horizon"
	ClassReport       Class = "Report"
	ClassPASA         Class = "PASA"
	ClassMTSchedule   Class = "MTSchedule"
	ClassSTSchedule   Class = "STSchedule"
	ClassTransmission Class = "Transmission"
	ClassDiagnostic   Class = "Diagnostic"
	ClassProduction   Class = "Production"
	ClassPerformance  Class = "Performance"
	ClassVariable     Class = "Variable"
	ClassConstraint   Class = "Constraint"
)

// AllClasses lists every Class in the closed enumeration, in declaration
// order. Used to seed the t_class catalog at schema creation.
var AllClasses = []Class{
	ClassSystem, ClassGenerator, ClassFuel, ClassBattery, ClassStorage,
	ClassEmission, ClassReserve, ClassRegion, ClassZone, ClassNode,
	ClassLine, ClassTransformer, ClassInterface, ClassDataFile,
	ClassTimeslice, ClassScenario, ClassModel, ClassHorizon, ClassReport,
	ClassPASA, ClassMTSchedule, ClassSTSchedule, ClassTransmission,
	ClassDiagnostic, ClassProduction, ClassPerformance, ClassVariable,
	ClassConstraint,
}

// Collection enumerates the permitted relationship kinds between two
// classes. A Collection name may pair with more than one (parent, child)
// class combination — e.g. "Nodes" names both the System→Node and the
// Generator→Node relationship — so Collection alone never identifies a
// unique t_collection row; the triple (Collection, parent Class, child
// Class) does.
type Collection string

const (
	CollectionGenerators    Collection = "Generators"
	CollectionFuels         Collection = "Fuels"
	CollectionHeadStorage   Collection = "HeadStorage"
	CollectionTailStorage   Collection = "TailStorage"
	CollectionNodes         Collection = "Nodes"
	CollectionStorages      Collection = "Storages"
	CollectionEmissions     Collection = "Emissions"
	CollectionReserves      Collection = "Reserves"
	CollectionBatteries     Collection = "Batteries"
	CollectionRegions       Collection = "Regions"
	CollectionZones         Collection = "Zones"
	CollectionRegion        Collection = "Region"
	CollectionZone          Collection = "Zone"
	CollectionLines         Collection = "Lines"
	CollectionNodeFrom      Collection = "NodeFrom"
	CollectionNodeTo        Collection = "NodeTo"
	CollectionTransformers  Collection = "Transformers"
	CollectionInterfaces    Collection = "Interfaces"
	CollectionModels        Collection = "Models"
	CollectionScenario      Collection = "Scenario"
	CollectionScenarios     Collection = "Scenarios"
	CollectionHorizon       Collection = "Horizon"
	CollectionHorizons      Collection = "Horizons"
	CollectionReport        Collection = "Report"
	CollectionReports       Collection = "Reports"
	CollectionReferenceNode Collection = "ReferenceNode"
	CollectionPASA          Collection = "PASA"
	CollectionMTSchedule    Collection = "MTSchedule"
	CollectionSTSchedule    Collection = "STSchedule"
	CollectionTransmission  Collection = "Transmission"
	CollectionProduction    Collection = "Production"
	CollectionDiagnostic    Collection = "Diagnostic"
	CollectionDiagnostics   Collection = "Diagnostics"
	CollectionPerformance   Collection = "Performance"
	CollectionDataFiles     Collection = "DataFiles"
	CollectionConstraint    Collection = "Constraint"
	CollectionConstraints   Collection = "Constraints"
	CollectionVariables     Collection = "Variables"
)

// AllCollections lists every Collection in the closed enumeration.
var AllCollections = []Collection{
	CollectionGenerators, CollectionFuels, CollectionHeadStorage,
	CollectionTailStorage, CollectionNodes, CollectionStorages,
	CollectionEmissions, CollectionReserves, CollectionBatteries,
	CollectionRegions, CollectionZones, CollectionRegion, CollectionZone,
	CollectionLines, CollectionNodeFrom, CollectionNodeTo,
	CollectionTransformers, CollectionInterfaces, CollectionModels,
	CollectionScenario, CollectionScenarios, CollectionHorizon,
	CollectionHorizons, CollectionReport, CollectionReports,
	CollectionReferenceNode, CollectionPASA, CollectionMTSchedule,
	CollectionSTSchedule, CollectionTransmission, CollectionProduction,
	CollectionDiagnostic, CollectionDiagnostics, CollectionPerformance,
	CollectionDataFiles, CollectionConstraint, CollectionConstraints,
	CollectionVariables,
}

var collectionSet = func() map[Collection]bool {
	m := make(map[Collection]bool, len(AllCollections))
	for _, c := range AllCollections {
		m[c] = true
	}
	return m
}()

// pluralize applies ordinary English pluralization: a trailing consonant +
// "y" becomes "ies" (Battery -> Batteries); everything else gets a plain
// "s" suffix (Generator -> Generators, Fuel -> Fuels).
func pluralize(s string) string {
	if n := len(s); n >= 2 && s[n-1] == 'y' && !strings.ContainsRune("aeiouAEIOU", rune(s[n-2])) {
		return s[:n-1] + "ies"
	}
	return s + "s"
}

// DefaultCollectionFor returns the conventional collection used when the
// engine auto-creates a system membership for class. The rule is the
// plural form of the class name, with two exceptions: Data File maps to
// DataFiles (the space defeats naive pluralization), and a class whose
// plural is not in the enumeration but whose own name is (PASA,
// MTSchedule, STSchedule, Transmission, Production, Performance) maps to
// itself.
func DefaultCollectionFor(class Class) (Collection, bool) {
	if class == ClassDataFile {
		return CollectionDataFiles, true
	}
	plural := Collection(pluralize(string(class)))
	if collectionSet[plural] {
		return plural, true
	}
	singular := Collection(class)
	if collectionSet[singular] {
		return singular, true
	}
	return "", false
}
