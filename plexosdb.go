// Package plexosdb provides a minimal public API over the engine's
// schema-aware, in-memory-first persistence layer for a power-systems
// modeling data model.
//
// Most callers only need Open, the Add*/Get*/Delete* operations, and
// FromXML/ToXML for round-tripping the vendor document format. Direct
// access to the underlying relational store is available through
// Engine.Driver for callers that need to run their own SQL.
package plexosdb

import (
	"context"
	"database/sql"

	"github.com/gridmodel/plexosdb/internal/engine"
	"github.com/gridmodel/plexosdb/internal/schema"
)

// Engine is the typed API over one database: object/membership/property
// management, copy and delete, and XML import/export.
type Engine = engine.Engine

// Open constructs an Engine over dsn ("" or "none" for in-memory, else a
// filesystem path). When newDB is true, a fresh schema is created and the
// Class/Collection catalog seeded; otherwise the existing database is
// adopted as-is.
func Open(ctx context.Context, dsn string, newDB bool) (*Engine, error) {
	return engine.Open(ctx, dsn, newDB)
}

// FromXML creates a fresh database at dsn and loads it from the
// MasterDataSet document at path.
func FromXML(ctx context.Context, dsn, path string) (*Engine, error) {
	return engine.FromXML(ctx, dsn, path)
}

// OpenWithHandle adopts an already-open *sql.DB instead of opening a new
// one, for callers embedding this engine alongside a connection it already
// owns. The caller must ensure a schema is already present.
func OpenWithHandle(db *sql.DB, inMemory bool) *Engine {
	return engine.OpenWithHandle(db, inMemory)
}

// Class and Collection are the closed entity/relationship enumerations
// every operation below dispatches on.
type (
	Class      = schema.Class
	Collection = schema.Collection
	Table      = schema.Table
)

// Class constants.
const (
	ClassSystem       = schema.ClassSystem
	ClassGenerator    = schema.ClassGenerator
	ClassFuel         = schema.ClassFuel
	ClassBattery      = schema.ClassBattery
	ClassStorage      = schema.ClassStorage
	ClassEmission     = schema.ClassEmission
	ClassReserve      = schema.ClassReserve
	ClassRegion       = schema.ClassRegion
	ClassZone         = schema.ClassZone
	ClassNode         = schema.ClassNode
	ClassLine         = schema.ClassLine
	ClassTransformer  = schema.ClassTransformer
	ClassInterface    = schema.ClassInterface
	ClassDataFile     = schema.ClassDataFile
	ClassTimeslice    = schema.ClassTimeslice
	ClassScenario     = schema.ClassScenario
	ClassModel        = schema.ClassModel
	ClassHorizon      = schema.ClassHorizon
	ClassReport       = schema.ClassReport
	ClassPASA         = schema.ClassPASA
	ClassMTSchedule   = schema.ClassMTSchedule
	ClassSTSchedule   = schema.ClassSTSchedule
	ClassTransmission = schema.ClassTransmission
	ClassDiagnostic   = schema.ClassDiagnostic
	ClassProduction   = schema.ClassProduction
	ClassPerformance  = schema.ClassPerformance
	ClassVariable     = schema.ClassVariable
	ClassConstraint   = schema.ClassConstraint
)

// Collection constants.
const (
	CollectionGenerators    = schema.CollectionGenerators
	CollectionFuels         = schema.CollectionFuels
	CollectionHeadStorage   = schema.CollectionHeadStorage
	CollectionTailStorage   = schema.CollectionTailStorage
	CollectionNodes         = schema.CollectionNodes
	CollectionStorages      = schema.CollectionStorages
	CollectionEmissions     = schema.CollectionEmissions
	CollectionReserves      = schema.CollectionReserves
	CollectionBatteries     = schema.CollectionBatteries
	CollectionRegions       = schema.CollectionRegions
	CollectionZones         = schema.CollectionZones
	CollectionRegion        = schema.CollectionRegion
	CollectionZone          = schema.CollectionZone
	CollectionLines         = schema.CollectionLines
	CollectionNodeFrom      = schema.CollectionNodeFrom
	CollectionNodeTo        = schema.CollectionNodeTo
	CollectionTransformers  = schema.CollectionTransformers
	CollectionInterfaces    = schema.CollectionInterfaces
	CollectionModels        = schema.CollectionModels
	CollectionScenario      = schema.CollectionScenario
	CollectionScenarios     = schema.CollectionScenarios
	CollectionHorizon       = schema.CollectionHorizon
	CollectionHorizons      = schema.CollectionHorizons
	CollectionReport        = schema.CollectionReport
	CollectionReports       = schema.CollectionReports
	CollectionReferenceNode = schema.CollectionReferenceNode
	CollectionPASA          = schema.CollectionPASA
	CollectionMTSchedule    = schema.CollectionMTSchedule
	CollectionSTSchedule    = schema.CollectionSTSchedule
	CollectionTransmission  = schema.CollectionTransmission
	CollectionProduction    = schema.CollectionProduction
	CollectionDiagnostic    = schema.CollectionDiagnostic
	CollectionDiagnostics   = schema.CollectionDiagnostics
	CollectionPerformance   = schema.CollectionPerformance
	CollectionDataFiles     = schema.CollectionDataFiles
	CollectionConstraint    = schema.CollectionConstraint
	CollectionConstraints   = schema.CollectionConstraints
	CollectionVariables     = schema.CollectionVariables
)

// Option and record types re-exported from internal/engine.
type (
	AddObjectOptions                = engine.AddObjectOptions
	AddPropertyOptions              = engine.AddPropertyOptions
	AddPropertiesFromRecordsOptions = engine.AddPropertiesFromRecordsOptions
	GetObjectPropertiesOptions      = engine.GetObjectPropertiesOptions
	IteratePropertiesOptions        = engine.IteratePropertiesOptions
	CopyObjectOptions               = engine.CopyObjectOptions
	PropertyRecord                  = engine.PropertyRecord
)

// Error sentinels re-exported from internal/engine, for callers using
// errors.Is against an *Engine method's returned error.
var (
	ErrNotFound         = engine.ErrNotFound
	ErrNameInvalid      = engine.ErrNameInvalid
	ErrNoProperties     = engine.ErrNoProperties
	ErrMissingKey       = engine.ErrMissingKey
	ErrMultipleElements = engine.ErrMultipleElements
	ErrIO               = engine.ErrIO
	ErrUsage            = engine.ErrUsage
)
