package engine

import (
	"context"
	"fmt"

	"github.com/gridmodel/plexosdb/internal/schema"
	"github.com/gridmodel/plexosdb/internal/storage"
)

// objectNameKey is the record field naming the object each bulk-ingest
// record belongs to; every other key is treated as a property name.
const objectNameKey = "name"

const defaultBulkChunkSize = 10000

// AddPropertiesFromRecordsOptions customizes AddPropertiesFromRecords
// beyond the required records and class.
type AddPropertiesFromRecordsOptions struct {
	ParentClass      schema.Class // defaults to schema.ClassSystem
	ParentObjectName string       // defaults to "System"
	Collection       schema.Collection
	Scenario         string
	ChunkSize        int // defaults to 10000
}

// triple identifies the (membership_id, property_id, value) match the
// scenario-tagging pass re-derives after insert. Duplicate triples cannot
// be told apart by this match — see the scenario-tagging note on
// AddPropertiesFromRecords.
type triple struct {
	membershipID int64
	propertyID   int64
	value        string
}

// AddPropertiesFromRecords bulk-ingests property values for objects that
// already have memberships, in one transaction: any failure rolls back
// every row. Records are maps keyed by object name (objectNameKey) plus
// one entry per property name. Unknown property names and objects that
// exist but lack a membership under (parentObjectName, collection) are
// silently skipped; a record naming an object that does not exist at all
// fails the whole call with ErrMissingKey.
//
// Scenario tagging (when opts.Scenario is set) links each inserted Data
// row back to its scenario by re-matching
// (membership_id, property_id, value) after the bulk insert, so duplicate
// triples cannot be told apart (AddProperty, which inserts one row, tags
// by that row's data_id instead). This is a deliberately preserved, not
// fixed, source quirk.
func (e *Engine) AddPropertiesFromRecords(ctx context.Context, records []map[string]any, class schema.Class, opts AddPropertiesFromRecordsOptions) error {
	parentClass := opts.ParentClass
	if parentClass == "" {
		parentClass = schema.ClassSystem
	}
	parentObjectName := opts.ParentObjectName
	if parentObjectName == "" {
		parentObjectName = "System"
	}
	chunkSize := opts.ChunkSize
	if chunkSize <= 0 {
		chunkSize = defaultBulkChunkSize
	}

	return e.driver.Transaction(ctx, func(scoped *storage.Driver) error {
		parentClassID, err := e.classID(ctx, scoped, parentClass)
		if err != nil {
			return err
		}
		classID, err := e.classID(ctx, scoped, class)
		if err != nil {
			return err
		}
		collectionID, err := e.collectionID(ctx, scoped, opts.Collection, parentClassID, classID)
		if err != nil {
			return err
		}

		propertyIDs, err := propertyCatalog(ctx, scoped, collectionID)
		if err != nil {
			return err
		}

		names := make([]string, 0, len(records))
		for _, rec := range records {
			name, ok := rec[objectNameKey].(string)
			if !ok || name == "" {
				return fmt.Errorf("%w: bulk property record missing %q", ErrMissingKey, objectNameKey)
			}
			names = append(names, name)
		}
		objectIDs, err := e.objectIDsByName(ctx, scoped, names, classID)
		if err != nil {
			return err
		}
		for _, name := range names {
			if _, ok := objectIDs[name]; !ok {
				return fmt.Errorf("%w: object %q does not exist for class %q", ErrMissingKey, name, class)
			}
		}

		membershipIDs, err := e.membershipIDsByObjectName(ctx, scoped, parentObjectName, opts.Collection)
		if err != nil {
			return err
		}

		var triples []triple
		referencedProperties := map[int64]bool{}
		for _, rec := range records {
			name := rec[objectNameKey].(string)
			membershipID, ok := membershipIDs[name]
			if !ok {
				continue // silent skip: object exists but has no membership here
			}
			for key, val := range rec {
				if key == objectNameKey {
					continue
				}
				propertyID, ok := propertyIDs[key]
				if !ok {
					continue // silent skip: unknown property name
				}
				triples = append(triples, triple{membershipID, propertyID, scalarText(val)})
				referencedProperties[propertyID] = true
			}
		}
		if len(triples) == 0 {
			return nil
		}

		ids := make([]int64, 0, len(referencedProperties))
		for id := range referencedProperties {
			ids = append(ids, id)
		}
		if err := e.markPropertiesDynamic(ctx, scoped, ids); err != nil {
			return err
		}

		rows := make([][]any, len(triples))
		for i, t := range triples {
			rows[i] = []any{t.membershipID, t.propertyID, t.value}
		}
		if err := scoped.ExecuteMany(ctx, "INSERT INTO t_data (membership_id, property_id, value) VALUES (?, ?, ?)", rows); err != nil {
			return fmt.Errorf("engine: add_properties_from_records: %w", err)
		}

		if opts.Scenario != "" {
			if err := e.tagTriplesForScenario(ctx, scoped, triples, opts.Scenario, chunkSize); err != nil {
				return err
			}
		}
		return nil
	})
}

func propertyCatalog(ctx context.Context, scoped *storage.Driver, collectionID int64) (map[string]int64, error) {
	rows, err := scoped.Query(ctx, "SELECT name, property_id FROM t_property WHERE collection_id = ?", collectionID)
	if err != nil {
		return nil, fmt.Errorf("engine: property catalog: %w", err)
	}
	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row[0].(string)] = row[1].(int64)
	}
	return out, nil
}

func (e *Engine) objectIDsByName(ctx context.Context, scoped *storage.Driver, names []string, classID int64) (map[string]int64, error) {
	out := make(map[string]int64, len(names))
	if len(names) == 0 {
		return out, nil
	}
	placeholders := make([]string, len(names))
	args := make([]any, 0, len(names)+1)
	for i, n := range names {
		placeholders[i] = "?"
		args = append(args, n)
	}
	args = append(args, classID)
	query := fmt.Sprintf("SELECT name, object_id FROM t_object WHERE name IN (%s) AND class_id = ?", joinPlaceholders(placeholders))
	rows, err := scoped.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("engine: resolve object ids: %w", err)
	}
	for _, row := range rows {
		out[row[0].(string)] = row[1].(int64)
	}
	return out, nil
}

func (e *Engine) membershipIDsByObjectName(ctx context.Context, scoped *storage.Driver, parentName string, coll schema.Collection) (map[string]int64, error) {
	rows, err := scoped.Query(ctx, `
		SELECT ch.name, m.membership_id
		FROM t_membership m
		JOIN t_collection c ON c.collection_id = m.collection_id
		JOIN t_object p ON p.object_id = m.parent_object_id
		JOIN t_object ch ON ch.object_id = m.child_object_id
		WHERE c.name = ? AND p.name = ?
	`, string(coll), parentName)
	if err != nil {
		return nil, fmt.Errorf("engine: resolve membership ids: %w", err)
	}
	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row[0].(string)] = row[1].(int64)
	}
	return out, nil
}

// tagTriplesForScenario resolves or creates the scenario object, then in
// batches of chunkSize issues one INSERT...SELECT per triple matching
// (membership_id, property_id, value) — the defining, duplicate-unsafe
// link between an inserted Data row and its scenario tag.
func (e *Engine) tagTriplesForScenario(ctx context.Context, scoped *storage.Driver, triples []triple, scenario string, chunkSize int) error {
	scenarioID, err := e.ensureScenario(ctx, scoped, scenario)
	if err != nil {
		return err
	}
	for start := 0; start < len(triples); start += chunkSize {
		end := start + chunkSize
		if end > len(triples) {
			end = len(triples)
		}
		for _, t := range triples[start:end] {
			_, err := scoped.Execute(ctx,
				"INSERT INTO t_tag (data_id, object_id) SELECT data_id, ? FROM t_data WHERE membership_id = ? AND property_id = ? AND value = ?",
				scenarioID, t.membershipID, t.propertyID, t.value)
			if err != nil {
				return fmt.Errorf("engine: tag scenario %q: %w", scenario, err)
			}
		}
	}
	return nil
}

func joinPlaceholders(placeholders []string) string {
	out := ""
	for i, p := range placeholders {
		if i > 0 {
			out += ","
		}
		out += p
	}
	return out
}
